package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/wimf-app/wimf/internal/query"
)

// Resource describes a named lookup table (tags, diets, ustensils,
// recipe categories...). The historical column names differ per table, so
// rows come back as maps and keep those names all the way to the JSON
// response.
type Resource struct {
	Table   string
	IDCol   string
	NameCol string
}

var (
	Tags                 = Resource{Table: "tags", IDCol: "id_tag", NameCol: "name_tag"}
	Diets                = Resource{Table: "diets", IDCol: "id_diet", NameCol: "name_diet"}
	Ustensils            = Resource{Table: "ustensils", IDCol: "id_ustensil", NameCol: "name_ustensil"}
	RecipeCategories     = Resource{Table: "recipe_categories", IDCol: "id_recipe_category", NameCol: "name_recipe_category"}
	IngredientCategories = Resource{Table: "ingredient_categories", IDCol: "id_ingredient_category", NameCol: "name_ingredient_category"}
)

func (r Resource) validate() error {
	for _, ident := range []string{r.Table, r.IDCol, r.NameCol} {
		if err := query.ValidateIdentifier(ident); err != nil {
			return err
		}
	}
	return nil
}

// ListResource returns every row of the table ordered by name.
func (s *Store) ListResource(ctx context.Context, r Resource) ([]map[string]any, error) {
	if err := r.validate(); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryxContext(ctx,
		fmt.Sprintf(`SELECT * FROM %s ORDER BY %s`, r.Table, r.NameCol))
	if err != nil {
		return nil, err
	}
	return scanMaps(rows)
}

// SearchResource matches rows whose name contains any of the terms.
func (s *Store) SearchResource(ctx context.Context, r Resource, terms []string) ([]map[string]any, error) {
	if err := r.validate(); err != nil {
		return nil, err
	}
	pred, err := query.SearchPredicate(r.NameCol, s.like(), terms, query.AnyTerm, query.Dollar, 1)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryxContext(ctx,
		fmt.Sprintf(`SELECT * FROM %s WHERE %s ORDER BY %s`, r.Table, pred.SQL, r.NameCol),
		pred.Params...)
	if err != nil {
		return nil, err
	}
	return scanMaps(rows)
}

// GetResource fetches one row by id. Returns ErrNotFound for a missing row.
func (s *Store) GetResource(ctx context.Context, r Resource, id int64) (map[string]any, error) {
	if err := r.validate(); err != nil {
		return nil, err
	}
	row := s.db.QueryRowxContext(ctx,
		fmt.Sprintf(`SELECT * FROM %s WHERE %s = $1`, r.Table, r.IDCol), id)
	m := map[string]any{}
	err := row.MapScan(m)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	normalizeRow(m)
	return m, nil
}

// CreateResource inserts a named row. Returns ErrConflict when the name is
// already taken.
func (s *Store) CreateResource(ctx context.Context, r Resource, name string) (map[string]any, error) {
	if err := r.validate(); err != nil {
		return nil, err
	}
	m := map[string]any{}
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		var taken int
		q := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s`, r.Table, ciEq(r.NameCol, "$1"))
		if err := tx.GetContext(ctx, &taken, q, name); err != nil {
			return fmt.Errorf("check %s name: %w", r.Table, err)
		}
		if taken > 0 {
			return ErrConflict
		}
		row := tx.QueryRowxContext(ctx,
			fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1) RETURNING *`, r.Table, r.NameCol),
			name)
		return classify(row.MapScan(m))
	})
	if err != nil {
		return nil, err
	}
	normalizeRow(m)
	return m, nil
}

// UpdateResource renames a row. Missing target is ErrNotFound; a collision
// with another row is ErrConflict.
func (s *Store) UpdateResource(ctx context.Context, r Resource, id int64, name string) (map[string]any, error) {
	if err := r.validate(); err != nil {
		return nil, err
	}
	m := map[string]any{}
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		var exists int
		if err := tx.GetContext(ctx, &exists,
			fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1`, r.Table, r.IDCol), id); err != nil {
			return err
		}
		if exists == 0 {
			return ErrNotFound
		}

		var taken int
		q := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s AND %s != $2`,
			r.Table, ciEq(r.NameCol, "$1"), r.IDCol)
		if err := tx.GetContext(ctx, &taken, q, name, id); err != nil {
			return fmt.Errorf("check %s name: %w", r.Table, err)
		}
		if taken > 0 {
			return ErrConflict
		}

		row := tx.QueryRowxContext(ctx,
			fmt.Sprintf(`UPDATE %s SET %s = $1 WHERE %s = $2 RETURNING *`,
				r.Table, r.NameCol, r.IDCol),
			name, id)
		return classify(row.MapScan(m))
	})
	if err != nil {
		return nil, err
	}
	normalizeRow(m)
	return m, nil
}

// DeleteResource removes a row; link rows cascade. Returns ErrNotFound when
// nothing was deleted.
func (s *Store) DeleteResource(ctx context.Context, r Resource, id int64) error {
	if err := r.validate(); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, r.Table, r.IDCol), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
