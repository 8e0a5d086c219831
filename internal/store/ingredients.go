package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/wimf-app/wimf/internal/query"
)

const ingredientJoin = `SELECT i.id_ingredient, i.name_ingredient, i.fk_id_ingredient_category,
	c.name_ingredient_category
	FROM ingredients i
	JOIN ingredient_categories c ON c.id_ingredient_category = i.fk_id_ingredient_category`

// ListIngredients returns every ingredient with its category name.
func (s *Store) ListIngredients(ctx context.Context) ([]map[string]any, error) {
	rows, err := s.db.QueryxContext(ctx, ingredientJoin+` ORDER BY i.name_ingredient`)
	if err != nil {
		return nil, err
	}
	return scanMaps(rows)
}

// SearchIngredients matches ingredients whose name contains every term, so
// "lait+coco" narrows to coconut milk instead of widening to anything milky.
func (s *Store) SearchIngredients(ctx context.Context, terms []string) ([]map[string]any, error) {
	pred, err := query.SearchPredicate("i.name_ingredient", s.like(), terms, query.AllTerms, query.Dollar, 1)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryxContext(ctx,
		ingredientJoin+` WHERE `+pred.SQL+` ORDER BY i.name_ingredient`,
		pred.Params...)
	if err != nil {
		return nil, err
	}
	return scanMaps(rows)
}

// GetIngredient fetches one ingredient with its category name.
func (s *Store) GetIngredient(ctx context.Context, id int64) (map[string]any, error) {
	row := s.db.QueryRowxContext(ctx, ingredientJoin+` WHERE i.id_ingredient = $1`, id)
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

// CreateIngredient inserts an ingredient under a category. Returns
// ErrConflict for a duplicate name and ErrNotFound for a missing category.
func (s *Store) CreateIngredient(ctx context.Context, name string, categoryID int64) (map[string]any, error) {
	m := map[string]any{}
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		var catExists int
		if err := tx.GetContext(ctx, &catExists,
			`SELECT COUNT(*) FROM ingredient_categories WHERE id_ingredient_category = $1`,
			categoryID); err != nil {
			return err
		}
		if catExists == 0 {
			return ErrNotFound
		}

		var taken int
		q := `SELECT COUNT(*) FROM ingredients WHERE ` + ciEq("name_ingredient", "$1")
		if err := tx.GetContext(ctx, &taken, q, name); err != nil {
			return fmt.Errorf("check ingredient name: %w", err)
		}
		if taken > 0 {
			return ErrConflict
		}

		row := tx.QueryRowxContext(ctx,
			`INSERT INTO ingredients (name_ingredient, fk_id_ingredient_category)
			VALUES ($1, $2) RETURNING *`,
			name, categoryID)
		return classify(row.MapScan(m))
	})
	if err != nil {
		return nil, err
	}
	normalizeRow(m)
	return m, nil
}

// UpdateIngredient renames an ingredient and moves it between categories.
func (s *Store) UpdateIngredient(ctx context.Context, id int64, name string, categoryID int64) (map[string]any, error) {
	m := map[string]any{}
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		var exists int
		if err := tx.GetContext(ctx, &exists,
			`SELECT COUNT(*) FROM ingredients WHERE id_ingredient = $1`, id); err != nil {
			return err
		}
		if exists == 0 {
			return ErrNotFound
		}

		var taken int
		q := `SELECT COUNT(*) FROM ingredients WHERE ` + ciEq("name_ingredient", "$1") + ` AND id_ingredient != $2`
		if err := tx.GetContext(ctx, &taken, q, name, id); err != nil {
			return fmt.Errorf("check ingredient name: %w", err)
		}
		if taken > 0 {
			return ErrConflict
		}

		row := tx.QueryRowxContext(ctx,
			`UPDATE ingredients SET name_ingredient = $1, fk_id_ingredient_category = $2
			WHERE id_ingredient = $3 RETURNING *`,
			name, categoryID, id)
		return classify(row.MapScan(m))
	})
	if err != nil {
		return nil, err
	}
	normalizeRow(m)
	return m, nil
}

// DeleteIngredient removes an ingredient; recipe and ban links cascade.
func (s *Store) DeleteIngredient(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM ingredients WHERE id_ingredient = $1`, id)
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

// IngredientQuantity is one ingredient line of a recipe.
type IngredientQuantity struct {
	IngredientID int64    `json:"fk_id_ingredient"`
	Quantity     *float64 `json:"quantity"`
	Mesurements  *string  `json:"mesurements"`
}

// IngredientsForRecipe returns the ingredient lines of a recipe with name,
// quantity and unit.
func (s *Store) IngredientsForRecipe(ctx context.Context, recipeID int64) ([]map[string]any, error) {
	rows, err := s.db.QueryxContext(ctx,
		`SELECT i.id_ingredient, i.name_ingredient, ri.quantity, ri.mesurements
		FROM recipes_has_ingredients ri
		JOIN ingredients i ON i.id_ingredient = ri.fk_id_ingredient
		WHERE ri.fk_id_recipe = $1
		ORDER BY i.name_ingredient`,
		recipeID)
	if err != nil {
		return nil, err
	}
	return scanMaps(rows)
}

// LinkIngredients attaches ingredient lines to a recipe in one multi-row
// insert. Duplicate pairs surface as ErrConflict.
func (s *Store) LinkIngredients(ctx context.Context, recipeID int64, lines []IngredientQuantity) ([]map[string]any, error) {
	if len(lines) == 0 {
		return nil, query.ErrNoTargets
	}
	values := ""
	params := make([]any, 0, 1+3*len(lines))
	params = append(params, recipeID)
	for i, line := range lines {
		if i > 0 {
			values += ", "
		}
		base := 2 + 3*i
		values += fmt.Sprintf("($1, $%d, $%d, $%d)", base, base+1, base+2)
		params = append(params, line.IngredientID, line.Quantity, line.Mesurements)
	}
	rows, err := s.db.QueryxContext(ctx,
		`INSERT INTO recipes_has_ingredients (fk_id_recipe, fk_id_ingredient, quantity, mesurements)
		VALUES `+values+` RETURNING *`,
		params...)
	if err != nil {
		return nil, classify(err)
	}
	return scanMaps(rows)
}

// UnlinkIngredient removes one ingredient line from a recipe.
func (s *Store) UnlinkIngredient(ctx context.Context, recipeID, ingredientID int64) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM recipes_has_ingredients WHERE fk_id_recipe = $1 AND fk_id_ingredient = $2`,
		recipeID, ingredientID)
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

// Ingredients is the plain resource view of the ingredients table, used by
// the ban list join.
var Ingredients = Resource{Table: "ingredients", IDCol: "id_ingredient", NameCol: "name_ingredient"}

// BannedIngredientsForUser returns the ingredients a user banned, with
// their category names.
func (s *Store) BannedIngredientsForUser(ctx context.Context, userID int64) ([]map[string]any, error) {
	rows, err := s.db.QueryxContext(ctx,
		`SELECT i.id_ingredient, i.name_ingredient, c.name_ingredient_category
		FROM banned_ingredients b
		JOIN ingredients i ON b.fk_id_ingredient = i.id_ingredient
		JOIN ingredient_categories c ON i.fk_id_ingredient_category = c.id_ingredient_category
		WHERE b.fk_id_user = $1
		ORDER BY i.name_ingredient`,
		userID)
	if err != nil {
		return nil, err
	}
	return scanMaps(rows)
}
