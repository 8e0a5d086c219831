package store

import (
	"context"
	"fmt"

	"github.com/wimf-app/wimf/internal/query"
)

// LinkTable describes a many-to-many join table. Owner is the side the URL
// names first (the recipe, the diet, the user); Target is the `+`-separated
// list side.
type LinkTable struct {
	Table     string
	OwnerCol  string
	TargetCol string
}

var (
	RecipeTags      = LinkTable{Table: "recipes_has_tags", OwnerCol: "fk_id_recipe", TargetCol: "fk_id_tag"}
	RecipeCategory  = LinkTable{Table: "recipes_has_recipe_categories", OwnerCol: "fk_id_recipe", TargetCol: "fk_id_category"}
	RecipeUstensils = LinkTable{Table: "recipes_has_ustensils", OwnerCol: "fk_id_recipe", TargetCol: "fk_id_ustensil"}
	DietTags        = LinkTable{Table: "diets_has_tags", OwnerCol: "fk_id_diet", TargetCol: "fk_id_tag"}
	UserDiets       = LinkTable{Table: "users_has_diets", OwnerCol: "fk_id_user", TargetCol: "fk_id_diet"}
	BannedByUser    = LinkTable{Table: "banned_ingredients", OwnerCol: "fk_id_user", TargetCol: "fk_id_ingredient"}
)

func (l LinkTable) validate() error {
	for _, ident := range []string{l.Table, l.OwnerCol, l.TargetCol} {
		if err := query.ValidateIdentifier(ident); err != nil {
			return err
		}
	}
	return nil
}

// Link inserts one row per target for a single owner, in one statement. The
// owner id is bound once and referenced by every value group. Returns the
// inserted rows; duplicate pairs surface as ErrConflict.
func (s *Store) Link(ctx context.Context, l LinkTable, owner int64, targets []int64) ([]map[string]any, error) {
	if err := l.validate(); err != nil {
		return nil, err
	}
	ids := append([]int64{owner}, targets...)
	values, params, err := query.LinkValues(ids, query.Dollar)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryxContext(ctx,
		fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES %s RETURNING *`,
			l.Table, l.OwnerCol, l.TargetCol, values),
		params...)
	if err != nil {
		return nil, classify(err)
	}
	return scanMaps(rows)
}

// Unlink deletes one owner/target pair. Returns ErrNotFound when the link
// did not exist.
func (s *Store) Unlink(ctx context.Context, l LinkTable, owner, target int64) error {
	if err := l.validate(); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
			l.Table, l.OwnerCol, l.TargetCol),
		owner, target)
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

// Linked returns the rows of the target resource joined through the link
// table for one owner.
func (s *Store) Linked(ctx context.Context, l LinkTable, r Resource, owner int64) ([]map[string]any, error) {
	if err := l.validate(); err != nil {
		return nil, err
	}
	if err := r.validate(); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryxContext(ctx,
		fmt.Sprintf(`SELECT t.* FROM %s t
			JOIN %s l ON l.%s = t.%s
			WHERE l.%s = $1
			ORDER BY t.%s`,
			r.Table, l.Table, l.TargetCol, r.IDCol, l.OwnerCol, r.NameCol),
		owner)
	if err != nil {
		return nil, err
	}
	return scanMaps(rows)
}

// RecipesLinked returns the recipes attached to one row of r through the
// link table, for the reverse direction of Linked (recipes of a category,
// recipes of a tag).
func (s *Store) RecipesLinked(ctx context.Context, l LinkTable, id int64) ([]map[string]any, error) {
	if err := l.validate(); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryxContext(ctx,
		fmt.Sprintf(`SELECT rec.* FROM recipes rec
			JOIN %s l ON l.%s = rec.id_recipe
			WHERE l.%s = $1
			ORDER BY rec.name_recipe`,
			l.Table, l.OwnerCol, l.TargetCol),
		id)
	if err != nil {
		return nil, err
	}
	return scanMaps(rows)
}

// CategoriesWithRecipes returns every recipe category together with its
// recipe rows, one map per category with a "recipes" slice inside.
func (s *Store) CategoriesWithRecipes(ctx context.Context) ([]map[string]any, error) {
	cats, err := s.ListResource(ctx, RecipeCategories)
	if err != nil {
		return nil, err
	}
	for _, cat := range cats {
		id, err := rowID(cat, RecipeCategories.IDCol)
		if err != nil {
			return nil, err
		}
		recipes, err := s.RecipesLinked(ctx, RecipeCategory, id)
		if err != nil {
			return nil, err
		}
		cat["recipes"] = recipes
	}
	return cats, nil
}

// rowID digs the integer id out of a map row; drivers disagree on the
// concrete integer type they hand back.
func rowID(row map[string]any, col string) (int64, error) {
	switch v := row[col].(type) {
	case int64:
		return v, nil
	case int32:
		return int64(v), nil
	case int:
		return int64(v), nil
	default:
		return 0, fmt.Errorf("row %s has unexpected type %T", col, row[col])
	}
}
