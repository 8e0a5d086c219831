package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/wimf-app/wimf/internal/model"
	"github.com/wimf-app/wimf/internal/query"
)

const recipeColumns = `id_recipe, name_recipe, description_recipe, preparation_time_recipe,
	cooking_time_recipe, resting_time_recipe, instructions_recipe, picture_recipe, created_at, updated_at`

// ListRecipes returns every recipe, newest first.
func (s *Store) ListRecipes(ctx context.Context) ([]model.Recipe, error) {
	recipes := []model.Recipe{}
	err := s.db.SelectContext(ctx, &recipes,
		`SELECT `+recipeColumns+` FROM recipes ORDER BY id_recipe DESC`)
	return recipes, err
}

// GetRecipe fetches one recipe. Returns ErrNotFound for a missing row.
func (s *Store) GetRecipe(ctx context.Context, id int64) (*model.Recipe, error) {
	var r model.Recipe
	err := s.db.GetContext(ctx, &r,
		`SELECT `+recipeColumns+` FROM recipes WHERE id_recipe = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// RecipeExists reports whether the recipe id is present, used by the
// relationship and review endpoints before touching link rows.
func (s *Store) RecipeExists(ctx context.Context, id int64) (bool, error) {
	var n int
	if err := s.db.GetContext(ctx, &n,
		`SELECT COUNT(*) FROM recipes WHERE id_recipe = $1`, id); err != nil {
		return false, err
	}
	return n > 0, nil
}

// SearchRecipes finds recipes whose name matches any of the terms.
func (s *Store) SearchRecipes(ctx context.Context, terms []string) ([]model.Recipe, error) {
	pred, err := query.SearchPredicate("name_recipe", s.like(), terms, query.AnyTerm, query.Dollar, 1)
	if err != nil {
		return nil, err
	}
	recipes := []model.Recipe{}
	err = s.db.SelectContext(ctx, &recipes,
		`SELECT `+recipeColumns+` FROM recipes WHERE `+pred.SQL+` ORDER BY name_recipe`,
		pred.Params...)
	return recipes, err
}

// RecipeInput carries the writable recipe fields.
type RecipeInput struct {
	Name            string
	Description     string
	PreparationTime int
	CookingTime     int
	RestingTime     int
	Instructions    string
	Picture         string
}

// CreateRecipe inserts a recipe after checking the name is free. Returns
// ErrConflict for a duplicate name.
func (s *Store) CreateRecipe(ctx context.Context, in RecipeInput) (*model.Recipe, error) {
	var r model.Recipe
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		var taken int
		q := `SELECT COUNT(*) FROM recipes WHERE ` + ciEq("name_recipe", "$1")
		if err := tx.GetContext(ctx, &taken, q, in.Name); err != nil {
			return fmt.Errorf("check recipe name: %w", err)
		}
		if taken > 0 {
			return ErrConflict
		}

		row := tx.QueryRowxContext(ctx,
			`INSERT INTO recipes (name_recipe, description_recipe, preparation_time_recipe,
				cooking_time_recipe, resting_time_recipe, instructions_recipe, picture_recipe,
				created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
			RETURNING `+recipeColumns,
			in.Name, in.Description, in.PreparationTime, in.CookingTime, in.RestingTime,
			in.Instructions, in.Picture, now())
		return classify(row.StructScan(&r))
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// UpdateRecipe rewrites a recipe. Missing target is ErrNotFound; a name
// collision with another recipe is ErrConflict.
func (s *Store) UpdateRecipe(ctx context.Context, id int64, in RecipeInput) (*model.Recipe, error) {
	var r model.Recipe
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		var exists int
		if err := tx.GetContext(ctx, &exists,
			`SELECT COUNT(*) FROM recipes WHERE id_recipe = $1`, id); err != nil {
			return err
		}
		if exists == 0 {
			return ErrNotFound
		}

		var taken int
		q := `SELECT COUNT(*) FROM recipes WHERE ` + ciEq("name_recipe", "$1") + ` AND id_recipe != $2`
		if err := tx.GetContext(ctx, &taken, q, in.Name, id); err != nil {
			return fmt.Errorf("check recipe name: %w", err)
		}
		if taken > 0 {
			return ErrConflict
		}

		row := tx.QueryRowxContext(ctx,
			`UPDATE recipes
			SET name_recipe = $1, description_recipe = $2, preparation_time_recipe = $3,
				cooking_time_recipe = $4, resting_time_recipe = $5, instructions_recipe = $6,
				picture_recipe = $7, updated_at = $8
			WHERE id_recipe = $9
			RETURNING `+recipeColumns,
			in.Name, in.Description, in.PreparationTime, in.CookingTime, in.RestingTime,
			in.Instructions, in.Picture, now(), id)
		return classify(row.StructScan(&r))
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// DeleteRecipe removes a recipe; link rows cascade. Returns ErrNotFound
// when nothing was deleted.
func (s *Store) DeleteRecipe(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM recipes WHERE id_recipe = $1`, id)
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
