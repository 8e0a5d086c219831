package store

import (
	"context"
	"fmt"
	"strings"
)

// Migrate creates the schema if it does not exist. Statements are written
// once with a {serial} marker substituted per dialect; everything else is
// portable between PostgreSQL and SQLite.
func (s *Store) Migrate(ctx context.Context) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id_user {serial},
			username_user TEXT NOT NULL UNIQUE,
			email_user TEXT NOT NULL UNIQUE,
			password_user TEXT NOT NULL,
			rights_user TEXT NOT NULL DEFAULT 'Member',
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS recipes (
			id_recipe {serial},
			name_recipe TEXT NOT NULL UNIQUE,
			description_recipe TEXT NOT NULL DEFAULT '',
			preparation_time_recipe INTEGER NOT NULL DEFAULT 0,
			cooking_time_recipe INTEGER NOT NULL DEFAULT 0,
			resting_time_recipe INTEGER NOT NULL DEFAULT 0,
			instructions_recipe TEXT NOT NULL,
			picture_recipe TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS tags (
			id_tag {serial},
			name_tag TEXT NOT NULL UNIQUE
		)`,

		`CREATE TABLE IF NOT EXISTS diets (
			id_diet {serial},
			name_diet TEXT NOT NULL UNIQUE
		)`,

		`CREATE TABLE IF NOT EXISTS ustensils (
			id_ustensil {serial},
			name_ustensil TEXT NOT NULL UNIQUE
		)`,

		`CREATE TABLE IF NOT EXISTS recipe_categories (
			id_recipe_category {serial},
			name_recipe_category TEXT NOT NULL UNIQUE
		)`,

		`CREATE TABLE IF NOT EXISTS ingredient_categories (
			id_ingredient_category {serial},
			name_ingredient_category TEXT NOT NULL UNIQUE
		)`,

		`CREATE TABLE IF NOT EXISTS ingredients (
			id_ingredient {serial},
			name_ingredient TEXT NOT NULL UNIQUE,
			fk_id_ingredient_category INTEGER NOT NULL REFERENCES ingredient_categories(id_ingredient_category)
		)`,

		`CREATE TABLE IF NOT EXISTS recipe_reviews (
			id_review {serial},
			fk_id_user INTEGER NOT NULL REFERENCES users(id_user) ON DELETE CASCADE,
			fk_id_recipe INTEGER NOT NULL REFERENCES recipes(id_recipe) ON DELETE CASCADE,
			comment_review TEXT,
			note_review INTEGER,
			date_review TIMESTAMP NOT NULL,
			UNIQUE (fk_id_user, fk_id_recipe)
		)`,

		`CREATE TABLE IF NOT EXISTS recipes_has_tags (
			fk_id_recipe INTEGER NOT NULL REFERENCES recipes(id_recipe) ON DELETE CASCADE,
			fk_id_tag INTEGER NOT NULL REFERENCES tags(id_tag) ON DELETE CASCADE,
			UNIQUE (fk_id_recipe, fk_id_tag)
		)`,

		`CREATE TABLE IF NOT EXISTS recipes_has_recipe_categories (
			fk_id_recipe INTEGER NOT NULL REFERENCES recipes(id_recipe) ON DELETE CASCADE,
			fk_id_category INTEGER NOT NULL REFERENCES recipe_categories(id_recipe_category) ON DELETE CASCADE,
			UNIQUE (fk_id_recipe, fk_id_category)
		)`,

		`CREATE TABLE IF NOT EXISTS recipes_has_ustensils (
			fk_id_recipe INTEGER NOT NULL REFERENCES recipes(id_recipe) ON DELETE CASCADE,
			fk_id_ustensil INTEGER NOT NULL REFERENCES ustensils(id_ustensil) ON DELETE CASCADE,
			UNIQUE (fk_id_recipe, fk_id_ustensil)
		)`,

		`CREATE TABLE IF NOT EXISTS recipes_has_ingredients (
			fk_id_recipe INTEGER NOT NULL REFERENCES recipes(id_recipe) ON DELETE CASCADE,
			fk_id_ingredient INTEGER NOT NULL REFERENCES ingredients(id_ingredient) ON DELETE CASCADE,
			quantity REAL,
			mesurements TEXT,
			UNIQUE (fk_id_recipe, fk_id_ingredient)
		)`,

		`CREATE TABLE IF NOT EXISTS diets_has_tags (
			fk_id_diet INTEGER NOT NULL REFERENCES diets(id_diet) ON DELETE CASCADE,
			fk_id_tag INTEGER NOT NULL REFERENCES tags(id_tag) ON DELETE CASCADE,
			UNIQUE (fk_id_diet, fk_id_tag)
		)`,

		`CREATE TABLE IF NOT EXISTS users_has_diets (
			fk_id_user INTEGER NOT NULL REFERENCES users(id_user) ON DELETE CASCADE,
			fk_id_diet INTEGER NOT NULL REFERENCES diets(id_diet) ON DELETE CASCADE,
			UNIQUE (fk_id_user, fk_id_diet)
		)`,

		`CREATE TABLE IF NOT EXISTS banned_ingredients (
			fk_id_user INTEGER NOT NULL REFERENCES users(id_user) ON DELETE CASCADE,
			fk_id_ingredient INTEGER NOT NULL REFERENCES ingredients(id_ingredient) ON DELETE CASCADE,
			UNIQUE (fk_id_user, fk_id_ingredient)
		)`,
	}

	for i, stmt := range migrations {
		stmt = strings.ReplaceAll(stmt, "{serial}", s.d.SerialPK)
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
	}
	return nil
}
