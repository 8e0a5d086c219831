package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/wimf-app/wimf/internal/model"
)

const reviewColumns = `id_review, fk_id_user, fk_id_recipe, comment_review, note_review, date_review`

// CreateReview records a review of a recipe by a user. The recipe must
// exist; a second review of the same recipe by the same user is ErrConflict.
func (s *Store) CreateReview(ctx context.Context, userID, recipeID int64, comment *string, note *int) (*model.Review, error) {
	var rv model.Review
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		var exists int
		if err := tx.GetContext(ctx, &exists,
			`SELECT COUNT(*) FROM recipes WHERE id_recipe = $1`, recipeID); err != nil {
			return err
		}
		if exists == 0 {
			return ErrNotFound
		}

		var dup int
		if err := tx.GetContext(ctx, &dup,
			`SELECT COUNT(*) FROM recipe_reviews WHERE fk_id_user = $1 AND fk_id_recipe = $2`,
			userID, recipeID); err != nil {
			return err
		}
		if dup > 0 {
			return ErrConflict
		}

		row := tx.QueryRowxContext(ctx,
			`INSERT INTO recipe_reviews (fk_id_user, fk_id_recipe, comment_review, note_review, date_review)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING `+reviewColumns,
			userID, recipeID, comment, note, now())
		return classify(row.StructScan(&rv))
	})
	if err != nil {
		return nil, err
	}
	return &rv, nil
}

// GetReview fetches one review, used for the ownership check before delete.
func (s *Store) GetReview(ctx context.Context, id int64) (*model.Review, error) {
	var rv model.Review
	err := s.db.GetContext(ctx, &rv,
		`SELECT `+reviewColumns+` FROM recipe_reviews WHERE id_review = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rv, nil
}

// ListReviewsByRecipe returns the reviews of one recipe with the reviewer's
// username attached, newest first.
func (s *Store) ListReviewsByRecipe(ctx context.Context, recipeID int64) ([]map[string]any, error) {
	rows, err := s.db.QueryxContext(ctx,
		`SELECT r.id_review, r.fk_id_user, r.fk_id_recipe, r.comment_review, r.note_review,
			r.date_review, u.username_user
		FROM recipe_reviews r
		JOIN users u ON u.id_user = r.fk_id_user
		WHERE r.fk_id_recipe = $1
		ORDER BY r.date_review DESC, r.id_review DESC`,
		recipeID)
	if err != nil {
		return nil, err
	}
	return scanMaps(rows)
}

// ListReviewsByUser returns the reviews one user wrote with the recipe name
// attached, newest first.
func (s *Store) ListReviewsByUser(ctx context.Context, userID int64) ([]map[string]any, error) {
	rows, err := s.db.QueryxContext(ctx,
		`SELECT r.id_review, r.fk_id_user, r.fk_id_recipe, r.comment_review, r.note_review,
			r.date_review, rec.name_recipe
		FROM recipe_reviews r
		JOIN recipes rec ON rec.id_recipe = r.fk_id_recipe
		WHERE r.fk_id_user = $1
		ORDER BY r.date_review DESC, r.id_review DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	return scanMaps(rows)
}

// DeleteReview removes a review. Returns ErrNotFound when nothing was
// deleted.
func (s *Store) DeleteReview(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM recipe_reviews WHERE id_review = $1`, id)
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
