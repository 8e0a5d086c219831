package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/wimf-app/wimf/internal/model"
)

const userColumns = `id_user, username_user, email_user, password_user, rights_user, created_at, updated_at`

// CreateUser inserts a new account after checking that neither the username
// nor the email is taken. The check and the insert share one transaction;
// the unique constraints back it up. Returns ErrConflict when either value
// is in use.
func (s *Store) CreateUser(ctx context.Context, username, email, passwordHash string) (*model.User, error) {
	u := &model.User{
		Username: username,
		Email:    email,
		Rights:   model.RoleMember,
	}

	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		var taken int
		q := `SELECT COUNT(*) FROM users WHERE ` + ciEq("username_user", "$1") + ` OR ` + ciEq("email_user", "$2")
		if err := tx.GetContext(ctx, &taken, q, username, email); err != nil {
			return fmt.Errorf("check username/email: %w", err)
		}
		if taken > 0 {
			return ErrConflict
		}

		ts := now()
		row := tx.QueryRowxContext(ctx,
			`INSERT INTO users (username_user, email_user, password_user, rights_user, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $5)
			RETURNING `+userColumns,
			username, email, passwordHash, model.RoleMember, ts)
		return classify(row.StructScan(u))
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

// GetUserByID fetches one account. Returns ErrNotFound for a missing row.
func (s *Store) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	var u model.User
	err := s.db.GetContext(ctx, &u,
		`SELECT `+userColumns+` FROM users WHERE id_user = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByEmail fetches one account by email, case-insensitively.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	err := s.db.GetContext(ctx, &u,
		`SELECT `+userColumns+` FROM users WHERE `+ciEq("email_user", "$1"), email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ListUsers returns every account, newest first.
func (s *Store) ListUsers(ctx context.Context) ([]model.User, error) {
	users := []model.User{}
	err := s.db.SelectContext(ctx, &users,
		`SELECT `+userColumns+` FROM users ORDER BY id_user DESC`)
	return users, err
}

// UserUpdate carries the mutable profile fields. Empty fields keep the
// stored value.
type UserUpdate struct {
	Username string
	Email    string
	Rights   model.Role
}

// UpdateUser applies upd to an existing account. The target lookup, the
// username/email conflict check and the write happen in one transaction.
func (s *Store) UpdateUser(ctx context.Context, id int64, upd UserUpdate) (*model.User, error) {
	var u model.User
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		if err := tx.GetContext(ctx, &u,
			`SELECT `+userColumns+` FROM users WHERE id_user = $1`, id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}

		if upd.Username != "" {
			u.Username = upd.Username
		}
		if upd.Email != "" {
			u.Email = upd.Email
		}
		if upd.Rights != "" {
			u.Rights = upd.Rights
		}

		var taken int
		q := `SELECT COUNT(*) FROM users
			WHERE (` + ciEq("username_user", "$1") + ` OR ` + ciEq("email_user", "$2") + `) AND id_user != $3`
		if err := tx.GetContext(ctx, &taken, q, u.Username, u.Email, id); err != nil {
			return fmt.Errorf("check username/email: %w", err)
		}
		if taken > 0 {
			return ErrConflict
		}

		row := tx.QueryRowxContext(ctx,
			`UPDATE users
			SET username_user = $1, email_user = $2, rights_user = $3, updated_at = $4
			WHERE id_user = $5
			RETURNING `+userColumns,
			u.Username, u.Email, u.Rights, now(), id)
		return classify(row.StructScan(&u))
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateUserPassword replaces the stored hash, used by the reset flow.
// Returns the public columns of the updated account.
func (s *Store) UpdateUserPassword(ctx context.Context, id int64, passwordHash string) (*model.User, error) {
	var u model.User
	err := s.db.QueryRowxContext(ctx,
		`UPDATE users
		SET password_user = $1, updated_at = $2
		WHERE id_user = $3
		RETURNING `+userColumns,
		passwordHash, now(), id).StructScan(&u)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// PromoteUser sets the rights tier of an account, used by the admin CLI.
func (s *Store) PromoteUser(ctx context.Context, email string, role model.Role) (*model.User, error) {
	var u model.User
	err := s.db.QueryRowxContext(ctx,
		`UPDATE users
		SET rights_user = $1, updated_at = $2
		WHERE `+ciEq("email_user", "$3")+`
		RETURNING `+userColumns,
		role, now(), email).StructScan(&u)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// DeleteUser hard-deletes an account. Returns ErrNotFound when nothing was
// deleted.
func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id_user = $1`, id)
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
