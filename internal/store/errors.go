package store

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound signals a missing row. Handlers map it to 404.
	ErrNotFound = errors.New("introuvable")
	// ErrConflict signals a uniqueness violation. Handlers map it to 409.
	ErrConflict = errors.New("conflit")
)

// classify maps raw driver errors onto the store's sentinel errors where
// the message allows it, so handlers can branch with errors.Is instead of
// string matching. Constraint names differ between PostgreSQL and SQLite;
// both spellings are covered.
func classify(err error) error {
	if err == nil {
		return nil
	}
	lower := strings.ToLower(err.Error())
	switch {
	case strings.Contains(lower, "unique constraint") ||
		strings.Contains(lower, "duplicate key") ||
		strings.Contains(lower, "constraint failed: unique"):
		return ErrConflict
	default:
		return err
	}
}
