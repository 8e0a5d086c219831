package query

import "fmt"

// PlaceholderFunc returns the SQL placeholder for a given 1-based parameter
// index. PostgreSQL queries use Dollar; the SQLite store used by tests can
// keep Dollar too (SQLite accepts $N), Question exists for completeness.
type PlaceholderFunc func(index int) string

// Dollar returns $1, $2, etc.
func Dollar(index int) string {
	return fmt.Sprintf("$%d", index)
}

// Question returns ? for all params.
func Question(_ int) string {
	return "?"
}
