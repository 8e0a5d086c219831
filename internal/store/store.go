// Package store owns every SQL statement in the application. It talks to
// PostgreSQL in production and to an in-memory SQLite database in tests,
// through a small dialect that captures the two differences that matter
// here: the case-insensitive LIKE operator and the auto-increment primary
// key clause.
package store

import (
	"context"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Dialect captures the per-driver SQL differences.
type Dialect struct {
	// Like is the case-insensitive substring operator: ILIKE on
	// PostgreSQL. SQLite's plain LIKE is already case-insensitive for
	// ASCII, which is enough for tests.
	Like string
	// SerialPK is the auto-increment primary key column clause.
	SerialPK string
}

var (
	Postgres = Dialect{Like: "ILIKE", SerialPK: "BIGSERIAL PRIMARY KEY"}
	SQLite   = Dialect{Like: "LIKE", SerialPK: "INTEGER PRIMARY KEY AUTOINCREMENT"}
)

// PoolConfig controls the connection pool.
type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// Store executes all persistence operations against a single database.
type Store struct {
	db *sqlx.DB
	d  Dialect
}

// Open connects to the database identified by driver ("pgx" or "sqlite")
// and dsn. Both placeholders styles collapse to $N, which PostgreSQL and
// SQLite accept natively.
func Open(driver, dsn string, pool PoolConfig) (*Store, error) {
	var d Dialect
	switch driver {
	case "pgx", "postgres":
		driver = "pgx"
		d = Postgres
	case "sqlite":
		d = SQLite
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if driver == "sqlite" {
		db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			return nil, fmt.Errorf("enable foreign keys: %w", err)
		}
	} else {
		if pool.MaxOpenConns > 0 {
			db.SetMaxOpenConns(pool.MaxOpenConns)
		}
		if pool.MaxIdleConns > 0 {
			db.SetMaxIdleConns(pool.MaxIdleConns)
		}
		if pool.ConnMaxLifetime > 0 {
			db.SetConnMaxLifetime(pool.ConnMaxLifetime)
		}
		if pool.ConnMaxIdleTime > 0 {
			db.SetConnMaxIdleTime(pool.ConnMaxIdleTime)
		}
	}

	return &Store{db: db, d: d}, nil
}

// OpenMemory opens a fresh in-memory SQLite store with the schema applied.
// Used by tests.
func OpenMemory() (*Store, error) {
	s, err := Open("sqlite", ":memory:?_journal_mode=WAL", PoolConfig{})
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(context.Background()); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks database reachability, used by the readiness probe.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// like returns the dialect's case-insensitive LIKE operator, for search
// predicates where the %wrapped% wildcarding is wanted.
func (s *Store) like() string {
	return s.d.Like
}

// ciEq renders a case-insensitive equality check for one column and one
// placeholder. Equality comparisons of user input must never go through
// LIKE: "%" and "_" in the value would act as wildcards.
func ciEq(col, ph string) string {
	return fmt.Sprintf("LOWER(%s) = LOWER(%s)", col, ph)
}

// now returns the timestamp written into created_at/updated_at columns.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

// inTx runs fn inside a transaction, committing on nil and rolling back on
// error. Check-then-act sequences (uniqueness precheck before insert,
// existence check before update) run through this so the window between
// check and act closes; the unique constraints remain as the backstop for
// anything racing across connections.
func (s *Store) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// scanMaps drains rows into generic map rows, so per-table column names
// survive straight through to the JSON layer. []byte values are converted
// to string to keep them out of base64 JSON encoding.
func scanMaps(rows *sqlx.Rows) ([]map[string]any, error) {
	defer rows.Close()
	out := []map[string]any{}
	for rows.Next() {
		row := map[string]any{}
		if err := rows.MapScan(row); err != nil {
			return nil, err
		}
		normalizeRow(row)
		out = append(out, row)
	}
	return out, rows.Err()
}

func normalizeRow(row map[string]any) {
	for k, v := range row {
		if b, ok := v.([]byte); ok {
			row[k] = string(b)
		}
	}
}
