// Package query turns the API's "+"-delimited path segments into safe
// parameterized SQL fragments: bulk link inserts, multi-term search
// predicates, and exact id pairs. Values are always bound as parameters;
// identifiers interpolated into SQL text must pass ValidateIdentifier.
package query

import (
	"fmt"
	"regexp"
)

// identifierRegex validates SQL identifiers (column names, table names).
// Must start with a letter or underscore, followed by alphanumeric or
// underscore.
var identifierRegex = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// ValidateIdentifier ensures a SQL identifier is safe before it is spliced
// into query text. Table and column names in this codebase are compile-time
// constants, so a failure here is a programming error, but the generic
// store paths that assemble SQL from resource descriptors guard with it
// anyway.
func ValidateIdentifier(name string) error {
	if name == "" {
		return fmt.Errorf("identifier cannot be empty")
	}
	if len(name) > 128 {
		return fmt.Errorf("identifier too long (max 128 chars): %q", name)
	}
	if !identifierRegex.MatchString(name) {
		return fmt.Errorf("invalid identifier %q: must match [a-zA-Z_][a-zA-Z0-9_]*", name)
	}
	return nil
}
