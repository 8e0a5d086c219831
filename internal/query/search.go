package query

import (
	"errors"
	"strings"
)

// Connective chooses how the per-term fragments of a search predicate are
// combined.
type Connective string

const (
	// AnyTerm matches rows containing at least one term (OR). This is the
	// default search semantic.
	AnyTerm Connective = " OR "
	// AllTerms matches rows containing every term (AND). Used by the
	// ingredient search, where a cook wants recipes covering all the
	// ingredients at hand.
	AllTerms Connective = " AND "
)

// ErrNoTerms is returned when the search segment contains no usable token
// after trimming. An empty predicate would otherwise produce invalid SQL
// ("WHERE" with no condition), so callers must treat this as "match
// nothing".
var ErrNoTerms = errors.New("aucun terme de recherche")

// Predicate is a parameterized WHERE fragment plus its bind values, in
// placeholder order.
type Predicate struct {
	SQL    string
	Params []any
}

// ParseSearchTerms parses a "+"-delimited search segment into trimmed,
// non-empty tokens.
func ParseSearchTerms(s string) []string {
	return splitSegments(s)
}

// SearchPredicate builds a case-insensitive substring predicate over column
// from the given terms: one "column <op> $i" fragment per term, joined by
// the connective, each term bound as %term%. op is the dialect's
// case-insensitive LIKE operator ("ILIKE" on PostgreSQL). startIndex is the
// 1-based index of the first placeholder, for appending to an existing
// parameterized query.
func SearchPredicate(column, op string, terms []string, conn Connective, ph PlaceholderFunc, startIndex int) (*Predicate, error) {
	if len(terms) == 0 {
		return nil, ErrNoTerms
	}
	if ph == nil {
		ph = Dollar
	}
	if startIndex < 1 {
		startIndex = 1
	}

	fragments := make([]string, len(terms))
	params := make([]any, len(terms))
	for i, term := range terms {
		fragments[i] = column + " " + op + " " + ph(startIndex+i)
		params[i] = "%" + term + "%"
	}

	return &Predicate{
		SQL:    strings.Join(fragments, string(conn)),
		Params: params,
	}, nil
}
