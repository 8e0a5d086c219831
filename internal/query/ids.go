package query

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidID is returned when a path segment does not parse as a base-10
// integer after trimming. Handlers map it to 400.
var ErrInvalidID = errors.New("identifiant invalide")

// ParseIDList parses a "+"-delimited id segment such as "1+ 4 +5" into
// [1, 4, 5]. Tokens are trimmed and empty tokens are dropped, never treated
// as zero. Any remaining non-numeric token fails the whole parse.
func ParseIDList(s string) ([]int64, error) {
	tokens := splitSegments(s)
	if len(tokens) == 0 {
		return nil, fmt.Errorf("%w: aucun identifiant dans %q", ErrInvalidID, s)
	}

	ids := make([]int64, 0, len(tokens))
	for _, tok := range tokens {
		id, err := strconv.ParseInt(tok, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidID, tok)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ParseIDPair parses an exact two-id segment ("<ownerId>+<targetId>") used
// by the unlink endpoints.
func ParseIDPair(s string) (int64, int64, error) {
	ids, err := ParseIDList(s)
	if err != nil {
		return 0, 0, err
	}
	if len(ids) != 2 {
		return 0, 0, fmt.Errorf("%w: deux identifiants attendus, %d reçus", ErrInvalidID, len(ids))
	}
	return ids[0], ids[1], nil
}

// splitSegments splits on "+", trims each token and drops empties. Shared
// by id and search-term parsing so both have identical edge behavior.
func splitSegments(s string) []string {
	parts := strings.Split(s, "+")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
