package query

import (
	"errors"
	"strings"
)

// ErrNoTargets is returned when a bulk-link id list carries the owner id
// but nothing to link to it.
var ErrNoTargets = errors.New("aucun identifiant à lier")

// LinkValues builds the VALUES clause of a multi-row link insert from a
// parsed id list whose first element is the owner id. Every row template
// references the owner as parameter 1 and one target id as its own
// parameter:
//
//	[7, 4, 5] -> "($1, $2), ($1, $3)" with params [7, 4, 5]
//
// The owner is bound once; the SQL text reuses $1 positionally across all
// rows, so params has length N+1 for N generated rows.
func LinkValues(ids []int64, ph PlaceholderFunc) (string, []any, error) {
	if len(ids) < 2 {
		return "", nil, ErrNoTargets
	}
	if ph == nil {
		ph = Dollar
	}

	rows := make([]string, len(ids)-1)
	params := make([]any, len(ids))
	params[0] = ids[0]
	for i, target := range ids[1:] {
		rows[i] = "(" + ph(1) + ", " + ph(i+2) + ")"
		params[i+1] = target
	}

	return strings.Join(rows, ", "), params, nil
}
