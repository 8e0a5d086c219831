package query

import (
	"errors"
	"reflect"
	"strconv"
	"strings"
	"testing"
)

func TestParseIDList(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []int64
		wantErr bool
	}{
		{"simple list", "1+4+5", []int64{1, 4, 5}, false},
		{"tokens are trimmed", "1+ 4 +5", []int64{1, 4, 5}, false},
		{"empty tokens dropped, not zero", "1++5", []int64{1, 5}, false},
		{"single id", "42", []int64{42}, false},
		{"trailing delimiter", "1+2+", []int64{1, 2}, false},
		{"non-numeric token", "1+abc", nil, true},
		{"decimal token", "1+2.5", nil, true},
		{"negative id", "1+-2", nil, true},
		{"zero id", "0+2", nil, true},
		{"empty string", "", nil, true},
		{"only delimiters", "++ +", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseIDList(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidID) {
					t.Fatalf("want ErrInvalidID, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseIDList(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

// Parsing is idempotent under re-trimming: feeding the canonical form back
// in yields the same ids.
func TestParseIDListIdempotent(t *testing.T) {
	first, err := ParseIDList(" 3 + 1 ++ 7 ")
	if err != nil {
		t.Fatal(err)
	}
	parts := make([]string, len(first))
	for i, id := range first {
		parts[i] = strconv.FormatInt(id, 10)
	}
	second, err := ParseIDList(strings.Join(parts, "+"))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("re-parse changed ids: %v != %v", first, second)
	}
}

func TestParseIDPair(t *testing.T) {
	a, b, err := ParseIDPair("5+12")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a != 5 || b != 12 {
		t.Errorf("got (%d, %d), want (5, 12)", a, b)
	}

	if _, _, err := ParseIDPair("5"); err == nil {
		t.Error("single id must fail")
	}
	if _, _, err := ParseIDPair("5+12+3"); err == nil {
		t.Error("three ids must fail")
	}
	if _, _, err := ParseIDPair("5+douze"); err == nil {
		t.Error("non-numeric id must fail")
	}
}

func TestParseSearchTerms(t *testing.T) {
	got := ParseSearchTerms("moutarde+ dijon ++")
	want := []string{"moutarde", "dijon"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseSearchTerms() = %v, want %v", got, want)
	}
	if terms := ParseSearchTerms("+ + "); len(terms) != 0 {
		t.Errorf("blank input must yield no terms, got %v", terms)
	}
}

func TestSearchPredicate(t *testing.T) {
	tests := []struct {
		name       string
		terms      []string
		conn       Connective
		wantSQL    string
		wantParams []any
	}{
		{
			"single term",
			[]string{"viande"},
			AnyTerm,
			"name_tag ILIKE $1",
			[]any{"%viande%"},
		},
		{
			"disjunctive",
			[]string{"moutarde", "dijon"},
			AnyTerm,
			"name_tag ILIKE $1 OR name_tag ILIKE $2",
			[]any{"%moutarde%", "%dijon%"},
		},
		{
			"conjunctive",
			[]string{"a", "b", "c"},
			AllTerms,
			"name_tag ILIKE $1 AND name_tag ILIKE $2 AND name_tag ILIKE $3",
			[]any{"%a%", "%b%", "%c%"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := SearchPredicate("name_tag", "ILIKE", tt.terms, tt.conn, Dollar, 1)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.SQL != tt.wantSQL {
				t.Errorf("SQL = %q, want %q", p.SQL, tt.wantSQL)
			}
			if !reflect.DeepEqual(p.Params, tt.wantParams) {
				t.Errorf("Params = %v, want %v", p.Params, tt.wantParams)
			}
		})
	}
}

func TestSearchPredicateShape(t *testing.T) {
	// N terms produce exactly N operator fragments and N wrapped params.
	for n := 1; n <= 6; n++ {
		terms := make([]string, n)
		for i := range terms {
			terms[i] = string(rune('a' + i))
		}
		p, err := SearchPredicate("col", "ILIKE", terms, AnyTerm, Dollar, 1)
		if err != nil {
			t.Fatal(err)
		}
		if got := strings.Count(p.SQL, "ILIKE"); got != n {
			t.Errorf("n=%d: %d ILIKE clauses", n, got)
		}
		if len(p.Params) != n {
			t.Errorf("n=%d: %d params", n, len(p.Params))
		}
		for _, param := range p.Params {
			s := param.(string)
			if !strings.HasPrefix(s, "%") || !strings.HasSuffix(s, "%") {
				t.Errorf("param %q not wildcarded", s)
			}
		}
	}
}

func TestSearchPredicateNoTerms(t *testing.T) {
	if _, err := SearchPredicate("col", "ILIKE", nil, AnyTerm, Dollar, 1); !errors.Is(err, ErrNoTerms) {
		t.Fatalf("want ErrNoTerms, got %v", err)
	}
}

func TestSearchPredicateStartIndex(t *testing.T) {
	p, err := SearchPredicate("name_diet", "ILIKE", []string{"vegan"}, AnyTerm, Dollar, 3)
	if err != nil {
		t.Fatal(err)
	}
	if p.SQL != "name_diet ILIKE $3" {
		t.Errorf("SQL = %q", p.SQL)
	}
}

func TestLinkValues(t *testing.T) {
	sql, params, err := LinkValues([]int64{7, 4, 5, 2}, Dollar)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := "($1, $2), ($1, $3), ($1, $4)"; sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
	if want := []any{int64(7), int64(4), int64(5), int64(2)}; !reflect.DeepEqual(params, want) {
		t.Errorf("params = %v, want %v", params, want)
	}
}

// The owner is referenced N times in the SQL but bound exactly once, so for
// N link rows len(params) == N+1.
func TestLinkValuesArity(t *testing.T) {
	for n := 1; n <= 5; n++ {
		ids := make([]int64, n+1)
		for i := range ids {
			ids[i] = int64(i + 1)
		}
		sql, params, err := LinkValues(ids, Dollar)
		if err != nil {
			t.Fatal(err)
		}
		if got := strings.Count(sql, "$1,"); got != n {
			t.Errorf("n=%d: owner referenced %d times", n, got)
		}
		if len(params) != n+1 {
			t.Errorf("n=%d: %d params", n, len(params))
		}
	}
}

func TestLinkValuesNeedsTargets(t *testing.T) {
	if _, _, err := LinkValues([]int64{7}, Dollar); !errors.Is(err, ErrNoTargets) {
		t.Fatalf("want ErrNoTargets, got %v", err)
	}
	if _, _, err := LinkValues(nil, Dollar); !errors.Is(err, ErrNoTargets) {
		t.Fatalf("want ErrNoTargets, got %v", err)
	}
}

func TestValidateIdentifier(t *testing.T) {
	for _, ok := range []string{"tags", "name_tag", "_hidden", "recipes_has_tags"} {
		if err := ValidateIdentifier(ok); err != nil {
			t.Errorf("%q rejected: %v", ok, err)
		}
	}
	for _, bad := range []string{"", "1tag", "name-tag", "tags; DROP TABLE users", "na me"} {
		if err := ValidateIdentifier(bad); err == nil {
			t.Errorf("%q accepted", bad)
		}
	}
}
