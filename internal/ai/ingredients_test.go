package ai

import (
	"encoding/base64"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestCleanImage(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("not really a jpeg"))

	tests := []struct {
		name    string
		picture string
		wantErr error
	}{
		{"plain base64", payload, nil},
		{"data url prefix", "data:image/jpeg;base64," + payload, nil},
		{"png prefix", "data:image/png;base64," + payload, nil},
		{"empty", "", ErrInvalidImage},
		{"not base64", "ceci n'est pas du base64 !", ErrNotBase64},
		{"prefix only", "data:image/jpeg;base64,", ErrNotBase64},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CleanImage(tt.picture)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("CleanImage(%q): err %v, want %v", tt.picture, err, tt.wantErr)
			}
			if err == nil && got != payload {
				t.Errorf("CleanImage(%q) = %q, want %q", tt.picture, got, payload)
			}
		})
	}
}

func TestCleanImageTooBig(t *testing.T) {
	big := base64.StdEncoding.EncodeToString(make([]byte, MaxImageSize+1))
	if _, err := CleanImage(big); !errors.Is(err, ErrImageTooBig) {
		t.Fatalf("oversized image: err %v, want ErrImageTooBig", err)
	}
}

func TestParseIngredients(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  []string
	}{
		{
			"plain json",
			`{"ingredients": ["Carottes", "lait", "carottes"]}`,
			[]string{"carottes", "lait"},
		},
		{
			"fenced json",
			"```json\n{\"ingredients\": [\"crème fraîche\", \"bière\"]}\n```",
			[]string{"crème fraîche", "bière"},
		},
		{
			"packaging filtered",
			`{"ingredients": ["bouteille", "tupperware", "lait", "main humaine"]}`,
			[]string{"lait"},
		},
		{
			"normalization",
			`{"ingredients": ["  Lait (demi-écrémé)  ", "œufs   frais"]}`,
			[]string{"lait demi-écrémé", "œufs frais"},
		},
		{
			"single letters dropped",
			`{"ingredients": ["a", "œ", "riz"]}`,
			[]string{"riz"},
		},
		{
			"empty list stays empty",
			`{"ingredients": []}`,
			[]string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseIngredients(tt.reply)
			if err != nil {
				t.Fatalf("ParseIngredients: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseIngredients = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseIngredientsBadReply(t *testing.T) {
	for _, reply := range []string{
		"désolé, je ne vois pas d'ingrédients",
		`{"liste": ["lait"]}`,
		`["lait"]`,
	} {
		if _, err := ParseIngredients(reply); !errors.Is(err, ErrBadReply) {
			t.Errorf("ParseIngredients(%q): err %v, want ErrBadReply", reply, err)
		}
	}
}

func TestParseRecipe(t *testing.T) {
	reply := "```json\n" + `{
		"name": "Soupe de carottes",
		"description": "Une soupe simple.",
		"preparation_time": 10,
		"cooking_time": 25,
		"resting_time": 0,
		"instructions": "Éplucher, cuire, mixer.",
		"ingredients": ["carottes", "oignon"]
	}` + "\n```"

	got, err := ParseRecipe(reply)
	if err != nil {
		t.Fatalf("ParseRecipe: %v", err)
	}
	if got.Name != "Soupe de carottes" || got.CookingTime != 25 {
		t.Fatalf("ParseRecipe: %+v", got)
	}

	if _, err := ParseRecipe(`{"name": "", "instructions": ""}`); !errors.Is(err, ErrBadReply) {
		t.Fatalf("empty recipe accepted: %v", err)
	}
}

func TestRecipePromptListsIngredients(t *testing.T) {
	prompt := RecipePrompt([]string{"carottes", "lentilles"})
	if !strings.Contains(prompt, "carottes, lentilles") {
		t.Fatalf("prompt missing ingredients: %q", prompt)
	}
}
