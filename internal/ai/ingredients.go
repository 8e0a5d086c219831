package ai

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// MaxImageSize caps the decoded picture payload at 4 MiB.
const MaxImageSize = 4 * 1024 * 1024

// IngredientsPrompt instructs the model to answer with a strict JSON list
// of French ingredient names.
const IngredientsPrompt = `
Tu es un assistant qui liste uniquement les ingrédients visibles ou mentionnés, en français.
- Ne fais jamais de traduction vers l’anglais.
- Ne crée pas de mots inventés, incomplets ou des variantes inutiles.
- Répond uniquement avec un JSON strictement valide.
- La clé doit être "ingredients" et la valeur un tableau de chaînes de caractères.
- Ne mets que les ingrédients réels, exactement comme ils apparaissent, sans commentaires, sans clés supplémentaires.

Exemple de sortie correcte :
{
  "ingredients": ["crème fraîche", "carottes", "lentilles", "bière"]
}
`

// forbiddenIngredients are packaging, body parts and scenery words the model
// tends to mistake for food on fridge pictures.
var forbiddenIngredients = map[string]bool{
	"récipient":    true,
	"emballage":    true,
	"bouteille":    true,
	"boite":        true,
	"boîte":        true,
	"pot":          true,
	"bocal":        true,
	"etiquette":    true,
	"étiquette":    true,
	"sachet":       true,
	"film":         true,
	"carton":       true,
	"pack":         true,
	"canette":      true,
	"couvercle":    true,
	"plateau":      true,
	"tiroir":       true,
	"tupperware":   true,
	"main":         true,
	"doigt":        true,
	"doigts":       true,
	"main humaine": true,
	"ombre":        true,
	"fond":         true,
	"table":        true,
}

var (
	ErrInvalidImage = errors.New("aucune image valide fournie")
	ErrNotBase64    = errors.New("format Base64 invalide")
	ErrImageTooBig  = errors.New("image trop lourde (4Mo max)")
	ErrBadReply     = errors.New("la réponse IA n'est pas un JSON valide")
)

var (
	dataURLPrefix = regexp.MustCompile(`^data:image/\w+;base64,`)
	base64Shape   = regexp.MustCompile(`^[A-Za-z0-9+/]+={0,2}$`)
	spaces        = regexp.MustCompile(`\s+`)
)

// CleanImage strips the data-URL prefix from a picture payload and validates
// the remaining base64 content and its decoded size.
func CleanImage(picture string) (string, error) {
	if picture == "" {
		return "", ErrInvalidImage
	}
	cleaned := dataURLPrefix.ReplaceAllString(picture, "")
	if !base64Shape.MatchString(cleaned) {
		return "", ErrNotBase64
	}
	if base64.StdEncoding.DecodedLen(len(cleaned)) > MaxImageSize {
		return "", ErrImageTooBig
	}
	return cleaned, nil
}

type ingredientsReply struct {
	Ingredients []string `json:"ingredients"`
}

// ParseIngredients extracts the ingredient list out of a model reply. Code
// fences are stripped, names are normalized (lowercase, trimmed, parens
// removed, spaces collapsed), packaging words filtered and duplicates
// dropped while order is preserved.
func ParseIngredients(reply string) ([]string, error) {
	cleaned := strings.TrimSpace(reply)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```JSON")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	var parsed ingredientsReply
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBadReply, reply)
	}
	if parsed.Ingredients == nil {
		return nil, fmt.Errorf("%w: %s", ErrBadReply, reply)
	}

	seen := map[string]bool{}
	out := []string{}
	for _, raw := range parsed.Ingredients {
		name := Normalize(raw)
		if len([]rune(name)) <= 1 || forbiddenIngredients[name] || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out, nil
}

// Normalize lowercases an ingredient name, trims it, drops parentheses and
// collapses runs of whitespace.
func Normalize(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, "(", "")
	name = strings.ReplaceAll(name, ")", "")
	return strings.TrimSpace(spaces.ReplaceAllString(name, " "))
}
