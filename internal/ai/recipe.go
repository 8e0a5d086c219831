package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// RecipeSuggestion is the model's answer to a recipe generation request.
type RecipeSuggestion struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	PreparationTime int      `json:"preparation_time"`
	CookingTime     int      `json:"cooking_time"`
	RestingTime     int      `json:"resting_time"`
	Instructions    string   `json:"instructions"`
	Ingredients     []string `json:"ingredients"`
}

// RecipePrompt asks for a single recipe, in French, built from the given
// ingredients, answered as strict JSON.
func RecipePrompt(ingredients []string) string {
	return fmt.Sprintf(`
Tu es un assistant cuisinier. Propose une seule recette, en français, réalisable avec les ingrédients suivants : %s.
- Tu peux supposer la présence de sel, poivre, huile et eau.
- Répond uniquement avec un JSON strictement valide, sans commentaires.
- Les clés doivent être : "name", "description", "preparation_time", "cooking_time", "resting_time" (minutes, entiers), "instructions" et "ingredients" (tableau de chaînes).
`, strings.Join(ingredients, ", "))
}

// ParseRecipe extracts a recipe suggestion out of a model reply, stripping
// code fences the same way ParseIngredients does.
func ParseRecipe(reply string) (*RecipeSuggestion, error) {
	cleaned := strings.TrimSpace(reply)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```JSON")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	var parsed RecipeSuggestion
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBadReply, reply)
	}
	if parsed.Name == "" || parsed.Instructions == "" {
		return nil, fmt.Errorf("%w: %s", ErrBadReply, reply)
	}
	return &parsed, nil
}
