package handler

import (
	"errors"
	"net/http"

	"github.com/wimf-app/wimf/internal/ai"
	"github.com/wimf-app/wimf/internal/model"
)

type pictureRequest struct {
	Picture string `json:"picture"`
}

// IngredientsFromPicture runs the model over a fridge picture and returns
// the ingredient names it recognized.
func (h *Handler) IngredientsFromPicture(w http.ResponseWriter, r *http.Request) {
	var req pictureRequest
	if err := readJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Aucune image valide fournie.")
		return
	}

	cleaned, err := ai.CleanImage(req.Picture)
	if err != nil {
		switch {
		case errors.Is(err, ai.ErrInvalidImage):
			writeMessage(w, http.StatusBadRequest, "Aucune image valide fournie.")
		case errors.Is(err, ai.ErrNotBase64):
			writeMessage(w, http.StatusBadRequest, "Format Base64 invalide.")
		case errors.Is(err, ai.ErrImageTooBig):
			writeMessage(w, http.StatusRequestEntityTooLarge, "Image trop lourde (4Mo max).")
		default:
			writeMessage(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	reply, err := h.ai.Generate(r.Context(), ai.IngredientsPrompt, cleaned)
	if err != nil {
		h.aiError(w, err)
		return
	}

	ingredients, err := ai.ParseIngredients(reply)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "La réponse IA n'est pas un JSON valide.")
		return
	}

	writeJSON(w, http.StatusOK, model.IngredientsResponse{Ingredients: ingredients})
}

// aiError maps a Generate failure onto the API envelope.
func (h *Handler) aiError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ai.ErrDisabled):
		writeMessage(w, http.StatusServiceUnavailable, "Fonctionnalité IA indisponible.")
	case errors.Is(err, ai.ErrEmptyReply):
		writeMessage(w, http.StatusInternalServerError, "Réponse IA vide ou invalide.")
	default:
		writeMessage(w, http.StatusInternalServerError, err.Error())
	}
}

type recipeFromIngredientsRequest struct {
	Ingredients []string `json:"ingredients" validate:"required,min=1,dive,min=2"`
}

// RecipeFromIngredients asks the model for a recipe built from the given
// ingredient list.
func (h *Handler) RecipeFromIngredients(w http.ResponseWriter, r *http.Request) {
	var req recipeFromIngredientsRequest
	if err := readJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Requête invalide")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Au moins un ingrédient est nécessaire")
		return
	}

	normalized := make([]string, 0, len(req.Ingredients))
	for _, ing := range req.Ingredients {
		if name := ai.Normalize(ing); name != "" {
			normalized = append(normalized, name)
		}
	}
	if len(normalized) == 0 {
		writeMessage(w, http.StatusBadRequest, "Au moins un ingrédient est nécessaire")
		return
	}

	reply, err := h.ai.Generate(r.Context(), ai.RecipePrompt(normalized), "")
	if err != nil {
		h.aiError(w, err)
		return
	}

	recipe, err := ai.ParseRecipe(reply)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "La réponse IA n'est pas un JSON valide.")
		return
	}
	writeJSON(w, http.StatusOK, recipe)
}
