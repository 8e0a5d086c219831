package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wimf-app/wimf/internal/query"
	"github.com/wimf-app/wimf/internal/store"
)

// ListRecipes returns every recipe.
func (h *Handler) ListRecipes(w http.ResponseWriter, r *http.Request) {
	recipes, err := h.store.ListRecipes(r.Context())
	if err != nil {
		h.storeError(w, r, err, "Recette introuvable", "")
		return
	}
	writeJSON(w, http.StatusOK, recipes)
}

// GetRecipe returns one recipe.
func (h *Handler) GetRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	recipe, err := h.store.GetRecipe(r.Context(), id)
	if err != nil {
		h.storeError(w, r, err, "Recette introuvable", "")
		return
	}
	writeJSON(w, http.StatusOK, recipe)
}

// SearchRecipes matches recipe names against the `+`-separated terms.
func (h *Handler) SearchRecipes(w http.ResponseWriter, r *http.Request) {
	terms := query.ParseSearchTerms(chi.URLParam(r, "search"))
	recipes, err := h.store.SearchRecipes(r.Context(), terms)
	if err != nil {
		if errors.Is(err, query.ErrNoTerms) {
			writeMessage(w, http.StatusBadRequest, "Aucun terme de recherche")
			return
		}
		h.storeError(w, r, err, "Recette introuvable", "")
		return
	}
	writeJSON(w, http.StatusOK, recipes)
}

type recipeRequest struct {
	Name            string `json:"name" validate:"required,min=2,max=128"`
	Description     string `json:"description"`
	PreparationTime int    `json:"preparation_time" validate:"min=0"`
	CookingTime     int    `json:"cooking_time" validate:"min=0"`
	RestingTime     int    `json:"resting_time" validate:"min=0"`
	Instructions    string `json:"instructions" validate:"required"`
	Picture         string `json:"picture"`
}

func (req recipeRequest) input() store.RecipeInput {
	return store.RecipeInput{
		Name:            req.Name,
		Description:     req.Description,
		PreparationTime: req.PreparationTime,
		CookingTime:     req.CookingTime,
		RestingTime:     req.RestingTime,
		Instructions:    req.Instructions,
		Picture:         req.Picture,
	}
}

// CreateRecipe inserts a recipe. Admin only, enforced by the router.
func (h *Handler) CreateRecipe(w http.ResponseWriter, r *http.Request) {
	var req recipeRequest
	if err := readJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Requête invalide")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Le nom et les instructions doivent être renseignés")
		return
	}

	recipe, err := h.store.CreateRecipe(r.Context(), req.input())
	if err != nil {
		h.storeError(w, r, err, "Recette introuvable", "Ce nom de recette est déjà utilisé")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message":     "Recette ajoutée avec succès",
		"addedRecipe": recipe,
	})
}

// UpdateRecipe rewrites a recipe. Admin only.
func (h *Handler) UpdateRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	var req recipeRequest
	if err := readJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Requête invalide")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Le nom et les instructions doivent être renseignés")
		return
	}

	recipe, err := h.store.UpdateRecipe(r.Context(), id, req.input())
	if err != nil {
		h.storeError(w, r, err, "Recette introuvable", "Ce nom de recette n'est pas disponible")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":       "Recette mise à jour",
		"updatedRecipe": recipe,
	})
}

// DeleteRecipe removes a recipe. Admin only.
func (h *Handler) DeleteRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.store.DeleteRecipe(r.Context(), id); err != nil {
		h.storeError(w, r, err, "Recette introuvable", "")
		return
	}
	writeMessage(w, http.StatusNoContent, "Recette supprimée")
}
