package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wimf-app/wimf/internal/query"
)

// ListIngredients returns every ingredient with its category name.
func (h *Handler) ListIngredients(w http.ResponseWriter, r *http.Request) {
	rows, err := h.store.ListIngredients(r.Context())
	if err != nil {
		h.storeError(w, r, err, "Ingrédient introuvable", "")
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// SearchIngredients matches ingredients containing every search term.
func (h *Handler) SearchIngredients(w http.ResponseWriter, r *http.Request) {
	terms := query.ParseSearchTerms(chi.URLParam(r, "search"))
	rows, err := h.store.SearchIngredients(r.Context(), terms)
	if err != nil {
		if errors.Is(err, query.ErrNoTerms) {
			writeMessage(w, http.StatusBadRequest, "Aucun terme de recherche")
			return
		}
		h.storeError(w, r, err, "Ingrédient introuvable", "")
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// IngredientsFromRecipe returns the ingredient lines of one recipe.
func (h *Handler) IngredientsFromRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	exists, err := h.store.RecipeExists(r.Context(), id)
	if err != nil {
		h.storeError(w, r, err, "Recette introuvable", "")
		return
	}
	if !exists {
		writeMessage(w, http.StatusNotFound, "Recette introuvable")
		return
	}

	rows, err := h.store.IngredientsForRecipe(r.Context(), id)
	if err != nil {
		h.storeError(w, r, err, "Recette introuvable", "")
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

type ingredientRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=128"`
	Category int64  `json:"category" validate:"required,gt=0"`
}

// CreateIngredient inserts an ingredient under a category. Admin only.
func (h *Handler) CreateIngredient(w http.ResponseWriter, r *http.Request) {
	var req ingredientRequest
	if err := readJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Requête invalide")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Le nom et la catégorie doivent être renseignés")
		return
	}

	row, err := h.store.CreateIngredient(r.Context(), req.Name, req.Category)
	if err != nil {
		h.storeError(w, r, err, "Catégorie introuvable", "Cet ingrédient existe déjà")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message":         "Ingrédient ajouté",
		"addedIngredient": row,
	})
}

// UpdateIngredient renames an ingredient or moves it between categories.
// Admin only.
func (h *Handler) UpdateIngredient(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	var req ingredientRequest
	if err := readJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Requête invalide")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Le nom et la catégorie doivent être renseignés")
		return
	}

	row, err := h.store.UpdateIngredient(r.Context(), id, req.Name, req.Category)
	if err != nil {
		h.storeError(w, r, err, "Ingrédient introuvable",
			"Ce nom d'ingrédient est déjà enregistré dans la base de donnée")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":           "Ingrédient mis à jour",
		"updatedIngredient": row,
	})
}

// DeleteIngredient removes an ingredient. Admin only.
func (h *Handler) DeleteIngredient(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.store.DeleteIngredient(r.Context(), id); err != nil {
		h.storeError(w, r, err, "Ingrédient introuvable", "")
		return
	}
	writeMessage(w, http.StatusNoContent, "Ingrédient supprimé")
}
