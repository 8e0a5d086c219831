package handler

import (
	"net/http"

	"github.com/wimf-app/wimf/internal/store"
)

// ListCategories returns every recipe category with its recipes, ordered
// by category name.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	rows, err := h.store.CategoriesWithRecipes(r.Context())
	if err != nil {
		h.storeError(w, r, err, "Catégorie introuvable", "")
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// CategoriesFromRecipe returns the categories one recipe belongs to.
func (h *Handler) CategoriesFromRecipe(w http.ResponseWriter, r *http.Request) {
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

	rows, err := h.store.Linked(r.Context(), store.RecipeCategory, store.RecipeCategories, id)
	if err != nil {
		h.storeError(w, r, err, "Recette introuvable", "")
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// RecipesFromCategory returns the recipes attached to one category.
func (h *Handler) RecipesFromCategory(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := h.store.GetResource(r.Context(), store.RecipeCategories, id); err != nil {
		h.storeError(w, r, err, "Catégorie introuvable", "")
		return
	}

	rows, err := h.store.RecipesLinked(r.Context(), store.RecipeCategory, id)
	if err != nil {
		h.storeError(w, r, err, "Catégorie introuvable", "")
		return
	}
	writeJSON(w, http.StatusOK, rows)
}
