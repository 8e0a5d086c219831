package handler

import (
	"net/http"

	"github.com/wimf-app/wimf/internal/store"
)

// The lookup-table endpoints below are instances of the generic taxonomy
// handlers. Each resource keeps its historical messages, so each gets a
// named endpoint rather than a path parameter.

// Tags.

func (h *Handler) ListTags(w http.ResponseWriter, r *http.Request) {
	h.listTaxonomy(tagTaxonomy)(w, r)
}

func (h *Handler) SearchTags(w http.ResponseWriter, r *http.Request) {
	h.searchTaxonomy(tagTaxonomy)(w, r)
}

func (h *Handler) CreateTag(w http.ResponseWriter, r *http.Request) {
	h.createTaxonomy(tagTaxonomy)(w, r)
}

func (h *Handler) UpdateTag(w http.ResponseWriter, r *http.Request) {
	h.updateTaxonomy(tagTaxonomy)(w, r)
}

func (h *Handler) DeleteTag(w http.ResponseWriter, r *http.Request) {
	h.deleteTaxonomy(tagTaxonomy)(w, r)
}

func (h *Handler) TagsFromRecipe(w http.ResponseWriter, r *http.Request) {
	h.linkedToRecipe(store.RecipeTags, store.Tags)(w, r)
}

func (h *Handler) LinkTagsToRecipe(w http.ResponseWriter, r *http.Request) {
	h.bulkLink(store.RecipeTags, "Ce tag est déjà lié à cette recette")(w, r)
}

func (h *Handler) UnlinkTagFromRecipe(w http.ResponseWriter, r *http.Request) {
	h.unlink(store.RecipeTags, "Aucun lien entre cette recette et ce tag n'a été trouvé")(w, r)
}

// Ustensils.

func (h *Handler) ListUstensils(w http.ResponseWriter, r *http.Request) {
	h.listTaxonomy(ustensilTaxonomy)(w, r)
}

func (h *Handler) SearchUstensils(w http.ResponseWriter, r *http.Request) {
	h.searchTaxonomy(ustensilTaxonomy)(w, r)
}

func (h *Handler) CreateUstensil(w http.ResponseWriter, r *http.Request) {
	h.createTaxonomy(ustensilTaxonomy)(w, r)
}

func (h *Handler) UpdateUstensil(w http.ResponseWriter, r *http.Request) {
	h.updateTaxonomy(ustensilTaxonomy)(w, r)
}

func (h *Handler) DeleteUstensil(w http.ResponseWriter, r *http.Request) {
	h.deleteTaxonomy(ustensilTaxonomy)(w, r)
}

func (h *Handler) UstensilsFromRecipe(w http.ResponseWriter, r *http.Request) {
	h.linkedToRecipe(store.RecipeUstensils, store.Ustensils)(w, r)
}

func (h *Handler) LinkUstensilsToRecipe(w http.ResponseWriter, r *http.Request) {
	h.bulkLink(store.RecipeUstensils, "Cet ustensile est déjà lié à cette recette")(w, r)
}

func (h *Handler) UnlinkUstensilFromRecipe(w http.ResponseWriter, r *http.Request) {
	h.unlink(store.RecipeUstensils, "Aucun lien entre cette recette et cet ustensile n'a été trouvé")(w, r)
}

// Diets.

func (h *Handler) ListDiets(w http.ResponseWriter, r *http.Request) {
	h.listTaxonomy(dietTaxonomy)(w, r)
}

func (h *Handler) SearchDiets(w http.ResponseWriter, r *http.Request) {
	h.searchTaxonomy(dietTaxonomy)(w, r)
}

func (h *Handler) CreateDiet(w http.ResponseWriter, r *http.Request) {
	h.createTaxonomy(dietTaxonomy)(w, r)
}

func (h *Handler) UpdateDiet(w http.ResponseWriter, r *http.Request) {
	h.updateTaxonomy(dietTaxonomy)(w, r)
}

func (h *Handler) DeleteDiet(w http.ResponseWriter, r *http.Request) {
	h.deleteTaxonomy(dietTaxonomy)(w, r)
}

func (h *Handler) LinkTagsToDiet(w http.ResponseWriter, r *http.Request) {
	h.bulkLink(store.DietTags, "Ce tag est déjà lié à ce régime")(w, r)
}

func (h *Handler) UnlinkTagFromDiet(w http.ResponseWriter, r *http.Request) {
	h.unlink(store.DietTags, "Aucun lien entre ce régime et ce tag n'a été trouvé")(w, r)
}

// Recipe categories only expose their link endpoints; the category list
// itself is managed through ListCategories and seeding.

func (h *Handler) LinkCategoriesToRecipe(w http.ResponseWriter, r *http.Request) {
	h.bulkLink(store.RecipeCategory, "Cette catégorie est déjà liée à cette recette")(w, r)
}

func (h *Handler) UnlinkCategoryFromRecipe(w http.ResponseWriter, r *http.Request) {
	h.unlink(store.RecipeCategory, "Aucun lien entre cette recette et cette catégorie n'a été trouvé")(w, r)
}
