package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wimf-app/wimf/internal/query"
	"github.com/wimf-app/wimf/internal/store"
)

// taxonomy instantiates the shared CRUD endpoints for one named lookup
// table. The response shapes differ slightly per table for historical
// reasons, hence the per-table message and key configuration.
type taxonomy struct {
	res store.Resource

	existsMsg   string
	notFoundMsg string

	// createdMsg/createdKey wrap the created row as {message, <key>: row};
	// when createdMsg is empty the row is the whole response body.
	createdMsg string
	createdKey string

	updatedMsg    string
	updatedKey    string
	updatedStatus int

	deletedMsg string
}

var (
	tagTaxonomy = taxonomy{
		res:         store.Tags,
		existsMsg:   "Ce tag existe déjà",
		notFoundMsg: "Tag introuvable",
		createdMsg:  "Tag ajouté",
		createdKey:  "newTag",
		updatedMsg:  "Tag mis à jour",
		updatedKey:  "updatedTag",
		// The tag update endpoint has always answered 201.
		updatedStatus: http.StatusCreated,
		deletedMsg:    "Tag supprimé",
	}

	ustensilTaxonomy = taxonomy{
		res:           store.Ustensils,
		existsMsg:     "Cet ustensil est déjà dans la base de donnée",
		notFoundMsg:   "Ustensile introuvable",
		updatedStatus: http.StatusOK,
		deletedMsg:    "Ustensile supprimé",
	}

	dietTaxonomy = taxonomy{
		res:           store.Diets,
		existsMsg:     "Ce régime existe déjà",
		notFoundMsg:   "Régime introuvable",
		createdMsg:    "Régime ajouté",
		createdKey:    "newDiet",
		updatedMsg:    "Régime mis à jour",
		updatedKey:    "updatedDiet",
		updatedStatus: http.StatusOK,
		deletedMsg:    "Régime supprimé",
	}
)

type nameRequest struct {
	Name string `json:"name" validate:"required,min=1,max=128"`
}

func (h *Handler) listTaxonomy(tx taxonomy) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := h.store.ListResource(r.Context(), tx.res)
		if err != nil {
			h.storeError(w, r, err, tx.notFoundMsg, tx.existsMsg)
			return
		}
		writeJSON(w, http.StatusOK, rows)
	}
}

func (h *Handler) searchTaxonomy(tx taxonomy) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		terms := query.ParseSearchTerms(chi.URLParam(r, "search"))
		rows, err := h.store.SearchResource(r.Context(), tx.res, terms)
		if err != nil {
			if errors.Is(err, query.ErrNoTerms) {
				writeMessage(w, http.StatusBadRequest, "Aucun terme de recherche")
				return
			}
			h.storeError(w, r, err, tx.notFoundMsg, tx.existsMsg)
			return
		}
		writeJSON(w, http.StatusOK, rows)
	}
}

func (h *Handler) createTaxonomy(tx taxonomy) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req nameRequest
		if err := readJSON(r, &req); err != nil {
			writeMessage(w, http.StatusBadRequest, "Requête invalide")
			return
		}
		if err := h.validate.Struct(req); err != nil {
			writeMessage(w, http.StatusBadRequest, "Le nom doit être renseigné")
			return
		}

		row, err := h.store.CreateResource(r.Context(), tx.res, req.Name)
		if err != nil {
			h.storeError(w, r, err, tx.notFoundMsg, tx.existsMsg)
			return
		}
		if tx.createdMsg == "" {
			writeJSON(w, http.StatusCreated, row)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{
			"message":     tx.createdMsg,
			tx.createdKey: row,
		})
	}
}

func (h *Handler) updateTaxonomy(tx taxonomy) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "id")
		if err != nil {
			writeMessage(w, http.StatusBadRequest, err.Error())
			return
		}
		var req nameRequest
		if err := readJSON(r, &req); err != nil {
			writeMessage(w, http.StatusBadRequest, "Requête invalide")
			return
		}
		if err := h.validate.Struct(req); err != nil {
			writeMessage(w, http.StatusBadRequest, "Le nom doit être renseigné")
			return
		}

		row, err := h.store.UpdateResource(r.Context(), tx.res, id, req.Name)
		if err != nil {
			h.storeError(w, r, err, tx.notFoundMsg, tx.existsMsg)
			return
		}
		if tx.updatedMsg == "" {
			writeJSON(w, tx.updatedStatus, row)
			return
		}
		writeJSON(w, tx.updatedStatus, map[string]any{
			"message":     tx.updatedMsg,
			tx.updatedKey: row,
		})
	}
}

func (h *Handler) deleteTaxonomy(tx taxonomy) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "id")
		if err != nil {
			writeMessage(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := h.store.DeleteResource(r.Context(), tx.res, id); err != nil {
			h.storeError(w, r, err, tx.notFoundMsg, tx.existsMsg)
			return
		}
		writeMessage(w, http.StatusNoContent, tx.deletedMsg)
	}
}

// linkedToRecipe serves GET /{res}/recipe/{id}: the rows of the resource
// attached to one recipe. 404 when the recipe itself is missing.
func (h *Handler) linkedToRecipe(link store.LinkTable, res store.Resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
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

		rows, err := h.store.Linked(r.Context(), link, res, id)
		if err != nil {
			h.storeError(w, r, err, "Recette introuvable", "")
			return
		}
		writeJSON(w, http.StatusOK, rows)
	}
}

// bulkLink serves POST /{res}/link/{ids}: the first id is the owner, the
// rest are linked to it in one insert.
func (h *Handler) bulkLink(link store.LinkTable, existsMsg string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ids, err := query.ParseIDList(chi.URLParam(r, "ids"))
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "Identifiants invalides")
			return
		}
		if len(ids) < 2 {
			writeMessage(w, http.StatusBadRequest, "Aucun identifiant à lier")
			return
		}

		rows, err := h.store.Link(r.Context(), link, ids[0], ids[1:])
		if err != nil {
			h.storeError(w, r, err, "Ressource introuvable", existsMsg)
			return
		}
		writeJSON(w, http.StatusCreated, rows)
	}
}

// unlink serves DELETE /{res}/link/{ids}: the pair owner+target.
func (h *Handler) unlink(link store.LinkTable, notFoundMsg string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, target, err := query.ParseIDPair(chi.URLParam(r, "ids"))
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "Identifiants invalides")
			return
		}
		if err := h.store.Unlink(r.Context(), link, owner, target); err != nil {
			h.storeError(w, r, err, notFoundMsg, "")
			return
		}
		writeMessage(w, http.StatusNoContent, "Lien supprimé")
	}
}
