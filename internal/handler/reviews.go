package handler

import (
	"net/http"

	"github.com/wimf-app/wimf/internal/rights"
)

type reviewRequest struct {
	Comment *string `json:"comment"`
	Note    *int    `json:"note"`
}

// PostReview adds a comment, a note, or both to a recipe.
func (h *Handler) PostReview(w http.ResponseWriter, r *http.Request) {
	actor := h.principal(w, r)
	if actor == nil {
		return
	}
	recipeID, err := urlID(r, "id")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	var req reviewRequest
	if err := readJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Requête invalide")
		return
	}
	if req.Comment == nil && req.Note == nil {
		writeMessage(w, http.StatusBadRequest, "Au moins un commentaire ou une note est nécessaire")
		return
	}
	if req.Note != nil && (*req.Note < 0 || *req.Note > 5) {
		writeMessage(w, http.StatusBadRequest, "La note doit être comprise entre 0 et 5")
		return
	}

	review, err := h.store.CreateReview(r.Context(), actor.ID, recipeID, req.Comment, req.Note)
	if err != nil {
		h.storeError(w, r, err, "Recette introuvable", "Tu as déjà laissé une review sur cette recette")
		return
	}
	writeJSON(w, http.StatusCreated, review)
}

// DeleteReview removes a review. Only its author or an administrator may.
func (h *Handler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	actor := h.principal(w, r)
	if actor == nil {
		return
	}
	id, err := urlID(r, "id")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	review, err := h.store.GetReview(r.Context(), id)
	if err != nil {
		h.storeError(w, r, err, "Review introuvable", "")
		return
	}
	if d := rights.CanActOnOwned(actor, review.UserID); !d.Allowed {
		writeMessage(w, http.StatusUnauthorized, d.Reason)
		return
	}

	if err := h.store.DeleteReview(r.Context(), id); err != nil {
		h.storeError(w, r, err, "Review introuvable", "")
		return
	}
	writeMessage(w, http.StatusNoContent, "Review supprimée")
}

// ReviewsFromRecipe returns the reviews of one recipe. Public.
func (h *Handler) ReviewsFromRecipe(w http.ResponseWriter, r *http.Request) {
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

	rows, err := h.store.ListReviewsByRecipe(r.Context(), id)
	if err != nil {
		h.storeError(w, r, err, "Recette introuvable", "")
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// ReviewsFromUser returns the reviews one user wrote. Moderation team only,
// unless asking about yourself.
func (h *Handler) ReviewsFromUser(w http.ResponseWriter, r *http.Request) {
	actor := h.principal(w, r)
	if actor == nil {
		return
	}
	id, err := urlID(r, "id")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if actor.ID != id {
		if d := rights.CanModerate(actor); !d.Allowed {
			writeMessage(w, http.StatusUnauthorized, d.Reason)
			return
		}
	}

	rows, err := h.store.ListReviewsByUser(r.Context(), id)
	if err != nil {
		h.storeError(w, r, err, "Utilisateur introuvable", "")
		return
	}
	writeJSON(w, http.StatusOK, rows)
}
