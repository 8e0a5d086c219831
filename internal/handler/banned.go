package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wimf-app/wimf/internal/query"
	"github.com/wimf-app/wimf/internal/rights"
	"github.com/wimf-app/wimf/internal/store"
)

// BannedFromUser returns the ingredients a user banned, with their category
// names. Only the owner or an administrator may look.
func (h *Handler) BannedFromUser(w http.ResponseWriter, r *http.Request) {
	actor := h.principal(w, r)
	if actor == nil {
		return
	}
	id, err := urlID(r, "id")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if d := rights.CanActOnOwned(actor, id); !d.Allowed {
		writeMessage(w, http.StatusUnauthorized, d.Reason)
		return
	}

	rows, err := h.store.BannedIngredientsForUser(r.Context(), id)
	if err != nil {
		h.storeError(w, r, err, "Utilisateur introuvable", "")
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// BanIngredients adds ingredients to a user's ban list in one bulk insert.
// The first id of the list is the user.
func (h *Handler) BanIngredients(w http.ResponseWriter, r *http.Request) {
	actor := h.principal(w, r)
	if actor == nil {
		return
	}
	ids, err := query.ParseIDList(chi.URLParam(r, "ids"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Identifiants invalides")
		return
	}
	if len(ids) < 2 {
		writeMessage(w, http.StatusBadRequest, "Aucun identifiant à lier")
		return
	}
	if d := rights.CanActOnOwned(actor, ids[0]); !d.Allowed {
		writeMessage(w, http.StatusUnauthorized, d.Reason)
		return
	}

	rows, err := h.store.Link(r.Context(), store.BannedByUser, ids[0], ids[1:])
	if err != nil {
		h.storeError(w, r, err, "Ingrédient introuvable", "Cet ingrédient est déjà banni")
		return
	}
	writeJSON(w, http.StatusCreated, rows)
}

// UnbanIngredient removes one user/ingredient pair from the ban list.
func (h *Handler) UnbanIngredient(w http.ResponseWriter, r *http.Request) {
	actor := h.principal(w, r)
	if actor == nil {
		return
	}
	userID, ingredientID, err := query.ParseIDPair(chi.URLParam(r, "ids"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Identifiants invalides")
		return
	}
	if d := rights.CanActOnOwned(actor, userID); !d.Allowed {
		writeMessage(w, http.StatusUnauthorized, d.Reason)
		return
	}

	if err := h.store.Unlink(r.Context(), store.BannedByUser, userID, ingredientID); err != nil {
		h.storeError(w, r, err,
			"Aucun lien entre cet utilisateur et cet ingrédient n'a été trouvé", "")
		return
	}
	writeMessage(w, http.StatusNoContent, "Lien supprimé")
}
