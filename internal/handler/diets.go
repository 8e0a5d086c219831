package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wimf-app/wimf/internal/query"
	"github.com/wimf-app/wimf/internal/rights"
	"github.com/wimf-app/wimf/internal/store"
)

// DietsFromUser returns the diets one user follows. Ownership rule.
func (h *Handler) DietsFromUser(w http.ResponseWriter, r *http.Request) {
	actor := h.principal(w, r)
	if actor == nil {
		return
	}
	id, err := urlID(r, "ids")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if d := rights.CanActOnOwned(actor, id); !d.Allowed {
		writeMessage(w, http.StatusUnauthorized, d.Reason)
		return
	}

	rows, err := h.store.Linked(r.Context(), store.UserDiets, store.Diets, id)
	if err != nil {
		h.storeError(w, r, err, "Utilisateur introuvable", "")
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// LinkDietsToUser attaches diets to a user. The first id of the list is the
// user; only that user (or an administrator) may touch the list.
func (h *Handler) LinkDietsToUser(w http.ResponseWriter, r *http.Request) {
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

	rows, err := h.store.Link(r.Context(), store.UserDiets, ids[0], ids[1:])
	if err != nil {
		h.storeError(w, r, err, "Régime introuvable", "Ce régime est déjà lié à cet utilisateur")
		return
	}
	writeJSON(w, http.StatusCreated, rows)
}

// UnlinkDietFromUser removes one user/diet pair, same ownership rule.
func (h *Handler) UnlinkDietFromUser(w http.ResponseWriter, r *http.Request) {
	actor := h.principal(w, r)
	if actor == nil {
		return
	}
	userID, dietID, err := query.ParseIDPair(chi.URLParam(r, "ids"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Identifiants invalides")
		return
	}
	if d := rights.CanActOnOwned(actor, userID); !d.Allowed {
		writeMessage(w, http.StatusUnauthorized, d.Reason)
		return
	}

	if err := h.store.Unlink(r.Context(), store.UserDiets, userID, dietID); err != nil {
		h.storeError(w, r, err,
			"Aucun lien entre cet utilisateur et ce régime n'a été trouvé", "")
		return
	}
	writeMessage(w, http.StatusNoContent, "Lien supprimé")
}
