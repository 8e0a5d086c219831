package handler

import (
	"net/http"

	"github.com/wimf-app/wimf/internal/model"
	"github.com/wimf-app/wimf/internal/rights"
	"github.com/wimf-app/wimf/internal/store"
)

// ListUsers returns every account. Members are turned away.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	actor := h.principal(w, r)
	if actor == nil {
		return
	}
	if d := rights.CanModerate(actor); !d.Allowed {
		writeMessage(w, http.StatusUnauthorized, d.Reason)
		return
	}

	users, err := h.store.ListUsers(r.Context())
	if err != nil {
		h.storeError(w, r, err, "Utilisateur introuvable", "")
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// GetUser returns one account, guarded by the self-or-escalated-role rule.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	actor := h.principal(w, r)
	if actor == nil {
		return
	}
	id, err := urlID(r, "id")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	target, err := h.store.GetUserByID(r.Context(), id)
	if err != nil {
		h.storeError(w, r, err, "Utilisateur introuvable", "")
		return
	}

	if d := rights.CanAccessUser(actor, rights.Identity{ID: target.ID, Role: target.Rights}); !d.Allowed {
		writeMessage(w, http.StatusUnauthorized, d.Reason)
		return
	}
	writeJSON(w, http.StatusOK, target)
}

type updateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Rights   string `json:"rights"`
}

// UpdateUser rewrites the fields present in the payload. A role change
// additionally requires the actor to outrank the target, so nobody can
// elevate their own account.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	actor := h.principal(w, r)
	if actor == nil {
		return
	}
	id, err := urlID(r, "id")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	var req updateUserRequest
	if err := readJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Requête invalide")
		return
	}

	target, err := h.store.GetUserByID(r.Context(), id)
	if err != nil {
		h.storeError(w, r, err, "Utilisateur introuvable", "")
		return
	}

	if d := rights.CanAccessUser(actor, rights.Identity{ID: target.ID, Role: target.Rights}); !d.Allowed {
		writeMessage(w, http.StatusUnauthorized, d.Reason)
		return
	}

	upd := store.UserUpdate{Username: req.Username, Email: req.Email}
	if req.Rights != "" {
		role := model.Role(req.Rights)
		if !role.Valid() {
			writeMessage(w, http.StatusBadRequest, "Rôle invalide")
			return
		}
		if !actor.Role.Above(target.Rights) || !actor.Role.Above(role) {
			writeMessage(w, http.StatusUnauthorized, rights.ReasonNotAuthorized)
			return
		}
		upd.Rights = role
	}

	updated, err := h.store.UpdateUser(r.Context(), id, upd)
	if err != nil {
		h.storeError(w, r, err,
			"Utilisateur introuvable",
			"Tu ne peux pas utiliser ce nom d'utilisateur ou cet email.")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteUser removes an account, same access rule as reads.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actor := h.principal(w, r)
	if actor == nil {
		return
	}
	id, err := urlID(r, "id")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	target, err := h.store.GetUserByID(r.Context(), id)
	if err != nil {
		h.storeError(w, r, err, "Utilisateur introuvable", "")
		return
	}

	if d := rights.CanAccessUser(actor, rights.Identity{ID: target.ID, Role: target.Rights}); !d.Allowed {
		writeMessage(w, http.StatusUnauthorized, d.Reason)
		return
	}

	if err := h.store.DeleteUser(r.Context(), id); err != nil {
		h.storeError(w, r, err, "Utilisateur introuvable", "")
		return
	}
	writeMessage(w, http.StatusNoContent, "Utilisateur supprimé")
}
