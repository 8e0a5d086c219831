package handler

import (
	"net/http"

	"github.com/wimf-app/wimf/internal/model"
	"github.com/wimf-app/wimf/internal/server/middleware"
)

type registerRequest struct {
	Username string `json:"username" validate:"required,min=5,max=30,username_chars"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// Register creates an account and immediately opens a session.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := readJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Requête invalide")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeMessage(w, http.StatusBadRequest,
			"Le nom d'utilisateur, l'email et un mot de passe d'au moins 6 caractères sont requis")
		return
	}

	hash, err := h.auth.HashPassword(req.Password)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, err.Error())
		return
	}

	user, err := h.store.CreateUser(r.Context(), req.Username, req.Email, hash)
	if err != nil {
		h.storeError(w, r, err,
			"Utilisateur introuvable",
			"Tu ne peux pas utiliser ce nom d'utilisateur ou cet email.")
		return
	}

	token, err := h.auth.IssueSession(user.ID, user.Username)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, model.RegisterResponse{
		Message: "Utilisateur connecté avec succès",
		User:    user.Public(),
		Token:   token,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login checks the credentials and answers with a bare token string.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := readJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Requête invalide")
		return
	}

	user, err := h.store.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		writeMessage(w, http.StatusUnauthorized, "Cet email n'est lié à aucun compte")
		return
	}
	if !h.auth.CheckPassword(user.PasswordHash, req.Password) {
		writeMessage(w, http.StatusUnauthorized, "Le mot de passe est incorrect")
		return
	}

	token, err := h.auth.IssueSession(user.ID, user.Username)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, err.Error())
		return
	}

	// The login response has always been the raw token string.
	writeJSON(w, http.StatusOK, token)
}

type forgotPassRequest struct {
	Email string `json:"email"`
}

// ForgotPass emails a short-lived reset link to the account owner.
func (h *Handler) ForgotPass(w http.ResponseWriter, r *http.Request) {
	var req forgotPassRequest
	if err := readJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Requête invalide")
		return
	}

	user, err := h.store.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		writeMessage(w, http.StatusNotFound, "Cet email n'est lié à aucun compte")
		return
	}

	token, err := h.auth.IssueResetToken(user.ID)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := h.mailer.SendPasswordReset(r.Context(), user.Email, user.Username, token); err != nil {
		writeMessage(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeMessage(w, http.StatusOK, "Email envoyé")
}

type resetPassRequest struct {
	Email    string `json:"email"`
	Password string `json:"password" validate:"required,min=6"`
}

// ResetPass rewrites the password of the account the reset token was issued
// for. The payload email must match the stored one, so a leaked token alone
// is not enough.
func (h *Handler) ResetPass(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetResetUser(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Token manquant !")
		return
	}

	var req resetPassRequest
	if err := readJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Requête invalide")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Un mot de passe d'au moins 6 caractères est requis")
		return
	}

	user, err := h.store.GetUserByID(r.Context(), userID)
	if err != nil {
		h.storeError(w, r, err, "Utilisateur introuvable", "")
		return
	}
	if user.Email != req.Email {
		writeMessage(w, http.StatusUnauthorized, "Tu n'es pas autorisé à réaliser cette action")
		return
	}

	hash, err := h.auth.HashPassword(req.Password)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, err.Error())
		return
	}

	updated, err := h.store.UpdateUserPassword(r.Context(), userID, hash)
	if err != nil {
		h.storeError(w, r, err, "Utilisateur introuvable", "")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id_user":       updated.ID,
		"username_user": updated.Username,
		"email_user":    updated.Email,
	})
}
