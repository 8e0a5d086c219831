// Package handler implements the HTTP endpoints. Responses keep the
// historical JSON shapes: resource rows serialize with their database
// column names and every failure carries a single French message.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/wimf-app/wimf/internal/ai"
	"github.com/wimf-app/wimf/internal/mail"
	"github.com/wimf-app/wimf/internal/model"
	"github.com/wimf-app/wimf/internal/rights"
	"github.com/wimf-app/wimf/internal/server/middleware"
	"github.com/wimf-app/wimf/internal/service"
	"github.com/wimf-app/wimf/internal/store"
)

// Handler carries the dependencies shared by every endpoint.
type Handler struct {
	store    *store.Store
	auth     *service.AuthService
	mailer   mail.Sender
	ai       ai.Generator
	logger   *slog.Logger
	validate *validator.Validate
}

// usernamePattern is the set of characters accepted in usernames.
var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

func New(st *store.Store, auth *service.AuthService, mailer mail.Sender, gen ai.Generator, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	v := validator.New()
	v.RegisterValidation("username_chars", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	return &Handler{
		store:    st,
		auth:     auth,
		mailer:   mailer,
		ai:       gen,
		logger:   logger,
		validate: v,
	}
}

// writeJSON serializes v as JSON and writes it to the response with the
// given HTTP status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeMessage writes the {message} envelope used by confirmations and
// failures alike. net/http drops the body on 204 responses, so callers
// passing StatusNoContent get the status only on the wire.
func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, model.MessageResponse{Message: message})
}

// readJSON decodes the request body as JSON into v. The body is closed
// after decoding regardless of success or failure.
func readJSON(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// urlID parses the {id} (or named) chi URL parameter as a positive integer.
func urlID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("identifiant invalide")
	}
	return id, nil
}

// principal returns the authenticated identity with its current role loaded
// from the store. A nil return means the response has been written.
func (h *Handler) principal(w http.ResponseWriter, r *http.Request) *rights.Identity {
	p := middleware.GetPrincipal(r.Context())
	if p == nil {
		writeMessage(w, http.StatusUnauthorized, "Accès refusé, token manquant")
		return nil
	}
	user, err := h.store.GetUserByID(r.Context(), p.UserID)
	if err != nil {
		writeMessage(w, http.StatusNotFound, "Utilisateur introuvable")
		return nil
	}
	return &rights.Identity{ID: user.ID, Role: user.Rights}
}

// storeError maps store sentinels onto the historical status codes. The
// catch-all exposes err.Error(), as the API always has.
func (h *Handler) storeError(w http.ResponseWriter, r *http.Request, err error, notFound, conflict string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeMessage(w, http.StatusNotFound, notFound)
	case errors.Is(err, store.ErrConflict):
		writeMessage(w, http.StatusConflict, conflict)
	default:
		h.logger.ErrorContext(r.Context(), "store error",
			"path", r.URL.Path,
			"error", err,
			"request_id", middleware.GetRequestID(r.Context()),
		)
		writeMessage(w, http.StatusInternalServerError, err.Error())
	}
}
