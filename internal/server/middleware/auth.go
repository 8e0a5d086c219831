package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/wimf-app/wimf/internal/model"
	"github.com/wimf-app/wimf/internal/service"
	"github.com/wimf-app/wimf/internal/store"
)

type contextKeyAuth string

const (
	// PrincipalKey is the context key for the authenticated principal.
	PrincipalKey contextKeyAuth = "auth_principal"
	// ResetUserKey is the context key for the user id carried by a
	// password-reset token.
	ResetUserKey contextKeyAuth = "reset_user"
)

// Principal represents the authenticated identity making the request.
type Principal struct {
	UserID   int64
	Username string
}

// Authenticate returns an HTTP middleware that validates the session token
// from the Authorization header. On success a Principal is attached to the
// request context; on failure a 401 JSON response is returned.
func Authenticate(auth *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				writeAuthError(w, http.StatusUnauthorized, "Accès refusé, token manquant")
				return
			}

			p, err := auth.ParseSession(token)
			if err != nil {
				writeAuthError(w, http.StatusUnauthorized, "Token invalide ou expiré")
				return
			}

			ctx := context.WithValue(r.Context(), PrincipalKey,
				&Principal{UserID: p.UserID, Username: p.Username})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin returns an HTTP middleware that loads the authenticated
// user's current rights from the database and rejects everyone but
// administrators. The role is read from storage rather than the token so a
// demotion takes effect before the token expires. Must be used after
// Authenticate.
func RequireAdmin(st *store.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := GetPrincipal(r.Context())
			if principal == nil {
				writeAuthError(w, http.StatusUnauthorized, "Accès refusé, token manquant")
				return
			}

			user, err := st.GetUserByID(r.Context(), principal.UserID)
			if err != nil {
				writeAuthError(w, http.StatusNotFound, "Utilisateur introuvable")
				return
			}
			if user.Rights != model.RoleAdministrator {
				writeAuthError(w, http.StatusForbidden, "Tu ne peux pas réaliser cette action")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireReset returns an HTTP middleware that validates the short-lived
// password-reset token and stores the user id it was issued for in the
// request context.
func RequireReset(auth *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				writeAuthError(w, http.StatusUnauthorized, "Token manquant !")
				return
			}

			userID, err := auth.ParseResetToken(token)
			if err != nil {
				writeAuthError(w, http.StatusUnauthorized, "Token invalide ou expiré")
				return
			}

			ctx := context.WithValue(r.Context(), ResetUserKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetPrincipal extracts the authenticated principal from the context.
// Returns nil for an unauthenticated request.
func GetPrincipal(ctx context.Context) *Principal {
	if p, ok := ctx.Value(PrincipalKey).(*Principal); ok {
		return p
	}
	return nil
}

// GetResetUser extracts the reset-token user id from the context.
func GetResetUser(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(ResetUserKey).(int64)
	return id, ok
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	return strings.TrimPrefix(header, "Bearer "), true
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(model.MessageResponse{Message: message})
}
