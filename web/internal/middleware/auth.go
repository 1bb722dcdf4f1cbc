package middleware

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sagar-developer08/admin-ecom-sub000/internal/auth"
	"github.com/sagar-developer08/admin-ecom-sub000/internal/pkg/urlutil"
	"github.com/sagar-developer08/admin-ecom-sub000/web/internal/session"
)

// AuthMiddleware handles authentication checks for requests.
// Token refresh is handled by the per-request API clients, so an expired
// access token is let through here.
type AuthMiddleware struct {
	sessionManager *session.Manager
	loginPath      string
	log            *slog.Logger
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(sessionManager *session.Manager, loginPath string, logger *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		sessionManager: sessionManager,
		loginPath:      loginPath,
		log:            logger.With(slog.String("component", "auth_middleware")),
	}
}

// RequireAuth ensures the request carries a session and puts the user in the context
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := m.sessionManager.GetValidatedUser(r)
		if err != nil && !errors.Is(err, auth.ErrExpiredToken) {
			if !errors.Is(err, session.ErrNoToken) {
				m.log.Debug("unusable session token", slog.String("error", err.Error()))
			}
			Unauthorized(w, urlutil.BuildLoginURL(m.loginPath, r.URL.RequestURI()))
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.SetUserInContext(r.Context(), user)))
	})
}

// RequireSuperAdmin rejects vendor accounts. Must run after RequireAuth.
func (m *AuthMiddleware) RequireSuperAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := auth.RequireSuperAdmin(r.Context()); err != nil {
			writeJSON(w, http.StatusForbidden, map[string]any{"success": false, "message": "superadmin access required"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Unauthorized tells the browser UI to send the user to the login screen
func Unauthorized(w http.ResponseWriter, loginURL string) {
	writeJSON(w, http.StatusUnauthorized, map[string]any{
		"success":  false,
		"message":  "authentication required",
		"redirect": loginURL,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
