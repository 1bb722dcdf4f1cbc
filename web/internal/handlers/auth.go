package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sagar-developer08/admin-ecom-sub000/internal/auth"
	"github.com/sagar-developer08/admin-ecom-sub000/internal/domain/entities"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges email and password for a session. Accepts JSON or a form post.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			writeError(w, http.StatusBadRequest, "invalid form")
			return
		}
		req.Email = r.PostFormValue("email")
		req.Password = r.PostFormValue("password")
	}

	h.withAPI(w, r, func(api *requestAPI) error {
		result, err := api.Auth.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			h.log.Info("login failed", slog.String("email", req.Email), slog.String("error", err.Error()))
			return err
		}

		user := result.User
		if user == nil {
			user = userFromToken(result.AccessToken)
		}
		h.log.Info("admin logged in", slog.String("email", req.Email))

		if next := r.URL.Query().Get("next"); next != "" && wantsHTML(r) && isLocalPath(next) {
			http.Redirect(w, r, next, http.StatusSeeOther)
			return nil
		}
		writeJSON(w, http.StatusOK, map[string]any{"user": user})
		return nil
	})
}

// Logout ends the session on the server and clears the cookies
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.withAPI(w, r, func(api *requestAPI) error {
		if err := api.Auth.Logout(r.Context()); err != nil {
			return err
		}
		if wantsHTML(r) {
			http.Redirect(w, r, h.loginPath, http.StatusSeeOther)
			return nil
		}
		writeJSON(w, http.StatusOK, map[string]any{"loggedOut": true})
		return nil
	})
}

// Me returns the logged-in user as the auth service sees it
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	h.withAPI(w, r, func(api *requestAPI) error {
		user, err := api.Auth.Me(r.Context())
		if err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, user)
		return nil
	})
}

// Session returns the identity decoded from the session token without a backend call
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	if user == nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"userId":   user.UserID,
		"email":    user.Email,
		"name":     user.Name,
		"role":     user.Role,
		"vendorId": user.VendorID,
	})
}

// userFromToken builds a user from the access token claims when login returned none
func userFromToken(accessToken string) *entities.User {
	claims, err := auth.ParseClaims(accessToken)
	if err != nil && !errors.Is(err, auth.ErrExpiredToken) {
		return nil
	}
	return &entities.User{
		ID:       claims.AccountID(),
		Name:     claims.Name,
		Email:    claims.Email,
		Role:     entities.Role(claims.Role),
		VendorID: claims.VendorID,
	}
}

// isLocalPath reports whether next is a path on this host, not an open redirect
func isLocalPath(next string) bool {
	return strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") && !strings.Contains(next, "\\")
}
