package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/sagar-developer08/admin-ecom-sub000/internal/auth"
	"github.com/sagar-developer08/admin-ecom-sub000/internal/client"
	"github.com/sagar-developer08/admin-ecom-sub000/internal/config"
	"github.com/sagar-developer08/admin-ecom-sub000/internal/domain/entities"
	"github.com/sagar-developer08/admin-ecom-sub000/internal/domain/services"
	"github.com/sagar-developer08/admin-ecom-sub000/internal/pkg/urlutil"
	"github.com/sagar-developer08/admin-ecom-sub000/web/internal/middleware"
	"github.com/sagar-developer08/admin-ecom-sub000/web/internal/session"
)

// maxBodyBytes caps JSON request bodies
const maxBodyBytes = 1 << 20

// Handler holds dependencies for all web handlers
type Handler struct {
	apiConfig      *config.Config
	sessionManager *session.Manager
	httpClient     *http.Client
	loginPath      string
	log            *slog.Logger
}

// New creates a new handler with dependencies.
// httpClient is shared by every per-request API client so connections are pooled.
func New(apiConfig *config.Config, sessionManager *session.Manager, httpClient *http.Client, loginPath string, logger *slog.Logger) *Handler {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: apiConfig.HTTP.Timeout}
	}
	return &Handler{
		apiConfig:      apiConfig,
		sessionManager: sessionManager,
		httpClient:     httpClient,
		loginPath:      loginPath,
		log:            logger.With(slog.String("component", "web_handler")),
	}
}

// requestAPI is the service bundle bound to one request's session
type requestAPI struct {
	*services.Services
	terminatedAt string // login path reported when the session ended
}

// getAPI creates per-request API clients backed by the request's cookie session.
// Refreshed tokens are written back to the response cookies.
func (h *Handler) getAPI(w http.ResponseWriter, r *http.Request) (*requestAPI, error) {
	tm := session.NewSessionTokenManager(h.sessionManager, r, w)
	api := &requestAPI{}

	reg, err := client.NewRegistry(h.apiConfig, tm,
		client.WithHTTPClient(h.httpClient),
		client.WithLogger(h.log),
		client.WithLoginPath(h.loginPath),
		client.WithSessionTerminated(func(_ context.Context, loginPath string) {
			api.terminatedAt = loginPath
		}),
		client.WithRequestIDs(),
	)
	if err != nil {
		return nil, err
	}

	svc, err := services.New(reg, tm, client.WithHTTPClient(h.httpClient), client.WithRequestIDs())
	if err != nil {
		return nil, err
	}
	api.Services = svc
	return api, nil
}

// withAPI runs fn with per-request API clients and maps its error to a response
func (h *Handler) withAPI(w http.ResponseWriter, r *http.Request, fn func(api *requestAPI) error) {
	api, err := h.getAPI(w, r)
	if err != nil {
		h.log.Error("failed to create API clients", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if err := fn(api); err != nil {
		h.handleError(w, r, api, err)
	}
}

// handleError writes the response for a failed backend call
func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, api *requestAPI, err error) {
	var (
		apiErr     *client.APIError
		refreshErr *client.RefreshError
	)

	switch {
	case errors.Is(err, client.ErrSessionTerminated):
		// the session cookies were already cleared by the token manager
		loginPath := h.loginPath
		if api != nil && api.terminatedAt != "" {
			loginPath = api.terminatedAt
		}
		h.redirectToLogin(w, r, loginPath)
	case errors.Is(err, services.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "authentication required")
	case errors.Is(err, auth.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden")
	case errors.As(err, &refreshErr):
		h.log.Warn("token refresh failed", slog.String("error", err.Error()))
		writeError(w, http.StatusServiceUnavailable, "authentication service unavailable, try again")
	case errors.As(err, &apiErr):
		status := apiErr.StatusCode
		if status < http.StatusBadRequest {
			// a 2xx with success=false
			status = http.StatusBadRequest
		}
		writeError(w, status, apiErr.Message)
	default:
		h.log.Error("backend request failed",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()))
		writeError(w, http.StatusBadGateway, "backend request failed")
	}
}

// redirectToLogin sends page navigations to the login screen and tells API callers where to go
func (h *Handler) redirectToLogin(w http.ResponseWriter, r *http.Request, loginPath string) {
	next := r.URL.RequestURI()
	if r.Method != http.MethodGet {
		next = r.Referer()
	}
	loginURL := urlutil.BuildLoginURL(loginPath, next)

	if wantsHTML(r) {
		http.Redirect(w, r, loginURL, http.StatusSeeOther)
		return
	}
	middleware.Unauthorized(w, loginURL)
}

func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

// writeJSON writes a success envelope around data
func writeJSON(w http.ResponseWriter, status int, data any) {
	writeEnvelope(w, status, map[string]any{"success": true, "data": data})
}

// writePage writes a list response with its pagination
func writePage[T any](w http.ResponseWriter, page *entities.Page[T]) {
	items := page.Items
	if items == nil {
		items = []T{}
	}
	body := map[string]any{"success": true, "data": items}
	if page.Pagination != nil {
		body["pagination"] = page.Pagination
	}
	writeEnvelope(w, http.StatusOK, body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeEnvelope(w, status, map[string]any{"success": false, "message": message})
}

func writeEnvelope(w http.ResponseWriter, status int, body map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// decodeJSON reads a JSON request body into v
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: malformed JSON body: %v", services.ErrInvalidInput, err)
	}
	return nil
}

// listParams reads the common list filters from the query string
func listParams(r *http.Request) entities.ListParams {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	return entities.ListParams{
		Page:   page,
		Limit:  limit,
		Search: q.Get("search"),
		Status: q.Get("status"),
		Sort:   q.Get("sort"),
	}
}

// currentUser returns the user put in the context by the auth middleware
func currentUser(r *http.Request) *auth.UserContext {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		return nil
	}
	return user
}
