package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagar-developer08/admin-ecom-sub000/internal/client"
	"github.com/sagar-developer08/admin-ecom-sub000/internal/config"
	"github.com/sagar-developer08/admin-ecom-sub000/web/internal/middleware"
	"github.com/sagar-developer08/admin-ecom-sub000/web/internal/session"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func accessToken(id, role, vendorID string) string {
	s, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":       id,
		"role":     role,
		"vendorId": vendorID,
		"exp":      float64(time.Now().Add(time.Hour).Unix()),
	}).SigningString()
	return s + ".sig"
}

func backendJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// backend fakes every admin API service on one host
type backend struct {
	*httptest.Server

	revoked     atomic.Bool // every token is rejected
	unavailable atomic.Bool // token validation is down until a refresh
	refreshed   string

	mu       sync.Mutex
	lastAuth string
	lastURL  *url.URL
	uploaded string
}

func (b *backend) record(r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastAuth = r.Header.Get("Authorization")
	b.lastURL = r.URL
}

func (b *backend) lastRequest() (string, *url.URL) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastAuth, b.lastURL
}

func (b *backend) lastUpload() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.uploaded
}

// authorized fails the request the way the auth middleware does
func (b *backend) authorized(w http.ResponseWriter, r *http.Request) bool {
	b.record(r)
	if b.revoked.Load() {
		backendJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "Invalid token"})
		return false
	}
	if b.unavailable.Load() && r.Header.Get("Authorization") != "Bearer "+b.refreshed {
		backendJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "Token validation service unavailable"})
		return false
	}
	return true
}

func newBackend(t *testing.T) *backend {
	t.Helper()
	b := &backend{refreshed: accessToken("u-1-refreshed", "superadmin", "")}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["password"] != "secret" {
			backendJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "Invalid credentials"})
			return
		}
		role, vendorID := "superadmin", ""
		if strings.HasPrefix(body["email"], "vendor") {
			role, vendorID = "vendor", "v1"
		}
		backendJSON(w, http.StatusOK, map[string]any{"success": true, "data": map[string]any{
			"accessToken":  accessToken("u-1", role, vendorID),
			"refreshToken": "refresh-1",
			"user":         map[string]any{"_id": "u-1", "email": body["email"], "role": role, "vendorId": vendorID},
		}})
	})
	mux.HandleFunc("POST /api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie(client.RefreshCookieName); err != nil || c.Value != "refresh-1" {
			backendJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "Invalid refresh token"})
			return
		}
		backendJSON(w, http.StatusOK, map[string]any{"success": true, "data": map[string]any{"accessToken": b.refreshed}})
	})
	mux.HandleFunc("POST /api/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		b.record(r)
		backendJSON(w, http.StatusOK, map[string]any{"success": true})
	})
	mux.HandleFunc("GET /api/products/brands", func(w http.ResponseWriter, r *http.Request) {
		if !b.authorized(w, r) {
			return
		}
		backendJSON(w, http.StatusOK, map[string]any{"success": true, "data": []map[string]any{
			{"_id": "b1", "name": "Acme", "slug": "acme", "isActive": true},
		}, "pagination": map[string]any{"page": 1, "limit": 20, "total": 1, "totalPages": 1}})
	})
	mux.HandleFunc("GET /api/products/brands/{id}", func(w http.ResponseWriter, r *http.Request) {
		if !b.authorized(w, r) {
			return
		}
		backendJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "Brand not found"})
	})
	mux.HandleFunc("GET /api/products/categories", func(w http.ResponseWriter, r *http.Request) {
		if !b.authorized(w, r) {
			return
		}
		backendJSON(w, http.StatusOK, map[string]any{"success": true, "data": []map[string]any{
			{"_id": "c2", "name": "Shirts", "parentId": "c1"},
			{"_id": "c1", "name": "Apparel", "parentId": nil},
			{"_id": "c3", "name": "Toys", "parentId": nil, "sortOrder": 1},
		}})
	})
	mux.HandleFunc("GET /api/products", func(w http.ResponseWriter, r *http.Request) {
		if !b.authorized(w, r) {
			return
		}
		backendJSON(w, http.StatusOK, map[string]any{"success": true, "data": []map[string]any{}})
	})
	mux.HandleFunc("GET /api/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		if !b.authorized(w, r) {
			return
		}
		backendJSON(w, http.StatusOK, map[string]any{"success": true, "data": map[string]any{
			"_id": r.PathValue("id"), "name": "Mug", "price": "12.50", "salePrice": "9.99", "vendorId": "v2",
		}})
	})
	mux.HandleFunc("PUT /api/vendors/{id}/approve", func(w http.ResponseWriter, r *http.Request) {
		if !b.authorized(w, r) {
			return
		}
		backendJSON(w, http.StatusOK, map[string]any{"success": true, "data": map[string]any{
			"_id": r.PathValue("id"), "businessName": "Widgets Ltd", "status": "approved",
		}})
	})
	mux.HandleFunc("GET /api/support/tickets/{id}", func(w http.ResponseWriter, r *http.Request) {
		if !b.authorized(w, r) {
			return
		}
		backendJSON(w, http.StatusOK, map[string]any{"success": true, "data": map[string]any{
			"_id": r.PathValue("id"), "subject": "Late delivery", "status": "open",
			"messages": []map[string]any{{"authorName": "Dana", "message": "Where is **order 42**?<script>x()</script>"}},
		}})
	})
	mux.HandleFunc("POST /api/media/upload", func(w http.ResponseWriter, r *http.Request) {
		if !b.authorized(w, r) {
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			backendJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "file missing"})
			return
		}
		data, _ := io.ReadAll(file)
		b.mu.Lock()
		b.uploaded = header.Filename + ":" + string(data) + ":" + r.FormValue("folder")
		b.mu.Unlock()
		backendJSON(w, http.StatusCreated, map[string]any{"success": true, "data": map[string]any{
			"_id": "m1", "url": "https://cdn.example.com/" + header.Filename,
		}})
	})

	b.Server = httptest.NewServer(mux)
	t.Cleanup(b.Close)
	return b
}

// browser is a cookie-keeping client for the web host
type browser struct {
	t    *testing.T
	base string
	http *http.Client
}

func newTestWeb(t *testing.T, b *backend) *browser {
	t.Helper()
	for _, name := range config.EnvVars {
		t.Setenv(name, "")
	}
	t.Setenv(config.StreamURLEnvVar, "")

	apiCfg, err := config.FromServices(config.ServicesConfig{
		Auth:         b.URL + "/api/auth",
		Product:      b.URL + "/api/products",
		Vendor:       b.URL + "/api/vendors",
		Support:      b.URL + "/api/support",
		Notification: b.URL + "/api/notifications",
		Media:        b.URL + "/api/media",
	})
	require.NoError(t, err)

	sm := session.NewManager([]byte("0123456789abcdef0123456789abcdef"), false, 3600)
	h := New(apiCfg, sm, nil, "/login", testLogger)

	router := mux.NewRouter()
	h.Register(router, middleware.NewAuthMiddleware(sm, "/login", testLogger))
	web := httptest.NewServer(router)
	t.Cleanup(web.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &browser{t: t, base: web.URL, http: &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}}
}

func (br *browser) do(method, path string, body any, headers ...string) (int, map[string]any, *http.Response) {
	br.t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(br.t, err)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, br.base+path, reader)
	require.NoError(br.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	return br.send(req)
}

func (br *browser) send(req *http.Request) (int, map[string]any, *http.Response) {
	br.t.Helper()
	resp, err := br.http.Do(req)
	require.NoError(br.t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	data, _ := io.ReadAll(resp.Body)
	_ = json.Unmarshal(data, &decoded)
	return resp.StatusCode, decoded, resp
}

func (br *browser) cookie(name string) string {
	u, _ := url.Parse(br.base)
	for _, c := range br.http.Jar.Cookies(u) {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

func (br *browser) login(email string) {
	br.t.Helper()
	status, body, _ := br.do(http.MethodPost, "/login", map[string]string{"email": email, "password": "secret"})
	require.Equal(br.t, http.StatusOK, status, "login failed: %v", body)
}

func TestLoginAndProxy(t *testing.T) {
	b := newBackend(t)
	br := newTestWeb(t, b)

	status, body, _ := br.do(http.MethodPost, "/login", map[string]string{"email": "admin@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid credentials", body["message"])

	status, body, _ = br.do(http.MethodPost, "/login", map[string]string{"email": "admin@example.com", "password": "secret"})
	require.Equal(t, http.StatusOK, status)
	user := body["data"].(map[string]any)["user"].(map[string]any)
	assert.Equal(t, "admin@example.com", user["email"])
	assert.NotEmpty(t, br.cookie(client.AuthCookieName))

	status, body, _ = br.do(http.MethodGet, "/api/brands", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "b1", body["data"].([]any)[0].(map[string]any)["_id"])
	assert.Equal(t, float64(1), body["pagination"].(map[string]any)["total"])
	lastAuth, _ := b.lastRequest()
	assert.Equal(t, "Bearer "+br.cookie(client.AuthCookieName), lastAuth)

	status, body, _ = br.do(http.MethodGet, "/api/session", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "superadmin", body["data"].(map[string]any)["role"])

	status, _, _ = br.do(http.MethodPost, "/logout", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, br.cookie(client.AuthCookieName))

	status, _, _ = br.do(http.MethodGet, "/api/brands", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestFormLoginRedirectsToNext(t *testing.T) {
	b := newBackend(t)
	br := newTestWeb(t, b)

	form := url.Values{"email": {"admin@example.com"}, "password": {"secret"}}
	req, err := http.NewRequest(http.MethodPost, br.base+"/login?next=%2Fvendors", strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "text/html")

	status, _, resp := br.send(req)
	assert.Equal(t, http.StatusSeeOther, status)
	assert.Equal(t, "/vendors", resp.Header.Get("Location"))
}

func TestAPIRequiresSession(t *testing.T) {
	br := newTestWeb(t, newBackend(t))

	status, body, _ := br.do(http.MethodGet, "/api/brands?page=2", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "/login?next=%2Fapi%2Fbrands%3Fpage%3D2", body["redirect"])
}

func TestRefreshUpdatesSessionCookie(t *testing.T) {
	b := newBackend(t)
	br := newTestWeb(t, b)
	br.login("admin@example.com")
	before := br.cookie(client.AuthCookieName)

	b.unavailable.Store(true)
	status, body, _ := br.do(http.MethodGet, "/api/brands", nil)
	require.Equal(t, http.StatusOK, status, "body: %v", body)

	assert.NotEqual(t, before, br.cookie(client.AuthCookieName))
	assert.Equal(t, b.refreshed, br.cookie(client.AuthCookieName))

	// the next request goes straight through with the refreshed token
	status, _, _ = br.do(http.MethodGet, "/api/brands", nil)
	assert.Equal(t, http.StatusOK, status)
	lastAuth, _ := b.lastRequest()
	assert.Equal(t, "Bearer "+b.refreshed, lastAuth)
}

func TestSessionTerminated(t *testing.T) {
	b := newBackend(t)
	br := newTestWeb(t, b)
	br.login("admin@example.com")

	b.revoked.Store(true)
	status, body, _ := br.do(http.MethodGet, "/api/brands", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "/login?next=%2Fapi%2Fbrands", body["redirect"])
	assert.Empty(t, br.cookie(client.AuthCookieName))

	// the session is gone
	status, _, _ = br.do(http.MethodGet, "/api/session", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestSessionTerminatedRedirectsPageNavigation(t *testing.T) {
	b := newBackend(t)
	br := newTestWeb(t, b)
	br.login("admin@example.com")

	b.revoked.Store(true)
	status, _, resp := br.do(http.MethodGet, "/api/categories/tree", nil, "Accept", "text/html")
	assert.Equal(t, http.StatusSeeOther, status)
	assert.Equal(t, "/login?next=%2Fapi%2Fcategories%2Ftree", resp.Header.Get("Location"))
}

func TestCategoryEndpoints(t *testing.T) {
	b := newBackend(t)
	br := newTestWeb(t, b)
	br.login("admin@example.com")

	status, body, _ := br.do(http.MethodGet, "/api/categories/tree", nil)
	require.Equal(t, http.StatusOK, status)
	roots := body["data"].([]any)
	require.Len(t, roots, 2)
	apparel := roots[0].(map[string]any)
	assert.Equal(t, "Apparel", apparel["name"])
	children := apparel["children"].([]any)
	require.Len(t, children, 1)
	assert.Equal(t, "Shirts", children[0].(map[string]any)["name"])
	assert.Equal(t, float64(1), children[0].(map[string]any)["depth"])

	status, body, _ = br.do(http.MethodGet, "/api/categories/options?exclude=c1", nil)
	require.Equal(t, http.StatusOK, status)
	options := body["data"].([]any)
	require.Len(t, options, 1)
	assert.Equal(t, "c3", options[0].(map[string]any)["value"])

	status, body, _ = br.do(http.MethodGet, "/api/categories/c2", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Apparel / Shirts", body["data"].(map[string]any)["breadcrumb"])

	status, _, _ = br.do(http.MethodGet, "/api/categories/missing", nil)
	assert.Equal(t, http.StatusNotFound, status)

	// moving Apparel under its own child is rejected before reaching the backend
	status, body, _ = br.do(http.MethodPut, "/api/categories/c1", map[string]any{"name": "Apparel", "parentId": "c2"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["message"], "cannot be moved under itself")
}

func TestVendorAccountScope(t *testing.T) {
	b := newBackend(t)
	br := newTestWeb(t, b)
	br.login("vendor@example.com")

	status, _, _ := br.do(http.MethodPut, "/api/vendors/v9/approve", nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _, _ = br.do(http.MethodGet, "/api/vendors", nil)
	assert.Equal(t, http.StatusForbidden, status)

	// products are filtered to the vendor's own
	status, _, _ = br.do(http.MethodGet, "/api/products?vendorId=v2", nil)
	require.Equal(t, http.StatusOK, status)
	_, lastURL := b.lastRequest()
	assert.Equal(t, "v1", lastURL.Query().Get("vendorId"))

	// product p1 belongs to v2
	status, _, _ = br.do(http.MethodGet, "/api/products/p1", nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestSuperAdminActions(t *testing.T) {
	b := newBackend(t)
	br := newTestWeb(t, b)
	br.login("admin@example.com")

	status, body, _ := br.do(http.MethodPut, "/api/vendors/v9/approve", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "approved", body["data"].(map[string]any)["status"])

	status, body, _ = br.do(http.MethodGet, "/api/products/p1", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "9.99", body["data"].(map[string]any)["effectivePrice"])
}

func TestTicketMessagesRendered(t *testing.T) {
	b := newBackend(t)
	br := newTestWeb(t, b)
	br.login("admin@example.com")

	status, body, _ := br.do(http.MethodGet, "/api/tickets/t1", nil)
	require.Equal(t, http.StatusOK, status)
	ticket := body["data"].(map[string]any)
	assert.Equal(t, "Late delivery", ticket["subject"])
	msg := ticket["messages"].([]any)[0].(map[string]any)
	assert.Contains(t, msg["html"], "<strong>order 42</strong>")
	assert.NotContains(t, msg["html"], "<script>")
	assert.Contains(t, msg["message"], "**order 42**")
}

func TestErrorMapping(t *testing.T) {
	b := newBackend(t)
	br := newTestWeb(t, b)
	br.login("admin@example.com")

	tests := []struct {
		name    string
		method  string
		path    string
		body    any
		status  int
		message string
	}{
		{"backend status passes through", http.MethodGet, "/api/brands/missing", nil, http.StatusNotFound, "Brand not found"},
		{"validation error", http.MethodPost, "/api/products", map[string]any{"price": "10"}, http.StatusBadRequest, "invalid input"},
		{"malformed body", http.MethodPost, "/api/brands", "not an object", http.StatusBadRequest, "malformed JSON"},
		{"missing commission", http.MethodPut, "/api/vendors/v1/commission", map[string]any{}, http.StatusBadRequest, "commissionRate is required"},
		{"empty reply", http.MethodPost, "/api/tickets/t1/reply", map[string]any{"message": "  "}, http.StatusBadRequest, "reply message is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body, _ := br.do(tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, false, body["success"])
			assert.Contains(t, body["message"], tt.message)
		})
	}
}

func TestUploadMedia(t *testing.T) {
	b := newBackend(t)
	br := newTestWeb(t, b)
	br.login("admin@example.com")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "logo.png")
	require.NoError(t, err)
	_, _ = part.Write([]byte("png-bytes"))
	require.NoError(t, mw.WriteField("folder", "brands"))
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, br.base+"/api/media", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	status, body, _ := br.send(req)
	require.Equal(t, http.StatusCreated, status, "body: %v", body)
	assert.Equal(t, "m1", body["data"].(map[string]any)["_id"])
	assert.Equal(t, "logo.png:png-bytes:brands", b.lastUpload())
}

func TestPreviewMarkdown(t *testing.T) {
	b := newBackend(t)
	br := newTestWeb(t, b)
	br.login("admin@example.com")

	status, body, _ := br.do(http.MethodPost, "/api/preview", map[string]string{"message": "# Hi"})
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body["data"].(map[string]any)["html"], "<h1>Hi</h1>")
}
