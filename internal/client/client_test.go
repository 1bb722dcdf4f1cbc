package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/singleflight"
)

const markerBody = `{"success":false,"error":"Token validation service unavailable"}`

// navigation records calls to the session-terminated effect
type navigation struct {
	mu    sync.Mutex
	paths []string
}

func (n *navigation) record(_ context.Context, loginPath string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paths = append(n.paths, loginPath)
}

func (n *navigation) calls() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.paths...)
}

func newTestClient(t *testing.T, baseURL string, tm TokenManager, opts ...Option) *Client {
	t.Helper()
	c, err := NewClient(baseURL, tm, append([]Option{WithServiceName("test")}, opts...)...)
	require.NoError(t, err)
	return c
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	_, err := NewClient("", nil)
	assert.Error(t, err)
}

func TestClientCreation(t *testing.T) {
	tm := NewMemoryTokenManager(nil)
	c, err := NewClient("http://localhost:5001/api/products", tm, WithServiceName("product"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5001/api/products", c.BaseURL())
	assert.Equal(t, "product", c.Service())
	assert.Equal(t, tm, c.TokenManager())
}

func TestBearerHeaderAttachedExactlyOnce(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, []string{"Bearer abc"}, r.Header.Values("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Write([]byte(`{"success":true}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, NewMemoryTokenManager(&Token{AccessToken: "abc"}))
	resp, err := c.Get(context.Background(), "/brands", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true}`, string(resp))
}

func TestNoAuthorizationWithoutToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Values("Authorization"))
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	t.Run("empty store", func(t *testing.T) {
		c := newTestClient(t, server.URL, NewMemoryTokenManager(nil))
		_, err := c.Get(context.Background(), "/brands", nil)
		require.NoError(t, err)
	})

	t.Run("unauthenticated client", func(t *testing.T) {
		c := newTestClient(t, server.URL, nil)
		_, err := c.Get(context.Background(), "/brands", nil)
		require.NoError(t, err)
	})

	t.Run("unreadable store", func(t *testing.T) {
		c := newTestClient(t, server.URL, brokenTokenManager{})
		_, err := c.Get(context.Background(), "/brands", nil)
		require.NoError(t, err)
	})
}

type brokenTokenManager struct{}

func (brokenTokenManager) GetToken() (*Token, error) { return nil, errors.New("corrupt record") }
func (brokenTokenManager) SaveToken(*Token) error    { return nil }
func (brokenTokenManager) ClearToken() error         { return nil }

func TestPathAndQueryEncoding(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/products/brands", r.URL.Path)
		assert.Equal(t, "summer sale", r.URL.Query().Get("search"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		w.Write([]byte(`{"success":true,"data":[]}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL+"/api/products", nil)
	_, err := c.Get(context.Background(), "brands", map[string]string{"search": "summer sale", "page": "2"})
	require.NoError(t, err)
}

func TestNoCaching(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`{"success":true}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, nil)
	for i := 0; i < 2; i++ {
		_, err := c.Get(context.Background(), "/categories", nil)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(2), hits.Load())
}

func TestJSONBodyRoundTrip(t *testing.T) {
	body := map[string]any{
		"name":     "Acme",
		"active":   true,
		"tags":     []any{"a", "b"},
		"metadata": map[string]any{"rank": float64(3)},
	}

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, method, r.Method)
				var got map[string]any
				require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
				assert.Equal(t, body, got)
				w.Write([]byte(`{"success":true}`))
			}))
			defer server.Close()

			c := newTestClient(t, server.URL, nil)
			var err error
			switch method {
			case http.MethodPost:
				_, err = c.Post(context.Background(), "/brands", body)
			case http.MethodPut:
				_, err = c.Put(context.Background(), "/brands/1", body)
			case http.MethodDelete:
				_, err = c.Delete(context.Background(), "/brands/1", body)
			}
			require.NoError(t, err)
		})
	}
}

func TestDeleteWithoutBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		assert.Empty(t, data)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, nil)
	resp, err := c.Delete(context.Background(), "/brands/1", nil)
	require.NoError(t, err)
	assert.Equal(t, "null", string(resp))
}

func TestInvalidJSONResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>oops</html>`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, nil)
	_, err := c.Get(context.Background(), "/brands", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid JSON response")
}

func TestUploadSendsMultipart(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer abc", r.Header.Get("Authorization"))
		ct := r.Header.Get("Content-Type")
		assert.NotEqual(t, "application/json", ct)
		assert.True(t, strings.HasPrefix(ct, "multipart/form-data; boundary="), ct)

		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "banners", r.FormValue("folder"))
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		data, _ := io.ReadAll(file)
		assert.Equal(t, "logo.png", header.Filename)
		assert.Equal(t, "pngdata", string(data))

		w.Write([]byte(`{"success":true,"data":{"url":"https://cdn/logo.png"}}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, NewMemoryTokenManager(&Token{AccessToken: "abc"}))
	form := NewForm().Set("folder", "banners").AddFile("file", "logo.png", "image/png", strings.NewReader("pngdata"))
	resp, err := c.Upload(context.Background(), "/upload", form)
	require.NoError(t, err)
	assert.Contains(t, string(resp), "cdn/logo.png")
}

func TestCustomHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "admin-web", r.Header.Get("X-Client"))
		assert.Equal(t, "vendor", r.Header.Get("X-Role"))
		assert.True(t, strings.HasPrefix(r.Header.Get("X-Request-ID"), "req-"))
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, nil, WithHeader("X-Client", "admin-web"), WithRequestIDs())
	_, err := c.Do(context.Background(), Request{
		Method:  http.MethodGet,
		Path:    "/vendors",
		Headers: map[string]string{"X-Role": "vendor"},
	})
	require.NoError(t, err)
}

func TestServerErrorMessage(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"message field verbatim", http.StatusInternalServerError, `{"success":false,"message":"Brand name already exists"}`, "Brand name already exists"},
		{"no message field", http.StatusInternalServerError, `{"success":false}`, FallbackMessage},
		{"non-JSON body", http.StatusBadGateway, `Bad Gateway`, FallbackMessage},
		{"not found", http.StatusNotFound, `{"message":"Category not found"}`, "Category not found"},
		{"forbidden", http.StatusForbidden, `{"message":"Token validation service unavailable"}`, "Token validation service unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var hits atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				hits.Add(1)
				assert.NotEqual(t, RefreshPath, r.URL.Path)
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			nav := &navigation{}
			tm := NewMemoryTokenManager(&Token{AccessToken: "abc"})
			c := newTestClient(t, server.URL, tm,
				WithRefresher(NewHTTPRefresher(server.URL, nil)),
				WithSessionTerminated(nav.record))

			_, err := c.Get(context.Background(), "/brands", nil)
			require.Error(t, err)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.wantMsg, err.Error())
			assert.Equal(t, tt.status, StatusCode(err))

			assert.Equal(t, int32(1), hits.Load())
			assert.Empty(t, nav.calls())
			token, err := tm.GetToken()
			require.NoError(t, err)
			assert.Equal(t, "abc", token.AccessToken)
		})
	}
}

func TestUnauthorizedClearsSession(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"success":false,"message":"Invalid token"}`))
	}))
	defer server.Close()

	nav := &navigation{}
	tm := NewMemoryTokenManager(&Token{AccessToken: "abc", RefreshToken: "r1"})
	c := newTestClient(t, server.URL, tm,
		WithRefresher(RefresherFunc(func(context.Context, *Token) (*Token, error) {
			t.Fatal("refresh must not be attempted")
			return nil, nil
		})),
		WithSessionTerminated(nav.record))

	_, err := c.Get(context.Background(), "/products", nil)
	require.ErrorIs(t, err, ErrSessionTerminated)

	assert.Equal(t, int32(1), hits.Load(), "no retry")
	assert.Equal(t, []string{"/login"}, nav.calls())
	_, err = tm.GetToken()
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestUnauthorizedWithoutTokenManager(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"success":false,"message":"Invalid credentials"}`))
	}))
	defer server.Close()

	nav := &navigation{}
	c := newTestClient(t, server.URL, nil, WithSessionTerminated(nav.record))
	_, err := c.Post(context.Background(), "/login", map[string]string{"email": "a@b.c"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSessionTerminated)
	assert.Equal(t, "Invalid credentials", err.Error())
	assert.Empty(t, nav.calls())
}

func TestLoginPathOverride(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	nav := &navigation{}
	c := newTestClient(t, server.URL, NewMemoryTokenManager(&Token{AccessToken: "abc"}),
		WithSessionTerminated(nav.record), WithLoginPath("/admin/login"))
	_, err := c.Get(context.Background(), "/brands", nil)
	require.ErrorIs(t, err, ErrSessionTerminated)
	assert.Equal(t, []string{"/admin/login"}, nav.calls())
}

// refreshServer serves both the auth refresh endpoint and a resource that rejects stale tokens
type refreshServer struct {
	refreshes     atomic.Int32
	resourceHits  atomic.Int32
	refreshStatus int
	refreshBody   string
	retryStatus   int
	seenRequestID []string
	mu            sync.Mutex
}

func (s *refreshServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == RefreshPath {
		s.refreshes.Add(1)
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if cookie, err := r.Cookie(RefreshCookieName); err != nil || cookie.Value != "r1" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message":"missing refresh token"}`))
			return
		}
		w.WriteHeader(s.refreshStatus)
		w.Write([]byte(s.refreshBody))
		return
	}

	s.resourceHits.Add(1)
	s.mu.Lock()
	s.seenRequestID = append(s.seenRequestID, r.Header.Get("X-Request-ID"))
	s.mu.Unlock()

	if r.Header.Get("Authorization") != "Bearer fresh" {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(markerBody))
		return
	}
	if s.retryStatus != 0 {
		w.WriteHeader(s.retryStatus)
		w.Write([]byte(`{"message":"still broken"}`))
		return
	}
	w.Write([]byte(`{"success":true,"data":{"id":"1"}}`))
}

func TestTokenUnavailableRefreshAndRetry(t *testing.T) {
	srv := &refreshServer{refreshStatus: http.StatusOK, refreshBody: `{"accessToken":"fresh"}`}
	server := httptest.NewServer(srv)
	defer server.Close()

	nav := &navigation{}
	tm := NewMemoryTokenManager(&Token{AccessToken: "stale", RefreshToken: "r1"})
	c := newTestClient(t, server.URL, tm,
		WithRefresher(NewHTTPRefresher(server.URL, server.Client())),
		WithSessionTerminated(nav.record),
		WithRequestIDs())

	resp, err := c.Get(context.Background(), "/brands/1", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"data":{"id":"1"}}`, string(resp))

	assert.Equal(t, int32(1), srv.refreshes.Load())
	assert.Equal(t, int32(2), srv.resourceHits.Load(), "exactly one retry")
	assert.Empty(t, nav.calls())

	token, err := tm.GetToken()
	require.NoError(t, err)
	assert.Equal(t, "fresh", token.AccessToken)
	assert.Equal(t, "r1", token.RefreshToken, "refresh token kept")

	srv.mu.Lock()
	ids := append([]string(nil), srv.seenRequestID...)
	srv.mu.Unlock()
	require.Len(t, ids, 2)
	assert.Equal(t, ids[0], ids[1], "retry reuses the request id")
}

func TestTokenUnavailableRefreshFails(t *testing.T) {
	srv := &refreshServer{refreshStatus: http.StatusInternalServerError, refreshBody: `{"message":"refresh exploded"}`}
	server := httptest.NewServer(srv)
	defer server.Close()

	nav := &navigation{}
	tm := NewMemoryTokenManager(&Token{AccessToken: "stale", RefreshToken: "r1"})
	c := newTestClient(t, server.URL, tm,
		WithRefresher(NewHTTPRefresher(server.URL, server.Client())),
		WithSessionTerminated(nav.record))

	_, err := c.Get(context.Background(), "/brands/1", nil)
	require.Error(t, err)

	var refreshErr *RefreshError
	require.ErrorAs(t, err, &refreshErr)
	assert.Equal(t, http.StatusInternalServerError, StatusCode(err))
	assert.Contains(t, err.Error(), "refresh exploded")

	assert.Equal(t, int32(1), srv.refreshes.Load())
	assert.Equal(t, int32(1), srv.resourceHits.Load(), "no retry")
	assert.Empty(t, nav.calls(), "no navigation")

	token, err := tm.GetToken()
	require.NoError(t, err, "session not cleared")
	assert.Equal(t, "stale", token.AccessToken)
}

func TestTokenUnavailableRetryFails(t *testing.T) {
	srv := &refreshServer{
		refreshStatus: http.StatusOK,
		refreshBody:   `{"accessToken":"fresh"}`,
		retryStatus:   http.StatusServiceUnavailable,
	}
	server := httptest.NewServer(srv)
	defer server.Close()

	nav := &navigation{}
	c := newTestClient(t, server.URL, NewMemoryTokenManager(&Token{AccessToken: "stale", RefreshToken: "r1"}),
		WithRefresher(NewHTTPRefresher(server.URL, server.Client())),
		WithSessionTerminated(nav.record))

	_, err := c.Get(context.Background(), "/brands/1", nil)
	var refreshErr *RefreshError
	require.ErrorAs(t, err, &refreshErr)
	assert.Equal(t, http.StatusServiceUnavailable, StatusCode(err))

	assert.Equal(t, int32(1), srv.refreshes.Load())
	assert.Equal(t, int32(2), srv.resourceHits.Load())
	assert.Empty(t, nav.calls())
}

func TestRetryHittingMarkerAgainDoesNotRefreshTwice(t *testing.T) {
	var refreshes, hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(markerBody))
	}))
	defer server.Close()

	nav := &navigation{}
	c := newTestClient(t, server.URL, NewMemoryTokenManager(&Token{AccessToken: "stale"}),
		WithRefresher(RefresherFunc(func(context.Context, *Token) (*Token, error) {
			refreshes.Add(1)
			return &Token{AccessToken: "fresh"}, nil
		})),
		WithSessionTerminated(nav.record))

	_, err := c.Get(context.Background(), "/brands", nil)
	var refreshErr *RefreshError
	require.ErrorAs(t, err, &refreshErr)
	assert.Equal(t, int32(1), refreshes.Load())
	assert.Equal(t, int32(2), hits.Load())
	assert.Empty(t, nav.calls())
}

func TestUploadRetryResendsIdenticalBody(t *testing.T) {
	var bodies []string
	var mu sync.Mutex
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		mu.Lock()
		bodies = append(bodies, string(data))
		mu.Unlock()
		if r.Header.Get("Authorization") != "Bearer fresh" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"code":"TOKEN_SERVICE_UNAVAILABLE"}`))
			return
		}
		w.Write([]byte(`{"success":true}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, NewMemoryTokenManager(&Token{AccessToken: "stale"}),
		WithRefresher(RefresherFunc(func(context.Context, *Token) (*Token, error) {
			return &Token{AccessToken: "fresh"}, nil
		})))

	form := NewForm().AddFile("file", "a.txt", "text/plain", strings.NewReader("hello"))
	_, err := c.Upload(context.Background(), "/upload", form)
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, bodies, 2)
	assert.Equal(t, bodies[0], bodies[1])
	assert.Contains(t, bodies[1], "hello")
}

func TestRefreshDeduplication(t *testing.T) {
	var refreshes atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer fresh" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(markerBody))
			return
		}
		w.Write([]byte(`{"success":true}`))
	}))
	defer server.Close()

	group := &singleflight.Group{}
	refresher := RefresherFunc(func(context.Context, *Token) (*Token, error) {
		refreshes.Add(1)
		return &Token{AccessToken: "fresh"}, nil
	})
	tm := NewMemoryTokenManager(&Token{AccessToken: "stale"})

	// Two services sharing one group still refresh correctly
	product := newTestClient(t, server.URL, tm, WithRefresher(refresher), WithRefreshDeduplication(group))
	vendor := newTestClient(t, server.URL, tm, WithRefresher(refresher), WithRefreshDeduplication(group))

	_, err := product.Get(context.Background(), "/brands", nil)
	require.NoError(t, err)
	_, err = vendor.Get(context.Background(), "/vendors", nil)
	require.NoError(t, err)

	// The second call already carries the fresh token
	assert.Equal(t, int32(1), refreshes.Load())
}

func TestNoRefresherConfigured(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(markerBody))
	}))
	defer server.Close()

	tm := NewMemoryTokenManager(&Token{AccessToken: "stale"})
	c := newTestClient(t, server.URL, tm)
	_, err := c.Get(context.Background(), "/brands", nil)
	var refreshErr *RefreshError
	require.ErrorAs(t, err, &refreshErr)

	_, err = tm.GetToken()
	assert.NoError(t, err)
}

func TestContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := newTestClient(t, server.URL, nil)
	_, err := c.Get(ctx, "/brands", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOnCookiesReceivesResponseCookies(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: RefreshCookieName, Value: "rt-1", HttpOnly: true})
		w.Write([]byte(`{"success":true}`))
	}))
	defer server.Close()

	var got []*http.Cookie
	c := newTestClient(t, server.URL, nil)
	_, err := c.Do(context.Background(), Request{
		Method:    http.MethodPost,
		Path:      "/login",
		OnCookies: func(cookies []*http.Cookie) { got = cookies },
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "rt-1", got[0].Value)
}

func TestRefresherReturningNoToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(markerBody))
	}))
	defer server.Close()

	empty := RefresherFunc(func(context.Context, *Token) (*Token, error) { return nil, nil })

	tests := []struct {
		name string
		opts []Option
	}{
		{"independent refresh", []Option{WithRefresher(empty)}},
		{"deduplicated refresh", []Option{WithRefresher(empty), WithRefreshDeduplication(nil)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm := NewMemoryTokenManager(&Token{AccessToken: "stale"})
			c := newTestClient(t, server.URL, tm, tt.opts...)

			_, err := c.Get(context.Background(), "/brands", nil)
			var refreshErr *RefreshError
			require.ErrorAs(t, err, &refreshErr)
			assert.Contains(t, err.Error(), "no access token")

			token, err := tm.GetToken()
			require.NoError(t, err)
			assert.Equal(t, "stale", token.AccessToken)
		})
	}
}

func TestSharedRefreshSurvivesCallerCancellation(t *testing.T) {
	refresher := RefresherFunc(func(ctx context.Context, _ *Token) (*Token, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return &Token{AccessToken: "fresh"}, nil
	})
	c := newTestClient(t, "http://localhost", NewMemoryTokenManager(nil),
		WithRefresher(refresher), WithRefreshDeduplication(nil))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fresh, err := c.refresh(ctx, &Token{AccessToken: "stale"})
	require.NoError(t, err)
	assert.Equal(t, "fresh", fresh.AccessToken)
}

func TestRefreshDeduplicationOptionSharesGroup(t *testing.T) {
	opt := WithRefreshDeduplication(nil)
	a := newTestClient(t, "http://localhost/a", nil, opt)
	b := newTestClient(t, "http://localhost/b", nil, opt)
	require.NotNil(t, a.refreshGroup)
	assert.Same(t, a.refreshGroup, b.refreshGroup)
}
