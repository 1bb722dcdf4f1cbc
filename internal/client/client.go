// Package client is the HTTP client shared by every admin screen. One Client talks to one
// backend microservice; it attaches the session's bearer token, recovers once from a
// token-validation-service outage by refreshing and retrying, and tears the session down on any
// other 401.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"golang.org/x/sync/singleflight"

	"github.com/sagar-developer08/admin-ecom-sub000/internal/pkg/idgen"
	"github.com/sagar-developer08/admin-ecom-sub000/internal/pkg/logger"
	"github.com/sagar-developer08/admin-ecom-sub000/internal/pkg/metrics"
	"github.com/sagar-developer08/admin-ecom-sub000/internal/pkg/urlutil"
)

// DefaultLoginPath is the login entry point hosts navigate to after a hard logout
const DefaultLoginPath = "/login"

// SessionTerminatedFunc is the host's reaction to a hard logout (redirect, prompt, exit).
// The session record has already been cleared when it runs.
type SessionTerminatedFunc func(ctx context.Context, loginPath string)

// Client performs requests against a single backend service
type Client struct {
	baseURL      string
	service      string
	httpClient   *http.Client
	tokenManager TokenManager
	refresher    Refresher
	onTerminated SessionTerminatedFunc
	loginPath    string
	headers      map[string]string
	markers      Markers
	refreshGroup *singleflight.Group
	requestIDs   bool
	log          *slog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client. Its transport is wrapped for metrics.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// WithServiceName names the backend for logs and metrics
func WithServiceName(name string) Option {
	return func(c *Client) {
		c.service = name
	}
}

// WithRefresher sets how fresh access tokens are obtained
func WithRefresher(r Refresher) Option {
	return func(c *Client) {
		c.refresher = r
	}
}

// WithSessionTerminated sets the hard-logout effect
func WithSessionTerminated(fn SessionTerminatedFunc) Option {
	return func(c *Client) {
		c.onTerminated = fn
	}
}

// WithLoginPath overrides the login entry point passed to the hard-logout effect
func WithLoginPath(path string) Option {
	return func(c *Client) {
		if path != "" {
			c.loginPath = path
		}
	}
}

// WithHeader adds a header sent on every request
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.headers[key] = value
	}
}

// WithTokenUnavailableMarkers replaces the markers that identify a recoverable 401
func WithTokenUnavailableMarkers(m Markers) Option {
	return func(c *Client) {
		c.markers = m
	}
}

// WithRefreshDeduplication makes concurrent refreshes share one call to the refresher.
// Clients given the same group share refreshes across services. A nil group is replaced by one
// group created here, so every client built with this Option value shares it.
func WithRefreshDeduplication(group *singleflight.Group) Option {
	return func(c *Client) {
		if group == nil {
			group = &singleflight.Group{}
		}
		c.refreshGroup = group
	}
}

// WithRequestIDs sends an X-Request-ID header on every request
func WithRequestIDs() Option {
	return func(c *Client) {
		c.requestIDs = true
	}
}

// NewClient creates a client for the service at baseURL.
// If tokenManager is nil the client is unauthenticated: no token is attached and a 401 is an ordinary error.
func NewClient(baseURL string, tokenManager TokenManager, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("base URL is required")
	}

	c := &Client{
		baseURL:      baseURL,
		httpClient:   &http.Client{},
		tokenManager: tokenManager,
		loginPath:    DefaultLoginPath,
		headers:      make(map[string]string),
		markers:      DefaultMarkers,
		log:          slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.service == "" {
		c.service = "unknown"
	}

	// Copy so a shared *http.Client is not mutated
	hc := *c.httpClient
	hc.Transport = metrics.NewTransport(hc.Transport, c.service)
	c.httpClient = &hc

	c.log = logger.WithService(c.log.With(slog.String("component", "api-client")), c.service)
	return c, nil
}

// BaseURL returns the service base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Service returns the service name
func (c *Client) Service() string {
	return c.service
}

// TokenManager returns the session provider (nil for unauthenticated clients)
func (c *Client) TokenManager() TokenManager {
	return c.tokenManager
}

// Request describes one call
type Request struct {
	Method  string
	Path    string
	Query   map[string]string
	Headers map[string]string
	Body    any   // JSON-encoded when non-nil
	Form    *Form // multipart upload; takes precedence over Body

	// OnCookies receives the cookies set by the final response
	OnCookies func([]*http.Cookie)
}

// descriptor is a fully rendered request kept for a possible retry
type descriptor struct {
	method      string
	url         string
	headers     map[string]string
	body        []byte
	contentType string
	requestID   string
	onCookies   func([]*http.Cookie)
}

// Get performs a GET request with optional query parameters
func (c *Client) Get(ctx context.Context, path string, params map[string]string) (json.RawMessage, error) {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: params})
}

// Post performs a POST request with a JSON body
func (c *Client) Post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body})
}

// Put performs a PUT request with a JSON body
func (c *Client) Put(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.Do(ctx, Request{Method: http.MethodPut, Path: path, Body: body})
}

// Delete performs a DELETE request; body may be nil
func (c *Client) Delete(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: path, Body: body})
}

// Upload performs a multipart POST. Only the Authorization header is added to the caller's form.
func (c *Client) Upload(ctx context.Context, path string, form *Form) (json.RawMessage, error) {
	if form == nil {
		form = NewForm()
	}
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Form: form})
}

// Do executes a request, refreshing and retrying at most once
func (c *Client) Do(ctx context.Context, req Request) (json.RawMessage, error) {
	desc, err := c.describe(req)
	if err != nil {
		return nil, err
	}

	token := c.currentToken()

	status, body, err := c.send(ctx, desc, token)
	if err != nil {
		return nil, err
	}
	if isSuccess(status) {
		return decodeBody(body)
	}

	failure := ParseFailure(status, body, c.markers)
	if c.tokenManager == nil {
		return nil, failure.Err(body)
	}

	switch failure.Kind {
	case FailureTokenUnavailable:
		return c.refreshAndRetry(ctx, desc, token)
	case FailureUnauthorized:
		c.terminateSession(ctx)
		return nil, ErrSessionTerminated
	default:
		return nil, failure.Err(body)
	}
}

// refreshAndRetry is the single recovery path: one refresh, one retry, no further recovery
func (c *Client) refreshAndRetry(ctx context.Context, desc *descriptor, token *Token) (json.RawMessage, error) {
	c.log.Info("token validation unavailable, attempting refresh", slog.String("path", desc.url))

	fresh, err := c.refresh(ctx, token)
	metrics.RecordTokenRefresh(c.service, err)
	if err != nil {
		c.log.Error("token refresh failed", slog.String("error", err.Error()))
		return nil, &RefreshError{Err: err}
	}

	if err := c.tokenManager.SaveToken(fresh); err != nil {
		c.log.Error("failed to persist refreshed token", slog.String("error", err.Error()))
		return nil, &RefreshError{Err: fmt.Errorf("failed to persist refreshed token: %w", err)}
	}
	c.log.Info("successfully refreshed token")

	c.log.Debug("retrying request with refreshed token")
	status, body, err := c.send(ctx, desc, fresh)
	if err != nil {
		return nil, &RefreshError{Err: err}
	}
	if !isSuccess(status) {
		return nil, &RefreshError{Err: ParseFailure(status, body, c.markers).Err(body)}
	}
	return decodeBody(body)
}

func (c *Client) refresh(ctx context.Context, token *Token) (*Token, error) {
	if c.refresher == nil {
		return nil, errors.New("no refresher configured")
	}
	if c.refreshGroup == nil {
		return c.callRefresher(ctx, token)
	}

	v, err, shared := c.refreshGroup.Do("refresh", func() (interface{}, error) {
		// Waiters must not fail because the caller that started the refresh went away
		return c.callRefresher(context.WithoutCancel(ctx), token)
	})
	if shared {
		c.log.Debug("joined in-flight token refresh")
	}
	if err != nil {
		return nil, err
	}
	fresh := *(v.(*Token))
	return &fresh, nil
}

func (c *Client) callRefresher(ctx context.Context, token *Token) (*Token, error) {
	fresh, err := c.refresher.Refresh(ctx, token)
	if err != nil {
		return nil, err
	}
	if fresh == nil || fresh.AccessToken == "" {
		return nil, errors.New("refresher returned no access token")
	}
	return fresh, nil
}

// terminateSession clears the session record and hands control to the host
func (c *Client) terminateSession(ctx context.Context) {
	c.log.Info("unauthorized response, clearing session")
	if err := c.tokenManager.ClearToken(); err != nil {
		c.log.Error("error clearing session", slog.String("error", err.Error()))
	}
	metrics.RecordSessionTerminated(c.service)
	if c.onTerminated != nil {
		c.onTerminated(ctx, c.loginPath)
	}
}

// currentToken reads the session record; an unreadable record counts as logged out
func (c *Client) currentToken() *Token {
	if c.tokenManager == nil {
		return nil
	}
	token, err := c.tokenManager.GetToken()
	if err != nil {
		if !errors.Is(err, ErrNoToken) {
			c.log.Warn("failed to read session, sending request without token", slog.String("error", err.Error()))
		}
		return nil
	}
	if token == nil || token.AccessToken == "" {
		return nil
	}
	return token
}

func (c *Client) describe(req Request) (*descriptor, error) {
	if req.Method == "" {
		req.Method = http.MethodGet
	}

	u, err := urlutil.WithQuery(urlutil.JoinEndpoint(c.baseURL, req.Path), req.Query)
	if err != nil {
		return nil, fmt.Errorf("failed to build URL: %w", err)
	}

	desc := &descriptor{
		method:    req.Method,
		url:       u,
		headers:   make(map[string]string, len(c.headers)+len(req.Headers)),
		onCookies: req.OnCookies,
	}

	switch {
	case req.Form != nil:
		desc.body, desc.contentType, err = req.Form.encode()
		if err != nil {
			return nil, err
		}
	case req.Body != nil:
		desc.body, err = json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		desc.contentType = "application/json"
	default:
		desc.contentType = "application/json"
	}

	for k, v := range c.headers {
		desc.headers[k] = v
	}
	for k, v := range req.Headers {
		desc.headers[k] = v
	}
	if c.requestIDs {
		desc.requestID = idgen.RequestID()
	}
	return desc, nil
}

// send issues one HTTP exchange and returns the status and the fully read body
func (c *Client) send(ctx context.Context, desc *descriptor, token *Token) (int, []byte, error) {
	var body io.Reader
	if desc.body != nil {
		body = bytes.NewReader(desc.body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, desc.method, desc.url, body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", desc.contentType)
	httpReq.Header.Set("Accept", "application/json")
	if token != nil {
		httpReq.Header.Set("Authorization", "Bearer "+token.AccessToken)
	}
	for k, v := range desc.headers {
		httpReq.Header.Set(k, v)
	}
	if desc.requestID != "" {
		httpReq.Header.Set("X-Request-ID", desc.requestID)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return 0, nil, fmt.Errorf("%s %s: %w", desc.method, desc.url, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if desc.onCookies != nil {
		desc.onCookies(resp.Cookies())
	}

	log := c.log
	if desc.requestID != "" {
		log = logger.WithRequest(log, desc.requestID)
	}
	log.Debug("api request",
		slog.String("method", desc.method),
		slog.String("url", desc.url),
		slog.Int("status", resp.StatusCode))
	return resp.StatusCode, respBody, nil
}

func isSuccess(status int) bool {
	return status >= 200 && status <= 299
}

// decodeBody returns a 2xx body unchanged, as long as it is JSON
func decodeBody(body []byte) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return json.RawMessage("null"), nil
	}
	var raw json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, fmt.Errorf("invalid JSON response: %w", err)
	}
	return raw, nil
}
