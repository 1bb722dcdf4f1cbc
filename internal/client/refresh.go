package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/tidwall/gjson"

	"github.com/sagar-developer08/admin-ecom-sub000/internal/pkg/urlutil"
)

// RefreshPath is the auth service endpoint that issues a fresh access token
const RefreshPath = "/refresh"

// Refresher obtains a fresh session record when the current access token cannot be validated
type Refresher interface {
	Refresh(ctx context.Context, current *Token) (*Token, error)
}

// RefresherFunc adapts a function to the Refresher interface
type RefresherFunc func(ctx context.Context, current *Token) (*Token, error)

// Refresh calls f
func (f RefresherFunc) Refresh(ctx context.Context, current *Token) (*Token, error) {
	return f(ctx, current)
}

// HTTPRefresher calls POST <auth-base>/refresh with no body.
// The refresh credential travels as a cookie, either from the http.Client's jar or from the
// session record's refresh token.
type HTTPRefresher struct {
	authBaseURL string
	httpClient  *http.Client
}

// NewHTTPRefresher creates a refresher for the given auth service base URL
func NewHTTPRefresher(authBaseURL string, httpClient *http.Client) *HTTPRefresher {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPRefresher{
		authBaseURL: authBaseURL,
		httpClient:  httpClient,
	}
}

// Refresh requests a new access token. The refresh token, if any, is carried over to the new record.
func (r *HTTPRefresher) Refresh(ctx context.Context, current *Token) (*Token, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, urlutil.JoinEndpoint(r.authBaseURL, RefreshPath), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create refresh request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if current != nil && current.RefreshToken != "" {
		req.AddCookie(&http.Cookie{Name: RefreshCookieName, Value: current.RefreshToken})
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call refresh endpoint: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read refresh response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, ParseFailure(resp.StatusCode, body, Markers{}).Err(body)
	}
	if !gjson.ValidBytes(body) {
		return nil, errors.New("invalid JSON in refresh response")
	}

	// Some auth deployments wrap the token in the standard { success, data } envelope
	fields := gjson.GetManyBytes(body, "accessToken", "data.accessToken", "refreshToken", "data.refreshToken")
	accessToken := firstString(fields[0], fields[1])
	if accessToken == "" {
		return nil, errors.New("refresh response missing accessToken")
	}

	next := &Token{AccessToken: accessToken}
	if current != nil {
		next.RefreshToken = current.RefreshToken
	}
	if rt := RefreshTokenFromCookies(resp.Cookies()); rt != "" {
		next.RefreshToken = rt
	}
	if rt := firstString(fields[2], fields[3]); rt != "" {
		next.RefreshToken = rt
	}
	return next, nil
}

// RefreshTokenFromCookies returns the refresh token the auth service set as a cookie, if any
func RefreshTokenFromCookies(cookies []*http.Cookie) string {
	for _, c := range cookies {
		if c.Name == RefreshCookieName && c.Value != "" && c.MaxAge >= 0 {
			return c.Value
		}
	}
	return ""
}

func firstString(results ...gjson.Result) string {
	for _, r := range results {
		if r.Type == gjson.String && r.String() != "" {
			return r.String()
		}
	}
	return ""
}
