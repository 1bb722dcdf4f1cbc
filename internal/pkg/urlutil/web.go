package urlutil

import (
	"fmt"
	"net/url"
	"strings"
)

// JoinEndpoint appends an endpoint path to a service base URL.
// Returns a URL like: {baseURL}/{endpoint}
// Exactly one slash separates the two parts; the endpoint may carry its own query string.
func JoinEndpoint(baseURL, endpoint string) string {
	base := strings.TrimRight(baseURL, "/")
	if endpoint == "" {
		return base
	}
	return base + "/" + strings.TrimLeft(endpoint, "/")
}

// WithQuery adds query parameters to a URL, keeping any parameters already present.
// Keys are encoded in sorted order so identical inputs yield identical URLs.
func WithQuery(rawURL string, params map[string]string) (string, error) {
	if len(params) == 0 {
		return rawURL, nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// StreamURL derives the websocket URL of a service's push stream from its HTTP base URL.
// Returns a URL like: ws://{host}{basePath}/stream (wss for https bases)
func StreamURL(httpBaseURL string) (string, error) {
	u, err := url.Parse(httpBaseURL)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/stream"
	return u.String(), nil
}

// BuildLoginURL builds the login entry point, remembering where the user was headed.
// Returns a URL like: /login?next={next}
func BuildLoginURL(loginPath, next string) string {
	if next == "" || next == loginPath {
		return loginPath
	}
	q := url.Values{}
	q.Set("next", next)
	return loginPath + "?" + q.Encode()
}
