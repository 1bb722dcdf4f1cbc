package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNormalizeRoute(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{
			name:     "numeric id",
			path:     "/api/products/brands/12",
			expected: "/api/products/brands/:id",
		},
		{
			name:     "numeric id mid-path",
			path:     "/brands/12/products",
			expected: "/brands/:id/products",
		},
		{
			name:     "adjacent ids",
			path:     "/brands/1/2",
			expected: "/brands/:id/:id",
		},
		{
			name:     "object id",
			path:     "/api/vendors/64b7f0c2a1e4d3b2c1a09f87/approve",
			expected: "/api/vendors/:id/approve",
		},
		{
			name:     "uuid",
			path:     "/api/support/tickets/0f8fad5b-d9cb-469f-a165-70867728950e/reply",
			expected: "/api/support/tickets/:id/reply",
		},
		{
			name:     "version segment untouched",
			path:     "/api/v2/notifications",
			expected: "/api/v2/notifications",
		},
		{
			name:     "slug untouched",
			path:     "/categories/mens-shirts",
			expected: "/categories/mens-shirts",
		},
		{
			name:     "empty path",
			path:     "",
			expected: "/",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NormalizeRoute(tt.path)
			if result != tt.expected {
				t.Errorf("NormalizeRoute(%q) = %q, want %q", tt.path, result, tt.expected)
			}
		})
	}
}

func TestClassifyAPIError(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		err        error
		expected   string
	}{
		{name: "bad request", statusCode: 400, expected: "bad_request"},
		{name: "unauthorized", statusCode: 401, expected: "unauthorized"},
		{name: "forbidden", statusCode: 403, expected: "forbidden"},
		{name: "not found", statusCode: 404, expected: "not_found"},
		{name: "conflict", statusCode: 409, expected: "conflict"},
		{name: "validation", statusCode: 422, expected: "validation"},
		{name: "rate limited", statusCode: 429, expected: "rate_limited"},
		{name: "server error", statusCode: 503, expected: "server_error"},
		{name: "client error", statusCode: 418, expected: "client_error"},
		{name: "unknown", statusCode: 200, expected: "unknown"},
		{name: "timeout", err: errors.New("context deadline exceeded"), expected: "timeout"},
		{name: "canceled", err: errors.New("context canceled"), expected: "canceled"},
		{name: "connection", err: errors.New("dial tcp: connection refused"), expected: "connection"},
		{name: "tls", err: errors.New("tls: handshake failure"), expected: "tls"},
		{name: "network", err: errors.New("EOF"), expected: "network"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ClassifyAPIError(tt.statusCode, tt.err)
			if result != tt.expected {
				t.Errorf("ClassifyAPIError(%d, %v) = %q, want %q", tt.statusCode, tt.err, result, tt.expected)
			}
		})
	}
}

func TestTransportRecordsRequests(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/brands/404" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := &http.Client{Transport: NewTransport(nil, "transport-test")}

	okCounter := APIRequests.WithLabelValues("transport-test", "GET", "/brands/:id", "200")
	notFoundCounter := APIErrors.WithLabelValues("transport-test", "/brands/:id", "not_found")
	okBefore := testutil.ToFloat64(okCounter)
	notFoundBefore := testutil.ToFloat64(notFoundCounter)

	for _, path := range []string{"/brands/1", "/brands/2", "/brands/404"} {
		resp, err := client.Get(server.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		resp.Body.Close()
	}

	if got := testutil.ToFloat64(okCounter) - okBefore; got != 2 {
		t.Errorf("200 requests recorded = %v, want 2", got)
	}
	if got := testutil.ToFloat64(notFoundCounter) - notFoundBefore; got != 1 {
		t.Errorf("not_found errors recorded = %v, want 1", got)
	}
}

func TestRecordTokenRefresh(t *testing.T) {
	success := TokenRefreshes.WithLabelValues("refresh-test", "success")
	failure := TokenRefreshes.WithLabelValues("refresh-test", "failure")
	successBefore, failureBefore := testutil.ToFloat64(success), testutil.ToFloat64(failure)

	RecordTokenRefresh("refresh-test", nil)
	RecordTokenRefresh("refresh-test", errors.New("boom"))
	RecordTokenRefresh("refresh-test", nil)

	if got := testutil.ToFloat64(success) - successBefore; got != 2 {
		t.Errorf("successful refreshes = %v, want 2", got)
	}
	if got := testutil.ToFloat64(failure) - failureBefore; got != 1 {
		t.Errorf("failed refreshes = %v, want 1", got)
	}
}
