package metrics

import (
	"net/http"
	"regexp"
	"time"
)

// routeIDPatterns collapse resource identifiers so route labels keep a low cardinality.
// Backends use numeric ids, Mongo ObjectIDs, and UUIDs depending on the service.
var routeIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`/[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}(/|$)`),
	regexp.MustCompile(`/[0-9a-fA-F]{24}(/|$)`),
	regexp.MustCompile(`/\d+(/|$)`),
}

// apiMetricsTransport wraps an http.RoundTripper to collect metrics on backend API calls
type apiMetricsTransport struct {
	base    http.RoundTripper
	service string
}

// NewTransport creates a transport wrapper that records metrics for every request
// sent to the named backend service.
func NewTransport(base http.RoundTripper, service string) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	if service == "" {
		service = "unknown"
	}
	return &apiMetricsTransport{base: base, service: service}
}

// RoundTrip implements http.RoundTripper
func (t *apiMetricsTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.base.RoundTrip(req)
	duration := time.Since(start)

	statusCode := 0
	if resp != nil {
		statusCode = resp.StatusCode
	}

	RecordAPICall(t.service, req.Method, NormalizeRoute(req.URL.Path), statusCode, duration, err)
	return resp, err
}

// NormalizeRoute replaces identifiers in a request path with ":id"
func NormalizeRoute(path string) string {
	normalized := path
	for _, re := range routeIDPatterns {
		// Run twice so adjacent ids ("/1/2") both collapse; the trailing slash is consumed by the first match.
		normalized = re.ReplaceAllString(normalized, "/:id$1")
		normalized = re.ReplaceAllString(normalized, "/:id$1")
	}
	if normalized == "" {
		return "/"
	}
	return normalized
}
