package metrics

import (
	"strconv"
	"strings"
	"time"
)

// RecordAPICall records backend API metrics consistently
// service: backend name (e.g., "auth", "product", "vendor")
// route: normalized route (see NormalizeRoute)
// statusCode: HTTP status, 0 when the transport failed before a response
// err: transport error (nil if a response was received)
func RecordAPICall(service, method, route string, statusCode int, duration time.Duration, err error) {
	APIRequests.WithLabelValues(service, method, route, strconv.Itoa(statusCode)).Inc()
	APIDuration.WithLabelValues(service, method, route).Observe(float64(duration.Milliseconds()))

	if err != nil || statusCode >= 400 {
		APIErrors.WithLabelValues(service, route, ClassifyAPIError(statusCode, err)).Inc()
	}
}

// RecordTokenRefresh records the outcome of a refresh attempt
func RecordTokenRefresh(service string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	TokenRefreshes.WithLabelValues(service, outcome).Inc()
}

// RecordSessionTerminated records a hard logout
func RecordSessionTerminated(service string) {
	SessionTerminations.WithLabelValues(service).Inc()
}

// RecordEvent records a notification stream delivery
func RecordEvent(event string, delivered bool) {
	status := "delivered"
	if !delivered {
		status = "unhandled"
	}
	EventsReceived.WithLabelValues(event, status).Inc()
}

// RecordHTTPRequest records a request served by the web host
func RecordHTTPRequest(method, route string, statusCode int, duration time.Duration) {
	HTTPRequests.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	HTTPDuration.WithLabelValues(method, route).Observe(float64(duration.Milliseconds()))
}

// ClassifyAPIError categorizes backend API errors for metrics
func ClassifyAPIError(statusCode int, err error) string {
	if err != nil {
		errStr := strings.ToLower(err.Error())
		switch {
		case strings.Contains(errStr, "timeout") || strings.Contains(errStr, "deadline"):
			return "timeout"
		case strings.Contains(errStr, "canceled"):
			return "canceled"
		case strings.Contains(errStr, "connection") || strings.Contains(errStr, "connect"):
			return "connection"
		case strings.Contains(errStr, "tls"):
			return "tls"
		default:
			return "network"
		}
	}

	switch {
	case statusCode == 400:
		return "bad_request"
	case statusCode == 401:
		return "unauthorized"
	case statusCode == 403:
		return "forbidden"
	case statusCode == 404:
		return "not_found"
	case statusCode == 409:
		return "conflict"
	case statusCode == 422:
		return "validation"
	case statusCode == 429:
		return "rate_limited"
	case statusCode >= 500:
		return "server_error"
	case statusCode >= 400:
		return "client_error"
	default:
		return "unknown"
	}
}
