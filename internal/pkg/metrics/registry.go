package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Backend API Metrics
var (
	// APIRequests tracks outbound requests to the backend microservices
	APIRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shopadmin_api_requests_total",
			Help: "Total backend API requests by service, method, route, and status code",
		},
		[]string{"service", "method", "route", "status"},
	)

	// APIDuration tracks backend API latency
	APIDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:                            "shopadmin_api_request_duration_ms",
			Help:                            "Backend API request duration in milliseconds",
			NativeHistogramBucketFactor:     1.1,
			NativeHistogramMaxBucketNumber:  100,
			NativeHistogramMinResetDuration: 1 * time.Hour,
		},
		[]string{"service", "method", "route"},
	)

	// APIErrors tracks backend API failures by type
	APIErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shopadmin_api_errors_total",
			Help: "Total backend API errors by service, route, and error type",
		},
		[]string{"service", "route", "error_type"},
	)
)

// Session Metrics
var (
	// TokenRefreshes tracks access token refresh attempts
	TokenRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shopadmin_token_refreshes_total",
			Help: "Total access token refresh attempts by service and outcome",
		},
		[]string{"service", "outcome"},
	)

	// SessionTerminations tracks hard logouts caused by unauthorized responses
	SessionTerminations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shopadmin_session_terminations_total",
			Help: "Total sessions cleared after an unrecoverable 401, by service",
		},
		[]string{"service"},
	)
)

// Notification Stream Metrics
var (
	// EventsReceived tracks notification events received from the stream
	EventsReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shopadmin_events_received_total",
			Help: "Total notification stream events by event name and delivery status",
		},
		[]string{"event", "status"},
	)

	// StreamConnected tracks the notification stream connection status
	StreamConnected = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "shopadmin_event_stream_connected",
			Help: "Notification stream connection status (1 = connected, 0 = disconnected)",
		},
	)
)

// HTTP/Web Handler Metrics
var (
	// HTTPRequests tracks requests served by the web host
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shopadmin_http_requests_total",
			Help: "Total HTTP requests served by method, route, and status",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPDuration tracks web host request duration
	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:                            "shopadmin_http_request_duration_ms",
			Help:                            "HTTP request duration in milliseconds",
			NativeHistogramBucketFactor:     1.1,
			NativeHistogramMaxBucketNumber:  100,
			NativeHistogramMinResetDuration: 1 * time.Hour,
		},
		[]string{"method", "route"},
	)
)
