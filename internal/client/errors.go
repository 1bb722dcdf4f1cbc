package client

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// FallbackMessage is used when a failed response carries no message of its own
const FallbackMessage = "API request failed"

// ErrSessionTerminated is returned after an unrecoverable 401 cleared the session.
// Hosts short-circuit on it: the session-terminated callback has already run.
var ErrSessionTerminated = errors.New("session terminated: please log in again")

// APIError is a non-2xx response from a backend service
type APIError struct {
	StatusCode int
	Message    string
	Body       []byte
}

func (e *APIError) Error() string {
	return e.Message
}

// RefreshError reports a failed token refresh, or a failed retry after a successful one
type RefreshError struct {
	Err error
}

func (e *RefreshError) Error() string {
	return fmt.Sprintf("token refresh failed: %v", e.Err)
}

func (e *RefreshError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status of an API error anywhere in the chain, or 0
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// FailureKind classifies a failed response
type FailureKind int

const (
	// FailureGeneric is any non-2xx response other than 401
	FailureGeneric FailureKind = iota
	// FailureUnauthorized is a 401 that ends the session
	FailureUnauthorized
	// FailureTokenUnavailable is a 401 caused by the token validation service being down; recoverable by refresh
	FailureTokenUnavailable
)

func (k FailureKind) String() string {
	switch k {
	case FailureUnauthorized:
		return "unauthorized"
	case FailureTokenUnavailable:
		return "token_unavailable"
	default:
		return "generic"
	}
}

// Markers identify the token-validation-service-unavailable signal in a 401 body
type Markers struct {
	// Phrases are matched case-insensitively as substrings of the "error" and "message" fields
	Phrases []string
	// Codes are matched exactly against the "code" field
	Codes []string
}

// DefaultMarkers matches the auth middleware's service-unavailable response
var DefaultMarkers = Markers{
	Phrases: []string{"token validation service unavailable"},
	Codes:   []string{"TOKEN_SERVICE_UNAVAILABLE"},
}

// matches reports whether a failure body carries one of the markers
func (m Markers) matches(body []byte) bool {
	if !gjson.ValidBytes(body) {
		return false
	}
	fields := gjson.GetManyBytes(body, "error", "message", "code")
	for _, field := range fields[:2] {
		if field.Type != gjson.String {
			continue
		}
		text := strings.ToLower(field.String())
		for _, phrase := range m.Phrases {
			if phrase != "" && strings.Contains(text, strings.ToLower(phrase)) {
				return true
			}
		}
	}
	if code := fields[2]; code.Type == gjson.String {
		for _, c := range m.Codes {
			if code.String() == c {
				return true
			}
		}
	}
	return false
}

// Failure is the parsed form of a non-2xx response
type Failure struct {
	Kind    FailureKind
	Status  int
	Message string
}

// ParseFailure classifies a non-2xx response and extracts its message.
// The message is the body's "message" field verbatim, or FallbackMessage.
func ParseFailure(status int, body []byte, markers Markers) Failure {
	f := Failure{
		Kind:    FailureGeneric,
		Status:  status,
		Message: FallbackMessage,
	}

	if gjson.ValidBytes(body) {
		if msg := gjson.GetBytes(body, "message"); msg.Type == gjson.String && msg.String() != "" {
			f.Message = msg.String()
		}
	}

	if status == http.StatusUnauthorized {
		if markers.matches(body) {
			f.Kind = FailureTokenUnavailable
		} else {
			f.Kind = FailureUnauthorized
		}
	}
	return f
}

// Err converts the failure into an *APIError
func (f Failure) Err(body []byte) *APIError {
	return &APIError{StatusCode: f.Status, Message: f.Message, Body: body}
}
