package session

import (
	"net/http"
	"sync"

	"github.com/sagar-developer08/admin-ecom-sub000/internal/client"
)

// SessionTokenManager implements client.TokenManager on the request's cookie session.
// It must be created per request. A saved or cleared record is what later calls
// in the same request see, even though the browser only gets it with the response.
type SessionTokenManager struct {
	manager *Manager
	request *http.Request
	writer  http.ResponseWriter

	mu      sync.Mutex
	current *client.Token
	cleared bool
}

// NewSessionTokenManager creates a new session-based token manager
func NewSessionTokenManager(manager *Manager, r *http.Request, w http.ResponseWriter) *SessionTokenManager {
	return &SessionTokenManager{
		manager: manager,
		request: r,
		writer:  w,
	}
}

// GetToken returns the session record
func (s *SessionTokenManager) GetToken() (*client.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cleared {
		return nil, client.ErrNoToken
	}
	if s.current != nil {
		copied := *s.current
		return &copied, nil
	}
	return s.manager.GetToken(s.request)
}

// SaveToken saves the record to the session and updates the auth cookie
func (s *SessionTokenManager) SaveToken(token *client.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.manager.SetToken(s.request, s.writer, token); err != nil {
		return err
	}
	copied := *token
	s.current = &copied
	s.cleared = false
	return nil
}

// ClearToken removes the record and expires the auth cookie
func (s *SessionTokenManager) ClearToken() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = nil
	s.cleared = true
	return s.manager.ClearToken(s.request, s.writer)
}

var _ client.TokenManager = (*SessionTokenManager)(nil)
