package client

import (
	"errors"
	"sync"
)

const (
	// StorageKey is the key hosts persist the session record under
	StorageKey = "adminAuth"

	// AuthCookieName is the auth cookie cleared alongside the session record on hard logout
	AuthCookieName = "authToken"

	// RefreshCookieName carries the refresh token to the auth service's refresh endpoint
	RefreshCookieName = "refreshToken"
)

// ErrNoToken is returned by a TokenManager when no session record is stored
var ErrNoToken = errors.New("not logged in")

// Token is the persisted session record
type Token struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

// TokenManager is an interface for managing the session record.
// Different implementations can store it in files, cookie sessions, memory, etc.
type TokenManager interface {
	// GetToken returns the stored session record, or ErrNoToken when nobody is logged in
	GetToken() (*Token, error)

	// SaveToken stores the session record, replacing any previous one
	SaveToken(token *Token) error

	// ClearToken removes the session record and the auth cookie
	ClearToken() error
}

// MemoryTokenManager keeps the session record in memory
type MemoryTokenManager struct {
	mu    sync.RWMutex
	token *Token
}

// NewMemoryTokenManager creates an in-memory token manager, optionally pre-loaded
func NewMemoryTokenManager(token *Token) *MemoryTokenManager {
	m := &MemoryTokenManager{}
	if token != nil {
		copied := *token
		m.token = &copied
	}
	return m
}

// GetToken returns a copy of the stored record
func (m *MemoryTokenManager) GetToken() (*Token, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.token == nil {
		return nil, ErrNoToken
	}
	copied := *m.token
	return &copied, nil
}

// SaveToken replaces the stored record
func (m *MemoryTokenManager) SaveToken(token *Token) error {
	if token == nil {
		return errors.New("token is nil")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *token
	m.token = &copied
	return nil
}

// ClearToken forgets the stored record
func (m *MemoryTokenManager) ClearToken() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = nil
	return nil
}
