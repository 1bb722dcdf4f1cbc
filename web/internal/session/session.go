package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/sagar-developer08/admin-ecom-sub000/internal/client"
)

// SessionName is the name of the session cookie
const SessionName = "shopadmin_session"

// Manager wraps gorilla/sessions for our use case.
// The session record is stored under client.StorageKey; the access token is mirrored
// into the client.AuthCookieName cookie for the browser UI's direct calls.
type Manager struct {
	store   *sessions.CookieStore
	options sessions.Options
}

// NewManager creates a new session manager
// secretKey should be 32 bytes; it both signs and encrypts the cookie.
func NewManager(secretKey []byte, secure bool, maxAge int) *Manager {
	options := sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}

	// AES needs a 16, 24 or 32 byte key; anything else only signs
	var store *sessions.CookieStore
	switch len(secretKey) {
	case 16, 24, 32:
		store = sessions.NewCookieStore(secretKey, secretKey)
	default:
		store = sessions.NewCookieStore(secretKey)
	}
	opts := options
	store.Options = &opts

	return &Manager{store: store, options: options}
}

// SetToken stores the session record and sets the auth cookie
func (m *Manager) SetToken(r *http.Request, w http.ResponseWriter, token *client.Token) error {
	if token == nil {
		return errors.New("token is nil")
	}
	session, err := m.store.Get(r, SessionName)
	if err != nil {
		// Undecodable cookie (e.g. rotated secret): start over
		session, _ = m.store.New(r, SessionName)
	}

	record, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to encode session record: %w", err)
	}
	session.Values[client.StorageKey] = string(record)
	if err := session.Save(r, w); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	http.SetCookie(w, m.authCookie(token.AccessToken, m.options.MaxAge))
	return nil
}

// GetToken retrieves the session record
func (m *Manager) GetToken(r *http.Request) (*client.Token, error) {
	session, err := m.store.Get(r, SessionName)
	if err != nil {
		return nil, client.ErrNoToken
	}

	record, ok := session.Values[client.StorageKey].(string)
	if !ok || record == "" {
		return nil, client.ErrNoToken
	}

	var token client.Token
	if err := json.Unmarshal([]byte(record), &token); err != nil {
		return nil, fmt.Errorf("failed to decode session record: %w", err)
	}
	if token.AccessToken == "" {
		return nil, client.ErrNoToken
	}
	return &token, nil
}

// ClearToken expires the session and the auth cookie (logout)
func (m *Manager) ClearToken(r *http.Request, w http.ResponseWriter) error {
	http.SetCookie(w, m.authCookie("", -1))

	session, err := m.store.Get(r, SessionName)
	if err != nil {
		session, _ = m.store.New(r, SessionName)
	}
	delete(session.Values, client.StorageKey)
	session.Options.MaxAge = -1
	return session.Save(r, w)
}

// HasToken checks if a session record exists
func (m *Manager) HasToken(r *http.Request) bool {
	_, err := m.GetToken(r)
	return err == nil
}

func (m *Manager) authCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     client.AuthCookieName,
		Value:    value,
		Path:     m.options.Path,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.options.Secure,
		SameSite: m.options.SameSite,
	}
}
