package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sagar-developer08/admin-ecom-sub000/internal/auth"
	"github.com/sagar-developer08/admin-ecom-sub000/internal/client"
)

// credentialsDirEnv overrides where credential files are kept
const credentialsDirEnv = "SHOPADMIN_CREDENTIALS_DIR"

// Credentials is the session record plus what the access token says about it
type Credentials struct {
	client.Token
	UserID    string    `json:"userId,omitempty"`
	Email     string    `json:"email,omitempty"`
	Role      string    `json:"role,omitempty"`
	ExpiresAt time.Time `json:"expiresAt,omitempty"`
}

// IsExpired checks if the access token is expired
func (c *Credentials) IsExpired() bool {
	return !c.ExpiresAt.IsZero() && time.Now().After(c.ExpiresAt)
}

// credentialsFile is the on-disk layout: the record lives under client.StorageKey
type credentialsFile map[string]*Credentials

// cookieJar is the on-disk auth cookie, removed on hard logout
type cookieJar map[string]string

// FileCredentials implements client.TokenManager on per-context files
type FileCredentials struct {
	mu      sync.Mutex
	context string
}

// NewFileCredentials creates a file-based token manager for a configuration context
func NewFileCredentials(contextName string) *FileCredentials {
	return &FileCredentials{context: contextName}
}

// GetToken returns the stored session record
func (f *FileCredentials) GetToken() (*client.Token, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	creds, err := f.load()
	if err != nil {
		return nil, err
	}
	token := creds.Token
	return &token, nil
}

// Credentials returns the full stored record
func (f *FileCredentials) Credentials() (*Credentials, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.load()
}

// SaveToken stores the session record and writes the auth cookie
func (f *FileCredentials) SaveToken(token *client.Token) error {
	if token == nil {
		return errors.New("token is nil")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	creds := &Credentials{Token: *token}
	// Refresh responses carry no refresh token; keep the one from login
	if creds.RefreshToken == "" {
		if previous, err := f.load(); err == nil {
			creds.RefreshToken = previous.RefreshToken
		}
	}

	claims, err := auth.ParseClaims(token.AccessToken)
	switch {
	case err == nil || errors.Is(err, auth.ErrExpiredToken):
		creds.UserID = claims.AccountID()
		creds.Email = claims.Email
		creds.Role = claims.Role
		if claims.ExpiresAt != nil {
			creds.ExpiresAt = claims.ExpiresAt.Time
		}
	default:
		slog.Debug("access token is not a readable JWT",
			slog.String("component", "cli-token"),
			slog.String("error", err.Error()))
	}

	if err := f.write(credentialsFile{client.StorageKey: creds}, f.credentialsPath()); err != nil {
		return fmt.Errorf("failed to write credentials: %w", err)
	}
	if err := f.write(cookieJar{client.AuthCookieName: token.AccessToken}, f.cookiePath()); err != nil {
		return fmt.Errorf("failed to write auth cookie: %w", err)
	}
	slog.Debug("credentials saved", slog.String("component", "cli-token"), slog.String("context", f.context))
	return nil
}

// ClearToken removes the credentials file and the auth cookie
func (f *FileCredentials) ClearToken() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	var errs []error
	for _, path := range []string{f.credentialsPath(), f.cookiePath()} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			errs = append(errs, fmt.Errorf("failed to remove %s: %w", filepath.Base(path), err))
		}
	}
	return errors.Join(errs...)
}

// AuthCookie returns the stored auth cookie value, if any
func (f *FileCredentials) AuthCookie() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.cookiePath())
	if err != nil {
		return "", false
	}
	var jar cookieJar
	if err := json.Unmarshal(data, &jar); err != nil {
		return "", false
	}
	value, ok := jar[client.AuthCookieName]
	return value, ok
}

func (f *FileCredentials) load() (*Credentials, error) {
	path := f.credentialsPath()
	slog.Debug("loading credentials from file",
		slog.String("component", "cli-creds"),
		slog.String("path", path))

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, client.ErrNoToken
		}
		return nil, fmt.Errorf("failed to read credentials: %w", err)
	}

	var file credentialsFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse credentials: %w", err)
	}
	creds, ok := file[client.StorageKey]
	if !ok || creds == nil || creds.AccessToken == "" {
		return nil, client.ErrNoToken
	}
	return creds, nil
}

func (f *FileCredentials) write(v any, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	// Owner read/write only
	return os.WriteFile(path, data, 0o600)
}

func (f *FileCredentials) credentialsPath() string {
	return filepath.Join(credentialsDir(), fmt.Sprintf("credentials-%s.json", f.context))
}

func (f *FileCredentials) cookiePath() string {
	return filepath.Join(credentialsDir(), fmt.Sprintf("cookies-%s.json", f.context))
}

func credentialsDir() string {
	if dir := os.Getenv(credentialsDirEnv); dir != "" {
		return dir
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "shopadmin")
	}
	return filepath.Join(os.TempDir(), "shopadmin")
}
