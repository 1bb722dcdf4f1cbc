package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagar-developer08/admin-ecom-sub000/internal/client"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestFileCredentialsRoundTrip(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(credentialsDirEnv, dir)

	expires := time.Now().Add(time.Hour).Truncate(time.Second)
	access := signedToken(t, jwt.MapClaims{
		"userId": "u-1",
		"email":  "admin@example.com",
		"role":   "superadmin",
		"exp":    expires.Unix(),
	})

	creds := NewFileCredentials("staging")
	_, err := creds.GetToken()
	assert.ErrorIs(t, err, client.ErrNoToken)

	require.NoError(t, creds.SaveToken(&client.Token{AccessToken: access, RefreshToken: "r-1"}))

	token, err := creds.GetToken()
	require.NoError(t, err)
	assert.Equal(t, access, token.AccessToken)
	assert.Equal(t, "r-1", token.RefreshToken)

	full, err := creds.Credentials()
	require.NoError(t, err)
	assert.Equal(t, "u-1", full.UserID)
	assert.Equal(t, "admin@example.com", full.Email)
	assert.Equal(t, "superadmin", full.Role)
	assert.True(t, full.ExpiresAt.Equal(expires))
	assert.False(t, full.IsExpired())

	// The record is stored under the fixed key with owner-only permissions
	path := filepath.Join(dir, "credentials-staging.json")
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Contains(t, raw, client.StorageKey)

	cookie, ok := creds.AuthCookie()
	assert.True(t, ok)
	assert.Equal(t, access, cookie)
}

func TestFileCredentialsKeepsRefreshToken(t *testing.T) {
	t.Setenv(credentialsDirEnv, t.TempDir())

	creds := NewFileCredentials("local")
	require.NoError(t, creds.SaveToken(&client.Token{AccessToken: "opaque-1", RefreshToken: "r-1"}))
	require.NoError(t, creds.SaveToken(&client.Token{AccessToken: "opaque-2"}))

	token, err := creds.GetToken()
	require.NoError(t, err)
	assert.Equal(t, "opaque-2", token.AccessToken)
	assert.Equal(t, "r-1", token.RefreshToken)

	// Opaque tokens carry no expiry
	full, err := creds.Credentials()
	require.NoError(t, err)
	assert.True(t, full.ExpiresAt.IsZero())
	assert.False(t, full.IsExpired())
}

func TestFileCredentialsClearToken(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(credentialsDirEnv, dir)

	creds := NewFileCredentials("local")
	require.NoError(t, creds.SaveToken(&client.Token{AccessToken: "a"}))
	require.NoError(t, creds.ClearToken())

	_, err := creds.GetToken()
	assert.ErrorIs(t, err, client.ErrNoToken)
	_, ok := creds.AuthCookie()
	assert.False(t, ok)
	assert.NoFileExists(t, filepath.Join(dir, "credentials-local.json"))
	assert.NoFileExists(t, filepath.Join(dir, "cookies-local.json"))

	// Clearing twice is fine
	assert.NoError(t, creds.ClearToken())
}

func TestFileCredentialsPerContext(t *testing.T) {
	t.Setenv(credentialsDirEnv, t.TempDir())

	require.NoError(t, NewFileCredentials("a").SaveToken(&client.Token{AccessToken: "token-a"}))

	_, err := NewFileCredentials("b").GetToken()
	assert.ErrorIs(t, err, client.ErrNoToken)
}

func TestFileCredentialsExpiredToken(t *testing.T) {
	t.Setenv(credentialsDirEnv, t.TempDir())

	access := signedToken(t, jwt.MapClaims{"id": "u-2", "exp": time.Now().Add(-time.Minute).Unix()})
	creds := NewFileCredentials("local")
	require.NoError(t, creds.SaveToken(&client.Token{AccessToken: access}))

	full, err := creds.Credentials()
	require.NoError(t, err)
	assert.Equal(t, "u-2", full.UserID)
	assert.True(t, full.IsExpired())
}
