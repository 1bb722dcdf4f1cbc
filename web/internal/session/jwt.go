package session

import (
	"errors"
	"net/http"

	"github.com/sagar-developer08/admin-ecom-sub000/internal/auth"
	"github.com/sagar-developer08/admin-ecom-sub000/internal/client"
)

var (
	// ErrNoToken is returned when no session record is stored
	ErrNoToken = errors.New("no token in session")

	// ErrMissingUserID is returned when the token carries no user ID claim
	ErrMissingUserID = errors.New("token missing user id claim")
)

// ParseUserClaims reads the user out of an access token.
// Expired tokens still yield the user together with auth.ErrExpiredToken,
// since the API client will refresh them on the next backend call.
func ParseUserClaims(tokenString string) (*auth.UserContext, error) {
	if tokenString == "" {
		return nil, ErrNoToken
	}

	claims, err := auth.ParseClaims(tokenString)
	if err != nil && !errors.Is(err, auth.ErrExpiredToken) {
		return nil, err
	}
	if claims.AccountID() == "" {
		return nil, ErrMissingUserID
	}
	return auth.NewUserContext(claims), err
}

// GetValidatedUser retrieves the user from the session's access token
func (m *Manager) GetValidatedUser(r *http.Request) (*auth.UserContext, error) {
	token, err := m.GetToken(r)
	if err != nil {
		if errors.Is(err, client.ErrNoToken) {
			return nil, ErrNoToken
		}
		return nil, err
	}
	return ParseUserClaims(token.AccessToken)
}
