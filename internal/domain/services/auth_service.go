package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sagar-developer08/admin-ecom-sub000/internal/auth"
	"github.com/sagar-developer08/admin-ecom-sub000/internal/client"
	"github.com/sagar-developer08/admin-ecom-sub000/internal/config"
	"github.com/sagar-developer08/admin-ecom-sub000/internal/domain/entities"
)

// AuthService handles login, logout and the current user
type AuthService struct {
	api          *client.Client
	public       *client.Client // no session: a failed login must not tear anything down
	tokenManager client.TokenManager
	log          *slog.Logger
}

// NewAuthService creates a new auth service. opts configure the unauthenticated login client.
func NewAuthService(api *client.Client, tokenManager client.TokenManager, opts ...client.Option) (*AuthService, error) {
	if tokenManager == nil {
		return nil, errors.New("token manager is required")
	}
	public, err := client.NewClient(api.BaseURL(), nil, append([]client.Option{client.WithServiceName(config.ServiceAuth)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create login client: %w", err)
	}
	return &AuthService{
		api:          api,
		public:       public,
		tokenManager: tokenManager,
		log:          slog.Default().With(slog.String("component", "auth-service")),
	}, nil
}

// Login exchanges credentials for a session record and stores it
func (s *AuthService) Login(ctx context.Context, email, password string) (*entities.LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}

	var cookieRefresh string
	raw, err := s.public.Do(ctx, client.Request{
		Method: http.MethodPost,
		Path:   "/login",
		Body:   map[string]string{"email": email, "password": password},
		OnCookies: func(cookies []*http.Cookie) {
			cookieRefresh = client.RefreshTokenFromCookies(cookies)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	result, err := decode[entities.LoginResult](raw)
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	if result.AccessToken == "" {
		return nil, errors.New("login failed: response missing accessToken")
	}
	// Auth services that keep the refresh token in an HttpOnly cookie leave it out of the body
	if result.RefreshToken == "" {
		result.RefreshToken = cookieRefresh
	}

	if err := s.tokenManager.SaveToken(&client.Token{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
	}); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return result, nil
}

// Logout tells the auth service (best effort) and clears the local session
func (s *AuthService) Logout(ctx context.Context) error {
	token, err := s.tokenManager.GetToken()
	if err == nil && token.AccessToken != "" {
		_, err := s.public.Do(ctx, client.Request{
			Method:  http.MethodPost,
			Path:    "/logout",
			Headers: map[string]string{"Authorization": "Bearer " + token.AccessToken},
		})
		if err != nil {
			s.log.Warn("server logout failed, clearing local session anyway", slog.String("error", err.Error()))
		}
	}

	if err := s.tokenManager.ClearToken(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Me returns the logged-in user from the auth service
func (s *AuthService) Me(ctx context.Context) (*entities.User, error) {
	raw, err := s.api.Get(ctx, "/me", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return decode[entities.User](raw)
}

// Claims decodes the stored access token without contacting the server
func (s *AuthService) Claims() (*auth.Claims, error) {
	token, err := s.tokenManager.GetToken()
	if err != nil {
		return nil, err
	}
	return auth.ParseClaims(token.AccessToken)
}
