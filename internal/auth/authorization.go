package auth

import (
	"context"
	"errors"

	"github.com/sagar-developer08/admin-ecom-sub000/internal/domain/entities"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// UserContext contains the logged-in admin's identity
type UserContext struct {
	UserID   string
	Email    string
	Name     string
	Role     entities.Role
	VendorID string
}

// NewUserContext builds a UserContext from token claims
func NewUserContext(c *Claims) *UserContext {
	return &UserContext{
		UserID:   c.AccountID(),
		Email:    c.Email,
		Name:     c.Name,
		Role:     entities.Role(c.Role),
		VendorID: c.VendorID,
	}
}

// contextKey is the key for storing user info in context
type contextKey string

const userContextKey contextKey = "user"

// GetUserFromContext extracts the logged-in user from the context
func GetUserFromContext(ctx context.Context) (*UserContext, error) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	if !ok || user == nil {
		return nil, ErrUnauthorized
	}
	return user, nil
}

// SetUserInContext stores the logged-in user in the context
func SetUserInContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// RequireSuperAdmin checks the user is a superadmin
func RequireSuperAdmin(ctx context.Context) error {
	user, err := GetUserFromContext(ctx)
	if err != nil {
		return err
	}
	if user.Role != entities.RoleSuperAdmin {
		return ErrForbidden
	}
	return nil
}

// CanManageVendor checks the user may act on a vendor's data.
// Superadmins manage every vendor; vendor accounts only their own.
func CanManageVendor(ctx context.Context, vendorID string) error {
	user, err := GetUserFromContext(ctx)
	if err != nil {
		return err
	}

	if user.Role == entities.RoleSuperAdmin {
		return nil
	}
	if user.Role == entities.RoleVendor && vendorID != "" && user.VendorID == vendorID {
		return nil
	}
	return ErrForbidden
}
