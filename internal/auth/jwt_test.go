package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sagar-developer08/admin-ecom-sub000/internal/domain/entities"
)

func createTestToken(claims jwt.MapClaims) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	// ParseUnverified doesn't check signatures
	tokenString, _ := token.SigningString()
	return tokenString + ".fake_signature"
}

func TestParseClaims(t *testing.T) {
	future := float64(time.Now().Add(time.Hour).Unix())
	past := float64(time.Now().Add(-time.Hour).Unix())

	tests := []struct {
		name      string
		token     string
		wantErr   error
		wantID    string
		wantRole  string
		hasClaims bool
	}{
		{
			name:      "userId claim",
			token:     createTestToken(jwt.MapClaims{"userId": "u1", "role": "superadmin", "exp": future}),
			wantID:    "u1",
			wantRole:  "superadmin",
			hasClaims: true,
		},
		{
			name:      "id claim",
			token:     createTestToken(jwt.MapClaims{"id": "u2", "role": "vendor", "vendorId": "v9"}),
			wantID:    "u2",
			wantRole:  "vendor",
			hasClaims: true,
		},
		{
			name:      "sub claim",
			token:     createTestToken(jwt.MapClaims{"sub": "u3", "role": "vendor"}),
			wantID:    "u3",
			wantRole:  "vendor",
			hasClaims: true,
		},
		{
			name:      "expired",
			token:     createTestToken(jwt.MapClaims{"userId": "u1", "role": "vendor", "exp": past}),
			wantErr:   ErrExpiredToken,
			wantID:    "u1",
			wantRole:  "vendor",
			hasClaims: true,
		},
		{
			name:    "empty",
			token:   "",
			wantErr: ErrNoToken,
		},
		{
			name:    "garbage",
			token:   "not-a-jwt",
			wantErr: ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := ParseClaims(tt.token)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ParseClaims() error = %v, want %v", err, tt.wantErr)
			}
			if !tt.hasClaims {
				if claims != nil {
					t.Errorf("expected nil claims, got %+v", claims)
				}
				return
			}
			if claims.AccountID() != tt.wantID {
				t.Errorf("AccountID() = %q, want %q", claims.AccountID(), tt.wantID)
			}
			if claims.Role != tt.wantRole {
				t.Errorf("Role = %q, want %q", claims.Role, tt.wantRole)
			}
		})
	}
}

func TestExpiresIn(t *testing.T) {
	now := time.Now()
	c := &Claims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(10 * time.Minute))}}
	if got := c.ExpiresIn(now); got < 9*time.Minute || got > 10*time.Minute {
		t.Errorf("ExpiresIn() = %v, want about 10m", got)
	}
	if got := (&Claims{}).ExpiresIn(now); got != 0 {
		t.Errorf("ExpiresIn() without exp = %v, want 0", got)
	}
}

func TestAuthorization(t *testing.T) {
	superadmin := SetUserInContext(context.Background(), &UserContext{UserID: "a", Role: entities.RoleSuperAdmin})
	vendor := SetUserInContext(context.Background(), &UserContext{UserID: "b", Role: entities.RoleVendor, VendorID: "v1"})
	anonymous := context.Background()

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"superadmin passes RequireSuperAdmin", RequireSuperAdmin(superadmin), nil},
		{"vendor fails RequireSuperAdmin", RequireSuperAdmin(vendor), ErrForbidden},
		{"anonymous fails RequireSuperAdmin", RequireSuperAdmin(anonymous), ErrUnauthorized},
		{"superadmin manages any vendor", CanManageVendor(superadmin, "v2"), nil},
		{"vendor manages itself", CanManageVendor(vendor, "v1"), nil},
		{"vendor cannot manage others", CanManageVendor(vendor, "v2"), ErrForbidden},
		{"vendor with empty target", CanManageVendor(vendor, ""), ErrForbidden},
		{"anonymous cannot manage", CanManageVendor(anonymous, "v1"), ErrUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.want) {
				t.Errorf("got %v, want %v", tt.err, tt.want)
			}
		})
	}
}

func TestNewUserContext(t *testing.T) {
	u := NewUserContext(&Claims{UserID: "u1", Email: "a@shop.test", Role: "vendor", VendorID: "v1"})
	if u.UserID != "u1" || u.Role != entities.RoleVendor || u.VendorID != "v1" || u.Email != "a@shop.test" {
		t.Errorf("NewUserContext() = %+v", u)
	}
}
