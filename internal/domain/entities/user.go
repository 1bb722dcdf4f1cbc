package entities

import "time"

// Role is an admin console role
type Role string

const (
	RoleSuperAdmin Role = "superadmin"
	RoleVendor     Role = "vendor"
)

// User represents the logged-in admin account
type User struct {
	ID        string    `json:"_id,omitempty"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	VendorID  string    `json:"vendorId,omitempty"` // set for vendor accounts
	Avatar    string    `json:"avatar,omitempty"`
	LastLogin time.Time `json:"lastLogin,omitempty"`
}

// IsSuperAdmin reports whether the user can manage every vendor's data
func (u *User) IsSuperAdmin() bool {
	return u.Role == RoleSuperAdmin
}

// LoginResult is the data returned by the auth service on login
type LoginResult struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
	User         *User  `json:"user,omitempty"`
}
