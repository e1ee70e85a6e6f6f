package models

import "time"

// Role names. Admins see every base; commanders and logistics officers are
// scoped to their home base.
const (
	RoleAdmin            = "admin"
	RoleBaseCommander    = "base_commander"
	RoleLogisticsOfficer = "logistics_officer"
)

type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	FullName     string    `json:"full_name"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	BaseID       *int      `json:"base_id,omitempty"` // nil for admins
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Scope is the caller's visibility, derived from the authenticated user.
// A nil BaseID with the admin role means unrestricted.
type Scope struct {
	UserID int
	Role   string
	BaseID *int
}

// AllBases reports whether the scope may read every base.
func (s Scope) AllBases() bool {
	return s.Role == RoleAdmin
}

// CanAccessBase reports whether the scope may read the given base.
func (s Scope) CanAccessBase(baseID int) bool {
	if s.AllBases() {
		return true
	}
	return s.BaseID != nil && *s.BaseID == baseID
}

type SignupRequest struct {
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

type CreateUserRequest struct {
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
	Role     string `json:"role"`
	BaseID   *int   `json:"base_id,omitempty"`
}

type UpdateUserRequest struct {
	FullName string `json:"full_name"`
	Role     string `json:"role"`
	BaseID   *int   `json:"base_id,omitempty"`
	IsActive *bool  `json:"is_active,omitempty"`
}
