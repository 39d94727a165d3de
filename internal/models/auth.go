package models

import "github.com/golang-jwt/jwt/v5"

// UserRole represents the available roles for capability checks.
type UserRole string

const (
	RoleAdmin     UserRole = "ADMIN"
	RoleScheduler UserRole = "SCHEDULER"
	RoleViewer    UserRole = "VIEWER"
)

// ResourceSchedules names the schedule record entity for capability checks.
const ResourceSchedules = "schedules"

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	UserID string   `json:"user_id"`
	Role   UserRole `json:"role"`
	Email  string   `json:"email"`
	jwt.RegisteredClaims
}

// Privileged reports whether the caller may bypass term locks.
func (c *JWTClaims) Privileged() bool {
	return c != nil && c.Role == RoleAdmin
}

// CanCreate reports whether the caller may create the given resource.
func (c *JWTClaims) CanCreate(resource string) bool {
	return c.mutable(resource)
}

// CanEdit reports whether the caller may update the given resource.
func (c *JWTClaims) CanEdit(resource string) bool {
	return c.mutable(resource)
}

// CanDelete reports whether the caller may delete the given resource.
func (c *JWTClaims) CanDelete(resource string) bool {
	return c.mutable(resource)
}

func (c *JWTClaims) mutable(resource string) bool {
	if c == nil {
		return false
	}
	switch c.Role {
	case RoleAdmin, RoleScheduler:
		return resource == ResourceSchedules
	default:
		return false
	}
}
