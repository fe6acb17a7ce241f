package models

import "github.com/golang-jwt/jwt/v5"

// UserRole represents the roles carried by access tokens.
type UserRole string

const (
	RoleSuperAdmin UserRole = "SUPERADMIN"
	RoleAdmin      UserRole = "ADMIN"
	RoleStaff      UserRole = "STAFF"
	RoleInstructor UserRole = "INSTRUCTOR"
	RoleMember     UserRole = "MEMBER"
)

// JWTClaims is the payload of access tokens issued by the identity provider.
type JWTClaims struct {
	UserID   string   `json:"user_id"`
	Role     UserRole `json:"role"`
	Email    string   `json:"email"`
	FullName string   `json:"full_name"`
	jwt.RegisteredClaims
}
