package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role tags carried in tokens and stored on principal documents.
const (
	RoleSuperAdmin = "super_admin"
	RoleAdmin      = "admin"
	RoleTeamLead   = "tl"
)

// IsValidRole reports whether role is one of the known role tags.
func IsValidRole(role string) bool {
	switch role {
	case RoleSuperAdmin, RoleAdmin, RoleTeamLead:
		return true
	}
	return false
}

// Principal is a back-office account. All three roles live in the same
// users collection, discriminated by Role; email is unique per role
// (the unique index covers the pair).
type Principal struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	Email     string             `json:"email" bson:"email"`
	Password  string             `json:"password,omitempty" bson:"password"`
	Phone     string             `json:"phone" bson:"phone"`
	Role      string             `json:"role" bson:"role"`
	LastLogin *time.Time         `json:"last_login" bson:"last_login"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

// LoginRequest is the body of POST /api/auth/login. The caller claims a
// role; lookup happens against that role's principals only.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required"`
}

// PrincipalRequest is the body for creating an admin or team lead.
type PrincipalRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone" validate:"required"`
}
