package domain

import (
	"context"
	"fmt"
)

type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleManager Role = "MANAGER"
	RoleMember  Role = "MEMBER"
)

// ParseRole validates a role string.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleAdmin, RoleManager, RoleMember:
		return r, nil
	default:
		return "", fmt.Errorf("role %q: %w", s, ErrInvalidInput)
	}
}

type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	FullName     string `json:"fullName"`
	Role         Role   `json:"role"`
	TenantID     string `json:"tenantId"`
	AvatarURL    string `json:"avatarUrl,omitempty"`
	PasswordHash string `json:"-"` // argon2id salt$hash
}

// UserRepository is read-only: users are created at seed time.
type UserRepository interface {
	// GetByEmail matches exactly (case-sensitive) across all tenants.
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, tenantID, id string) (*User, error)
	ListByTenant(ctx context.Context, tenantID string) ([]*User, error)
}
