package models

import (
	"strings"
	"time"
)

// Role is a user's access level.
type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleLibrarian Role = "LIBRARIAN"
	RoleMember    Role = "MEMBER"
)

// ParseRole normalises s to a known Role.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	switch r {
	case RoleAdmin, RoleLibrarian, RoleMember:
		return r, true
	}
	return "", false
}

// IsElevated reports whether r is a management role.
func (r Role) IsElevated() bool {
	return r == RoleAdmin || r == RoleLibrarian
}

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash []byte    `json:"-"`
	Salt         []byte    `json:"-"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"is_active"`
	IsStaff      bool      `json:"is_staff"`
	CreatedAt    time.Time `json:"created_at"`
}

// MemberProfile carries the sequential membership identifier (MEM-000001).
type MemberProfile struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	MembershipID string    `json:"membership_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// ManagementProfile exists once per (user, elevated role) pair.
type ManagementProfile struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Role         Role      `json:"role"`
	ManagementID string    `json:"management_id"`
	CreatedAt    time.Time `json:"created_at"`
}
