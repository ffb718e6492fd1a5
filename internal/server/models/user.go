// Package models defines server-side data models persisted by the repositories.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is the single authorization role held by a user. There is no hierarchy.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User is a registered account. Email is stored normalised (trimmed,
// lower-case) and is unique.
type User struct {
	ID           uuid.UUID `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Role         Role      `db:"role"`
	IsActive     bool      `db:"is_active"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// UserUpdate carries the admin-editable fields; nil means unchanged.
type UserUpdate struct {
	Role     *Role
	IsActive *bool
}

// Empty reports whether the update changes nothing.
func (u UserUpdate) Empty() bool {
	return u.Role == nil && u.IsActive == nil
}
