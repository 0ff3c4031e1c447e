package models

import (
	"fmt"
	"strings"
	"time"
)

type UserRole string

const (
	RoleReception UserRole = "reception"
	RoleViewer    UserRole = "viewer"
	RoleAdmin     UserRole = "admin"
)

// Valid reports whether the role is one of the closed set. Stored rows with
// any other value are rejected at the data-access boundary instead of being
// silently defaulted.
func (r UserRole) Valid() bool {
	switch r {
	case RoleReception, RoleViewer, RoleAdmin:
		return true
	}
	return false
}

func (r UserRole) Validate() error {
	if !r.Valid() {
		return fmt.Errorf("unrecognized role %q", string(r))
	}
	return nil
}

type User struct {
	ID       string   `json:"id" gorm:"primaryKey;size:36"`
	Email    string   `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Name     string   `json:"name" gorm:"not null;size:100"`
	LastName string   `json:"lastName" gorm:"column:last_name;not null;size:100"`
	Role     UserRole `json:"role" gorm:"not null;size:20"`

	// bcrypt hash, never serialized
	PasswordHash string `json:"-" gorm:"column:password_hash;not null;size:100"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// DisplayName is what gets stamped into status-change provenance.
func (u *User) DisplayName() string {
	return strings.TrimSpace(u.Name + " " + u.LastName)
}

// Identity is the authenticated projection of a User carried in session
// tokens and request context.
type Identity struct {
	ID       string   `json:"id"`
	Email    string   `json:"email"`
	Name     string   `json:"name"`
	LastName string   `json:"lastName"`
	Role     UserRole `json:"role"`
}

func (i *Identity) DisplayName() string {
	return strings.TrimSpace(i.Name + " " + i.LastName)
}

func IdentityFromUser(u *User) *Identity {
	return &Identity{
		ID:       u.ID,
		Email:    u.Email,
		Name:     u.Name,
		LastName: u.LastName,
		Role:     u.Role,
	}
}
