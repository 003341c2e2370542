package models

import (
	"time"
)

// UserRole distinguishes the administrative user from regular ones.
// The very first provisioned user becomes admin (check-and-set inside
// the provisioning transaction).
type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleUser  UserRole = "user"
)

// User is a provisioned identity. Credentials live with the external
// identity provider; this row only carries what the core needs for
// ownership and share-target lookups.
type User struct {
	ID        string    `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	Name      *string   `json:"name" db:"name"`
	Role      UserRole  `json:"role" db:"role"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
