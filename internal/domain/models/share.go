package models

import (
	"time"
)

// Permission is the level granted by a share. Exactly two values exist.
type Permission string

const (
	PermissionViewOnly Permission = "view_only"
	PermissionEdit     Permission = "edit"
)

// Valid reports whether p is one of the two share permission values.
func (p Permission) Valid() bool {
	return p == PermissionViewOnly || p == PermissionEdit
}

// Share grants a non-owning user access to a page.
// Unique per (page, target user); re-sharing updates the permission in
// place. The owner can never be the target.
type Share struct {
	ID               string     `json:"id" db:"id"`
	PageID           string     `json:"page_id" db:"page_id"`
	OwnerID          string     `json:"owner_id" db:"owner_id"`
	SharedWithUserID string     `json:"shared_with_user_id" db:"shared_with_user_id"`
	Permission       Permission `json:"permission_level" db:"permission_level"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
}

// ShareView is a share joined with the target user's identity, as
// returned by the list-shares endpoint.
type ShareView struct {
	Share
	SharedWithEmail string `json:"shared_with_email"`
}
