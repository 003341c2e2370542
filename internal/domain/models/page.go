package models

import (
	"time"
)

// Page is a node in a per-user forest of Markdown notes.
// ParentID references another page owned by the same user; nil = root.
// The parent graph must stay acyclic - enforced at reparent time, not
// by construction (see service.HierarchyValidator).
type Page struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	ParentID  *string   `json:"parent_id" db:"parent_id"`
	Title     string    `json:"title" db:"title"`
	Content   *string   `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// PageTreeNode is a page serialized with sharing metadata and nested
// children, as returned by the list endpoint. Children are sorted by
// casefolded title, ties broken by id.
type PageTreeNode struct {
	ID         string          `json:"id"`
	UserID     string          `json:"user_id"`
	ParentID   *string         `json:"parent_id"`
	Title      string          `json:"title"`
	Content    *string         `json:"content"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	IsShared   bool            `json:"is_shared"`
	Permission *Permission     `json:"permission"`
	OwnerEmail *string         `json:"owner_email"`
	Children   []*PageTreeNode `json:"children"`
}

// AccessiblePage is a page tagged with how the listing user can reach it:
// directly owned, or through a share (with the share's permission and the
// owner's email for display).
type AccessiblePage struct {
	Page       Page
	IsShared   bool
	Permission *Permission
	OwnerEmail *string
}
