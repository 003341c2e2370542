package services

import (
	"context"

	"recall/internal/domain/models"
)

// PageService handles page business logic
type PageService interface {
	// CreatePage creates a new page, optionally under a parent owned by
	// the same user
	CreatePage(ctx context.Context, req *CreatePageRequest) (*models.Page, error)

	// GetPage retrieves a page the user can at least view
	GetPage(ctx context.Context, userID, pageID string) (*models.Page, error)

	// UpdatePage updates title/content (edit access) and/or moves the
	// page (owner only, hierarchy revalidated)
	UpdatePage(ctx context.Context, userID, pageID string, req *UpdatePageRequest) (*models.Page, error)

	// DeletePage deletes a page and everything under it (owner only)
	DeletePage(ctx context.Context, userID, pageID string) error

	// ListPages returns the user's accessible pages (owned plus shared)
	// as a nested tree. With a parent filter it returns that parent's
	// children subtrees.
	ListPages(ctx context.Context, userID string, parentID *string) ([]*models.PageTreeNode, error)

	// GetChildren lists the direct children of a page the user can view
	GetChildren(ctx context.Context, userID, pageID string) ([]models.Page, error)
}

// CreatePageRequest represents a page creation request
type CreatePageRequest struct {
	UserID   string  `json:"-"`
	ParentID *string `json:"parent_id,omitempty"`
	Title    string  `json:"title"`
	Content  *string `json:"content,omitempty"`
}

// UpdatePageRequest represents a page update request. Nil fields are
// left untouched; ParentID set to an empty string detaches to root.
type UpdatePageRequest struct {
	Title    *string `json:"title,omitempty"`
	Content  *string `json:"content,omitempty"`
	ParentID *string `json:"parent_id,omitempty"`
}

// HasChanges reports whether the request carries at least one field.
func (r *UpdatePageRequest) HasChanges() bool {
	return r.Title != nil || r.Content != nil || r.ParentID != nil
}
