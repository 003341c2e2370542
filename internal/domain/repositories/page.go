package repositories

import (
	"context"

	"recall/internal/domain/models"
)

// PageRepository defines data access operations for pages
type PageRepository interface {
	// Create creates a new page
	Create(ctx context.Context, page *models.Page) error

	// GetByID retrieves a page by ID
	GetByID(ctx context.Context, id string) (*models.Page, error)

	// GetOwned retrieves a page only if it is owned by userID.
	// Returns nil without error when no such page exists.
	GetOwned(ctx context.Context, id, userID string) (*models.Page, error)

	// LockForUpdate re-reads a page inside the current transaction with
	// a row lock, serializing concurrent reparent operations on it.
	LockForUpdate(ctx context.Context, id string) (*models.Page, error)

	// Update updates a page's title, content and parent
	Update(ctx context.Context, page *models.Page) error

	// Delete deletes a page. Descendants, flashcards and shares go with
	// it via foreign-key cascade.
	Delete(ctx context.Context, id string) error

	// ListAccessible returns all pages the user owns plus all pages
	// shared with them, tagged with sharing metadata.
	ListAccessible(ctx context.Context, userID string) ([]models.AccessiblePage, error)

	// ListChildren lists the direct children of a page, ordered by
	// title then id.
	ListChildren(ctx context.Context, parentID string) ([]models.Page, error)

	// Search runs the ranked substring search over the user's
	// accessible pages. Options must be validated by the caller.
	Search(ctx context.Context, opts *models.SearchOptions) ([]models.RankedPage, error)
}
