package repositories

import (
	"context"

	"recall/internal/domain/models"
)

// ShareRepository defines data access operations for page shares
type ShareRepository interface {
	// Upsert creates the (page, target user) share or updates its
	// permission in place when it already exists.
	Upsert(ctx context.Context, share *models.Share) error

	// Get retrieves the share for (pageID, sharedWithUserID).
	// Returns nil without error when no share exists.
	Get(ctx context.Context, pageID, sharedWithUserID string) (*models.Share, error)

	// Delete removes the share for (pageID, sharedWithUserID)
	Delete(ctx context.Context, pageID, sharedWithUserID string) error

	// ListByPage returns all shares for a page joined with the target
	// user's email, ordered by email.
	ListByPage(ctx context.Context, pageID string) ([]models.ShareView, error)
}
