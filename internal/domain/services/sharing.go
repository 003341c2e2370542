package services

import (
	"context"

	"recall/internal/domain/models"
)

// SharingService orchestrates share grants. All three operations are
// owner-only; non-owners get domain.ErrNotFound rather than a hint that
// the page exists.
type SharingService interface {
	// Share grants or updates the target user's permission on a page
	Share(ctx context.Context, req *ShareRequest) (*models.Share, error)

	// Revoke removes the target user's grant
	Revoke(ctx context.Context, ownerID, pageID, targetUserID string) error

	// ListShares returns all grants on a page with target identity
	ListShares(ctx context.Context, ownerID, pageID string) ([]models.ShareView, error)
}

// ShareRequest represents a share grant request
type ShareRequest struct {
	OwnerID      string            `json:"-"`
	PageID       string            `json:"-"`
	TargetUserID string            `json:"shared_with_user_id"`
	Permission   models.Permission `json:"permission_level"`
}
