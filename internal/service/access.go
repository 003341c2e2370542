package service

import (
	"context"
	"fmt"

	"recall/internal/domain"
	"recall/internal/domain/models"
	"recall/internal/domain/repositories"
	"recall/internal/domain/services"
)

type accessResolver struct {
	pageRepo  repositories.PageRepository
	shareRepo repositories.ShareRepository
}

// NewAccessResolver creates a new access resolver
func NewAccessResolver(
	pageRepo repositories.PageRepository,
	shareRepo repositories.ShareRepository,
) services.AccessResolver {
	return &accessResolver{
		pageRepo:  pageRepo,
		shareRepo: shareRepo,
	}
}

// Resolve computes the user's effective access level on a page:
// owner beats share, an edit share beats a view share, no share is none.
func (a *accessResolver) Resolve(ctx context.Context, userID, pageID string) (models.AccessLevel, error) {
	page, err := a.pageRepo.GetByID(ctx, pageID)
	if err != nil {
		return models.AccessNone, err
	}

	if page.UserID == userID {
		return models.AccessOwner, nil
	}

	share, err := a.shareRepo.Get(ctx, pageID, userID)
	if err != nil {
		return models.AccessNone, err
	}
	if share == nil {
		return models.AccessNone, nil
	}

	return models.AccessFromPermission(share.Permission), nil
}

// Require gates an operation on a minimum access level. Resolving to
// none maps to not-found so non-participants cannot probe for
// existence; anything between none and the minimum is forbidden.
func (a *accessResolver) Require(ctx context.Context, userID, pageID string, min models.AccessLevel) (models.AccessLevel, error) {
	level, err := a.Resolve(ctx, userID, pageID)
	if err != nil {
		return models.AccessNone, err
	}

	if level == models.AccessNone {
		return models.AccessNone, fmt.Errorf("page %s: %w", pageID, domain.ErrNotFound)
	}

	if !level.AtLeast(min) {
		return level, fmt.Errorf("operation requires %s access: %w", min, domain.ErrForbidden)
	}

	return level, nil
}
