package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"recall/internal/domain"
	"recall/internal/domain/models"
	"recall/internal/domain/repositories"
	"recall/internal/domain/services"
)

type sharingService struct {
	pageRepo  repositories.PageRepository
	shareRepo repositories.ShareRepository
	userRepo  repositories.UserRepository
	logger    *slog.Logger
}

// NewSharingService creates a new sharing service
func NewSharingService(
	pageRepo repositories.PageRepository,
	shareRepo repositories.ShareRepository,
	userRepo repositories.UserRepository,
	logger *slog.Logger,
) services.SharingService {
	return &sharingService{
		pageRepo:  pageRepo,
		shareRepo: shareRepo,
		userRepo:  userRepo,
		logger:    logger,
	}
}

// Share grants or updates a permission on a page. Regranting to the
// same user overwrites the previous permission level.
func (s *sharingService) Share(ctx context.Context, req *services.ShareRequest) (*models.Share, error) {
	if !req.Permission.Valid() {
		return nil, fmt.Errorf("invalid permission level %q: %w", req.Permission, domain.ErrValidation)
	}
	if req.TargetUserID == "" {
		return nil, fmt.Errorf("shared_with_user_id is required: %w", domain.ErrValidation)
	}
	if req.TargetUserID == req.OwnerID {
		return nil, fmt.Errorf("cannot share a page with yourself: %w", domain.ErrValidation)
	}

	if err := s.requireOwned(ctx, req.PageID, req.OwnerID); err != nil {
		return nil, err
	}

	target, err := s.userRepo.GetByID(ctx, req.TargetUserID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, fmt.Errorf("user %s: %w", req.TargetUserID, domain.ErrNotFound)
	}

	share := &models.Share{
		PageID:           req.PageID,
		OwnerID:          req.OwnerID,
		SharedWithUserID: req.TargetUserID,
		Permission:       req.Permission,
		CreatedAt:        time.Now(),
	}
	if err := s.shareRepo.Upsert(ctx, share); err != nil {
		return nil, err
	}

	s.logger.Info("page shared",
		"page_id", req.PageID,
		"owner_id", req.OwnerID,
		"target_user_id", req.TargetUserID,
		"permission", req.Permission,
	)

	return share, nil
}

// Revoke removes the target user's grant on a page
func (s *sharingService) Revoke(ctx context.Context, ownerID, pageID, targetUserID string) error {
	if err := s.requireOwned(ctx, pageID, ownerID); err != nil {
		return err
	}

	if err := s.shareRepo.Delete(ctx, pageID, targetUserID); err != nil {
		return err
	}

	s.logger.Info("share revoked",
		"page_id", pageID,
		"owner_id", ownerID,
		"target_user_id", targetUserID,
	)

	return nil
}

// ListShares returns all grants on a page the caller owns
func (s *sharingService) ListShares(ctx context.Context, ownerID, pageID string) ([]models.ShareView, error) {
	if err := s.requireOwned(ctx, pageID, ownerID); err != nil {
		return nil, err
	}
	return s.shareRepo.ListByPage(ctx, pageID)
}

// requireOwned hides non-owned pages behind not-found, same as a page
// that does not exist at all.
func (s *sharingService) requireOwned(ctx context.Context, pageID, ownerID string) error {
	page, err := s.pageRepo.GetOwned(ctx, pageID, ownerID)
	if err != nil {
		return err
	}
	if page == nil {
		return fmt.Errorf("page %s: %w", pageID, domain.ErrNotFound)
	}
	return nil
}
