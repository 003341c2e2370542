package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"recall/internal/config"
	"recall/internal/domain"
	"recall/internal/domain/models"
	"recall/internal/domain/repositories"
	"recall/internal/domain/services"
)

type pageService struct {
	pageRepo  repositories.PageRepository
	access    services.AccessResolver
	hierarchy *HierarchyValidator
	txManager repositories.TransactionManager
	logger    *slog.Logger
}

// NewPageService creates a new page service
func NewPageService(
	pageRepo repositories.PageRepository,
	access services.AccessResolver,
	hierarchy *HierarchyValidator,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.PageService {
	return &pageService{
		pageRepo:  pageRepo,
		access:    access,
		hierarchy: hierarchy,
		txManager: txManager,
		logger:    logger,
	}
}

// CreatePage creates a new page
func (s *pageService) CreatePage(ctx context.Context, req *services.CreatePageRequest) (*models.Page, error) {
	req.Title = strings.TrimSpace(req.Title)
	if err := validation.ValidateStruct(req,
		validation.Field(&req.Title,
			validation.Required.Error("title cannot be empty"),
			validation.Length(1, config.MaxTitleLength),
		),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	// Normalize empty string to nil for root-level pages
	if req.ParentID != nil && *req.ParentID == "" {
		req.ParentID = nil
	}

	now := time.Now()
	page := &models.Page{
		ID:        uuid.NewString(),
		UserID:    req.UserID,
		ParentID:  req.ParentID,
		Title:     req.Title,
		Content:   req.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		// A new page can only hang under a page its creator owns
		if req.ParentID != nil {
			parent, err := s.pageRepo.GetOwned(txCtx, *req.ParentID, req.UserID)
			if err != nil {
				return err
			}
			if parent == nil {
				return fmt.Errorf("parent page %s: %w", *req.ParentID, domain.ErrNotFound)
			}
			// A fresh page has no descendants, so only the depth bound
			// can fail here; the walk also locks the chain against a
			// concurrent reparent.
			if err := s.hierarchy.ValidateReparent(txCtx, page.ID, req.ParentID); err != nil {
				return err
			}
		}
		return s.pageRepo.Create(txCtx, page)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("page created",
		"id", page.ID,
		"user_id", page.UserID,
		"parent_id", page.ParentID,
	)

	return page, nil
}

// GetPage retrieves a page the user can at least view
func (s *pageService) GetPage(ctx context.Context, userID, pageID string) (*models.Page, error) {
	if _, err := s.access.Require(ctx, userID, pageID, models.AccessView); err != nil {
		return nil, err
	}
	return s.pageRepo.GetByID(ctx, pageID)
}

// UpdatePage updates title/content and/or moves the page. Moves are
// owner-only and revalidated against the hierarchy inside the same
// transaction that writes the new parent, with the page row locked.
func (s *pageService) UpdatePage(ctx context.Context, userID, pageID string, req *services.UpdatePageRequest) (*models.Page, error) {
	if !req.HasChanges() {
		return nil, fmt.Errorf("%w: at least one field must be provided", domain.ErrValidation)
	}

	level, err := s.access.Require(ctx, userID, pageID, models.AccessEdit)
	if err != nil {
		return nil, err
	}

	if req.ParentID != nil && level != models.AccessOwner {
		return nil, fmt.Errorf("only the page owner can change the hierarchy: %w", domain.ErrForbidden)
	}

	var title *string
	if req.Title != nil {
		trimmed := strings.TrimSpace(*req.Title)
		if trimmed == "" {
			return nil, fmt.Errorf("title cannot be empty: %w", domain.ErrValidation)
		}
		if utf8.RuneCountInString(trimmed) > config.MaxTitleLength {
			return nil, fmt.Errorf("title exceeds %d characters: %w", config.MaxTitleLength, domain.ErrValidation)
		}
		title = &trimmed
	}

	var updated *models.Page
	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		page, err := s.pageRepo.LockForUpdate(txCtx, pageID)
		if err != nil {
			return err
		}

		if title != nil {
			page.Title = *title
		}
		if req.Content != nil {
			page.Content = req.Content
		}

		if req.ParentID != nil {
			if *req.ParentID == "" {
				page.ParentID = nil
			} else {
				parent, err := s.pageRepo.GetOwned(txCtx, *req.ParentID, page.UserID)
				if err != nil {
					return err
				}
				if parent == nil {
					return fmt.Errorf("parent page %s: %w", *req.ParentID, domain.ErrNotFound)
				}
				// The walk locks every page on the proposed ancestor
				// chain, so a concurrent move of any ancestor
				// serializes with this one
				if err := s.hierarchy.ValidateReparent(txCtx, pageID, req.ParentID); err != nil {
					return err
				}
				page.ParentID = &parent.ID
			}
		}

		page.UpdatedAt = time.Now()
		if err := s.pageRepo.Update(txCtx, page); err != nil {
			return err
		}

		updated = page
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("page updated",
		"id", updated.ID,
		"user_id", userID,
		"parent_id", updated.ParentID,
	)

	return updated, nil
}

// DeletePage deletes a page; descendants, flashcards and shares cascade
func (s *pageService) DeletePage(ctx context.Context, userID, pageID string) error {
	if _, err := s.access.Require(ctx, userID, pageID, models.AccessOwner); err != nil {
		return err
	}

	if err := s.pageRepo.Delete(ctx, pageID); err != nil {
		return err
	}

	s.logger.Info("page deleted", "id", pageID, "user_id", userID)
	return nil
}

// ListPages returns the accessible forest as nested trees. Pages whose
// parent is outside the accessible set surface as roots, so a shared
// subtree shows up even when its ancestors were not shared.
func (s *pageService) ListPages(ctx context.Context, userID string, parentID *string) ([]*models.PageTreeNode, error) {
	accessible, err := s.pageRepo.ListAccessible(ctx, userID)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]models.AccessiblePage, len(accessible))
	byParent := make(map[string][]models.AccessiblePage)
	var roots []models.AccessiblePage

	for _, ap := range accessible {
		byID[ap.Page.ID] = ap
	}
	for _, ap := range accessible {
		if ap.Page.ParentID == nil {
			roots = append(roots, ap)
			continue
		}
		if _, visible := byID[*ap.Page.ParentID]; !visible {
			roots = append(roots, ap)
			continue
		}
		byParent[*ap.Page.ParentID] = append(byParent[*ap.Page.ParentID], ap)
	}

	if parentID != nil {
		if _, visible := byID[*parentID]; !visible {
			return nil, fmt.Errorf("parent page %s: %w", *parentID, domain.ErrNotFound)
		}
		return s.serializeAll(byParent[*parentID], byParent), nil
	}

	return s.serializeAll(roots, byParent), nil
}

// GetChildren lists the direct children of a page the user can view
func (s *pageService) GetChildren(ctx context.Context, userID, pageID string) ([]models.Page, error) {
	if _, err := s.access.Require(ctx, userID, pageID, models.AccessView); err != nil {
		return nil, err
	}
	return s.pageRepo.ListChildren(ctx, pageID)
}

func (s *pageService) serializeAll(pages []models.AccessiblePage, byParent map[string][]models.AccessiblePage) []*models.PageTreeNode {
	sortAccessible(pages)
	nodes := make([]*models.PageTreeNode, 0, len(pages))
	for _, ap := range pages {
		nodes = append(nodes, s.serialize(ap, byParent))
	}
	return nodes
}

func (s *pageService) serialize(ap models.AccessiblePage, byParent map[string][]models.AccessiblePage) *models.PageTreeNode {
	node := &models.PageTreeNode{
		ID:         ap.Page.ID,
		UserID:     ap.Page.UserID,
		ParentID:   ap.Page.ParentID,
		Title:      ap.Page.Title,
		Content:    ap.Page.Content,
		CreatedAt:  ap.Page.CreatedAt,
		UpdatedAt:  ap.Page.UpdatedAt,
		IsShared:   ap.IsShared,
		Permission: ap.Permission,
		OwnerEmail: ap.OwnerEmail,
		Children:   []*models.PageTreeNode{},
	}

	children := byParent[ap.Page.ID]
	sortAccessible(children)
	for _, child := range children {
		node.Children = append(node.Children, s.serialize(child, byParent))
	}

	return node
}

// sortAccessible orders siblings by casefolded title, ties by id.
func sortAccessible(pages []models.AccessiblePage) {
	sort.Slice(pages, func(i, j int) bool {
		ti := strings.ToLower(pages[i].Page.Title)
		tj := strings.ToLower(pages[j].Page.Title)
		if ti != tj {
			return ti < tj
		}
		return pages[i].Page.ID < pages[j].Page.ID
	})
}
