package service

import (
	"context"
	"fmt"

	"recall/internal/config"
	"recall/internal/domain"
	"recall/internal/domain/repositories"
)

// HierarchyValidator decides accept/reject for a proposed parent
// assignment. It is purely advisory: the caller must run it inside the
// same transaction that writes the new parent_id, with the page row
// locked, so no mutation is visible between check and write.
type HierarchyValidator struct {
	pageRepo repositories.PageRepository
}

// NewHierarchyValidator creates a new hierarchy validator
func NewHierarchyValidator(pageRepo repositories.PageRepository) *HierarchyValidator {
	return &HierarchyValidator{pageRepo: pageRepo}
}

// ValidateReparent walks the ancestor chain upward from the proposed
// parent. Encountering the page itself means the move would create a
// cycle. A chain that fails to reach a root within the depth ceiling is
// rejected as corrupt rather than walked forever; it cannot occur if
// the invariant held before.
//
// Every ancestor is read with a row lock. A concurrent move of any page
// in the chain blocks the walk until it commits, and the re-read then
// sees the committed parent, so two moves can never both validate
// against stale snapshots of each other's chain.
func (v *HierarchyValidator) ValidateReparent(ctx context.Context, pageID string, proposedParentID *string) error {
	// Detaching to root is always safe
	if proposedParentID == nil {
		return nil
	}

	if *proposedParentID == pageID {
		return fmt.Errorf("page cannot be its own parent: %w", domain.ErrValidation)
	}

	currentID := *proposedParentID
	for depth := 0; depth < config.MaxPageDepth; depth++ {
		if currentID == pageID {
			return fmt.Errorf("moving page %s under one of its descendants would create a cycle: %w",
				pageID, domain.ErrConflict)
		}

		page, err := v.pageRepo.LockForUpdate(ctx, currentID)
		if err != nil {
			return err
		}

		if page.ParentID == nil {
			// Reached a root, chain is sound
			return nil
		}
		currentID = *page.ParentID
	}

	return fmt.Errorf("ancestor chain exceeds depth ceiling %d: %w", config.MaxPageDepth, domain.ErrConflict)
}
