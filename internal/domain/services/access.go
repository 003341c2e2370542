package services

import (
	"context"

	"recall/internal/domain/models"
)

// AccessResolver computes the effective permission a user holds on a
// page and gates operations against a minimum level. Consulted before
// every page read/write and before flashcard operations.
type AccessResolver interface {
	// Resolve returns the user's effective access level on the page.
	// Returns domain.ErrNotFound when the page does not exist.
	Resolve(ctx context.Context, userID, pageID string) (models.AccessLevel, error)

	// Require resolves access and enforces the minimum: AccessNone
	// yields domain.ErrNotFound (existence stays hidden), anything
	// between None and the minimum yields domain.ErrForbidden.
	Require(ctx context.Context, userID, pageID string, min models.AccessLevel) (models.AccessLevel, error)
}
