package services

import (
	"context"

	"recall/internal/domain/models"
)

// UserService provisions identities delivered by the external identity
// provider. The first provisioned user becomes admin; the promotion is
// a check-and-set inside the same transaction as the insert.
type UserService interface {
	// EnsureUser upserts the user row from verified token claims
	EnsureUser(ctx context.Context, userID, email, name string) (*models.User, error)

	// GetUser retrieves a provisioned user; domain.ErrNotFound when absent
	GetUser(ctx context.Context, userID string) (*models.User, error)
}
