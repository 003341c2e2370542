package repositories

import (
	"context"

	"recall/internal/domain/models"
)

// UserRepository defines data access operations for provisioned users
type UserRepository interface {
	// GetByID retrieves a user by ID.
	// Returns nil without error when no such user exists.
	GetByID(ctx context.Context, id string) (*models.User, error)

	// Upsert inserts the user or refreshes email/name on conflict,
	// returning the stored row.
	Upsert(ctx context.Context, user *models.User) (*models.User, error)

	// Count returns the number of provisioned users. Used for the
	// first-user-becomes-admin check inside the provisioning
	// transaction.
	Count(ctx context.Context) (int, error)

	// LockProvisioning serializes provisioning transactions against
	// each other, so two concurrent first registrations cannot both
	// observe a zero count. Must run inside a transaction; the lock is
	// released on commit or rollback.
	LockProvisioning(ctx context.Context) error
}
