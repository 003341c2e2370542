package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"recall/internal/domain"
	"recall/internal/domain/models"
	"recall/internal/domain/repositories"
)

// PostgresUserRepository implements the UserRepository interface
type PostgresUserRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewUserRepository creates a new user repository
func NewUserRepository(config *RepositoryConfig) repositories.UserRepository {
	return &PostgresUserRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// GetByID retrieves a user by ID; nil when absent
func (r *PostgresUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := fmt.Sprintf(`
		SELECT id, email, name, role, created_at, updated_at
		FROM %s
		WHERE id = $1
	`, r.tables.Users)

	var user models.User
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if isPgNoRowsError(err) {
			return nil, nil // Not found, not an error
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}

// Upsert inserts the user or refreshes email/name on conflict.
// The role is set only on insert; promotions are not repeated on
// subsequent requests.
func (r *PostgresUserRepository) Upsert(ctx context.Context, user *models.User) (*models.User, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, email, name, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			email = EXCLUDED.email,
			name = EXCLUDED.name,
			updated_at = EXCLUDED.updated_at
		RETURNING id, email, name, role, created_at, updated_at
	`, r.tables.Users)

	var stored models.User
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		user.ID,
		user.Email,
		user.Name,
		user.Role,
		user.CreatedAt,
		user.UpdatedAt,
	).Scan(
		&stored.ID,
		&stored.Email,
		&stored.Name,
		&stored.Role,
		&stored.CreatedAt,
		&stored.UpdatedAt,
	)

	if err != nil {
		if isPgDuplicateError(err) {
			return nil, fmt.Errorf("email %s already in use: %w", user.Email, domain.ErrConflict)
		}
		return nil, fmt.Errorf("upsert user: %w", err)
	}

	return &stored, nil
}

// Advisory lock key for user provisioning. Arbitrary but stable;
// scoped per database, shared across table prefixes.
const userProvisioningLockKey = 986359

// LockProvisioning takes a transaction-scoped advisory lock so
// concurrent provisioning transactions serialize on the count check.
func (r *PostgresUserRepository) LockProvisioning(ctx context.Context) error {
	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, userProvisioningLockKey); err != nil {
		return fmt.Errorf("lock provisioning: %w", err)
	}
	return nil
}

// Count returns the number of provisioned users
func (r *PostgresUserRepository) Count(ctx context.Context) (int, error) {
	query := fmt.Sprintf(`SELECT count(*) FROM %s`, r.tables.Users)

	var count int
	executor := GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}

	return count, nil
}
