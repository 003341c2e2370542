package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"recall/internal/domain"
	"recall/internal/domain/models"
	"recall/internal/domain/repositories"
)

// PostgresShareRepository implements the ShareRepository interface
type PostgresShareRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewShareRepository creates a new share repository
func NewShareRepository(config *RepositoryConfig) repositories.ShareRepository {
	return &PostgresShareRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Upsert creates the share or updates its permission in place.
// The unique (page_id, shared_with_user_id) constraint drives the
// conflict target, so re-sharing never duplicates a grant.
func (r *PostgresShareRepository) Upsert(ctx context.Context, share *models.Share) error {
	if share.ID == "" {
		share.ID = uuid.NewString()
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, page_id, owner_id, shared_with_user_id, permission_level, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (page_id, shared_with_user_id) DO UPDATE SET
			permission_level = EXCLUDED.permission_level
		RETURNING id, created_at
	`, r.tables.Shares)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		share.ID,
		share.PageID,
		share.OwnerID,
		share.SharedWithUserID,
		share.Permission,
		share.CreatedAt,
	).Scan(&share.ID, &share.CreatedAt)

	if err != nil {
		if isPgCheckError(err) {
			return fmt.Errorf("cannot share page with yourself: %w", domain.ErrValidation)
		}
		if isPgForeignKeyError(err) {
			return fmt.Errorf("share target: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("upsert share: %w", err)
	}

	return nil
}

// Get retrieves the share for (pageID, sharedWithUserID); nil when absent
func (r *PostgresShareRepository) Get(ctx context.Context, pageID, sharedWithUserID string) (*models.Share, error) {
	query := fmt.Sprintf(`
		SELECT id, page_id, owner_id, shared_with_user_id, permission_level, created_at
		FROM %s
		WHERE page_id = $1 AND shared_with_user_id = $2
	`, r.tables.Shares)

	var share models.Share
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, pageID, sharedWithUserID).Scan(
		&share.ID,
		&share.PageID,
		&share.OwnerID,
		&share.SharedWithUserID,
		&share.Permission,
		&share.CreatedAt,
	)

	if err != nil {
		if isPgNoRowsError(err) {
			return nil, nil // Not found, not an error
		}
		return nil, fmt.Errorf("get share: %w", err)
	}

	return &share, nil
}

// Delete removes the share for (pageID, sharedWithUserID)
func (r *PostgresShareRepository) Delete(ctx context.Context, pageID, sharedWithUserID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE page_id = $1 AND shared_with_user_id = $2
	`, r.tables.Shares)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, pageID, sharedWithUserID)
	if err != nil {
		return fmt.Errorf("delete share: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("share: %w", domain.ErrNotFound)
	}

	return nil
}

// ListByPage returns all shares for a page with target-user identity
func (r *PostgresShareRepository) ListByPage(ctx context.Context, pageID string) ([]models.ShareView, error) {
	query := fmt.Sprintf(`
		SELECT s.id, s.page_id, s.owner_id, s.shared_with_user_id, s.permission_level, s.created_at, u.email
		FROM %s s
		JOIN %s u ON u.id = s.shared_with_user_id
		WHERE s.page_id = $1
		ORDER BY u.email ASC
	`, r.tables.Shares, r.tables.Users)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, pageID)
	if err != nil {
		return nil, fmt.Errorf("list shares: %w", err)
	}
	defer rows.Close()

	var shares []models.ShareView
	for rows.Next() {
		var sv models.ShareView
		err := rows.Scan(
			&sv.ID,
			&sv.PageID,
			&sv.OwnerID,
			&sv.SharedWithUserID,
			&sv.Permission,
			&sv.CreatedAt,
			&sv.SharedWithEmail,
		)
		if err != nil {
			return nil, fmt.Errorf("scan share: %w", err)
		}
		shares = append(shares, sv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate shares: %w", err)
	}

	return shares, nil
}
