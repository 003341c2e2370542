package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"recall/internal/domain"
	"recall/internal/domain/models"
	"recall/internal/domain/repositories"
)

// PostgresPageRepository implements the PageRepository interface
type PostgresPageRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewPageRepository creates a new page repository
func NewPageRepository(config *RepositoryConfig) repositories.PageRepository {
	return &PostgresPageRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const pageColumns = "id, user_id, parent_id, title, content, created_at, updated_at"

func scanPage(row pgx.Row, page *models.Page) error {
	return row.Scan(
		&page.ID,
		&page.UserID,
		&page.ParentID,
		&page.Title,
		&page.Content,
		&page.CreatedAt,
		&page.UpdatedAt,
	)
}

// Create creates a new page
func (r *PostgresPageRepository) Create(ctx context.Context, page *models.Page) error {
	if page.ID == "" {
		page.ID = uuid.NewString()
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, user_id, parent_id, title, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`, r.tables.Pages)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		page.ID,
		page.UserID,
		page.ParentID,
		page.Title,
		page.Content,
		page.CreatedAt,
		page.UpdatedAt,
	).Scan(&page.CreatedAt, &page.UpdatedAt)

	if err != nil {
		if isPgForeignKeyError(err) {
			return fmt.Errorf("parent page %v: %w", page.ParentID, domain.ErrNotFound)
		}
		if isPgCheckError(err) {
			return fmt.Errorf("page %s: %w", page.ID, domain.ErrValidation)
		}
		return fmt.Errorf("create page: %w", err)
	}

	return nil
}

// GetByID retrieves a page by ID
func (r *PostgresPageRepository) GetByID(ctx context.Context, id string) (*models.Page, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s WHERE id = $1
	`, pageColumns, r.tables.Pages)

	var page models.Page
	executor := GetExecutor(ctx, r.pool)
	if err := scanPage(executor.QueryRow(ctx, query, id), &page); err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("page %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get page: %w", err)
	}

	return &page, nil
}

// GetOwned retrieves a page only if owned by userID; nil when absent
func (r *PostgresPageRepository) GetOwned(ctx context.Context, id, userID string) (*models.Page, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s WHERE id = $1 AND user_id = $2
	`, pageColumns, r.tables.Pages)

	var page models.Page
	executor := GetExecutor(ctx, r.pool)
	if err := scanPage(executor.QueryRow(ctx, query, id, userID), &page); err != nil {
		if isPgNoRowsError(err) {
			return nil, nil // Not found, not an error
		}
		return nil, fmt.Errorf("get owned page: %w", err)
	}

	return &page, nil
}

// LockForUpdate re-reads a page with a row lock. Only meaningful inside
// a transaction; concurrent reparents of the same page serialize here.
func (r *PostgresPageRepository) LockForUpdate(ctx context.Context, id string) (*models.Page, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s WHERE id = $1 FOR UPDATE
	`, pageColumns, r.tables.Pages)

	var page models.Page
	executor := GetExecutor(ctx, r.pool)
	if err := scanPage(executor.QueryRow(ctx, query, id), &page); err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("page %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("lock page: %w", err)
	}

	return &page, nil
}

// Update updates a page's title, content and parent
func (r *PostgresPageRepository) Update(ctx context.Context, page *models.Page) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET parent_id = $1, title = $2, content = $3, updated_at = $4
		WHERE id = $5
	`, r.tables.Pages)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		page.ParentID,
		page.Title,
		page.Content,
		page.UpdatedAt,
		page.ID,
	)

	if err != nil {
		if isPgCheckError(err) {
			return fmt.Errorf("page %s cannot be its own parent: %w", page.ID, domain.ErrValidation)
		}
		if isPgForeignKeyError(err) {
			return fmt.Errorf("parent page %v: %w", page.ParentID, domain.ErrNotFound)
		}
		return fmt.Errorf("update page: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("page %s: %w", page.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete deletes a page; children, flashcards and shares cascade away
func (r *PostgresPageRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Pages)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete page: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("page %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// ListAccessible returns owned plus shared pages with share metadata
func (r *PostgresPageRepository) ListAccessible(ctx context.Context, userID string) ([]models.AccessiblePage, error) {
	query := fmt.Sprintf(`
		SELECT p.id, p.user_id, p.parent_id, p.title, p.content, p.created_at, p.updated_at,
		       false AS is_shared, NULL::text AS permission, NULL::text AS owner_email
		FROM %s p
		WHERE p.user_id = $1
		UNION ALL
		SELECT p.id, p.user_id, p.parent_id, p.title, p.content, p.created_at, p.updated_at,
		       true, s.permission_level, u.email
		FROM %s p
		JOIN %s s ON s.page_id = p.id
		JOIN %s u ON u.id = p.user_id
		WHERE s.shared_with_user_id = $1 AND p.user_id <> $1
	`, r.tables.Pages, r.tables.Pages, r.tables.Shares, r.tables.Users)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list accessible pages: %w", err)
	}
	defer rows.Close()

	var pages []models.AccessiblePage
	for rows.Next() {
		var ap models.AccessiblePage
		var permission *string
		err := rows.Scan(
			&ap.Page.ID,
			&ap.Page.UserID,
			&ap.Page.ParentID,
			&ap.Page.Title,
			&ap.Page.Content,
			&ap.Page.CreatedAt,
			&ap.Page.UpdatedAt,
			&ap.IsShared,
			&permission,
			&ap.OwnerEmail,
		)
		if err != nil {
			return nil, fmt.Errorf("scan accessible page: %w", err)
		}
		if permission != nil {
			p := models.Permission(*permission)
			ap.Permission = &p
		}
		pages = append(pages, ap)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accessible pages: %w", err)
	}

	return pages, nil
}

// ListChildren lists the direct children of a page
func (r *PostgresPageRepository) ListChildren(ctx context.Context, parentID string) ([]models.Page, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE parent_id = $1
		ORDER BY title ASC, id ASC
	`, pageColumns, r.tables.Pages)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, parentID)
	if err != nil {
		return nil, fmt.Errorf("list child pages: %w", err)
	}
	defer rows.Close()

	var pages []models.Page
	for rows.Next() {
		var page models.Page
		if err := scanPage(rows, &page); err != nil {
			return nil, fmt.Errorf("scan child page: %w", err)
		}
		pages = append(pages, page)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate child pages: %w", err)
	}

	return pages, nil
}

// Search runs the ranked substring search over the caller's accessible
// pages. Rank classes: exact case-insensitive title match, then title
// substring, then content-only matches; ties break alphabetically.
// An empty query matches everything accessible.
func (r *PostgresPageRepository) Search(ctx context.Context, opts *models.SearchOptions) ([]models.RankedPage, error) {
	pattern := "%" + escapeLike(opts.Query) + "%"

	query := fmt.Sprintf(`
		WITH accessible AS (
			SELECT p.id, p.user_id, p.parent_id, p.title, p.content, p.created_at, p.updated_at,
			       'owner'::text AS access_type, NULL::text AS permission
			FROM %s p
			WHERE p.user_id = $1
			UNION ALL
			SELECT p.id, p.user_id, p.parent_id, p.title, p.content, p.created_at, p.updated_at,
			       'shared', s.permission_level
			FROM %s p
			JOIN %s s ON s.page_id = p.id
			WHERE s.shared_with_user_id = $1 AND p.user_id <> $1
		)
		SELECT id, user_id, parent_id, title, content, created_at, updated_at,
		       access_type, permission,
		       CASE
		           WHEN $2 <> '' AND lower(title) = lower($2) THEN %d
		           WHEN $2 <> '' AND title ILIKE $3 ESCAPE '\' THEN %d
		           ELSE %d
		       END AS rank
		FROM accessible
		WHERE $2 = '' OR title ILIKE $3 ESCAPE '\' OR content ILIKE $3 ESCAPE '\'
		ORDER BY rank ASC, lower(title) ASC, id ASC
		LIMIT $4 OFFSET $5
	`, r.tables.Pages, r.tables.Pages, r.tables.Shares,
		models.RankTitleExact, models.RankTitleContains, models.RankContentOnly)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, opts.UserID, opts.Query, pattern, opts.Limit, opts.Offset)
	if err != nil {
		return nil, fmt.Errorf("search pages: %w", err)
	}
	defer rows.Close()

	var results []models.RankedPage
	for rows.Next() {
		var rp models.RankedPage
		var accessType string
		var permission *string
		err := rows.Scan(
			&rp.Page.ID,
			&rp.Page.UserID,
			&rp.Page.ParentID,
			&rp.Page.Title,
			&rp.Page.Content,
			&rp.Page.CreatedAt,
			&rp.Page.UpdatedAt,
			&accessType,
			&permission,
			&rp.Rank,
		)
		if err != nil {
			return nil, fmt.Errorf("scan search result: %w", err)
		}
		if accessType == "owner" {
			rp.AccessType = models.AccessOwner
		} else if permission != nil {
			p := models.Permission(*permission)
			rp.Permission = &p
			rp.AccessType = models.AccessFromPermission(p)
		}
		results = append(results, rp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate search results: %w", err)
	}

	return results, nil
}

// escapeLike escapes LIKE/ILIKE metacharacters so the query string is
// always treated as a literal substring.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
