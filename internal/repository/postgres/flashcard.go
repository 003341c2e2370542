package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"recall/internal/domain"
	"recall/internal/domain/models"
	"recall/internal/domain/repositories"
)

// PostgresFlashcardRepository implements the FlashcardRepository interface
type PostgresFlashcardRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewFlashcardRepository creates a new flashcard repository
func NewFlashcardRepository(config *RepositoryConfig) repositories.FlashcardRepository {
	return &PostgresFlashcardRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const flashcardColumns = "id, page_id, user_id, question, answer, last_reviewed_at, next_review_at, review_count, mastery_score, created_at, updated_at"

func scanFlashcard(row pgx.Row, card *models.Flashcard) error {
	return row.Scan(
		&card.ID,
		&card.PageID,
		&card.UserID,
		&card.Question,
		&card.Answer,
		&card.LastReviewedAt,
		&card.NextReviewAt,
		&card.ReviewCount,
		&card.MasteryScore,
		&card.CreatedAt,
		&card.UpdatedAt,
	)
}

// Create creates a new flashcard
func (r *PostgresFlashcardRepository) Create(ctx context.Context, card *models.Flashcard) error {
	if card.ID == "" {
		card.ID = uuid.NewString()
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, page_id, user_id, question, answer, next_review_at, review_count, mastery_score, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`, r.tables.Flashcards)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		card.ID,
		card.PageID,
		card.UserID,
		card.Question,
		card.Answer,
		card.NextReviewAt,
		card.ReviewCount,
		card.MasteryScore,
		card.CreatedAt,
		card.UpdatedAt,
	).Scan(&card.CreatedAt, &card.UpdatedAt)

	if err != nil {
		if isPgForeignKeyError(err) {
			return fmt.Errorf("page %s: %w", card.PageID, domain.ErrNotFound)
		}
		return fmt.Errorf("create flashcard: %w", err)
	}

	return nil
}

// GetByID retrieves a flashcard by ID
func (r *PostgresFlashcardRepository) GetByID(ctx context.Context, id string) (*models.Flashcard, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s WHERE id = $1
	`, flashcardColumns, r.tables.Flashcards)

	var card models.Flashcard
	executor := GetExecutor(ctx, r.pool)
	if err := scanFlashcard(executor.QueryRow(ctx, query, id), &card); err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("flashcard %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get flashcard: %w", err)
	}

	return &card, nil
}

// Update updates a flashcard's question and answer
func (r *PostgresFlashcardRepository) Update(ctx context.Context, card *models.Flashcard) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET question = $1, answer = $2, updated_at = $3
		WHERE id = $4
	`, r.tables.Flashcards)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		card.Question,
		card.Answer,
		card.UpdatedAt,
		card.ID,
	)
	if err != nil {
		return fmt.Errorf("update flashcard: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("flashcard %s: %w", card.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete deletes a flashcard
func (r *PostgresFlashcardRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Flashcards)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete flashcard: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("flashcard %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// ListByPage lists all flashcards on a page, oldest first
func (r *PostgresFlashcardRepository) ListByPage(ctx context.Context, pageID string) ([]models.Flashcard, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE page_id = $1
		ORDER BY created_at ASC, id ASC
	`, flashcardColumns, r.tables.Flashcards)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, pageID)
	if err != nil {
		return nil, fmt.Errorf("list flashcards: %w", err)
	}
	defer rows.Close()

	var cards []models.Flashcard
	for rows.Next() {
		var card models.Flashcard
		if err := scanFlashcard(rows, &card); err != nil {
			return nil, fmt.Errorf("scan flashcard: %w", err)
		}
		cards = append(cards, card)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate flashcards: %w", err)
	}

	return cards, nil
}

// ApplyReview persists a review outcome. Schedule, mastery and the
// review-count increment land in one statement so a failure can never
// apply half of a review.
func (r *PostgresFlashcardRepository) ApplyReview(ctx context.Context, update *repositories.ReviewUpdate) (*models.Flashcard, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET last_reviewed_at = $1,
		    next_review_at = $2,
		    mastery_score = $3,
		    review_count = review_count + 1,
		    updated_at = $1
		WHERE id = $4
		RETURNING %s
	`, r.tables.Flashcards, flashcardColumns)

	var card models.Flashcard
	executor := GetExecutor(ctx, r.pool)
	err := scanFlashcard(executor.QueryRow(ctx, query,
		update.LastReviewedAt,
		update.NextReviewAt,
		update.MasteryScore,
		update.FlashcardID,
	), &card)

	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("flashcard %s: %w", update.FlashcardID, domain.ErrNotFound)
		}
		if isPgCheckError(err) {
			return nil, fmt.Errorf("flashcard %s: mastery out of bounds: %w", update.FlashcardID, domain.ErrValidation)
		}
		return nil, fmt.Errorf("apply review: %w", err)
	}

	return &card, nil
}

// ListDue returns due cards on pages visible to the user. Cards with
// next_review_at in the future are excluded outright, never merely
// deprioritized. Struggling cards (mastery < 50) come first, then
// oldest due, then lowest mastery.
func (r *PostgresFlashcardRepository) ListDue(ctx context.Context, userID string, now time.Time, limit int) ([]models.Flashcard, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s f
		WHERE f.next_review_at <= $2
		  AND (
		      f.user_id = $1
		      OR EXISTS (
		          SELECT 1 FROM %s s
		          WHERE s.page_id = f.page_id AND s.shared_with_user_id = $1
		      )
		  )
		ORDER BY (f.mastery_score < 50) DESC, f.next_review_at ASC, f.mastery_score ASC
		LIMIT $3
	`, prefixColumns("f", flashcardColumns), r.tables.Flashcards, r.tables.Shares)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, userID, now, limit)
	if err != nil {
		return nil, fmt.Errorf("list due flashcards: %w", err)
	}
	defer rows.Close()

	var cards []models.Flashcard
	for rows.Next() {
		var card models.Flashcard
		if err := scanFlashcard(rows, &card); err != nil {
			return nil, fmt.Errorf("scan due flashcard: %w", err)
		}
		cards = append(cards, card)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate due flashcards: %w", err)
	}

	return cards, nil
}

// prefixColumns qualifies a comma-separated column list with an alias.
func prefixColumns(alias, columns string) string {
	parts := strings.Split(columns, ", ")
	for i, p := range parts {
		parts[i] = alias + "." + p
	}
	return strings.Join(parts, ", ")
}

