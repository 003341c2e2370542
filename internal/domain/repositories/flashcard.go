package repositories

import (
	"context"
	"time"

	"recall/internal/domain/models"
)

// ReviewUpdate carries the result of one review. The repository applies
// it together with the review-count increment in a single statement so
// partial application is impossible.
type ReviewUpdate struct {
	FlashcardID    string
	LastReviewedAt time.Time
	NextReviewAt   time.Time
	MasteryScore   int
}

// FlashcardRepository defines data access operations for flashcards
type FlashcardRepository interface {
	// Create creates a new flashcard
	Create(ctx context.Context, card *models.Flashcard) error

	// GetByID retrieves a flashcard by ID
	GetByID(ctx context.Context, id string) (*models.Flashcard, error)

	// Update updates a flashcard's question and answer
	Update(ctx context.Context, card *models.Flashcard) error

	// Delete deletes a flashcard
	Delete(ctx context.Context, id string) error

	// ListByPage lists all flashcards on a page, oldest first
	ListByPage(ctx context.Context, pageID string) ([]models.Flashcard, error)

	// ApplyReview persists a review outcome and increments the review
	// count atomically, returning the updated card.
	ApplyReview(ctx context.Context, update *ReviewUpdate) (*models.Flashcard, error)

	// ListDue returns cards due at now (next_review_at <= now) on pages
	// the user owns or has shared access to, ordered by struggling
	// cards first (mastery < 50), then next_review_at, then mastery.
	ListDue(ctx context.Context, userID string, now time.Time, limit int) ([]models.Flashcard, error)
}
