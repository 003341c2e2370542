package services

import (
	"context"
	"time"

	"recall/internal/domain/models"
	"recall/internal/srs"
)

// FlashcardService handles flashcard business logic. Creation and
// mutation need edit access on the owning page; viewing and reviewing
// need view access. A card's owner is always the page's owner.
type FlashcardService interface {
	// CreateFlashcard adds a card to a page
	CreateFlashcard(ctx context.Context, req *CreateFlashcardRequest) (*models.Flashcard, error)

	// GetFlashcard retrieves a card the user can view
	GetFlashcard(ctx context.Context, userID, cardID string) (*models.Flashcard, error)

	// UpdateFlashcard updates a card's question/answer
	UpdateFlashcard(ctx context.Context, userID, cardID string, req *UpdateFlashcardRequest) (*models.Flashcard, error)

	// DeleteFlashcard deletes a card
	DeleteFlashcard(ctx context.Context, userID, cardID string) error

	// ListFlashcards lists all cards on a page
	ListFlashcards(ctx context.Context, userID, pageID string) ([]models.Flashcard, error)

	// ReviewFlashcard records one review: schedules the next one,
	// adjusts mastery, and bumps the review count, atomically.
	ReviewFlashcard(ctx context.Context, userID, cardID string, rating srs.Rating, now time.Time) (*models.Flashcard, error)

	// ListDue returns cards due at now on pages visible to the user,
	// struggling cards first.
	ListDue(ctx context.Context, userID string, now time.Time, limit int) ([]models.Flashcard, error)
}

// CreateFlashcardRequest represents a flashcard creation request
type CreateFlashcardRequest struct {
	UserID   string `json:"-"`
	PageID   string `json:"-"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// UpdateFlashcardRequest represents a flashcard update request
type UpdateFlashcardRequest struct {
	Question *string `json:"question,omitempty"`
	Answer   *string `json:"answer,omitempty"`
}

// ReviewRequest represents one review submission
type ReviewRequest struct {
	Rating srs.Rating `json:"rating"`
}
