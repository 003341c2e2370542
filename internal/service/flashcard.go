package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"recall/internal/config"
	"recall/internal/domain"
	"recall/internal/domain/models"
	"recall/internal/domain/repositories"
	"recall/internal/domain/services"
	"recall/internal/srs"
)

type flashcardService struct {
	cardRepo repositories.FlashcardRepository
	pageRepo repositories.PageRepository
	access   services.AccessResolver
	policy   *srs.Policy
	logger   *slog.Logger
}

// NewFlashcardService creates a new flashcard service
func NewFlashcardService(
	cardRepo repositories.FlashcardRepository,
	pageRepo repositories.PageRepository,
	access services.AccessResolver,
	policy *srs.Policy,
	logger *slog.Logger,
) services.FlashcardService {
	return &flashcardService{
		cardRepo: cardRepo,
		pageRepo: pageRepo,
		access:   access,
		policy:   policy,
		logger:   logger,
	}
}

// CreateFlashcard adds a card to a page. The card belongs to the page's
// owner even when an editor with shared access creates it.
func (s *flashcardService) CreateFlashcard(ctx context.Context, req *services.CreateFlashcardRequest) (*models.Flashcard, error) {
	req.Question = strings.TrimSpace(req.Question)
	req.Answer = strings.TrimSpace(req.Answer)
	if err := validation.ValidateStruct(req,
		validation.Field(&req.Question, validation.Required.Error("question cannot be empty")),
		validation.Field(&req.Answer, validation.Required.Error("answer cannot be empty")),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if _, err := s.access.Require(ctx, req.UserID, req.PageID, models.AccessEdit); err != nil {
		return nil, err
	}

	page, err := s.pageRepo.GetByID(ctx, req.PageID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	card := &models.Flashcard{
		PageID:       req.PageID,
		UserID:       page.UserID,
		Question:     req.Question,
		Answer:       req.Answer,
		NextReviewAt: now,
		ReviewCount:  0,
		MasteryScore: 0,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.cardRepo.Create(ctx, card); err != nil {
		return nil, err
	}

	s.logger.Info("flashcard created",
		"id", card.ID,
		"page_id", card.PageID,
		"created_by", req.UserID,
	)

	return card, nil
}

// GetFlashcard retrieves a card the user can view
func (s *flashcardService) GetFlashcard(ctx context.Context, userID, cardID string) (*models.Flashcard, error) {
	return s.getWithAccess(ctx, userID, cardID, models.AccessView)
}

// UpdateFlashcard updates a card's question and/or answer
func (s *flashcardService) UpdateFlashcard(ctx context.Context, userID, cardID string, req *services.UpdateFlashcardRequest) (*models.Flashcard, error) {
	if req.Question == nil && req.Answer == nil {
		return nil, fmt.Errorf("%w: at least one field must be provided", domain.ErrValidation)
	}

	card, err := s.getWithAccess(ctx, userID, cardID, models.AccessEdit)
	if err != nil {
		return nil, err
	}

	if req.Question != nil {
		q := strings.TrimSpace(*req.Question)
		if q == "" {
			return nil, fmt.Errorf("question cannot be empty: %w", domain.ErrValidation)
		}
		card.Question = q
	}
	if req.Answer != nil {
		a := strings.TrimSpace(*req.Answer)
		if a == "" {
			return nil, fmt.Errorf("answer cannot be empty: %w", domain.ErrValidation)
		}
		card.Answer = a
	}

	card.UpdatedAt = time.Now()
	if err := s.cardRepo.Update(ctx, card); err != nil {
		return nil, err
	}

	return card, nil
}

// DeleteFlashcard deletes a card
func (s *flashcardService) DeleteFlashcard(ctx context.Context, userID, cardID string) error {
	card, err := s.getWithAccess(ctx, userID, cardID, models.AccessEdit)
	if err != nil {
		return err
	}

	if err := s.cardRepo.Delete(ctx, card.ID); err != nil {
		return err
	}

	s.logger.Info("flashcard deleted", "id", card.ID, "user_id", userID)
	return nil
}

// ListFlashcards lists all cards on a page the user can view
func (s *flashcardService) ListFlashcards(ctx context.Context, userID, pageID string) ([]models.Flashcard, error) {
	if _, err := s.access.Require(ctx, userID, pageID, models.AccessView); err != nil {
		return nil, err
	}
	return s.cardRepo.ListByPage(ctx, pageID)
}

// ReviewFlashcard records one review. The next interval and mastery
// delta come from the scheduling policy; the card state and review
// count change in one statement.
func (s *flashcardService) ReviewFlashcard(ctx context.Context, userID, cardID string, rating srs.Rating, now time.Time) (*models.Flashcard, error) {
	if !rating.Valid() {
		return nil, fmt.Errorf("rating must be easy, medium or hard: %w", domain.ErrValidation)
	}

	card, err := s.getWithAccess(ctx, userID, cardID, models.AccessView)
	if err != nil {
		return nil, err
	}

	result, err := s.policy.Schedule(rating, card.MasteryScore, now)
	if err != nil {
		return nil, err
	}

	updated, err := s.cardRepo.ApplyReview(ctx, &repositories.ReviewUpdate{
		FlashcardID:    card.ID,
		LastReviewedAt: now,
		NextReviewAt:   result.NextReviewAt,
		MasteryScore:   result.MasteryScore,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("flashcard reviewed",
		"id", card.ID,
		"user_id", userID,
		"rating", rating,
		"mastery", updated.MasteryScore,
		"next_review_at", updated.NextReviewAt,
	)

	return updated, nil
}

// ListDue returns cards due for review on pages visible to the user
func (s *flashcardService) ListDue(ctx context.Context, userID string, now time.Time, limit int) ([]models.Flashcard, error) {
	if limit <= 0 {
		limit = config.DefaultDueListLimit
	}
	if limit > config.MaxDueListLimit {
		return nil, fmt.Errorf("limit must be at most %d: %w", config.MaxDueListLimit, domain.ErrValidation)
	}
	return s.cardRepo.ListDue(ctx, userID, now, limit)
}

// getWithAccess loads a card and gates it on the owning page's access
// level. A card on an invisible page is indistinguishable from a
// missing card.
func (s *flashcardService) getWithAccess(ctx context.Context, userID, cardID string, min models.AccessLevel) (*models.Flashcard, error) {
	card, err := s.cardRepo.GetByID(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if _, err := s.access.Require(ctx, userID, card.PageID, min); err != nil {
		return nil, err
	}
	return card, nil
}
