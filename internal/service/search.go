package service

import (
	"context"
	"fmt"
	"log/slog"

	"recall/internal/domain"
	"recall/internal/domain/models"
	"recall/internal/domain/repositories"
	"recall/internal/domain/services"
)

type searchService struct {
	pageRepo repositories.PageRepository
	logger   *slog.Logger
}

// NewSearchService creates a new search service
func NewSearchService(pageRepo repositories.PageRepository, logger *slog.Logger) services.SearchService {
	return &searchService{pageRepo: pageRepo, logger: logger}
}

// SearchPages runs the ranked substring search over the user's
// accessible pages
func (s *searchService) SearchPages(ctx context.Context, opts *models.SearchOptions) (*models.SearchResults, error) {
	opts.ApplyDefaults()
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	pages, err := s.pageRepo.Search(ctx, opts)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("search executed",
		"user_id", opts.UserID,
		"query", opts.Query,
		"results", len(pages),
	)

	return &models.SearchResults{
		Results: pages,
		Limit:   opts.Limit,
		Offset:  opts.Offset,
	}, nil
}
