package services

import (
	"context"

	"recall/internal/domain/models"
)

// SearchService runs ranked page search over a user's accessible pages
type SearchService interface {
	// SearchPages matches the query against title and content of owned
	// plus shared pages, ranked title-first.
	SearchPages(ctx context.Context, opts *models.SearchOptions) (*models.SearchResults, error)
}
