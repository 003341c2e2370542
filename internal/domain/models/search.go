package models

import (
	"fmt"
)

// Default search configuration values
const (
	DefaultSearchLimit  = 20
	MaxSearchLimit      = 100
	DefaultSearchOffset = 0
)

// SearchOptions configures a page search for one user.
// The candidate set is always pages owned by or shared with that user;
// matching and ranking never reach outside it.
type SearchOptions struct {
	// UserID scopes the candidate set (required).
	UserID string

	// Query is matched case-insensitively as a substring of title or
	// content. Empty query returns every accessible page in the
	// alphabetical fallback order.
	Query string

	// Pagination, applied after ordering.
	Limit  int
	Offset int
}

// ApplyDefaults fills in default values for unset fields.
func (opts *SearchOptions) ApplyDefaults() {
	if opts.Limit <= 0 {
		opts.Limit = DefaultSearchLimit
	}
	if opts.Offset < 0 {
		opts.Offset = DefaultSearchOffset
	}
}

// Validate checks that required fields are set and values are reasonable.
func (opts *SearchOptions) Validate() error {
	if opts.UserID == "" {
		return fmt.Errorf("search user cannot be empty")
	}
	if opts.Limit < 0 {
		return fmt.Errorf("limit cannot be negative")
	}
	if opts.Limit > MaxSearchLimit {
		return fmt.Errorf("limit cannot exceed %d (requested: %d)", MaxSearchLimit, opts.Limit)
	}
	if opts.Offset < 0 {
		return fmt.Errorf("offset cannot be negative")
	}
	return nil
}

// Rank classes, ascending. Content-only matches satisfy the match
// predicate but fail both title rules, so they always sort last.
const (
	RankTitleExact    = 0
	RankTitleContains = 1
	RankContentOnly   = 2
)

// RankedPage is a single search hit: the page, how the searching user
// can access it, and the rank class it matched at.
type RankedPage struct {
	Page       Page        `json:"page"`
	AccessType AccessLevel `json:"access_type"`
	Permission *Permission `json:"permission,omitempty"`
	Rank       int         `json:"rank"`
}

// SearchResults is the paged search response.
type SearchResults struct {
	Results []RankedPage `json:"results"`
	Limit   int          `json:"limit"`
	Offset  int          `json:"offset"`
}
