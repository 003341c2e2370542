package models

import (
	"time"
)

// Flashcard is a spaced-repetition unit bound to exactly one page.
// Its UserID always equals the owning page's UserID. There is a single
// schedule per card: shared users reviewing a card mutate the same
// schedule the owner sees.
type Flashcard struct {
	ID             string     `json:"id" db:"id"`
	PageID         string     `json:"page_id" db:"page_id"`
	UserID         string     `json:"user_id" db:"user_id"`
	Question       string     `json:"question" db:"question"`
	Answer         string     `json:"answer" db:"answer"`
	LastReviewedAt *time.Time `json:"last_reviewed_at" db:"last_reviewed_at"`
	NextReviewAt   time.Time  `json:"next_review_at" db:"next_review_at"`
	ReviewCount    int        `json:"review_count" db:"review_count"`
	MasteryScore   int        `json:"mastery_score" db:"mastery_score"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}

// Due reports whether the card's next scheduled review has passed.
func (f *Flashcard) Due(now time.Time) bool {
	return !f.NextReviewAt.After(now)
}
