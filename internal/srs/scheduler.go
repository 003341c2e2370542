// Package srs computes spaced-repetition schedules for flashcards.
// Scheduling is a pure function of (rating, current mastery, now); the
// caller persists the result together with the review-count increment.
package srs

import (
	"fmt"
	"time"
)

// Rating is the user's self-assessment of one review.
type Rating string

const (
	RatingEasy   Rating = "easy"
	RatingMedium Rating = "medium"
	RatingHard   Rating = "hard"
)

// Valid reports whether r is a known review rating.
func (r Rating) Valid() bool {
	switch r {
	case RatingEasy, RatingMedium, RatingHard:
		return true
	}
	return false
}

// Result is the outcome of scheduling one review.
type Result struct {
	NextReviewAt time.Time
	MasteryScore int
}

// Schedule computes the next review time and updated mastery score.
// Easy reviews on cards at or above the doubling threshold get twice
// the base interval. Mastery is clamped to [MasteryMin, MasteryMax].
func (p *Policy) Schedule(rating Rating, mastery int, now time.Time) (Result, error) {
	rp, ok := p.ratings[rating]
	if !ok {
		return Result{}, fmt.Errorf("unknown rating %q", rating)
	}

	days := rp.IntervalDays
	if rating == RatingEasy && mastery >= p.easyDoublingThreshold {
		days *= 2
	}

	return Result{
		NextReviewAt: now.Add(time.Duration(days) * 24 * time.Hour),
		MasteryScore: clamp(mastery+rp.MasteryDelta, MasteryMin, MasteryMax),
	}, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
