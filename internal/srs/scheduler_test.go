package srs

import (
	"testing"
	"time"
)

func mustPolicy(t *testing.T) *Policy {
	t.Helper()
	p, err := LoadPolicy()
	if err != nil {
		t.Fatalf("load policy: %v", err)
	}
	return p
}

func TestSchedule_PolicyTable(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	policy := mustPolicy(t)

	tests := []struct {
		name        string
		rating      Rating
		mastery     int
		wantNext    time.Time
		wantMastery int
	}{
		{
			name:        "easy adds 7 days and +10 mastery",
			rating:      RatingEasy,
			mastery:     50,
			wantNext:    now.AddDate(0, 0, 7),
			wantMastery: 60,
		},
		{
			name:        "medium adds 4 days and +5 mastery",
			rating:      RatingMedium,
			mastery:     50,
			wantNext:    now.AddDate(0, 0, 4),
			wantMastery: 55,
		},
		{
			name:        "hard adds 2 days and -15 mastery",
			rating:      RatingHard,
			mastery:     50,
			wantNext:    now.AddDate(0, 0, 2),
			wantMastery: 35,
		},
		{
			name:        "easy at mastery 85 doubles to 14 days",
			rating:      RatingEasy,
			mastery:     85,
			wantNext:    time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			wantMastery: 95,
		},
		{
			name:        "easy at threshold boundary doubles",
			rating:      RatingEasy,
			mastery:     80,
			wantNext:    now.AddDate(0, 0, 14),
			wantMastery: 90,
		},
		{
			name:        "easy just under threshold does not double",
			rating:      RatingEasy,
			mastery:     79,
			wantNext:    now.AddDate(0, 0, 7),
			wantMastery: 89,
		},
		{
			name:        "medium at high mastery never doubles",
			rating:      RatingMedium,
			mastery:     95,
			wantNext:    now.AddDate(0, 0, 4),
			wantMastery: 100,
		},
		{
			name:        "hard at mastery 5 clamps to 0",
			rating:      RatingHard,
			mastery:     5,
			wantNext:    now.AddDate(0, 0, 2),
			wantMastery: 0,
		},
		{
			name:        "easy at mastery 95 clamps to 100",
			rating:      RatingEasy,
			mastery:     95,
			wantNext:    now.AddDate(0, 0, 14),
			wantMastery: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := policy.Schedule(tt.rating, tt.mastery, now)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.NextReviewAt.Equal(tt.wantNext) {
				t.Errorf("NextReviewAt = %v, want %v", got.NextReviewAt, tt.wantNext)
			}
			if got.MasteryScore != tt.wantMastery {
				t.Errorf("MasteryScore = %d, want %d", got.MasteryScore, tt.wantMastery)
			}
		})
	}
}

func TestSchedule_UnknownRating(t *testing.T) {
	policy := mustPolicy(t)

	if _, err := policy.Schedule(Rating("impossible"), 50, time.Now()); err == nil {
		t.Fatal("expected error for unknown rating")
	}
}

func TestRatingValid(t *testing.T) {
	for _, r := range []Rating{RatingEasy, RatingMedium, RatingHard} {
		if !r.Valid() {
			t.Errorf("rating %q should be valid", r)
		}
	}
	for _, r := range []Rating{"", "EASY", "medium ", "trivial"} {
		if r.Valid() {
			t.Errorf("rating %q should be invalid", r)
		}
	}
}
