package srs

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed config/policy.yaml
var configFiles embed.FS

// Mastery score bounds. Every schedule update clamps into this range.
const (
	MasteryMin = 0
	MasteryMax = 100
)

// ratingPolicy is one row of the policy table.
type ratingPolicy struct {
	IntervalDays int `yaml:"interval_days"`
	MasteryDelta int `yaml:"mastery_delta"`
}

// Policy holds the scheduling policy table loaded from the embedded
// YAML file. It is immutable after load.
type Policy struct {
	ratings               map[Rating]ratingPolicy
	easyDoublingThreshold int
}

type policyFile struct {
	Ratings               map[string]ratingPolicy `yaml:"ratings"`
	EasyDoublingThreshold int                     `yaml:"easy_doubling_threshold"`
}

// LoadPolicy reads and validates the embedded scheduling policy.
func LoadPolicy() (*Policy, error) {
	data, err := configFiles.ReadFile("config/policy.yaml")
	if err != nil {
		return nil, fmt.Errorf("read policy file: %w", err)
	}

	var file policyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("unmarshal policy file: %w", err)
	}

	p := &Policy{
		ratings:               make(map[Rating]ratingPolicy, len(file.Ratings)),
		easyDoublingThreshold: file.EasyDoublingThreshold,
	}

	for name, rp := range file.Ratings {
		rating := Rating(name)
		if !rating.Valid() {
			return nil, fmt.Errorf("unknown rating %q in policy file", name)
		}
		if rp.IntervalDays <= 0 {
			return nil, fmt.Errorf("rating %q: interval must be positive, got %d", name, rp.IntervalDays)
		}
		p.ratings[rating] = rp
	}

	for _, rating := range []Rating{RatingEasy, RatingMedium, RatingHard} {
		if _, ok := p.ratings[rating]; !ok {
			return nil, fmt.Errorf("policy file missing rating %q", rating)
		}
	}

	return p, nil
}
