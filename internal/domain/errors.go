package domain

import "errors"

// Sentinel errors for the core domain - match with errors.Is().
// Services wrap these with fmt.Errorf("context: %w", Err...) so callers
// keep the category while logs keep the detail.
var (
	// ErrNotFound covers both "resource absent" and "caller has no
	// visibility". Read paths deliberately return it instead of
	// ErrForbidden so non-participants cannot probe for existence.
	ErrNotFound = errors.New("not found")

	// ErrForbidden means the resource is visible to the caller but the
	// operation needs a higher permission level.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation covers invalid input: empty title, self-parent,
	// self-share, unknown review rating, out-of-range pagination.
	ErrValidation = errors.New("validation failed")

	// ErrConflict covers structural violations: a reparent that would
	// create a cycle, or an ancestor chain deeper than the depth ceiling.
	ErrConflict = errors.New("conflict")

	// ErrUnauthorized indicates a missing or invalid identity token.
	ErrUnauthorized = errors.New("unauthorized")
)
