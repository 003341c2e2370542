package config

const (
	// MaxTitleLength is the maximum length for page titles.
	// Limited to 500 to fit in PostgreSQL VARCHAR(500).
	MaxTitleLength = 500

	// MaxPageDepth is the ceiling on the length of any page's ancestor
	// chain. The reparent walk rejects beyond this as corrupt rather
	// than looping; a well-formed tree never gets close.
	MaxPageDepth = 100

	// MaxDueListLimit caps how many due flashcards one request returns.
	MaxDueListLimit = 100

	// DefaultDueListLimit is used when the caller does not ask for a
	// specific number of due cards.
	DefaultDueListLimit = 20

	// MaxRequestBodyBytes caps JSON request bodies.
	MaxRequestBodyBytes = 1 << 20
)
