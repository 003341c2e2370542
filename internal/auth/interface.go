package auth

import "recall/internal/domain/models"

// TokenVerifier validates identity-provider tokens. The core trusts the
// verified subject as the authenticated user ID and performs no
// credential checks of its own.
type TokenVerifier interface {
	// VerifyToken validates a JWT token string and returns the parsed
	// claims. Returns an error if the token is invalid, expired, or has
	// an invalid signature.
	VerifyToken(tokenString string) (*models.IdentityClaims, error)

	// Close releases any resources held by the verifier.
	Close() error
}
