package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"recall/internal/auth"
	"recall/internal/domain/services"
	"recall/internal/httputil"
)

// Auth middleware verifies the Bearer token, provisions the user row
// from its claims, and stores the user ID in the request context.
// Requests without a valid token never reach the handlers.
func Auth(verifier auth.TokenVerifier, users services.UserService, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/health" {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := bearerToken(r)
			if !ok {
				httputil.RespondError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				logger.Debug("token rejected", "error", err, "path", r.URL.Path)
				httputil.RespondError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			user, err := users.EnsureUser(r.Context(), claims.GetUserID(), claims.Email, claims.Name)
			if err != nil {
				logger.Error("user provisioning failed", "error", err, "user_id", claims.GetUserID())
				httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
				return
			}

			next.ServeHTTP(w, httputil.WithUserID(r, user.ID))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", false
	}
	return token, true
}
