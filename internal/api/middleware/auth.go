package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	"github.com/clemtodo/reminder-api/internal/api/shared"
	"github.com/clemtodo/reminder-api/internal/platform/logger"
)

// AuthMiddleware gates requests behind the single pre-shared bearer
// token. There are no users or sessions; one token guards the whole
// API surface.
type AuthMiddleware struct {
	token  string
	logger *slog.Logger
}

// NewAuthMiddleware creates an AuthMiddleware checking against the
// given token.
func NewAuthMiddleware(token string, log *slog.Logger) *AuthMiddleware {
	if token == "" {
		panic("auth token cannot be empty")
	}
	if log == nil {
		log = slog.Default()
	}

	return &AuthMiddleware{
		token:  token,
		logger: log.With(slog.String("component", "auth_middleware")),
	}
}

// Authenticate verifies the Authorization header carries the configured
// bearer token. The comparison is constant-time so the token cannot be
// probed byte by byte.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContextOrDefault(r.Context(), m.logger)

		header := r.Header.Get("Authorization")
		if header == "" {
			log.Debug("missing authorization header",
				slog.String("path", r.URL.Path))
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Authorization header required")
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			log.Debug("malformed authorization header",
				slog.String("path", r.URL.Path))
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid authorization header format")
			return
		}

		if subtle.ConstantTimeCompare([]byte(parts[1]), []byte(m.token)) != 1 {
			log.Warn("invalid API token",
				slog.String("path", r.URL.Path),
				slog.String("remote_addr", r.RemoteAddr))
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid API token")
			return
		}

		next.ServeHTTP(w, r)
	})
}
