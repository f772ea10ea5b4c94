package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/suar-net/relay/internal/model"
	"github.com/suar-net/relay/internal/service"
)

type contextKey string

const userContextKey = contextKey("user")

type AuthMiddleware struct {
	authService service.IAuthService
	logger      zerolog.Logger
}

func NewAuthMiddleware(s service.IAuthService, l zerolog.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		authService: s,
		logger:      l,
	}
}

// Authenticate rejects requests without a valid bearer token and stores
// the token claims in the request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			respondWithError(w, http.StatusUnauthorized, "Authorization header is required")
			return
		}

		headerParts := strings.Split(authHeader, " ")
		if len(headerParts) != 2 || headerParts[0] != "Bearer" {
			respondWithError(w, http.StatusUnauthorized, "Authorization header format must be Bearer {token}")
			return
		}

		claims, err := m.authService.ValidateToken(r.Context(), headerParts[1])
		if err != nil {
			if errors.Is(err, service.ErrTokenExpired) {
				respondWithError(w, http.StatusUnauthorized, "Token has expired")
			} else {
				respondWithError(w, http.StatusUnauthorized, "Invalid token")
			}
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserFromContext retrieves the authenticated user's claims, if any.
func GetUserFromContext(ctx context.Context) (*model.Claims, bool) {
	claims, ok := ctx.Value(userContextKey).(*model.Claims)
	return claims, ok
}
