package http

import (
	"context"
	"net/http"
	"strings"

	"officetrack-backend/internal/domain"
	"officetrack-backend/internal/repository"
	"officetrack-backend/internal/security"
)

type contextKey string

const actorKey contextKey = "actor"

// AuthMiddleware validates bearer tokens and resolves the calling user
// into the request context. The user row is loaded on every request so
// suspensions take effect immediately, not at token expiry.
type AuthMiddleware struct {
	tokenManager security.TokenManager
	users        repository.UserRepository
}

func NewAuthMiddleware(tm security.TokenManager, users repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{tokenManager: tm, users: users}
}

// Require wraps a handler so it only runs for authenticated active users
func (m *AuthMiddleware) Require(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := extractToken(r)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authorization token is not provided"})
			return
		}

		claims, err := m.tokenManager.ValidateToken(token)
		if err != nil {
			writeError(w, err)
			return
		}
		if claims.Type != security.TokenTypeAccess {
			writeError(w, security.ErrWrongTokenType)
			return
		}

		actor, err := m.users.GetByID(r.Context(), claims.UserID)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unknown user"})
			return
		}
		if actor.Status != domain.UserStatusActive {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "account is not active"})
			return
		}

		next(w, r.WithContext(context.WithValue(r.Context(), actorKey, actor)))
	}
}

// extractToken pulls the bearer token from the Authorization header
func extractToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	token := strings.TrimPrefix(header, "Bearer ")
	token = strings.TrimPrefix(token, "bearer ")
	return token, token != ""
}

// actorFrom returns the authenticated user resolved by the middleware.
// Only valid inside handlers wrapped with Require.
func actorFrom(r *http.Request) *domain.User {
	actor, _ := r.Context().Value(actorKey).(*domain.User)
	return actor
}
