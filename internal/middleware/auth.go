// file: internal/middleware/auth.go
package middleware

import (
	"context"
	"net/http"
	"strings"

	"skofie/internal/contextutils"
	"skofie/internal/models"
	"skofie/internal/response"
	"skofie/internal/services"

	"go.uber.org/zap"
)

const currentUserKey ContextKey = "current_user"

// AuthMiddleware validates bearer tokens and enforces role requirements
type AuthMiddleware struct {
	auth   services.AuthService
	logger *zap.Logger
}

// NewAuthMiddleware creates the auth middleware
func NewAuthMiddleware(auth services.AuthService, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		auth:   auth,
		logger: logger,
	}
}

// RequireAuth rejects requests without a valid bearer token and injects the
// authenticated user into the request context.
func (m *AuthMiddleware) RequireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				response.QuickError(w, r, services.NewUnauthorizedError("missing bearer token"))
				return
			}

			user, err := m.auth.ValidateToken(r.Context(), token)
			if err != nil {
				response.QuickError(w, r, err)
				return
			}

			ctx := contextutils.WithUserID(r.Context(), user.ID)
			ctx = contextutils.WithUserRole(ctx, user.Role)
			ctx = context.WithValue(ctx, currentUserKey, user)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole layers a role check on top of RequireAuth.
func (m *AuthMiddleware) RequireRole(role string) func(http.Handler) http.Handler {
	requireAuth := m.RequireAuth()
	return func(next http.Handler) http.Handler {
		return requireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if contextutils.GetUserRole(r.Context()) != role {
				m.logger.Warn("role check failed",
					zap.String("user_id", contextutils.GetUserID(r.Context())),
					zap.String("required_role", role),
				)
				response.QuickError(w, r, services.NewForbiddenError("insufficient permissions"))
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}

// GetCurrentUser returns the authenticated user injected by RequireAuth.
func GetCurrentUser(ctx context.Context) *models.User {
	if user, ok := ctx.Value(currentUserKey).(*models.User); ok {
		return user
	}
	return nil
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}

	return parts[1], true
}
