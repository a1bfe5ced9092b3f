package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"skofie/internal/contextutils"
	"skofie/internal/models"
	"skofie/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubAuthService struct {
	user *models.User
	err  error
}

func (s *stubAuthService) Register(ctx context.Context, req *services.RegisterRequest) (*services.AuthResponse, error) {
	return nil, nil
}

func (s *stubAuthService) Login(ctx context.Context, req *services.LoginRequest) (*services.AuthResponse, error) {
	return nil, nil
}

func (s *stubAuthService) ValidateToken(ctx context.Context, token string) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

func (s *stubAuthService) CurrentUser(ctx context.Context, userID string) (*models.User, error) {
	return s.user, nil
}

func TestRequireAuthRejectsMissingToken(t *testing.T) {
	m := NewAuthMiddleware(&stubAuthService{}, zap.NewNop())
	handler := m.RequireAuth()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/user/dashboard", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuthRejectsInvalidToken(t *testing.T) {
	m := NewAuthMiddleware(&stubAuthService{err: services.NewUnauthorizedError("invalid or expired token")}, zap.NewNop())
	handler := m.RequireAuth()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/user/dashboard", nil)
	req.Header.Set("Authorization", "Bearer bogus")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuthInjectsUser(t *testing.T) {
	user := &models.User{ID: "user-1", Role: models.RoleUser}
	m := NewAuthMiddleware(&stubAuthService{user: user}, zap.NewNop())

	var gotID, gotRole string
	var gotUser *models.User
	handler := m.RequireAuth()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = contextutils.GetUserID(r.Context())
		gotRole = contextutils.GetUserRole(r.Context())
		gotUser = GetCurrentUser(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/user/dashboard", nil)
	req.Header.Set("Authorization", "Bearer valid-token")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", gotID)
	assert.Equal(t, models.RoleUser, gotRole)
	require.NotNil(t, gotUser)
	assert.Equal(t, "user-1", gotUser.ID)
}

func TestRequireRoleForbidsNonAdmin(t *testing.T) {
	user := &models.User{ID: "user-1", Role: models.RoleUser}
	m := NewAuthMiddleware(&stubAuthService{user: user}, zap.NewNop())

	handler := m.RequireRole(models.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/courses", nil)
	req.Header.Set("Authorization", "Bearer valid-token")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRoleAllowsAdmin(t *testing.T) {
	user := &models.User{ID: "admin-1", Role: models.RoleAdmin}
	m := NewAuthMiddleware(&stubAuthService{user: user}, zap.NewNop())

	called := false
	handler := m.RequireRole(models.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/courses", nil)
	req.Header.Set("Authorization", "Bearer valid-token")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.True(t, called)
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc123", "abc123", true},
		{"bearer abc123", "abc123", true},
		{"Basic abc123", "", false},
		{"Bearer", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.header != "" {
			r.Header.Set("Authorization", tt.header)
		}
		token, ok := bearerToken(r)
		assert.Equal(t, tt.ok, ok, tt.header)
		assert.Equal(t, tt.token, token, tt.header)
	}
}
