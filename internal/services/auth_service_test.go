package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"skofie/internal/config"
	"skofie/internal/events"
	"skofie/internal/models"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func newAuthFixture(users *fakeUserRepo) (*fakeEventBus, AuthService) {
	bus := &fakeEventBus{}
	cfg := &config.AuthConfig{
		JWTSecret:  "test-secret",
		JWTExpiry:  time.Hour,
		BCryptCost: bcrypt.MinCost,
	}
	svc := NewAuthService(users, &fakeBadgeRepo{}, newFakeCache(), bus, cfg, zap.NewNop())
	return bus, svc
}

func TestRegisterSuccess(t *testing.T) {
	var created *models.User
	users := &fakeUserRepo{
		createFn: func(ctx context.Context, user *models.User) error {
			user.CreatedAt = time.Now()
			created = user
			return nil
		},
	}
	bus, svc := newAuthFixture(users)

	resp, err := svc.Register(context.Background(), &RegisterRequest{
		Email:    "Budi@Example.com",
		Password: "secret123",
		FullName: "Budi Santoso",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, models.RoleUser, resp.User.Role)
	assert.Equal(t, "budi@example.com", created.Email)
	assert.NotEqual(t, "secret123", created.PasswordHash)
	assert.Len(t, bus.published(events.EventUserRegistered), 1)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users := &fakeUserRepo{
		createFn: func(ctx context.Context, user *models.User) error {
			return &pq.Error{Code: "23505", Constraint: "users_email_key"}
		},
	}
	_, svc := newAuthFixture(users)

	_, err := svc.Register(context.Background(), &RegisterRequest{
		Email:    "budi@example.com",
		Password: "secret123",
		FullName: "Budi Santoso",
	})

	require.Error(t, err)
	assert.True(t, IsConflictError(err))
	assert.Equal(t, "EMAIL_TAKEN", GetServiceError(err).Code)
}

func TestRegisterPasswordLength(t *testing.T) {
	users := &fakeUserRepo{
		createFn: func(ctx context.Context, user *models.User) error { return nil },
	}
	_, svc := newAuthFixture(users)

	_, err := svc.Register(context.Background(), &RegisterRequest{
		Email:    "budi@example.com",
		Password: "12345",
		FullName: "Budi Santoso",
	})
	require.Error(t, err)
	assert.True(t, IsValidationError(err))

	_, err = svc.Register(context.Background(), &RegisterRequest{
		Email:    "budi@example.com",
		Password: "123456",
		FullName: "Budi Santoso",
	})
	assert.NoError(t, err)
}

func TestLoginWrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.MinCost)
	require.NoError(t, err)

	users := &fakeUserRepo{
		getByEmailFn: func(ctx context.Context, email string) (*models.User, error) {
			return &models.User{ID: "user-1", Email: email, PasswordHash: string(hash)}, nil
		},
	}
	_, svc := newAuthFixture(users)

	_, err = svc.Login(context.Background(), &LoginRequest{
		Email:    "budi@example.com",
		Password: "wrong-password",
	})

	require.Error(t, err)
	assert.True(t, IsUnauthorizedError(err))
}

func TestLoginUnknownEmail(t *testing.T) {
	users := &fakeUserRepo{
		getByEmailFn: func(ctx context.Context, email string) (*models.User, error) {
			return nil, sql.ErrNoRows
		},
	}
	_, svc := newAuthFixture(users)

	_, err := svc.Login(context.Background(), &LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})

	require.Error(t, err)
	assert.True(t, IsUnauthorizedError(err))
}

func TestTokenRoundTrip(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{ID: "user-1", Email: "budi@example.com", PasswordHash: string(hash), Role: models.RoleUser}
	users := &fakeUserRepo{
		getByEmailFn: func(ctx context.Context, email string) (*models.User, error) { return user, nil },
		getByIDFn: func(ctx context.Context, id string) (*models.User, error) {
			if id == user.ID {
				return user, nil
			}
			return nil, sql.ErrNoRows
		},
	}
	_, svc := newAuthFixture(users)

	resp, err := svc.Login(context.Background(), &LoginRequest{
		Email:    "budi@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	validated, err := svc.ValidateToken(context.Background(), resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", validated.ID)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	users := &fakeUserRepo{}
	_, svc := newAuthFixture(users)

	_, err := svc.ValidateToken(context.Background(), "not-a-token")

	require.Error(t, err)
	assert.True(t, IsUnauthorizedError(err))
}

func TestCurrentUserUsesCache(t *testing.T) {
	calls := 0
	users := &fakeUserRepo{
		getByIDFn: func(ctx context.Context, id string) (*models.User, error) {
			calls++
			return &models.User{ID: id, Email: "budi@example.com"}, nil
		},
	}
	_, svc := newAuthFixture(users)

	_, err := svc.CurrentUser(context.Background(), "user-1")
	require.NoError(t, err)
	_, err = svc.CurrentUser(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
}
