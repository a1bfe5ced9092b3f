package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"skofie/internal/cache"
	"skofie/internal/config"
	"skofie/internal/events"
	"skofie/internal/models"
	"skofie/internal/repositories"
	"skofie/internal/validation"

	"github.com/gofrs/uuid"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// authService implements AuthService with bcrypt passwords and HS256 tokens.
type authService struct {
	users  repositories.UserRepository
	badges repositories.BadgeRepository
	cache  cache.Cache
	bus    events.EventBus
	cfg    *config.AuthConfig
	logger *zap.Logger
}

// NewAuthService creates the auth service
func NewAuthService(
	users repositories.UserRepository,
	badges repositories.BadgeRepository,
	cacheLayer cache.Cache,
	bus events.EventBus,
	cfg *config.AuthConfig,
	logger *zap.Logger,
) AuthService {
	return &authService{
		users:  users,
		badges: badges,
		cache:  cacheLayer,
		bus:    bus,
		cfg:    cfg,
		logger: logger,
	}
}

// Register creates a new account and returns a fresh session.
func (s *authService) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	if err := validation.ValidateStruct(req); err != nil {
		serviceErr := NewValidationError("invalid registration data", err)
		if fields := validation.FieldErrors(err); fields != nil {
			serviceErr.WithDetails(map[string]interface{}{"fields": fields})
		}
		return nil, serviceErr
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cfg.BCryptCost)
	if err != nil {
		s.logger.Error("failed to hash password", zap.Error(err))
		return nil, NewInternalError("failed to process registration")
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, NewInternalError("failed to generate user id")
	}

	user := &models.User{
		ID:           id.String(),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hash),
		FullName:     req.FullName,
		Role:         models.RoleUser,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if repositories.IsDuplicateEmail(err) {
			return nil, NewConflictError("email already registered", "EMAIL_TAKEN")
		}
		s.logger.Error("failed to create user", zap.Error(err))
		return nil, NewInternalError("failed to create account")
	}

	user.EnrolledCourses = []string{}
	user.Badges = []string{}

	token, err := s.issueToken(user)
	if err != nil {
		s.logger.Error("failed to issue token", zap.Error(err), zap.String("user_id", user.ID))
		return nil, NewInternalError("failed to create session")
	}

	if err := s.bus.Publish(ctx, events.NewUserRegisteredEvent(user.ID, user.Email)); err != nil {
		s.logger.Warn("failed to publish registration event", zap.Error(err))
	}

	s.logger.Info("user registered",
		zap.String("user_id", user.ID),
		zap.String("email", user.Email),
	)

	return &AuthResponse{Token: token, TokenType: "bearer", User: user}, nil
}

// Login verifies credentials and returns a fresh session. Unknown email and
// wrong password produce the same error.
func (s *authService) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("invalid login data", err)
	}

	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewUnauthorizedError("invalid credentials")
		}
		s.logger.Error("failed to load user", zap.Error(err))
		return nil, NewInternalError("failed to process login")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, NewUnauthorizedError("invalid credentials")
	}

	if err := s.hydrateUser(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.issueToken(user)
	if err != nil {
		s.logger.Error("failed to issue token", zap.Error(err), zap.String("user_id", user.ID))
		return nil, NewInternalError("failed to create session")
	}

	return &AuthResponse{Token: token, TokenType: "bearer", User: user}, nil
}

// ValidateToken parses and verifies a bearer token and loads its user.
func (s *authService) ValidateToken(ctx context.Context, tokenString string) (*models.User, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, NewUnauthorizedError("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, NewUnauthorizedError("invalid token claims")
	}

	userID, err := claims.GetSubject()
	if err != nil || userID == "" {
		return nil, NewUnauthorizedError("invalid token subject")
	}

	return s.CurrentUser(ctx, userID)
}

// CurrentUser loads a user with enrollments and badges, via the cache.
func (s *authService) CurrentUser(ctx context.Context, userID string) (*models.User, error) {
	cacheKey := "user:" + userID
	if data, found := s.cache.Get(ctx, cacheKey); found {
		var user models.User
		if err := cache.Unmarshal(data, &user); err == nil {
			return &user, nil
		}
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewUnauthorizedError("account no longer exists")
		}
		s.logger.Error("failed to load user", zap.Error(err), zap.String("user_id", userID))
		return nil, NewInternalError("failed to load account")
	}

	if err := s.hydrateUser(ctx, user); err != nil {
		return nil, err
	}

	if data, err := cache.Marshal(user); err == nil {
		_ = s.cache.Set(ctx, cacheKey, data, time.Minute)
	}

	return user, nil
}

func (s *authService) hydrateUser(ctx context.Context, user *models.User) error {
	enrolled, err := s.users.GetEnrolledCourseIDs(ctx, user.ID)
	if err != nil {
		s.logger.Error("failed to load enrollments", zap.Error(err), zap.String("user_id", user.ID))
		return NewInternalError("failed to load account")
	}
	user.EnrolledCourses = enrolled

	badgeIDs, err := s.badges.ListIDsByUser(ctx, user.ID)
	if err != nil {
		s.logger.Error("failed to load badges", zap.Error(err), zap.String("user_id", user.ID))
		return NewInternalError("failed to load account")
	}
	user.Badges = badgeIDs

	return nil
}

func (s *authService) issueToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": user.ID,
		"iat": now.Unix(),
		"exp": now.Add(s.cfg.JWTExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}
