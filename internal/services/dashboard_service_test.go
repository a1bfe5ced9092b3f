package services

import (
	"context"
	"testing"
	"time"

	"skofie/internal/config"
	"skofie/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func TestGetDashboardAggregates(t *testing.T) {
	user := &models.User{ID: "user-1", Email: "budi@example.com", FullName: "Budi Santoso"}
	users := &fakeUserRepo{
		getByIDFn: func(ctx context.Context, id string) (*models.User, error) { return user, nil },
		enrolledFn: func(ctx context.Context, userID string) ([]string, error) {
			return []string{"course-1", "course-2"}, nil
		},
	}
	badges := &fakeBadgeRepo{awarded: []string{models.BadgeFirstCourse}}
	cfg := &config.AuthConfig{JWTSecret: "test-secret", JWTExpiry: time.Hour, BCryptCost: bcrypt.MinCost}
	auth := NewAuthService(users, badges, newFakeCache(), &fakeEventBus{}, cfg, zap.NewNop())

	courses := &fakeCourseRepo{
		listByIDsFn: func(ctx context.Context, ids []string) ([]models.Course, error) {
			out := make([]models.Course, 0, len(ids))
			for _, id := range ids {
				out = append(out, models.Course{ID: id})
			}
			return out, nil
		},
	}
	payments := &fakePaymentRepo{
		listByUserFn: func(ctx context.Context, userID string) ([]models.Payment, error) {
			return []models.Payment{
				{ID: "p2", Amount: 299000},
				{ID: "p1", Amount: 199000},
			}, nil
		},
	}

	svc := NewDashboardService(auth, courses, payments, zap.NewNop())

	dash, err := svc.GetDashboard(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Equal(t, "user-1", dash.User.ID)
	assert.Len(t, dash.EnrolledCourses, 2)
	assert.Len(t, dash.PaymentHistory, 2)
	assert.Equal(t, int64(498000), dash.TotalSpent)
	require.Len(t, dash.Badges, 1)
	assert.Equal(t, models.BadgeFirstCourse, dash.Badges[0].ID)
	assert.Equal(t, "🎓", dash.Badges[0].Icon)
}

func TestGetDashboardEmptyAccount(t *testing.T) {
	user := &models.User{ID: "user-2", Email: "ani@example.com"}
	users := &fakeUserRepo{
		getByIDFn: func(ctx context.Context, id string) (*models.User, error) { return user, nil },
	}
	cfg := &config.AuthConfig{JWTSecret: "test-secret", JWTExpiry: time.Hour, BCryptCost: bcrypt.MinCost}
	auth := NewAuthService(users, &fakeBadgeRepo{}, newFakeCache(), &fakeEventBus{}, cfg, zap.NewNop())

	svc := NewDashboardService(auth, &fakeCourseRepo{}, &fakePaymentRepo{}, zap.NewNop())

	dash, err := svc.GetDashboard(context.Background(), "user-2")
	require.NoError(t, err)

	assert.Empty(t, dash.EnrolledCourses)
	assert.Empty(t, dash.PaymentHistory)
	assert.Empty(t, dash.Badges)
	assert.Zero(t, dash.TotalSpent)
}
