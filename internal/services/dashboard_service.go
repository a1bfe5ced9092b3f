package services

import (
	"context"

	"skofie/internal/models"
	"skofie/internal/repositories"

	"go.uber.org/zap"
)

// dashboardService aggregates the user dashboard from the account, catalog,
// payment, and badge stores.
type dashboardService struct {
	auth     AuthService
	courses  repositories.CourseRepository
	payments repositories.PaymentRepository
	logger   *zap.Logger
}

// NewDashboardService creates the dashboard service
func NewDashboardService(
	auth AuthService,
	courses repositories.CourseRepository,
	payments repositories.PaymentRepository,
	logger *zap.Logger,
) DashboardService {
	return &dashboardService{
		auth:     auth,
		courses:  courses,
		payments: payments,
		logger:   logger,
	}
}

// GetDashboard returns the user, their enrolled courses joined against the
// catalog, payment history newest first, badges, and the running total.
func (s *dashboardService) GetDashboard(ctx context.Context, userID string) (*DashboardResponse, error) {
	user, err := s.auth.CurrentUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	enrolledCourses, err := s.courses.ListByIDs(ctx, user.EnrolledCourses)
	if err != nil {
		s.logger.Error("failed to load enrolled courses", zap.Error(err), zap.String("user_id", userID))
		return nil, NewInternalError("failed to load dashboard")
	}

	payments, err := s.payments.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to load payments", zap.Error(err), zap.String("user_id", userID))
		return nil, NewInternalError("failed to load dashboard")
	}

	var totalSpent int64
	for _, p := range payments {
		totalSpent += p.Amount
	}

	badges := make([]models.Badge, 0, len(user.Badges))
	for _, id := range user.Badges {
		if badge, ok := models.BadgeByID(id); ok {
			badges = append(badges, badge)
		}
	}

	return &DashboardResponse{
		User:            user,
		EnrolledCourses: enrolledCourses,
		PaymentHistory:  payments,
		Badges:          badges,
		TotalSpent:      totalSpent,
	}, nil
}
