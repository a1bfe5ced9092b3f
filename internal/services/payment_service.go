package services

import (
	"context"
	"database/sql"
	"errors"

	"skofie/internal/cache"
	"skofie/internal/events"
	"skofie/internal/models"
	"skofie/internal/repositories"
	"skofie/internal/validation"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

const purchaseMessage = "Course purchased successfully!"

// paymentService implements the mock purchase flow.
//
// A purchase is all-or-nothing: the payment row, the enrolled_count
// increment, the enrollment, and any badge grants commit together or not at
// all. Concurrent retries for the same (user, course) are serialized by the
// unique constraint on payments; the loser observes the winner's committed
// payment and returns the same success response.
type paymentService struct {
	courses     repositories.CourseRepository
	enrollments repositories.EnrollmentRepository
	payments    repositories.PaymentRepository
	badges      repositories.BadgeRepository
	tx          repositories.TransactionManager
	cache       cache.Cache
	bus         events.EventBus
	logger      *zap.Logger
}

// NewPaymentService creates the payment service
func NewPaymentService(
	courses repositories.CourseRepository,
	enrollments repositories.EnrollmentRepository,
	payments repositories.PaymentRepository,
	badges repositories.BadgeRepository,
	tx repositories.TransactionManager,
	cacheLayer cache.Cache,
	bus events.EventBus,
	logger *zap.Logger,
) PaymentService {
	return &paymentService{
		courses:     courses,
		enrollments: enrollments,
		payments:    payments,
		badges:      badges,
		tx:          tx,
		cache:       cacheLayer,
		bus:         bus,
		logger:      logger,
	}
}

// Purchase settles a mock payment and enrolls the user in the course.
func (s *paymentService) Purchase(ctx context.Context, userID string, req *PurchaseRequest) (*PurchaseResponse, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("invalid purchase data", err)
	}

	course, err := s.courses.GetByID(ctx, req.CourseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, EntityNotFoundError("course", req.CourseID)
		}
		s.logger.Error("failed to load course", zap.Error(err), zap.String("course_id", req.CourseID))
		return nil, NewInternalError("failed to process purchase")
	}

	// Retry-safe no-op: a repeated purchase of an owned course succeeds
	// without touching any state, regardless of the method on the retry.
	enrolled, err := s.enrollments.Exists(ctx, userID, req.CourseID)
	if err != nil {
		s.logger.Error("failed to check enrollment", zap.Error(err))
		return nil, NewInternalError("failed to process purchase")
	}
	if enrolled {
		return s.existingPurchaseResponse(ctx, userID, course)
	}

	if req.PaymentMethod != models.MethodMockPayment {
		return nil, NewNotImplementedError("payment method not supported yet")
	}

	paymentID, err := uuid.NewV4()
	if err != nil {
		return nil, NewInternalError("failed to generate payment id")
	}

	payment := &models.Payment{
		ID:            paymentID.String(),
		UserID:        userID,
		CourseID:      course.ID,
		Amount:        course.Price,
		PaymentMethod: req.PaymentMethod,
		Status:        models.PaymentCompleted,
	}

	var awardedBadges []string

	err = s.tx.WithTransaction(ctx, func(tx *sql.Tx) error {
		if err := s.payments.CreateTx(ctx, tx, payment); err != nil {
			return err
		}

		if err := s.enrollments.CreateTx(ctx, tx, userID, course.ID); err != nil {
			return err
		}

		if err := s.courses.IncrementEnrolledCountTx(ctx, tx, course.ID); err != nil {
			return err
		}

		awardedBadges, err = s.evaluateBadges(ctx, tx, userID)
		return err
	})
	if err != nil {
		// A concurrent purchase of the same course committed first; its
		// payment is the canonical one.
		if repositories.IsDuplicatePayment(err) {
			return s.existingPurchaseResponse(ctx, userID, course)
		}
		s.logger.Error("purchase transaction failed",
			zap.Error(err),
			zap.String("user_id", userID),
			zap.String("course_id", course.ID),
		)
		return nil, NewInternalError("failed to process purchase")
	}

	s.invalidateCaches(ctx, userID, course.ID)

	if err := s.bus.Publish(ctx, events.NewPurchaseCompletedEvent(userID, course.ID, payment.ID, payment.Amount)); err != nil {
		s.logger.Warn("failed to publish purchase event", zap.Error(err))
	}
	for _, badgeID := range awardedBadges {
		if err := s.bus.Publish(ctx, events.NewBadgeAwardedEvent(userID, badgeID)); err != nil {
			s.logger.Warn("failed to publish badge event", zap.Error(err))
		}
	}

	s.logger.Info("purchase completed",
		zap.String("user_id", userID),
		zap.String("course_id", course.ID),
		zap.String("payment_id", payment.ID),
		zap.Int64("amount", payment.Amount),
		zap.Strings("badges_awarded", awardedBadges),
	)

	return &PurchaseResponse{
		Message:     purchaseMessage,
		PaymentID:   payment.ID,
		CourseTitle: course.Title,
	}, nil
}

// evaluateBadges grants every badge whose criteria the user now meets.
// Grants are idempotent inserts, so re-evaluation never duplicates.
func (s *paymentService) evaluateBadges(ctx context.Context, tx *sql.Tx, userID string) ([]string, error) {
	paymentCount, totalSpent, err := s.payments.AggregateTx(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	enrollmentCount, err := s.enrollments.CountTx(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	distinctCategories, err := s.enrollments.DistinctCategoriesTx(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	progress := models.BadgeProgress{
		PaymentCount:       paymentCount,
		EnrollmentCount:    enrollmentCount,
		TotalSpent:         totalSpent,
		DistinctCategories: distinctCategories,
	}

	var awarded []string
	for _, badge := range models.AllBadges {
		if !badge.Earned(progress) {
			continue
		}
		isNew, err := s.badges.AwardTx(ctx, tx, userID, badge.ID)
		if err != nil {
			return nil, err
		}
		if isNew {
			awarded = append(awarded, badge.ID)
		}
	}

	return awarded, nil
}

func (s *paymentService) existingPurchaseResponse(ctx context.Context, userID string, course *models.Course) (*PurchaseResponse, error) {
	payment, err := s.payments.GetByUserAndCourse(ctx, userID, course.ID)
	if err != nil {
		s.logger.Error("failed to load existing payment",
			zap.Error(err),
			zap.String("user_id", userID),
			zap.String("course_id", course.ID),
		)
		return nil, NewInternalError("failed to process purchase")
	}

	return &PurchaseResponse{
		Message:     purchaseMessage,
		PaymentID:   payment.ID,
		CourseTitle: course.Title,
	}, nil
}

func (s *paymentService) invalidateCaches(ctx context.Context, userID, courseID string) {
	_ = s.cache.Delete(ctx, "user:"+userID)
	_ = s.cache.Delete(ctx, courseCachePrefix+courseID)
}
