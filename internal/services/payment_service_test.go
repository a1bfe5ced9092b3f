package services

import (
	"context"
	"database/sql"
	"testing"

	"skofie/internal/events"
	"skofie/internal/models"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newPurchaseFixture() (*fakeCourseRepo, *fakeEnrollmentRepo, *fakePaymentRepo, *fakeBadgeRepo, *fakeTxManager, *fakeCache, *fakeEventBus, PaymentService) {
	course := &models.Course{
		ID:         "course-1",
		CategoryID: "stocks",
		Title:      "Analisis Saham untuk Pemula",
		Price:      299000,
	}

	courses := &fakeCourseRepo{
		getByIDFn: func(ctx context.Context, id string) (*models.Course, error) {
			if id == course.ID {
				return course, nil
			}
			return nil, sql.ErrNoRows
		},
	}
	enrollments := &fakeEnrollmentRepo{}
	payments := &fakePaymentRepo{}
	badges := &fakeBadgeRepo{}
	tx := &fakeTxManager{}
	cacheLayer := newFakeCache()
	bus := &fakeEventBus{}

	svc := NewPaymentService(courses, enrollments, payments, badges, tx, cacheLayer, bus, zap.NewNop())
	return courses, enrollments, payments, badges, tx, cacheLayer, bus, svc
}

func TestPurchaseSuccess(t *testing.T) {
	courses, enrollments, payments, _, _, _, bus, svc := newPurchaseFixture()
	enrollments.count = 1
	payments.paymentCount = 1
	payments.totalSpent = 299000

	resp, err := svc.Purchase(context.Background(), "user-1", &PurchaseRequest{
		CourseID:      "course-1",
		PaymentMethod: models.MethodMockPayment,
	})

	require.NoError(t, err)
	assert.Equal(t, "Course purchased successfully!", resp.Message)
	assert.Equal(t, "Analisis Saham untuk Pemula", resp.CourseTitle)
	assert.NotEmpty(t, resp.PaymentID)

	require.Len(t, payments.created, 1)
	assert.Equal(t, int64(299000), payments.created[0].Amount)
	assert.Equal(t, models.PaymentCompleted, payments.created[0].Status)

	require.Len(t, enrollments.created, 1)
	assert.Equal(t, [2]string{"user-1", "course-1"}, enrollments.created[0])
	assert.Equal(t, "course-1", courses.incrementedID)

	assert.Len(t, bus.published(events.EventPurchaseCompleted), 1)
}

func TestPurchaseUnknownCourse(t *testing.T) {
	// Course resolution comes before the method check, so an unknown course
	// is a not-found error no matter which method the caller asked for.
	for _, method := range []string{models.MethodMockPayment, models.MethodGopay} {
		t.Run(method, func(t *testing.T) {
			_, _, payments, _, _, _, _, svc := newPurchaseFixture()

			_, err := svc.Purchase(context.Background(), "user-1", &PurchaseRequest{
				CourseID:      "missing",
				PaymentMethod: method,
			})

			require.Error(t, err)
			assert.True(t, IsNotFoundError(err))
			assert.Empty(t, payments.created)
		})
	}
}

func TestPurchaseUnsupportedMethod(t *testing.T) {
	for _, method := range []string{models.MethodGopay, models.MethodOvo, models.MethodBankTransfer, "paypal"} {
		t.Run(method, func(t *testing.T) {
			_, _, payments, _, _, _, _, svc := newPurchaseFixture()

			_, err := svc.Purchase(context.Background(), "user-1", &PurchaseRequest{
				CourseID:      "course-1",
				PaymentMethod: method,
			})

			require.Error(t, err)
			assert.True(t, IsNotImplementedError(err))
			assert.Empty(t, payments.created)
		})
	}
}

func TestPurchaseMissingFields(t *testing.T) {
	_, _, _, _, _, _, _, svc := newPurchaseFixture()

	_, err := svc.Purchase(context.Background(), "user-1", &PurchaseRequest{})

	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}

func TestPurchaseAlreadyEnrolledIsIdempotent(t *testing.T) {
	// The enrollment check precedes the method check, so a retry for an
	// owned course succeeds even when the retry names an unwired method.
	for _, method := range []string{models.MethodMockPayment, models.MethodGopay} {
		t.Run(method, func(t *testing.T) {
			_, enrollments, payments, _, _, _, bus, svc := newPurchaseFixture()
			enrollments.existsFn = func(ctx context.Context, userID, courseID string) (bool, error) {
				return true, nil
			}
			payments.getByUserAndCourseFn = func(ctx context.Context, userID, courseID string) (*models.Payment, error) {
				return &models.Payment{ID: "payment-original", UserID: userID, CourseID: courseID, Amount: 299000}, nil
			}

			resp, err := svc.Purchase(context.Background(), "user-1", &PurchaseRequest{
				CourseID:      "course-1",
				PaymentMethod: method,
			})

			require.NoError(t, err)
			assert.Equal(t, "payment-original", resp.PaymentID)
			assert.Equal(t, "Course purchased successfully!", resp.Message)
			assert.Empty(t, payments.created)
			assert.Empty(t, enrollments.created)
			assert.Empty(t, bus.published(events.EventPurchaseCompleted))
		})
	}
}

func TestPurchaseConcurrentDuplicateReturnsWinner(t *testing.T) {
	_, _, payments, _, tx, _, _, svc := newPurchaseFixture()
	tx.err = &pq.Error{Code: "23505", Constraint: "payments_user_course_unique"}
	payments.getByUserAndCourseFn = func(ctx context.Context, userID, courseID string) (*models.Payment, error) {
		return &models.Payment{ID: "payment-winner", UserID: userID, CourseID: courseID}, nil
	}

	resp, err := svc.Purchase(context.Background(), "user-1", &PurchaseRequest{
		CourseID:      "course-1",
		PaymentMethod: models.MethodMockPayment,
	})

	require.NoError(t, err)
	assert.Equal(t, "payment-winner", resp.PaymentID)
}

func TestPurchaseAwardsBadges(t *testing.T) {
	_, enrollments, payments, badges, _, _, bus, svc := newPurchaseFixture()
	enrollments.count = 3
	enrollments.distinctCategories = 3
	payments.paymentCount = 3
	payments.totalSpent = 747000

	_, err := svc.Purchase(context.Background(), "user-1", &PurchaseRequest{
		CourseID:      "course-1",
		PaymentMethod: models.MethodMockPayment,
	})

	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		models.BadgeFirstCourse,
		models.BadgeCourseCollector,
		models.BadgeSmartSpender,
		models.BadgeExplorer,
	}, badges.awarded)
	assert.Len(t, bus.published(events.EventBadgeAwarded), 4)
}

func TestPurchaseBadgeGrantsAreIdempotent(t *testing.T) {
	_, _, payments, badges, _, _, _, svc := newPurchaseFixture()
	badges.awarded = []string{models.BadgeFirstCourse}
	payments.paymentCount = 1

	_, err := svc.Purchase(context.Background(), "user-1", &PurchaseRequest{
		CourseID:      "course-1",
		PaymentMethod: models.MethodMockPayment,
	})

	require.NoError(t, err)
	assert.Equal(t, []string{models.BadgeFirstCourse}, badges.awarded)
}

func TestPurchaseInvalidatesUserCache(t *testing.T) {
	_, _, payments, _, _, cacheLayer, _, svc := newPurchaseFixture()
	payments.paymentCount = 1
	require.NoError(t, cacheLayer.Set(context.Background(), "user:user-1", []byte("stale"), 0))

	_, err := svc.Purchase(context.Background(), "user-1", &PurchaseRequest{
		CourseID:      "course-1",
		PaymentMethod: models.MethodMockPayment,
	})

	require.NoError(t, err)
	_, found := cacheLayer.Get(context.Background(), "user:user-1")
	assert.False(t, found)
}
