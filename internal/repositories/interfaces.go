package repositories

import (
	"context"
	"database/sql"

	"skofie/internal/models"
)

// ===============================
// REPOSITORY INTERFACES
// ===============================

// UserRepository handles user data access
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetEnrolledCourseIDs(ctx context.Context, userID string) ([]string, error)
}

// CategoryRepository handles category reference data access
type CategoryRepository interface {
	List(ctx context.Context) ([]models.Category, error)
	GetByID(ctx context.Context, id string) (*models.Category, error)
}

// CourseRepository handles course catalog data access
type CourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id string) (*models.Course, error)
	List(ctx context.Context, filter models.CourseFilter) ([]models.Course, error)
	ListByIDs(ctx context.Context, ids []string) ([]models.Course, error)
	IncrementEnrolledCountTx(ctx context.Context, tx *sql.Tx, courseID string) error
}

// EnrollmentRepository handles the user-course enrollment set
type EnrollmentRepository interface {
	Exists(ctx context.Context, userID, courseID string) (bool, error)
	CreateTx(ctx context.Context, tx *sql.Tx, userID, courseID string) error
	CountTx(ctx context.Context, tx *sql.Tx, userID string) (int64, error)
	DistinctCategoriesTx(ctx context.Context, tx *sql.Tx, userID string) (int64, error)
}

// PaymentRepository handles payment records
type PaymentRepository interface {
	CreateTx(ctx context.Context, tx *sql.Tx, payment *models.Payment) error
	GetByUserAndCourse(ctx context.Context, userID, courseID string) (*models.Payment, error)
	ListByUser(ctx context.Context, userID string) ([]models.Payment, error)
	AggregateTx(ctx context.Context, tx *sql.Tx, userID string) (count int64, total int64, err error)
	TotalSpent(ctx context.Context, userID string) (int64, error)
}

// BadgeRepository handles awarded badges
type BadgeRepository interface {
	AwardTx(ctx context.Context, tx *sql.Tx, userID, badgeID string) (bool, error)
	ListIDsByUser(ctx context.Context, userID string) ([]string, error)
}

// TransactionManager exposes the shared transaction helper to services
// that span multiple repositories.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(*sql.Tx) error) error
}

// Collection aggregates all repositories for dependency injection
type Collection struct {
	User       UserRepository
	Category   CategoryRepository
	Course     CourseRepository
	Enrollment EnrollmentRepository
	Payment    PaymentRepository
	Badge      BadgeRepository
	Tx         TransactionManager
}
