package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"skofie/internal/database"
	"skofie/internal/models"

	"go.uber.org/zap"
)

// paymentUserCourseConstraint is the unique constraint serializing purchase
// idempotency per (user, course).
const paymentUserCourseConstraint = "payments_user_course_unique"

// IsDuplicatePayment reports whether err is the unique violation raised by a
// concurrent purchase of the same course by the same user.
func IsDuplicatePayment(err error) bool {
	return IsUniqueViolation(err, paymentUserCourseConstraint)
}

type paymentRepository struct {
	*BaseRepository
}

// NewPaymentRepository creates a payment repository
func NewPaymentRepository(db *database.Manager, logger *zap.Logger) PaymentRepository {
	return &paymentRepository{NewBaseRepository(db, logger)}
}

func (r *paymentRepository) CreateTx(ctx context.Context, tx *sql.Tx, payment *models.Payment) error {
	err := tx.QueryRowContext(ctx, `
		INSERT INTO payments (id, user_id, course_id, amount, payment_method, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`,
		payment.ID, payment.UserID, payment.CourseID,
		payment.Amount, payment.PaymentMethod, payment.Status,
	).Scan(&payment.CreatedAt)
	if err != nil {
		return err
	}
	return nil
}

func (r *paymentRepository) GetByUserAndCourse(ctx context.Context, userID, courseID string) (*models.Payment, error) {
	var p models.Payment
	err := r.QueryRowContext(ctx, `
		SELECT id, user_id, course_id, amount, payment_method, status, created_at
		FROM payments
		WHERE user_id = $1 AND course_id = $2`,
		userID, courseID,
	).Scan(&p.ID, &p.UserID, &p.CourseID, &p.Amount, &p.PaymentMethod, &p.Status, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *paymentRepository) ListByUser(ctx context.Context, userID string) ([]models.Payment, error) {
	rows, err := r.QueryContext(ctx, `
		SELECT id, user_id, course_id, amount, payment_method, status, created_at
		FROM payments
		WHERE user_id = $1
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	payments := []models.Payment{}
	for rows.Next() {
		var p models.Payment
		err := rows.Scan(&p.ID, &p.UserID, &p.CourseID, &p.Amount, &p.PaymentMethod, &p.Status, &p.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (r *paymentRepository) AggregateTx(ctx context.Context, tx *sql.Tx, userID string) (int64, int64, error) {
	var count, total int64
	err := tx.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(amount), 0)
		FROM payments
		WHERE user_id = $1 AND status = $2`,
		userID, models.PaymentCompleted,
	).Scan(&count, &total)
	if err != nil {
		return 0, 0, fmt.Errorf("aggregate payments: %w", err)
	}
	return count, total, nil
}

func (r *paymentRepository) TotalSpent(ctx context.Context, userID string) (int64, error) {
	var total int64
	err := r.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM payments
		WHERE user_id = $1 AND status = $2`,
		userID, models.PaymentCompleted,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("total spent: %w", err)
	}
	return total, nil
}
