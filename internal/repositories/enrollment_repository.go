package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"skofie/internal/database"

	"go.uber.org/zap"
)

type enrollmentRepository struct {
	*BaseRepository
}

// NewEnrollmentRepository creates an enrollment repository
func NewEnrollmentRepository(db *database.Manager, logger *zap.Logger) EnrollmentRepository {
	return &enrollmentRepository{NewBaseRepository(db, logger)}
}

func (r *enrollmentRepository) Exists(ctx context.Context, userID, courseID string) (bool, error) {
	var exists bool
	err := r.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM enrollments WHERE user_id = $1 AND course_id = $2)`,
		userID, courseID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check enrollment: %w", err)
	}
	return exists, nil
}

func (r *enrollmentRepository) CreateTx(ctx context.Context, tx *sql.Tx, userID, courseID string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO enrollments (user_id, course_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, course_id) DO NOTHING`,
		userID, courseID)
	if err != nil {
		return fmt.Errorf("create enrollment: %w", err)
	}
	return nil
}

func (r *enrollmentRepository) CountTx(ctx context.Context, tx *sql.Tx, userID string) (int64, error) {
	var count int64
	err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM enrollments WHERE user_id = $1`, userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count enrollments: %w", err)
	}
	return count, nil
}

func (r *enrollmentRepository) DistinctCategoriesTx(ctx context.Context, tx *sql.Tx, userID string) (int64, error) {
	var count int64
	err := tx.QueryRowContext(ctx, `
		SELECT COUNT(DISTINCT c.category_id)
		FROM enrollments e
		JOIN courses c ON c.id = e.course_id
		WHERE e.user_id = $1`, userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count distinct categories: %w", err)
	}
	return count, nil
}
