package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"skofie/internal/database"
	"skofie/internal/models"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type courseRepository struct {
	*BaseRepository
}

// NewCourseRepository creates a course repository
func NewCourseRepository(db *database.Manager, logger *zap.Logger) CourseRepository {
	return &courseRepository{NewBaseRepository(db, logger)}
}

const courseColumns = `id, category_id, title, description, level, price, mentor_name, duration, topics, enrolled_count, created_at`

func (r *courseRepository) Create(ctx context.Context, course *models.Course) error {
	err := r.QueryRowContext(ctx, `
		INSERT INTO courses (id, category_id, title, description, level, price, mentor_name, duration, topics)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING enrolled_count, created_at`,
		course.ID, course.CategoryID, course.Title, course.Description,
		course.Level, course.Price, course.MentorName, course.Duration, course.Topics,
	).Scan(&course.EnrolledCount, &course.CreatedAt)
	if err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

func (r *courseRepository) GetByID(ctx context.Context, id string) (*models.Course, error) {
	return scanCourseRow(r.QueryRowContext(ctx,
		`SELECT `+courseColumns+` FROM courses WHERE id = $1`, id))
}

func (r *courseRepository) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses`
	var clauses []string
	var args []interface{}

	if filter.CategoryID != "" {
		args = append(args, filter.CategoryID)
		clauses = append(clauses, fmt.Sprintf("category_id = $%d", len(args)))
	}
	if filter.Level != "" {
		args = append(args, filter.Level)
		clauses = append(clauses, fmt.Sprintf("level = $%d", len(args)))
	}
	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		n := len(args)
		clauses = append(clauses, fmt.Sprintf(
			"(title ILIKE $%d OR description ILIKE $%d OR mentor_name ILIKE $%d)", n, n, n))
	}

	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()

	return scanCourses(rows)
}

func (r *courseRepository) ListByIDs(ctx context.Context, ids []string) ([]models.Course, error) {
	if len(ids) == 0 {
		return []models.Course{}, nil
	}

	rows, err := r.QueryContext(ctx,
		`SELECT `+courseColumns+` FROM courses WHERE id = ANY($1) ORDER BY created_at`,
		pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("list courses by ids: %w", err)
	}
	defer rows.Close()

	return scanCourses(rows)
}

func (r *courseRepository) IncrementEnrolledCountTx(ctx context.Context, tx *sql.Tx, courseID string) error {
	result, err := tx.ExecContext(ctx,
		`UPDATE courses SET enrolled_count = enrolled_count + 1 WHERE id = $1`, courseID)
	if err != nil {
		return fmt.Errorf("increment enrolled count: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func scanCourseRow(row *sql.Row) (*models.Course, error) {
	var c models.Course
	err := row.Scan(&c.ID, &c.CategoryID, &c.Title, &c.Description, &c.Level,
		&c.Price, &c.MentorName, &c.Duration, &c.Topics, &c.EnrolledCount, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func scanCourses(rows *sql.Rows) ([]models.Course, error) {
	courses := []models.Course{}
	for rows.Next() {
		var c models.Course
		err := rows.Scan(&c.ID, &c.CategoryID, &c.Title, &c.Description, &c.Level,
			&c.Price, &c.MentorName, &c.Duration, &c.Topics, &c.EnrolledCount, &c.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}
