package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"skofie/internal/database"
	"skofie/internal/models"

	"go.uber.org/zap"
)

type userRepository struct {
	*BaseRepository
}

// NewUserRepository creates a user repository
func NewUserRepository(db *database.Manager, logger *zap.Logger) UserRepository {
	return &userRepository{NewBaseRepository(db, logger)}
}

// emailUniqueConstraint backs duplicate-registration detection.
const emailUniqueConstraint = "users_email_key"

// IsDuplicateEmail reports whether err is the unique violation raised by
// registering an email that already exists.
func IsDuplicateEmail(err error) bool {
	return IsUniqueViolation(err, emailUniqueConstraint)
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	err := r.QueryRowContext(ctx, `
		INSERT INTO users (id, email, password_hash, full_name, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`,
		user.ID, user.Email, user.PasswordHash, user.FullName, user.Role,
	).Scan(&user.CreatedAt)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.scanUser(r.QueryRowContext(ctx, `
		SELECT id, email, password_hash, full_name, role, created_at
		FROM users WHERE id = $1`, id))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.scanUser(r.QueryRowContext(ctx, `
		SELECT id, email, password_hash, full_name, role, created_at
		FROM users WHERE email = $1`, email))
}

func (r *userRepository) GetEnrolledCourseIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.QueryContext(ctx, `
		SELECT course_id FROM enrollments
		WHERE user_id = $1
		ORDER BY created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan enrollment: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *userRepository) scanUser(row *sql.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.FullName, &user.Role, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &user, nil
}
