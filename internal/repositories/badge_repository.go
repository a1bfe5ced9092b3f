package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"skofie/internal/database"

	"go.uber.org/zap"
)

type badgeRepository struct {
	*BaseRepository
}

// NewBadgeRepository creates a badge repository
func NewBadgeRepository(db *database.Manager, logger *zap.Logger) BadgeRepository {
	return &badgeRepository{NewBaseRepository(db, logger)}
}

// AwardTx grants a badge inside a transaction. It returns true when the
// badge was newly inserted and false when the user already held it.
func (r *badgeRepository) AwardTx(ctx context.Context, tx *sql.Tx, userID, badgeID string) (bool, error) {
	result, err := tx.ExecContext(ctx, `
		INSERT INTO user_badges (user_id, badge_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, badge_id) DO NOTHING`,
		userID, badgeID)
	if err != nil {
		return false, fmt.Errorf("award badge: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *badgeRepository) ListIDsByUser(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.QueryContext(ctx, `
		SELECT badge_id FROM user_badges
		WHERE user_id = $1
		ORDER BY awarded_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("list badges: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan badge: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
