package repositories

import (
	"context"
	"fmt"

	"skofie/internal/database"
	"skofie/internal/models"

	"go.uber.org/zap"
)

type categoryRepository struct {
	*BaseRepository
}

// NewCategoryRepository creates a category repository
func NewCategoryRepository(db *database.Manager, logger *zap.Logger) CategoryRepository {
	return &categoryRepository{NewBaseRepository(db, logger)}
}

func (r *categoryRepository) List(ctx context.Context) ([]models.Category, error) {
	rows, err := r.QueryContext(ctx, `
		SELECT c.id, c.name, c.description, c.icon, c.color,
		       (SELECT COUNT(*) FROM courses WHERE category_id = c.id) AS courses_count
		FROM categories c
		ORDER BY c.id`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.Icon, &c.Color, &c.CoursesCount); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *categoryRepository) GetByID(ctx context.Context, id string) (*models.Category, error) {
	var c models.Category
	err := r.QueryRowContext(ctx, `
		SELECT id, name, description, icon, color
		FROM categories WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.Description, &c.Icon, &c.Color)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
