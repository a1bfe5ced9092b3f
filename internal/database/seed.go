package database

import (
	"context"
	"time"

	"skofie/internal/models"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var seedCategories = []models.Category{
	{
		ID:          "personal_finance",
		Name:        "Personal Finance",
		Description: "Atur keuangan pribadi dengan smart",
		Icon:        "💰",
		Color:       "bg-emerald-500",
	},
	{
		ID:          "stocks",
		Name:        "Saham & Investasi",
		Description: "Mulai investasi saham dari nol",
		Icon:        "📈",
		Color:       "bg-blue-500",
	},
	{
		ID:          "crypto",
		Name:        "Crypto & Blockchain",
		Description: "Pahami dunia crypto dengan aman",
		Icon:        "₿",
		Color:       "bg-orange-500",
	},
	{
		ID:          "mutual_funds",
		Name:        "Reksa Dana",
		Description: "Investasi mudah untuk pemula",
		Icon:        "🏦",
		Color:       "bg-purple-500",
	},
}

var seedCourses = []models.Course{
	{
		Title:       "Financial Planning 101: Gaji Gak Numpang Lewat",
		Description: "Belajar ngatur duit biar gak habis di awal bulan. Cocok banget buat yang baru kerja!",
		Price:       199000,
		CategoryID:  "personal_finance",
		Level:       models.LevelBeginner,
		MentorName:  "Sarah Wijaya",
		Duration:    "2.5 jam",
		Topics:      models.StringList{"Budgeting", "Emergency Fund", "Debt Management", "Savings Goals"},
	},
	{
		Title:       "Saham untuk Pemula: Investasi Tanpa Drama",
		Description: "Mulai investasi saham dengan strategi yang proven. No FOMO, no stress!",
		Price:       299000,
		CategoryID:  "stocks",
		Level:       models.LevelBeginner,
		MentorName:  "Rizky Pratama",
		Duration:    "3 jam",
		Topics:      models.StringList{"Stock Basics", "Company Analysis", "Risk Management", "Portfolio Building"},
	},
	{
		Title:       "Crypto 101: Blockchain Buat Gen Z",
		Description: "Pahami crypto dan blockchain technology. Investasi cerdas, bukan gambling!",
		Price:       249000,
		CategoryID:  "crypto",
		Level:       models.LevelIntermediate,
		MentorName:  "Alex Chen",
		Duration:    "2 jam",
		Topics:      models.StringList{"Blockchain Basics", "DeFi", "NFTs", "Crypto Trading"},
	},
}

const adminEmail = "admin@genmoney.com"

// Seed inserts the category reference data, the sample courses, and the
// default admin account when the corresponding tables are empty.
// It is safe to run on every startup.
func Seed(m *Manager, logger *zap.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, c := range seedCategories {
		_, err := m.ExecContext(ctx, `
			INSERT INTO categories (id, name, description, icon, color)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (id) DO NOTHING`,
			c.ID, c.Name, c.Description, c.Icon, c.Color,
		)
		if err != nil {
			return err
		}
	}

	var courseCount int
	if err := m.QueryRowContext(ctx, `SELECT COUNT(*) FROM courses`).Scan(&courseCount); err != nil {
		return err
	}

	if courseCount == 0 {
		for _, course := range seedCourses {
			id, err := uuid.NewV4()
			if err != nil {
				return err
			}
			topics, err := course.Topics.Value()
			if err != nil {
				return err
			}
			_, err = m.ExecContext(ctx, `
				INSERT INTO courses (id, category_id, title, description, level, price, mentor_name, duration, topics)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
				id.String(), course.CategoryID, course.Title, course.Description,
				course.Level, course.Price, course.MentorName, course.Duration, topics,
			)
			if err != nil {
				return err
			}
		}
		logger.Info("seeded sample courses", zap.Int("count", len(seedCourses)))
	}

	var adminExists bool
	if err := m.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, adminEmail).Scan(&adminExists); err != nil {
		return err
	}

	if !adminExists {
		id, err := uuid.NewV4()
		if err != nil {
			return err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		_, err = m.ExecContext(ctx, `
			INSERT INTO users (id, email, password_hash, full_name, role)
			VALUES ($1, $2, $3, $4, $5)`,
			id.String(), adminEmail, string(hash), "Admin GenMoney", models.RoleAdmin,
		)
		if err != nil {
			return err
		}
		logger.Info("seeded admin account", zap.String("email", adminEmail))
	}

	return nil
}
