package repositories

import (
	"skofie/internal/database"

	"go.uber.org/zap"
)

// NewCollection wires all repositories against the database manager.
func NewCollection(db *database.Manager, logger *zap.Logger) *Collection {
	return &Collection{
		User:       NewUserRepository(db, logger),
		Category:   NewCategoryRepository(db, logger),
		Course:     NewCourseRepository(db, logger),
		Enrollment: NewEnrollmentRepository(db, logger),
		Payment:    NewPaymentRepository(db, logger),
		Badge:      NewBadgeRepository(db, logger),
		Tx:         NewBaseRepository(db, logger),
	}
}
