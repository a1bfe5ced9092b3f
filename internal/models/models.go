// file: internal/models/models.go
package models

import (
	"time"
)

// ===============================
// CORE ENTITIES
// ===============================

// Category represents a top-level course grouping. Categories are immutable
// reference data seeded at startup.
type Category struct {
	ID          string `json:"id" db:"id"`
	Name        string `json:"name" db:"name" validate:"required,max=100"`
	Description string `json:"description" db:"description"`
	Icon        string `json:"icon" db:"icon"`
	Color       string `json:"color" db:"color"`

	// Computed fields (not in DB)
	CoursesCount int `json:"courses_count,omitempty" db:"-"`
}

// CourseLevel is the difficulty level of a course.
type CourseLevel string

const (
	LevelBeginner     CourseLevel = "beginner"
	LevelIntermediate CourseLevel = "intermediate"
	LevelAdvanced     CourseLevel = "advanced"
)

// ValidLevel reports whether l is one of the known course levels.
func ValidLevel(l string) bool {
	switch CourseLevel(l) {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}

// Course represents a purchasable course in the catalog.
//
// Price is a non-negative integer in the smallest currency unit.
// EnrolledCount is monotonically non-decreasing and is mutated only by the
// purchase flow, inside the same transaction that records the payment.
type Course struct {
	ID          string      `json:"id" db:"id"`
	CategoryID  string      `json:"category" db:"category_id" validate:"required"`
	Title       string      `json:"title" db:"title" validate:"required,min=3,max=255"`
	Description string      `json:"description" db:"description" validate:"required,max=5000"`
	Level       CourseLevel `json:"level" db:"level" validate:"required,oneof=beginner intermediate advanced"`
	Price       int64       `json:"price" db:"price" validate:"min=0"`
	MentorName  string      `json:"mentor_name" db:"mentor_name" validate:"required,max=150"`
	Duration    string      `json:"duration" db:"duration" validate:"required,max=50"`
	Topics      StringList  `json:"topics" db:"topics"`

	EnrolledCount int64     `json:"enrolled_count" db:"enrolled_count"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// User represents a registered account.
//
// EnrolledCourses and Badges are unique-membership sets that only grow in
// normal operation. The password hash never leaves the server.
type User struct {
	ID           string    `json:"id" db:"id"`
	Email        string    `json:"email" db:"email" validate:"required,email,max=320"`
	PasswordHash string    `json:"-" db:"password_hash"`
	FullName     string    `json:"full_name" db:"full_name" validate:"required,max=150"`
	Role         string    `json:"role" db:"role" validate:"required,oneof=user admin"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`

	// Joined fields (not columns on users)
	EnrolledCourses []string `json:"enrolled_courses" db:"-"`
	Badges          []string `json:"badges" db:"-"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsEnrolled reports whether the user already holds access to courseID.
func (u *User) IsEnrolled(courseID string) bool {
	for _, id := range u.EnrolledCourses {
		if id == courseID {
			return true
		}
	}
	return false
}

// User roles. Admins may additionally create catalog courses.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// PaymentStatus is the lifecycle state of a payment record.
type PaymentStatus string

// Payment statuses. The mock gateway settles synchronously, so every
// recorded payment is completed; the type exists so the history endpoint
// and storage stay honest about what a status column means.
const (
	PaymentCompleted PaymentStatus = "completed"
)

// Payment methods. Only the mock gateway is wired; the others exist in the
// purchase interface and are rejected with NOT_IMPLEMENTED.
const (
	MethodMockPayment  = "mock_payment"
	MethodGopay        = "gopay"
	MethodOvo          = "ovo"
	MethodBankTransfer = "bank_transfer"
)

// Payment is an append-only record of a completed purchase. Exactly one row
// exists per (user, course) pair, enforced by a unique constraint.
type Payment struct {
	ID            string        `json:"id" db:"id"`
	UserID        string        `json:"user_id" db:"user_id"`
	CourseID      string        `json:"course_id" db:"course_id"`
	Amount        int64         `json:"amount" db:"amount"`
	PaymentMethod string        `json:"payment_method" db:"payment_method"`
	Status        PaymentStatus `json:"status" db:"status"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
}

// ===============================
// QUERY TYPES
// ===============================

// CourseFilter narrows course listings. Zero values mean "no constraint".
type CourseFilter struct {
	CategoryID string
	Level      string
	Query      string // free-text match on title/description/mentor
}

// Empty reports whether the filter constrains anything.
func (f CourseFilter) Empty() bool {
	return f.CategoryID == "" && f.Level == "" && f.Query == ""
}
