package services

import (
	"context"

	"skofie/internal/models"
)

// ===============================
// REQUEST/RESPONSE DTOS
// ===============================

// RegisterRequest is the payload for account registration
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	FullName string `json:"full_name" validate:"required,max=150"`
}

// LoginRequest is the payload for credential login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse carries a bearer token and the authenticated user
type AuthResponse struct {
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	User      *models.User `json:"user"`
}

// CreateCourseRequest is the payload for admin course creation
type CreateCourseRequest struct {
	Title       string   `json:"title" validate:"required,min=3,max=255"`
	Description string   `json:"description" validate:"required,max=5000"`
	Price       int64    `json:"price" validate:"min=0"`
	Category    string   `json:"category" validate:"required"`
	Level       string   `json:"level" validate:"required,oneof=beginner intermediate advanced"`
	MentorName  string   `json:"mentor_name" validate:"required,max=150"`
	Duration    string   `json:"duration" validate:"required,max=50"`
	Topics      []string `json:"topics"`
}

// PurchaseRequest is the payload for a course purchase
type PurchaseRequest struct {
	CourseID      string `json:"course_id" validate:"required"`
	PaymentMethod string `json:"payment_method" validate:"required"`
}

// PurchaseResponse confirms a settled (or previously settled) purchase
type PurchaseResponse struct {
	Message     string `json:"message"`
	PaymentID   string `json:"payment_id"`
	CourseTitle string `json:"course_title"`
}

// DashboardResponse aggregates everything the user dashboard needs
type DashboardResponse struct {
	User            *models.User     `json:"user"`
	EnrolledCourses []models.Course  `json:"enrolled_courses"`
	PaymentHistory  []models.Payment `json:"payment_history"`
	Badges          []models.Badge   `json:"badges"`
	TotalSpent      int64            `json:"total_spent"`
}

// ===============================
// SERVICE INTERFACES
// ===============================

// AuthService handles accounts and sessions
type AuthService interface {
	Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error)
	ValidateToken(ctx context.Context, token string) (*models.User, error)
	CurrentUser(ctx context.Context, userID string) (*models.User, error)
}

// CatalogService handles category and course reads plus admin course creation
type CatalogService interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	ListCourses(ctx context.Context, filter models.CourseFilter) ([]models.Course, error)
	GetCourse(ctx context.Context, id string) (*models.Course, error)
	CreateCourse(ctx context.Context, req *CreateCourseRequest) (*models.Course, error)
}

// PaymentService handles the purchase flow
type PaymentService interface {
	Purchase(ctx context.Context, userID string, req *PurchaseRequest) (*PurchaseResponse, error)
}

// DashboardService aggregates the user dashboard
type DashboardService interface {
	GetDashboard(ctx context.Context, userID string) (*DashboardResponse, error)
}
