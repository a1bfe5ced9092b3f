package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"skofie/internal/cache"
	"skofie/internal/models"
	"skofie/internal/repositories"
	"skofie/internal/validation"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

const (
	categoriesCacheKey = "catalog:categories"
	courseCachePrefix  = "catalog:course:"
	catalogCacheTTL    = 5 * time.Minute
)

// catalogService implements CatalogService with cached reads.
type catalogService struct {
	categories repositories.CategoryRepository
	courses    repositories.CourseRepository
	cache      cache.Cache
	logger     *zap.Logger
}

// NewCatalogService creates the catalog service
func NewCatalogService(
	categories repositories.CategoryRepository,
	courses repositories.CourseRepository,
	cacheLayer cache.Cache,
	logger *zap.Logger,
) CatalogService {
	return &catalogService{
		categories: categories,
		courses:    courses,
		cache:      cacheLayer,
		logger:     logger,
	}
}

// ListCategories returns all categories with course counts.
func (s *catalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	if data, found := s.cache.Get(ctx, categoriesCacheKey); found {
		var categories []models.Category
		if err := cache.Unmarshal(data, &categories); err == nil {
			return categories, nil
		}
	}

	categories, err := s.categories.List(ctx)
	if err != nil {
		s.logger.Error("failed to list categories", zap.Error(err))
		return nil, NewInternalError("failed to load categories")
	}

	if data, err := cache.Marshal(categories); err == nil {
		_ = s.cache.Set(ctx, categoriesCacheKey, data, catalogCacheTTL)
	}

	return categories, nil
}

// ListCourses returns courses matching the filter.
func (s *catalogService) ListCourses(ctx context.Context, filter models.CourseFilter) ([]models.Course, error) {
	if filter.Level != "" && !models.ValidLevel(filter.Level) {
		return nil, NewValidationError("unknown course level", nil)
	}

	courses, err := s.courses.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list courses", zap.Error(err))
		return nil, NewInternalError("failed to load courses")
	}

	return courses, nil
}

// GetCourse returns a course by ID.
func (s *catalogService) GetCourse(ctx context.Context, id string) (*models.Course, error) {
	if id == "" {
		return nil, NewValidationError("course id is required", nil)
	}

	cacheKey := courseCachePrefix + id
	if data, found := s.cache.Get(ctx, cacheKey); found {
		var course models.Course
		if err := cache.Unmarshal(data, &course); err == nil {
			return &course, nil
		}
	}

	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, EntityNotFoundError("course", id)
		}
		s.logger.Error("failed to load course", zap.Error(err), zap.String("course_id", id))
		return nil, NewInternalError("failed to load course")
	}

	if data, err := cache.Marshal(course); err == nil {
		_ = s.cache.Set(ctx, cacheKey, data, catalogCacheTTL)
	}

	return course, nil
}

// CreateCourse adds a course to the catalog. Authorization is enforced by
// the route; the service validates the payload and the category.
func (s *catalogService) CreateCourse(ctx context.Context, req *CreateCourseRequest) (*models.Course, error) {
	if err := validation.ValidateStruct(req); err != nil {
		serviceErr := NewValidationError("invalid course data", err)
		if fields := validation.FieldErrors(err); fields != nil {
			serviceErr.WithDetails(map[string]interface{}{"fields": fields})
		}
		return nil, serviceErr
	}

	if _, err := s.categories.GetByID(ctx, req.Category); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewValidationError("unknown category", nil)
		}
		s.logger.Error("failed to load category", zap.Error(err))
		return nil, NewInternalError("failed to create course")
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, NewInternalError("failed to generate course id")
	}

	course := &models.Course{
		ID:          id.String(),
		CategoryID:  req.Category,
		Title:       req.Title,
		Description: req.Description,
		Level:       models.CourseLevel(req.Level),
		Price:       req.Price,
		MentorName:  req.MentorName,
		Duration:    req.Duration,
		Topics:      models.StringList(req.Topics),
	}

	if err := s.courses.Create(ctx, course); err != nil {
		s.logger.Error("failed to create course", zap.Error(err))
		return nil, NewInternalError("failed to create course")
	}

	// New course invalidates category counts.
	_ = s.cache.Delete(ctx, categoriesCacheKey)

	s.logger.Info("course created",
		zap.String("course_id", course.ID),
		zap.String("category", course.CategoryID),
	)

	return course, nil
}
