package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"skofie/internal/models"
	"skofie/internal/response"
	"skofie/internal/services"

	"go.uber.org/zap"
)

// Controller handles category and course API endpoints
type Controller struct {
	services        *services.ServiceCollection
	logger          *zap.Logger
	responseBuilder *response.Builder
}

// NewController creates the catalog controller
func NewController(sc *services.ServiceCollection, logger *zap.Logger, responseBuilder *response.Builder) *Controller {
	return &Controller{
		services:        sc,
		logger:          logger,
		responseBuilder: responseBuilder,
	}
}

// ListCategories handles GET /api/categories
func (c *Controller) ListCategories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	categories, err := c.services.Catalog.ListCategories(ctx)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.responseBuilder.WriteSuccess(w, r, map[string]interface{}{
		"categories": categories,
	})
}

// ListCourses handles GET /api/courses with optional category/level/q filters
func (c *Controller) ListCourses(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	filter := models.CourseFilter{
		CategoryID: r.URL.Query().Get("category"),
		Level:      r.URL.Query().Get("level"),
		Query:      r.URL.Query().Get("q"),
	}

	courses, err := c.services.Catalog.ListCourses(ctx, filter)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.responseBuilder.WriteSuccess(w, r, map[string]interface{}{
		"courses": courses,
	})
}

// GetCourse handles GET /api/courses/{id}
func (c *Controller) GetCourse(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	course, err := c.services.Catalog.GetCourse(ctx, r.PathValue("id"))
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.responseBuilder.WriteSuccess(w, r, course)
}

// CreateCourse handles POST /api/courses (admin only, enforced by the route)
func (c *Controller) CreateCourse(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	var req services.CreateCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.responseBuilder.WriteError(w, r, services.NewValidationError("invalid request body", err))
		return
	}

	course, err := c.services.Catalog.CreateCourse(ctx, &req)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.responseBuilder.WriteCreated(w, r, course)
}
