package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"skofie/internal/models"
	"skofie/internal/response"
	"skofie/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubCatalogService struct {
	categories []models.Category
	courses    []models.Course
	course     *models.Course
	err        error
	gotFilter  models.CourseFilter
}

func (s *stubCatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.categories, s.err
}

func (s *stubCatalogService) ListCourses(ctx context.Context, filter models.CourseFilter) ([]models.Course, error) {
	s.gotFilter = filter
	return s.courses, s.err
}

func (s *stubCatalogService) GetCourse(ctx context.Context, id string) (*models.Course, error) {
	return s.course, s.err
}

func (s *stubCatalogService) CreateCourse(ctx context.Context, req *services.CreateCourseRequest) (*models.Course, error) {
	return s.course, s.err
}

func newTestController(svc services.CatalogService) *Controller {
	logger := zap.NewNop()
	sc := &services.ServiceCollection{Catalog: svc, Logger: logger}
	return NewController(sc, logger, response.NewBuilder(response.DefaultConfig(), logger))
}

func TestListCategoriesResponse(t *testing.T) {
	svc := &stubCatalogService{
		categories: []models.Category{
			{ID: "personal_finance", Name: "Keuangan Pribadi", CoursesCount: 1},
		},
	}
	c := newTestController(svc)

	rec := httptest.NewRecorder()
	c.ListCategories(rec, httptest.NewRequest(http.MethodGet, "/api/categories", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			Categories []models.Category `json:"categories"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	require.Len(t, body.Data.Categories, 1)
	assert.Equal(t, "personal_finance", body.Data.Categories[0].ID)
}

func TestListCoursesParsesQueryParams(t *testing.T) {
	svc := &stubCatalogService{courses: []models.Course{}}
	c := newTestController(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/courses?category=crypto&level=beginner&q=bitcoin", nil)
	rec := httptest.NewRecorder()
	c.ListCourses(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "crypto", svc.gotFilter.CategoryID)
	assert.Equal(t, "beginner", svc.gotFilter.Level)
	assert.Equal(t, "bitcoin", svc.gotFilter.Query)
}

func TestGetCourseNotFound(t *testing.T) {
	svc := &stubCatalogService{err: services.EntityNotFoundError("course", "missing")}
	c := newTestController(svc)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/courses/{id}", c.GetCourse)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/courses/missing", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)

	var body struct {
		Success bool   `json:"success"`
		Detail  string `json:"detail"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "course not found", body.Detail)
}

func TestCreateCourseRejectsBadJSON(t *testing.T) {
	c := newTestController(&stubCatalogService{})

	req := httptest.NewRequest(http.MethodPost, "/api/courses", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	c.CreateCourse(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateCourseCreated(t *testing.T) {
	svc := &stubCatalogService{course: &models.Course{ID: "course-9", Title: "Obligasi 101"}}
	c := newTestController(svc)

	payload := `{"title":"Obligasi 101","description":"Dasar obligasi","category":"bonds","level":"beginner","price":100000,"mentor_name":"Siti Rahma","duration":"4 jam"}`
	req := httptest.NewRequest(http.MethodPost, "/api/courses", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	c.CreateCourse(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var body struct {
		Data models.Course `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "course-9", body.Data.ID)
}
