package router

import (
	"context"
	"net/http"
	"time"

	"skofie/internal/cache"
	"skofie/internal/database"
	"skofie/internal/events"
	"skofie/internal/handlers/api/v1/auth"
	"skofie/internal/handlers/api/v1/catalog"
	"skofie/internal/handlers/api/v1/dashboard"
	"skofie/internal/handlers/api/v1/payments"
	"skofie/internal/middleware"
	"skofie/internal/models"
	"skofie/internal/response"
	"skofie/internal/services"

	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// Dependencies carries everything the router needs beyond the service layer.
type Dependencies struct {
	Services       *services.ServiceCollection
	AuthMiddleware *middleware.AuthMiddleware
	Builder        *response.Builder
	DB             *database.Manager
	Cache          cache.Cache
	Events         events.EventBus
	CORSOrigin     string
	Logger         *zap.Logger
}

// SetupRouter configures all HTTP routes and returns the main handler
func SetupRouter(deps Dependencies) http.Handler {
	mux := http.NewServeMux()

	authController := auth.NewController(deps.Services, deps.Logger, deps.Builder)
	catalogController := catalog.NewController(deps.Services, deps.Logger, deps.Builder)
	paymentsController := payments.NewController(deps.Services, deps.Logger, deps.Builder)
	dashboardController := dashboard.NewController(deps.Services, deps.Logger, deps.Builder)

	// ===============================
	// PUBLIC CATALOG ENDPOINTS
	// ===============================

	mux.HandleFunc("GET /api/categories", catalogController.ListCategories)
	mux.HandleFunc("GET /api/courses", catalogController.ListCourses)
	mux.HandleFunc("GET /api/courses/{id}", catalogController.GetCourse)

	// ===============================
	// PUBLIC AUTH ENDPOINTS
	// ===============================

	mux.HandleFunc("POST /api/auth/register", authController.Register)
	mux.HandleFunc("POST /api/auth/login", authController.Login)

	// ===============================
	// AUTHENTICATED ENDPOINTS
	// ===============================

	requireAuth := deps.AuthMiddleware.RequireAuth()
	requireAdmin := deps.AuthMiddleware.RequireRole(models.RoleAdmin)

	mux.Handle("POST /api/payments/purchase", requireAuth(http.HandlerFunc(paymentsController.Purchase)))
	mux.Handle("GET /api/user/dashboard", requireAuth(http.HandlerFunc(dashboardController.GetDashboard)))

	// ===============================
	// ADMIN ENDPOINTS
	// ===============================

	mux.Handle("POST /api/courses", requireAdmin(http.HandlerFunc(catalogController.CreateCourse)))

	// ===============================
	// OPERATIONAL ENDPOINTS
	// ===============================

	mux.HandleFunc("GET /health", healthHandler(deps))

	mux.HandleFunc("/swagger/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/swagger" {
			http.Redirect(w, r, "/swagger/", http.StatusMovedPermanently)
			return
		}
		httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		).ServeHTTP(w, r)
	})
	mux.HandleFunc("GET /swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		http.ServeFile(w, r, "./docs/swagger.json")
	})

	// Middleware chain, outermost first
	handler := http.Handler(mux)
	handler = response.Middleware(deps.Builder)(handler)
	handler = middleware.SecureHeaders(handler)
	handler = middleware.CORS(deps.CORSOrigin)(handler)
	handler = middleware.RecoverPanic(deps.Logger)(handler)
	handler = middleware.EnhancedLogging(deps.Logger)(handler)
	handler = middleware.RequestID(deps.Logger)(handler)

	return handler
}

// healthHandler reports liveness of the database, cache, and event bus.
func healthHandler(deps Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		status := "healthy"
		components := map[string]string{
			"database": "healthy",
			"cache":    "healthy",
			"events":   "healthy",
		}

		if err := deps.DB.Health(ctx); err != nil {
			status = "degraded"
			components["database"] = "unhealthy"
			deps.Logger.Warn("health check: database unreachable", zap.Error(err))
		}
		if err := deps.Cache.Health(ctx); err != nil {
			status = "degraded"
			components["cache"] = "unhealthy"
			deps.Logger.Warn("health check: cache unreachable", zap.Error(err))
		}
		if deps.Events == nil {
			components["events"] = "disabled"
		}

		code := http.StatusOK
		if status != "healthy" {
			code = http.StatusServiceUnavailable
		}

		body := deps.Builder.Success(r.Context(), map[string]interface{}{
			"status":     status,
			"components": components,
			"timestamp":  time.Now().UTC(),
		})
		deps.Builder.WriteJSON(w, r, body, code)
	}
}
