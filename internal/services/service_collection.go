package services

import (
	"skofie/internal/cache"
	"skofie/internal/config"
	"skofie/internal/events"
	"skofie/internal/repositories"

	"go.uber.org/zap"
)

// ServiceCollection aggregates all services for dependency injection
type ServiceCollection struct {
	Auth      AuthService
	Catalog   CatalogService
	Payment   PaymentService
	Dashboard DashboardService

	Cache  cache.Cache
	Events events.EventBus
	Logger *zap.Logger
}

// NewServiceCollection wires services against the repositories, cache, and
// event bus.
func NewServiceCollection(
	repos *repositories.Collection,
	cacheLayer cache.Cache,
	bus events.EventBus,
	cfg *config.Config,
	logger *zap.Logger,
) *ServiceCollection {
	auth := NewAuthService(repos.User, repos.Badge, cacheLayer, bus, &cfg.Auth, logger)
	catalog := NewCatalogService(repos.Category, repos.Course, cacheLayer, logger)
	payment := NewPaymentService(
		repos.Course, repos.Enrollment, repos.Payment, repos.Badge,
		repos.Tx, cacheLayer, bus, logger,
	)
	dashboard := NewDashboardService(auth, repos.Course, repos.Payment, logger)

	return &ServiceCollection{
		Auth:      auth,
		Catalog:   catalog,
		Payment:   payment,
		Dashboard: dashboard,
		Cache:     cacheLayer,
		Events:    bus,
		Logger:    logger,
	}
}
