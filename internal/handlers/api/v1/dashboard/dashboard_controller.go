package dashboard

import (
	"context"
	"net/http"
	"time"

	"skofie/internal/contextutils"
	"skofie/internal/response"
	"skofie/internal/services"

	"go.uber.org/zap"
)

// Controller handles the user dashboard API endpoint
type Controller struct {
	services        *services.ServiceCollection
	logger          *zap.Logger
	responseBuilder *response.Builder
}

// NewController creates the dashboard controller
func NewController(sc *services.ServiceCollection, logger *zap.Logger, responseBuilder *response.Builder) *Controller {
	return &Controller{
		services:        sc,
		logger:          logger,
		responseBuilder: responseBuilder,
	}
}

// GetDashboard handles GET /api/user/dashboard
func (c *Controller) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	userID := contextutils.GetUserID(ctx)
	if userID == "" {
		c.responseBuilder.WriteError(w, r, services.NewUnauthorizedError("authentication required"))
		return
	}

	dashboard, err := c.services.Dashboard.GetDashboard(ctx, userID)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.responseBuilder.WriteSuccess(w, r, dashboard)
}
