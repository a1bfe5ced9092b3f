package payments

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"skofie/internal/contextutils"
	"skofie/internal/response"
	"skofie/internal/services"

	"go.uber.org/zap"
)

// Controller handles the purchase API endpoint
type Controller struct {
	services        *services.ServiceCollection
	logger          *zap.Logger
	responseBuilder *response.Builder
}

// NewController creates the payments controller
func NewController(sc *services.ServiceCollection, logger *zap.Logger, responseBuilder *response.Builder) *Controller {
	return &Controller{
		services:        sc,
		logger:          logger,
		responseBuilder: responseBuilder,
	}
}

// Purchase handles POST /api/payments/purchase
func (c *Controller) Purchase(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	userID := contextutils.GetUserID(ctx)
	if userID == "" {
		c.responseBuilder.WriteError(w, r, services.NewUnauthorizedError("authentication required"))
		return
	}

	var req services.PurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.responseBuilder.WriteError(w, r, services.NewValidationError("invalid request body", err))
		return
	}

	resp, err := c.services.Payment.Purchase(ctx, userID, &req)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.responseBuilder.WriteSuccess(w, r, resp)
}
