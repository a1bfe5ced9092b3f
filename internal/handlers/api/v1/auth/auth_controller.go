package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"skofie/internal/response"
	"skofie/internal/services"

	"go.uber.org/zap"
)

// Controller handles authentication API endpoints
type Controller struct {
	services        *services.ServiceCollection
	logger          *zap.Logger
	responseBuilder *response.Builder
}

// NewController creates the auth controller
func NewController(sc *services.ServiceCollection, logger *zap.Logger, responseBuilder *response.Builder) *Controller {
	return &Controller{
		services:        sc,
		logger:          logger,
		responseBuilder: responseBuilder,
	}
}

// Register handles POST /api/auth/register
func (c *Controller) Register(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	var req services.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.responseBuilder.WriteError(w, r, services.NewValidationError("invalid request body", err))
		return
	}

	authResp, err := c.services.Auth.Register(ctx, &req)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.responseBuilder.WriteCreated(w, r, authResp)
}

// Login handles POST /api/auth/login
func (c *Controller) Login(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	var req services.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.responseBuilder.WriteError(w, r, services.NewValidationError("invalid request body", err))
		return
	}

	authResp, err := c.services.Auth.Login(ctx, &req)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.responseBuilder.WriteSuccess(w, r, authResp)
}
