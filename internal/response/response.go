package response

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"skofie/internal/contextutils"
	"skofie/internal/services"

	"go.uber.org/zap"
)

// ===============================
// RESPONSE CONFIGURATION
// ===============================

// Config holds configuration for the response system
type Config struct {
	PrettyJSON         bool   `json:"pretty_json"`
	IncludeRequestID   bool   `json:"include_request_id"`
	IncludeTimestamp   bool   `json:"include_timestamp"`
	IncludeVersion     bool   `json:"include_version"`
	APIVersion         string `json:"api_version"`
	MaskInternalErrors bool   `json:"mask_internal_errors"`
}

// DefaultConfig returns production-ready response configuration
func DefaultConfig() *Config {
	return &Config{
		PrettyJSON:         false,
		IncludeRequestID:   true,
		IncludeTimestamp:   true,
		IncludeVersion:     true,
		APIVersion:         "v1",
		MaskInternalErrors: true,
	}
}

// ===============================
// RESPONSE TYPES
// ===============================

// APIResponse represents a standardized API response.
//
// Error responses additionally mirror the error message into the top-level
// Detail field so clients can read failures from a single well-known key.
type APIResponse struct {
	Success   bool         `json:"success"`
	Data      interface{}  `json:"data,omitempty"`
	Error     *ErrorDetail `json:"error,omitempty"`
	Detail    string       `json:"detail,omitempty"`
	RequestID string       `json:"request_id,omitempty"`
	Timestamp int64        `json:"timestamp,omitempty"`
	Version   string       `json:"version,omitempty"`
}

// ErrorDetail represents error information in API responses
type ErrorDetail struct {
	Type    string                 `json:"type"`
	Message string                 `json:"message"`
	Code    string                 `json:"code,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ===============================
// RESPONSE BUILDER
// ===============================

// Builder helps construct standardized responses
type Builder struct {
	config *Config
	logger *zap.Logger
}

// NewBuilder creates a new response builder
func NewBuilder(config *Config, logger *zap.Logger) *Builder {
	if config == nil {
		config = DefaultConfig()
	}
	return &Builder{
		config: config,
		logger: logger,
	}
}

// Success creates a successful API response
func (b *Builder) Success(ctx context.Context, data interface{}) *APIResponse {
	return &APIResponse{
		Success:   true,
		Data:      data,
		RequestID: b.getRequestID(ctx),
		Timestamp: b.getTimestamp(),
		Version:   b.getVersion(),
	}
}

// Error creates an error response from a service error
func (b *Builder) Error(ctx context.Context, err error) *APIResponse {
	errorDetail := b.convertError(err)

	response := &APIResponse{
		Success:   false,
		Error:     errorDetail,
		Detail:    errorDetail.Message,
		RequestID: b.getRequestID(ctx),
		Timestamp: b.getTimestamp(),
		Version:   b.getVersion(),
	}

	b.logError(ctx, err, errorDetail)

	return response
}

// ===============================
// HTTP RESPONSE WRITERS
// ===============================

// WriteJSON writes a JSON response with appropriate headers
func (b *Builder) WriteJSON(w http.ResponseWriter, r *http.Request, response *APIResponse, statusCode int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(statusCode)

	encoder := json.NewEncoder(w)
	if b.config.PrettyJSON {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(response); err != nil {
		b.logger.Error("failed to encode JSON response",
			zap.Error(err),
			zap.String("request_id", b.getRequestID(r.Context())),
		)
	}
}

// WriteSuccess writes a successful JSON response
func (b *Builder) WriteSuccess(w http.ResponseWriter, r *http.Request, data interface{}) {
	response := b.Success(r.Context(), data)
	b.WriteJSON(w, r, response, http.StatusOK)
}

// WriteCreated writes a successful creation response
func (b *Builder) WriteCreated(w http.ResponseWriter, r *http.Request, data interface{}) {
	response := b.Success(r.Context(), data)
	b.WriteJSON(w, r, response, http.StatusCreated)
}

// WriteError writes an error response with appropriate status code
func (b *Builder) WriteError(w http.ResponseWriter, r *http.Request, err error) {
	response := b.Error(r.Context(), err)
	statusCode := b.getStatusCodeFromError(err)
	b.WriteJSON(w, r, response, statusCode)
}

// ===============================
// UTILITY METHODS
// ===============================

// convertError converts various error types to ErrorDetail
func (b *Builder) convertError(err error) *ErrorDetail {
	if err == nil {
		return nil
	}

	serviceErr := services.GetServiceError(err)
	detail := &ErrorDetail{
		Type:    serviceErr.Type,
		Message: serviceErr.Message,
		Code:    serviceErr.Code,
		Details: serviceErr.Details,
	}

	if b.config.MaskInternalErrors && serviceErr.Type == "INTERNAL_ERROR" {
		detail.Message = "An internal error occurred"
		detail.Details = nil
	}

	return detail
}

// getStatusCodeFromError determines HTTP status code from error
func (b *Builder) getStatusCodeFromError(err error) int {
	if serviceErr := services.GetServiceError(err); serviceErr != nil {
		return serviceErr.GetStatusCode()
	}
	return http.StatusInternalServerError
}

func (b *Builder) getRequestID(ctx context.Context) string {
	if !b.config.IncludeRequestID {
		return ""
	}
	return contextutils.GetRequestID(ctx)
}

func (b *Builder) getTimestamp() int64 {
	if !b.config.IncludeTimestamp {
		return 0
	}
	return time.Now().Unix()
}

func (b *Builder) getVersion() string {
	if !b.config.IncludeVersion {
		return ""
	}
	return b.config.APIVersion
}

func (b *Builder) logError(ctx context.Context, err error, errorDetail *ErrorDetail) {
	requestID := b.getRequestID(ctx)

	switch errorDetail.Type {
	case "INTERNAL_ERROR":
		b.logger.Error("internal error",
			zap.String("request_id", requestID),
			zap.String("error_type", errorDetail.Type),
			zap.Error(err),
		)
	default:
		b.logger.Warn("request error",
			zap.String("request_id", requestID),
			zap.String("error_type", errorDetail.Type),
			zap.String("error_message", errorDetail.Message),
		)
	}
}

// ===============================
// CONTEXT HELPERS
// ===============================

type contextKey string

const builderContextKey contextKey = "response_builder"

// GetBuilder extracts response builder from context.
// Returns nil if no builder is found in the context.
func GetBuilder(ctx context.Context) *Builder {
	if builder, ok := ctx.Value(builderContextKey).(*Builder); ok {
		return builder
	}
	return nil
}

// SetBuilder stores response builder in context
func SetBuilder(ctx context.Context, builder *Builder) context.Context {
	return context.WithValue(ctx, builderContextKey, builder)
}

// ===============================
// HELPER FUNCTIONS
// ===============================

// QuickSuccess is a helper for simple success responses
func QuickSuccess(w http.ResponseWriter, r *http.Request, data interface{}) {
	if builder := GetBuilder(r.Context()); builder != nil {
		builder.WriteSuccess(w, r, data)
		return
	}

	defaultBuilder := NewBuilder(DefaultConfig(), zap.NewNop())
	defaultBuilder.WriteSuccess(w, r, data)
}

// QuickError is a helper for simple error responses
func QuickError(w http.ResponseWriter, r *http.Request, err error) {
	if builder := GetBuilder(r.Context()); builder != nil {
		builder.WriteError(w, r, err)
		return
	}

	defaultBuilder := NewBuilder(DefaultConfig(), zap.NewNop())
	defaultBuilder.WriteError(w, r, err)
}

// ===============================
// RESPONSE MIDDLEWARE
// ===============================

// Middleware injects the response builder into the request context
func Middleware(builder *Builder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := SetBuilder(r.Context(), builder)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
