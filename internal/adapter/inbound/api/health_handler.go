package api

import (
	"net/http"

	"codeatlas/internal/application/dto"
	"codeatlas/internal/port/inbound"
)

// HealthHandler handles HTTP requests for the health endpoint.
type HealthHandler struct {
	healthService inbound.HealthService
	errorHandler  ErrorHandler
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(healthService inbound.HealthService, errorHandler ErrorHandler) *HealthHandler {
	return &HealthHandler{
		healthService: healthService,
		errorHandler:  errorHandler,
	}
}

// GetHealth handles GET /health. Healthy and degraded states answer 200 so
// load balancers keep routing while a single dependency recovers; only a
// fully unhealthy service answers 503.
func (h *HealthHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	response, err := h.healthService.GetHealth(r.Context())
	if err != nil {
		h.errorHandler.HandleServiceError(w, r, err)
		return
	}

	status := http.StatusOK
	if response.Status == string(dto.HealthStatusUnhealthy) {
		status = http.StatusServiceUnavailable
	}

	if err := WriteJSON(w, status, response); err != nil {
		h.errorHandler.HandleServiceError(w, r, err)
	}
}
