package service

import (
	"context"
	"sync"
	"time"

	"codeatlas/internal/adapter/outbound/repository"
	"codeatlas/internal/application/dto"
	"codeatlas/internal/port/inbound"
	"codeatlas/internal/port/outbound"
)

const (
	// natsHealthCacheTTL bounds how often the publisher is polled for
	// connection health under request load.
	natsHealthCacheTTL = 5 * time.Second
)

// DatabaseHealthIndicator reports whether the database connection pool can
// serve queries.
type DatabaseHealthIndicator interface {
	IsHealthy(ctx context.Context) bool
}

// HealthServiceAdapter reports service liveness and dependency health. The
// NATS check is cached briefly so health probes do not hammer the publisher.
type HealthServiceAdapter struct {
	database  DatabaseHealthIndicator
	publisher outbound.MessagePublisherHealth
	version   string

	mu         sync.Mutex
	natsStatus dto.DependencyStatus
	natsAt     time.Time
}

// NewHealthServiceAdapter creates a new HealthServiceAdapter. Either
// dependency may be nil, in which case its check is skipped.
func NewHealthServiceAdapter(
	database DatabaseHealthIndicator,
	publisher outbound.MessagePublisherHealth,
	version string,
) inbound.HealthService {
	return &HealthServiceAdapter{
		database:  database,
		publisher: publisher,
		version:   version,
	}
}

// GetHealth checks each configured dependency and aggregates an overall
// status: healthy when everything passes, degraded when one dependency
// fails, unhealthy when more than one does.
func (h *HealthServiceAdapter) GetHealth(ctx context.Context) (*dto.HealthResponse, error) {
	response := &dto.HealthResponse{
		Status:       string(dto.HealthStatusHealthy),
		Timestamp:    time.Now(),
		Version:      h.version,
		Dependencies: make(map[string]dto.DependencyStatus),
	}

	if h.database != nil {
		response.Dependencies["database"] = h.checkDatabase(ctx)
	}
	if h.publisher != nil {
		response.Dependencies["nats"] = h.checkNATS()
	}

	failed := 0
	for _, status := range response.Dependencies {
		if status.Status == string(dto.DependencyStatusUnhealthy) {
			failed++
		}
	}
	switch {
	case failed == 1:
		response.Status = string(dto.HealthStatusDegraded)
	case failed > 1:
		response.Status = string(dto.HealthStatusUnhealthy)
	}

	return response, nil
}

func (h *HealthServiceAdapter) checkDatabase(ctx context.Context) dto.DependencyStatus {
	if !h.database.IsHealthy(ctx) {
		return dto.DependencyStatus{
			Status:  string(dto.DependencyStatusUnhealthy),
			Message: "Database connection failed",
		}
	}

	status := dto.DependencyStatus{Status: string(dto.DependencyStatusHealthy)}
	if provider, ok := h.database.(interface{ Stats() repository.PoolStats }); ok {
		stats := provider.Stats()
		status.Details = map[string]any{
			"total_connections":  stats.TotalConnections,
			"active_connections": stats.ActiveConnections,
			"idle_connections":   stats.IdleConnections,
		}
	}
	return status
}

func (h *HealthServiceAdapter) checkNATS() dto.DependencyStatus {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.natsAt.IsZero() && time.Since(h.natsAt) < natsHealthCacheTTL {
		return h.natsStatus
	}

	health := h.publisher.GetConnectionHealth()
	status := dto.DependencyStatus{Status: string(dto.DependencyStatusHealthy)}
	switch {
	case !health.Connected:
		status = dto.DependencyStatus{
			Status:  string(dto.DependencyStatusUnhealthy),
			Message: "NATS connection lost",
		}
	case health.CircuitBreaker == "open":
		status = dto.DependencyStatus{
			Status:  string(dto.DependencyStatusUnhealthy),
			Message: "NATS publish circuit breaker open",
		}
	case !health.JetStreamEnabled:
		status = dto.DependencyStatus{
			Status:  string(dto.DependencyStatusUnhealthy),
			Message: "JetStream unavailable",
		}
	}

	h.natsStatus = status
	h.natsAt = time.Now()
	return status
}
