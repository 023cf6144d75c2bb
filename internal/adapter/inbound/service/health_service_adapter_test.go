package service

import (
	"context"
	"testing"

	"codeatlas/internal/application/dto"
	"codeatlas/internal/port/outbound"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDatabaseHealth struct {
	healthy bool
}

func (s stubDatabaseHealth) IsHealthy(_ context.Context) bool {
	return s.healthy
}

type stubPublisherHealth struct {
	health outbound.MessagePublisherHealthStatus
}

func (s stubPublisherHealth) GetConnectionHealth() outbound.MessagePublisherHealthStatus {
	return s.health
}

func (s stubPublisherHealth) GetMessageMetrics() outbound.MessagePublisherMetrics {
	return outbound.MessagePublisherMetrics{}
}

func healthyPublisher() stubPublisherHealth {
	return stubPublisherHealth{health: outbound.MessagePublisherHealthStatus{
		Connected:        true,
		JetStreamEnabled: true,
		CircuitBreaker:   "closed",
	}}
}

func TestGetHealth_AllDependenciesHealthy(t *testing.T) {
	adapter := NewHealthServiceAdapter(stubDatabaseHealth{healthy: true}, healthyPublisher(), "1.0.0")

	response, err := adapter.GetHealth(context.Background())
	require.NoError(t, err)

	assert.Equal(t, string(dto.HealthStatusHealthy), response.Status)
	assert.Equal(t, "1.0.0", response.Version)
	assert.Equal(t, string(dto.DependencyStatusHealthy), response.Dependencies["database"].Status)
	assert.Equal(t, string(dto.DependencyStatusHealthy), response.Dependencies["nats"].Status)
}

func TestGetHealth_DatabaseDown_Degraded(t *testing.T) {
	adapter := NewHealthServiceAdapter(stubDatabaseHealth{healthy: false}, healthyPublisher(), "1.0.0")

	response, err := adapter.GetHealth(context.Background())
	require.NoError(t, err)

	assert.Equal(t, string(dto.HealthStatusDegraded), response.Status)
	assert.Equal(t, string(dto.DependencyStatusUnhealthy), response.Dependencies["database"].Status)
}

func TestGetHealth_AllDependenciesDown_Unhealthy(t *testing.T) {
	publisher := stubPublisherHealth{health: outbound.MessagePublisherHealthStatus{
		Connected: false,
	}}
	adapter := NewHealthServiceAdapter(stubDatabaseHealth{healthy: false}, publisher, "1.0.0")

	response, err := adapter.GetHealth(context.Background())
	require.NoError(t, err)

	assert.Equal(t, string(dto.HealthStatusUnhealthy), response.Status)
	assert.Equal(t, "NATS connection lost", response.Dependencies["nats"].Message)
}

func TestGetHealth_CircuitBreakerOpen(t *testing.T) {
	publisher := stubPublisherHealth{health: outbound.MessagePublisherHealthStatus{
		Connected:        true,
		JetStreamEnabled: true,
		CircuitBreaker:   "open",
	}}
	adapter := NewHealthServiceAdapter(stubDatabaseHealth{healthy: true}, publisher, "1.0.0")

	response, err := adapter.GetHealth(context.Background())
	require.NoError(t, err)

	assert.Equal(t, string(dto.HealthStatusDegraded), response.Status)
	assert.Equal(t, "NATS publish circuit breaker open", response.Dependencies["nats"].Message)
}

func TestGetHealth_NilDependenciesSkipped(t *testing.T) {
	adapter := NewHealthServiceAdapter(nil, nil, "1.0.0")

	response, err := adapter.GetHealth(context.Background())
	require.NoError(t, err)

	assert.Equal(t, string(dto.HealthStatusHealthy), response.Status)
	assert.Empty(t, response.Dependencies)
}
