package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"codeatlas/internal/domain/messaging"
	"codeatlas/internal/port/inbound"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeConsumer is a controllable inbound.Consumer for lifecycle tests.
type fakeConsumer struct {
	startErr error
	stopErr  error
	started  int
	stopped  int
	stats    inbound.ConsumerStats
	health   inbound.ConsumerHealthStatus
}

func (c *fakeConsumer) Start(_ context.Context) error {
	if c.startErr != nil {
		return c.startErr
	}
	c.started++
	return nil
}

func (c *fakeConsumer) Stop(_ context.Context) error {
	if c.stopErr != nil {
		return c.stopErr
	}
	c.stopped++
	return nil
}

func (c *fakeConsumer) Health() inbound.ConsumerHealthStatus { return c.health }
func (c *fakeConsumer) GetStats() inbound.ConsumerStats      { return c.stats }
func (c *fakeConsumer) QueueGroup() string                   { return "analysis-workers" }
func (c *fakeConsumer) Subject() string                      { return "analysis.jobs" }
func (c *fakeConsumer) DurableName() string                  { return "analysis-consumer" }

// idleProcessor satisfies inbound.JobProcessor with static values.
type idleProcessor struct {
	metrics inbound.JobProcessorMetrics
}

func (p *idleProcessor) ProcessJob(context.Context, messaging.AnalysisJobMessage) error { return nil }

func (p *idleProcessor) GetHealthStatus() inbound.JobProcessorHealthStatus {
	return inbound.JobProcessorHealthStatus{IsReady: true}
}

func (p *idleProcessor) GetMetrics() inbound.JobProcessorMetrics { return p.metrics }
func (p *idleProcessor) Cleanup() error                          { return nil }

func TestWorkerService_StartStop(t *testing.T) {
	consumer := &fakeConsumer{}
	svc := NewDefaultWorkerService(consumer, &idleProcessor{})

	require.NoError(t, svc.Start(context.Background()))
	assert.Equal(t, 1, consumer.started)
	assert.True(t, svc.Health().IsRunning)

	require.NoError(t, svc.Stop(context.Background()))
	assert.Equal(t, 1, consumer.stopped)
	assert.False(t, svc.Health().IsRunning)
}

func TestWorkerService_DoubleStartRejected(t *testing.T) {
	svc := NewDefaultWorkerService(&fakeConsumer{}, &idleProcessor{})

	require.NoError(t, svc.Start(context.Background()))
	err := svc.Start(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "already running")
}

func TestWorkerService_StopWithoutStart(t *testing.T) {
	svc := NewDefaultWorkerService(&fakeConsumer{}, &idleProcessor{})

	err := svc.Stop(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not running")
}

func TestWorkerService_ConsumerStartFailure(t *testing.T) {
	consumer := &fakeConsumer{startErr: errors.New("connection refused")}
	svc := NewDefaultWorkerService(consumer, &idleProcessor{})

	err := svc.Start(context.Background())

	require.Error(t, err)
	health := svc.Health()
	assert.False(t, health.IsRunning)
	assert.Contains(t, health.LastError, "connection refused")
}

func TestWorkerService_MetricsAggregation(t *testing.T) {
	consumer := &fakeConsumer{stats: inbound.ConsumerStats{
		MessagesReceived:  10,
		MessagesProcessed: 8,
		MessagesFailed:    2,
	}}
	processor := &idleProcessor{metrics: inbound.JobProcessorMetrics{
		TotalJobsProcessed:    8,
		AverageProcessingTime: 250 * time.Millisecond,
	}}
	svc := NewDefaultWorkerService(consumer, processor)
	require.NoError(t, svc.Start(context.Background()))

	metrics := svc.GetMetrics()

	assert.Equal(t, int64(8), metrics.TotalMessagesProcessed)
	assert.Equal(t, int64(2), metrics.TotalMessagesFailed)
	assert.Equal(t, 250*time.Millisecond, metrics.AverageProcessingTime)
	assert.False(t, metrics.ServiceStartTime.IsZero())
}
