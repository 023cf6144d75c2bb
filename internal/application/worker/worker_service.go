package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"codeatlas/internal/application/common/slogger"
	"codeatlas/internal/port/inbound"
)

// DefaultWorkerService ties a message consumer to a job processor and
// manages their shared lifecycle. Start is idempotent-unsafe by design: a
// running service must be stopped before it can start again.
type DefaultWorkerService struct {
	consumer  inbound.Consumer
	processor inbound.JobProcessor

	mu        sync.RWMutex
	running   bool
	startedAt time.Time
	lastError string
}

// NewDefaultWorkerService creates a new worker service.
func NewDefaultWorkerService(consumer inbound.Consumer, processor inbound.JobProcessor) *DefaultWorkerService {
	if consumer == nil {
		panic("consumer cannot be nil")
	}
	if processor == nil {
		panic("processor cannot be nil")
	}
	return &DefaultWorkerService{
		consumer:  consumer,
		processor: processor,
	}
}

// Start connects the consumer and begins processing messages.
func (s *DefaultWorkerService) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return errors.New("worker service is already running")
	}

	if err := s.consumer.Start(ctx); err != nil {
		s.lastError = err.Error()
		return fmt.Errorf("failed to start consumer: %w", err)
	}

	s.running = true
	s.startedAt = time.Now()
	s.lastError = ""

	slogger.Info(ctx, "Worker service started", slogger.Fields{
		"subject":      s.consumer.Subject(),
		"queue_group":  s.consumer.QueueGroup(),
		"durable_name": s.consumer.DurableName(),
	})
	return nil
}

// Stop drains the consumer and waits for in-flight jobs to finish.
func (s *DefaultWorkerService) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return errors.New("worker service is not running")
	}

	var stopErr error
	if err := s.consumer.Stop(ctx); err != nil {
		stopErr = fmt.Errorf("failed to stop consumer: %w", err)
		s.lastError = err.Error()
	}

	if err := s.processor.Cleanup(); err != nil {
		if stopErr == nil {
			stopErr = fmt.Errorf("failed to drain job processor: %w", err)
		}
		s.lastError = err.Error()
	}

	s.running = false

	slogger.Info(ctx, "Worker service stopped", slogger.Fields{
		"uptime": time.Since(s.startedAt).String(),
	})
	return stopErr
}

// Health returns the aggregated health of the consumer and processor.
func (s *DefaultWorkerService) Health() inbound.WorkerServiceHealthStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var uptime time.Duration
	if s.running {
		uptime = time.Since(s.startedAt)
	}

	return inbound.WorkerServiceHealthStatus{
		IsRunning:          s.running,
		ConsumerHealth:     s.consumer.Health(),
		JobProcessorHealth: s.processor.GetHealthStatus(),
		LastHealthCheck:    time.Now(),
		ServiceUptime:      uptime,
		LastError:          s.lastError,
	}
}

// GetMetrics returns the aggregated metrics of the consumer and processor.
func (s *DefaultWorkerService) GetMetrics() inbound.WorkerServiceMetrics {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := s.consumer.GetStats()
	jobMetrics := s.processor.GetMetrics()

	return inbound.WorkerServiceMetrics{
		TotalMessagesProcessed: stats.MessagesProcessed,
		TotalMessagesFailed:    stats.MessagesFailed,
		AverageProcessingTime:  jobMetrics.AverageProcessingTime,
		ConsumerMetrics:        stats,
		JobProcessorMetrics:    jobMetrics,
		ServiceStartTime:       s.startedAt,
	}
}

var _ inbound.WorkerService = (*DefaultWorkerService)(nil)
