package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"codeatlas/internal/application/common/logging"
	"codeatlas/internal/config"
	"codeatlas/internal/domain/messaging"
	"codeatlas/internal/port/outbound"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

const (
	// NATS connection timeout.
	natsConnectionTimeoutSeconds = 5

	// Stream configuration.
	streamMaxAgeHours = 24

	// AnalysisStreamName is the JetStream stream holding analysis jobs.
	AnalysisStreamName = "ANALYSIS"

	// AnalysisJobSubject is the subject analysis jobs are published to.
	AnalysisJobSubject = "analysis.jobs"

	// Circuit breaker tuning.
	circuitMaxFailures  = 3
	circuitOpenDuration = 30 * time.Second
)

// MessageMetrics tracks message publishing metrics.
type MessageMetrics struct {
	PublishedCount    int64         `json:"published_count"`
	FailedCount       int64         `json:"failed_count"`
	AverageLatency    time.Duration `json:"average_latency"`
	LastPublishedTime time.Time     `json:"last_published_time"`
}

// NATSMessagePublisher provides a NATS JetStream implementation of MessagePublisher.
type NATSMessagePublisher struct {
	config config.NATSConfig
	conn   *nats.Conn
	js     nats.JetStreamContext
	logger logging.ApplicationLogger

	mutex          sync.RWMutex
	connectedAt    time.Time
	reconnectCount int
	lastError      error
	messageMetrics MessageMetrics

	// Circuit breaker state
	circuitBreakerOpen bool
	lastFailureTime    time.Time
	failureCount       int
}

// NewNATSMessagePublisher creates a new NATS message publisher. The publisher
// is not connected until Connect is called.
func NewNATSMessagePublisher(cfg config.NATSConfig, logger logging.ApplicationLogger) (*NATSMessagePublisher, error) {
	if cfg.URL == "" {
		return nil, errors.New("NATS URL cannot be empty")
	}
	if !strings.HasPrefix(cfg.URL, "nats://") {
		return nil, errors.New("invalid NATS URL scheme")
	}
	if cfg.MaxReconnects < 0 {
		return nil, errors.New("max reconnects cannot be negative")
	}
	if cfg.ReconnectWait < 0 {
		return nil, errors.New("reconnect wait cannot be negative")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	return &NATSMessagePublisher{
		config: cfg,
		logger: logger,
	}, nil
}

// Connect establishes the connection to the NATS server and creates the
// JetStream context.
func (n *NATSMessagePublisher) Connect() error {
	opts := []nats.Option{
		nats.MaxReconnects(n.config.MaxReconnects),
		nats.ReconnectWait(n.config.ReconnectWait),
		nats.Timeout(natsConnectionTimeoutSeconds * time.Second),
		nats.ReconnectHandler(func(conn *nats.Conn) {
			n.mutex.Lock()
			n.reconnectCount++
			attempt := n.reconnectCount
			n.mutex.Unlock()
			logging.LogNATSConnectionEvent(context.Background(), n.logger, logging.NATSConnectionEvent{
				Event:   "reconnected",
				URL:     conn.ConnectedUrl(),
				Attempt: attempt,
			})
		}),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			n.recordError(err)
			event := logging.NATSConnectionEvent{Event: "disconnected", URL: n.config.URL}
			if err != nil {
				event.Error = err.Error()
			}
			logging.LogNATSConnectionEvent(context.Background(), n.logger, event)
		}),
	}

	conn, err := nats.Connect(n.config.URL, opts...)
	if err != nil {
		n.recordError(err)
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		n.recordError(err)
		return fmt.Errorf("failed to create JetStream context: %w", err)
	}

	n.mutex.Lock()
	n.conn = conn
	n.js = js
	n.connectedAt = time.Now()
	n.mutex.Unlock()

	logging.LogNATSConnectionEvent(context.Background(), n.logger, logging.NATSConnectionEvent{
		Event: "connected",
		URL:   conn.ConnectedUrl(),
	})
	return nil
}

// Disconnect closes the NATS connection.
func (n *NATSMessagePublisher) Disconnect() error {
	n.mutex.Lock()
	defer n.mutex.Unlock()

	if n.conn != nil {
		n.conn.Close()
		n.conn = nil
		n.js = nil
	}

	logging.LogNATSConnectionEvent(context.Background(), n.logger, logging.NATSConnectionEvent{
		Event: "closed",
		URL:   n.config.URL,
	})
	return nil
}

// EnsureStream creates the analysis job stream if it does not exist.
func (n *NATSMessagePublisher) EnsureStream() error {
	n.mutex.RLock()
	js := n.js
	n.mutex.RUnlock()

	if js == nil {
		return errors.New("not connected to NATS server")
	}

	streamConfig := &nats.StreamConfig{
		Name:      AnalysisStreamName,
		Subjects:  []string{"analysis.>"},
		Storage:   nats.FileStorage,
		Retention: nats.WorkQueuePolicy,
		MaxAge:    streamMaxAgeHours * time.Hour, // Jobs expire after 1 day
		Replicas:  1,
	}

	if _, err := js.AddStream(streamConfig); err != nil {
		// Stream may already exist with the same configuration.
		if _, infoErr := js.StreamInfo(AnalysisStreamName); infoErr == nil {
			return nil
		}
		return fmt.Errorf("failed to create stream: %w", err)
	}

	return nil
}

// PublishAnalysisJob publishes an analysis job message to the job stream.
func (n *NATSMessagePublisher) PublishAnalysisJob(
	ctx context.Context,
	jobID uuid.UUID,
	projectID uuid.UUID,
	rootPath string,
) error {
	start := time.Now()

	select {
	case <-ctx.Done():
		n.updateMetrics(false, time.Since(start))
		return ctx.Err()
	default:
	}

	if err := validateJobInputs(jobID, projectID, rootPath); err != nil {
		return err
	}

	if n.isCircuitBreakerOpen() {
		n.updateMetrics(false, time.Since(start))
		return errors.New("circuit breaker open: too many recent failures")
	}

	n.mutex.RLock()
	js := n.js
	n.mutex.RUnlock()

	if js == nil {
		n.updateMetrics(false, time.Since(start))
		return errors.New("publish failed: not connected to NATS")
	}

	msg := messaging.NewAnalysisJobMessage(jobID, projectID, rootPath)
	data, err := json.Marshal(msg)
	if err != nil {
		n.updateMetrics(false, time.Since(start))
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	if _, err := js.PublishAsync(AnalysisJobSubject, data, nats.Context(ctx)); err != nil {
		n.updateMetrics(false, time.Since(start))
		logging.LogNATSPublishEvent(ctx, n.logger, logging.NATSPublishEvent{
			Subject:   AnalysisJobSubject,
			MessageID: msg.MessageID,
			Bytes:     len(data),
			Duration:  time.Since(start),
			Success:   false,
			Error:     err.Error(),
		})
		return fmt.Errorf("failed to publish message: %w", err)
	}

	n.updateMetrics(true, time.Since(start))
	logging.LogNATSPublishEvent(ctx, n.logger, logging.NATSPublishEvent{
		Subject:   AnalysisJobSubject,
		MessageID: msg.MessageID,
		Bytes:     len(data),
		Duration:  time.Since(start),
		Success:   true,
	})
	return nil
}

func validateJobInputs(jobID, projectID uuid.UUID, rootPath string) error {
	if jobID == uuid.Nil {
		return errors.New("job ID cannot be nil")
	}
	if projectID == uuid.Nil {
		return errors.New("project ID cannot be nil")
	}
	if rootPath == "" {
		return errors.New("root path cannot be empty")
	}
	if !filepath.IsAbs(rootPath) {
		return errors.New("root path must be absolute")
	}
	return nil
}

// GetConnectionHealth returns the current connection health status.
func (n *NATSMessagePublisher) GetConnectionHealth() outbound.MessagePublisherHealthStatus {
	n.mutex.RLock()
	defer n.mutex.RUnlock()

	connected := n.conn != nil && n.conn.IsConnected()
	status := outbound.MessagePublisherHealthStatus{
		Connected:        connected,
		JetStreamEnabled: n.js != nil,
		Reconnects:       n.reconnectCount,
	}

	if connected {
		status.Uptime = time.Since(n.connectedAt).String()
	} else {
		status.Uptime = "0s"
	}

	if n.lastError != nil {
		status.LastError = n.lastError.Error()
	}

	if n.circuitBreakerOpen {
		status.CircuitBreaker = "open"
	} else {
		status.CircuitBreaker = "closed"
	}

	return status
}

// GetMessageMetrics returns current message publishing metrics.
func (n *NATSMessagePublisher) GetMessageMetrics() outbound.MessagePublisherMetrics {
	n.mutex.RLock()
	defer n.mutex.RUnlock()

	return outbound.MessagePublisherMetrics{
		PublishedCount: n.messageMetrics.PublishedCount,
		FailedCount:    n.messageMetrics.FailedCount,
		AverageLatency: n.messageMetrics.AverageLatency.String(),
	}
}

func (n *NATSMessagePublisher) recordError(err error) {
	if err == nil {
		return
	}
	n.mutex.Lock()
	n.lastError = err
	n.mutex.Unlock()
}

// updateMetrics updates message publishing metrics and the circuit breaker.
func (n *NATSMessagePublisher) updateMetrics(success bool, latency time.Duration) {
	n.mutex.Lock()
	defer n.mutex.Unlock()

	if success {
		n.messageMetrics.PublishedCount++
		n.messageMetrics.LastPublishedTime = time.Now()

		// Exponential moving average with alpha = 0.1.
		if n.messageMetrics.AverageLatency == 0 {
			n.messageMetrics.AverageLatency = latency
		} else {
			n.messageMetrics.AverageLatency = time.Duration(
				0.9*float64(n.messageMetrics.AverageLatency) + 0.1*float64(latency),
			)
		}
		n.failureCount = 0
		n.circuitBreakerOpen = false
		return
	}

	n.messageMetrics.FailedCount++
	n.failureCount++
	n.lastFailureTime = time.Now()

	if n.failureCount >= circuitMaxFailures {
		n.circuitBreakerOpen = true
	}
}

// isCircuitBreakerOpen checks if the circuit breaker is currently open and
// transitions it back to closed after the cool-down period.
func (n *NATSMessagePublisher) isCircuitBreakerOpen() bool {
	n.mutex.Lock()
	defer n.mutex.Unlock()

	if n.circuitBreakerOpen && time.Since(n.lastFailureTime) > circuitOpenDuration {
		n.circuitBreakerOpen = false
		n.failureCount = 0
	}

	return n.circuitBreakerOpen
}

// ResetCircuitBreaker resets the circuit breaker state.
func (n *NATSMessagePublisher) ResetCircuitBreaker() {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	n.circuitBreakerOpen = false
	n.failureCount = 0
	n.lastFailureTime = time.Time{}
}
