// Package messaging implements the NATS JetStream consumer that feeds
// analysis job messages to the worker's job processor.
package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"codeatlas/internal/application/common/logging"
	"codeatlas/internal/config"
	"codeatlas/internal/domain/messaging"
	"codeatlas/internal/port/inbound"

	"github.com/nats-io/nats.go"
)

const (
	// AnalysisStreamName is the JetStream stream holding analysis jobs.
	AnalysisStreamName = "ANALYSIS"

	// StreamRetentionHours is the retention period for stream messages.
	StreamRetentionHours = 24

	// MessagesFetchBatch is the number of messages fetched per pull request.
	MessagesFetchBatch = 10

	// MessageFetchMaxWait is the maximum wait time for fetching messages.
	MessageFetchMaxWait = 5 * time.Second

	natsConnectionTimeout = 5 * time.Second

	// ackWaitMargin is the headroom kept between the job timeout and the
	// JetStream ack wait, covering result persistence after the job's own
	// deadline fires.
	ackWaitMargin = 30 * time.Second
)

// ConsumerConfig holds configuration for the message consumer.
type ConsumerConfig struct {
	Subject       string
	QueueGroup    string
	DurableName   string
	AckWait       time.Duration
	MaxDeliver    int
	MaxAckPending int
	JobTimeout    time.Duration
}

// NATSConsumer pulls analysis job messages from JetStream and hands them to
// the job processor.
type NATSConsumer struct {
	config       ConsumerConfig
	natsConfig   config.NATSConfig
	jobProcessor inbound.JobProcessor
	logger       logging.ApplicationLogger

	mu           sync.RWMutex
	running      bool
	conn         *nats.Conn
	jsContext    nats.JetStreamContext
	subscription *nats.Subscription
	done         chan struct{}
	stats        inbound.ConsumerStats
	health       inbound.ConsumerHealthStatus
}

// NewNATSConsumer creates a new NATS consumer with validated configuration.
func NewNATSConsumer(
	consumerConfig ConsumerConfig,
	natsConfig config.NATSConfig,
	processor inbound.JobProcessor,
	logger logging.ApplicationLogger,
) (*NATSConsumer, error) {
	if err := validateConsumerConfig(consumerConfig); err != nil {
		return nil, fmt.Errorf("invalid consumer configuration: %w", err)
	}

	if processor == nil {
		return nil, errors.New("job processor cannot be nil")
	}

	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if consumerConfig.JobTimeout <= 0 {
		consumerConfig.JobTimeout = 30 * time.Second
	}

	// JetStream redelivers any message not acked within AckWait, so a wait
	// shorter than the job timeout would hand a still-running job to
	// another worker. Stretch it to cover the full job plus margin.
	if minAckWait := consumerConfig.JobTimeout + ackWaitMargin; consumerConfig.AckWait < minAckWait {
		consumerConfig.AckWait = minAckWait
	}

	return &NATSConsumer{
		config:       consumerConfig,
		natsConfig:   natsConfig,
		jobProcessor: processor,
		logger:       logger,
		stats: inbound.ConsumerStats{
			ActiveSince: time.Now(),
		},
		health: inbound.ConsumerHealthStatus{
			QueueGroup: consumerConfig.QueueGroup,
			Subject:    consumerConfig.Subject,
		},
	}, nil
}

// validateConsumerConfig performs validation of consumer configuration.
func validateConsumerConfig(config ConsumerConfig) error {
	if config.Subject == "" {
		return errors.New("subject cannot be empty")
	}
	if config.QueueGroup == "" {
		return errors.New("queue group cannot be empty")
	}
	if config.DurableName == "" {
		return errors.New("durable name cannot be empty")
	}
	if config.AckWait <= 0 {
		return errors.New("ack wait duration must be positive")
	}
	if config.MaxDeliver <= 0 {
		return errors.New("max deliver count must be positive")
	}
	if config.MaxAckPending <= 0 {
		return errors.New("max ack pending must be positive")
	}
	return nil
}

// Start connects to NATS, ensures the stream and durable consumer exist, and
// begins the message processing loop.
func (n *NATSConsumer) Start(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.running {
		return fmt.Errorf("consumer already running for subject %s", n.config.Subject)
	}

	conn, err := nats.Connect(n.natsConfig.URL,
		nats.MaxReconnects(n.natsConfig.MaxReconnects),
		nats.ReconnectWait(n.natsConfig.ReconnectWait),
		nats.Timeout(natsConnectionTimeout),
	)
	if err != nil {
		n.health.LastError = err.Error()
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		n.health.LastError = err.Error()
		return fmt.Errorf("failed to create JetStream context: %w", err)
	}

	n.conn = conn
	n.jsContext = js

	if err := n.ensureStreamExists(); err != nil {
		conn.Close()
		n.conn = nil
		n.jsContext = nil
		return err
	}

	if err := n.createDurableConsumer(); err != nil {
		conn.Close()
		n.conn = nil
		n.jsContext = nil
		return err
	}

	sub, err := js.PullSubscribe(
		n.config.Subject,
		n.config.DurableName,
		nats.Bind(AnalysisStreamName, n.config.DurableName),
	)
	if err != nil {
		conn.Close()
		n.conn = nil
		n.jsContext = nil
		return fmt.Errorf("failed to create pull subscription: %w", err)
	}

	n.subscription = sub
	n.running = true
	n.done = make(chan struct{})
	n.health.IsRunning = true
	n.health.IsConnected = true
	n.stats.ActiveSince = time.Now()

	logging.LogNATSConnectionEvent(ctx, n.logger, logging.NATSConnectionEvent{
		Event: "connected",
		URL:   conn.ConnectedUrl(),
	})

	go n.messageProcessingLoop()

	return nil
}

// Stop gracefully shuts down the consumer and closes the connection.
func (n *NATSConsumer) Stop(ctx context.Context) error {
	n.mu.Lock()

	if !n.running {
		n.mu.Unlock()
		return nil // Already stopped
	}

	n.running = false
	n.health.IsRunning = false
	n.health.IsConnected = false
	done := n.done
	n.mu.Unlock()

	// Wait for the processing loop to drain or the caller's deadline.
	select {
	case <-done:
	case <-ctx.Done():
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if n.subscription != nil {
		_ = n.subscription.Unsubscribe()
		n.subscription = nil
	}

	if n.conn != nil {
		n.conn.Close()
		n.conn = nil
		n.jsContext = nil
	}

	logging.LogNATSConnectionEvent(ctx, n.logger, logging.NATSConnectionEvent{
		Event: "closed",
		URL:   n.natsConfig.URL,
	})

	return nil
}

// Health returns the current health status of the consumer.
func (n *NATSConsumer) Health() inbound.ConsumerHealthStatus {
	n.mu.RLock()
	defer n.mu.RUnlock()

	return n.health
}

// GetStats returns consumer statistics.
func (n *NATSConsumer) GetStats() inbound.ConsumerStats {
	n.mu.RLock()
	defer n.mu.RUnlock()

	return n.stats
}

// QueueGroup returns the consumer's queue group.
func (n *NATSConsumer) QueueGroup() string {
	if n == nil {
		return ""
	}
	return n.config.QueueGroup
}

// Subject returns the consumer's subject.
func (n *NATSConsumer) Subject() string {
	if n == nil {
		return ""
	}
	return n.config.Subject
}

// DurableName returns the consumer's durable name.
func (n *NATSConsumer) DurableName() string {
	if n == nil {
		return ""
	}
	return n.config.DurableName
}

// ensureStreamExists creates the analysis stream if it doesn't exist.
func (n *NATSConsumer) ensureStreamExists() error {
	if _, err := n.jsContext.StreamInfo(AnalysisStreamName); err == nil {
		return nil
	}

	streamConfig := &nats.StreamConfig{
		Name:      AnalysisStreamName,
		Subjects:  []string{"analysis.>"},
		Storage:   nats.FileStorage,
		Retention: nats.WorkQueuePolicy,
		MaxAge:    StreamRetentionHours * time.Hour,
	}

	if _, err := n.jsContext.AddStream(streamConfig); err != nil {
		return fmt.Errorf("failed to create stream %s: %w", AnalysisStreamName, err)
	}

	return nil
}

// createDurableConsumer creates the durable pull consumer on the analysis stream.
func (n *NATSConsumer) createDurableConsumer() error {
	consumerConfig := &nats.ConsumerConfig{
		Durable:       n.config.DurableName,
		DeliverGroup:  n.config.QueueGroup,
		FilterSubject: n.config.Subject,
		AckPolicy:     nats.AckExplicitPolicy,
		AckWait:       n.config.AckWait,
		MaxDeliver:    n.config.MaxDeliver,
		MaxAckPending: n.config.MaxAckPending,
		ReplayPolicy:  nats.ReplayInstantPolicy,
		DeliverPolicy: nats.DeliverAllPolicy,
	}

	if _, err := n.jsContext.AddConsumer(AnalysisStreamName, consumerConfig); err != nil {
		// The consumer may already exist from a previous run.
		if _, infoErr := n.jsContext.ConsumerInfo(AnalysisStreamName, n.config.DurableName); infoErr == nil {
			return nil
		}
		return fmt.Errorf("failed to create durable consumer %s: %w", n.config.DurableName, err)
	}

	return nil
}

// messageProcessingLoop fetches and processes messages until the consumer stops.
func (n *NATSConsumer) messageProcessingLoop() {
	defer close(n.done)

	for {
		n.mu.RLock()
		running := n.running
		subscription := n.subscription
		n.mu.RUnlock()

		if !running || subscription == nil {
			return
		}

		msgs, err := subscription.Fetch(MessagesFetchBatch, nats.MaxWait(MessageFetchMaxWait))
		if err != nil {
			if errors.Is(err, nats.ErrTimeout) {
				continue
			}
			// Transient fetch errors are recorded and the loop keeps going.
			n.updateHealthOnError(fmt.Sprintf("fetch failed: %v", err))
			continue
		}

		for _, msg := range msgs {
			n.processMessage(msg)
		}
	}
}

// processMessage handles a single message, acknowledging on success and
// negatively acknowledging on failure so the message is redelivered.
func (n *NATSConsumer) processMessage(msg *nats.Msg) {
	if err := n.handleMessage(msg); err != nil {
		_ = msg.Nak()
		return
	}
	_ = msg.Ack()
}

// handleMessage deserializes one message, runs it through the job processor,
// and updates consumer statistics based on the outcome.
func (n *NATSConsumer) handleMessage(msg *nats.Msg) error {
	if msg == nil {
		return errors.New("received nil message")
	}

	var jobMessage messaging.AnalysisJobMessage
	if err := json.Unmarshal(msg.Data, &jobMessage); err != nil {
		n.updateStats(false, 0, len(msg.Data))
		n.updateHealthOnError(fmt.Sprintf("failed to unmarshal message: %v", err))
		return fmt.Errorf("failed to unmarshal message: %w", err)
	}

	if err := jobMessage.Validate(); err != nil {
		n.updateStats(false, 0, len(msg.Data))
		n.updateHealthOnError(fmt.Sprintf("invalid message: %v", err))
		return fmt.Errorf("message validation failed: %w", err)
	}

	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), n.config.JobTimeout)
	defer cancel()
	ctx = logging.WithCorrelationID(ctx, jobMessage.CorrelationID)

	err := n.jobProcessor.ProcessJob(ctx, jobMessage)
	processTime := time.Since(start)

	success := err == nil
	n.updateStats(success, processTime, len(msg.Data))

	event := logging.NATSConsumeEvent{
		Subject:   msg.Subject,
		Consumer:  n.config.DurableName,
		MessageID: jobMessage.MessageID,
		Success:   success,
	}
	if err != nil {
		event.Error = err.Error()
	}
	logging.LogNATSConsumeEvent(ctx, n.logger, event)

	if err != nil {
		n.updateHealthOnError(fmt.Sprintf("job processing failed: %v", err))
		return fmt.Errorf("job processing failed: %w", err)
	}

	return nil
}

// updateHealthOnError updates health status when an error occurs.
func (n *NATSConsumer) updateHealthOnError(errorMsg string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.health.ErrorCount++
	n.health.LastError = errorMsg
}

// updateStats updates consumer statistics in a thread-safe manner.
func (n *NATSConsumer) updateStats(success bool, processTime time.Duration, bytes int) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.stats.MessagesReceived++
	n.stats.BytesReceived += int64(bytes)

	if success {
		n.stats.MessagesProcessed++
		n.health.MessagesHandled++
		n.health.LastMessageTime = time.Now()

		if n.stats.AverageProcessTime == 0 {
			n.stats.AverageProcessTime = processTime
		} else {
			n.stats.AverageProcessTime = time.Duration(
				0.9*float64(n.stats.AverageProcessTime) + 0.1*float64(processTime),
			)
		}
		n.stats.LastProcessTime = processTime
	} else {
		n.stats.MessagesFailed++
	}
}
