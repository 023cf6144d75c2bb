package logging

import (
	"context"
	"time"
)

// NATSConnectionEvent describes a connection lifecycle change.
type NATSConnectionEvent struct {
	Event   string // connected, disconnected, reconnected, closed
	URL     string
	Error   string
	Attempt int
}

// NATSPublishEvent describes one publish attempt.
type NATSPublishEvent struct {
	Subject   string
	MessageID string
	Bytes     int
	Duration  time.Duration
	Success   bool
	Error     string
}

// NATSConsumeEvent describes one consumed message.
type NATSConsumeEvent struct {
	Subject   string
	Consumer  string
	MessageID string
	Redelivered bool
	Success   bool
	Error     string
}

// LogNATSConnectionEvent emits a structured connection event.
func LogNATSConnectionEvent(ctx context.Context, logger ApplicationLogger, event NATSConnectionEvent) {
	fields := Fields{"event": event.Event, "url": event.URL}
	if event.Attempt > 0 {
		fields["attempt"] = event.Attempt
	}
	if event.Error != "" {
		fields["error"] = event.Error
		logger.Warn(ctx, "NATS connection event", fields)
		return
	}
	logger.Info(ctx, "NATS connection event", fields)
}

// LogNATSPublishEvent emits a structured publish event.
func LogNATSPublishEvent(ctx context.Context, logger ApplicationLogger, event NATSPublishEvent) {
	fields := Fields{
		"subject":    event.Subject,
		"message_id": event.MessageID,
		"bytes":      event.Bytes,
		"duration":   event.Duration.String(),
	}
	if !event.Success {
		fields["error"] = event.Error
		logger.Error(ctx, "NATS publish failed", fields)
		return
	}
	logger.Debug(ctx, "NATS message published", fields)
}

// LogNATSConsumeEvent emits a structured consume event.
func LogNATSConsumeEvent(ctx context.Context, logger ApplicationLogger, event NATSConsumeEvent) {
	fields := Fields{
		"subject":    event.Subject,
		"consumer":   event.Consumer,
		"message_id": event.MessageID,
	}
	if event.Redelivered {
		fields["redelivered"] = true
	}
	if !event.Success {
		fields["error"] = event.Error
		logger.Error(ctx, "NATS message processing failed", fields)
		return
	}
	logger.Debug(ctx, "NATS message consumed", fields)
}
