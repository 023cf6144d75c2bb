// Package messaging provides domain types for analysis job messages exchanged
// between the API and worker processes over the message queue.
package messaging

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	maxMessageIDLength = 255
	maxRetryLimit      = 100

	// CurrentSchemaVersion is the message schema emitted by this build.
	CurrentSchemaVersion = "1.0"

	// Timestamp validation.
	minValidYear = 2000
)

// Error messages for validation.
const (
	errorMessageIDRequired    = "message_id is required"
	errorMessageIDTooLong     = "message_id too long"
	errorJobIDNil             = "job_id cannot be nil"
	errorProjectIDNil         = "project_id cannot be nil"
	errorRootPathRequired     = "root_path is required"
	errorRetryAttemptNegative = "retry_attempt cannot be negative"
	errorMaxRetriesNegative   = "max_retries cannot be negative"
	errorMaxRetriesExceeds    = "max_retries exceeds maximum allowed"
	errorRetryAttemptExceeds  = "retry_attempt cannot exceed max_retries"
	errorTimestampTooOld      = "timestamp too old"
	errorRetryExceedsMax      = "retry attempt exceeds max retries"
)

// AnalysisJobMessage is the payload published when a project analysis is
// requested and consumed by workers that run the analysis pipeline.
type AnalysisJobMessage struct {
	MessageID     string    `json:"message_id"`
	CorrelationID string    `json:"correlation_id"`
	SchemaVersion string    `json:"schema_version"`
	Timestamp     time.Time `json:"timestamp"`

	JobID     uuid.UUID `json:"job_id"`
	ProjectID uuid.UUID `json:"project_id"`
	RootPath  string    `json:"root_path"`

	RetryAttempt int `json:"retry_attempt"`
	MaxRetries   int `json:"max_retries"`
}

// NewAnalysisJobMessage builds a message with a fresh message ID, correlation
// ID, current schema version, and timestamp.
func NewAnalysisJobMessage(jobID, projectID uuid.UUID, rootPath string) AnalysisJobMessage {
	return AnalysisJobMessage{
		MessageID:     GenerateUniqueMessageID(),
		CorrelationID: GenerateCorrelationID(),
		SchemaVersion: CurrentSchemaVersion,
		Timestamp:     time.Now(),
		JobID:         jobID,
		ProjectID:     projectID,
		RootPath:      rootPath,
	}
}

// Validate checks the message against all business rules and returns the
// first violation found.
func (m *AnalysisJobMessage) Validate() error {
	if m.MessageID == "" {
		return errors.New(errorMessageIDRequired)
	}

	if len(m.MessageID) > maxMessageIDLength {
		return errors.New(errorMessageIDTooLong)
	}

	if m.JobID == uuid.Nil {
		return errors.New(errorJobIDNil)
	}

	if m.ProjectID == uuid.Nil {
		return errors.New(errorProjectIDNil)
	}

	if m.RootPath == "" {
		return errors.New(errorRootPathRequired)
	}

	if err := m.validateRetryFields(); err != nil {
		return err
	}

	return m.validateTimestamp()
}

func (m *AnalysisJobMessage) validateRetryFields() error {
	if m.RetryAttempt < 0 {
		return errors.New(errorRetryAttemptNegative)
	}

	if m.MaxRetries < 0 {
		return errors.New(errorMaxRetriesNegative)
	}

	if m.MaxRetries > maxRetryLimit {
		return errors.New(errorMaxRetriesExceeds)
	}

	if m.RetryAttempt >= m.MaxRetries && m.MaxRetries > 0 {
		return errors.New(errorRetryAttemptExceeds)
	}

	return nil
}

func (m *AnalysisJobMessage) validateTimestamp() error {
	if !m.Timestamp.IsZero() && m.Timestamp.Before(time.Date(minValidYear, 1, 1, 0, 0, 0, 0, time.UTC)) {
		return errors.New(errorTimestampTooOld)
	}

	return nil
}

// GenerateCorrelationID generates a unique correlation ID for tracking related operations.
// The ID format is "corr-{timestamp}-{uuid}" to ensure uniqueness and provide temporal ordering.
func GenerateCorrelationID() string {
	return fmt.Sprintf("corr-%d-%s", time.Now().UnixNano(), uuid.New().String()[:8])
}

// GenerateUniqueMessageID generates a unique message ID for each message instance.
// The ID format is "msg-{timestamp}-{uuid}" to ensure uniqueness and provide temporal ordering.
func GenerateUniqueMessageID() string {
	return fmt.Sprintf("msg-%d-%s", time.Now().UnixNano(), uuid.New().String()[:8])
}

// CreateRetryMessage creates a retry message with an incremented attempt
// counter, a new message ID, and a fresh timestamp. The correlation ID is
// preserved so the retry stays linked to the original request.
func CreateRetryMessage(original AnalysisJobMessage, retryAttempt int) (AnalysisJobMessage, error) {
	if retryAttempt > original.MaxRetries {
		return AnalysisJobMessage{}, errors.New(errorRetryExceedsMax)
	}

	retry := original
	retry.MessageID = GenerateUniqueMessageID()
	retry.RetryAttempt = retryAttempt
	retry.Timestamp = time.Now()

	return retry, nil
}

// CalculateMessageSize returns the serialized JSON size of a message in bytes.
func CalculateMessageSize(message AnalysisJobMessage) (int, error) {
	data, err := json.Marshal(message)
	if err != nil {
		return 0, err
	}
	return len(data), nil
}

// ValidateMessageSize validates that a message fits within the specified size limit.
func ValidateMessageSize(message AnalysisJobMessage, maxSizeBytes int) error {
	size, err := CalculateMessageSize(message)
	if err != nil {
		return err
	}

	if size > maxSizeBytes {
		return fmt.Errorf("message size %d bytes exceeds maximum %d bytes", size, maxSizeBytes)
	}

	return nil
}
