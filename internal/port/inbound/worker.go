package inbound

import (
	"context"
	"time"

	"codeatlas/internal/domain/messaging"
)

// WorkerService ties a message consumer to a job processor and manages
// their shared lifecycle.
type WorkerService interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Health() WorkerServiceHealthStatus
	GetMetrics() WorkerServiceMetrics
}

// Consumer receives analysis job messages from the message broker.
type Consumer interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Health() ConsumerHealthStatus
	GetStats() ConsumerStats
	QueueGroup() string
	Subject() string
	DurableName() string
}

// JobProcessor runs one analysis job per message.
type JobProcessor interface {
	ProcessJob(ctx context.Context, message messaging.AnalysisJobMessage) error
	GetHealthStatus() JobProcessorHealthStatus
	GetMetrics() JobProcessorMetrics
	Cleanup() error
}

// WorkerServiceHealthStatus aggregates consumer and processor health.
type WorkerServiceHealthStatus struct {
	IsRunning          bool                     `json:"is_running"`
	ConsumerHealth     ConsumerHealthStatus     `json:"consumer_health"`
	JobProcessorHealth JobProcessorHealthStatus `json:"job_processor_health"`
	LastHealthCheck    time.Time                `json:"last_health_check"`
	ServiceUptime      time.Duration            `json:"service_uptime"`
	LastError          string                   `json:"last_error,omitempty"`
}

// WorkerServiceMetrics aggregates consumer and processor metrics.
type WorkerServiceMetrics struct {
	TotalMessagesProcessed int64               `json:"total_messages_processed"`
	TotalMessagesFailed    int64               `json:"total_messages_failed"`
	AverageProcessingTime  time.Duration       `json:"average_processing_time"`
	ConsumerMetrics        ConsumerStats       `json:"consumer_metrics"`
	JobProcessorMetrics    JobProcessorMetrics `json:"job_processor_metrics"`
	ServiceStartTime       time.Time           `json:"service_start_time"`
}

// ConsumerHealthStatus describes the consumer's connection and progress.
type ConsumerHealthStatus struct {
	IsRunning       bool      `json:"is_running"`
	IsConnected     bool      `json:"is_connected"`
	LastMessageTime time.Time `json:"last_message_time"`
	MessagesHandled int64     `json:"messages_handled"`
	ErrorCount      int64     `json:"error_count"`
	LastError       string    `json:"last_error,omitempty"`
	QueueGroup      string    `json:"queue_group"`
	Subject         string    `json:"subject"`
}

// ConsumerStats holds message throughput counters.
type ConsumerStats struct {
	MessagesReceived   int64         `json:"messages_received"`
	MessagesProcessed  int64         `json:"messages_processed"`
	MessagesFailed     int64         `json:"messages_failed"`
	AverageProcessTime time.Duration `json:"average_process_time"`
	LastProcessTime    time.Duration `json:"last_process_time"`
	ActiveSince        time.Time     `json:"active_since"`
	BytesReceived      int64         `json:"bytes_received"`
}

// JobProcessorHealthStatus describes the processor's readiness and load.
type JobProcessorHealthStatus struct {
	IsReady        bool          `json:"is_ready"`
	ActiveJobs     int           `json:"active_jobs"`
	CompletedJobs  int64         `json:"completed_jobs"`
	FailedJobs     int64         `json:"failed_jobs"`
	AverageJobTime time.Duration `json:"average_job_time"`
	LastJobTime    time.Time     `json:"last_job_time"`
	LastError      string        `json:"last_error,omitempty"`
}

// JobProcessorMetrics holds cumulative analysis throughput counters.
type JobProcessorMetrics struct {
	TotalJobsProcessed    int64         `json:"total_jobs_processed"`
	TotalJobsFailed       int64         `json:"total_jobs_failed"`
	AverageProcessingTime time.Duration `json:"average_processing_time"`
	FilesProcessed        int64         `json:"files_processed"`
	FilesFailed           int64         `json:"files_failed"`
	SymbolsExtracted      int64         `json:"symbols_extracted"`
	BytesProcessed        int64         `json:"bytes_processed"`
}
