package outbound

import (
	"context"

	"codeatlas/internal/domain/entity"

	"github.com/google/uuid"
)

// ProjectRepository defines the outbound port for project persistence.
type ProjectRepository interface {
	Save(ctx context.Context, project *entity.Project) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Project, error)
	FindByRootPath(ctx context.Context, rootPath string) (*entity.Project, error)
	FindAll(ctx context.Context, filters ProjectFilters) ([]*entity.Project, int, error)
	Update(ctx context.Context, project *entity.Project) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// AnalysisJobRepository defines the outbound port for analysis job persistence.
type AnalysisJobRepository interface {
	Save(ctx context.Context, job *entity.AnalysisJob) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.AnalysisJob, error)
	FindByProjectID(ctx context.Context, projectID uuid.UUID, filters JobFilters) ([]*entity.AnalysisJob, int, error)
	Update(ctx context.Context, job *entity.AnalysisJob) error
}

// SourceUnitRepository persists per-file analysis results. Descriptor
// collections are stored as documents; the engine never reads them back to
// mutate, only the protocol layer reads them to serve queries.
type SourceUnitRepository interface {
	SaveFileAnalyses(ctx context.Context, projectID uuid.UUID, files []FileAnalysis) error
	FindByProjectID(ctx context.Context, projectID uuid.UUID) ([]FileAnalysis, error)
	DeleteByProjectID(ctx context.Context, projectID uuid.UUID) error
}

// MessagePublisher defines the outbound port for publishing analysis jobs
// to the job queue.
type MessagePublisher interface {
	PublishAnalysisJob(ctx context.Context, jobID, projectID uuid.UUID, rootPath string) error
}

// MessagePublisherHealth defines health monitoring capabilities for message publishers.
type MessagePublisherHealth interface {
	GetConnectionHealth() MessagePublisherHealthStatus
	GetMessageMetrics() MessagePublisherMetrics
}

// MessagePublisherHealthStatus represents the health status of a message publisher.
type MessagePublisherHealthStatus struct {
	Connected        bool   `json:"connected"`
	LastError        string `json:"last_error,omitempty"`
	Uptime           string `json:"uptime"`
	Reconnects       int    `json:"reconnects"`
	JetStreamEnabled bool   `json:"jetstream_enabled"`
	CircuitBreaker   string `json:"circuit_breaker"`
}

// MessagePublisherMetrics represents message publishing metrics.
type MessagePublisherMetrics struct {
	PublishedCount int64  `json:"published_count"`
	FailedCount    int64  `json:"failed_count"`
	AverageLatency string `json:"average_latency"`
}

// ProjectFilters represents filters for project queries.
type ProjectFilters struct {
	Limit  int
	Offset int
	Sort   string
}

// JobFilters represents filters for analysis job queries.
type JobFilters struct {
	Limit  int
	Offset int
}
