package inbound

import (
	"context"

	"codeatlas/internal/application/dto"

	"github.com/google/uuid"
)

// ProjectService handles project registration and queries from the
// protocol layer.
type ProjectService interface {
	CreateProject(ctx context.Context, req dto.CreateProjectRequest) (*dto.ProjectResponse, error)
	GetProject(ctx context.Context, id uuid.UUID) (*dto.ProjectResponse, error)
	ListProjects(ctx context.Context, query dto.ListProjectsQuery) (*dto.ProjectListResponse, error)
	DeleteProject(ctx context.Context, id uuid.UUID) error
	GetProjectJobs(ctx context.Context, projectID uuid.UUID, query dto.ListJobsQuery) (*dto.JobListResponse, error)
}

// AnalysisQueryService serves aggregated descriptor queries for a project.
type AnalysisQueryService interface {
	GetVariables(ctx context.Context, projectID uuid.UUID) (*dto.VariablesResponse, error)
	GetFunctions(ctx context.Context, projectID uuid.UUID) (*dto.FunctionsResponse, error)
	GetComponents(ctx context.Context, projectID uuid.UUID) (*dto.ComponentsResponse, error)
}

// DiagramService synthesizes flow diagrams for a single source body.
type DiagramService interface {
	GenerateDiagram(ctx context.Context, req dto.DiagramRequest) (*dto.DiagramResponse, error)
}

// HealthService reports service liveness and dependency health.
type HealthService interface {
	GetHealth(ctx context.Context) (*dto.HealthResponse, error)
}
