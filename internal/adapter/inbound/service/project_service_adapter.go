package service

import (
	"context"

	"codeatlas/internal/application/dto"
	"codeatlas/internal/application/registry"
	"codeatlas/internal/port/inbound"

	"github.com/google/uuid"
)

// ProjectServiceAdapter adapts the application service layer to the inbound
// port. It implements inbound.ProjectService by delegating to application
// services resolved from the registry.
type ProjectServiceAdapter struct {
	serviceRegistry *registry.ServiceRegistry
}

// NewProjectServiceAdapter creates a new ProjectServiceAdapter.
func NewProjectServiceAdapter(serviceRegistry *registry.ServiceRegistry) inbound.ProjectService {
	return &ProjectServiceAdapter{
		serviceRegistry: serviceRegistry,
	}
}

// CreateProject registers a project and queues its first analysis job.
func (a *ProjectServiceAdapter) CreateProject(ctx context.Context, request dto.CreateProjectRequest) (*dto.ProjectResponse, error) {
	return a.serviceRegistry.CreateProjectService().CreateProject(ctx, request)
}

// GetProject retrieves a project by ID.
func (a *ProjectServiceAdapter) GetProject(ctx context.Context, id uuid.UUID) (*dto.ProjectResponse, error) {
	return a.serviceRegistry.GetProjectService().GetProject(ctx, id)
}

// ListProjects lists projects with pagination.
func (a *ProjectServiceAdapter) ListProjects(ctx context.Context, query dto.ListProjectsQuery) (*dto.ProjectListResponse, error) {
	return a.serviceRegistry.ListProjectsService().ListProjects(ctx, query)
}

// DeleteProject soft deletes a project and its stored analysis results.
func (a *ProjectServiceAdapter) DeleteProject(ctx context.Context, id uuid.UUID) error {
	return a.serviceRegistry.DeleteProjectService().DeleteProject(ctx, id)
}

// GetProjectJobs lists analysis jobs for a project.
func (a *ProjectServiceAdapter) GetProjectJobs(ctx context.Context, projectID uuid.UUID, query dto.ListJobsQuery) (*dto.JobListResponse, error) {
	return a.serviceRegistry.ListAnalysisJobsService().ListAnalysisJobs(ctx, projectID, query)
}
