// Package registry provides service registration and dependency injection for the application.
package registry

import (
	"codeatlas/internal/application/service"
	"codeatlas/internal/config"
	"codeatlas/internal/port/outbound"
)

// ServiceRegistry provides centralized service creation and management.
// It acts as a service factory ensuring consistent dependency injection
// patterns across the application.
type ServiceRegistry struct {
	projectRepo      outbound.ProjectRepository
	jobRepo          outbound.AnalysisJobRepository
	sourceUnitRepo   outbound.SourceUnitRepository
	messagePublisher outbound.MessagePublisher
	parser           outbound.TreeParser
	analyzer         outbound.CodeAnalyzer
	analysisConfig   config.AnalysisConfig
}

// NewServiceRegistry creates a new service registry with required dependencies.
// All dependencies must be non-nil or the function will panic.
func NewServiceRegistry(
	projectRepo outbound.ProjectRepository,
	jobRepo outbound.AnalysisJobRepository,
	sourceUnitRepo outbound.SourceUnitRepository,
	messagePublisher outbound.MessagePublisher,
	parser outbound.TreeParser,
	analyzer outbound.CodeAnalyzer,
	analysisConfig config.AnalysisConfig,
) *ServiceRegistry {
	if projectRepo == nil {
		panic("projectRepo cannot be nil")
	}
	if jobRepo == nil {
		panic("jobRepo cannot be nil")
	}
	if sourceUnitRepo == nil {
		panic("sourceUnitRepo cannot be nil")
	}
	if messagePublisher == nil {
		panic("messagePublisher cannot be nil")
	}
	if parser == nil {
		panic("parser cannot be nil")
	}
	if analyzer == nil {
		panic("analyzer cannot be nil")
	}

	return &ServiceRegistry{
		projectRepo:      projectRepo,
		jobRepo:          jobRepo,
		sourceUnitRepo:   sourceUnitRepo,
		messagePublisher: messagePublisher,
		parser:           parser,
		analyzer:         analyzer,
		analysisConfig:   analysisConfig,
	}
}

// Project Services

// CreateProjectService returns a configured CreateProjectService instance.
func (r *ServiceRegistry) CreateProjectService() *service.CreateProjectService {
	return service.NewCreateProjectService(r.projectRepo, r.jobRepo, r.messagePublisher)
}

// GetProjectService returns a configured GetProjectService instance.
func (r *ServiceRegistry) GetProjectService() *service.GetProjectService {
	return service.NewGetProjectService(r.projectRepo)
}

// ListProjectsService returns a configured ListProjectsService instance.
func (r *ServiceRegistry) ListProjectsService() *service.ListProjectsService {
	return service.NewListProjectsService(r.projectRepo)
}

// DeleteProjectService returns a configured DeleteProjectService instance.
func (r *ServiceRegistry) DeleteProjectService() *service.DeleteProjectService {
	return service.NewDeleteProjectService(r.projectRepo, r.sourceUnitRepo)
}

// ListAnalysisJobsService returns a configured ListAnalysisJobsService instance.
func (r *ServiceRegistry) ListAnalysisJobsService() *service.ListAnalysisJobsService {
	return service.NewListAnalysisJobsService(r.jobRepo, r.projectRepo)
}

// Analysis Services

// AnalysisQueryService returns a configured AnalysisQueryService instance.
func (r *ServiceRegistry) AnalysisQueryService() *service.AnalysisQueryService {
	return service.NewAnalysisQueryService(r.projectRepo, r.sourceUnitRepo)
}

// DiagramService returns a configured DiagramService instance.
func (r *ServiceRegistry) DiagramService() *service.DiagramService {
	return service.NewDiagramService(r.parser, r.analyzer)
}

// AnalysisOrchestrator returns a configured AnalysisOrchestrator instance.
func (r *ServiceRegistry) AnalysisOrchestrator() *service.AnalysisOrchestrator {
	return service.NewAnalysisOrchestrator(r.parser, r.analyzer, r.analysisConfig)
}
