package service

import (
	"context"
	"fmt"
	"path/filepath"

	"codeatlas/internal/application/common"
	"codeatlas/internal/application/dto"
	"codeatlas/internal/domain/entity"
	domainerrors "codeatlas/internal/domain/errors/domain"
	"codeatlas/internal/port/outbound"

	"github.com/google/uuid"
)

// CreateProjectService handles project registration. It manages the complete
// lifecycle of registering a project: validation, persistence, and queuing
// the first analysis job.
type CreateProjectService struct {
	projectRepo      outbound.ProjectRepository
	jobRepo          outbound.AnalysisJobRepository
	messagePublisher outbound.MessagePublisher
}

// NewCreateProjectService creates a new instance of CreateProjectService.
func NewCreateProjectService(
	projectRepo outbound.ProjectRepository,
	jobRepo outbound.AnalysisJobRepository,
	messagePublisher outbound.MessagePublisher,
) *CreateProjectService {
	if projectRepo == nil {
		panic("projectRepo cannot be nil")
	}
	if jobRepo == nil {
		panic("jobRepo cannot be nil")
	}
	if messagePublisher == nil {
		panic("messagePublisher cannot be nil")
	}
	return &CreateProjectService{
		projectRepo:      projectRepo,
		jobRepo:          jobRepo,
		messagePublisher: messagePublisher,
	}
}

// CreateProject registers a project and publishes its first analysis job.
// The root path must be absolute and not already registered.
func (s *CreateProjectService) CreateProject(
	ctx context.Context,
	request dto.CreateProjectRequest,
) (*dto.ProjectResponse, error) {
	if !filepath.IsAbs(request.RootPath) {
		return nil, fmt.Errorf("%w: root path must be absolute", domainerrors.ErrInvalidProjectPath)
	}
	rootPath := filepath.Clean(request.RootPath)

	existing, err := s.projectRepo.FindByRootPath(ctx, rootPath)
	if err != nil {
		return nil, common.WrapServiceError(common.OpCheckProjectExists, err)
	}
	if existing != nil {
		return nil, domainerrors.ErrProjectAlreadyExists
	}

	name := request.Name
	if name == "" {
		name = common.ProjectNameFromPath(rootPath)
	}

	project, err := entity.NewProject(rootPath, name, request.Description)
	if err != nil {
		return nil, err
	}

	if err := s.projectRepo.Save(ctx, project); err != nil {
		return nil, common.WrapServiceError(common.OpSaveProject, err)
	}

	job := entity.NewAnalysisJob(project.ID())
	if err := s.jobRepo.Save(ctx, job); err != nil {
		return nil, common.WrapServiceError(common.OpCreateAnalysisJob, err)
	}

	if err := s.messagePublisher.PublishAnalysisJob(ctx, job.ID(), project.ID(), project.RootPath()); err != nil {
		return nil, common.WrapServiceError(common.OpPublishJob, err)
	}

	return common.EntityToProjectResponse(project), nil
}

// GetProjectService handles project retrieval operations.
type GetProjectService struct {
	projectRepo outbound.ProjectRepository
}

// NewGetProjectService creates a new instance of GetProjectService.
func NewGetProjectService(projectRepo outbound.ProjectRepository) *GetProjectService {
	if projectRepo == nil {
		panic("projectRepo cannot be nil")
	}
	return &GetProjectService{projectRepo: projectRepo}
}

// GetProject retrieves a project by its unique ID.
func (s *GetProjectService) GetProject(ctx context.Context, id uuid.UUID) (*dto.ProjectResponse, error) {
	project, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		return nil, common.WrapServiceError(common.OpRetrieveProject, err)
	}
	if project == nil {
		return nil, domainerrors.ErrProjectNotFound
	}
	return common.EntityToProjectResponse(project), nil
}

// ListProjectsService handles project listing with pagination.
type ListProjectsService struct {
	projectRepo outbound.ProjectRepository
}

// NewListProjectsService creates a new instance of ListProjectsService.
func NewListProjectsService(projectRepo outbound.ProjectRepository) *ListProjectsService {
	if projectRepo == nil {
		panic("projectRepo cannot be nil")
	}
	return &ListProjectsService{projectRepo: projectRepo}
}

// ListProjects returns a page of registered projects.
func (s *ListProjectsService) ListProjects(
	ctx context.Context,
	query dto.ListProjectsQuery,
) (*dto.ProjectListResponse, error) {
	defaults := dto.DefaultListProjectsQuery()
	if query.Limit <= 0 {
		query.Limit = defaults.Limit
	}
	if query.Offset < 0 {
		query.Offset = defaults.Offset
	}
	if query.Sort == "" {
		query.Sort = defaults.Sort
	}

	projects, total, err := s.projectRepo.FindAll(ctx, outbound.ProjectFilters{
		Limit:  query.Limit,
		Offset: query.Offset,
		Sort:   query.Sort,
	})
	if err != nil {
		return nil, common.WrapServiceError(common.OpListProjects, err)
	}

	responses := make([]dto.ProjectResponse, 0, len(projects))
	for _, project := range projects {
		responses = append(responses, *common.EntityToProjectResponse(project))
	}

	return &dto.ProjectListResponse{
		Projects:   responses,
		Pagination: common.NewPaginationResponse(query.Limit, query.Offset, total),
	}, nil
}

// DeleteProjectService handles project deletion. Deleting a project soft
// deletes its record and removes its stored analysis results.
type DeleteProjectService struct {
	projectRepo    outbound.ProjectRepository
	sourceUnitRepo outbound.SourceUnitRepository
}

// NewDeleteProjectService creates a new instance of DeleteProjectService.
func NewDeleteProjectService(
	projectRepo outbound.ProjectRepository,
	sourceUnitRepo outbound.SourceUnitRepository,
) *DeleteProjectService {
	if projectRepo == nil {
		panic("projectRepo cannot be nil")
	}
	if sourceUnitRepo == nil {
		panic("sourceUnitRepo cannot be nil")
	}
	return &DeleteProjectService{
		projectRepo:    projectRepo,
		sourceUnitRepo: sourceUnitRepo,
	}
}

// DeleteProject soft-deletes a project and purges its source units.
func (s *DeleteProjectService) DeleteProject(ctx context.Context, id uuid.UUID) error {
	project, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		return common.WrapServiceError(common.OpRetrieveProject, err)
	}
	if project == nil {
		return domainerrors.ErrProjectNotFound
	}

	if err := s.sourceUnitRepo.DeleteByProjectID(ctx, id); err != nil {
		return common.WrapServiceError(common.OpDeleteSourceUnits, err)
	}

	if err := s.projectRepo.Delete(ctx, id); err != nil {
		return common.WrapServiceError(common.OpDeleteProject, err)
	}
	return nil
}

// ListAnalysisJobsService handles analysis job listing for a project.
type ListAnalysisJobsService struct {
	jobRepo     outbound.AnalysisJobRepository
	projectRepo outbound.ProjectRepository
}

// NewListAnalysisJobsService creates a new instance of ListAnalysisJobsService.
func NewListAnalysisJobsService(
	jobRepo outbound.AnalysisJobRepository,
	projectRepo outbound.ProjectRepository,
) *ListAnalysisJobsService {
	if jobRepo == nil {
		panic("jobRepo cannot be nil")
	}
	if projectRepo == nil {
		panic("projectRepo cannot be nil")
	}
	return &ListAnalysisJobsService{
		jobRepo:     jobRepo,
		projectRepo: projectRepo,
	}
}

// ListAnalysisJobs returns a page of analysis jobs for an existing project,
// newest first.
func (s *ListAnalysisJobsService) ListAnalysisJobs(
	ctx context.Context,
	projectID uuid.UUID,
	query dto.ListJobsQuery,
) (*dto.JobListResponse, error) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, common.WrapServiceError(common.OpRetrieveProject, err)
	}
	if project == nil {
		return nil, domainerrors.ErrProjectNotFound
	}

	defaults := dto.DefaultListJobsQuery()
	if query.Limit <= 0 {
		query.Limit = defaults.Limit
	}
	if query.Offset < 0 {
		query.Offset = defaults.Offset
	}

	jobs, total, err := s.jobRepo.FindByProjectID(ctx, projectID, outbound.JobFilters{
		Limit:  query.Limit,
		Offset: query.Offset,
	})
	if err != nil {
		return nil, common.WrapServiceError(common.OpListAnalysisJobs, err)
	}

	responses := make([]dto.JobResponse, 0, len(jobs))
	for _, job := range jobs {
		responses = append(responses, *common.EntityToJobResponse(job))
	}

	return &dto.JobListResponse{
		Jobs:       responses,
		Pagination: common.NewPaginationResponse(query.Limit, query.Offset, total),
	}, nil
}
