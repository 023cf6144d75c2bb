package service

import (
	"context"

	"codeatlas/internal/application/common"
	"codeatlas/internal/application/dto"
	domainerrors "codeatlas/internal/domain/errors/domain"
	"codeatlas/internal/port/outbound"

	"github.com/google/uuid"
)

// AnalysisQueryService serves aggregated descriptor queries. It merges the
// per-file analysis documents stored for a project into project-wide
// descriptor lists; files are already sorted by path when loaded, so the
// merged lists keep a stable order across calls.
type AnalysisQueryService struct {
	projectRepo    outbound.ProjectRepository
	sourceUnitRepo outbound.SourceUnitRepository
}

// NewAnalysisQueryService creates a new instance of AnalysisQueryService.
func NewAnalysisQueryService(
	projectRepo outbound.ProjectRepository,
	sourceUnitRepo outbound.SourceUnitRepository,
) *AnalysisQueryService {
	if projectRepo == nil {
		panic("projectRepo cannot be nil")
	}
	if sourceUnitRepo == nil {
		panic("sourceUnitRepo cannot be nil")
	}
	return &AnalysisQueryService{
		projectRepo:    projectRepo,
		sourceUnitRepo: sourceUnitRepo,
	}
}

// GetVariables returns every variable descriptor recorded for a project.
func (s *AnalysisQueryService) GetVariables(
	ctx context.Context,
	projectID uuid.UUID,
) (*dto.VariablesResponse, error) {
	files, err := s.loadFiles(ctx, projectID)
	if err != nil {
		return nil, err
	}

	variables := make([]outbound.VariableDescriptor, 0)
	for _, file := range files {
		variables = append(variables, file.Variables...)
	}

	return &dto.VariablesResponse{
		ProjectID: projectID,
		Variables: variables,
		Total:     len(variables),
	}, nil
}

// GetFunctions returns every function descriptor recorded for a project.
func (s *AnalysisQueryService) GetFunctions(
	ctx context.Context,
	projectID uuid.UUID,
) (*dto.FunctionsResponse, error) {
	files, err := s.loadFiles(ctx, projectID)
	if err != nil {
		return nil, err
	}

	functions := make([]outbound.FunctionDescriptor, 0)
	for _, file := range files {
		functions = append(functions, file.Functions...)
	}

	return &dto.FunctionsResponse{
		ProjectID: projectID,
		Functions: functions,
		Total:     len(functions),
	}, nil
}

// GetComponents returns every component descriptor recorded for a project.
func (s *AnalysisQueryService) GetComponents(
	ctx context.Context,
	projectID uuid.UUID,
) (*dto.ComponentsResponse, error) {
	files, err := s.loadFiles(ctx, projectID)
	if err != nil {
		return nil, err
	}

	components := make([]outbound.ComponentDescriptor, 0)
	for _, file := range files {
		components = append(components, file.Components...)
	}

	return &dto.ComponentsResponse{
		ProjectID:  projectID,
		Components: components,
		Total:      len(components),
	}, nil
}

func (s *AnalysisQueryService) loadFiles(
	ctx context.Context,
	projectID uuid.UUID,
) ([]outbound.FileAnalysis, error) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, common.WrapServiceError(common.OpRetrieveProject, err)
	}
	if project == nil {
		return nil, domainerrors.ErrProjectNotFound
	}

	files, err := s.sourceUnitRepo.FindByProjectID(ctx, projectID)
	if err != nil {
		return nil, common.WrapServiceError(common.OpRetrieveSourceUnit, err)
	}
	return files, nil
}
