package common

import (
	"path/filepath"

	"codeatlas/internal/application/dto"
	"codeatlas/internal/domain/entity"
)

// EntityToProjectResponse converts a project entity to response DTO.
func EntityToProjectResponse(project *entity.Project) *dto.ProjectResponse {
	return &dto.ProjectResponse{
		ID:             project.ID(),
		RootPath:       project.RootPath(),
		Name:           project.Name(),
		Description:    project.Description(),
		LastAnalyzedAt: project.LastAnalyzedAt(),
		TotalFiles:     project.TotalFiles(),
		TotalSymbols:   project.TotalSymbols(),
		CreatedAt:      project.CreatedAt(),
		UpdatedAt:      project.UpdatedAt(),
	}
}

// EntityToJobResponse converts an analysis job entity to response DTO.
func EntityToJobResponse(job *entity.AnalysisJob) *dto.JobResponse {
	return &dto.JobResponse{
		ID:             job.ID(),
		ProjectID:      job.ProjectID(),
		Status:         job.Status().String(),
		StartedAt:      job.StartedAt(),
		CompletedAt:    job.CompletedAt(),
		ErrorMessage:   job.ErrorMessage(),
		FilesProcessed: job.FilesProcessed(),
		FilesFailed:    job.FilesFailed(),
		SymbolsFound:   job.SymbolsFound(),
		CreatedAt:      job.CreatedAt(),
	}
}

// ProjectNameFromPath derives a default project name from the last element
// of its root path.
func ProjectNameFromPath(rootPath string) string {
	name := filepath.Base(filepath.Clean(rootPath))
	if name == "." || name == string(filepath.Separator) {
		return "project"
	}
	return name
}

// NewPaginationResponse builds pagination metadata for list responses.
func NewPaginationResponse(limit, offset, total int) dto.PaginationResponse {
	return dto.PaginationResponse{
		Limit:   limit,
		Offset:  offset,
		Total:   total,
		HasMore: offset+limit < total,
	}
}
