package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateProjectRequest represents the request to register a project for analysis.
type CreateProjectRequest struct {
	RootPath    string  `json:"root_path"             validate:"required"`
	Name        string  `json:"name,omitempty"        validate:"omitempty,max=255"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000"`
}

// ProjectResponse represents the response containing project information.
type ProjectResponse struct {
	ID             uuid.UUID  `json:"id"`
	RootPath       string     `json:"root_path"`
	Name           string     `json:"name"`
	Description    *string    `json:"description"`
	LastAnalyzedAt *time.Time `json:"last_analyzed_at"`
	TotalFiles     int        `json:"total_files"`
	TotalSymbols   int        `json:"total_symbols"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// ProjectListResponse represents the response for listing projects.
type ProjectListResponse struct {
	Projects   []ProjectResponse  `json:"projects"`
	Pagination PaginationResponse `json:"pagination"`
}

// ListProjectsQuery represents query parameters for listing projects.
type ListProjectsQuery struct {
	Limit  int    `form:"limit"  validate:"omitempty,min=1,max=100"`
	Offset int    `form:"offset" validate:"omitempty,min=0"`
	Sort   string `form:"sort"   validate:"omitempty,oneof='created_at:asc' 'created_at:desc' 'name:asc' 'name:desc'"`
}

// DefaultListProjectsQuery returns default values for the project list query.
func DefaultListProjectsQuery() ListProjectsQuery {
	return ListProjectsQuery{
		Limit:  20,
		Offset: 0,
		Sort:   "created_at:desc",
	}
}

// JobResponse represents one analysis job.
type JobResponse struct {
	ID             uuid.UUID  `json:"id"`
	ProjectID      uuid.UUID  `json:"project_id"`
	Status         string     `json:"status"`
	StartedAt      *time.Time `json:"started_at"`
	CompletedAt    *time.Time `json:"completed_at"`
	ErrorMessage   *string    `json:"error_message,omitempty"`
	FilesProcessed int        `json:"files_processed"`
	FilesFailed    int        `json:"files_failed"`
	SymbolsFound   int        `json:"symbols_found"`
	CreatedAt      time.Time  `json:"created_at"`
}

// JobListResponse represents the response for listing a project's jobs.
type JobListResponse struct {
	Jobs       []JobResponse      `json:"jobs"`
	Pagination PaginationResponse `json:"pagination"`
}

// ListJobsQuery represents query parameters for listing jobs.
type ListJobsQuery struct {
	Limit  int `form:"limit"  validate:"omitempty,min=1,max=100"`
	Offset int `form:"offset" validate:"omitempty,min=0"`
}

// DefaultListJobsQuery returns default values for the job list query.
func DefaultListJobsQuery() ListJobsQuery {
	return ListJobsQuery{Limit: 20, Offset: 0}
}

// PaginationResponse represents pagination metadata.
type PaginationResponse struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	Total   int  `json:"total"`
	HasMore bool `json:"has_more"`
}
