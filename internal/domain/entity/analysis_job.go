package entity

import (
	"fmt"
	"time"

	"codeatlas/internal/domain/valueobject"

	"github.com/google/uuid"
)

// AnalysisJob represents one asynchronous analysis run over a project.
type AnalysisJob struct {
	id             uuid.UUID
	projectID      uuid.UUID
	status         valueobject.JobStatus
	startedAt      *time.Time
	completedAt    *time.Time
	errorMessage   *string
	filesProcessed int
	filesFailed    int
	symbolsFound   int
	createdAt      time.Time
	updatedAt      time.Time
}

// NewAnalysisJob creates a new pending AnalysisJob for a project.
func NewAnalysisJob(projectID uuid.UUID) *AnalysisJob {
	now := time.Now()
	return &AnalysisJob{
		id:        uuid.New(),
		projectID: projectID,
		status:    valueobject.JobStatusPending,
		createdAt: now,
		updatedAt: now,
	}
}

// RestoreAnalysisJob creates an AnalysisJob entity from stored data.
func RestoreAnalysisJob(
	id uuid.UUID,
	projectID uuid.UUID,
	status valueobject.JobStatus,
	startedAt *time.Time,
	completedAt *time.Time,
	errorMessage *string,
	filesProcessed int,
	filesFailed int,
	symbolsFound int,
	createdAt time.Time,
	updatedAt time.Time,
) *AnalysisJob {
	return &AnalysisJob{
		id:             id,
		projectID:      projectID,
		status:         status,
		startedAt:      startedAt,
		completedAt:    completedAt,
		errorMessage:   errorMessage,
		filesProcessed: filesProcessed,
		filesFailed:    filesFailed,
		symbolsFound:   symbolsFound,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

// ID returns the job ID.
func (j *AnalysisJob) ID() uuid.UUID {
	return j.id
}

// ProjectID returns the analyzed project's ID.
func (j *AnalysisJob) ProjectID() uuid.UUID {
	return j.projectID
}

// Status returns the current job status.
func (j *AnalysisJob) Status() valueobject.JobStatus {
	return j.status
}

// StartedAt returns when the job started running.
func (j *AnalysisJob) StartedAt() *time.Time {
	return j.startedAt
}

// CompletedAt returns when the job reached a terminal state.
func (j *AnalysisJob) CompletedAt() *time.Time {
	return j.completedAt
}

// ErrorMessage returns the failure message, if any.
func (j *AnalysisJob) ErrorMessage() *string {
	return j.errorMessage
}

// FilesProcessed returns the number of files analyzed so far.
func (j *AnalysisJob) FilesProcessed() int {
	return j.filesProcessed
}

// FilesFailed returns the number of files whose analysis failed.
func (j *AnalysisJob) FilesFailed() int {
	return j.filesFailed
}

// SymbolsFound returns the total symbols discovered by the job.
func (j *AnalysisJob) SymbolsFound() int {
	return j.symbolsFound
}

// CreatedAt returns the creation timestamp.
func (j *AnalysisJob) CreatedAt() time.Time {
	return j.createdAt
}

// UpdatedAt returns the last update timestamp.
func (j *AnalysisJob) UpdatedAt() time.Time {
	return j.updatedAt
}

// Start transitions the job to running.
func (j *AnalysisJob) Start() error {
	if !j.status.CanTransitionTo(valueobject.JobStatusRunning) {
		return fmt.Errorf("cannot start job in status %s", j.status)
	}
	now := time.Now()
	j.status = valueobject.JobStatusRunning
	j.startedAt = &now
	j.updatedAt = now
	return nil
}

// Complete transitions the job to completed and records counters.
func (j *AnalysisJob) Complete(filesProcessed, filesFailed, symbolsFound int) error {
	if !j.status.CanTransitionTo(valueobject.JobStatusCompleted) {
		return fmt.Errorf("cannot complete job in status %s", j.status)
	}
	now := time.Now()
	j.status = valueobject.JobStatusCompleted
	j.completedAt = &now
	j.filesProcessed = filesProcessed
	j.filesFailed = filesFailed
	j.symbolsFound = symbolsFound
	j.updatedAt = now
	return nil
}

// Fail transitions the job to failed with a message.
func (j *AnalysisJob) Fail(message string) error {
	if !j.status.CanTransitionTo(valueobject.JobStatusFailed) {
		return fmt.Errorf("cannot fail job in status %s", j.status)
	}
	now := time.Now()
	j.status = valueobject.JobStatusFailed
	j.completedAt = &now
	j.errorMessage = &message
	j.updatedAt = now
	return nil
}
