package common

import "fmt"

// ServiceError represents a service-level error with context
type ServiceError struct {
	Operation string
	Cause     error
}

// Error implements the error interface
func (e ServiceError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Operation, e.Cause)
}

// Unwrap returns the underlying error
func (e ServiceError) Unwrap() error {
	return e.Cause
}

// WrapServiceError wraps an error with service operation context
func WrapServiceError(operation string, err error) error {
	if err == nil {
		return nil
	}
	return ServiceError{
		Operation: operation,
		Cause:     err,
	}
}

// Common error operations for consistent messaging
const (
	OpCreateProject      = "create project"
	OpDeleteProject      = "delete project"
	OpRetrieveProject    = "retrieve project"
	OpListProjects       = "retrieve projects"
	OpSaveProject        = "save project"
	OpUpdateProject      = "update project"
	OpCreateAnalysisJob  = "create analysis job"
	OpUpdateAnalysisJob  = "update analysis job"
	OpRetrieveJob        = "retrieve analysis job"
	OpListAnalysisJobs   = "retrieve analysis jobs"
	OpPublishJob         = "publish analysis job"
	OpRetrieveSourceUnit = "retrieve source units"
	OpSaveSourceUnits    = "save source units"
	OpDeleteSourceUnits  = "delete source units"
	OpCheckProjectExists = "check if project exists"
)
