package valueobject

import "fmt"

// JobStatus is the lifecycle state of an analysis job. Jobs move
// pending → running → completed/failed; cancellation is allowed from any
// non-terminal state.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCancelled JobStatus = "cancelled"
)

// jobTransitions lists the allowed successor states; terminal states have
// none.
var jobTransitions = map[JobStatus][]JobStatus{
	JobStatusPending: {JobStatusRunning, JobStatusCancelled},
	JobStatusRunning: {JobStatusCompleted, JobStatusFailed, JobStatusCancelled},
}

// NewJobStatus parses a stored status string, rejecting unknown values.
func NewJobStatus(status string) (JobStatus, error) {
	switch s := JobStatus(status); s {
	case JobStatusPending, JobStatusRunning, JobStatusCompleted, JobStatusFailed, JobStatusCancelled:
		return s, nil
	default:
		return "", fmt.Errorf("invalid job status: %s", status)
	}
}

func (s JobStatus) String() string {
	return string(s)
}

// IsTerminal reports whether the job can make no further progress.
func (s JobStatus) IsTerminal() bool {
	switch s {
	case JobStatusCompleted, JobStatusFailed, JobStatusCancelled:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether moving to target is a legal lifecycle
// step from this status.
func (s JobStatus) CanTransitionTo(target JobStatus) bool {
	for _, next := range jobTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}
