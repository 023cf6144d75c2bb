package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"codeatlas/internal/application/common/slogger"
	"codeatlas/internal/domain/entity"
	"codeatlas/internal/domain/messaging"
	"codeatlas/internal/port/inbound"
	"codeatlas/internal/port/outbound"
)

const defaultJobTimeout = 10 * time.Minute

// metricsAlpha is the smoothing factor for the processing-time moving average.
const metricsAlpha = 0.1

// ProjectAnalyzer runs a full analysis pass over a project directory.
type ProjectAnalyzer interface {
	AnalyzeProject(ctx context.Context, rootPath string) (*outbound.ProjectAnalysis, error)
}

// JobProcessorConfig holds configuration for the job processor.
type JobProcessorConfig struct {
	MaxConcurrentJobs int
	JobTimeout        time.Duration
}

// DefaultJobProcessor consumes analysis job messages: it runs the analyzer
// over the project's source tree, persists the per-file results, and records
// the outcome on the job and project entities.
type DefaultJobProcessor struct {
	config         JobProcessorConfig
	jobRepo        outbound.AnalysisJobRepository
	projectRepo    outbound.ProjectRepository
	sourceUnitRepo outbound.SourceUnitRepository
	analyzer       ProjectAnalyzer

	semaphore chan struct{}

	mu           sync.RWMutex
	metrics      inbound.JobProcessorMetrics
	healthStatus inbound.JobProcessorHealthStatus
	activeJobs   int
}

// NewDefaultJobProcessor creates a new default job processor.
func NewDefaultJobProcessor(
	config JobProcessorConfig,
	jobRepo outbound.AnalysisJobRepository,
	projectRepo outbound.ProjectRepository,
	sourceUnitRepo outbound.SourceUnitRepository,
	analyzer ProjectAnalyzer,
) *DefaultJobProcessor {
	if jobRepo == nil {
		panic("jobRepo cannot be nil")
	}
	if projectRepo == nil {
		panic("projectRepo cannot be nil")
	}
	if sourceUnitRepo == nil {
		panic("sourceUnitRepo cannot be nil")
	}
	if analyzer == nil {
		panic("analyzer cannot be nil")
	}

	maxConcurrent := config.MaxConcurrentJobs
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	if config.JobTimeout <= 0 {
		config.JobTimeout = defaultJobTimeout
	}

	return &DefaultJobProcessor{
		config:         config,
		jobRepo:        jobRepo,
		projectRepo:    projectRepo,
		sourceUnitRepo: sourceUnitRepo,
		analyzer:       analyzer,
		semaphore:      make(chan struct{}, maxConcurrent),
		healthStatus:   inbound.JobProcessorHealthStatus{IsReady: true},
	}
}

// ProcessJob runs one analysis job end to end. Returning an error signals
// the consumer to negatively acknowledge the message for redelivery.
func (p *DefaultJobProcessor) ProcessJob(ctx context.Context, message messaging.AnalysisJobMessage) error {
	if err := message.Validate(); err != nil {
		return fmt.Errorf("invalid job message: %w", err)
	}

	select {
	case p.semaphore <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-p.semaphore }()

	p.trackJobStart()
	started := time.Now()

	jobCtx, cancel := context.WithTimeout(ctx, p.config.JobTimeout)
	defer cancel()

	err := p.runJob(jobCtx, message)
	p.trackJobEnd(started, err)
	return err
}

func (p *DefaultJobProcessor) runJob(ctx context.Context, message messaging.AnalysisJobMessage) error {
	job, project, err := p.loadJobAndProject(ctx, message)
	if err != nil {
		return err
	}

	if err := job.Start(); err != nil {
		return fmt.Errorf("failed to start job %s: %w", job.ID(), err)
	}
	if err := p.jobRepo.Update(ctx, job); err != nil {
		return fmt.Errorf("failed to mark job running: %w", err)
	}

	slogger.Info(ctx, "Analysis job started", slogger.Fields{
		"job_id":     job.ID().String(),
		"project_id": project.ID().String(),
		"root_path":  message.RootPath,
	})

	result, analysisErr := p.analyzer.AnalyzeProject(ctx, message.RootPath)
	if analysisErr != nil {
		p.failJob(ctx, job, analysisErr)
		return fmt.Errorf("analysis failed for job %s: %w", job.ID(), analysisErr)
	}

	if err := p.sourceUnitRepo.SaveFileAnalyses(ctx, project.ID(), result.Files); err != nil {
		p.failJob(ctx, job, err)
		return fmt.Errorf("failed to persist analysis results: %w", err)
	}

	if err := job.Complete(result.TotalFiles, len(result.FailedFiles), result.TotalSymbols); err != nil {
		return fmt.Errorf("failed to complete job %s: %w", job.ID(), err)
	}
	if err := p.jobRepo.Update(ctx, job); err != nil {
		return fmt.Errorf("failed to mark job completed: %w", err)
	}

	project.MarkAnalyzed(result.TotalFiles, result.TotalSymbols)
	if err := p.projectRepo.Update(ctx, project); err != nil {
		return fmt.Errorf("failed to update project stats: %w", err)
	}

	p.recordResult(result)

	slogger.Info(ctx, "Analysis job completed", slogger.Fields{
		"job_id":        job.ID().String(),
		"project_id":    project.ID().String(),
		"total_files":   result.TotalFiles,
		"failed_files":  len(result.FailedFiles),
		"total_symbols": result.TotalSymbols,
	})
	return nil
}

func (p *DefaultJobProcessor) loadJobAndProject(
	ctx context.Context,
	message messaging.AnalysisJobMessage,
) (*entity.AnalysisJob, *entity.Project, error) {
	job, err := p.jobRepo.FindByID(ctx, message.JobID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load job %s: %w", message.JobID, err)
	}
	if job == nil {
		return nil, nil, fmt.Errorf("job %s not found", message.JobID)
	}

	project, err := p.projectRepo.FindByID(ctx, message.ProjectID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load project %s: %w", message.ProjectID, err)
	}
	if project == nil {
		return nil, nil, fmt.Errorf("project %s not found", message.ProjectID)
	}
	return job, project, nil
}

// failJob records the failure on the job entity. The original error is the
// one reported; persistence problems here are only logged.
func (p *DefaultJobProcessor) failJob(ctx context.Context, job *entity.AnalysisJob, cause error) {
	if err := job.Fail(cause.Error()); err != nil {
		slogger.Error(ctx, "Failed to transition job to failed", slogger.Fields{
			"job_id": job.ID().String(),
			"error":  err.Error(),
		})
		return
	}
	if err := p.jobRepo.Update(ctx, job); err != nil {
		slogger.Error(ctx, "Failed to persist job failure", slogger.Fields{
			"job_id": job.ID().String(),
			"error":  err.Error(),
		})
	}
}

func (p *DefaultJobProcessor) trackJobStart() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.activeJobs++
	p.healthStatus.ActiveJobs = p.activeJobs
}

func (p *DefaultJobProcessor) trackJobEnd(started time.Time, err error) {
	elapsed := time.Since(started)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.activeJobs--
	p.healthStatus.ActiveJobs = p.activeJobs
	p.healthStatus.LastJobTime = time.Now()

	if err != nil {
		p.metrics.TotalJobsFailed++
		p.healthStatus.FailedJobs++
		p.healthStatus.LastError = err.Error()
	} else {
		p.metrics.TotalJobsProcessed++
		p.healthStatus.CompletedJobs++
	}

	if p.metrics.AverageProcessingTime == 0 {
		p.metrics.AverageProcessingTime = elapsed
	} else {
		p.metrics.AverageProcessingTime = time.Duration(
			float64(p.metrics.AverageProcessingTime)*(1-metricsAlpha) + float64(elapsed)*metricsAlpha,
		)
	}
	p.healthStatus.AverageJobTime = p.metrics.AverageProcessingTime
}

func (p *DefaultJobProcessor) recordResult(result *outbound.ProjectAnalysis) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.metrics.FilesProcessed += int64(result.TotalFiles)
	p.metrics.FilesFailed += int64(len(result.FailedFiles))
	for i := range result.Files {
		p.metrics.SymbolsExtracted += int64(result.Files[i].SymbolCount())
		p.metrics.BytesProcessed += result.Files[i].SizeBytes
	}
}

// GetHealthStatus returns the processor's health snapshot.
func (p *DefaultJobProcessor) GetHealthStatus() inbound.JobProcessorHealthStatus {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.healthStatus
}

// GetMetrics returns accumulated processing metrics.
func (p *DefaultJobProcessor) GetMetrics() inbound.JobProcessorMetrics {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.metrics
}

// Cleanup waits for in-flight jobs to drain, bounded by the configured job
// timeout, then marks the processor not ready.
func (p *DefaultJobProcessor) Cleanup() error {
	deadline := time.Now().Add(p.config.JobTimeout)
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		p.mu.RLock()
		active := p.activeJobs
		p.mu.RUnlock()
		if active == 0 {
			p.mu.Lock()
			p.healthStatus.IsReady = false
			p.mu.Unlock()
			return nil
		}

		if time.Now().After(deadline) {
			return errors.New("cleanup timed out with active jobs")
		}
		<-ticker.C
	}
}

var _ inbound.JobProcessor = (*DefaultJobProcessor)(nil)
