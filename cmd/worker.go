package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codeatlas/internal/adapter/inbound/messaging"
	"codeatlas/internal/adapter/outbound/analysis"
	"codeatlas/internal/adapter/outbound/parser"
	"codeatlas/internal/adapter/outbound/repository"
	"codeatlas/internal/application/common/logging"
	"codeatlas/internal/application/common/slogger"
	"codeatlas/internal/application/service"
	"codeatlas/internal/application/worker"
	"codeatlas/internal/config"
	"codeatlas/internal/port/inbound"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

const (
	analysisJobSubject  = "analysis.jobs"
	analysisDurableName = "analysis-consumer"

	// consumerAckWait is a floor; the consumer stretches it to cover the
	// configured job timeout so in-flight jobs are not redelivered.
	consumerAckWait       = 30 * time.Second
	consumerMaxDeliver    = 3
	consumerMaxAckPending = 100
)

// newWorkerCmd creates and returns the worker command.
func newWorkerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Start the background worker service",
		Long: `Start the background worker service that processes analysis jobs from NATS JetStream.

The worker service:
- Connects to NATS JetStream to consume project analysis jobs
- Scans project directories, parses source files, and extracts descriptors
- Runs with configurable concurrency for parallel job processing
- Persists per-file results and job outcomes in PostgreSQL

Configuration is loaded from config files and environment variables.`,
		Run: func(_ *cobra.Command, _ []string) {
			runWorkerService()
		},
	}
}

// runWorkerService starts and runs the worker service.
func runWorkerService() {
	cfg := GetConfig()

	logger, err := logging.NewApplicationLogger(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		slogger.ErrorNoCtx("Failed to create logger", slogger.Fields{"error": err.Error()})
		return
	}
	slogger.SetGlobalLogger(logger)

	shutdownTelemetry := setupTelemetry()
	defer shutdownTelemetry()

	slogger.InfoNoCtx("Starting worker service", slogger.Fields{
		"concurrency": cfg.Worker.Concurrency,
		"queue_group": cfg.Worker.QueueGroup,
	})

	dbPool, err := createDatabasePool(cfg)
	if err != nil {
		slogger.ErrorNoCtx("Failed to create database connection pool", slogger.Fields{"error": err.Error()})
		return
	}
	defer dbPool.Close()

	workerService, err := createWorkerService(cfg, dbPool, logger)
	if err != nil {
		slogger.ErrorNoCtx("Failed to create worker service", slogger.Fields{"error": err.Error()})
		return
	}

	if err := workerService.Start(context.Background()); err != nil {
		slogger.ErrorNoCtx("Failed to start worker service", slogger.Fields{"error": err.Error()})
		return
	}
	slogger.InfoNoCtx("Worker service started successfully", nil)

	waitForShutdownAndStop(workerService)
}

// createWorkerService assembles the consumer, job processor, and their
// dependencies into one worker service.
func createWorkerService(
	cfg *config.Config,
	dbPool *pgxpool.Pool,
	logger logging.ApplicationLogger,
) (inbound.WorkerService, error) {
	projectRepo := repository.NewPostgreSQLProjectRepository(dbPool)
	jobRepo := repository.NewPostgreSQLAnalysisJobRepository(dbPool)
	sourceUnitRepo := repository.NewPostgreSQLSourceUnitRepository(dbPool)

	treeParser := parser.NewCLIParser(cfg.Parser.Command).WithTimeout(cfg.Parser.Timeout)

	engine, err := analysis.NewEngine()
	if err != nil {
		return nil, err
	}

	orchestrator := service.NewAnalysisOrchestrator(treeParser, engine, cfg.Analysis)

	jobProcessor := worker.NewDefaultJobProcessor(
		worker.JobProcessorConfig{
			MaxConcurrentJobs: cfg.Worker.Concurrency,
			JobTimeout:        cfg.Worker.JobTimeout,
		},
		jobRepo,
		projectRepo,
		sourceUnitRepo,
		orchestrator,
	)

	consumer, err := messaging.NewNATSConsumer(
		messaging.ConsumerConfig{
			Subject:       analysisJobSubject,
			QueueGroup:    cfg.Worker.QueueGroup,
			DurableName:   analysisDurableName,
			AckWait:       consumerAckWait,
			MaxDeliver:    consumerMaxDeliver,
			MaxAckPending: consumerMaxAckPending,
			JobTimeout:    cfg.Worker.JobTimeout,
		},
		cfg.NATS,
		jobProcessor,
		logger,
	)
	if err != nil {
		return nil, err
	}

	return worker.NewDefaultWorkerService(consumer, jobProcessor), nil
}

// waitForShutdownAndStop waits for shutdown signal and stops the service gracefully.
func waitForShutdownAndStop(workerService inbound.WorkerService) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	slogger.InfoNoCtx("Received shutdown signal, initiating graceful shutdown", slogger.Fields{
		"signal": sig.String(),
	})

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := workerService.Stop(shutdownCtx); err != nil {
		slogger.ErrorNoCtx("Error during worker service shutdown", slogger.Fields{"error": err.Error()})
	} else {
		slogger.InfoNoCtx("Worker service shutdown completed successfully", nil)
	}
}

func init() {
	rootCmd.AddCommand(newWorkerCmd())
}
