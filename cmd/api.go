package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codeatlas/internal/adapter/inbound/api"
	"codeatlas/internal/adapter/inbound/service"
	"codeatlas/internal/adapter/outbound/analysis"
	natsmessaging "codeatlas/internal/adapter/outbound/messaging"
	"codeatlas/internal/adapter/outbound/parser"
	"codeatlas/internal/adapter/outbound/repository"
	"codeatlas/internal/application/common/logging"
	"codeatlas/internal/application/common/slogger"
	"codeatlas/internal/application/registry"
	"codeatlas/internal/config"
	"codeatlas/internal/version"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

const serverStartTimeout = 10 * time.Second

// ServiceFactory wires the API server's dependency graph from configuration.
type ServiceFactory struct {
	config *config.Config
}

// NewServiceFactory creates a new ServiceFactory.
func NewServiceFactory(cfg *config.Config) *ServiceFactory {
	return &ServiceFactory{config: cfg}
}

// CreateServer builds a fully wired API server: database pool, repositories,
// NATS publisher, parser and analysis engine, service registry, and the
// protocol adapters on top.
func (sf *ServiceFactory) CreateServer() (*api.Server, error) {
	logger, err := sf.createLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	slogger.SetGlobalLogger(logger)

	pool, err := createDatabasePool(sf.config)
	if err != nil {
		return nil, fmt.Errorf("failed to create database connection: %w", err)
	}

	projectRepo := repository.NewPostgreSQLProjectRepository(pool)
	jobRepo := repository.NewPostgreSQLAnalysisJobRepository(pool)
	sourceUnitRepo := repository.NewPostgreSQLSourceUnitRepository(pool)

	publisher, err := natsmessaging.NewNATSMessagePublisher(sf.config.NATS, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create message publisher: %w", err)
	}
	if err := publisher.Connect(); err != nil {
		// The server still starts so the health endpoint can report NATS as
		// down; publishes fail until the connection recovers.
		slogger.ErrorNoCtx("Failed to connect to NATS", slogger.Fields{"error": err.Error()})
	} else if err := publisher.EnsureStream(); err != nil {
		slogger.ErrorNoCtx("Failed to ensure analysis stream", slogger.Fields{"error": err.Error()})
	}

	treeParser := parser.NewCLIParser(sf.config.Parser.Command).WithTimeout(sf.config.Parser.Timeout)

	engine, err := analysis.NewEngine()
	if err != nil {
		return nil, fmt.Errorf("failed to create analysis engine: %w", err)
	}

	serviceRegistry := registry.NewServiceRegistry(
		projectRepo,
		jobRepo,
		sourceUnitRepo,
		publisher,
		treeParser,
		engine,
		sf.config.Analysis,
	)

	healthService := service.NewHealthServiceAdapter(
		repository.NewDatabaseHealthChecker(pool),
		publisher,
		version.GetVersion().Version,
	)

	builder := api.NewServerBuilder(sf.config).
		WithHealthService(healthService).
		WithProjectService(service.NewProjectServiceAdapter(serviceRegistry)).
		WithAnalysisService(service.NewAnalysisServiceAdapter(serviceRegistry)).
		WithDiagramService(service.NewDiagramServiceAdapter(serviceRegistry)).
		WithErrorHandler(api.NewDefaultErrorHandler())

	builder = sf.applyMiddleware(builder)

	return builder.Build()
}

// applyMiddleware configures the middleware chain from the API config. The
// default chain is used unless explicitly disabled, in which case individual
// middleware can still be opted into.
func (sf *ServiceFactory) applyMiddleware(builder *api.ServerBuilder) *api.ServerBuilder {
	apiCfg := sf.config.API
	if boolOrDefault(apiCfg.EnableDefaultMiddleware, true) {
		return builder.WithDefaultMiddleware()
	}

	if boolOrDefault(apiCfg.EnableSecurityHeaders, false) {
		builder = builder.WithMiddleware(api.NewSecurityMiddleware())
	}
	if boolOrDefault(apiCfg.EnableLogging, false) {
		builder = builder.WithMiddleware(api.NewLoggingMiddleware())
	}
	if boolOrDefault(apiCfg.EnableCORS, false) {
		builder = builder.WithMiddleware(api.NewCORSMiddleware())
	}
	if boolOrDefault(apiCfg.EnableErrorHandling, false) {
		builder = builder.WithMiddleware(api.NewErrorHandlingMiddleware())
	}
	return builder
}

func (sf *ServiceFactory) createLogger() (logging.ApplicationLogger, error) {
	return logging.NewApplicationLogger(logging.Config{
		Level:  sf.config.Log.Level,
		Format: sf.config.Log.Format,
	})
}

func boolOrDefault(value *bool, fallback bool) bool {
	if value == nil {
		return fallback
	}
	return *value
}

// createDatabasePool creates a pgx connection pool from the application
// database configuration.
func createDatabasePool(cfg *config.Config) (*pgxpool.Pool, error) {
	dbConfig := repository.DatabaseConfig{
		Host:           cfg.Database.Host,
		Port:           cfg.Database.Port,
		Database:       cfg.Database.Name,
		Username:       cfg.Database.User,
		Password:       cfg.Database.Password,
		Schema:         "codeatlas",
		MaxConnections: cfg.Database.MaxConnections,
		MinConnections: cfg.Database.MaxIdleConnections,
		SSLMode:        cfg.Database.SSLMode,
	}

	if dbConfig.Host == "" {
		dbConfig.Host = "localhost"
	}
	if dbConfig.Port == 0 {
		dbConfig.Port = 5432
	}
	if dbConfig.MaxConnections == 0 {
		dbConfig.MaxConnections = 10
	}
	if dbConfig.SSLMode == "" {
		dbConfig.SSLMode = "disable"
	}

	return repository.NewDatabaseConnection(dbConfig)
}

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long: `Start the HTTP API server that provides REST endpoints for project
management and syntax-tree analysis operations.

The server provides endpoints for:
- Health checks
- Project CRUD operations and job history
- Aggregated variable, function, and component descriptors
- On-demand flow diagram synthesis

Configuration is loaded from config files and environment variables.`,
	Run: runAPIServer,
}

func runAPIServer(_ *cobra.Command, _ []string) {
	cfg := GetConfig()

	shutdownTelemetry := setupTelemetry()
	defer shutdownTelemetry()

	serviceFactory := NewServiceFactory(cfg)

	server, err := serviceFactory.CreateServer()
	if err != nil {
		slogger.ErrorNoCtx("Failed to create server", slogger.Fields{"error": err.Error()})
		os.Exit(1)
	}

	startCtx, startCancel := context.WithTimeout(context.Background(), serverStartTimeout)
	defer startCancel()

	if err := server.Start(startCtx); err != nil {
		slogger.ErrorNoCtx("Failed to start server", slogger.Fields{"error": err.Error()})
		os.Exit(1)
	}

	slogger.InfoNoCtx("API server started", slogger.Fields{
		"address": server.Addr(),
		"routes":  server.Routes().RouteCount(),
	})

	gracefulShutdown(server)
}

// gracefulShutdown blocks until SIGINT/SIGTERM, then drains the server.
func gracefulShutdown(server *api.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	slogger.InfoNoCtx("Received signal, initiating graceful shutdown", slogger.Fields{
		"signal": sig.String(),
	})

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slogger.ErrorNoCtx("Error during server shutdown", slogger.Fields{"error": err.Error()})
		os.Exit(1)
	}

	slogger.InfoNoCtx("API server shut down gracefully", nil)
}

func init() {
	rootCmd.AddCommand(apiCmd)
}
