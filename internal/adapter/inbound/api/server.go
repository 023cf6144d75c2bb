package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"

	"codeatlas/internal/config"
	"codeatlas/internal/port/inbound"
)

// MiddlewareFunc defines the middleware function signature.
type MiddlewareFunc func(http.Handler) http.Handler

// Server represents the HTTP API server.
type Server struct {
	config        *config.Config
	httpServer    *http.Server
	routeRegistry *RouteRegistry
	listener      net.Listener
	isRunning     bool
	mu            sync.RWMutex
}

// ServerBuilder provides a fluent interface for building Server instances.
type ServerBuilder struct {
	config          *config.Config
	healthService   inbound.HealthService
	projectService  inbound.ProjectService
	analysisService inbound.AnalysisQueryService
	diagramService  inbound.DiagramService
	errorHandler    ErrorHandler
	middleware      []MiddlewareFunc
}

// NewServerBuilder creates a new ServerBuilder.
func NewServerBuilder(cfg *config.Config) *ServerBuilder {
	return &ServerBuilder{
		config:     cfg,
		middleware: make([]MiddlewareFunc, 0),
	}
}

// WithHealthService sets the health service.
func (b *ServerBuilder) WithHealthService(service inbound.HealthService) *ServerBuilder {
	b.healthService = service
	return b
}

// WithProjectService sets the project service.
func (b *ServerBuilder) WithProjectService(service inbound.ProjectService) *ServerBuilder {
	b.projectService = service
	return b
}

// WithAnalysisService sets the descriptor query service.
func (b *ServerBuilder) WithAnalysisService(service inbound.AnalysisQueryService) *ServerBuilder {
	b.analysisService = service
	return b
}

// WithDiagramService sets the diagram service.
func (b *ServerBuilder) WithDiagramService(service inbound.DiagramService) *ServerBuilder {
	b.diagramService = service
	return b
}

// WithErrorHandler sets the error handler.
func (b *ServerBuilder) WithErrorHandler(handler ErrorHandler) *ServerBuilder {
	b.errorHandler = handler
	return b
}

// WithMiddleware adds middleware to the chain.
func (b *ServerBuilder) WithMiddleware(middleware MiddlewareFunc) *ServerBuilder {
	b.middleware = append(b.middleware, middleware)
	return b
}

// WithDefaultMiddleware adds the standard middleware chain.
func (b *ServerBuilder) WithDefaultMiddleware() *ServerBuilder {
	return b.
		WithMiddleware(NewSecurityMiddleware()).
		WithMiddleware(NewLoggingMiddleware()).
		WithMiddleware(NewCORSMiddleware()).
		WithMiddleware(NewErrorHandlingMiddleware())
}

// Build creates the Server instance.
func (b *ServerBuilder) Build() (*Server, error) {
	if err := b.validate(); err != nil {
		return nil, fmt.Errorf("server builder validation failed: %w", err)
	}
	if err := validateServerConfig(b.config); err != nil {
		return nil, err
	}

	registry := NewRouteRegistry()
	registry.RegisterAPIRoutes(
		NewHealthHandler(b.healthService, b.errorHandler),
		NewProjectHandler(b.projectService, b.errorHandler),
		NewAnalysisHandler(b.analysisService, b.diagramService, b.errorHandler),
	)

	// Apply middleware in reverse order so the first added runs outermost.
	var handler http.Handler = registry.BuildServeMux()
	for i := len(b.middleware) - 1; i >= 0; i-- {
		handler = b.middleware[i](handler)
	}

	host := b.config.API.Host
	if host == "" {
		host = "0.0.0.0"
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", host, b.config.API.Port),
		Handler:      handler,
		ReadTimeout:  b.config.API.ReadTimeout,
		WriteTimeout: b.config.API.WriteTimeout,
	}

	return &Server{
		config:        b.config,
		httpServer:    httpServer,
		routeRegistry: registry,
	}, nil
}

func (b *ServerBuilder) validate() error {
	if b.config == nil {
		return errors.New("config is required")
	}
	if b.healthService == nil {
		return errors.New("health service is required")
	}
	if b.projectService == nil {
		return errors.New("project service is required")
	}
	if b.analysisService == nil {
		return errors.New("analysis service is required")
	}
	if b.diagramService == nil {
		return errors.New("diagram service is required")
	}
	if b.errorHandler == nil {
		return errors.New("error handler is required")
	}
	return nil
}

func validateServerConfig(cfg *config.Config) error {
	port, err := strconv.Atoi(cfg.API.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid API port %q", cfg.API.Port)
	}
	return nil
}

// Start begins serving on the configured address. It returns once the
// listener is bound; serving continues in the background.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return errors.New("server is already running")
	}

	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	s.listener = listener
	s.isRunning = true

	go func() {
		if serveErr := s.httpServer.Serve(listener); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			s.mu.Lock()
			s.isRunning = false
			s.mu.Unlock()
		}
	}()

	select {
	case <-ctx.Done():
		s.isRunning = false
		_ = listener.Close()
		return ctx.Err()
	default:
		return nil
	}
}

// Shutdown gracefully stops the server, waiting for in-flight requests up to
// the context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}
	s.isRunning = false

	return s.httpServer.Shutdown(ctx)
}

// Addr returns the address the server is listening on.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.httpServer.Addr
}

// IsRunning reports whether the server is currently serving.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Routes returns the route registry, exposed for diagnostics and tests.
func (s *Server) Routes() *RouteRegistry {
	return s.routeRegistry
}
