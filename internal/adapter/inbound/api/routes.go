package api

import (
	"fmt"
	"net/http"
	"strings"
)

// RouteRegistry manages HTTP route registration using Go 1.22+ ServeMux
// method-qualified patterns.
type RouteRegistry struct {
	routes   map[string]http.Handler
	patterns []string
	mux      *http.ServeMux
}

// NewRouteRegistry creates a new RouteRegistry.
func NewRouteRegistry() *RouteRegistry {
	return &RouteRegistry{
		routes:   make(map[string]http.Handler),
		patterns: make([]string, 0),
		mux:      http.NewServeMux(),
	}
}

// RegisterAPIRoutes registers all API routes with their handlers.
func (r *RouteRegistry) RegisterAPIRoutes(
	healthHandler *HealthHandler,
	projectHandler *ProjectHandler,
	analysisHandler *AnalysisHandler,
) {
	register := func(pattern string, handler http.HandlerFunc) {
		if err := r.RegisterRoute(pattern, handler); err != nil {
			panic(fmt.Errorf("failed to register route %s: %w", pattern, err))
		}
	}

	register("GET /health", healthHandler.GetHealth)

	register("POST /projects", projectHandler.CreateProject)
	register("GET /projects", projectHandler.ListProjects)
	register("GET /projects/{id}", projectHandler.GetProject)
	register("DELETE /projects/{id}", projectHandler.DeleteProject)
	register("GET /projects/{id}/jobs", projectHandler.GetProjectJobs)

	register("GET /projects/{id}/variables", analysisHandler.GetVariables)
	register("GET /projects/{id}/functions", analysisHandler.GetFunctions)
	register("GET /projects/{id}/components", analysisHandler.GetComponents)
	register("POST /diagrams", analysisHandler.GenerateDiagram)
}

// RegisterRoute registers a single route with the given pattern and handler.
func (r *RouteRegistry) RegisterRoute(pattern string, handler http.Handler) error {
	if err := validatePattern(pattern); err != nil {
		return err
	}
	if _, exists := r.routes[pattern]; exists {
		return fmt.Errorf("route pattern %q is already registered", pattern)
	}

	r.mux.Handle(pattern, handler)
	r.routes[pattern] = handler
	r.patterns = append(r.patterns, pattern)
	return nil
}

// BuildServeMux returns the configured ServeMux.
func (r *RouteRegistry) BuildServeMux() *http.ServeMux {
	return r.mux
}

// HasRoute checks if a route pattern is registered.
func (r *RouteRegistry) HasRoute(pattern string) bool {
	_, exists := r.routes[pattern]
	return exists
}

// RouteCount returns the number of registered routes.
func (r *RouteRegistry) RouteCount() int {
	return len(r.routes)
}

// GetPatterns returns all registered route patterns.
func (r *RouteRegistry) GetPatterns() []string {
	return r.patterns
}

var validRouteMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodPost:    true,
	http.MethodPut:     true,
	http.MethodPatch:   true,
	http.MethodDelete:  true,
	http.MethodHead:    true,
	http.MethodOptions: true,
}

// validatePattern validates a "METHOD /path" ServeMux pattern.
func validatePattern(pattern string) error {
	if strings.TrimSpace(pattern) == "" {
		return fmt.Errorf("route pattern cannot be empty")
	}

	parts := strings.SplitN(pattern, " ", 2)
	if len(parts) != 2 {
		return fmt.Errorf("invalid route pattern %q: must have format 'METHOD /path'", pattern)
	}

	method, path := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	if !validRouteMethods[method] {
		return fmt.Errorf("invalid route pattern %q: unknown HTTP method %q", pattern, method)
	}
	if !strings.HasPrefix(path, "/") {
		return fmt.Errorf("invalid route pattern %q: path must start with '/'", pattern)
	}
	return nil
}
