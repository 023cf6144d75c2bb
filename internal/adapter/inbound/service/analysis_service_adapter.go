package service

import (
	"context"

	"codeatlas/internal/application/dto"
	"codeatlas/internal/application/registry"
	"codeatlas/internal/port/inbound"

	"github.com/google/uuid"
)

// AnalysisServiceAdapter adapts descriptor query services to the inbound
// port. It implements inbound.AnalysisQueryService.
type AnalysisServiceAdapter struct {
	serviceRegistry *registry.ServiceRegistry
}

// NewAnalysisServiceAdapter creates a new AnalysisServiceAdapter.
func NewAnalysisServiceAdapter(serviceRegistry *registry.ServiceRegistry) inbound.AnalysisQueryService {
	return &AnalysisServiceAdapter{
		serviceRegistry: serviceRegistry,
	}
}

// GetVariables returns all variable descriptors recorded for a project.
func (a *AnalysisServiceAdapter) GetVariables(ctx context.Context, projectID uuid.UUID) (*dto.VariablesResponse, error) {
	return a.serviceRegistry.AnalysisQueryService().GetVariables(ctx, projectID)
}

// GetFunctions returns all function descriptors recorded for a project.
func (a *AnalysisServiceAdapter) GetFunctions(ctx context.Context, projectID uuid.UUID) (*dto.FunctionsResponse, error) {
	return a.serviceRegistry.AnalysisQueryService().GetFunctions(ctx, projectID)
}

// GetComponents returns all component descriptors recorded for a project.
func (a *AnalysisServiceAdapter) GetComponents(ctx context.Context, projectID uuid.UUID) (*dto.ComponentsResponse, error) {
	return a.serviceRegistry.AnalysisQueryService().GetComponents(ctx, projectID)
}

// DiagramServiceAdapter adapts the diagram service to the inbound port.
type DiagramServiceAdapter struct {
	serviceRegistry *registry.ServiceRegistry
}

// NewDiagramServiceAdapter creates a new DiagramServiceAdapter.
func NewDiagramServiceAdapter(serviceRegistry *registry.ServiceRegistry) inbound.DiagramService {
	return &DiagramServiceAdapter{
		serviceRegistry: serviceRegistry,
	}
}

// GenerateDiagram synthesizes a flow diagram for a single source body.
func (a *DiagramServiceAdapter) GenerateDiagram(ctx context.Context, request dto.DiagramRequest) (*dto.DiagramResponse, error) {
	return a.serviceRegistry.DiagramService().GenerateDiagram(ctx, request)
}
