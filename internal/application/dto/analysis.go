package dto

import (
	"codeatlas/internal/port/outbound"

	"github.com/google/uuid"
)

// VariablesResponse aggregates variable descriptors across a project.
type VariablesResponse struct {
	ProjectID uuid.UUID                     `json:"project_id"`
	Variables []outbound.VariableDescriptor `json:"variables"`
	Total     int                           `json:"total"`
}

// FunctionsResponse aggregates function descriptors across a project.
type FunctionsResponse struct {
	ProjectID uuid.UUID                     `json:"project_id"`
	Functions []outbound.FunctionDescriptor `json:"functions"`
	Total     int                           `json:"total"`
}

// ComponentsResponse aggregates component descriptors across a project.
type ComponentsResponse struct {
	ProjectID  uuid.UUID                      `json:"project_id"`
	Components []outbound.ComponentDescriptor `json:"components"`
	Total      int                            `json:"total"`
}

// DiagramRequest asks for a flow diagram of a single source body.
type DiagramRequest struct {
	Source   string `json:"source"             validate:"required"`
	FilePath string `json:"file_path,omitempty"`
	Kind     string `json:"kind"               validate:"required,oneof=control data component_tree"`
	Title    string `json:"title,omitempty"`
}

// DiagramResponse carries the synthesized graph and its Mermaid rendering.
type DiagramResponse struct {
	Graph   *outbound.FlowGraph `json:"graph"`
	Mermaid string              `json:"mermaid"`
}
