package service

import (
	"context"
	"fmt"

	"codeatlas/internal/adapter/outbound/analysis"
	"codeatlas/internal/application/dto"
	domainerrors "codeatlas/internal/domain/errors/domain"
	"codeatlas/internal/port/outbound"
)

const diagramDefaultFilePath = "snippet.tsx"

// DiagramService synthesizes flow diagrams for a single source body. The
// request carries the source text directly; nothing is persisted.
type DiagramService struct {
	parser   outbound.TreeParser
	analyzer outbound.CodeAnalyzer
}

// NewDiagramService creates a new instance of DiagramService.
func NewDiagramService(parser outbound.TreeParser, analyzer outbound.CodeAnalyzer) *DiagramService {
	if parser == nil {
		panic("parser cannot be nil")
	}
	if analyzer == nil {
		panic("analyzer cannot be nil")
	}
	return &DiagramService{
		parser:   parser,
		analyzer: analyzer,
	}
}

// GenerateDiagram parses the request's source, synthesizes the requested
// graph kind, and returns it alongside its Mermaid rendering.
func (s *DiagramService) GenerateDiagram(
	ctx context.Context,
	request dto.DiagramRequest,
) (*dto.DiagramResponse, error) {
	if request.Source == "" {
		return nil, fmt.Errorf("%w: source is required", domainerrors.ErrInvalidInput)
	}

	kind, err := parseFlowKind(request.Kind)
	if err != nil {
		return nil, err
	}

	filePath := request.FilePath
	if filePath == "" {
		filePath = diagramDefaultFilePath
	}

	tree, err := s.parser.Parse(ctx, filePath, []byte(request.Source))
	if err != nil {
		return nil, fmt.Errorf("failed to parse source: %w", err)
	}

	graph, err := s.analyzer.SynthesizeFlow(ctx, tree, kind, request.Title)
	if err != nil {
		return nil, fmt.Errorf("failed to synthesize %s flow: %w", kind, err)
	}

	return &dto.DiagramResponse{
		Graph:   graph,
		Mermaid: analysis.RenderMermaid(graph),
	}, nil
}

func parseFlowKind(kind string) (outbound.FlowKind, error) {
	switch outbound.FlowKind(kind) {
	case outbound.FlowControl, outbound.FlowData, outbound.FlowComponentTree:
		return outbound.FlowKind(kind), nil
	default:
		return "", fmt.Errorf("%w: unknown flow kind %q", domainerrors.ErrInvalidInput, kind)
	}
}
