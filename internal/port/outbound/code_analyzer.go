package outbound

import (
	"codeatlas/internal/domain/valueobject"
	"context"
)

// CodeAnalyzer defines the outbound port for the analysis engine. Each call
// takes all inputs as parameters and returns fresh output; implementations
// hold no mutable state between calls, so distinct files can be analyzed
// concurrently.
type CodeAnalyzer interface {
	// AnalyzeFile derives the variable, function, and component descriptors
	// of one file, with usage records attached.
	AnalyzeFile(ctx context.Context, tree *valueobject.SyntaxTree, filePath string) (*FileAnalysis, error)

	// Complexity computes cyclomatic complexity for a subtree: 1 plus its
	// decision-point count. Always >= 1.
	Complexity(subtree *valueobject.Node) int

	// Metrics computes the full structural metrics record for a subtree.
	Metrics(subtree *valueobject.Node) PerformanceMetrics

	// SynthesizeFlow converts a tree into a directed graph of the given kind.
	SynthesizeFlow(ctx context.Context, tree *valueobject.SyntaxTree, kind FlowKind, title string) (*FlowGraph, error)
}

// TreeParser is the boundary to the upstream parser: it turns source text
// into a syntax tree whose nodes expose a kind tag, source positions, and
// kind-appropriate child fields. Nothing else is assumed about the parser.
type TreeParser interface {
	Parse(ctx context.Context, filePath string, source []byte) (*valueobject.SyntaxTree, error)
}
