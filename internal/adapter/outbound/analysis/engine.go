package analysis

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"codeatlas/internal/application/common/slogger"
	"codeatlas/internal/domain/errors/domain"
	"codeatlas/internal/domain/valueobject"
	"codeatlas/internal/port/outbound"
)

// Engine is the syntax-tree analysis engine. It holds only the immutable
// detector rule tables and its OTEL instruments, so one engine can analyze
// distinct files concurrently.
type Engine struct {
	rules   detectorRules
	metrics *engineMetrics
}

// engineMetrics holds OTEL instruments for analysis operations.
type engineMetrics struct {
	filesCounter         metric.Int64Counter
	durationHistogram    metric.Float64Histogram
	symbolCountHistogram metric.Int64Histogram
	flowsCounter         metric.Int64Counter
}

// NewEngine loads the embedded detector rules and returns a ready engine.
func NewEngine() (*Engine, error) {
	rules, err := loadDetectorRules()
	if err != nil {
		return nil, fmt.Errorf("failed to create analysis engine: %w", err)
	}

	m, err := initEngineMetrics()
	if err != nil {
		slogger.ErrorNoCtx("Failed to initialize analysis engine metrics, continuing without metrics", slogger.Fields{
			"error": err.Error(),
		})
	}

	return &Engine{rules: rules, metrics: m}, nil
}

func initEngineMetrics() (*engineMetrics, error) {
	meter := otel.Meter("codeatlas/analysis_engine")

	files, err := meter.Int64Counter(
		"analysis_files_analyzed_total",
		metric.WithDescription("Total number of files analyzed"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create files counter: %w", err)
	}

	duration, err := meter.Float64Histogram(
		"analysis_duration_seconds",
		metric.WithDescription("Wall-clock duration of a single file analysis"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	symbols, err := meter.Int64Histogram(
		"analysis_symbol_count",
		metric.WithDescription("Number of symbols extracted per analyzed file"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create symbol count histogram: %w", err)
	}

	flows, err := meter.Int64Counter(
		"analysis_flow_graphs_synthesized_total",
		metric.WithDescription("Total number of flow graphs synthesized"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create flow graph counter: %w", err)
	}

	return &engineMetrics{
		filesCounter:         files,
		durationHistogram:    duration,
		symbolCountHistogram: symbols,
		flowsCounter:         flows,
	}, nil
}

// AnalyzeFile derives the variable, function, and component descriptors of
// one file, tracks symbol usage across the tree, and enriches functions with
// call-graph counts.
func (e *Engine) AnalyzeFile(ctx context.Context, tree *valueobject.SyntaxTree, filePath string) (*outbound.FileAnalysis, error) {
	if tree == nil {
		return nil, domain.ErrNilTree
	}
	root := tree.Root()
	if root == nil {
		return nil, domain.ErrNilTreeRoot
	}
	started := time.Now()

	idx := NewParentIndex(root)
	imports := extractImports(root)
	framework := valueobject.DetectFramework(importSources(imports))

	variables := extractVariables(root, idx)
	extracted := extractFunctions(root, idx)

	detector := &componentDetector{rules: e.rules, idx: idx, framework: framework}
	components := detector.detect(root, extracted)

	functions := make([]outbound.FunctionDescriptor, len(extracted))
	for i, f := range extracted {
		functions[i] = f.Desc
	}

	symbols := newUsageIndex()
	for i := range variables {
		symbols.add(&variables[i].Symbol)
	}
	for i := range functions {
		symbols.add(&functions[i].Symbol)
	}
	for i := range components {
		symbols.add(&components[i].Symbol)
	}
	trackUsages(root, idx, symbols)

	for i := range functions {
		enrichCallGraph(&functions[i])
	}

	result := &outbound.FileAnalysis{
		FilePath:   filePath,
		Language:   tree.Language(),
		Framework:  framework,
		SizeBytes:  int64(len(tree.Source())),
		LineCount:  tree.LineCount(),
		Encoding:   "utf-8",
		Variables:  variables,
		Functions:  functions,
		Components: components,
		Imports:    imports,
	}

	if e.metrics != nil {
		attrs := metric.WithAttributes(
			attribute.String("language", tree.Language().String()),
			attribute.String("framework", framework.String()),
		)
		e.metrics.filesCounter.Add(ctx, 1, attrs)
		e.metrics.durationHistogram.Record(ctx, time.Since(started).Seconds(), attrs)
		e.metrics.symbolCountHistogram.Record(ctx, int64(len(variables)+len(functions)+len(components)), attrs)
	}

	slogger.Debug(ctx, "Analyzed file", slogger.Fields{
		"file_path":  filePath,
		"language":   tree.Language().String(),
		"framework":  framework.String(),
		"variables":  len(variables),
		"functions":  len(functions),
		"components": len(components),
	})
	return result, nil
}

// enrichCallGraph fills CallCount and CalledBy from the function's tracked
// call usages. Callers are deduplicated in first-seen order.
func enrichCallGraph(fn *outbound.FunctionDescriptor) {
	seen := make(map[string]bool)
	for _, u := range fn.Usages {
		if u.Kind != outbound.UsageFunctionCall {
			continue
		}
		fn.CallCount++
		if !seen[u.Context] {
			seen[u.Context] = true
			fn.CalledBy = append(fn.CalledBy, u.Context)
		}
	}
}

// Complexity computes cyclomatic complexity for a subtree.
func (e *Engine) Complexity(subtree *valueobject.Node) int {
	return complexityOf(subtree)
}

// Metrics computes the full structural metrics record for a subtree.
func (e *Engine) Metrics(subtree *valueobject.Node) outbound.PerformanceMetrics {
	return metricsOf(subtree)
}

// SynthesizeFlow converts a tree into a directed graph of the given kind.
func (e *Engine) SynthesizeFlow(ctx context.Context, tree *valueobject.SyntaxTree, kind outbound.FlowKind, title string) (*outbound.FlowGraph, error) {
	if tree == nil {
		return nil, domain.ErrNilTree
	}
	root := tree.Root()
	if root == nil {
		return nil, domain.ErrNilTreeRoot
	}

	var graph *outbound.FlowGraph
	switch kind {
	case outbound.FlowControl:
		graph = synthesizeControlFlow(root, title)
	case outbound.FlowData:
		graph = synthesizeDataFlow(root, title)
	case outbound.FlowComponentTree:
		idx := NewParentIndex(root)
		imports := extractImports(root)
		detector := &componentDetector{
			rules:     e.rules,
			idx:       idx,
			framework: valueobject.DetectFramework(importSources(imports)),
		}
		graph = detector.synthesizeComponentTree(root, extractFunctions(root, idx), title)
	default:
		return nil, fmt.Errorf("%w: unknown flow kind %q", domain.ErrInvalidInput, kind)
	}

	if err := graph.Validate(); err != nil {
		return nil, fmt.Errorf("synthesized graph is invalid: %w", err)
	}
	if e.metrics != nil {
		e.metrics.flowsCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String("kind", string(kind)),
			attribute.String("language", tree.Language().String()),
		))
	}
	slogger.Debug(ctx, "Synthesized flow graph", slogger.Fields{
		"kind":  string(kind),
		"nodes": len(graph.Nodes),
		"edges": len(graph.Edges),
	})
	return graph, nil
}
