package analysis

import (
	"context"
	"testing"

	"codeatlas/internal/domain/errors/domain"
	"codeatlas/internal/domain/valueobject"
	"codeatlas/internal/port/outbound"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestEngine_AnalyzeFile_NilTree(t *testing.T) {
	engine := newTestEngine(t)
	_, err := engine.AnalyzeFile(context.Background(), nil, "a.js")
	require.ErrorIs(t, err, domain.ErrNilTree)
}

func TestEngine_AnalyzeFile_FullFile(t *testing.T) {
	engine := newTestEngine(t)

	counterBody := block(
		stateDecl("count", "setCount", callExpr("useState", lit("0"))),
		returnStmt(jsxElement("div")),
	)
	root := program(
		importDecl("react", "React", "useState"),
		varDecl("const", "limit", lit("10")),
		fnDecl("clamp", block(
			ifStmt(ident("limit"), block(returnStmt(ident("limit"))), nil),
			returnStmt(lit("0")),
		), ident("value")),
		fnDecl("HomePage", counterBody),
		exprStmt(callExpr("clamp", lit("5"))),
	)
	tree := newTestTree(t, root)

	result, err := engine.AnalyzeFile(context.Background(), tree, "src/pages/home.jsx")
	require.NoError(t, err)

	assert.Equal(t, "src/pages/home.jsx", result.FilePath)
	assert.Equal(t, valueobject.LanguageJSX, result.Language)
	assert.Equal(t, valueobject.FrameworkReact, result.Framework)
	assert.Equal(t, "utf-8", result.Encoding)

	require.Len(t, result.Imports, 1)
	assert.Equal(t, "react", result.Imports[0].Source)
	assert.Equal(t, "React", result.Imports[0].Default)
	assert.Equal(t, []string{"useState"}, result.Imports[0].Symbols)

	// limit, clamp (declaration form), HomePage (declaration form), count
	// from the state binding is skipped as a destructuring target.
	names := make([]string, 0, len(result.Variables))
	for _, v := range result.Variables {
		names = append(names, v.Name)
	}
	assert.Contains(t, names, "limit")
	assert.Contains(t, names, "clamp")
	assert.NotContains(t, names, "count")

	require.Len(t, result.Functions, 2)
	clamp := result.Functions[0]
	assert.Equal(t, "clamp", clamp.Name)
	assert.Equal(t, 2, clamp.Complexity)
	assert.Equal(t, 1, clamp.CallCount)
	assert.Equal(t, []string{"global"}, clamp.CalledBy)

	require.Len(t, result.Components, 1)
	home := result.Components[0]
	assert.Equal(t, "HomePage", home.Name)
	assert.True(t, home.IsPage)
	require.Len(t, home.State, 1)
	assert.Equal(t, "count", home.State[0].Name)

	assert.Equal(t, len(result.Variables)+len(result.Functions)+len(result.Components), result.SymbolCount())
}

func TestEngine_AnalyzeFile_UsageAcrossSymbols(t *testing.T) {
	engine := newTestEngine(t)
	root := program(
		varDecl("const", "limit", lit("10")),
		ifStmt(ident("limit"), block(), nil),
		exprStmt(assignExpr("limit", lit("20"))),
	)
	tree := newTestTree(t, root)

	result, err := engine.AnalyzeFile(context.Background(), tree, "a.js")
	require.NoError(t, err)

	require.Len(t, result.Variables, 1)
	v := result.Variables[0]
	require.Equal(t, 2, v.UsageCount)
	assert.Equal(t, outbound.UsageConditional, v.Usages[0].Kind)
	assert.Equal(t, outbound.UsageAssignment, v.Usages[1].Kind)
	require.NotNil(t, v.LastUsedAt)
}

func TestEngine_AnalyzeFile_CallGraphCalledByDeduplicated(t *testing.T) {
	engine := newTestEngine(t)
	root := program(
		fnDecl("helper", block()),
		fnDecl("caller", block(
			exprStmt(callExpr("helper")),
			exprStmt(callExpr("helper")),
		)),
	)
	tree := newTestTree(t, root)

	result, err := engine.AnalyzeFile(context.Background(), tree, "a.js")
	require.NoError(t, err)

	helper := result.Functions[0]
	require.Equal(t, "helper", helper.Name)
	assert.Equal(t, 2, helper.CallCount)
	assert.Equal(t, []string{"caller"}, helper.CalledBy)
}

func TestEngine_SynthesizeFlow_UnknownKind(t *testing.T) {
	engine := newTestEngine(t)
	tree := newTestTree(t, program())

	_, err := engine.SynthesizeFlow(context.Background(), tree, outbound.FlowKind("mindmap"), "t")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestEngine_SynthesizeFlow_NilTree(t *testing.T) {
	engine := newTestEngine(t)
	_, err := engine.SynthesizeFlow(context.Background(), nil, outbound.FlowControl, "t")
	require.ErrorIs(t, err, domain.ErrNilTree)
}

func TestEngine_ComplexityAndMetricsPorts(t *testing.T) {
	engine := newTestEngine(t)
	fn := fnDecl("branchy", block(
		ifStmt(ident("a"), block(ifStmt(ident("b"), block(), nil)), ifStmt(ident("c"), block(), nil)),
	))

	assert.Equal(t, 4, engine.Complexity(fn))
	assert.Equal(t, 4, engine.Metrics(fn).CyclomaticComplexity)
}

func TestEngine_FrameworkDefaultsToOther(t *testing.T) {
	engine := newTestEngine(t)
	tree := newTestTree(t, program(importDecl("lodash", "_")))

	result, err := engine.AnalyzeFile(context.Background(), tree, "a.js")
	require.NoError(t, err)
	assert.Equal(t, valueobject.FrameworkOther, result.Framework)
}

func TestEngine_RecordsAnalysisMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	previous := otel.GetMeterProvider()
	otel.SetMeterProvider(provider)
	t.Cleanup(func() { otel.SetMeterProvider(previous) })

	engine, err := NewEngine()
	require.NoError(t, err)

	tree := newTestTree(t, program(varDecl("const", "x", lit("1"))))
	_, err = engine.AnalyzeFile(context.Background(), tree, "a.js")
	require.NoError(t, err)
	_, err = engine.SynthesizeFlow(context.Background(), tree, outbound.FlowControl, "t")
	require.NoError(t, err)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	recorded := make(map[string]bool)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			recorded[m.Name] = true
		}
	}
	assert.True(t, recorded["analysis_files_analyzed_total"])
	assert.True(t, recorded["analysis_duration_seconds"])
	assert.True(t, recorded["analysis_symbol_count"])
	assert.True(t, recorded["analysis_flow_graphs_synthesized_total"])
}
