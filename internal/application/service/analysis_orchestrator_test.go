package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"codeatlas/internal/config"
	"codeatlas/internal/domain/valueobject"
	"codeatlas/internal/port/outbound"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeParser builds a minimal program tree for any input. Paths listed in
// failPaths return an error instead.
type fakeParser struct {
	failPaths map[string]bool
}

func (p *fakeParser) Parse(ctx context.Context, filePath string, source []byte) (*valueobject.SyntaxTree, error) {
	if p.failPaths[filePath] {
		return nil, errors.New("unexpected token")
	}
	root := &valueobject.Node{Kind: valueobject.KindProgram}
	return valueobject.NewSyntaxTree(ctx, valueobject.LanguageJavaScript, root, source)
}

// fakeAnalyzer returns one variable per file so symbol totals are checkable.
type fakeAnalyzer struct{}

func (a *fakeAnalyzer) AnalyzeFile(_ context.Context, tree *valueobject.SyntaxTree, filePath string) (*outbound.FileAnalysis, error) {
	return &outbound.FileAnalysis{
		FilePath:  filePath,
		Language:  tree.Language(),
		SizeBytes: int64(len(tree.Source())),
		LineCount: tree.LineCount(),
		Encoding:  "utf-8",
		Variables: []outbound.VariableDescriptor{{}},
	}, nil
}

func (a *fakeAnalyzer) Complexity(_ *valueobject.Node) int { return 1 }

func (a *fakeAnalyzer) Metrics(_ *valueobject.Node) outbound.PerformanceMetrics {
	return outbound.PerformanceMetrics{}
}

func (a *fakeAnalyzer) SynthesizeFlow(_ context.Context, _ *valueobject.SyntaxTree, kind outbound.FlowKind, title string) (*outbound.FlowGraph, error) {
	return &outbound.FlowGraph{Kind: kind, Title: title}, nil
}

func writeProjectFile(t *testing.T, root, relPath, content string) {
	t.Helper()
	path := filepath.Join(root, relPath)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func defaultAnalysisConfig() config.AnalysisConfig {
	return config.AnalysisConfig{Concurrency: 4}
}

func TestAnalyzeProject_CollectsSortedFiles(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, "src/b.ts", "const b = 1")
	writeProjectFile(t, root, "src/a.tsx", "const a = 1")
	writeProjectFile(t, root, "index.js", "const i = 1")
	writeProjectFile(t, root, "README.md", "not source")

	orchestrator := NewAnalysisOrchestrator(&fakeParser{}, &fakeAnalyzer{}, defaultAnalysisConfig())
	result, err := orchestrator.AnalyzeProject(context.Background(), root)

	require.NoError(t, err)
	assert.Equal(t, 3, result.TotalFiles)
	assert.Equal(t, 3, result.TotalSymbols)
	assert.Empty(t, result.FailedFiles)

	paths := make([]string, 0, len(result.Files))
	for _, f := range result.Files {
		paths = append(paths, f.FilePath)
	}
	assert.Equal(t, []string{"index.js", "src/a.tsx", "src/b.ts"}, paths)
}

func TestAnalyzeProject_SkipsNodeModulesAndHidden(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, "app.js", "const a = 1")
	writeProjectFile(t, root, "node_modules/pkg/index.js", "ignored")
	writeProjectFile(t, root, ".next/chunk.js", "ignored")
	writeProjectFile(t, root, ".eslintrc.js", "ignored")

	orchestrator := NewAnalysisOrchestrator(&fakeParser{}, &fakeAnalyzer{}, defaultAnalysisConfig())
	result, err := orchestrator.AnalyzeProject(context.Background(), root)

	require.NoError(t, err)
	require.Len(t, result.Files, 1)
	assert.Equal(t, "app.js", result.Files[0].FilePath)
}

func TestAnalyzeProject_RecordsPerFileFailures(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, "good.js", "const a = 1")
	writeProjectFile(t, root, "broken.js", "const = ???")

	parser := &fakeParser{failPaths: map[string]bool{"broken.js": true}}
	orchestrator := NewAnalysisOrchestrator(parser, &fakeAnalyzer{}, defaultAnalysisConfig())
	result, err := orchestrator.AnalyzeProject(context.Background(), root)

	require.NoError(t, err, "per-file failures must not abort the run")
	assert.Equal(t, 1, result.TotalFiles)
	require.Len(t, result.FailedFiles, 1)
	assert.Equal(t, "broken.js", result.FailedFiles[0].FilePath)
	assert.Contains(t, result.FailedFiles[0].Error, "unexpected token")
}

func TestAnalyzeProject_MaxFileSizeSkipsLargeFiles(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, "small.js", "ok")
	writeProjectFile(t, root, "large.js", string(make([]byte, 2048)))

	cfg := defaultAnalysisConfig()
	cfg.MaxFileSize = 1024
	orchestrator := NewAnalysisOrchestrator(&fakeParser{}, &fakeAnalyzer{}, cfg)
	result, err := orchestrator.AnalyzeProject(context.Background(), root)

	require.NoError(t, err)
	require.Len(t, result.Files, 1)
	assert.Equal(t, "small.js", result.Files[0].FilePath)
}

func TestAnalyzeProject_MaxFilesPerJobCapsScan(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, "a.js", "1")
	writeProjectFile(t, root, "b.js", "1")
	writeProjectFile(t, root, "c.js", "1")

	cfg := defaultAnalysisConfig()
	cfg.MaxFilesPerJob = 2
	orchestrator := NewAnalysisOrchestrator(&fakeParser{}, &fakeAnalyzer{}, cfg)
	result, err := orchestrator.AnalyzeProject(context.Background(), root)

	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalFiles)
}

func TestAnalyzeProject_RootMustBeDirectory(t *testing.T) {
	root := t.TempDir()
	filePath := filepath.Join(root, "file.js")
	require.NoError(t, os.WriteFile(filePath, []byte("1"), 0o644))

	orchestrator := NewAnalysisOrchestrator(&fakeParser{}, &fakeAnalyzer{}, defaultAnalysisConfig())
	_, err := orchestrator.AnalyzeProject(context.Background(), filePath)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestAnalyzeProject_CancelledContextAborts(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, "a.js", "1")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	orchestrator := NewAnalysisOrchestrator(&fakeParser{}, &fakeAnalyzer{}, defaultAnalysisConfig())
	_, err := orchestrator.AnalyzeProject(ctx, root)

	require.ErrorIs(t, err, context.Canceled)
}

func TestAnalyzeProject_IncludesEveryAnalyzableExtension(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, "a.js", "const a = 1")
	writeProjectFile(t, root, "b.mjs", "const b = 1")
	writeProjectFile(t, root, "c.cjs", "const c = 1")
	writeProjectFile(t, root, "d.ts", "const d = 1")
	writeProjectFile(t, root, "e.mts", "const e = 1")
	writeProjectFile(t, root, "f.cts", "const f = 1")
	writeProjectFile(t, root, "g.jsx", "const g = 1")
	writeProjectFile(t, root, "h.tsx", "const h = 1")
	writeProjectFile(t, root, "styles.css", "body {}")

	orchestrator := NewAnalysisOrchestrator(&fakeParser{}, &fakeAnalyzer{}, defaultAnalysisConfig())
	result, err := orchestrator.AnalyzeProject(context.Background(), root)

	require.NoError(t, err)
	require.Len(t, result.Files, 8)
	for _, f := range result.Files {
		assert.True(t, valueobject.LanguageFromPath(f.FilePath).IsAnalyzable(), f.FilePath)
	}
}
