package service

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"codeatlas/internal/application/common/slogger"
	"codeatlas/internal/config"
	"codeatlas/internal/domain/valueobject"
	"codeatlas/internal/port/outbound"

	"golang.org/x/sync/errgroup"
)

// AnalysisOrchestrator runs a full analysis pass over a project directory:
// scan for source files, parse and analyze each one under a bounded worker
// pool, and merge the per-file results into a project-level model. Per-file
// failures are recorded and do not abort the run; only context cancellation
// does.
type AnalysisOrchestrator struct {
	parser   outbound.TreeParser
	analyzer outbound.CodeAnalyzer
	config   config.AnalysisConfig
}

// NewAnalysisOrchestrator creates a new instance of AnalysisOrchestrator.
func NewAnalysisOrchestrator(
	parser outbound.TreeParser,
	analyzer outbound.CodeAnalyzer,
	cfg config.AnalysisConfig,
) *AnalysisOrchestrator {
	if parser == nil {
		panic("parser cannot be nil")
	}
	if analyzer == nil {
		panic("analyzer cannot be nil")
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	return &AnalysisOrchestrator{
		parser:   parser,
		analyzer: analyzer,
		config:   cfg,
	}
}

// AnalyzeProject analyzes every source file under rootPath and returns the
// merged project model. Files are sorted by path so repeated runs over an
// unchanged tree produce identical output.
func (o *AnalysisOrchestrator) AnalyzeProject(
	ctx context.Context,
	rootPath string,
) (*outbound.ProjectAnalysis, error) {
	info, err := os.Stat(rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat project root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("project root %s is not a directory", rootPath)
	}

	paths, skipped, err := o.scanSourceFiles(rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to scan project: %w", err)
	}

	slogger.Info(ctx, "Starting project analysis", slogger.Fields{
		"root_path":     rootPath,
		"files_found":   len(paths),
		"files_skipped": skipped,
		"concurrency":   o.config.Concurrency,
	})

	var (
		mu       sync.Mutex
		files    []outbound.FileAnalysis
		failures []outbound.FileFailure
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.config.Concurrency)

	for _, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			result, fileErr := o.analyzeOne(gctx, rootPath, path)

			mu.Lock()
			defer mu.Unlock()
			if fileErr != nil {
				// Cancellation aborts the whole run; anything else
				// is a per-file failure.
				if gctx.Err() != nil {
					return gctx.Err()
				}
				relPath := projectRelativePath(rootPath, path)
				failures = append(failures, outbound.FileFailure{
					FilePath: relPath,
					Error:    fileErr.Error(),
				})
				slogger.Warn(gctx, "File analysis failed", slogger.Fields{
					"file_path": relPath,
					"error":     fileErr.Error(),
				})
				return nil
			}
			files = append(files, *result)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].FilePath < files[j].FilePath
	})
	sort.Slice(failures, func(i, j int) bool {
		return failures[i].FilePath < failures[j].FilePath
	})

	totalSymbols := 0
	for i := range files {
		totalSymbols += files[i].SymbolCount()
	}

	return &outbound.ProjectAnalysis{
		RootPath:     rootPath,
		Files:        files,
		FailedFiles:  failures,
		TotalFiles:   len(files),
		TotalSymbols: totalSymbols,
	}, nil
}

// analyzeOne reads, parses, and analyzes a single file. The returned
// analysis is keyed by the path relative to the project root.
func (o *AnalysisOrchestrator) analyzeOne(
	ctx context.Context,
	rootPath, path string,
) (*outbound.FileAnalysis, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	relPath := projectRelativePath(rootPath, path)

	tree, err := o.parser.Parse(ctx, relPath, source)
	if err != nil {
		return nil, err
	}

	return o.analyzer.AnalyzeFile(ctx, tree, relPath)
}

// scanSourceFiles walks the project tree collecting analyzable file paths in
// sorted order. It skips node_modules and build-output directories, hidden
// entries unless configured otherwise, symlinks unless configured otherwise,
// and files above the size limit. The second return value is the number of
// files skipped for size.
func (o *AnalysisOrchestrator) scanSourceFiles(rootPath string) ([]string, int, error) {
	var paths []string
	skipped := 0

	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		name := d.Name()
		if d.IsDir() {
			if path == rootPath {
				return nil
			}
			if o.skipDirectory(name) {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(name, ".") && !o.config.IncludeHidden {
			return nil
		}
		if d.Type()&fs.ModeSymlink != 0 && !o.config.FollowSymlinks {
			return nil
		}
		// Defer to the language table so the scanner and the parser
		// agree on which extensions are analyzable.
		if !valueobject.LanguageFromPath(name).IsAnalyzable() {
			return nil
		}

		if o.config.MaxFileSize > 0 {
			info, infoErr := d.Info()
			if infoErr != nil {
				return infoErr
			}
			if info.Size() > o.config.MaxFileSize {
				skipped++
				return nil
			}
		}

		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	sort.Strings(paths)

	if o.config.MaxFilesPerJob > 0 && len(paths) > o.config.MaxFilesPerJob {
		skipped += len(paths) - o.config.MaxFilesPerJob
		paths = paths[:o.config.MaxFilesPerJob]
	}
	return paths, skipped, nil
}

func (o *AnalysisOrchestrator) skipDirectory(name string) bool {
	if strings.HasPrefix(name, ".") && !o.config.IncludeHidden {
		return true
	}
	switch name {
	case "node_modules", "dist", "build", "coverage":
		return true
	}
	return false
}

func projectRelativePath(rootPath, path string) string {
	rel, err := filepath.Rel(rootPath, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}
