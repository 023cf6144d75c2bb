package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"codeatlas/internal/adapter/outbound/analysis"
	"codeatlas/internal/adapter/outbound/parser"
	"codeatlas/internal/application/service"
	"codeatlas/internal/port/outbound"

	"github.com/spf13/cobra"
)

// newAnalyzeCmd creates and returns the analyze command.
func newAnalyzeCmd() *cobra.Command {
	var (
		diagramKind string
		compact     bool
	)

	cmd := &cobra.Command{
		Use:   "analyze <path>",
		Short: "Analyze a source file or project directory",
		Long: `Analyze a JavaScript/TypeScript source file or a whole project directory
without going through the API server or job queue.

For a single file, the extracted variable, function, and component
descriptors are printed as JSON. With --diagram, a Mermaid flow diagram
of the requested kind is printed instead.

For a directory, every analyzable source file is processed with the
configured concurrency and the merged project model is printed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args[0], diagramKind, compact)
		},
	}

	cmd.Flags().StringVar(&diagramKind, "diagram", "", "Render a Mermaid diagram instead of descriptors (control, data, component_tree); single files only")
	cmd.Flags().BoolVar(&compact, "compact", false, "Emit compact JSON instead of indented output")
	return cmd
}

func runAnalyze(cmd *cobra.Command, path, diagramKind string, compact bool) error {
	cfg := GetConfig()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	treeParser := parser.NewCLIParser(cfg.Parser.Command).WithTimeout(cfg.Parser.Timeout)
	engine, err := analysis.NewEngine()
	if err != nil {
		return err
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot analyze %s: %w", path, err)
	}

	if info.IsDir() {
		if diagramKind != "" {
			return fmt.Errorf("--diagram applies to single files, not directories")
		}
		orchestrator := service.NewAnalysisOrchestrator(treeParser, engine, cfg.Analysis)
		result, err := orchestrator.AnalyzeProject(ctx, path)
		if err != nil {
			return err
		}
		return writeResult(cmd, result, compact)
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", path, err)
	}

	tree, err := treeParser.Parse(ctx, filepath.Base(path), source)
	if err != nil {
		return fmt.Errorf("parse failed: %w", err)
	}

	if diagramKind != "" {
		graph, err := engine.SynthesizeFlow(ctx, tree, outbound.FlowKind(diagramKind), filepath.Base(path))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), analysis.RenderMermaid(graph))
		return nil
	}

	result, err := engine.AnalyzeFile(ctx, tree, filepath.Base(path))
	if err != nil {
		return err
	}
	return writeResult(cmd, result, compact)
}

func writeResult(cmd *cobra.Command, result interface{}, compact bool) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	if !compact {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(result)
}

func init() {
	rootCmd.AddCommand(newAnalyzeCmd())
}
