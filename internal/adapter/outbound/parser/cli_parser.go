package parser

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"time"

	"codeatlas/internal/application/common/slogger"
	"codeatlas/internal/domain/errors/domain"
	"codeatlas/internal/domain/valueobject"
)

const defaultParseTimeout = 30 * time.Second

// CLIParser shells out to an ESTree-emitting parser binary. Source text goes
// in on stdin; one JSON document comes back on stdout. The default command
// is esparse with location tracking enabled.
type CLIParser struct {
	command string
	args    []string
	timeout time.Duration
}

// NewCLIParser builds a parser adapter around the given command. An empty
// command selects the default esparse invocation.
func NewCLIParser(command string, args ...string) *CLIParser {
	if command == "" {
		command = "esparse"
		args = []string{"--loc"}
	}
	return &CLIParser{command: command, args: args, timeout: defaultParseTimeout}
}

// WithTimeout returns a copy of the parser with a per-file parse timeout.
func (p *CLIParser) WithTimeout(timeout time.Duration) *CLIParser {
	clone := *p
	clone.timeout = timeout
	return &clone
}

// Parse runs the parser binary over the source and decodes the resulting
// tree. Files whose extension maps to no analyzable language are rejected
// before the process is spawned.
func (p *CLIParser) Parse(ctx context.Context, filePath string, source []byte) (*valueobject.SyntaxTree, error) {
	language := valueobject.LanguageFromPath(filePath)
	if !language.IsAnalyzable() {
		return nil, fmt.Errorf("%w: unsupported file %q", domain.ErrInvalidInput, filePath)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	cmd := exec.CommandContext(ctx, p.command, p.args...)
	cmd.Stdin = bytes.NewReader(source)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		slogger.Error(ctx, "Parser process failed", slogger.Fields{
			"command":   p.command,
			"file_path": filePath,
			"stderr":    stderr.String(),
			"error":     err.Error(),
		})
		return nil, fmt.Errorf("parser %s failed for %s: %w", p.command, filePath, err)
	}

	root, err := DecodeTree(&stdout)
	if err != nil {
		return nil, fmt.Errorf("failed to decode parser output for %s: %w", filePath, err)
	}

	tree, err := valueobject.NewSyntaxTree(ctx, language, root, source)
	if err != nil {
		return nil, err
	}

	slogger.Debug(ctx, "Parsed file", slogger.Fields{
		"file_path": filePath,
		"language":  language.String(),
		"nodes":     tree.NodeCount(),
		"duration":  time.Since(start).String(),
	})
	return tree, nil
}
