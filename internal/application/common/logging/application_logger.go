package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// ApplicationLogger defines the interface for structured application logging.
type ApplicationLogger interface {
	Debug(ctx context.Context, message string, fields Fields)
	Info(ctx context.Context, message string, fields Fields)
	Warn(ctx context.Context, message string, fields Fields)
	Error(ctx context.Context, message string, fields Fields)
	ErrorWithError(ctx context.Context, err error, message string, fields Fields)
	LogPerformance(ctx context.Context, operation string, duration time.Duration, fields Fields)
	WithComponent(component string) ApplicationLogger
}

// Fields represents structured logging fields.
type Fields map[string]interface{}

// Config represents logger configuration.
type Config struct {
	Level            string
	Format           string // json, text
	Output           string // stdout, stderr, buffer (for testing)
	EnableColors     bool
	TimestampFormat  string
	EnableStackTrace bool
}

// LogEntry represents the structure of emitted log entries.
type LogEntry struct {
	Timestamp     string                 `json:"timestamp"`
	Level         string                 `json:"level"`
	Message       string                 `json:"message"`
	CorrelationID string                 `json:"correlation_id,omitempty"`
	Component     string                 `json:"component,omitempty"`
	Operation     string                 `json:"operation,omitempty"`
	Duration      string                 `json:"duration,omitempty"`
	Error         string                 `json:"error,omitempty"`
	Metadata      map[string]interface{} `json:"metadata,omitempty"`
}

var levelOrder = map[string]int{
	"DEBUG": 0,
	"INFO":  1,
	"WARN":  2,
	"ERROR": 3,
}

// applicationLoggerImpl implements ApplicationLogger with JSON or text
// output. One mutex guards the writer; instances created by WithComponent
// share it.
type applicationLoggerImpl struct {
	config    Config
	component string
	out       io.Writer
	mu        *sync.Mutex
	buffer    *bytes.Buffer // set when Output is buffer
}

// NewApplicationLogger creates a logger from config. Unknown levels and
// formats are rejected rather than silently defaulted.
func NewApplicationLogger(config Config) (ApplicationLogger, error) {
	if config.Level == "" {
		config.Level = "INFO"
	}
	config.Level = strings.ToUpper(config.Level)
	if _, ok := levelOrder[config.Level]; !ok {
		return nil, fmt.Errorf("invalid log level %q", config.Level)
	}
	if config.Format == "" {
		config.Format = "json"
	}
	if config.Format != "json" && config.Format != "text" {
		return nil, fmt.Errorf("invalid log format %q", config.Format)
	}
	if config.TimestampFormat == "" {
		config.TimestampFormat = time.RFC3339Nano
	}

	l := &applicationLoggerImpl{config: config, mu: &sync.Mutex{}}
	switch config.Output {
	case "", "stdout":
		l.out = os.Stdout
	case "stderr":
		l.out = os.Stderr
	case "buffer":
		l.buffer = &bytes.Buffer{}
		l.out = l.buffer
	default:
		return nil, fmt.Errorf("invalid log output %q", config.Output)
	}
	return l, nil
}

// Buffer returns the captured output when the logger was created with the
// buffer output, for test assertions.
func (l *applicationLoggerImpl) Buffer() *bytes.Buffer {
	return l.buffer
}

func (l *applicationLoggerImpl) Debug(ctx context.Context, message string, fields Fields) {
	l.log(ctx, "DEBUG", message, "", fields)
}

func (l *applicationLoggerImpl) Info(ctx context.Context, message string, fields Fields) {
	l.log(ctx, "INFO", message, "", fields)
}

func (l *applicationLoggerImpl) Warn(ctx context.Context, message string, fields Fields) {
	l.log(ctx, "WARN", message, "", fields)
}

func (l *applicationLoggerImpl) Error(ctx context.Context, message string, fields Fields) {
	l.log(ctx, "ERROR", message, "", fields)
}

func (l *applicationLoggerImpl) ErrorWithError(ctx context.Context, err error, message string, fields Fields) {
	errText := ""
	if err != nil {
		errText = err.Error()
	}
	l.log(ctx, "ERROR", message, errText, fields)
}

func (l *applicationLoggerImpl) LogPerformance(ctx context.Context, operation string, duration time.Duration, fields Fields) {
	merged := Fields{"operation": operation, "duration": duration.String()}
	for k, v := range fields {
		merged[k] = v
	}
	l.log(ctx, "INFO", "Performance measurement", "", merged)
}

// WithComponent returns a logger that stamps entries with the component
// name. The underlying writer is shared.
func (l *applicationLoggerImpl) WithComponent(component string) ApplicationLogger {
	clone := *l
	clone.component = component
	return &clone
}

func (l *applicationLoggerImpl) log(ctx context.Context, level, message, errText string, fields Fields) {
	if levelOrder[level] < levelOrder[l.config.Level] {
		return
	}

	entry := LogEntry{
		Timestamp:     time.Now().UTC().Format(l.config.TimestampFormat),
		Level:         level,
		Message:       message,
		CorrelationID: GetCorrelationID(ctx),
		Component:     l.component,
		Error:         errText,
	}
	if len(fields) > 0 {
		entry.Metadata = fields
	}

	var line []byte
	if l.config.Format == "json" {
		encoded, err := json.Marshal(entry)
		if err != nil {
			encoded = []byte(fmt.Sprintf(`{"level":"ERROR","message":"failed to encode log entry: %s"}`, err))
		}
		line = append(encoded, '\n')
	} else {
		line = []byte(formatText(entry))
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = l.out.Write(line)
}

func formatText(entry LogEntry) string {
	var sb strings.Builder
	sb.WriteString(entry.Timestamp)
	sb.WriteString(" [")
	sb.WriteString(entry.Level)
	sb.WriteString("] ")
	if entry.Component != "" {
		sb.WriteString(entry.Component)
		sb.WriteString(": ")
	}
	sb.WriteString(entry.Message)
	if entry.CorrelationID != "" {
		sb.WriteString(" correlation_id=")
		sb.WriteString(entry.CorrelationID)
	}
	if entry.Error != "" {
		sb.WriteString(" error=")
		sb.WriteString(entry.Error)
	}
	for k, v := range entry.Metadata {
		fmt.Fprintf(&sb, " %s=%v", k, v)
	}
	sb.WriteString("\n")
	return sb.String()
}
