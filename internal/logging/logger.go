// Package logging provides structured logging for the driver
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Logger interface for structured logging with trace support
type Logger interface {
	Debug(msg string, fields ...any)
	Info(msg string, fields ...any)
	Warn(msg string, fields ...any)
	Error(msg string, fields ...any)

	WithComponent(component string) Logger
}

// LogLevel represents logging levels
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
)

// ParseLevel converts a level name to a LogLevel, defaulting to INFO.
func ParseLevel(s string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DEBUG
	case "warn", "warning":
		return WARN
	case "error":
		return ERROR
	default:
		return INFO
	}
}

func (l LogLevel) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "INFO"
	}
}

// LogEntry represents a structured log entry
type LogEntry struct {
	Timestamp string         `json:"timestamp"`
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	TraceID   string         `json:"trace_id,omitempty"`
	Component string         `json:"component,omitempty"`
	Fields    map[string]any `json:"fields,omitempty"`
}

// StructuredLogger implements structured logging with JSON or key=value output.
// Log output goes to stderr; stdout is reserved for the scenario report.
type StructuredLogger struct {
	mu        *sync.Mutex
	out       io.Writer
	level     LogLevel
	traceID   string
	component string
	useJSON   bool
}

// NewLogger creates a new structured logger with a fresh run trace ID.
func NewLogger(level LogLevel) Logger {
	return &StructuredLogger{
		mu:      &sync.Mutex{},
		out:     os.Stderr,
		level:   level,
		traceID: uuid.NewString(),
		useJSON: getEnvBool("LOG_JSON", false),
	}
}

// NewLoggerWithWriter creates a logger writing to a custom destination.
func NewLoggerWithWriter(level LogLevel, out io.Writer, useJSON bool) Logger {
	return &StructuredLogger{
		mu:      &sync.Mutex{},
		out:     out,
		level:   level,
		traceID: uuid.NewString(),
		useJSON: useJSON,
	}
}

// WithComponent returns a logger tagged with a component name
func (l *StructuredLogger) WithComponent(component string) Logger {
	clone := *l
	clone.component = component
	return &clone
}

func (l *StructuredLogger) Debug(msg string, fields ...any) { l.log(DEBUG, msg, fields) }
func (l *StructuredLogger) Info(msg string, fields ...any)  { l.log(INFO, msg, fields) }
func (l *StructuredLogger) Warn(msg string, fields ...any)  { l.log(WARN, msg, fields) }
func (l *StructuredLogger) Error(msg string, fields ...any) { l.log(ERROR, msg, fields) }

func (l *StructuredLogger) log(level LogLevel, msg string, fields []any) {
	if level < l.level {
		return
	}

	entry := LogEntry{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Level:     level.String(),
		Message:   msg,
		TraceID:   l.traceID,
		Component: l.component,
		Fields:    fieldsToMap(fields),
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.useJSON {
		if data, err := json.Marshal(entry); err == nil {
			fmt.Fprintln(l.out, string(data))
			return
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s level=%s", entry.Timestamp, entry.Level)
	if entry.Component != "" {
		fmt.Fprintf(&b, " component=%s", entry.Component)
	}
	fmt.Fprintf(&b, " msg=%q", entry.Message)
	for k, v := range entry.Fields {
		fmt.Fprintf(&b, " %s=%v", k, v)
	}
	fmt.Fprintln(l.out, b.String())
}

// fieldsToMap interprets variadic fields as alternating key/value pairs.
func fieldsToMap(fields []any) map[string]any {
	if len(fields) == 0 {
		return nil
	}
	m := make(map[string]any, len(fields)/2)
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			key = fmt.Sprint(fields[i])
		}
		m[key] = fields[i+1]
	}
	return m
}

func getEnvBool(key string, defaultValue bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		return defaultValue
	}
}
