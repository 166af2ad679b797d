package logging

// NoopLogger discards everything. Used in tests and wherever a component
// requires a logger but none is configured.
type NoopLogger struct{}

// NewNoop creates a no-op logger
func NewNoop() Logger {
	return &NoopLogger{}
}

func (*NoopLogger) Debug(string, ...any) {}
func (*NoopLogger) Info(string, ...any)  {}
func (*NoopLogger) Warn(string, ...any)  {}
func (*NoopLogger) Error(string, ...any) {}

// WithComponent returns the logger unchanged
func (l *NoopLogger) WithComponent(string) Logger { return l }
