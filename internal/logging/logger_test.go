package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DEBUG, ParseLevel("debug"))
	assert.Equal(t, WARN, ParseLevel("WARNING"))
	assert.Equal(t, ERROR, ParseLevel("error"))
	assert.Equal(t, INFO, ParseLevel(""))
	assert.Equal(t, INFO, ParseLevel("nonsense"))
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewLoggerWithWriter(WARN, &buf, false)

	log.Debug("dropped")
	log.Info("dropped too")
	log.Warn("kept")
	log.Error("kept too")

	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, "kept")
	assert.Contains(t, out, "kept too")
}

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	log := NewLoggerWithWriter(INFO, &buf, true).WithComponent("session")

	log.Info("request sent", "method", "tools/call", "id", "abc")

	var entry LogEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "INFO", entry.Level)
	assert.Equal(t, "request sent", entry.Message)
	assert.Equal(t, "session", entry.Component)
	assert.NotEmpty(t, entry.TraceID)
	assert.Equal(t, "tools/call", entry.Fields["method"])
}

func TestTextOutput(t *testing.T) {
	var buf bytes.Buffer
	log := NewLoggerWithWriter(INFO, &buf, false)

	log.Info("scenario finished", "index", 1)

	line := strings.TrimSpace(buf.String())
	assert.Contains(t, line, "level=INFO")
	assert.Contains(t, line, `msg="scenario finished"`)
	assert.Contains(t, line, "index=1")
}

func TestWithComponentDoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	parent := NewLoggerWithWriter(INFO, &buf, true)
	child := parent.WithComponent("runner")

	parent.Info("from parent")
	child.Info("from child")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var first, second LogEntry
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Empty(t, first.Component)
	assert.Equal(t, "runner", second.Component)
}

func TestNoopLogger(t *testing.T) {
	log := NewNoop()
	log.Debug("x")
	log.Info("x")
	log.Warn("x")
	log.Error("x")
	assert.Same(t, log, log.WithComponent("anything"))
}
