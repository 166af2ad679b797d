package transport

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mcp-fetch-driver/pkg/mcp/protocol"
)

func TestWriteMessageSingleLine(t *testing.T) {
	var out bytes.Buffer
	f := New(strings.NewReader(""), &out)

	req := protocol.JSONRPCRequest{
		JSONRPC: protocol.JSONRPCVersion,
		ID:      "abc",
		Method:  protocol.MethodToolsCall,
		Params: protocol.ToolCallRequest{
			Name:      protocol.ToolFetchWebContent,
			Arguments: map[string]any{"url": "https://example.com", "timeout_seconds": 10},
		},
	}
	require.NoError(t, f.WriteMessage(req))

	written := out.String()
	assert.True(t, strings.HasSuffix(written, "\n"), "message must end with a line terminator")
	assert.Equal(t, 1, strings.Count(written, "\n"), "message must occupy exactly one line")

	var decoded protocol.JSONRPCRequest
	require.NoError(t, json.Unmarshal([]byte(written), &decoded))
	assert.Equal(t, "abc", decoded.ID)
	assert.Equal(t, protocol.MethodToolsCall, decoded.Method)
}

func TestWriteMessageEscapesEmbeddedNewlines(t *testing.T) {
	var out bytes.Buffer
	f := New(strings.NewReader(""), &out)

	require.NoError(t, f.WriteMessage(map[string]string{"text": "line one\nline two"}))
	assert.Equal(t, 1, strings.Count(out.String(), "\n"))
}

func TestReadMessageSkipsBlankLines(t *testing.T) {
	input := "\n\n{\"jsonrpc\":\"2.0\",\"id\":\"1\",\"result\":{}}\n  \n{\"jsonrpc\":\"2.0\",\"id\":\"2\",\"result\":{}}\n"
	f := New(strings.NewReader(input), io.Discard)

	line, err := f.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, line, `"id":"1"`)

	line, err = f.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, line, `"id":"2"`)

	_, err = f.ReadMessage()
	assert.ErrorIs(t, err, io.EOF)
}

func TestReadMessageEndOfStream(t *testing.T) {
	f := New(strings.NewReader(""), io.Discard)

	_, err := f.ReadMessage()
	assert.ErrorIs(t, err, io.EOF)
}

func TestRoundTrip(t *testing.T) {
	var wire bytes.Buffer
	writer := New(strings.NewReader(""), &wire)
	require.NoError(t, writer.WriteMessage(protocol.JSONRPCResponse{
		JSONRPC: protocol.JSONRPCVersion,
		ID:      "rt-1",
		Result:  json.RawMessage(`{"ok":true}`),
	}))

	reader := New(&wire, io.Discard)
	line, err := reader.ReadMessage()
	require.NoError(t, err)

	var resp protocol.JSONRPCResponse
	require.NoError(t, json.Unmarshal([]byte(line), &resp))
	assert.Equal(t, "rt-1", resp.ID)
	assert.Nil(t, resp.Error)
}
