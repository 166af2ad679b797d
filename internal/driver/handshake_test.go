package driver

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mcp-fetch-driver/internal/session"
	"mcp-fetch-driver/pkg/mcp/protocol"
)

func TestInitializeSuccess(t *testing.T) {
	fs := &fakeSession{responses: []callResult{resultResponse(`{
		"protocolVersion": "2024-11-05",
		"capabilities": {"tools": {}},
		"serverInfo": {"name": "html-mcp-reader", "version": "0.1.0"}
	}`)}}

	result, err := Initialize(context.Background(), fs, protocol.ClientInfo{Name: "test-client", Version: "1.0.0"}, time.Second)
	require.NoError(t, err)
	assert.Equal(t, "html-mcp-reader", result.ServerInfo.Name)
	assert.Equal(t, "2024-11-05", result.ProtocolVersion)

	require.Len(t, fs.calls, 1)
	assert.Equal(t, protocol.MethodInitialize, fs.calls[0].method)
	params, ok := fs.calls[0].params.(protocol.InitializeRequest)
	require.True(t, ok)
	assert.Equal(t, protocol.Version, params.ProtocolVersion)
	assert.Equal(t, "test-client", params.ClientInfo.Name)

	assert.True(t, fs.initialized, "a successful handshake must unlock the session")
	assert.Equal(t, []string{protocol.MethodInitialized}, fs.notified)
}

func TestInitializeErrorEnvelope(t *testing.T) {
	fs := &fakeSession{responses: []callResult{errorResponse(-32600, "unsupported protocol version")}}

	_, err := Initialize(context.Background(), fs, protocol.ClientInfo{Name: "test-client", Version: "1.0.0"}, time.Second)

	var he *HandshakeError
	require.ErrorAs(t, err, &he)
	assert.Contains(t, err.Error(), "unsupported protocol version")
	assert.False(t, fs.initialized)
	assert.Empty(t, fs.notified)
}

func TestInitializeTimeout(t *testing.T) {
	fs := &fakeSession{responses: []callResult{
		{err: &session.TimeoutError{Method: protocol.MethodInitialize, Elapsed: time.Second}},
	}}

	_, err := Initialize(context.Background(), fs, protocol.ClientInfo{Name: "test-client", Version: "1.0.0"}, time.Second)

	var he *HandshakeError
	require.ErrorAs(t, err, &he)
	var te *session.TimeoutError
	assert.ErrorAs(t, err, &te)
	assert.False(t, fs.initialized)
}

func TestInitializeMalformedResult(t *testing.T) {
	fs := &fakeSession{responses: []callResult{resultResponse(`"just a string"`)}}

	_, err := Initialize(context.Background(), fs, protocol.ClientInfo{Name: "test-client", Version: "1.0.0"}, time.Second)

	var he *HandshakeError
	require.ErrorAs(t, err, &he)
	assert.False(t, fs.initialized)
}
