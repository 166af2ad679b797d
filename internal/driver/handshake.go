package driver

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"mcp-fetch-driver/pkg/mcp/protocol"
)

// HandshakeError reports a failed initialize exchange. The run cannot proceed
// past it; no tool call is meaningful without a successful handshake.
type HandshakeError struct {
	Err error
}

func (e *HandshakeError) Error() string {
	return fmt.Sprintf("handshake failed: %v", e.Err)
}

func (e *HandshakeError) Unwrap() error { return e.Err }

// Session is the RPC surface the driver needs. *session.Session implements it.
type Session interface {
	Call(ctx context.Context, method string, params any, timeout time.Duration) (*protocol.JSONRPCResponse, error)
	Notify(method string, params any) error
	MarkInitialized()
}

// Initialize performs the one-time handshake: an initialize request followed
// by the initialized notification. It must complete before any tool call is
// sent on the session.
func Initialize(ctx context.Context, sess Session, info protocol.ClientInfo, timeout time.Duration) (*protocol.InitializeResult, error) {
	params := protocol.InitializeRequest{
		ProtocolVersion: protocol.Version,
		Capabilities:    protocol.ClientCapabilities{},
		ClientInfo:      info,
	}

	resp, err := sess.Call(ctx, protocol.MethodInitialize, params, timeout)
	if err != nil {
		return nil, &HandshakeError{Err: err}
	}
	if resp.Error != nil {
		return nil, &HandshakeError{Err: fmt.Errorf("server rejected initialize: %w", resp.Error)}
	}

	var result protocol.InitializeResult
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		return nil, &HandshakeError{Err: fmt.Errorf("parsing initialize result: %w", err)}
	}

	sess.MarkInitialized()
	if err := sess.Notify(protocol.MethodInitialized, nil); err != nil {
		return nil, &HandshakeError{Err: err}
	}
	return &result, nil
}
