// Package session layers request/response correlation and per-call deadlines
// on top of the framed transport. Exactly one request is in flight at a time;
// anything the peer sends that is not the answer to that request is a
// protocol violation.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"mcp-fetch-driver/internal/logging"
	"mcp-fetch-driver/pkg/mcp/protocol"
)

// Transport is the framed line transport the session drives.
type Transport interface {
	WriteMessage(v any) error
	ReadMessage() (string, error)
}

// Session issues correlated JSON-RPC requests over a transport.
type Session struct {
	t           Transport
	lines       chan string
	readErr     error // written before lines is closed, read only after
	log         logging.Logger
	initialized atomic.Bool
}

// NewSession creates a session and starts its reader. The reader owns the
// transport's read side for the session's lifetime.
func NewSession(t Transport, log logging.Logger) *Session {
	if log == nil {
		log = logging.NewNoop()
	}
	s := &Session{
		t:     t,
		lines: make(chan string, 8),
		log:   log.WithComponent("session"),
	}
	go s.readLoop()
	return s
}

// readLoop feeds lines into the channel until the stream ends. The terminal
// error stays sticky: every call after the peer closes fails fast with
// PeerClosedError instead of waiting out its timeout.
func (s *Session) readLoop() {
	for {
		line, err := s.t.ReadMessage()
		if err != nil {
			s.readErr = err
			close(s.lines)
			return
		}
		s.lines <- line
	}
}

// MarkInitialized records a completed handshake. Tool calls are rejected with
// ErrUninitialized until this is called.
func (s *Session) MarkInitialized() {
	s.initialized.Store(true)
}

// Call sends one request and blocks until the matching response arrives, the
// timeout elapses, or the stream ends. The response id must equal the request
// id; a response that fails structural parsing or carries the wrong id is
// returned as a *ProtocolError.
func (s *Session) Call(ctx context.Context, method string, params any, timeout time.Duration) (*protocol.JSONRPCResponse, error) {
	if method != protocol.MethodInitialize && !s.initialized.Load() {
		return nil, ErrUninitialized
	}

	id := uuid.NewString()
	req := protocol.JSONRPCRequest{
		JSONRPC: protocol.JSONRPCVersion,
		ID:      id,
		Method:  method,
		Params:  params,
	}

	start := time.Now()
	if err := s.t.WriteMessage(req); err != nil {
		return nil, &PeerClosedError{Method: method, Err: err}
	}
	s.log.Debug("request sent", "method", method, "id", id)

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	select {
	case line, ok := <-s.lines:
		if !ok {
			return nil, &PeerClosedError{Method: method, Err: s.readErr}
		}
		resp, err := s.parseResponse(method, id, line)
		if err != nil {
			return nil, err
		}
		s.log.Debug("response received", "method", method, "id", id, "elapsed", time.Since(start))
		return resp, nil
	case <-deadline.C:
		return nil, &TimeoutError{Method: method, Elapsed: time.Since(start)}
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Notify sends an id-less notification. No response is expected or awaited.
func (s *Session) Notify(method string, params any) error {
	req := protocol.JSONRPCRequest{
		JSONRPC: protocol.JSONRPCVersion,
		Method:  method,
		Params:  params,
	}
	if err := s.t.WriteMessage(req); err != nil {
		return &PeerClosedError{Method: method, Err: err}
	}
	s.log.Debug("notification sent", "method", method)
	return nil
}

func (s *Session) parseResponse(method, id, line string) (*protocol.JSONRPCResponse, error) {
	var resp protocol.JSONRPCResponse
	if err := json.Unmarshal([]byte(line), &resp); err != nil {
		return nil, &ProtocolError{Method: method, Line: line, Err: fmt.Errorf("parsing response: %w", err)}
	}
	if resp.JSONRPC != protocol.JSONRPCVersion {
		return nil, &ProtocolError{Method: method, Line: line, Reason: fmt.Sprintf("unexpected protocol tag %q", resp.JSONRPC)}
	}
	if resp.ID != id {
		return nil, &ProtocolError{Method: method, Line: line, Reason: fmt.Sprintf("response id %q does not match request id %q", resp.ID, id)}
	}
	hasResult := len(resp.Result) > 0
	hasError := resp.Error != nil
	if hasResult == hasError {
		return nil, &ProtocolError{Method: method, Line: line, Reason: "response must carry exactly one of result and error"}
	}
	return &resp, nil
}
