package session

import (
	"errors"
	"fmt"
	"time"
)

// ErrUninitialized is returned when a tool call is issued before a successful
// handshake. That ordering is a driver bug, not a runtime condition.
var ErrUninitialized = errors.New("tool call issued before a successful handshake")

// TimeoutError reports that no matching response arrived within the per-call
// deadline.
type TimeoutError struct {
	Method  string
	Elapsed time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("rpc %s: no response after %s", e.Method, e.Elapsed.Round(time.Millisecond))
}

// PeerClosedError reports that the child exited or closed its stream
// mid-exchange.
type PeerClosedError struct {
	Method string
	Err    error
}

func (e *PeerClosedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("rpc %s: peer closed: %v", e.Method, e.Err)
	}
	return fmt.Sprintf("rpc %s: peer closed the stream", e.Method)
}

func (e *PeerClosedError) Unwrap() error { return e.Err }

// ProtocolError reports a line that is not a well-formed response for the
// in-flight request: unparseable JSON, a wrong protocol tag, an unmatched id,
// or an envelope that is neither result nor error.
type ProtocolError struct {
	Method string
	Line   string
	Reason string
	Err    error
}

func (e *ProtocolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("rpc %s: protocol violation: %v", e.Method, e.Err)
	}
	return fmt.Sprintf("rpc %s: protocol violation: %s", e.Method, e.Reason)
}

func (e *ProtocolError) Unwrap() error { return e.Err }
