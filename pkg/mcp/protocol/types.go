// Package protocol implements the client-side Model Context Protocol types
package protocol

import "encoding/json"

// Version represents the MCP protocol version
const Version = "2024-11-05"

// JSONRPCVersion is the protocol tag carried by every message
const JSONRPCVersion = "2.0"

// Method names the driver sends
const (
	MethodInitialize  = "initialize"
	MethodInitialized = "initialized"
	MethodToolsCall   = "tools/call"
)

// ToolFetchWebContent is the tool under test
const ToolFetchWebContent = "fetch_web_content"

// JSONRPCRequest represents a JSON-RPC request. A request without an ID is a
// notification and receives no response.
type JSONRPCRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      string `json:"id,omitempty"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

// JSONRPCResponse represents a JSON-RPC response. Exactly one of Result and
// Error is set on a well-formed response; the session rejects anything else.
type JSONRPCResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      string          `json:"id,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *JSONRPCError   `json:"error,omitempty"`
}

// JSONRPCError represents a JSON-RPC error
type JSONRPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Error implements the error interface
func (e *JSONRPCError) Error() string {
	return e.Message
}

// InitializeRequest represents the handshake request parameters
type InitializeRequest struct {
	ProtocolVersion string             `json:"protocolVersion"`
	Capabilities    ClientCapabilities `json:"capabilities"`
	ClientInfo      ClientInfo         `json:"clientInfo"`
}

// ClientCapabilities represents client capabilities. The driver advertises
// none; the struct still serializes as an empty object, which the handshake
// shape requires.
type ClientCapabilities struct {
	Experimental map[string]any `json:"experimental,omitempty"`
	Sampling     map[string]any `json:"sampling,omitempty"`
}

// ClientInfo represents client identity sent during the handshake
type ClientInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// InitializeResult represents the handshake result
type InitializeResult struct {
	ProtocolVersion string         `json:"protocolVersion"`
	Capabilities    map[string]any `json:"capabilities"`
	ServerInfo      ServerInfo     `json:"serverInfo"`
}

// ServerInfo represents server identity reported during the handshake
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// ToolCallRequest represents a tools/call request's parameters
type ToolCallRequest struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments,omitempty"`
}
