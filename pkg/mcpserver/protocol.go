package mcpserver

import (
	"encoding/json"
	"fmt"
)

// JSON-RPC 2.0 protocol types

// JSONRPCRequest represents a JSON-RPC 2.0 request.
type JSONRPCRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      any    `json:"id,omitempty"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

// JSONRPCResponse represents a JSON-RPC 2.0 response.
type JSONRPCResponse struct {
	JSONRPC string    `json:"jsonrpc"`
	ID      any       `json:"id,omitempty"`
	Result  any       `json:"result,omitempty"`
	Error   *RPCError `json:"error,omitempty"`
}

// RPCError represents a JSON-RPC 2.0 error.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// JSON-RPC 2.0 error codes used by the server.
const (
	CodeParseError     = -32700
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

// ArgumentError reports a tool argument that fails its declared shape.
// The dispatcher turns it into a JSON-RPC invalid-params error instead of
// a tool result, so malformed input never reaches a handler body.
type ArgumentError struct {
	Field  string
	Reason string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("argument %q: %s", e.Field, e.Reason)
}

// MCP protocol types

// InitializeResult is the response to an initialize request.
type InitializeResult struct {
	ProtocolVersion string             `json:"protocolVersion"`
	Capabilities    ServerCapabilities `json:"capabilities"`
	ServerInfo      ServerInfo         `json:"serverInfo"`
	SessionID       string             `json:"sessionId,omitempty"`
}

// ServerCapabilities describes the server's supported features.
type ServerCapabilities struct {
	Tools ToolsCapability `json:"tools"`
}

// ToolsCapability describes the tools capability.
type ToolsCapability struct {
	ListChanged bool `json:"listChanged"`
}

// ServerInfo describes the server.
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// ToolDef represents a tool definition for listing.
type ToolDef struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

// ToolsListResult is the result of a tools/list request.
type ToolsListResult struct {
	Tools []ToolDef `json:"tools"`
}

// ToolCallResult is the uniform envelope every tool returns. The payload
// is always representable as a single text block; StructuredContent may
// carry a machine-readable mirror of the same data.
type ToolCallResult struct {
	Content           []Content      `json:"content"`
	StructuredContent map[string]any `json:"structuredContent,omitempty"`
	IsError           bool           `json:"isError,omitempty"`
}

// Content represents a piece of tool output.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// SuccessResult creates a successful ToolCallResult carrying data as JSON text.
func SuccessResult(data any) *ToolCallResult {
	dataJSON, err := json.Marshal(data)
	if err != nil {
		return ErrorResult(err)
	}
	return &ToolCallResult{
		Content: []Content{{Type: "text", Text: string(dataJSON)}},
	}
}

// StructuredResult is SuccessResult plus a structured mirror keyed by name.
func StructuredResult(key string, data any) *ToolCallResult {
	res := SuccessResult(data)
	if !res.IsError {
		res.StructuredContent = map[string]any{key: data}
	}
	return res
}

// TextResult creates a ToolCallResult with a plain text message.
func TextResult(text string) *ToolCallResult {
	return &ToolCallResult{
		Content: []Content{{Type: "text", Text: text}},
	}
}

// ErrorResult flags the result as a failure. The text body is the
// serialized {"error": message} object, so expected failures (store
// errors, auth failures) stay inside the envelope instead of crossing the
// tool boundary.
func ErrorResult(err error) *ToolCallResult {
	body, merr := json.Marshal(map[string]string{"error": err.Error()})
	if merr != nil {
		body = []byte(`{"error":"internal error"}`)
	}
	return &ToolCallResult{
		Content: []Content{{Type: "text", Text: string(body)}},
		IsError: true,
	}
}
