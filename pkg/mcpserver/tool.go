package mcpserver

import "context"

// ToolHandler is the interface for MCP tools.
type ToolHandler interface {
	// Name returns the unique tool name.
	Name() string

	// Description returns a human-readable description.
	Description() string

	// InputSchema returns the JSON Schema for the tool's input.
	InputSchema() map[string]any

	// Execute runs the tool with the given arguments. The context carries
	// request-scoped values (caller identity, deadlines) through the
	// middleware chain.
	Execute(ctx context.Context, args map[string]any) (*ToolCallResult, error)
}

// BaseTool provides a base implementation for common tool fields.
// Embed this in your tool structs and implement Execute().
type BaseTool struct {
	ToolName        string
	ToolDescription string
	ToolSchema      map[string]any
}

func (t *BaseTool) Name() string                { return t.ToolName }
func (t *BaseTool) Description() string         { return t.ToolDescription }
func (t *BaseTool) InputSchema() map[string]any { return t.ToolSchema }

// HandlerFunc handles a JSON-RPC request (server plane).
type HandlerFunc func(ctx context.Context, req *JSONRPCRequest) *JSONRPCResponse

// Middleware wraps the server's JSON-RPC handling.
type Middleware func(next HandlerFunc) HandlerFunc

// ToolFunc is the executable core of a tool.
type ToolFunc func(ctx context.Context, args map[string]any) (*ToolCallResult, error)

// ToolMiddleware wraps a ToolFunc with cross-cutting behavior. A
// middleware either calls next with the arguments unmodified and forwards
// its result, or short-circuits without calling next.
type ToolMiddleware func(next ToolFunc) ToolFunc

// WrapTool composes a tool with middleware. The returned handler has the
// identical contract as the original; the first middleware in the list is
// the outermost wrap. Wrapped tools compose again by nesting.
func WrapTool(tool ToolHandler, mw ...ToolMiddleware) ToolHandler {
	fn := tool.Execute
	for i := len(mw) - 1; i >= 0; i-- {
		fn = mw[i](fn)
	}
	return &wrappedTool{ToolHandler: tool, fn: fn}
}

type wrappedTool struct {
	ToolHandler
	fn ToolFunc
}

func (w *wrappedTool) Execute(ctx context.Context, args map[string]any) (*ToolCallResult, error) {
	return w.fn(ctx, args)
}
