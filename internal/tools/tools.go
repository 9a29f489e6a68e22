// Package tools implements the job tracker's MCP tool handlers: CRUD
// over companies, roles, contacts and interview events, plus the login
// helper. Every data tool is wrapped with token-validation middleware and
// returns the uniform mcpserver envelope.
package tools

import (
	"context"
	"log/slog"

	"github.com/RobinCoderZhao/jobtrack-mcp/internal/auth"
	"github.com/RobinCoderZhao/jobtrack-mcp/internal/store"
	"github.com/RobinCoderZhao/jobtrack-mcp/pkg/mcpserver"
)

// SessionStore is the persisted token store the middleware reads.
type SessionStore interface {
	Get(key string) (string, error)
	Set(key, value string) error
}

// Deps carries the collaborators shared by all tool handlers.
type Deps struct {
	Store     store.Store
	Session   SessionStore
	Refresher auth.Refresher // nil means refresh is unsupported
	LoginURL  string
	Logger    *slog.Logger
}

// All returns every tool. Data tools are wrapped with token validation;
// login stays reachable without a valid session.
func All(d Deps) []mcpserver.ToolHandler {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	mw := TokenValidation(d)

	var out []mcpserver.ToolHandler
	for _, group := range [][]mcpserver.ToolHandler{
		companyTools(d),
		roleTools(d),
		contactTools(d),
		eventTools(d),
	} {
		for _, t := range group {
			out = append(out, mcpserver.WrapTool(t, mw))
		}
	}
	return append(out, loginTool(d))
}

// toolFunc adapts a plain function into a ToolHandler.
type toolFunc struct {
	mcpserver.BaseTool
	run mcpserver.ToolFunc
}

func (t *toolFunc) Execute(ctx context.Context, args map[string]any) (*mcpserver.ToolCallResult, error) {
	return t.run(ctx, args)
}

func newTool(name, desc string, schema map[string]any, run mcpserver.ToolFunc) mcpserver.ToolHandler {
	return &toolFunc{
		BaseTool: mcpserver.BaseTool{ToolName: name, ToolDescription: desc, ToolSchema: schema},
		run:      run,
	}
}

func (d Deps) toolLogger(ctx context.Context, tool string) *slog.Logger {
	log := d.Logger.With("tool", tool)
	if id := auth.Identity(ctx); id != "" {
		log = log.With("user", id)
	}
	return log
}
