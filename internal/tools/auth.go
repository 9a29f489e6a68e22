package tools

import (
	"context"

	"github.com/RobinCoderZhao/jobtrack-mcp/pkg/mcpserver"
)

// loginTool points the user at the out-of-band login flow. It is not
// wrapped with token validation: it must work with no session at all.
func loginTool(d Deps) mcpserver.ToolHandler {
	return newTool("login",
		"Get the URL to log in to the application.",
		objectSchema(nil, map[string]any{}),
		func(ctx context.Context, args map[string]any) (*mcpserver.ToolCallResult, error) {
			log := d.toolLogger(ctx, "login")
			log.Info("tool called")
			log.Info("tool completed")
			return mcpserver.TextResult("Please login at " + d.LoginURL), nil
		})
}
