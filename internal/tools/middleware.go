package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/RobinCoderZhao/jobtrack-mcp/internal/auth"
	"github.com/RobinCoderZhao/jobtrack-mcp/internal/session"
	"github.com/RobinCoderZhao/jobtrack-mcp/pkg/mcpserver"
)

// TokenValidation returns tool middleware that enforces access-token
// expiry before the wrapped handler runs. On any token failure the
// handler is never invoked and the caller gets a single aggregated
// re-login instruction; on success the handler runs with its arguments
// unmodified and its result is returned verbatim.
func TokenValidation(d Deps) mcpserver.ToolMiddleware {
	return func(next mcpserver.ToolFunc) mcpserver.ToolFunc {
		return func(ctx context.Context, args map[string]any) (*mcpserver.ToolCallResult, error) {
			if err := d.validateToken(ctx); err != nil {
				d.Logger.Info("token validation failed", "error", err)
				return mcpserver.ErrorResult(fmt.Errorf(
					"Token validation failed. Please login again at %s. Error: %s",
					d.LoginURL, err)), nil
			}
			return next(ctx, args)
		}
	}
}

func (d Deps) validateToken(ctx context.Context) error {
	token, err := d.Session.Get(session.KeyAccessToken)
	if err != nil {
		return err
	}
	payload, err := auth.TokenPayload(token)
	if err != nil {
		return err
	}
	exp, err := auth.Expiry(payload)
	if err != nil {
		return err
	}
	if exp.Unix() >= time.Now().Unix() {
		return nil
	}

	// Token expired, attempt refresh.
	if d.Refresher == nil {
		return auth.ErrRefreshNotSupported
	}
	refreshToken, err := d.Session.Get(session.KeyRefreshToken)
	if err != nil {
		return err
	}
	access, refresh, err := d.Refresher.Refresh(ctx, refreshToken)
	if err != nil {
		return fmt.Errorf("refresh access token: %w", err)
	}
	if err := d.Session.Set(session.KeyAccessToken, access); err != nil {
		return err
	}
	return d.Session.Set(session.KeyRefreshToken, refresh)
}
