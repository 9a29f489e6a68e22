// Package auth decodes bearer-token payloads and carries the caller
// identity through request contexts.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrRefreshNotSupported reports that the access token expired and no
// refresh flow is available. Callers can distinguish it from other token
// failures.
var ErrRefreshNotSupported = errors.New("access token expired, refresh not supported")

// Refresher exchanges a refresh token for a new token pair. It is the
// extension point for a real refresh flow; the server currently runs
// without one.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (access, refresh string, err error)
}

// Payload is the decoded claim set of a bearer token.
type Payload = jwt.MapClaims

// TokenPayload decodes a bearer token's claims without verifying the
// signature. This supports local expiry checks only, not authenticity
// checks.
func TokenPayload(token string) (Payload, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("parse token payload: %w", err)
	}
	return claims, nil
}

// Expiry returns the exp claim as a time. A missing or non-numeric exp is
// an error; expiry checks fail closed.
func Expiry(p Payload) (time.Time, error) {
	exp, err := p.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, errors.New("token missing exp field")
	}
	return exp.Time, nil
}

// EmailFromToken extracts the email claim, or "" when absent or the token
// cannot be decoded.
func EmailFromToken(token string) string {
	p, err := TokenPayload(token)
	if err != nil {
		return ""
	}
	if email, ok := p["email"].(string); ok && email != "" {
		return email
	}
	return ""
}

type contextKey string

const identityKey = contextKey("identity")

// WithIdentity attaches the caller's identity (email) to the context. The
// identity travels with each request instead of living in shared mutable
// state.
func WithIdentity(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, identityKey, email)
}

// Identity returns the identity set by WithIdentity, or "".
func Identity(ctx context.Context) string {
	if v, ok := ctx.Value(identityKey).(string); ok {
		return v
	}
	return ""
}
