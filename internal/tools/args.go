package tools

import (
	"fmt"
	"net/mail"
	"net/url"
	"regexp"

	"github.com/google/uuid"

	"github.com/RobinCoderZhao/jobtrack-mcp/internal/store"
	"github.com/RobinCoderZhao/jobtrack-mcp/pkg/mcpserver"
)

// Args wraps a raw argument map with presence-aware accessors. A key that
// is absent never reaches the store, which is what keeps update patches
// sparse.
type Args map[string]any

func argErr(field, reason string) *mcpserver.ArgumentError {
	return &mcpserver.ArgumentError{Field: field, Reason: reason}
}

// String returns a required non-empty string argument.
func (a Args) String(key string) (string, error) {
	v, ok := a[key]
	if !ok {
		return "", argErr(key, "required")
	}
	s, ok := v.(string)
	if !ok {
		return "", argErr(key, "must be a string")
	}
	if s == "" {
		return "", argErr(key, "must not be empty")
	}
	return s, nil
}

// OptionalString returns a string argument and whether it was present.
func (a Args) OptionalString(key string) (string, bool, error) {
	v, ok := a[key]
	if !ok {
		return "", false, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", false, argErr(key, "must be a string")
	}
	return s, true, nil
}

// UUID returns a required UUID-formatted string argument.
func (a Args) UUID(key string) (string, error) {
	s, err := a.String(key)
	if err != nil {
		return "", err
	}
	if _, err := uuid.Parse(s); err != nil {
		return "", argErr(key, "must be a UUID")
	}
	return s, nil
}

// OptionalUUID returns a UUID argument and whether it was present.
func (a Args) OptionalUUID(key string) (string, bool, error) {
	s, ok, err := a.OptionalString(key)
	if err != nil || !ok {
		return "", ok, err
	}
	if _, err := uuid.Parse(s); err != nil {
		return "", false, argErr(key, "must be a UUID")
	}
	return s, true, nil
}

// OptionalEnum returns an argument restricted to a fixed value set.
func (a Args) OptionalEnum(key string, allowed []string) (string, bool, error) {
	s, ok, err := a.OptionalString(key)
	if err != nil || !ok {
		return "", ok, err
	}
	for _, v := range allowed {
		if v == s {
			return s, true, nil
		}
	}
	return "", false, argErr(key, fmt.Sprintf("must be one of %v", allowed))
}

// OptionalStrings returns a string-array argument and whether it was present.
func (a Args) OptionalStrings(key string) ([]string, bool, error) {
	v, ok := a[key]
	if !ok {
		return nil, false, nil
	}
	raw, ok := v.([]any)
	if !ok {
		return nil, false, argErr(key, "must be an array of strings")
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		s, ok := item.(string)
		if !ok {
			return nil, false, argErr(key, "must be an array of strings")
		}
		out = append(out, s)
	}
	return out, true, nil
}

// OptionalEmail validates an email-formatted argument.
func (a Args) OptionalEmail(key string) (string, bool, error) {
	s, ok, err := a.OptionalString(key)
	if err != nil || !ok {
		return "", ok, err
	}
	if _, err := mail.ParseAddress(s); err != nil {
		return "", false, argErr(key, "must be a valid email address")
	}
	return s, true, nil
}

// OptionalURL validates a URL-formatted argument.
func (a Args) OptionalURL(key string) (string, bool, error) {
	s, ok, err := a.OptionalString(key)
	if err != nil || !ok {
		return "", ok, err
	}
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", false, argErr(key, "must be a valid URL")
	}
	return s, true, nil
}

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// OptionalDate accepts YYYY-MM-DD by shape only. Calendar validity is
// left to the store: "2024-13-40" passes here, "2024-1-1" does not.
func (a Args) OptionalDate(key string) (string, bool, error) {
	s, ok, err := a.OptionalString(key)
	if err != nil || !ok {
		return "", ok, err
	}
	if !datePattern.MatchString(s) {
		return "", false, argErr(key, "must match YYYY-MM-DD")
	}
	return s, true, nil
}

// patch accumulates validated, explicitly-provided fields into a sparse
// store patch. Absent arguments never enter the patch, so the stored
// values they would overwrite stay untouched.
type patch struct {
	args Args
	rec  store.Record
	err  error
}

func newPatch(args Args) *patch {
	return &patch{args: args, rec: store.Record{}}
}

func (p *patch) put(key string, v any, ok bool, err error) *patch {
	if p.err != nil {
		return p
	}
	if err != nil {
		p.err = err
		return p
	}
	if ok {
		p.rec[key] = v
	}
	return p
}

// str records a plain optional string field.
func (p *patch) str(key string) *patch {
	v, ok, err := p.args.OptionalString(key)
	return p.put(key, v, ok, err)
}

// nonEmpty records an optional string field that must not be empty when present.
func (p *patch) nonEmpty(key string) *patch {
	v, ok, err := p.args.OptionalString(key)
	if err == nil && ok && v == "" {
		err = argErr(key, "must not be empty")
	}
	return p.put(key, v, ok, err)
}

func (p *patch) enum(key string, allowed []string) *patch {
	v, ok, err := p.args.OptionalEnum(key, allowed)
	return p.put(key, v, ok, err)
}

func (p *patch) strs(key string) *patch {
	v, ok, err := p.args.OptionalStrings(key)
	return p.put(key, v, ok, err)
}

func (p *patch) email(key string) *patch {
	v, ok, err := p.args.OptionalEmail(key)
	return p.put(key, v, ok, err)
}

func (p *patch) url(key string) *patch {
	v, ok, err := p.args.OptionalURL(key)
	return p.put(key, v, ok, err)
}

func (p *patch) date(key string) *patch {
	v, ok, err := p.args.OptionalDate(key)
	return p.put(key, v, ok, err)
}

func (p *patch) uuid(key string) *patch {
	v, ok, err := p.args.OptionalUUID(key)
	return p.put(key, v, ok, err)
}

// raw records an opaque JSON value verbatim (compensation fields).
func (p *patch) raw(key string) *patch {
	v, ok := p.args[key]
	return p.put(key, v, ok, nil)
}

func (p *patch) build() (store.Record, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.rec, nil
}
