package tools

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/RobinCoderZhao/jobtrack-mcp/internal/session"
	"github.com/RobinCoderZhao/jobtrack-mcp/internal/store"
	"github.com/RobinCoderZhao/jobtrack-mcp/pkg/mcpserver"
)

// fakeStore is an in-memory Store with per-operation failure injection.
type fakeStore struct {
	tables map[string][]store.Record
	nextID int
	failOp string
}

// parent-key columns used to satisfy Embed queries.
var fakeFKs = map[string]string{
	"roles":            "company_id",
	"contacts":         "company_id",
	"interview_events": "role_id",
}

func newFakeStore() *fakeStore {
	return &fakeStore{tables: map[string][]store.Record{}}
}

func (f *fakeStore) fail(op, table string) { f.failOp = op + ":" + table }

func (f *fakeStore) check(op, table string) error {
	if f.failOp == op+":"+table {
		return fmt.Errorf("forced %s failure on %s", op, table)
	}
	return nil
}

func (f *fakeStore) seed(table string, rows ...store.Record) {
	f.tables[table] = append(f.tables[table], rows...)
}

func (f *fakeStore) Select(ctx context.Context, table string, q store.Query) ([]store.Record, error) {
	if err := f.check("select", table); err != nil {
		return nil, err
	}
	var out []store.Record
	for _, row := range f.tables[table] {
		match := true
		for col, v := range q.Eq {
			if s, _ := row[col].(string); s != v {
				match = false
				break
			}
		}
		if !match {
			continue
		}
		rec := store.Record{}
		for k, v := range row {
			rec[k] = v
		}
		for _, child := range q.Embed {
			children, err := f.Select(ctx, child, store.Query{
				Eq: map[string]string{fakeFKs[child]: rec["id"].(string)},
			})
			if err != nil {
				return nil, err
			}
			if children == nil {
				children = []store.Record{}
			}
			rec[child] = children
		}
		out = append(out, rec)
	}
	return out, nil
}

func (f *fakeStore) Insert(ctx context.Context, table string, row store.Record) (store.Record, error) {
	if err := f.check("insert", table); err != nil {
		return nil, err
	}
	rec := store.Record{}
	for k, v := range row {
		rec[k] = v
	}
	if _, ok := rec["id"]; !ok {
		f.nextID++
		rec["id"] = fmt.Sprintf("00000000-0000-0000-0000-%012d", f.nextID)
	}
	f.tables[table] = append(f.tables[table], rec)
	return rec, nil
}

func (f *fakeStore) Update(ctx context.Context, table, id string, patch store.Record) (store.Record, error) {
	if err := f.check("update", table); err != nil {
		return nil, err
	}
	for _, row := range f.tables[table] {
		if row["id"] == id {
			for k, v := range patch {
				row[k] = v
			}
			return row, nil
		}
	}
	return nil, fmt.Errorf("update %s: no rows updated", table)
}

func (f *fakeStore) Delete(ctx context.Context, table, id string) error {
	if err := f.check("delete", table); err != nil {
		return err
	}
	rows := f.tables[table]
	for i, row := range rows {
		if row["id"] == id {
			f.tables[table] = append(rows[:i], rows[i+1:]...)
			return nil
		}
	}
	return nil // deleting a missing id succeeds
}

type fakeSession struct {
	values map[string]string
}

func (s *fakeSession) Get(key string) (string, error) {
	v, ok := s.values[key]
	if !ok {
		return "", fmt.Errorf("session key %q not found", key)
	}
	return v, nil
}

func (s *fakeSession) Set(key, value string) error {
	s.values[key] = value
	return nil
}

// makeToken builds an unsigned JWT-shaped token from raw claims.
func makeToken(t *testing.T, claims map[string]any) string {
	t.Helper()
	header, err := json.Marshal(map[string]string{"alg": "none", "typ": "JWT"})
	if err != nil {
		t.Fatal(err)
	}
	payload, err := json.Marshal(claims)
	if err != nil {
		t.Fatal(err)
	}
	enc := base64.RawURLEncoding
	return enc.EncodeToString(header) + "." + enc.EncodeToString(payload) + "." + enc.EncodeToString([]byte("sig"))
}

func testDeps(t *testing.T, fs *fakeStore) (Deps, *fakeSession) {
	t.Helper()
	sess := &fakeSession{values: map[string]string{
		session.KeyAccessToken: makeToken(t, map[string]any{
			"exp":   time.Now().Add(time.Hour).Unix(),
			"email": "dev@example.com",
		}),
	}}
	return Deps{
		Store:    fs,
		Session:  sess,
		LoginURL: "https://job-tracker-auth.vercel.app",
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, sess
}

func findTool(t *testing.T, handlers []mcpserver.ToolHandler, name string) mcpserver.ToolHandler {
	t.Helper()
	for _, h := range handlers {
		if h.Name() == name {
			return h
		}
	}
	t.Fatalf("tool %s not found", name)
	return nil
}

// textJSON decodes the envelope's text block.
func textJSON(t *testing.T, res *mcpserver.ToolCallResult, out any) {
	t.Helper()
	if len(res.Content) != 1 {
		t.Fatalf("expected a single text content block, got %d", len(res.Content))
	}
	if err := json.Unmarshal([]byte(res.Content[0].Text), out); err != nil {
		t.Fatalf("envelope text is not JSON: %v", err)
	}
}
