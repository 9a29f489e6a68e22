package store

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type capturedRequest struct {
	method string
	path   string
	query  string
	header http.Header
	body   []byte
}

// restFixture serves canned responses and records what the client sent.
func restFixture(t *testing.T, status int, respBody string) (*RESTStore, *capturedRequest) {
	t.Helper()
	rec := &capturedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.method = r.Method
		rec.path = r.URL.Path
		rec.query = r.URL.RawQuery
		rec.header = r.Header.Clone()
		rec.body, _ = io.ReadAll(r.Body)
		w.WriteHeader(status)
		w.Write([]byte(respBody))
	}))
	t.Cleanup(srv.Close)
	return NewRESTStore(srv.URL, "anon-key", "access-token"), rec
}

func TestRESTSelect(t *testing.T) {
	s, rec := restFixture(t, 200, `[{"id":"c-1","name":"Initech"}]`)

	rows, err := s.Select(context.Background(), "companies", Query{
		Columns: "id",
		Eq:      map[string]string{"name": "Initech"},
		Embed:   []string{"roles"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0]["name"] != "Initech" {
		t.Fatalf("unexpected rows %v", rows)
	}

	if rec.method != http.MethodGet || rec.path != "/rest/v1/companies" {
		t.Fatalf("unexpected request %s %s", rec.method, rec.path)
	}
	if !strings.Contains(rec.query, "name=eq.Initech") {
		t.Fatalf("missing eq filter in %q", rec.query)
	}
	// PostgREST embeds children via select=col,child(*).
	if !strings.Contains(rec.query, "select=id%2Croles%28%2A%29") {
		t.Fatalf("missing embed select in %q", rec.query)
	}
	if rec.header.Get("apikey") != "anon-key" {
		t.Fatal("missing apikey header")
	}
	if rec.header.Get("Authorization") != "Bearer access-token" {
		t.Fatal("missing bearer token")
	}
}

func TestRESTSelect_DefaultColumns(t *testing.T) {
	s, rec := restFixture(t, 200, `[]`)

	rows, err := s.Select(context.Background(), "companies", Query{})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no rows, got %v", rows)
	}
	if !strings.Contains(rec.query, "select=%2A") {
		t.Fatalf("expected select=* in %q", rec.query)
	}
}

func TestRESTInsert(t *testing.T) {
	s, rec := restFixture(t, 201, `[{"id":"c-1","name":"Initech"}]`)

	row, err := s.Insert(context.Background(), "companies", Record{"name": "Initech"})
	if err != nil {
		t.Fatal(err)
	}
	if row["id"] != "c-1" {
		t.Fatalf("expected the stored representation back, got %v", row)
	}

	if rec.method != http.MethodPost {
		t.Fatalf("unexpected method %s", rec.method)
	}
	if rec.header.Get("Prefer") != "return=representation" {
		t.Fatal("missing Prefer header")
	}
	var sent []Record
	if err := json.Unmarshal(rec.body, &sent); err != nil || len(sent) != 1 {
		t.Fatalf("expected a single-row array body, got %s", rec.body)
	}
	if sent[0]["name"] != "Initech" {
		t.Fatalf("unexpected body row %v", sent[0])
	}
}

func TestRESTInsert_EmptyRepresentation(t *testing.T) {
	s, _ := restFixture(t, 201, `[]`)

	if _, err := s.Insert(context.Background(), "companies", Record{"name": "Initech"}); err == nil {
		t.Fatal("expected error when the backend returns no row")
	}
}

func TestRESTUpdate(t *testing.T) {
	s, rec := restFixture(t, 200, `[{"id":"c-1","notes":"updated"}]`)

	row, err := s.Update(context.Background(), "companies", "c-1", Record{"notes": "updated"})
	if err != nil {
		t.Fatal(err)
	}
	if row["notes"] != "updated" {
		t.Fatalf("unexpected row %v", row)
	}
	if rec.method != http.MethodPatch {
		t.Fatalf("unexpected method %s", rec.method)
	}
	if !strings.Contains(rec.query, "id=eq.c-1") {
		t.Fatalf("missing id filter in %q", rec.query)
	}
	var sent Record
	if err := json.Unmarshal(rec.body, &sent); err != nil {
		t.Fatalf("body is not a record: %s", rec.body)
	}
	if len(sent) != 1 || sent["notes"] != "updated" {
		t.Fatalf("patch must carry only the provided fields, got %v", sent)
	}
}

func TestRESTUpdate_NoRows(t *testing.T) {
	s, _ := restFixture(t, 200, `[]`)

	_, err := s.Update(context.Background(), "companies", "missing", Record{"notes": "x"})
	if err == nil || !strings.Contains(err.Error(), "no rows updated") {
		t.Fatalf("expected no-rows error, got %v", err)
	}
}

func TestRESTDelete(t *testing.T) {
	s, rec := restFixture(t, 204, "")

	if err := s.Delete(context.Background(), "interview_events", "e-1"); err != nil {
		t.Fatal(err)
	}
	if rec.method != http.MethodDelete {
		t.Fatalf("unexpected method %s", rec.method)
	}
	if !strings.Contains(rec.query, "id=eq.e-1") {
		t.Fatalf("missing id filter in %q", rec.query)
	}
}

func TestRESTDelete_MissingID(t *testing.T) {
	// PostgREST returns 204 even when nothing matched.
	s, _ := restFixture(t, 204, "")

	if err := s.Delete(context.Background(), "interview_events", "missing"); err != nil {
		t.Fatalf("expected success for a missing id, got %v", err)
	}
}

func TestRESTErrorBody(t *testing.T) {
	s, _ := restFixture(t, 401, `{"message":"JWT expired","code":"PGRST301"}`)

	_, err := s.Select(context.Background(), "companies", Query{})
	if err == nil || !strings.Contains(err.Error(), "store error (401): JWT expired") {
		t.Fatalf("expected decoded backend message, got %v", err)
	}
}

func TestRESTErrorBody_NotJSON(t *testing.T) {
	s, _ := restFixture(t, 502, "bad gateway")

	_, err := s.Select(context.Background(), "companies", Query{})
	if err == nil || !strings.Contains(err.Error(), "store error (502): bad gateway") {
		t.Fatalf("expected raw body fallback, got %v", err)
	}
}
