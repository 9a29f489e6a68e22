package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// RESTStore talks to a PostgREST-compatible endpoint (Supabase). The
// anon key identifies the project; the access token identifies the user
// and drives row-level security on the backend.
type RESTStore struct {
	base    string
	anonKey string
	token   string
	client  *http.Client
}

// NewRESTStore creates a store backed by the PostgREST API at baseURL.
func NewRESTStore(baseURL, anonKey, accessToken string) *RESTStore {
	return &RESTStore{
		base:    strings.TrimRight(baseURL, "/"),
		anonKey: anonKey,
		token:   accessToken,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *RESTStore) endpoint(table string) string {
	return s.base + "/rest/v1/" + table
}

func (s *RESTStore) newRequest(ctx context.Context, method, rawURL string, body any, prefer string) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", s.anonKey)
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}
	return req, nil
}

// Select returns the rows of table matching q.
func (s *RESTStore) Select(ctx context.Context, table string, q Query) ([]Record, error) {
	vals := url.Values{}
	sel := q.Columns
	if sel == "" {
		sel = "*"
	}
	for _, embed := range q.Embed {
		sel += "," + embed + "(*)"
	}
	vals.Set("select", sel)
	for col, v := range q.Eq {
		vals.Set(col, "eq."+v)
	}

	req, err := s.newRequest(ctx, http.MethodGet, s.endpoint(table)+"?"+vals.Encode(), nil, "")
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", table, err)
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var rows []Record
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode %s rows: %w", table, err)
	}
	return rows, nil
}

// Insert adds one row and returns the stored representation.
func (s *RESTStore) Insert(ctx context.Context, table string, row Record) (Record, error) {
	req, err := s.newRequest(ctx, http.MethodPost, s.endpoint(table)+"?select=*", []Record{row}, "return=representation")
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("insert %s: %w", table, err)
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var rows []Record
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode %s row: %w", table, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("insert %s: no row returned", table)
	}
	return rows[0], nil
}

// Update applies a sparse patch to the row with the given id. A patch
// that matches no row is an error, indistinguishable from other store
// failures by callers.
func (s *RESTStore) Update(ctx context.Context, table, id string, patch Record) (Record, error) {
	vals := url.Values{}
	vals.Set("id", "eq."+id)
	vals.Set("select", "*")

	req, err := s.newRequest(ctx, http.MethodPatch, s.endpoint(table)+"?"+vals.Encode(), patch, "return=representation")
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", table, err)
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var rows []Record
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode %s row: %w", table, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("update %s: no rows updated", table)
	}
	return rows[0], nil
}

// Delete removes the row with the given id. The backend reports success
// even when no row matched, and that is preserved here.
func (s *RESTStore) Delete(ctx context.Context, table, id string) error {
	vals := url.Values{}
	vals.Set("id", "eq."+id)

	req, err := s.newRequest(ctx, http.MethodDelete, s.endpoint(table)+"?"+vals.Encode(), nil, "")
	if err != nil {
		return err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("delete %s: %w", table, err)
	}
	defer resp.Body.Close()
	return checkStatus(resp)
}

type restError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var re restError
	if json.Unmarshal(body, &re) == nil && re.Message != "" {
		return fmt.Errorf("store error (%d): %s", resp.StatusCode, re.Message)
	}
	return fmt.Errorf("store error (%d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
}
