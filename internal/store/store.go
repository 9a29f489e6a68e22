// Package store provides table-oriented access to the job tracker
// backend. Nothing is cached in-process; every read is a live fetch.
package store

import "context"

// Record is a single row as returned by the backend.
type Record = map[string]any

// Query narrows a Select.
type Query struct {
	// Columns selects specific columns (e.g. "id"). Empty means all.
	Columns string
	// Eq filters rows by exact column equality. Matching is exact-string
	// and case-sensitive; no normalization is applied.
	Eq map[string]string
	// Embed pulls related tables into each row, keyed by table name
	// (PostgREST resource embedding, "*, roles(*)").
	Embed []string
}

// Store is a generic table store with select/insert/update/delete.
type Store interface {
	// Select returns the rows of table matching q.
	Select(ctx context.Context, table string, q Query) ([]Record, error)

	// Insert adds one row and returns it as stored.
	Insert(ctx context.Context, table string, row Record) (Record, error)

	// Update applies a sparse patch to the row with the given id and
	// returns the updated row. Updating a missing id is an error.
	Update(ctx context.Context, table, id string, patch Record) (Record, error)

	// Delete removes the row with the given id. Deleting a missing id is
	// not an error.
	Delete(ctx context.Context, table, id string) error
}
