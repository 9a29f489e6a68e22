package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/RobinCoderZhao/jobtrack-mcp/internal/storage"
)

// Schema is the SQLite schema for the local backend.
const Schema = `
CREATE TABLE IF NOT EXISTS companies (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	size TEXT,
	industry TEXT,
	location TEXT,
	notes TEXT
);

CREATE TABLE IF NOT EXISTS roles (
	id TEXT PRIMARY KEY,
	company_id TEXT NOT NULL REFERENCES companies(id),
	user_id TEXT,
	title TEXT NOT NULL,
	level TEXT,
	tech_stack TEXT,
	compensation_requested TEXT,
	compensation_offered TEXT,
	status TEXT,
	source TEXT,
	initiated_by TEXT,
	notes TEXT
);

CREATE TABLE IF NOT EXISTS contacts (
	id TEXT PRIMARY KEY,
	company_id TEXT NOT NULL REFERENCES companies(id),
	name TEXT NOT NULL,
	role TEXT NOT NULL,
	email TEXT,
	linkedin_url TEXT,
	phone_number TEXT,
	notes TEXT
);

CREATE TABLE IF NOT EXISTS interview_events (
	id TEXT PRIMARY KEY,
	role_id TEXT NOT NULL REFERENCES roles(id),
	contact_id TEXT REFERENCES contacts(id),
	event_type TEXT NOT NULL,
	event_date TEXT,
	meeting_type TEXT,
	notes TEXT,
	outcome TEXT
);
`

type tableDef struct {
	columns  []string
	jsonCols map[string]bool
	// parentFK is the column rows of this table use to reference their
	// parent; it drives resource embedding.
	parentFK string
}

func (d tableDef) has(col string) bool {
	for _, c := range d.columns {
		if c == col {
			return true
		}
	}
	return false
}

var tables = map[string]tableDef{
	"companies": {
		columns: []string{"id", "name", "size", "industry", "location", "notes"},
	},
	"roles": {
		columns: []string{"id", "company_id", "user_id", "title", "level", "tech_stack",
			"compensation_requested", "compensation_offered", "status", "source", "initiated_by", "notes"},
		jsonCols: map[string]bool{"tech_stack": true, "compensation_requested": true, "compensation_offered": true},
		parentFK: "company_id",
	},
	"contacts": {
		columns:  []string{"id", "company_id", "name", "role", "email", "linkedin_url", "phone_number", "notes"},
		parentFK: "company_id",
	},
	"interview_events": {
		columns:  []string{"id", "role_id", "contact_id", "event_type", "event_date", "meeting_type", "notes", "outcome"},
		parentFK: "role_id",
	},
}

// SQLiteStore implements Store on a local SQLite database. It mirrors the
// remote backend's contract: updating a missing id fails, deleting one
// does not.
type SQLiteStore struct {
	db *storage.DB
}

// NewSQLiteStore creates a store on an open database. Callers run
// Migrate(Schema) before first use.
func NewSQLiteStore(db *storage.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Select returns the rows of table matching q.
func (s *SQLiteStore) Select(ctx context.Context, table string, q Query) ([]Record, error) {
	def, ok := tables[table]
	if !ok {
		return nil, fmt.Errorf("unknown table: %s", table)
	}

	cols := def.columns
	if q.Columns != "" {
		cols = strings.Split(q.Columns, ",")
		for i, col := range cols {
			cols[i] = strings.TrimSpace(col)
			if !def.has(cols[i]) {
				return nil, fmt.Errorf("unknown column %s.%s", table, cols[i])
			}
		}
	}

	var where []string
	var args []any
	for col, v := range q.Eq {
		if !def.has(col) {
			return nil, fmt.Errorf("unknown column %s.%s", table, col)
		}
		where = append(where, col+" = ?")
		args = append(args, v)
	}

	query := "SELECT " + strings.Join(cols, ", ") + " FROM " + table
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}

	recs, err := s.query(ctx, s.db, table, cols, query, args...)
	if err != nil {
		return nil, err
	}

	for _, child := range q.Embed {
		childDef, ok := tables[child]
		if !ok || childDef.parentFK == "" {
			return nil, fmt.Errorf("cannot embed %s into %s", child, table)
		}
		for _, rec := range recs {
			id, _ := rec["id"].(string)
			childRows, err := s.Select(ctx, child, Query{Eq: map[string]string{childDef.parentFK: id}})
			if err != nil {
				return nil, err
			}
			if childRows == nil {
				childRows = []Record{}
			}
			rec[child] = childRows
		}
	}

	return recs, nil
}

// Insert adds one row, generating a UUID id when none is supplied, and
// returns the row as stored.
func (s *SQLiteStore) Insert(ctx context.Context, table string, row Record) (Record, error) {
	def, ok := tables[table]
	if !ok {
		return nil, fmt.Errorf("unknown table: %s", table)
	}
	for key := range row {
		if !def.has(key) {
			return nil, fmt.Errorf("unknown column %s.%s", table, key)
		}
	}

	id, _ := row["id"].(string)
	if id == "" {
		id = uuid.NewString()
	}

	cols := []string{"id"}
	args := []any{id}
	for _, col := range def.columns {
		if col == "id" {
			continue
		}
		v, present := row[col]
		if !present {
			continue
		}
		sv, err := encodeValue(def, col, v)
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)
		args = append(args, sv)
	}

	var created Record
	err := s.db.Transaction(ctx, func(tx *sql.Tx) error {
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
		query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(cols, ", "), placeholders)
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert %s: %w", table, err)
		}
		rec, err := s.selectByID(ctx, tx, table, id)
		if err != nil {
			return err
		}
		created = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Update applies a sparse patch to the row with the given id. A patch
// matching no row is an error.
func (s *SQLiteStore) Update(ctx context.Context, table, id string, patch Record) (Record, error) {
	def, ok := tables[table]
	if !ok {
		return nil, fmt.Errorf("unknown table: %s", table)
	}
	for key := range patch {
		if key == "id" || !def.has(key) {
			return nil, fmt.Errorf("unknown column %s.%s", table, key)
		}
	}
	if len(patch) == 0 {
		return nil, fmt.Errorf("update %s: empty patch", table)
	}

	var sets []string
	var args []any
	for _, col := range def.columns {
		v, present := patch[col]
		if !present {
			continue
		}
		sv, err := encodeValue(def, col, v)
		if err != nil {
			return nil, err
		}
		sets = append(sets, col+" = ?")
		args = append(args, sv)
	}
	args = append(args, id)

	res, err := s.db.ExecContext(ctx, "UPDATE "+table+" SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", table, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("update %s: no rows updated", table)
	}
	return s.selectByID(ctx, s.db, table, id)
}

// Delete removes the row with the given id. Deleting an id that does not
// exist succeeds, matching the remote backend.
func (s *SQLiteStore) Delete(ctx context.Context, table, id string) error {
	if _, ok := tables[table]; !ok {
		return fmt.Errorf("unknown table: %s", table)
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete %s: %w", table, err)
	}
	return nil
}

func (s *SQLiteStore) selectByID(ctx context.Context, q querier, table, id string) (Record, error) {
	def := tables[table]
	query := "SELECT " + strings.Join(def.columns, ", ") + " FROM " + table + " WHERE id = ?"
	recs, err := s.query(ctx, q, table, def.columns, query, id)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("%s row %s not found", table, id)
	}
	return recs[0], nil
}

func (s *SQLiteStore) query(ctx context.Context, q querier, table string, cols []string, query string, args ...any) ([]Record, error) {
	def := tables[table]
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", table, err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		vals := make([]sql.NullString, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		rec := Record{}
		for i, col := range cols {
			switch {
			case !vals[i].Valid:
				rec[col] = nil
			case def.jsonCols[col]:
				var v any
				if err := json.Unmarshal([]byte(vals[i].String), &v); err != nil {
					return nil, fmt.Errorf("decode %s.%s: %w", table, col, err)
				}
				rec[col] = v
			default:
				rec[col] = vals[i].String
			}
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func encodeValue(def tableDef, col string, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	if def.jsonCols[col] {
		buf, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", col, err)
		}
		return string(buf), nil
	}
	return v, nil
}
