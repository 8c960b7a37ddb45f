package store

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS records (
	kind TEXT NOT NULL,
	id   TEXT NOT NULL,
	data TEXT NOT NULL,
	PRIMARY KEY (kind, id)
);
`

// SQLitePath returns the database path inside dir.
func SQLitePath(dir string) string {
	return filepath.Join(dir, "daybook.db")
}

// SQLite stores each entity as one JSON row keyed by (kind, id), where kind
// is the State collection it belongs to.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create state dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_txlock=immediate&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// records is the row view of a State: kind -> id -> encoded entity.
type records map[string]map[string]json.RawMessage

func flatten(st *State) (records, error) {
	data, err := json.Marshal(st)
	if err != nil {
		return nil, fmt.Errorf("marshal state: %w", err)
	}
	var out records
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("flatten state: %w", err)
	}
	return out, nil
}

func (r records) assemble() (*State, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshal records: %w", err)
	}
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("unmarshal state: %w", err)
	}
	st.init()
	return &st, nil
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func readRecords(ctx context.Context, q queryer) (records, error) {
	rows, err := q.QueryContext(ctx, "SELECT kind, id, data FROM records")
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	out := records{}
	for rows.Next() {
		var kind, id, data string
		if err := rows.Scan(&kind, &id, &data); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		if out[kind] == nil {
			out[kind] = map[string]json.RawMessage{}
		}
		out[kind][id] = json.RawMessage(data)
	}
	return out, rows.Err()
}

// Load reads every record and assembles the state.
func (s *SQLite) Load() (*State, error) {
	r, err := readRecords(context.Background(), s.db)
	if err != nil {
		return nil, err
	}
	return r.assemble()
}

// Update runs fn inside an immediate transaction and writes back only the
// rows that changed.
func (s *SQLite) Update(fn func(st *State) error) error {
	ctx := context.Background()
	return withTx(ctx, s.db, func(tx *sql.Tx) error {
		before, err := readRecords(ctx, tx)
		if err != nil {
			return err
		}
		st, err := before.assemble()
		if err != nil {
			return err
		}
		if err := fn(st); err != nil {
			return err
		}
		after, err := flatten(st)
		if err != nil {
			return err
		}
		return writeDiff(ctx, tx, before, after)
	})
}

func writeDiff(ctx context.Context, tx *sql.Tx, before, after records) error {
	for kind, rows := range after {
		for id, data := range rows {
			if old, ok := before[kind][id]; ok && bytes.Equal(compact(old), compact(data)) {
				continue
			}
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO records (kind, id, data) VALUES (?, ?, ?)
				ON CONFLICT(kind, id) DO UPDATE SET data = excluded.data
			`, kind, id, string(data)); err != nil {
				return fmt.Errorf("upsert %s %s: %w", kind, id, err)
			}
		}
	}
	for kind, rows := range before {
		for id := range rows {
			if _, ok := after[kind][id]; ok {
				continue
			}
			if _, err := tx.ExecContext(ctx, "DELETE FROM records WHERE kind = ? AND id = ?", kind, id); err != nil {
				return fmt.Errorf("delete %s %s: %w", kind, id, err)
			}
		}
	}
	return nil
}

func compact(data json.RawMessage) []byte {
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return data
	}
	return buf.Bytes()
}

func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	committed = true
	return nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}
