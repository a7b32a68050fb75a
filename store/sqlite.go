// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"database/sql"
	_ "embed"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/katalvlaran/meanval/errs"
	"github.com/katalvlaran/meanval/table"
)

//go:embed schema.sql
var schemaSQL string

// SQLite stores every table in the bound_rows relation of one database file.
// Writers are serialised; readers run concurrently under WAL.
type SQLite struct {
	db   *sql.DB
	mu   sync.Mutex
	path string
}

var _ Store = (*SQLite)(nil)

// NewSQLite opens (and initialises) the database at path.
func NewSQLite(path string) (*SQLite, error) {
	if path == "" {
		return nil, errs.Wrap(errs.ErrInvalidParameter, "store: empty database path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errs.Wrapf(err, "store: create directory for %s", path)
	}
	dsn := "file:" + path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, errs.Wrapf(err, "store: open %s", path)
	}
	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, errs.Wrapf(err, "store: ping %s", path)
	}
	if _, err = db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, errs.Wrapf(err, "store: init schema in %s", path)
	}

	return &SQLite{db: db, path: path}, nil
}

// Path returns the database file path.
func (s *SQLite) Path() string { return s.path }

// Load implements Store.
func (s *SQLite) Load(ctx context.Context, key table.Key) (*table.Table, error) {
	return s.load(ctx, s.db, key)
}

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (s *SQLite) load(ctx context.Context, q queryer, key table.Key) (*table.Table, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT stage, value FROM bound_rows WHERE h = ? AND k = ? ORDER BY stage`,
		key.H, key.K)
	if err != nil {
		return nil, errs.Wrapf(err, "store: query %s", key)
	}
	defer rows.Close()

	var out []table.Row
	for rows.Next() {
		var r table.Row
		if err = rows.Scan(&r.Stage, &r.Value); err != nil {
			return nil, errs.Wrapf(err, "store: scan %s", key)
		}
		out = append(out, r)
	}
	if err = rows.Err(); err != nil {
		return nil, errs.Wrapf(err, "store: iterate %s", key)
	}
	if len(out) == 0 {
		return nil, notFound(key)
	}

	t, err := table.FromRows(key, out)
	if err != nil {
		return nil, errs.Wrapf(err, "store: %s in %s", key, s.path)
	}
	if err = checkMonotone(t); err != nil {
		return nil, errs.Wrapf(err, "store: %s", s.path)
	}

	return t, nil
}

// Save implements Store. The stored rows are merged with t inside one
// transaction and only the stages not yet committed are inserted.
func (s *SQLite) Save(ctx context.Context, t *table.Table) (err error) {
	if err = checkSave(t); err != nil {
		return err
	}
	if t.Empty() {
		return nil
	}
	key := t.Key()
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errs.Wrapf(err, "store: begin %s", key)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				err = errs.CombineErrors(err, rbErr)
			}
		}
	}()

	// Stage 1: merge against the committed rows.
	existing, err := s.load(ctx, tx, key)
	if err != nil && !errs.Is(err, errs.ErrNotFound) {
		return err
	}
	merged, err := merge(existing, t)
	if err != nil {
		return err
	}

	// Stage 2: insert the new stages.
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO bound_rows (h, k, stage, value) VALUES (?, ?, ?, ?)
		ON CONFLICT (h, k, stage) DO NOTHING`)
	if err != nil {
		return errs.Wrapf(err, "store: prepare %s", key)
	}
	defer stmt.Close()
	for _, r := range merged.Rows() {
		if existing != nil {
			if _, ok := existing.Value(r.Stage); ok {
				continue
			}
		}
		if _, err = stmt.ExecContext(ctx, key.H, key.K, r.Stage, r.Value); err != nil {
			return errs.Wrapf(err, "store: insert %s stage %d", key, r.Stage)
		}
	}

	if err = tx.Commit(); err != nil {
		return errs.Wrapf(err, "store: commit %s", key)
	}

	return nil
}

// Close implements Store.
func (s *SQLite) Close() error {
	return s.db.Close()
}
