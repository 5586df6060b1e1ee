package worldstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLiteDB is a single-file database holding one row per document.
type SQLiteDB struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path.
func OpenSQLite(path string) (*SQLiteDB, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS documents (
		name TEXT PRIMARY KEY,
		body TEXT NOT NULL
	);`); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteDB{db: db}, nil
}

func (s *SQLiteDB) Close() error { return s.db.Close() }

// SQLiteRepository stores one named document as a JSON text row.
type SQLiteRepository[D any] struct {
	db   *SQLiteDB
	name string
}

// NewSQLiteRepository returns a repository for the document called name.
func NewSQLiteRepository[D any](db *SQLiteDB, name string) *SQLiteRepository[D] {
	return &SQLiteRepository[D]{db: db, name: name}
}

func (r *SQLiteRepository[D]) Load(ctx context.Context) (D, error) {
	var body string
	err := r.db.db.QueryRowContext(ctx, `SELECT body FROM documents WHERE name = ?`, r.name).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return empty[D]()
	}
	if err != nil {
		var zero D
		return zero, fmt.Errorf("load %s: %w", r.name, err)
	}
	return decode[D](r.name, []byte(body))
}

func (r *SQLiteRepository[D]) Save(ctx context.Context, doc D) error {
	data, err := encode(r.name, doc)
	if err != nil {
		return err
	}
	if _, err := r.db.db.ExecContext(ctx,
		`INSERT INTO documents(name, body) VALUES(?, ?)
		 ON CONFLICT(name) DO UPDATE SET body = excluded.body`,
		r.name, string(data)); err != nil {
		return fmt.Errorf("save %s: %w", r.name, err)
	}
	return nil
}

func (r *SQLiteRepository[D]) Exists(ctx context.Context) (bool, error) {
	var n int
	if err := r.db.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM documents WHERE name = ?`, r.name).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}
