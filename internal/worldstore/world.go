package worldstore

import (
	"context"
	"fmt"
	"path/filepath"
)

const (
	EnemiesDocumentName = "enemies"
	ItemsDocumentName   = "items"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Options selects and locates a backend.
type Options struct {
	Backend string
	Dir     string
	DBPath  string
}

type document[D any] interface {
	Repository[D]
	Exists(ctx context.Context) (bool, error)
}

// World bundles the two independent documents.
type World struct {
	Enemies Repository[EnemiesDocument]
	Items   Repository[ItemsDocument]
	Backend string

	enemies document[EnemiesDocument]
	items   document[ItemsDocument]
	closeFn func() error
}

// Open builds the world repositories for the configured backend.
func Open(opts Options) (*World, error) {
	switch opts.Backend {
	case "", BackendFile:
		e := NewFileRepository[EnemiesDocument](filepath.Join(opts.Dir, "enemies.json"))
		i := NewFileRepository[ItemsDocument](filepath.Join(opts.Dir, "items.json"))
		return newWorld(BackendFile, e, i, nil), nil
	case BackendSQLite:
		path := opts.DBPath
		if path == "" {
			path = filepath.Join(opts.Dir, "world.db")
		}
		db, err := OpenSQLite(path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		e := NewSQLiteRepository[EnemiesDocument](db, EnemiesDocumentName)
		i := NewSQLiteRepository[ItemsDocument](db, ItemsDocumentName)
		return newWorld(BackendSQLite, e, i, db.Close), nil
	case BackendMemory:
		return NewMemoryWorld(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", opts.Backend)
	}
}

// NewMemoryWorld returns an empty in-memory world.
func NewMemoryWorld() *World {
	return newWorld(BackendMemory,
		NewMemoryRepository[EnemiesDocument](EnemiesDocumentName),
		NewMemoryRepository[ItemsDocument](ItemsDocumentName),
		nil)
}

func newWorld(backend string, e document[EnemiesDocument], i document[ItemsDocument], closeFn func() error) *World {
	return &World{Enemies: e, Items: i, Backend: backend, enemies: e, items: i, closeFn: closeFn}
}

// Presence reports which documents have been written.
func (w *World) Presence(ctx context.Context) (enemies, items bool, err error) {
	if enemies, err = w.enemies.Exists(ctx); err != nil {
		return false, false, err
	}
	if items, err = w.items.Exists(ctx); err != nil {
		return false, false, err
	}
	return enemies, items, nil
}

func (w *World) Close() error {
	if w.closeFn == nil {
		return nil
	}
	return w.closeFn()
}
