package worldstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileRepository stores a document as a pretty-printed JSON file.
// A missing file reads as an empty document.
type FileRepository[D any] struct {
	path string
}

// NewFileRepository returns a repository backed by the file at path.
func NewFileRepository[D any](path string) *FileRepository[D] {
	return &FileRepository[D]{path: path}
}

// Path returns the backing file path.
func (r *FileRepository[D]) Path() string { return r.path }

func (r *FileRepository[D]) Load(_ context.Context) (D, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return empty[D]()
		}
		var zero D
		return zero, fmt.Errorf("read %s: %w", r.path, err)
	}
	return decode[D](r.path, data)
}

func (r *FileRepository[D]) Save(_ context.Context, doc D) error {
	data, err := encode(r.path, doc)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}
	if err := os.WriteFile(r.path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", r.path, err)
	}
	return nil
}

// Exists reports whether the backing file is present.
func (r *FileRepository[D]) Exists(_ context.Context) (bool, error) {
	_, err := os.Stat(r.path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}
