package worldstore

import (
	"context"
	"sync"
)

// MemoryRepository keeps the serialised document in memory. Load decodes a
// fresh copy every time, so callers see the same whole-document semantics as
// the file backend.
type MemoryRepository[D any] struct {
	name string

	mu   sync.Mutex
	data []byte
}

// NewMemoryRepository returns an empty in-memory repository.
func NewMemoryRepository[D any](name string) *MemoryRepository[D] {
	return &MemoryRepository[D]{name: name}
}

func (r *MemoryRepository[D]) Load(_ context.Context) (D, error) {
	r.mu.Lock()
	data := r.data
	r.mu.Unlock()
	return decode[D](r.name, data)
}

func (r *MemoryRepository[D]) Save(_ context.Context, doc D) error {
	data, err := encode(r.name, doc)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.data = data
	r.mu.Unlock()
	return nil
}

func (r *MemoryRepository[D]) Exists(_ context.Context) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.data != nil, nil
}
