// Package worldstore holds the game world documents the tools read and mutate.
//
// Every document is loaded in full on each access and saved in full on each
// mutation. There is no locking and no caching: two concurrent
// read-modify-write cycles race and the last Save wins.
package worldstore

import (
	"context"
	"encoding/json"
	"fmt"
)

// Repository loads and replaces one whole document.
type Repository[D any] interface {
	Load(ctx context.Context) (D, error)
	Save(ctx context.Context, doc D) error
}

// empty returns the zero document decoded from "{}" so map documents come
// back non-nil and ready for writes.
func empty[D any]() (D, error) {
	var doc D
	if err := json.Unmarshal([]byte("{}"), &doc); err != nil {
		return doc, fmt.Errorf("init empty document: %w", err)
	}
	return doc, nil
}

func decode[D any](name string, data []byte) (D, error) {
	if len(data) == 0 {
		return empty[D]()
	}
	var doc D
	if err := json.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("parse %s: %w", name, err)
	}
	return doc, nil
}

func encode[D any](name string, doc D) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", name, err)
	}
	return data, nil
}
