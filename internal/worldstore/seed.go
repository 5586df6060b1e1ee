package worldstore

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed seed/enemies.json
var seedEnemies []byte

//go:embed seed/items.json
var seedItems []byte

// SeedEnemies returns a fresh copy of the starter enemies document.
func SeedEnemies() (EnemiesDocument, error) {
	var doc EnemiesDocument
	if err := json.Unmarshal(seedEnemies, &doc); err != nil {
		return nil, fmt.Errorf("parse seed enemies: %w", err)
	}
	return doc, nil
}

// SeedItems returns a fresh copy of the starter items document.
func SeedItems() (ItemsDocument, error) {
	var doc ItemsDocument
	if err := json.Unmarshal(seedItems, &doc); err != nil {
		return nil, fmt.Errorf("parse seed items: %w", err)
	}
	return doc, nil
}

// Seed writes the starter documents that are not present yet.
// It returns the names of the documents it wrote.
func (w *World) Seed(ctx context.Context) ([]string, error) {
	hasEnemies, hasItems, err := w.Presence(ctx)
	if err != nil {
		return nil, err
	}
	var written []string
	if !hasEnemies {
		doc, err := SeedEnemies()
		if err != nil {
			return written, err
		}
		if err := w.Enemies.Save(ctx, doc); err != nil {
			return written, err
		}
		written = append(written, EnemiesDocumentName)
	}
	if !hasItems {
		doc, err := SeedItems()
		if err != nil {
			return written, err
		}
		if err := w.Items.Save(ctx, doc); err != nil {
			return written, err
		}
		written = append(written, ItemsDocumentName)
	}
	return written, nil
}
