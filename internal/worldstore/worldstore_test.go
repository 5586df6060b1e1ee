package worldstore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnemyKey(t *testing.T) {
	require.Equal(t, "ghost_pirate_captain", EnemyKey("Ghost  Pirate\tCaptain"))
	require.Equal(t, "kraken", EnemyKey("Kraken"))
}

func TestFileRepository_MissingFileIsEmpty(t *testing.T) {
	repo := NewFileRepository[EnemiesDocument](filepath.Join(t.TempDir(), "nope", "enemies.json"))
	doc, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, doc)
	require.Empty(t, doc)

	ok, err := repo.Exists(context.Background())
	require.NoError(t, err)
	require.False(t, ok)
}

func TestFileRepository_SaveIsPrettyWholeDocument(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "world", "enemies.json")
	repo := NewFileRepository[EnemiesDocument](path)

	doc := EnemiesDocument{"pirates": {"jack": {Name: "Jack", Health: 10, Loot: []string{"coin"}}}}
	require.NoError(t, repo.Save(ctx, doc))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(raw), "\n  \"pirates\": {"), "expected 2-space indent, got %s", raw)
	require.NotContains(t, string(raw), "weaknesses")

	// Full replace: a second save with a different document drops the first.
	require.NoError(t, repo.Save(ctx, EnemiesDocument{"navy": {}}))
	got, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"navy"}, got.Categories())
}

func TestFileRepository_LastWriteWins(t *testing.T) {
	ctx := context.Background()
	repo := NewFileRepository[EnemiesDocument](filepath.Join(t.TempDir(), "enemies.json"))
	require.NoError(t, repo.Save(ctx, EnemiesDocument{}))

	a, err := repo.Load(ctx)
	require.NoError(t, err)
	b, err := repo.Load(ctx)
	require.NoError(t, err)

	a["pirates"] = map[string]Enemy{"a": {Name: "A"}}
	b["pirates"] = map[string]Enemy{"b": {Name: "B"}}
	require.NoError(t, repo.Save(ctx, a))
	require.NoError(t, repo.Save(ctx, b))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"b"}, got.Keys("pirates"))
}

func TestFileRepository_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	_, err := NewFileRepository[ItemsDocument](path).Load(context.Background())
	require.Error(t, err)
}

func TestMemoryRepository_LoadReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository[EnemiesDocument]("enemies")
	require.NoError(t, repo.Save(ctx, EnemiesDocument{"town": {"thug": {Name: "Thug"}}}))

	doc, err := repo.Load(ctx)
	require.NoError(t, err)
	doc["town"]["thug"] = Enemy{Name: "Changed"}

	again, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "Thug", again["town"]["thug"].Name)
}

func TestSQLiteRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "world.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := NewSQLiteRepository[ItemsDocument](db, ItemsDocumentName)
	ok, err := repo.Exists(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	empty, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Empty(t, empty)

	seed, err := SeedItems()
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, seed))
	require.NoError(t, repo.Save(ctx, seed))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, len(seed.All()), len(got.All()))

	ok, err = repo.Exists(ctx)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestItemEntry_DistinguishesItemsFromSubcategories(t *testing.T) {
	raw := `{
	  "clothing": {
	    "head": {"hat": {"name": "Hat", "type": "clothing", "description": "d"}},
	    "cloak": {"name": "Cloak", "type": "clothing", "description": "warm", "armor": 2}
	  }
	}`
	var doc ItemsDocument
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	require.True(t, doc["clothing"]["cloak"].IsItem())
	require.False(t, doc["clothing"]["head"].IsItem())
	require.Equal(t, "Hat", doc["clothing"]["head"].Subcategory["hat"].Item.Name())

	all := doc.All()
	require.Len(t, all, 2)
	require.Equal(t, []string{"clothing"}, doc.Types())
	require.Equal(t, []string{"cloak", "head"}, doc.Keys("clothing"))

	out, err := json.Marshal(doc)
	require.NoError(t, err)
	var back ItemsDocument
	require.NoError(t, json.Unmarshal(out, &back))
	require.Equal(t, float64(2), back["clothing"]["cloak"].Item["armor"])
}

func TestWorld_SeedOnlyMissingDocuments(t *testing.T) {
	ctx := context.Background()
	w, err := Open(Options{Backend: BackendFile, Dir: t.TempDir()})
	require.NoError(t, err)

	require.NoError(t, w.Items.Save(ctx, ItemsDocument{"custom": {}}))

	written, err := w.Seed(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{EnemiesDocumentName}, written)

	enemies, err := w.Enemies.Load(ctx)
	require.NoError(t, err)
	require.Contains(t, enemies.Categories(), "mythical")
	require.Equal(t, "Kraken", enemies["mythical"]["kraken"].Name)

	items, err := w.Items.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"custom"}, items.Categories())

	written, err = w.Seed(ctx)
	require.NoError(t, err)
	require.Empty(t, written)
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := Open(Options{Backend: "redis"})
	require.Error(t, err)
}
