package tools

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lorekeeper/lorekeeper/internal/prompts"
	"github.com/lorekeeper/lorekeeper/internal/schema"
	"github.com/lorekeeper/lorekeeper/internal/worldstore"
)

func noShuffle(int, func(i, j int)) {}

func newTestExecutor(t *testing.T) (*Executor, *worldstore.World) {
	t.Helper()
	world := worldstore.NewMemoryWorld()
	_, err := world.Seed(context.Background())
	require.NoError(t, err)
	reg, err := NewRegistry()
	require.NoError(t, err)
	return NewExecutor(reg, world, prompts.Default(), WithShuffle(noShuffle)), world
}

func call(id string, name ToolName, args map[string]any) schema.ToolCall {
	return schema.ToolCall{ID: id, Name: string(name), Arguments: args}
}

func TestRegistry_DefinitionsAreStable(t *testing.T) {
	reg, err := NewRegistry()
	require.NoError(t, err)

	defs := reg.Definitions()
	require.Len(t, defs, 11)
	fn := defs[0]["function"].(map[string]any)
	require.Equal(t, "get_enemies_info", fn["name"])
	require.Equal(t, "function", defs[0]["type"])

	d, ok := reg.Lookup("createEnemy")
	require.True(t, ok)
	require.Equal(t, KindCreation, d.Kind)
	d, ok = reg.Lookup("listItemTypes")
	require.True(t, ok)
	require.Equal(t, KindDiscovery, d.Kind)
	_, ok = reg.Lookup("summonShip")
	require.False(t, ok)
}

func TestRegistryBuilder_RejectsDuplicates(t *testing.T) {
	_, err := NewRegistryBuilder().WithTool(builtin[0]).WithTool(builtin[0]).Build()
	require.Error(t, err)
}

func TestExecute_UnknownTool(t *testing.T) {
	ex, _ := newTestExecutor(t)
	res := ex.Execute(context.Background(), schema.ToolCall{ID: "c1", Name: "summonShip"})
	require.False(t, res.OK())
	require.Equal(t, KindUnknownTool, res.Kind())
	require.Contains(t, res.Err.Message, "unknown tool summonShip")
	require.Equal(t, "c1", res.CallID)
}

func TestExecute_SchemaViolation(t *testing.T) {
	ex, _ := newTestExecutor(t)
	res := ex.Execute(context.Background(), call("c1", ToolGetEnemyInfo, map[string]any{"category": "mythical"}))
	require.Equal(t, KindInvalidArguments, res.Kind())

	res = ex.Execute(context.Background(), call("c2", ToolGetRandomItems, map[string]any{"count": "lots"}))
	require.Equal(t, KindInvalidArguments, res.Kind())

	res = ex.Execute(context.Background(), call("c3", ToolGetRandomItems, nil))
	require.Equal(t, KindInvalidArguments, res.Kind())
}

func TestExecute_UndecodableArguments(t *testing.T) {
	ex, _ := newTestExecutor(t)
	c := call("c1", ToolGetItemInfo, map[string]any{})
	c.ArgumentsError = "cannot repair JSON: {name: cutlass"

	res := ex.Execute(context.Background(), c)
	require.Equal(t, KindInvalidArguments, res.Kind())
	require.Contains(t, res.Err.Message, "not valid JSON")
	require.NotContains(t, res.Err.Message, "missing properties")
}

func TestExecute_ExecutorDefendsBlankFields(t *testing.T) {
	ex, _ := newTestExecutor(t)
	res := ex.Execute(context.Background(), call("c1", ToolGetItemInfo, map[string]any{"name": "   "}))
	require.Equal(t, KindInvalidArguments, res.Kind())
}

func TestEnemyInfo(t *testing.T) {
	ex, _ := newTestExecutor(t)
	ctx := context.Background()

	res := ex.Execute(ctx, call("c1", ToolGetEnemyInfo, map[string]any{"category": "mythical", "name": "KRAKEN"}))
	require.True(t, res.OK(), res.Content())
	enemy := res.Payload.(CategorizedEnemy)
	require.Equal(t, "mythical", enemy.Category)
	require.Equal(t, 400, enemy.Health)

	var flat map[string]any
	require.NoError(t, json.Unmarshal([]byte(res.Content()), &flat))
	require.Equal(t, "Kraken", flat["name"])
	require.Equal(t, "mythical", flat["category"])

	res = ex.Execute(ctx, call("c2", ToolGetEnemyInfo, map[string]any{"category": "mythical", "name": "Siren Queen"}))
	require.True(t, res.OK())
	sugg := res.Payload.(EnemySuggestions)
	require.False(t, sugg.ExactMatch)
	require.Len(t, sugg.SuggestedEnemies, 1)

	res = ex.Execute(ctx, call("c3", ToolGetEnemyInfo, map[string]any{"category": "mythical", "name": "Leviathan"}))
	require.Equal(t, KindNotFound, res.Kind())
	require.Contains(t, res.Err.Message, "Kraken")
	require.Contains(t, res.Err.Message, "createEnemy")

	res = ex.Execute(ctx, call("c4", ToolGetEnemyInfo, map[string]any{"category": "dragons", "name": "Smaug"}))
	require.Equal(t, KindCategoryNotFound, res.Kind())
	require.Contains(t, res.Err.Message, "mythical")
	require.Contains(t, res.Err.Message, "listEnemyCategories")
}

func TestCreateEnemy_ThenAlreadyExists(t *testing.T) {
	ex, world := newTestExecutor(t)
	ctx := context.Background()
	args := map[string]any{
		"category":    "sea monsters",
		"name":        "Giant  Crab",
		"health":      120.0,
		"damage":      15,
		"skill":       4,
		"loot":        []any{"crab shell"},
		"description": "Snaps at anything that moves.",
	}

	res := ex.Execute(ctx, call("c1", ToolCreateEnemy, args))
	require.True(t, res.OK(), res.Content())

	doc, err := world.Enemies.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, 120, doc["sea monsters"]["giant_crab"].Health)

	res = ex.Execute(ctx, call("c2", ToolCreateEnemy, args))
	require.Equal(t, KindAlreadyExists, res.Kind())
	require.Contains(t, res.Err.Message, "get_enemies_info")
}

func TestCreateEnemy_MixedCaseCategoryFindsExisting(t *testing.T) {
	ex, world := newTestExecutor(t)
	ctx := context.Background()
	args := map[string]any{
		"category":    "Mythical",
		"name":        "Kraken",
		"health":      1,
		"damage":      1,
		"skill":       1,
		"loot":        []any{},
		"description": "A copy.",
	}

	res := ex.Execute(ctx, call("c1", ToolCreateEnemy, args))
	require.Equal(t, KindAlreadyExists, res.Kind(), res.Content())

	args["name"] = "Sea Serpent"
	res = ex.Execute(ctx, call("c2", ToolCreateEnemy, args))
	require.True(t, res.OK(), res.Content())
	require.Equal(t, "mythical", res.Payload.(CategorizedEnemy).Category)

	doc, err := world.Enemies.Load(ctx)
	require.NoError(t, err)
	require.NotContains(t, doc, "Mythical")
	require.Contains(t, doc["mythical"], "sea_serpent")
}

func TestAddItem_MixedCaseCategoryFindsExisting(t *testing.T) {
	ex, world := newTestExecutor(t)
	ctx := context.Background()

	res := ex.Execute(ctx, call("c1", ToolAddItem, map[string]any{
		"category": "Weapons",
		"key":      "belaying_pin",
		"itemData": map[string]any{"name": "Belaying Pin", "type": "weapon"},
	}))
	require.True(t, res.OK(), res.Content())
	require.Equal(t, "weapons", res.Payload.(ItemAdded).Category)

	doc, err := world.Items.Load(ctx)
	require.NoError(t, err)
	require.NotContains(t, doc, "Weapons")
	require.True(t, doc["weapons"]["belaying_pin"].IsItem())
}

func TestRandomEnemy(t *testing.T) {
	ex, _ := newTestExecutor(t)
	ctx := context.Background()

	res := ex.Execute(ctx, call("c1", ToolGetRandomEnemy, map[string]any{"category": "pirates", "count": 1}))
	require.True(t, res.OK())
	require.Len(t, res.Payload.([]CategorizedEnemy), 1)

	res = ex.Execute(ctx, call("c2", ToolGetRandomEnemy, map[string]any{"category": "pirates", "name": "Nobody", "count": 1}))
	require.Equal(t, KindNotFound, res.Kind())

	res = ex.Execute(ctx, call("c3", ToolGetRandomEnemy, map[string]any{"category": "aliens", "count": 1}))
	require.Equal(t, KindCategoryNotFound, res.Kind())
	require.Contains(t, res.Err.Message, "listEnemyCategories")
}

func TestItemInfoAndAdd(t *testing.T) {
	ex, world := newTestExecutor(t)
	ctx := context.Background()

	res := ex.Execute(ctx, call("c1", ToolGetItemInfo, map[string]any{"name": "cutlass"}))
	require.Equal(t, KindNotFound, res.Kind())
	require.Contains(t, res.Err.Message, "weapon")
	require.Contains(t, res.Err.Message, "addItemToItemsList")

	res = ex.Execute(ctx, call("c2", ToolAddItem, map[string]any{
		"category": "weapons",
		"key":      "cutlass",
		"itemData": map[string]any{"name": "Cutlass", "type": "weapon", "description": "A curved sailor's blade.", "damage": 12},
	}))
	require.True(t, res.OK(), res.Content())
	require.True(t, res.Payload.(ItemAdded).Added)

	res = ex.Execute(ctx, call("c3", ToolGetItemInfo, map[string]any{"name": "Cutlass"}))
	require.True(t, res.OK())
	require.Equal(t, "A curved sailor's blade.", res.Payload.(worldstore.Item).Description())

	res = ex.Execute(ctx, call("c4", ToolAddItem, map[string]any{
		"category": "weapons",
		"key":      "cutlass",
		"itemData": map[string]any{"name": "Cutlass"},
	}))
	require.Equal(t, KindAlreadyExists, res.Kind())

	doc, err := world.Items.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "A curved sailor's blade.", doc["weapons"]["cutlass"].Item.Description())
}

func TestAddItem_Subcategory(t *testing.T) {
	ex, world := newTestExecutor(t)
	ctx := context.Background()

	res := ex.Execute(ctx, call("c1", ToolAddItem, map[string]any{
		"category":    "clothing",
		"subcategory": "legs",
		"key":         "sailcloth_trousers",
		"itemData":    map[string]any{"name": "Sailcloth Trousers", "type": "clothing", "description": "Rough but durable."},
	}))
	require.True(t, res.OK(), res.Content())

	doc, err := world.Items.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "Sailcloth Trousers", doc["clothing"]["legs"].Subcategory["sailcloth_trousers"].Item.Name())

	res = ex.Execute(ctx, call("c2", ToolAddItem, map[string]any{
		"category":    "weapons",
		"subcategory": "boarding_axe",
		"key":         "x",
		"itemData":    map[string]any{"name": "X"},
	}))
	require.Equal(t, KindInvalidArguments, res.Kind())
}

func TestShopItems(t *testing.T) {
	ex, _ := newTestExecutor(t)
	ctx := context.Background()

	res := ex.Execute(ctx, call("c1", ToolGetShopItems, map[string]any{"type": "consumable", "count": 5}))
	require.True(t, res.OK())
	require.Len(t, res.Payload.([]worldstore.Item), 2)

	// No item has type "weapons"; the similarly named category is used.
	res = ex.Execute(ctx, call("c2", ToolGetShopItems, map[string]any{"type": "weapons", "count": 1}))
	require.True(t, res.OK(), res.Content())
	require.Len(t, res.Payload.([]worldstore.Item), 1)

	res = ex.Execute(ctx, call("c3", ToolGetShopItems, map[string]any{"type": "any", "count": 100}))
	require.True(t, res.OK())
	require.Len(t, res.Payload.([]worldstore.Item), 10)

	res = ex.Execute(ctx, call("c4", ToolGetShopItems, map[string]any{"type": "spaceship", "count": 1}))
	require.Equal(t, KindCategoryNotFound, res.Kind())
	require.Contains(t, res.Err.Message, "listItemCategories")
}

func TestDiscoveryTools(t *testing.T) {
	ex, _ := newTestExecutor(t)
	ctx := context.Background()

	res := ex.Execute(ctx, call("c1", ToolListEnemyCategories, nil))
	require.True(t, res.OK())
	require.Equal(t, []string{"kraken", "siren"}, res.Payload.(map[string][]string)["mythical"])

	res = ex.Execute(ctx, call("c2", ToolListAllEnemies, map[string]any{}))
	require.True(t, res.OK())
	require.Equal(t, []string{"Kraken", "Siren"}, res.Payload.(map[string][]string)["mythical"])

	res = ex.Execute(ctx, call("c3", ToolListItemCategories, nil))
	require.True(t, res.OK())
	require.Equal(t, []string{"body", "feet", "head"}, res.Payload.(map[string][]string)["clothing"])

	res = ex.Execute(ctx, call("c4", ToolListItemTypes, nil))
	require.True(t, res.OK())
	require.ElementsMatch(t, []string{"ammo", "clothing", "consumable", "currency", "quest", "weapon"}, res.Payload.([]string))
}

func TestExecuteAll_PreservesOrderAndContinuesAfterFailure(t *testing.T) {
	ex, _ := newTestExecutor(t)
	results := ex.ExecuteAll(context.Background(), []schema.ToolCall{
		call("a", ToolGetItemInfo, map[string]any{"name": "nothing-like-this"}),
		{ID: "b", Name: "bogus"},
		call("c", ToolListItemTypes, nil),
	})
	require.Len(t, results, 3)
	require.Equal(t, []string{"a", "b", "c"}, []string{results[0].CallID, results[1].CallID, results[2].CallID})
	require.False(t, results[0].OK())
	require.False(t, results[1].OK())
	require.True(t, results[2].OK())
}

type brokenRepo[D any] struct{}

func (brokenRepo[D]) Load(context.Context) (D, error) {
	var zero D
	return zero, errors.New("disk on fire")
}
func (brokenRepo[D]) Save(context.Context, D) error { return errors.New("disk on fire") }

func TestStoreFailureKind(t *testing.T) {
	reg, err := NewRegistry()
	require.NoError(t, err)
	world := &worldstore.World{
		Enemies: brokenRepo[worldstore.EnemiesDocument]{},
		Items:   brokenRepo[worldstore.ItemsDocument]{},
	}
	ex := NewExecutor(reg, world, prompts.Default())
	res := ex.Execute(context.Background(), call("c1", ToolListItemTypes, nil))
	require.Equal(t, KindStoreFailure, res.Kind())
	require.Contains(t, res.Content(), "disk on fire")
}

func TestResultOutcome(t *testing.T) {
	ok := Ok("1", "listItemTypes", []string{"weapon"})
	require.Equal(t, Outcome{Tool: "listItemTypes", OK: true, Result: []string{"weapon"}}, ok.Outcome())

	bad := Err("2", "get_item_info", KindNotFound, "Item not found: x.")
	require.Equal(t, "Error: Item not found: x.", bad.Content())
	require.Equal(t, KindNotFound, bad.Outcome().Kind)
	require.Len(t, Outcomes([]Result{ok, bad}), 2)
}
