package tools

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lorekeeper/lorekeeper/internal/worldstore"
)

// ItemSuggestions is returned when an item lookup only partially matches.
type ItemSuggestions struct {
	ExactMatch     bool              `json:"exactMatch"`
	SuggestedItems []worldstore.Item `json:"suggestedItems"`
	Message        string            `json:"message"`
}

// ItemAdded confirms a successful addItemToItemsList call.
type ItemAdded struct {
	Added       bool            `json:"added"`
	Category    string          `json:"category"`
	Subcategory string          `json:"subcategory,omitempty"`
	Key         string          `json:"key"`
	Item        worldstore.Item `json:"item"`
}

// ItemTools implements the item tools over an injected repository.
type ItemTools struct {
	repo    worldstore.Repository[worldstore.ItemsDocument]
	shuffle func(n int, swap func(i, j int))
}

func NewItemTools(repo worldstore.Repository[worldstore.ItemsDocument], shuffle func(n int, swap func(i, j int))) *ItemTools {
	return &ItemTools{repo: repo, shuffle: shuffle}
}

func (t *ItemTools) load(ctx context.Context) (worldstore.ItemsDocument, error) {
	doc, err := t.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}
	return doc, nil
}

func (t *ItemTools) Info(ctx context.Context, args ItemLookupArgs) (any, error) {
	if err := requireField(args.Name, "name"); err != nil {
		return nil, err
	}
	doc, err := t.load(ctx)
	if err != nil {
		return nil, err
	}
	all := doc.All()
	want := strings.ToLower(strings.TrimSpace(args.Name))
	for _, item := range all {
		if strings.ToLower(item.Name()) == want {
			return item, nil
		}
	}

	var partial []worldstore.Item
	for _, item := range all {
		have := strings.ToLower(item.Name())
		if have != "" && (strings.Contains(have, want) || strings.Contains(want, have)) {
			partial = append(partial, item)
		}
	}
	if len(partial) > 0 {
		return ItemSuggestions{
			ExactMatch:     false,
			SuggestedItems: partial,
			Message:        fmt.Sprintf("No exact match found for %q. Found %d similar items.", args.Name, len(partial)),
		}, nil
	}

	return nil, Fail(KindNotFound, "Item not found: %s. Available item types: %s.",
		args.Name, strings.Join(doc.Types(), ", "))
}

func (t *ItemTools) Shop(ctx context.Context, args ShopItemsArgs) (any, error) {
	if err := requireCount(args.Count); err != nil {
		return nil, err
	}
	doc, err := t.load(ctx)
	if err != nil {
		return nil, err
	}
	pool := doc.All()
	if args.Type != "" && !strings.EqualFold(args.Type, "any") {
		pool = filterByType(doc, args.Type)
		if len(pool) == 0 {
			return nil, Fail(KindCategoryNotFound, "No items found for type '%s'. Available types: %s.",
				args.Type, strings.Join(doc.Types(), ", "))
		}
	}
	return t.sample(pool, args.Count), nil
}

// filterByType matches items by type, falling back to categories whose name
// resembles the requested type (weapon vs weapons).
func filterByType(doc worldstore.ItemsDocument, typ string) []worldstore.Item {
	var out []worldstore.Item
	for _, item := range doc.All() {
		if item.Type() == typ {
			out = append(out, item)
		}
	}
	if len(out) > 0 {
		return out
	}
	want := strings.ToLower(typ)
	var similar []string
	for _, cat := range doc.Categories() {
		c := strings.ToLower(cat)
		if strings.Contains(c, want) || strings.Contains(want, c) ||
			strings.TrimSuffix(c, "s") == strings.TrimSuffix(want, "s") {
			similar = append(similar, cat)
		}
	}
	if len(similar) > 0 {
		slog.Debug("No exact item type match, trying similar categories", "type", typ, "categories", similar)
	}
	for _, cat := range similar {
		out = append(out, doc[cat].Items()...)
	}
	return out
}

func (t *ItemTools) Random(ctx context.Context, args RandomItemsArgs) (any, error) {
	if err := requireCount(args.Count); err != nil {
		return nil, err
	}
	doc, err := t.load(ctx)
	if err != nil {
		return nil, err
	}
	return t.sample(doc.All(), args.Count), nil
}

func (t *ItemTools) sample(pool []worldstore.Item, count int) []worldstore.Item {
	out := append([]worldstore.Item(nil), pool...)
	if len(out) <= count {
		return out
	}
	t.shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out[:count]
}

func (t *ItemTools) Add(ctx context.Context, args AddItemArgs) (any, error) {
	if err := requireField(args.Category, "category"); err != nil {
		return nil, err
	}
	if err := requireField(args.Key, "key"); err != nil {
		return nil, err
	}
	item := worldstore.Item(args.ItemData)
	if err := requireField(item.Name(), "itemData.name"); err != nil {
		return nil, err
	}
	doc, err := t.load(ctx)
	if err != nil {
		return nil, err
	}

	if doc == nil {
		doc = worldstore.ItemsDocument{}
	}
	category := args.Category
	if _, ok := doc[category]; !ok {
		for _, c := range doc.Categories() {
			if strings.EqualFold(c, category) {
				category = c
				break
			}
		}
	}

	if doc[category] == nil {
		doc[category] = worldstore.ItemCategory{}
	}
	target := doc[category]
	if args.Subcategory != "" {
		sub, ok := target[args.Subcategory]
		switch {
		case !ok:
			sub = worldstore.ItemEntry{Subcategory: worldstore.ItemCategory{}}
			target[args.Subcategory] = sub
		case sub.IsItem():
			return nil, Fail(KindInvalidArguments, "%s/%s is an item, not a subcategory", category, args.Subcategory)
		case sub.Subcategory == nil:
			sub.Subcategory = worldstore.ItemCategory{}
			target[args.Subcategory] = sub
		}
		target = sub.Subcategory
	}

	if _, exists := target[args.Key]; exists {
		where := category
		if args.Subcategory != "" {
			where += "/" + args.Subcategory
		}
		return nil, Fail(KindAlreadyExists, "Item already exists: %s in %s.", args.Key, where)
	}
	target[args.Key] = worldstore.ItemEntry{Item: item}
	if err := t.repo.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("save items: %w", err)
	}
	return ItemAdded{Added: true, Category: category, Subcategory: args.Subcategory, Key: args.Key, Item: item}, nil
}

func (t *ItemTools) ListTypes(ctx context.Context, _ noArgs) (any, error) {
	doc, err := t.load(ctx)
	if err != nil {
		return nil, err
	}
	types := doc.Types()
	if types == nil {
		types = []string{}
	}
	return types, nil
}

// ListCategories maps each category to its item keys and subcategory names.
func (t *ItemTools) ListCategories(ctx context.Context, _ noArgs) (any, error) {
	doc, err := t.load(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]string, len(doc))
	for _, c := range doc.Categories() {
		out[c] = doc.Keys(c)
	}
	return out, nil
}
