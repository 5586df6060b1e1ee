package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/lorekeeper/lorekeeper/internal/worldstore"
)

// CategorizedEnemy is an enemy record tagged with its category.
type CategorizedEnemy struct {
	Category string `json:"category"`
	worldstore.Enemy
}

// EnemySuggestions is returned when a lookup only partially matches.
type EnemySuggestions struct {
	ExactMatch       bool               `json:"exactMatch"`
	SuggestedEnemies []CategorizedEnemy `json:"suggestedEnemies"`
	Message          string             `json:"message"`
}

// EnemyTools implements the enemy tools over an injected repository.
type EnemyTools struct {
	repo    worldstore.Repository[worldstore.EnemiesDocument]
	shuffle func(n int, swap func(i, j int))
}

func NewEnemyTools(repo worldstore.Repository[worldstore.EnemiesDocument], shuffle func(n int, swap func(i, j int))) *EnemyTools {
	return &EnemyTools{repo: repo, shuffle: shuffle}
}

func (t *EnemyTools) load(ctx context.Context) (worldstore.EnemiesDocument, error) {
	doc, err := t.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load enemies: %w", err)
	}
	return doc, nil
}

// category resolves a category name, falling back to a case-insensitive match.
func (t *EnemyTools) category(doc worldstore.EnemiesDocument, name string) (string, map[string]worldstore.Enemy, error) {
	if group, ok := doc[name]; ok {
		return name, group, nil
	}
	for _, c := range doc.Categories() {
		if strings.EqualFold(c, name) {
			return c, doc[c], nil
		}
	}
	return "", nil, Fail(KindCategoryNotFound,
		"Category not found: %s. Available categories: %s.",
		name, strings.Join(doc.Categories(), ", "))
}

func (t *EnemyTools) Info(ctx context.Context, args EnemyLookupArgs) (any, error) {
	if err := requireField(args.Category, "category"); err != nil {
		return nil, err
	}
	if err := requireField(args.Name, "name"); err != nil {
		return nil, err
	}
	doc, err := t.load(ctx)
	if err != nil {
		return nil, err
	}
	category, group, err := t.category(doc, args.Category)
	if err != nil {
		return nil, err
	}

	want := strings.ToLower(strings.TrimSpace(args.Name))
	for _, key := range doc.Keys(category) {
		if strings.ToLower(group[key].Name) == want {
			return CategorizedEnemy{Category: category, Enemy: group[key]}, nil
		}
	}

	var partial []CategorizedEnemy
	for _, key := range doc.Keys(category) {
		have := strings.ToLower(group[key].Name)
		if have != "" && (strings.Contains(have, want) || strings.Contains(want, have)) {
			partial = append(partial, CategorizedEnemy{Category: category, Enemy: group[key]})
		}
	}
	if len(partial) > 0 {
		return EnemySuggestions{
			ExactMatch:       false,
			SuggestedEnemies: partial,
			Message: fmt.Sprintf("No exact match found for %q in category %q. Found %d similar enemies.",
				args.Name, category, len(partial)),
		}, nil
	}

	return nil, Fail(KindNotFound,
		"Enemy not found: %s in category %s. Available enemies in this category: %s.",
		args.Name, category, strings.Join(doc.Names(category), ", "))
}

func (t *EnemyTools) Random(ctx context.Context, args RandomEnemyArgs) (any, error) {
	if err := requireField(args.Category, "category"); err != nil {
		return nil, err
	}
	if err := requireCount(args.Count); err != nil {
		return nil, err
	}
	doc, err := t.load(ctx)
	if err != nil {
		return nil, err
	}
	category, group, err := t.category(doc, args.Category)
	if err != nil {
		return nil, err
	}

	var found []CategorizedEnemy
	for _, key := range doc.Keys(category) {
		if args.Name == "" || strings.EqualFold(group[key].Name, args.Name) {
			found = append(found, CategorizedEnemy{Category: category, Enemy: group[key]})
		}
	}
	if len(found) == 0 {
		return nil, Fail(KindNotFound, "Enemy not found: %s in category %s.", args.Name, category)
	}
	t.shuffle(len(found), func(i, j int) { found[i], found[j] = found[j], found[i] })
	if len(found) > args.Count {
		found = found[:args.Count]
	}
	return found, nil
}

func (t *EnemyTools) Create(ctx context.Context, args CreateEnemyArgs) (any, error) {
	if err := requireField(args.Category, "category"); err != nil {
		return nil, err
	}
	if err := requireField(args.Name, "name"); err != nil {
		return nil, err
	}
	doc, err := t.load(ctx)
	if err != nil {
		return nil, err
	}

	if doc == nil {
		doc = worldstore.EnemiesDocument{}
	}
	category := args.Category
	if c, _, err := t.category(doc, args.Category); err == nil {
		category = c
	}

	key := worldstore.EnemyKey(strings.TrimSpace(args.Name))
	if existing, ok := doc[category][key]; ok {
		return nil, Fail(KindAlreadyExists,
			"Enemy already exists: %s in category %s (key %s).", existing.Name, category, key)
	}
	if doc[category] == nil {
		doc[category] = map[string]worldstore.Enemy{}
	}
	enemy := worldstore.Enemy{
		Name:        args.Name,
		Health:      args.Health,
		Damage:      args.Damage,
		Skill:       args.Skill,
		Loot:        args.Loot,
		Description: args.Description,
		Weaknesses:  args.Weaknesses,
		Resistances: args.Resistances,
	}
	if enemy.Loot == nil {
		enemy.Loot = []string{}
	}
	doc[category][key] = enemy
	if err := t.repo.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("save enemies: %w", err)
	}
	return CategorizedEnemy{Category: category, Enemy: enemy}, nil
}

// ListAll maps each category to its enemy names.
func (t *EnemyTools) ListAll(ctx context.Context, _ noArgs) (any, error) {
	doc, err := t.load(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]string, len(doc))
	for _, c := range doc.Categories() {
		out[c] = doc.Names(c)
	}
	return out, nil
}

// ListCategories maps each category to its enemy keys.
func (t *EnemyTools) ListCategories(ctx context.Context, _ noArgs) (any, error) {
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
