package worldstore

import (
	"regexp"
	"sort"
	"strings"
)

// Enemy is one hostile entity in the world.
type Enemy struct {
	Name        string   `json:"name"`
	Health      int      `json:"health"`
	Damage      int      `json:"damage"`
	Skill       int      `json:"skill"`
	Loot        []string `json:"loot"`
	Description string   `json:"description"`
	Weaknesses  []string `json:"weaknesses,omitempty"`
	Resistances []string `json:"resistances,omitempty"`
}

// EnemiesDocument maps category -> enemy key -> enemy.
type EnemiesDocument map[string]map[string]Enemy

var whitespaceRun = regexp.MustCompile(`\s+`)

// EnemyKey derives the storage key for an enemy name: whitespace runs become
// underscores and the result is lowercased.
func EnemyKey(name string) string {
	return strings.ToLower(whitespaceRun.ReplaceAllString(name, "_"))
}

// Categories returns the category names in sorted order.
func (d EnemiesDocument) Categories() []string {
	return sortedKeys(d)
}

// Keys returns the enemy keys of a category in sorted order.
func (d EnemiesDocument) Keys(category string) []string {
	return sortedKeys(d[category])
}

// Names returns enemy display names of a category, ordered by key.
func (d EnemiesDocument) Names(category string) []string {
	group := d[category]
	names := make([]string, 0, len(group))
	for _, key := range sortedKeys(group) {
		names = append(names, group[key].Name)
	}
	return names
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
