package tools

import (
	"strings"

	"github.com/mitchellh/mapstructure"
)

type EnemyLookupArgs struct {
	Category string `mapstructure:"category"`
	Name     string `mapstructure:"name"`
}

type RandomEnemyArgs struct {
	Category string `mapstructure:"category"`
	Name     string `mapstructure:"name"`
	Count    int    `mapstructure:"count"`
}

type CreateEnemyArgs struct {
	Category    string   `mapstructure:"category"`
	Name        string   `mapstructure:"name"`
	Health      int      `mapstructure:"health"`
	Damage      int      `mapstructure:"damage"`
	Skill       int      `mapstructure:"skill"`
	Loot        []string `mapstructure:"loot"`
	Description string   `mapstructure:"description"`
	Weaknesses  []string `mapstructure:"weaknesses"`
	Resistances []string `mapstructure:"resistances"`
}

type ItemLookupArgs struct {
	Name string `mapstructure:"name"`
}

type ShopItemsArgs struct {
	Type  string `mapstructure:"type"`
	Count int    `mapstructure:"count"`
}

type RandomItemsArgs struct {
	Count int `mapstructure:"count"`
}

type AddItemArgs struct {
	Category    string         `mapstructure:"category"`
	Subcategory string         `mapstructure:"subcategory"`
	Key         string         `mapstructure:"key"`
	ItemData    map[string]any `mapstructure:"itemData"`
}

type noArgs struct{}

// decodeArgs decodes an untrusted argument bag into a typed struct.
// Key matching ignores case, underscores and dashes.
func decodeArgs(input map[string]any, out any) error {
	if len(input) == 0 {
		return nil
	}
	cfg := &mapstructure.DecoderConfig{
		TagName:          "mapstructure",
		Result:           out,
		WeaklyTypedInput: true,
		MatchName: func(mapKey, fieldName string) bool {
			return normalizeKey(mapKey) == normalizeKey(fieldName)
		},
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return err
	}
	if err := decoder.Decode(input); err != nil {
		return Fail(KindInvalidArguments, "invalid arguments: %v", err)
	}
	return nil
}

func normalizeKey(value string) string {
	value = strings.ToLower(value)
	value = strings.ReplaceAll(value, "_", "")
	value = strings.ReplaceAll(value, "-", "")
	return value
}

func requireField(value, field string) error {
	if strings.TrimSpace(value) == "" {
		return Fail(KindInvalidArguments, "%s is required", field)
	}
	return nil
}

func requireCount(n int) error {
	if n < 1 {
		return Fail(KindInvalidArguments, "count must be at least 1, got %d", n)
	}
	return nil
}
