package worldstore

import (
	"encoding/json"
	"fmt"
)

// Item is a free-form item object. Only name, type and description are
// common to every item; the rest are type-specific.
type Item map[string]any

func (i Item) str(field string) string {
	s, _ := i[field].(string)
	return s
}

func (i Item) Name() string        { return i.str("name") }
func (i Item) Type() string        { return i.str("type") }
func (i Item) Description() string { return i.str("description") }

// ItemEntry is either a single item or a subcategory of items.
// An object carrying a "name" field is an item.
type ItemEntry struct {
	Item        Item
	Subcategory ItemCategory
}

// IsItem reports whether the entry holds an item rather than a subcategory.
func (e ItemEntry) IsItem() bool { return e.Item != nil }

func (e ItemEntry) MarshalJSON() ([]byte, error) {
	if e.Item != nil {
		return json.Marshal(e.Item)
	}
	if e.Subcategory == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(e.Subcategory)
}

func (e *ItemEntry) UnmarshalJSON(data []byte) error {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return fmt.Errorf("item entry: %w", err)
	}
	if _, ok := probe["name"]; ok {
		var item Item
		if err := json.Unmarshal(data, &item); err != nil {
			return err
		}
		*e = ItemEntry{Item: item}
		return nil
	}
	var sub ItemCategory
	if err := json.Unmarshal(data, &sub); err != nil {
		return err
	}
	*e = ItemEntry{Subcategory: sub}
	return nil
}

// ItemCategory maps key -> entry.
type ItemCategory map[string]ItemEntry

// ItemsDocument maps category -> key -> entry.
type ItemsDocument map[string]ItemCategory

// Items flattens a category, descending into subcategories.
func (c ItemCategory) Items() []Item {
	var out []Item
	for _, key := range sortedKeys(c) {
		entry := c[key]
		if entry.IsItem() {
			out = append(out, entry.Item)
			continue
		}
		out = append(out, entry.Subcategory.Items()...)
	}
	return out
}

// All returns every item in the document, in category then key order.
func (d ItemsDocument) All() []Item {
	var out []Item
	for _, cat := range sortedKeys(d) {
		out = append(out, d[cat].Items()...)
	}
	return out
}

// Types returns the distinct non-empty item types in first-seen order.
func (d ItemsDocument) Types() []string {
	seen := map[string]bool{}
	var types []string
	for _, item := range d.All() {
		t := item.Type()
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		types = append(types, t)
	}
	return types
}

// Categories returns the category names in sorted order.
func (d ItemsDocument) Categories() []string { return sortedKeys(d) }

// Keys returns the item keys and subcategory names directly under a category.
func (d ItemsDocument) Keys(category string) []string { return sortedKeys(d[category]) }
