package tools

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ToolName is the canonical name of a world tool. The set is closed.
type ToolName string

const (
	ToolGetEnemyInfo        ToolName = "get_enemies_info"
	ToolGetRandomEnemy      ToolName = "getRandomEnemy"
	ToolCreateEnemy         ToolName = "createEnemy"
	ToolListAllEnemies      ToolName = "listAllEnemies"
	ToolListEnemyCategories ToolName = "listEnemyCategories"
	ToolGetItemInfo         ToolName = "get_item_info"
	ToolGetShopItems        ToolName = "getShopItems"
	ToolGetRandomItems      ToolName = "getRandomItems"
	ToolAddItem             ToolName = "addItemToItemsList"
	ToolListItemTypes       ToolName = "listItemTypes"
	ToolListItemCategories  ToolName = "listItemCategories"
)

// Registry is the immutable set of tool descriptors with their compiled
// argument schemas. Order is registration order.
type Registry struct {
	order   []ToolName
	entries map[ToolName]entry
}

type entry struct {
	desc   Descriptor
	schema *jsonschema.Schema
}

// Lookup returns the descriptor for name.
func (r *Registry) Lookup(name string) (Descriptor, bool) {
	e, ok := r.entries[ToolName(name)]
	return e.desc, ok
}

// Descriptors returns every descriptor in registration order.
func (r *Registry) Descriptors() []Descriptor {
	out := make([]Descriptor, 0, len(r.order))
	for _, n := range r.order {
		out = append(out, r.entries[n].desc)
	}
	return out
}

// Definitions returns all tool definitions in OpenAI function-calling format.
func (r *Registry) Definitions() []map[string]any {
	list := make([]map[string]any, 0, len(r.order))
	for _, n := range r.order {
		list = append(list, r.entries[n].desc.Definition())
	}
	return list
}

// Validate checks args against the tool's JSON Schema.
func (r *Registry) Validate(name ToolName, args map[string]any) error {
	e, ok := r.entries[name]
	if !ok {
		return Fail(KindUnknownTool, "unknown tool %s", name)
	}
	// Round-trip through JSON so Go-typed values validate like decoded ones.
	raw, err := json.Marshal(args)
	if err != nil {
		return Fail(KindInvalidArguments, "arguments are not serialisable: %v", err)
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return Fail(KindInvalidArguments, "arguments are not valid JSON: %v", err)
	}
	if err := e.schema.Validate(v); err != nil {
		return Fail(KindInvalidArguments, "invalid arguments for %s: %s", name, validationSummary(err))
	}
	return nil
}

func validationSummary(err error) string {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return err.Error()
	}
	var msgs []string
	collectLeaves(ve, &msgs)
	if len(msgs) == 0 {
		return ve.Message
	}
	if len(msgs) > 3 {
		msgs = append(msgs[:3], fmt.Sprintf("and %d more", len(msgs)-3))
	}
	return strings.Join(msgs, "; ")
}

func collectLeaves(ve *jsonschema.ValidationError, out *[]string) {
	if len(ve.Causes) == 0 {
		loc := ve.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		*out = append(*out, loc+": "+ve.Message)
		return
	}
	for _, c := range ve.Causes {
		collectLeaves(c, out)
	}
}
