package tools

import "encoding/json"

// Kind groups tools by the effect a successful call has on a round.
type Kind string

const (
	KindRead      Kind = "read"
	KindDiscovery Kind = "discovery"
	KindCreation  Kind = "creation"
)

// Descriptor is the immutable description of one tool surfaced to the model.
type Descriptor struct {
	Name        ToolName
	Description string
	Parameters  json.RawMessage
	Kind        Kind
}

// Definition renders the descriptor in OpenAI function-calling format.
func (d Descriptor) Definition() map[string]any {
	var params any
	if err := json.Unmarshal(d.Parameters, &params); err != nil {
		params = map[string]any{"type": "object", "properties": map[string]any{}}
	}
	return map[string]any{
		"type": "function",
		"function": map[string]any{
			"name":        string(d.Name),
			"description": d.Description,
			"parameters":  params,
		},
	}
}
