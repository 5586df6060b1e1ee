package agent

import (
	"context"
	"errors"

	"github.com/lorekeeper/lorekeeper/internal/schema"
)

// ErrInfrastructure marks failures of the model backend itself. These end a
// run immediately and are never retried.
var ErrInfrastructure = errors.New("infrastructure failure")

// InfrastructureError carries the backend's own error. It matches
// ErrInfrastructure under errors.Is.
type InfrastructureError struct {
	Err error
}

func (e *InfrastructureError) Error() string        { return e.Err.Error() }
func (e *InfrastructureError) Unwrap() error        { return e.Err }
func (e *InfrastructureError) Is(target error) bool { return target == ErrInfrastructure }

// ModelGateway wraps the two request shapes the orchestrator needs from one
// provider: tool-bound generation and plain narration.
type ModelGateway struct {
	provider schema.LLMProvider
	settings schema.AgentSettings
}

func NewModelGateway(provider schema.LLMProvider, settings schema.AgentSettings) *ModelGateway {
	return &ModelGateway{provider: provider, settings: settings}
}

func (g *ModelGateway) options() schema.ChatOptions {
	model := g.settings.Model
	if model == "" {
		model = g.provider.DefaultModel()
	}
	return schema.NewChatOptions(model, g.settings.MaxTokens, g.settings.Temperature)
}

// Generate asks for the next message with the given tools on offer. When the
// response carries tool calls they take precedence over its text.
func (g *ModelGateway) Generate(ctx context.Context, transcript schema.Messages, defs []map[string]any) (schema.LLMResponse, error) {
	resp, err := g.provider.Chat(ctx, transcript, defs, g.options())
	if err != nil {
		return schema.LLMResponse{}, &InfrastructureError{Err: err}
	}
	return resp, nil
}

// Narrate asks for plain text. No tool definitions are sent and any tool
// calls in the reply are ignored.
func (g *ModelGateway) Narrate(ctx context.Context, transcript schema.Messages) (string, error) {
	resp, err := g.provider.Chat(ctx, transcript, nil, g.options())
	if err != nil {
		return "", &InfrastructureError{Err: err}
	}
	return resp.Content, nil
}
