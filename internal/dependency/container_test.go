package dependency

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lorekeeper/lorekeeper/internal/agent"
	"github.com/lorekeeper/lorekeeper/internal/config"
	"github.com/lorekeeper/lorekeeper/internal/schema"
)

// lookupProvider asks for the kraken once, then narrates whatever it is given.
type lookupProvider struct{ calls int }

func (p *lookupProvider) Chat(_ context.Context, msgs schema.Messages, defs []map[string]any, _ schema.ChatOptions) (schema.LLMResponse, error) {
	p.calls++
	if defs == nil {
		return schema.LLMResponse{Content: "The kraken rises."}, nil
	}
	if p.calls == 1 {
		return schema.LLMResponse{ToolCalls: []schema.ToolCall{{
			ID:        "call_1",
			Name:      "get_enemies_info",
			Arguments: map[string]any{"category": "mythical", "name": "kraken"},
		}}}, nil
	}
	return schema.LLMResponse{Content: "unused"}, nil
}

func (p *lookupProvider) DefaultModel() string { return "test" }

func memoryConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Store.Backend = "memory"
	return &cfg
}

func TestNewWiresMemoryWorld(t *testing.T) {
	p := &lookupProvider{}
	c, err := New(memoryConfig(), WithProvider(p))
	require.NoError(t, err)
	defer c.Close()

	enemies, items, err := c.World().Presence(context.Background())
	require.NoError(t, err)
	require.True(t, enemies)
	require.True(t, items)

	require.Len(t, c.Executor().Definitions(), 11)
	require.NotEmpty(t, c.Guidance())
	require.Equal(t, "0.0.0.0:3001", c.Server().Addr())

	transcript := schema.NewMessages(schema.NewUserMessage("Tell me about the kraken"))
	res := c.Orchestrator().Run(context.Background(), transcript)
	require.Equal(t, agent.ExitConverged, res.Exit)
	require.Equal(t, "The kraken rises.", res.Content)
	require.Len(t, res.Final, 1)
	require.True(t, res.Final[0].OK())
}

func TestGuidanceDisabled(t *testing.T) {
	cfg := memoryConfig()
	cfg.Agent.ToolGuidance = false
	c, err := New(cfg, WithProvider(&lookupProvider{}))
	require.NoError(t, err)
	defer c.Close()
	require.Empty(t, c.Guidance())
}

func TestNewFailsWithoutProvider(t *testing.T) {
	cfg := memoryConfig()
	cfg.Agent.Model = "mistral-large"
	_, err := New(cfg)
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "no provider configured"), err.Error())
}

func TestNewRejectsUnknownBackend(t *testing.T) {
	cfg := memoryConfig()
	cfg.Store.Backend = "redis"
	_, err := New(cfg, WithProvider(&lookupProvider{}))
	require.ErrorContains(t, err, "unknown store backend")
}
