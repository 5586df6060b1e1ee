// Package dependency wires core lorekeeper services using go.uber.org/dig.
package dependency

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"go.uber.org/dig"

	"github.com/lorekeeper/lorekeeper/internal/agent"
	"github.com/lorekeeper/lorekeeper/internal/config"
	"github.com/lorekeeper/lorekeeper/internal/prompts"
	"github.com/lorekeeper/lorekeeper/internal/providers"
	"github.com/lorekeeper/lorekeeper/internal/schema"
	"github.com/lorekeeper/lorekeeper/internal/server"
	"github.com/lorekeeper/lorekeeper/internal/tools"
	"github.com/lorekeeper/lorekeeper/internal/trace"
	"github.com/lorekeeper/lorekeeper/internal/worldstore"
)

// Container holds the resolved core service singletons.
// Callers use the typed getter methods; they never need to import dig directly.
type Container struct {
	cfg          *config.Config
	provider     schema.LLMProvider
	world        *worldstore.World
	catalog      *prompts.Catalog
	executor     *tools.Executor
	recorder     agent.Recorder
	orchestrator *agent.Orchestrator
	server       *server.Server
}

func (c *Container) Config() *config.Config            { return c.cfg }
func (c *Container) Provider() schema.LLMProvider      { return c.provider }
func (c *Container) World() *worldstore.World          { return c.world }
func (c *Container) Catalog() *prompts.Catalog         { return c.catalog }
func (c *Container) Executor() *tools.Executor         { return c.executor }
func (c *Container) Orchestrator() *agent.Orchestrator { return c.orchestrator }
func (c *Container) Server() *server.Server            { return c.server }

// Close releases the world store and the trace writer.
func (c *Container) Close() error {
	var errs []error
	if closer, ok := c.recorder.(io.Closer); ok {
		errs = append(errs, closer.Close())
	}
	errs = append(errs, c.world.Close())
	return errors.Join(errs...)
}

// Option adjusts how New wires the graph.
type Option func(*options)

type options struct {
	provider schema.LLMProvider
}

// WithProvider replaces the configured LLM provider.
func WithProvider(p schema.LLMProvider) Option {
	return func(o *options) { o.provider = p }
}

// New builds and wires all core services from cfg.
func New(cfg *config.Config, opts ...Option) (*Container, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	d := dig.New()

	if err := d.Provide(func() *config.Config { return cfg }); err != nil {
		return nil, err
	}
	providerCtor := newProvider
	if o.provider != nil {
		providerCtor = func(*config.Config) (schema.LLMProvider, error) { return o.provider, nil }
	}
	if err := d.Provide(providerCtor); err != nil {
		return nil, err
	}
	if err := d.Provide(newWorld); err != nil {
		return nil, err
	}
	if err := d.Provide(newCatalog); err != nil {
		return nil, err
	}
	if err := d.Provide(tools.NewRegistry); err != nil {
		return nil, err
	}
	if err := d.Provide(newExecutor); err != nil {
		return nil, err
	}
	if err := d.Provide(newRecorder); err != nil {
		return nil, err
	}
	if err := d.Provide(newOrchestrator); err != nil {
		return nil, err
	}
	if err := d.Provide(newServer); err != nil {
		return nil, err
	}

	var result *Container
	err := d.Invoke(func(
		provider schema.LLMProvider,
		world *worldstore.World,
		catalog *prompts.Catalog,
		executor *tools.Executor,
		recorder agent.Recorder,
		orchestrator *agent.Orchestrator,
		srv *server.Server,
	) {
		result = &Container{
			cfg:          cfg,
			provider:     provider,
			world:        world,
			catalog:      catalog,
			executor:     executor,
			recorder:     recorder,
			orchestrator: orchestrator,
			server:       srv,
		}
	})
	if err != nil {
		return nil, dig.RootCause(err)
	}
	return result, nil
}

func newProvider(cfg *config.Config) (schema.LLMProvider, error) {
	params, ok := cfg.ProviderParams()
	if !ok {
		return nil, fmt.Errorf("no provider configured for model %q; edit %s", cfg.Agent.Model, config.ConfigPath())
	}
	return providers.New(params), nil
}

// newWorld opens the configured store. A memory store starts from the seeds
// since nothing else could ever fill it.
func newWorld(cfg *config.Config) (*worldstore.World, error) {
	world, err := worldstore.Open(worldstore.Options{
		Backend: cfg.Store.Backend,
		Dir:     cfg.StoreDir(),
		DBPath:  cfg.StoreDBPath(),
	})
	if err != nil {
		return nil, err
	}
	if world.Backend == worldstore.BackendMemory {
		if _, err := world.Seed(context.Background()); err != nil {
			_ = world.Close()
			return nil, fmt.Errorf("seed memory store: %w", err)
		}
	}
	return world, nil
}

func newCatalog(cfg *config.Config) (*prompts.Catalog, error) {
	return prompts.Load(cfg.Prompts.Path)
}

func newExecutor(reg *tools.Registry, world *worldstore.World, catalog *prompts.Catalog) *tools.Executor {
	return tools.NewExecutor(reg, world, catalog)
}

func newRecorder(cfg *config.Config) agent.Recorder {
	if !cfg.Trace.Enabled {
		return agent.NopRecorder{}
	}
	slog.Info("Run trace enabled", "dir", cfg.TraceDir())
	return trace.NewRecorder(cfg.TraceDir())
}

func newOrchestrator(
	cfg *config.Config,
	p schema.LLMProvider,
	exec *tools.Executor,
	catalog *prompts.Catalog,
	rec agent.Recorder,
) *agent.Orchestrator {
	return agent.NewOrchestrator(p, exec, catalog, cfg.AgentSettings(), rec)
}

// Guidance is the tool-usage system message prepended to every request,
// or "" when agent.toolGuidance is off.
func (c *Container) Guidance() string { return guidanceFor(c.cfg, c.catalog) }

func guidanceFor(cfg *config.Config, catalog *prompts.Catalog) string {
	if !cfg.Agent.ToolGuidance {
		return ""
	}
	return strings.TrimSpace(catalog.ToolGuidance)
}

func newServer(cfg *config.Config, orch *agent.Orchestrator, catalog *prompts.Catalog) *server.Server {
	return server.New(orch, server.Options{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		StaticDir:      cfg.Server.StaticDir,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Guidance:       guidanceFor(cfg, catalog),
	})
}
