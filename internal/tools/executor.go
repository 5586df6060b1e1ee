package tools

import (
	"context"
	"encoding/json"
	"log/slog"
	"math/rand/v2"

	"github.com/lorekeeper/lorekeeper/internal/schema"
	"github.com/lorekeeper/lorekeeper/internal/shared/llmutils"
	"github.com/lorekeeper/lorekeeper/internal/worldstore"
)

// Hinter supplies remediation hints keyed by tool name and error kind.
type Hinter interface {
	Hint(tool, kind string) string
}

// Executor validates and runs tool calls against the world store.
type Executor struct {
	registry *Registry
	enemies  *EnemyTools
	items    *ItemTools
	hints    Hinter
}

// Option customises an Executor.
type Option func(*execOptions)

type execOptions struct {
	shuffle func(n int, swap func(i, j int))
}

// WithShuffle replaces the random permutation used by the random-pick tools.
func WithShuffle(fn func(n int, swap func(i, j int))) Option {
	return func(o *execOptions) { o.shuffle = fn }
}

func NewExecutor(registry *Registry, world *worldstore.World, hints Hinter, opts ...Option) *Executor {
	o := execOptions{shuffle: rand.Shuffle}
	for _, opt := range opts {
		opt(&o)
	}
	return &Executor{
		registry: registry,
		enemies:  NewEnemyTools(world.Enemies, o.shuffle),
		items:    NewItemTools(world.Items, o.shuffle),
		hints:    hints,
	}
}

// Definitions returns the tool definitions offered to the model.
func (e *Executor) Definitions() []map[string]any { return e.registry.Definitions() }

// Lookup returns the descriptor for a tool name.
func (e *Executor) Lookup(name string) (Descriptor, bool) { return e.registry.Lookup(name) }

// Execute runs one call. It never returns a Go error: every failure is
// reported as an Err result carrying its kind and a remediation hint.
func (e *Executor) Execute(ctx context.Context, call schema.ToolCall) Result {
	argsJSON, _ := json.Marshal(call.Arguments)
	slog.Info("Tool call", "name", call.Name, "args", llmutils.Truncate(string(argsJSON), 200))

	desc, ok := e.registry.Lookup(call.Name)
	if !ok {
		return e.fail(call, Fail(KindUnknownTool, "unknown tool %s", call.Name))
	}
	if call.ArgumentsError != "" {
		return e.fail(call, Fail(KindInvalidArguments, "arguments for %s are not valid JSON: %s", call.Name, call.ArgumentsError))
	}
	args := call.Arguments
	if args == nil {
		args = map[string]any{}
	}
	if err := e.registry.Validate(desc.Name, args); err != nil {
		return e.fail(call, err)
	}
	payload, err := e.dispatch(ctx, desc.Name, args)
	if err != nil {
		return e.fail(call, err)
	}
	return Ok(call.ID, call.Name, payload)
}

// ExecuteAll runs calls sequentially in the given order. A failure never
// stops the remaining calls.
func (e *Executor) ExecuteAll(ctx context.Context, calls []schema.ToolCall) []Result {
	results := make([]Result, 0, len(calls))
	for _, c := range calls {
		results = append(results, e.Execute(ctx, c))
	}
	return results
}

func (e *Executor) fail(call schema.ToolCall, err error) Result {
	kind := KindOf(err)
	msg := err.Error()
	if e.hints != nil {
		if hint := e.hints.Hint(call.Name, string(kind)); hint != "" {
			msg += " " + hint
		}
	}
	slog.Warn("Tool failed", "name", call.Name, "kind", kind, "err", err)
	return Err(call.ID, call.Name, kind, msg)
}

func (e *Executor) dispatch(ctx context.Context, name ToolName, args map[string]any) (any, error) {
	switch name {
	case ToolGetEnemyInfo:
		return invoke(ctx, args, e.enemies.Info)
	case ToolGetRandomEnemy:
		return invoke(ctx, args, e.enemies.Random)
	case ToolCreateEnemy:
		return invoke(ctx, args, e.enemies.Create)
	case ToolListAllEnemies:
		return invoke(ctx, args, e.enemies.ListAll)
	case ToolListEnemyCategories:
		return invoke(ctx, args, e.enemies.ListCategories)
	case ToolGetItemInfo:
		return invoke(ctx, args, e.items.Info)
	case ToolGetShopItems:
		return invoke(ctx, args, e.items.Shop)
	case ToolGetRandomItems:
		return invoke(ctx, args, e.items.Random)
	case ToolAddItem:
		return invoke(ctx, args, e.items.Add)
	case ToolListItemTypes:
		return invoke(ctx, args, e.items.ListTypes)
	case ToolListItemCategories:
		return invoke(ctx, args, e.items.ListCategories)
	default:
		return nil, Fail(KindUnknownTool, "unknown tool %s", name)
	}
}

func invoke[A any](ctx context.Context, args map[string]any, fn func(context.Context, A) (any, error)) (any, error) {
	var a A
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return fn(ctx, a)
}
