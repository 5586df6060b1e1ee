package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lorekeeper/lorekeeper/internal/prompts"
	"github.com/lorekeeper/lorekeeper/internal/schema"
	"github.com/lorekeeper/lorekeeper/internal/shared/llmutils"
	"github.com/lorekeeper/lorekeeper/internal/tools"
)

// DefaultMaxRounds bounds the tool-bound model calls of one run.
const DefaultMaxRounds = 6

// ErrBudgetExceeded is reported when the wall-clock budget runs out before
// the first model call.
var ErrBudgetExceeded = errors.New("run budget exceeded before first model call")

// Exit names how a run ended.
type Exit string

const (
	// ExitDirect: the model answered without requesting tools.
	ExitDirect Exit = "direct"
	// ExitConverged: a round gave no reason to continue.
	ExitConverged Exit = "converged"
	// ExitExhausted: the round budget ran out while the model still had work.
	ExitExhausted Exit = "exhausted"
	// ExitTimeout: the wall-clock budget ran out between rounds.
	ExitTimeout Exit = "timeout"
	// ExitInfrastructure: the model backend failed.
	ExitInfrastructure Exit = "infrastructure"
)

// Result is the final message of a run. Content is never empty.
type Result struct {
	Content  string
	Exit     Exit
	Rounds   int
	Fallback bool
	// Final holds the tool results of the last executed round.
	Final []tools.Result
	// Err is set only for ExitInfrastructure.
	Err error
}

// ToolRunner is the tool surface the orchestrator drives.
type ToolRunner interface {
	Definitions() []map[string]any
	Lookup(name string) (tools.Descriptor, bool)
	ExecuteAll(ctx context.Context, calls []schema.ToolCall) []tools.Result
}

// Orchestrator runs the bounded model ↔ tool loop for one request at a time.
// It holds no per-run state and is safe for concurrent use.
type Orchestrator struct {
	gateway  *ModelGateway
	synth    *Synthesizer
	tools    ToolRunner
	catalog  *prompts.Catalog
	settings schema.AgentSettings
	recorder Recorder
}

func NewOrchestrator(provider schema.LLMProvider, runner ToolRunner, catalog *prompts.Catalog, settings schema.AgentSettings, recorder Recorder) *Orchestrator {
	if settings.MaxRounds <= 0 {
		settings.MaxRounds = DefaultMaxRounds
	}
	if recorder == nil {
		recorder = NopRecorder{}
	}
	gw := NewModelGateway(provider, settings)
	return &Orchestrator{
		gateway:  gw,
		synth:    NewSynthesizer(gw, catalog),
		tools:    runner,
		catalog:  catalog,
		settings: settings,
		recorder: recorder,
	}
}

// Run answers the transcript. The caller's transcript is never modified.
func (o *Orchestrator) Run(ctx context.Context, transcript schema.Messages) Result {
	rec := RunRecord{RequestID: RequestIDFrom(ctx), Started: time.Now()}
	res := o.run(ctx, transcript, &rec)

	rec.Duration = time.Since(rec.Started)
	rec.Exit = res.Exit
	rec.Fallback = res.Fallback
	if res.Err != nil {
		rec.Error = res.Err.Error()
	}
	o.recorder.Record(ctx, rec)

	slog.Info("Run finished",
		"request_id", rec.RequestID,
		"exit", res.Exit,
		"rounds", res.Rounds,
		"fallback", res.Fallback,
		"duration", rec.Duration,
		"length", len(res.Content),
	)
	return res
}

func (o *Orchestrator) run(ctx context.Context, original schema.Messages, rec *RunRecord) Result {
	budget := ctx
	if o.settings.Timeout > 0 {
		var cancel context.CancelFunc
		budget, cancel = context.WithTimeout(ctx, o.settings.Timeout)
		defer cancel()
	}
	// Work already started in a round runs to completion.
	inflight := context.WithoutCancel(ctx)

	conversation := original.Clone()
	defs := o.tools.Definitions()
	var (
		state roundState
		last  []tools.Result
	)

	for round := 0; ; round++ {
		if err := budget.Err(); err != nil {
			if round == 0 {
				return o.infrastructure(fmt.Errorf("%w: %w", ErrBudgetExceeded, err), 0)
			}
			slog.Warn("Run budget exhausted", "round", round, "err", err)
			return Result{Content: o.synth.Dump(last), Exit: ExitTimeout, Rounds: round, Fallback: true, Final: last}
		}

		resp, err := o.gateway.Generate(inflight, conversation, defs)
		if err != nil {
			slog.Error("LLM error", "round", round, "err", err)
			return o.infrastructure(err, round+1)
		}

		if !resp.HasToolCalls() {
			return Result{Content: o.synth.Direct(resp.Content), Exit: ExitDirect, Rounds: round + 1, Final: last}
		}

		slog.Info("Tools requested", "round", round, "calls", llmutils.ToolHint(resp.ToolCalls))
		results := o.tools.ExecuteAll(inflight, resp.ToolCalls)

		conversation.AddAssistant(resp.Content, resp.ToolCalls)
		for _, r := range results {
			conversation.AddToolResult(r.CallID, r.Tool, r.Content())
		}
		last = results

		outcome := classify(o.tools, resp.ToolCalls, results)
		state.observe(outcome)
		wants := state.wantsAnotherRound(outcome)
		cont := wants && round+1 < o.settings.MaxRounds

		rr := RoundRecord{Round: round, Calls: callRecords(results), Continue: cont}
		slog.Info("Round complete",
			"round", round,
			"tools", len(results),
			"failures", outcome.hasFailures,
			"created", outcome.successfulCreation,
			"already_exists", outcome.discoveredAlreadyExists,
			"discovery", outcome.usingDiscovery,
			"unresolved", state.unresolved,
			"continue", cont,
		)

		if !cont {
			rec.Rounds = append(rec.Rounds, rr)
			exit := ExitConverged
			if wants {
				exit = ExitExhausted
			}
			content, fellBack := o.synth.Narrate(inflight, original, results)
			return Result{Content: content, Exit: exit, Rounds: round + 1, Fallback: fellBack, Final: results}
		}

		g := outcome.guidance()
		rr.Guidance = string(g)
		rec.Rounds = append(rec.Rounds, rr)
		conversation.AddUser(g.text(o.catalog))
	}
}

func (o *Orchestrator) infrastructure(err error, rounds int) Result {
	if !errors.Is(err, ErrInfrastructure) {
		err = &InfrastructureError{Err: err}
	}
	return Result{
		Content: fmt.Sprintf("LLM Error: %s.", err.Error()),
		Exit:    ExitInfrastructure,
		Rounds:  rounds,
		Err:     err,
	}
}

func callRecords(results []tools.Result) []CallRecord {
	out := make([]CallRecord, len(results))
	for i, r := range results {
		out[i] = CallRecord{Tool: r.Tool, OK: r.OK(), Kind: string(r.Kind())}
	}
	return out
}
