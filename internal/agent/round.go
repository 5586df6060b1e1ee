package agent

import (
	"github.com/lorekeeper/lorekeeper/internal/prompts"
	"github.com/lorekeeper/lorekeeper/internal/schema"
	"github.com/lorekeeper/lorekeeper/internal/tools"
)

// roundOutcome classifies one executed batch of tool calls.
type roundOutcome struct {
	successfulCreation      bool
	discoveredAlreadyExists bool
	hasFailures             bool
	usingDiscovery          bool
}

// roundState is carried across rounds of one run.
type roundState struct {
	unresolved bool
}

// guidance names which corrective message follows a round.
type guidance string

const (
	guidanceCreated       guidance = "created"
	guidanceAlreadyExists guidance = "already_exists"
	guidanceWorkflow      guidance = "workflow"
)

type descriptorLookup interface {
	Lookup(name string) (tools.Descriptor, bool)
}

func classify(lookup descriptorLookup, calls []schema.ToolCall, results []tools.Result) roundOutcome {
	var o roundOutcome
	for _, c := range calls {
		if d, ok := lookup.Lookup(c.Name); ok && d.Kind == tools.KindDiscovery {
			o.usingDiscovery = true
		}
	}
	for _, r := range results {
		if !r.OK() {
			o.hasFailures = true
			if r.Kind() == tools.KindAlreadyExists {
				o.discoveredAlreadyExists = true
			}
			continue
		}
		if d, ok := lookup.Lookup(r.Tool); ok && d.Kind == tools.KindCreation {
			o.successfulCreation = true
		}
	}
	return o
}

// observe folds a round into the carried flag. Failures set it; forward
// progress clears it, and clearing wins when both happen in one round.
func (s *roundState) observe(o roundOutcome) {
	if o.hasFailures {
		s.unresolved = true
	}
	if o.successfulCreation || o.discoveredAlreadyExists {
		s.unresolved = false
	}
}

// wantsAnotherRound reports whether the round gives a reason to go again,
// ignoring the budget.
func (s *roundState) wantsAnotherRound(o roundOutcome) bool {
	return o.hasFailures || s.unresolved || o.usingDiscovery || o.successfulCreation
}

func (o roundOutcome) guidance() guidance {
	switch {
	case o.successfulCreation:
		return guidanceCreated
	case o.discoveredAlreadyExists:
		return guidanceAlreadyExists
	default:
		return guidanceWorkflow
	}
}

func (g guidance) text(c *prompts.Catalog) string {
	switch g {
	case guidanceCreated:
		return c.RoundGuidance.Created
	case guidanceAlreadyExists:
		return c.RoundGuidance.AlreadyExists
	default:
		return c.RoundGuidance.Workflow
	}
}
