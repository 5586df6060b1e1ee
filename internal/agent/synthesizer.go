package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lorekeeper/lorekeeper/internal/prompts"
	"github.com/lorekeeper/lorekeeper/internal/schema"
	"github.com/lorekeeper/lorekeeper/internal/shared/llmutils"
	"github.com/lorekeeper/lorekeeper/internal/tools"
)

// Synthesizer turns the end state of a run into the text returned to the caller.
type Synthesizer struct {
	gateway *ModelGateway
	catalog *prompts.Catalog
}

func NewSynthesizer(gateway *ModelGateway, catalog *prompts.Catalog) *Synthesizer {
	return &Synthesizer{gateway: gateway, catalog: catalog}
}

// Direct returns the model's own answer, or the apology when it is blank.
func (s *Synthesizer) Direct(text string) string {
	return llmutils.StringOrDefault(llmutils.CleanText(text), s.catalog.Apology)
}

// Narrate makes one plain narration call grounded in the final round's
// results. It falls back to Dump when the call fails or returns nothing;
// the second return value reports that fallback.
func (s *Synthesizer) Narrate(ctx context.Context, original schema.Messages, results []tools.Result) (string, bool) {
	text, err := s.gateway.Narrate(ctx, s.transcript(original, results))
	if err != nil {
		slog.Warn("Synthesis call failed, using tool dump", "err", err)
		return s.Dump(results), true
	}
	if text = llmutils.CleanText(text); text == "" {
		slog.Warn("Synthesis returned empty text, using tool dump")
		return s.Dump(results), true
	}
	return text, false
}

// transcript builds the narration context: the caller's own system messages,
// the synthesis instruction, and one user message carrying the original query
// and the final results.
func (s *Synthesizer) transcript(original schema.Messages, results []tools.Result) schema.Messages {
	out := schema.NewMessages()
	guidance := strings.TrimSpace(s.catalog.ToolGuidance)
	for _, m := range original.Systems() {
		if strings.TrimSpace(m.Content) == guidance {
			continue
		}
		out.Add(m)
	}
	out.AddSystem(s.catalog.Synthesis)

	query, _ := original.LastUser()
	out.AddUser(fmt.Sprintf("Player request:\n%s\n\nTool results:\n%s", query, outcomesJSON(results, "")))
	return out
}

// Dump is the deterministic fallback. It is never empty.
func (s *Synthesizer) Dump(results []tools.Result) string {
	prefix := llmutils.StringOrDefault(s.catalog.FallbackPrefix, "Tool results were gathered but could not be narrated.")
	return prefix + " Tool results: " + outcomesJSON(results, "  ")
}

func outcomesJSON(results []tools.Result, indent string) string {
	outcomes := tools.Outcomes(results)
	var (
		data []byte
		err  error
	)
	if indent == "" {
		data, err = json.Marshal(outcomes)
	} else {
		data, err = json.MarshalIndent(outcomes, "", indent)
	}
	if err != nil {
		return fmt.Sprintf("%v", outcomes)
	}
	return string(data)
}
