package schema

import "time"

// AgentSettings are the per-run knobs of the orchestrator.
type AgentSettings struct {
	Model       string
	MaxRounds   int
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

func NewAgentSettings(model string, maxRounds int, temperature float64, maxTokens int, timeout time.Duration) AgentSettings {
	return AgentSettings{
		Model:       model,
		MaxRounds:   maxRounds,
		Temperature: temperature,
		MaxTokens:   maxTokens,
		Timeout:     timeout,
	}
}
