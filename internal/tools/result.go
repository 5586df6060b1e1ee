package tools

import (
	"encoding/json"
	"fmt"
)

// Result is the outcome of one tool call: either Ok(Payload) or Err.
type Result struct {
	CallID  string
	Tool    string
	Payload any
	Err     *Failure
}

func Ok(callID, tool string, payload any) Result {
	return Result{CallID: callID, Tool: tool, Payload: payload}
}

func Err(callID, tool string, kind ErrorKind, message string) Result {
	return Result{CallID: callID, Tool: tool, Err: &Failure{Kind: kind, Message: message}}
}

func (r Result) OK() bool { return r.Err == nil }

// Kind returns the failure kind, or "" for a successful result.
func (r Result) Kind() ErrorKind {
	if r.Err == nil {
		return ""
	}
	return r.Err.Kind
}

// Content renders the result as the text of a tool-role message.
func (r Result) Content() string {
	if r.Err != nil {
		return "Error: " + r.Err.Message
	}
	data, err := json.Marshal(r.Payload)
	if err != nil {
		return fmt.Sprintf("%v", r.Payload)
	}
	return string(data)
}

// Outcome is the (tool, outcome) pair handed to synthesis.
type Outcome struct {
	Tool   string    `json:"tool"`
	OK     bool      `json:"ok"`
	Result any       `json:"result,omitempty"`
	Error  string    `json:"error,omitempty"`
	Kind   ErrorKind `json:"kind,omitempty"`
}

func (r Result) Outcome() Outcome {
	if r.Err != nil {
		return Outcome{Tool: r.Tool, Error: r.Err.Message, Kind: r.Err.Kind}
	}
	return Outcome{Tool: r.Tool, OK: true, Result: r.Payload}
}

// Outcomes maps results to their outcome pairs, preserving order.
func Outcomes(results []Result) []Outcome {
	out := make([]Outcome, len(results))
	for i, r := range results {
		out[i] = r.Outcome()
	}
	return out
}
