package agent

import (
	"context"
	"time"
)

type requestIDKey struct{}

// WithRequestID attaches a request id to ctx for logging and run records.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFrom returns the request id carried by ctx, or "".
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// Recorder receives one record per finished run.
type Recorder interface {
	Record(ctx context.Context, rec RunRecord)
}

// RunRecord summarises one orchestration run.
type RunRecord struct {
	RequestID string        `json:"request_id,omitempty"`
	Started   time.Time     `json:"started"`
	Duration  time.Duration `json:"duration_ns"`
	Exit      Exit          `json:"exit"`
	Fallback  bool          `json:"fallback,omitempty"`
	Error     string        `json:"error,omitempty"`
	Rounds    []RoundRecord `json:"rounds"`
}

// RoundRecord summarises one round of a run.
type RoundRecord struct {
	Round    int          `json:"round"`
	Calls    []CallRecord `json:"calls"`
	Continue bool         `json:"continue"`
	Guidance string       `json:"guidance,omitempty"`
}

// CallRecord is the outcome of one tool call.
type CallRecord struct {
	Tool string `json:"tool"`
	OK   bool   `json:"ok"`
	Kind string `json:"kind,omitempty"`
}

// NopRecorder discards every record.
type NopRecorder struct{}

func (NopRecorder) Record(context.Context, RunRecord) {}
