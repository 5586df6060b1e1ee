package trace

import (
	"context"
	"log/slog"

	"github.com/lorekeeper/lorekeeper/internal/agent"
)

// Recorder writes one line per finished run into runs-*.jsonl.zst.
type Recorder struct{ w *JSONLZstdWriter }

var _ agent.Recorder = (*Recorder)(nil)

func NewRecorder(dir string) *Recorder {
	return &Recorder{w: NewJSONLZstdWriter(dir, "runs")}
}

// Record never fails the run; write errors are logged and dropped.
func (r *Recorder) Record(_ context.Context, rec agent.RunRecord) {
	if err := r.w.Write(rec); err != nil {
		slog.Warn("Trace write failed", "request_id", rec.RequestID, "err", err)
	}
}

func (r *Recorder) Close() error { return r.w.Close() }
