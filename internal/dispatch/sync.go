package dispatch

import (
	"context"

	"troskovi/internal/logger"
)

// Sync writes the snapshot before Trigger returns. Used by tests and
// one-shot tools where nothing outlives the call.
type Sync struct {
	fn SnapshotFunc
}

// NewSync creates a Sync dispatcher.
func NewSync(fn SnapshotFunc) *Sync {
	return &Sync{fn: fn}
}

// Trigger runs the snapshot inline and logs a failure.
func (s *Sync) Trigger(ctx context.Context, personID uint, month string) {
	if err := s.fn(context.WithoutCancel(ctx), personID, month); err != nil {
		logger.Named("dispatch").Errorw("Snapshot failed", "person_id", personID, "month", month, "error", err)
	}
}

// Close is a no-op.
func (s *Sync) Close(context.Context) error { return nil }
