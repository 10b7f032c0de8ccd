// Package dispatch runs history snapshots outside the request that asked for
// them. Every Dispatcher swallows failures: a snapshot that cannot be written
// is logged and never reaches the mutation that triggered it.
package dispatch

import (
	"context"
)

// SnapshotFunc writes the snapshot of one (person, month).
type SnapshotFunc func(ctx context.Context, personID uint, month string) error

// Dispatcher accepts snapshot requests.
type Dispatcher interface {
	// Trigger requests a snapshot and returns without waiting for it.
	Trigger(ctx context.Context, personID uint, month string)
	// Close stops accepting requests and waits for pending ones until ctx is done.
	Close(ctx context.Context) error
}
