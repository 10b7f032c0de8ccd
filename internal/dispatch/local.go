package dispatch

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"troskovi/internal/logger"
)

type job struct {
	ctx      context.Context
	personID uint
	month    string
}

// Local runs snapshots on an in-process worker pool. Requests for the same
// (person, month) always land on the same worker, so they run in the order
// they were triggered.
type Local struct {
	fn      SnapshotFunc
	timeout time.Duration
	queues  []chan job
	group   *errgroup.Group
	log     *zap.SugaredLogger

	mu     sync.RWMutex
	closed bool
}

// NewLocal starts workers goroutines, each with a queue of queueSize
// requests. A zero timeout disables the per-snapshot deadline.
func NewLocal(fn SnapshotFunc, workers, queueSize int, timeout time.Duration) *Local {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 1
	}

	l := &Local{
		fn:      fn,
		timeout: timeout,
		queues:  make([]chan job, workers),
		group:   &errgroup.Group{},
		log:     logger.Named("dispatch"),
	}
	for i := range l.queues {
		queue := make(chan job, queueSize)
		l.queues[i] = queue
		l.group.Go(func() error {
			for j := range queue {
				l.run(j)
			}
			return nil
		})
	}
	return l
}

// Trigger enqueues a request. When the worker's queue is full the request
// is dropped with a warning; the next mutation of the month requests again.
func (l *Local) Trigger(ctx context.Context, personID uint, month string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.closed {
		l.log.Warnw("Snapshot requested after shutdown", "person_id", personID, "month", month)
		return
	}

	j := job{ctx: context.WithoutCancel(ctx), personID: personID, month: month}
	select {
	case l.queues[l.shard(personID, month)] <- j:
	default:
		l.log.Warnw("Snapshot queue full, dropping request", "person_id", personID, "month", month)
	}
}

// Close stops accepting requests and drains the queues.
func (l *Local) Close(ctx context.Context) error {
	l.mu.Lock()
	if !l.closed {
		l.closed = true
		for _, q := range l.queues {
			close(q)
		}
	}
	l.mu.Unlock()

	done := make(chan error, 1)
	go func() { done <- l.group.Wait() }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("drain snapshot queues: %w", ctx.Err())
	}
}

func (l *Local) shard(personID uint, month string) int {
	h := fnv.New32a()
	fmt.Fprintf(h, "%d/%s", personID, month)
	return int(h.Sum32() % uint32(len(l.queues)))
}

func (l *Local) run(j job) {
	ctx := j.ctx
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			l.log.Errorw("Snapshot panicked", "person_id", j.personID, "month", j.month, "panic", r)
		}
	}()

	start := time.Now()
	if err := l.fn(ctx, j.personID, j.month); err != nil {
		l.log.Errorw("Snapshot failed", "person_id", j.personID, "month", j.month, "error", err)
		return
	}
	l.log.Debugw("Snapshot written", "person_id", j.personID, "month", j.month, "latency", time.Since(start))
}
