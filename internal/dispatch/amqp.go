package dispatch

import (
	"context"

	"troskovi/internal/logger"
)

// Publisher sends a snapshot request to a broker.
type Publisher interface {
	PublishSnapshot(ctx context.Context, personID uint, month string) error
	Close() error
}

// AMQP hands requests to a broker so a separate worker writes the snapshots.
type AMQP struct {
	pub Publisher
}

// NewAMQP creates an AMQP dispatcher.
func NewAMQP(pub Publisher) *AMQP {
	return &AMQP{pub: pub}
}

// Trigger publishes the request. A publish failure is logged only.
func (a *AMQP) Trigger(ctx context.Context, personID uint, month string) {
	if err := a.pub.PublishSnapshot(context.WithoutCancel(ctx), personID, month); err != nil {
		logger.Named("dispatch").Errorw("Failed to publish snapshot request", "person_id", personID, "month", month, "error", err)
	}
}

// Close closes the publisher.
func (a *AMQP) Close(context.Context) error {
	return a.pub.Close()
}
