// Package worker runs the audit outbox relay.
package worker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	audit "licensehub/pkg/platform/audit"
)

const (
	defaultBatchSize = 100
	defaultInterval  = time.Second
)

// Worker periodically moves unpublished outbox entries to the sink. A failed
// batch stays in the outbox and is retried on the next tick.
type Worker struct {
	outbox    audit.Outbox
	sink      audit.Sink
	logger    *slog.Logger
	batchSize int
	interval  time.Duration
}

type Option func(*Worker)

func WithBatchSize(n int) Option {
	return func(w *Worker) {
		if n > 0 {
			w.batchSize = n
		}
	}
}

func WithInterval(d time.Duration) Option {
	return func(w *Worker) {
		if d > 0 {
			w.interval = d
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(w *Worker) {
		w.logger = logger
	}
}

func NewWorker(outbox audit.Outbox, sink audit.Sink, opts ...Option) *Worker {
	w := &Worker{
		outbox:    outbox,
		sink:      sink,
		logger:    slog.Default(),
		batchSize: defaultBatchSize,
		interval:  defaultInterval,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run relays until ctx is done. It drains full batches back to back and waits
// for the next tick once the outbox is empty.
func (w *Worker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		n, err := w.RelayOnce(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			w.logger.ErrorContext(ctx, "audit outbox relay failed", "error", err)
		}
		if err == nil && n == w.batchSize {
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// RelayOnce relays a single batch.
func (w *Worker) RelayOnce(ctx context.Context) (int, error) {
	n, err := w.outbox.RelayBatch(ctx, w.batchSize, w.sink)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		w.logger.DebugContext(ctx, "audit outbox relayed", "count", n)
	}
	return n, nil
}
