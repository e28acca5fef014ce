package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// OutboxEntry is one audit event waiting to be relayed to the event stream.
type OutboxEntry struct {
	ID            uuid.UUID
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
	CreatedAt     time.Time
}

// Sink receives relayed outbox entries.
type Sink interface {
	Publish(ctx context.Context, entries []OutboxEntry) error
}

// Outbox is the relay side of an outbox-backed store.
type Outbox interface {
	// RelayBatch hands up to limit unpublished entries to sink and marks them
	// published only when sink succeeds. It returns the number relayed.
	RelayBatch(ctx context.Context, limit int, sink Sink) (int, error)
}

// LogSink writes relayed entries to a logger. It stands in for the event
// stream when no brokers are configured so the outbox still drains.
type LogSink struct {
	Logger *slog.Logger
}

func (s LogSink) Publish(ctx context.Context, entries []OutboxEntry) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	for _, e := range entries {
		logger.InfoContext(ctx, "audit event relayed",
			"event_id", e.ID.String(),
			"event_type", e.EventType,
			"aggregate", e.AggregateType+"-"+e.AggregateID,
		)
	}
	return nil
}
