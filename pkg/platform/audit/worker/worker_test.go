package worker

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audit "licensehub/pkg/platform/audit"
)

type fakeOutbox struct {
	mu      sync.Mutex
	pending []audit.OutboxEntry
}

func (o *fakeOutbox) RelayBatch(ctx context.Context, limit int, sink audit.Sink) (int, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	n := min(limit, len(o.pending))
	if n == 0 {
		return 0, nil
	}
	if err := sink.Publish(ctx, o.pending[:n]); err != nil {
		return 0, err
	}
	o.pending = o.pending[n:]
	return n, nil
}

func (o *fakeOutbox) remaining() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.pending)
}

type recordingSink struct {
	mu        sync.Mutex
	published []audit.OutboxEntry
	failNext  bool
}

func (s *recordingSink) Publish(_ context.Context, entries []audit.OutboxEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failNext {
		s.failNext = false
		return errors.New("broker unavailable")
	}
	s.published = append(s.published, entries...)
	return nil
}

func entries(n int) []audit.OutboxEntry {
	out := make([]audit.OutboxEntry, n)
	for i := range out {
		out[i] = audit.OutboxEntry{ID: uuid.New(), EventType: string(audit.EventSeatDeactivated)}
	}
	return out
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRelayOnceKeepsFailedBatch(t *testing.T) {
	outbox := &fakeOutbox{pending: entries(3)}
	sink := &recordingSink{failNext: true}
	w := NewWorker(outbox, sink, WithBatchSize(2), WithLogger(quietLogger()))

	_, err := w.RelayOnce(context.Background())
	require.Error(t, err)
	assert.Equal(t, 3, outbox.remaining())

	n, err := w.RelayOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 1, outbox.remaining())
}

func TestRunDrainsUntilCancelled(t *testing.T) {
	outbox := &fakeOutbox{pending: entries(5)}
	sink := &recordingSink{}
	w := NewWorker(outbox, sink, WithBatchSize(2), WithInterval(5*time.Millisecond), WithLogger(quietLogger()))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.Eventually(t, func() bool { return outbox.remaining() == 0 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
	sink.mu.Lock()
	defer sink.mu.Unlock()
	assert.Len(t, sink.published, 5)
}

func TestLogSinkDrainsOutbox(t *testing.T) {
	var buf bytes.Buffer
	outbox := &fakeOutbox{pending: entries(2)}
	w := NewWorker(outbox, audit.LogSink{Logger: slog.New(slog.NewTextHandler(&buf, nil))}, WithLogger(quietLogger()))

	n, err := w.RelayOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Zero(t, outbox.remaining())
	assert.Equal(t, 2, strings.Count(buf.String(), "audit event relayed"))
}
