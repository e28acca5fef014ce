package compliance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audit "licensehub/pkg/platform/audit"
	"licensehub/pkg/platform/audit/store/memory"
)

type failingStore struct{}

func (failingStore) Append(context.Context, audit.Event) error {
	return errors.New("disk full")
}

func TestEmitPersistsPreparedEvent(t *testing.T) {
	store := memory.NewInMemoryStore()
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	m := NewMetrics(prometheus.NewRegistry())
	pub := New(store, WithClock(func() time.Time { return now }), WithMetrics(m))

	err := pub.Emit(context.Background(), audit.Event{
		Action:    audit.EventSeatDeactivated,
		LicenseID: 3,
		UserID:    "u-1",
	})
	require.NoError(t, err)

	events, err := store.ListByLicense(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, audit.CategoryCompliance, events[0].Category)
	assert.Equal(t, now, events[0].Timestamp)
	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", events[0].ID.String())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.eventsEmitted.WithLabelValues("compliance")))
}

func TestEmitFailsClosed(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	pub := New(failingStore{}, WithMetrics(m))

	err := pub.Emit(context.Background(), audit.Event{Action: audit.EventLicenseUpdated, LicenseID: 1})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.persistFailures))
}

func TestEmitRequiresAction(t *testing.T) {
	pub := New(memory.NewInMemoryStore())
	assert.ErrorIs(t, pub.Emit(context.Background(), audit.Event{}), ErrMissingAction)
}
