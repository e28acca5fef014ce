// Package cache keeps license snapshots in Redis for the read path.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"licensehub/internal/license/models"
	id "licensehub/pkg/domain"
	"licensehub/pkg/platform/circuit"
	"licensehub/pkg/platform/sentinel"
)

const keyPrefix = "license:view:"

// Cache results reported to the recorder.
const (
	ResultHit      = "hit"
	ResultMiss     = "miss"
	ResultError    = "error"
	ResultBypassed = "bypassed"
)

// Recorder counts cache lookups.
type Recorder interface {
	IncCache(result string)
}

// ViewCache stores license snapshots with a TTL. While the breaker is open
// reads are bypassed; writes keep probing Redis so the breaker can close.
type ViewCache struct {
	client   *redis.Client
	ttl      time.Duration
	breaker  *circuit.Breaker
	logger   *slog.Logger
	recorder Recorder
}

type Option func(*ViewCache)

func WithLogger(logger *slog.Logger) Option {
	return func(c *ViewCache) {
		c.logger = logger
	}
}

func WithRecorder(r Recorder) Option {
	return func(c *ViewCache) {
		c.recorder = r
	}
}

func WithBreaker(b *circuit.Breaker) Option {
	return func(c *ViewCache) {
		c.breaker = b
	}
}

func New(client *redis.Client, ttl time.Duration, opts ...Option) *ViewCache {
	c := &ViewCache{
		client:  client,
		ttl:     ttl,
		breaker: circuit.New("license-view-cache"),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func key(licenseID id.LicenseID) string {
	return keyPrefix + licenseID.String()
}

// Get returns the cached snapshot. A miss returns sentinel.ErrNotFound and an
// unreachable or bypassed cache returns sentinel.ErrUnavailable.
func (c *ViewCache) Get(ctx context.Context, licenseID id.LicenseID) (*models.Snapshot, error) {
	if c.breaker.IsOpen() {
		c.record(ResultBypassed)
		return nil, sentinel.ErrUnavailable
	}
	data, err := c.client.Get(ctx, key(licenseID)).Bytes()
	if errors.Is(err, redis.Nil) {
		c.success()
		c.record(ResultMiss)
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		c.failure(ctx, "get", err)
		c.record(ResultError)
		return nil, fmt.Errorf("%w: %w", sentinel.ErrUnavailable, err)
	}
	c.success()

	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		c.record(ResultError)
		return nil, fmt.Errorf("decode cached license %d: %w", licenseID, err)
	}
	c.record(ResultHit)
	return &snap, nil
}

func (c *ViewCache) Set(ctx context.Context, snap models.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode license snapshot: %w", err)
	}
	if err := c.client.Set(ctx, key(snap.License.ID), data, c.ttl).Err(); err != nil {
		c.failure(ctx, "set", err)
		return fmt.Errorf("%w: %w", sentinel.ErrUnavailable, err)
	}
	c.success()
	return nil
}

func (c *ViewCache) Invalidate(ctx context.Context, licenseID id.LicenseID) error {
	if err := c.client.Del(ctx, key(licenseID)).Err(); err != nil {
		c.failure(ctx, "invalidate", err)
		return fmt.Errorf("%w: %w", sentinel.ErrUnavailable, err)
	}
	c.success()
	return nil
}

func (c *ViewCache) success() {
	if _, change := c.breaker.RecordSuccess(); change.Closed {
		c.logger.Info("license view cache recovered", "breaker", c.breaker.Name())
	}
}

func (c *ViewCache) failure(ctx context.Context, op string, err error) {
	_, change := c.breaker.RecordFailure()
	if change.Opened {
		c.logger.WarnContext(ctx, "license view cache disabled after repeated failures",
			"breaker", c.breaker.Name(),
			"op", op,
			"error", err,
		)
	}
}

func (c *ViewCache) record(result string) {
	if c.recorder != nil {
		c.recorder.IncCache(result)
	}
}
