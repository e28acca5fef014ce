package service

import (
	"context"
	"sync"
	"time"

	id "licensehub/pkg/domain"
	dErrors "licensehub/pkg/domain-errors"
)

// numLicenseShards spreads licenses over independent locks so unrelated
// licenses do not contend.
const numLicenseShards = 128

// defaultLicenseTxTimeout bounds a unit of work without its own deadline.
const defaultLicenseTxTimeout = 5 * time.Second

// ShardedTx serializes units of work per license in process. It pairs with
// the in-memory stores.
type ShardedTx struct {
	shards  [numLicenseShards]sync.Mutex
	timeout time.Duration
}

// NewShardedTx returns a ShardedTx; a zero timeout uses the default.
func NewShardedTx(timeout time.Duration) *ShardedTx {
	return &ShardedTx{timeout: timeout}
}

func (t *ShardedTx) RunInTx(ctx context.Context, licenseID id.LicenseID, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultLicenseTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	shard := shardFor(licenseID)
	t.shards[shard].Lock()
	defer t.shards[shard].Unlock()

	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	return fn(ctx)
}

// shardFor hashes the license id with FNV-1a.
func shardFor(licenseID id.LicenseID) int {
	const (
		fnvOffset = 2166136261
		fnvPrime  = 16777619
	)
	h := uint32(fnvOffset)
	v := uint64(licenseID)
	for i := 0; i < 8; i++ {
		h ^= uint32(v & 0xff)
		h *= fnvPrime
		v >>= 8
	}
	return int(h % numLicenseShards)
}
