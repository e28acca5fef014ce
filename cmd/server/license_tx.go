package main

import (
	"context"

	"licensehub/internal/platform/postgres"
	id "licensehub/pkg/domain"
)

// licensePostgresTx adapts the shared runner to the license service. Row
// locks (FOR UPDATE) take the place of the in-process per-license shard.
type licensePostgresTx struct {
	runner *postgres.TxRunner
}

func newLicensePostgresTx(runner *postgres.TxRunner) *licensePostgresTx {
	return &licensePostgresTx{runner: runner}
}

func (t *licensePostgresTx) RunInTx(ctx context.Context, _ id.LicenseID, fn func(ctx context.Context) error) error {
	return t.runner.RunInTx(ctx, fn)
}
