package db

import (
	"context"
	"time"

	"github.com/tao-colosseum/colosseum-validator/internal/db/model"
	"github.com/tao-colosseum/colosseum-validator/internal/observability/metrics"
)

type DbWithMetrics struct {
	db DbInterface
}

func NewDbWithMetrics(db DbInterface) *DbWithMetrics {
	return &DbWithMetrics{db: db}
}

func (d *DbWithMetrics) Ping(ctx context.Context) error {
	return d.db.Ping(ctx)
}

func (d *DbWithMetrics) SaveSnapshot(ctx context.Context, snapshot *model.SnapshotDocument) error {
	return d.run("SaveSnapshot", func() error {
		return d.db.SaveSnapshot(ctx, snapshot)
	})
}

func (d *DbWithMetrics) LatestSnapshot(ctx context.Context) (result *model.SnapshotDocument, err error) {
	//nolint:errcheck
	d.run("LatestSnapshot", func() error {
		result, err = d.db.LatestSnapshot(ctx)
		return err
	})
	return
}

func (d *DbWithMetrics) GetSnapshotByBlock(ctx context.Context, block uint64) (result *model.SnapshotDocument, err error) {
	//nolint:errcheck
	d.run("GetSnapshotByBlock", func() error {
		result, err = d.db.GetSnapshotByBlock(ctx, block)
		return err
	})
	return
}

func (d *DbWithMetrics) ListSnapshots(ctx context.Context, limit int64) (result []model.SnapshotSummary, err error) {
	//nolint:errcheck
	d.run("ListSnapshots", func() error {
		result, err = d.db.ListSnapshots(ctx, limit)
		return err
	})
	return
}

func (d *DbWithMetrics) GetWalletMappingByAddress(ctx context.Context, address string) (result *model.WalletMappingDocument, err error) {
	//nolint:errcheck
	d.run("GetWalletMappingByAddress", func() error {
		result, err = d.db.GetWalletMappingByAddress(ctx, address)
		return err
	})
	return
}

func (d *DbWithMetrics) GetWalletMappingByUID(ctx context.Context, uid uint64) (result *model.WalletMappingDocument, err error) {
	//nolint:errcheck
	d.run("GetWalletMappingByUID", func() error {
		result, err = d.db.GetWalletMappingByUID(ctx, uid)
		return err
	})
	return
}

func (d *DbWithMetrics) UpsertWalletMapping(ctx context.Context, mapping *model.WalletMappingDocument) error {
	return d.run("UpsertWalletMapping", func() error {
		return d.db.UpsertWalletMapping(ctx, mapping)
	})
}

func (d *DbWithMetrics) GetAllWalletMappings(ctx context.Context) (result []model.WalletMappingDocument, err error) {
	//nolint:errcheck
	d.run("GetAllWalletMappings", func() error {
		result, err = d.db.GetAllWalletMappings(ctx)
		return err
	})
	return
}

func (d *DbWithMetrics) UpsertIdentity(ctx context.Context, doc *model.IdentityDocument) error {
	return d.run("UpsertIdentity", func() error {
		return d.db.UpsertIdentity(ctx, doc)
	})
}

func (d *DbWithMetrics) GetIdentity(ctx context.Context, uid uint64) (result *model.IdentityDocument, err error) {
	//nolint:errcheck
	d.run("GetIdentity", func() error {
		result, err = d.db.GetIdentity(ctx, uid)
		return err
	})
	return
}

func (d *DbWithMetrics) GetAllIdentities(ctx context.Context) (result []model.IdentityDocument, err error) {
	//nolint:errcheck
	d.run("GetAllIdentities", func() error {
		result, err = d.db.GetAllIdentities(ctx)
		return err
	})
	return
}

func (d *DbWithMetrics) MarkIdentitiesInactive(ctx context.Context, activeUIDs []uint64) error {
	return d.run("MarkIdentitiesInactive", func() error {
		return d.db.MarkIdentitiesInactive(ctx, activeUIDs)
	})
}

// run is private method that executes passed lambda function and send metrics data with spent time, method name
// and an error if any. It returns the error from the lambda function for convenience
func (d *DbWithMetrics) run(method string, f func() error) error {
	startTime := time.Now()
	err := f()
	duration := time.Since(startTime)

	metrics.RecordDbLatency(duration, method, err != nil)
	return err
}
