package db

import (
	"context"

	"github.com/tao-colosseum/colosseum-validator/internal/db/model"
)

//go:generate mockery --name=DbInterface --output=../../tests/mocks --outpkg=mocks --filename=mock_db_client.go
type DbInterface interface {
	Ping(ctx context.Context) error

	// Snapshot store: append-only, no update or delete paths.
	SaveSnapshot(ctx context.Context, snapshot *model.SnapshotDocument) error
	LatestSnapshot(ctx context.Context) (*model.SnapshotDocument, error)
	GetSnapshotByBlock(ctx context.Context, block uint64) (*model.SnapshotDocument, error)
	ListSnapshots(ctx context.Context, limit int64) ([]model.SnapshotSummary, error)

	// Wallet mappings: written only through the verifier.
	GetWalletMappingByAddress(ctx context.Context, address string) (*model.WalletMappingDocument, error)
	GetWalletMappingByUID(ctx context.Context, uid uint64) (*model.WalletMappingDocument, error)
	UpsertWalletMapping(ctx context.Context, mapping *model.WalletMappingDocument) error
	GetAllWalletMappings(ctx context.Context) ([]model.WalletMappingDocument, error)

	// Identity materialized state, refreshed each ingestion tick.
	UpsertIdentity(ctx context.Context, doc *model.IdentityDocument) error
	GetIdentity(ctx context.Context, uid uint64) (*model.IdentityDocument, error)
	GetAllIdentities(ctx context.Context) ([]model.IdentityDocument, error)
	MarkIdentitiesInactive(ctx context.Context, activeUIDs []uint64) error
}
