package services

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tao-colosseum/colosseum-validator/internal/clients/ledgerclient"
	"github.com/tao-colosseum/colosseum-validator/internal/db"
	"github.com/tao-colosseum/colosseum-validator/internal/db/model"
	"github.com/tao-colosseum/colosseum-validator/internal/types"
	"github.com/tao-colosseum/colosseum-validator/tests/mocks"
)

// seedCache puts a single identity with 42 units of volume into the
// service's cache so there is something to publish.
func seedCache(t *testing.T, srv *Service) {
	t.Helper()
	fetch := func(context.Context, uint64, uint64) (sdkmath.Int, error) {
		return sdkmath.NewIntWithDecimal(42, 18), nil
	}
	_, err := srv.cache.Refresh(context.Background(), time.Now(), 1, []uint64{1}, fetch)
	require.NoError(t, err)
}

func TestPublishScores(t *testing.T) {
	ctx := context.Background()

	t.Run("submits weights and appends a snapshot", func(t *testing.T) {
		mockDB := mocks.NewDbInterface(t)
		mockLedger := mocks.NewLedgerInterface(t)

		mockLedger.On("CurrentBlock", mock.Anything).Return(uint64(1000), nil)
		mockLedger.On("SubmitWeights", mock.Anything, []ledgerclient.Weight{{UID: 1, Weight: 1.0}}).
			Return(nil)

		var saved *model.SnapshotDocument
		mockDB.On("SaveSnapshot", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				saved = args.Get(1).(*model.SnapshotDocument)
			}).
			Return(nil)

		srv := NewService(testConfig(), mockDB, nil, mockLedger, nil)
		seedCache(t, srv)

		require.NoError(t, srv.publishScores(ctx))

		require.NotNil(t, saved)
		assert.Equal(t, uint64(1000), saved.Block)
		assert.Equal(t, 1, saved.ActiveIdentities)
		assert.InDelta(t, 42.0, saved.TotalWeightedVolume, 1e-9)
		require.Len(t, saved.Entries, 1)
		assert.InDelta(t, 1.0, saved.Entries[0].Score, 1e-9)

		health := srv.health.snapshot()
		assert.Equal(t, uint64(1000), health.LastPublishedBlock)
		assert.False(t, health.SnapshotGap)
	})

	t.Run("skips while the commit interval has not elapsed", func(t *testing.T) {
		mockLedger := mocks.NewLedgerInterface(t)
		mockLedger.On("CurrentBlock", mock.Anything).Return(uint64(1100), nil)

		srv := NewService(testConfig(), mocks.NewDbInterface(t), nil, mockLedger, nil)
		seedCache(t, srv)
		srv.health.seedLastPublishedBlock(1000)

		require.NoError(t, srv.publishScores(ctx))
		mockLedger.AssertNotCalled(t, "SubmitWeights", mock.Anything, mock.Anything)
		assert.Equal(t, uint64(1000), srv.health.lastPublished())
	})

	t.Run("publishes again exactly at the interval boundary", func(t *testing.T) {
		mockDB := mocks.NewDbInterface(t)
		mockLedger := mocks.NewLedgerInterface(t)

		mockLedger.On("CurrentBlock", mock.Anything).Return(uint64(1360), nil)
		mockLedger.On("SubmitWeights", mock.Anything, mock.Anything).Return(nil)
		mockDB.On("SaveSnapshot", mock.Anything, mock.Anything).Return(nil)

		srv := NewService(testConfig(), mockDB, nil, mockLedger, nil)
		seedCache(t, srv)
		srv.health.seedLastPublishedBlock(1000)

		require.NoError(t, srv.publishScores(ctx))
		assert.Equal(t, uint64(1360), srv.health.lastPublished())
	})

	t.Run("ledger rate limit defers without a snapshot", func(t *testing.T) {
		mockLedger := mocks.NewLedgerInterface(t)
		mockLedger.On("CurrentBlock", mock.Anything).Return(uint64(1000), nil)
		mockLedger.On("SubmitWeights", mock.Anything, mock.Anything).Return(
			types.NewErrorWithMsg(http.StatusTooManyRequests, types.RateLimited, "too soon"),
		)

		mockDB := mocks.NewDbInterface(t)
		srv := NewService(testConfig(), mockDB, nil, mockLedger, nil)
		seedCache(t, srv)

		require.NoError(t, srv.publishScores(ctx))

		mockDB.AssertNotCalled(t, "SaveSnapshot", mock.Anything, mock.Anything)
		assert.Zero(t, srv.health.lastPublished())
		assert.Zero(t, srv.health.snapshot().ConsecutivePublishingErrors)
	})

	t.Run("submission failure counts against health", func(t *testing.T) {
		mockLedger := mocks.NewLedgerInterface(t)
		mockLedger.On("CurrentBlock", mock.Anything).Return(uint64(1000), nil)
		mockLedger.On("SubmitWeights", mock.Anything, mock.Anything).
			Return(errors.New("ledger unavailable"))

		srv := NewService(testConfig(), mocks.NewDbInterface(t), nil, mockLedger, nil)
		seedCache(t, srv)

		require.Error(t, srv.publishScores(ctx))
		assert.Equal(t, uint64(1), srv.health.snapshot().ConsecutivePublishingErrors)
		assert.Zero(t, srv.health.lastPublished())
	})

	t.Run("snapshot append failure flags a gap but the publication stands", func(t *testing.T) {
		mockDB := mocks.NewDbInterface(t)
		mockLedger := mocks.NewLedgerInterface(t)

		mockLedger.On("CurrentBlock", mock.Anything).Return(uint64(1000), nil)
		mockLedger.On("SubmitWeights", mock.Anything, mock.Anything).Return(nil)
		mockDB.On("SaveSnapshot", mock.Anything, mock.Anything).Return(errors.New("disk full"))

		srv := NewService(testConfig(), mockDB, nil, mockLedger, nil)
		seedCache(t, srv)

		require.NoError(t, srv.publishScores(ctx))

		health := srv.health.snapshot()
		assert.True(t, health.SnapshotGap)
		assert.Equal(t, uint64(1000), health.LastPublishedBlock)
	})

	t.Run("duplicate snapshot append is not a gap", func(t *testing.T) {
		mockDB := mocks.NewDbInterface(t)
		mockLedger := mocks.NewLedgerInterface(t)

		mockLedger.On("CurrentBlock", mock.Anything).Return(uint64(1000), nil)
		mockLedger.On("SubmitWeights", mock.Anything, mock.Anything).Return(nil)
		mockDB.On("SaveSnapshot", mock.Anything, mock.Anything).
			Return(&db.DuplicateKeyError{Message: "duplicate"})

		srv := NewService(testConfig(), mockDB, nil, mockLedger, nil)
		seedCache(t, srv)

		require.NoError(t, srv.publishScores(ctx))
		assert.False(t, srv.health.snapshot().SnapshotGap)
	})

	t.Run("nothing to publish with an empty cache", func(t *testing.T) {
		mockLedger := mocks.NewLedgerInterface(t)
		mockLedger.On("CurrentBlock", mock.Anything).Return(uint64(1000), nil)

		srv := NewService(testConfig(), mocks.NewDbInterface(t), nil, mockLedger, nil)

		require.NoError(t, srv.publishScores(ctx))
		mockLedger.AssertNotCalled(t, "SubmitWeights", mock.Anything, mock.Anything)
	})
}

func TestSeedPublicationState(t *testing.T) {
	ctx := context.Background()

	t.Run("resumes from the latest snapshot", func(t *testing.T) {
		mockDB := mocks.NewDbInterface(t)
		mockDB.On("LatestSnapshot", mock.Anything).
			Return(&model.SnapshotDocument{Block: 720}, nil)

		srv := NewService(testConfig(), mockDB, nil, nil, nil)
		require.NoError(t, srv.seedPublicationState(ctx))
		assert.Equal(t, uint64(720), srv.health.lastPublished())
	})

	t.Run("empty store starts from zero", func(t *testing.T) {
		mockDB := mocks.NewDbInterface(t)
		mockDB.On("LatestSnapshot", mock.Anything).
			Return(nil, &db.NotFoundError{Message: "empty"})

		srv := NewService(testConfig(), mockDB, nil, nil, nil)
		require.NoError(t, srv.seedPublicationState(ctx))
		assert.Zero(t, srv.health.lastPublished())
	})
}
