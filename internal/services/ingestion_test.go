package services

import (
	"context"
	"errors"
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tao-colosseum/colosseum-validator/internal/clients/contractclient"
	"github.com/tao-colosseum/colosseum-validator/internal/db/model"
	"github.com/tao-colosseum/colosseum-validator/tests/mocks"
)

func stake(red, blue int64) contractclient.StakeBySide {
	return contractclient.StakeBySide{
		Red:  sdkmath.NewIntWithDecimal(red, 18),
		Blue: sdkmath.NewIntWithDecimal(blue, 18),
	}
}

func testMappings() []model.WalletMappingDocument {
	return []model.WalletMappingDocument{
		{UID: 1, IdentityKey: "02aa", Address: "0x1111111111111111111111111111111111111111"},
		{UID: 2, IdentityKey: "02bb", Address: "0x2222222222222222222222222222222222222222"},
	}
}

func TestRefreshVolumes(t *testing.T) {
	ctx := context.Background()

	t.Run("folds contract stake into the cache and persists identities", func(t *testing.T) {
		mockDB := mocks.NewDbInterface(t)
		mockContract := mocks.NewContractInterface(t)

		mockDB.On("GetAllWalletMappings", mock.Anything).Return(testMappings(), nil)
		mockContract.On("CurrentEpoch", mock.Anything).Return(uint64(3), nil)
		mockContract.On("GetStakeForEpoch", mock.Anything, "0x1111111111111111111111111111111111111111", uint64(3)).
			Return(stake(30, 12), nil)
		mockContract.On("GetStakeForEpoch", mock.Anything, "0x2222222222222222222222222222222222222222", uint64(3)).
			Return(stake(7, 0), nil)

		var persisted []model.IdentityDocument
		mockDB.On("UpsertIdentity", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				persisted = append(persisted, *args.Get(1).(*model.IdentityDocument))
			}).
			Return(nil)
		mockDB.On("MarkIdentitiesInactive", mock.Anything, []uint64{1, 2}).Return(nil)

		srv := NewService(testConfig(), mockDB, mockContract, nil, nil)
		require.NoError(t, srv.refreshVolumes(ctx))

		gen := srv.cache.Current()
		assert.InDelta(t, 42.0, gen.History(1)[0], 1e-9)
		assert.InDelta(t, 7.0, gen.History(2)[0], 1e-9)

		require.Len(t, persisted, 2)
		assert.Equal(t, uint64(1), persisted[0].UID)
		assert.InDelta(t, 42.0/49.0, persisted[0].Score, 1e-9)
		assert.Equal(t, uint64(3), persisted[0].LastSeenEpoch)
		assert.True(t, persisted[0].Active)
		assert.InDelta(t, 7.0/49.0, persisted[1].Score, 1e-9)

		health := srv.health.snapshot()
		assert.Zero(t, health.ConsecutiveIngestionErrors)
		assert.False(t, health.LastIngestionAt.IsZero())
	})

	t.Run("contract failure leaves the cache untouched", func(t *testing.T) {
		mockDB := mocks.NewDbInterface(t)
		mockContract := mocks.NewContractInterface(t)

		mockDB.On("GetAllWalletMappings", mock.Anything).Return(testMappings(), nil)
		mockContract.On("CurrentEpoch", mock.Anything).Return(uint64(3), nil)
		mockContract.On("GetStakeForEpoch", mock.Anything, mock.Anything, mock.Anything).
			Return(contractclient.StakeBySide{}, errors.New("rpc unavailable"))

		srv := NewService(testConfig(), mockDB, mockContract, nil, nil)
		before := srv.cache.Current()

		require.Error(t, srv.refreshVolumes(ctx))

		assert.Same(t, before, srv.cache.Current())
		assert.Equal(t, uint64(1), srv.health.snapshot().ConsecutiveIngestionErrors)
	})

	t.Run("mapping load failure counts against health", func(t *testing.T) {
		mockDB := mocks.NewDbInterface(t)
		mockDB.On("GetAllWalletMappings", mock.Anything).Return(nil, errors.New("db down"))

		srv := NewService(testConfig(), mockDB, mocks.NewContractInterface(t), nil, nil)
		require.Error(t, srv.refreshVolumes(ctx))
		assert.Equal(t, uint64(1), srv.health.snapshot().ConsecutiveIngestionErrors)
	})

	t.Run("consecutive error counter resets on success", func(t *testing.T) {
		mockDB := mocks.NewDbInterface(t)
		mockContract := mocks.NewContractInterface(t)

		mockDB.On("GetAllWalletMappings", mock.Anything).Return(nil, errors.New("db down")).Once()
		mockDB.On("GetAllWalletMappings", mock.Anything).Return([]model.WalletMappingDocument{}, nil).Once()
		mockDB.On("MarkIdentitiesInactive", mock.Anything, []uint64{}).Return(nil)
		mockContract.On("CurrentEpoch", mock.Anything).Return(uint64(1), nil)

		srv := NewService(testConfig(), mockDB, mockContract, nil, nil)
		require.Error(t, srv.refreshVolumes(ctx))
		require.NoError(t, srv.refreshVolumes(ctx))
		assert.Zero(t, srv.health.snapshot().ConsecutiveIngestionErrors)
	})
}
