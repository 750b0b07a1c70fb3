package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tao-colosseum/colosseum-validator/internal/config"
	"github.com/tao-colosseum/colosseum-validator/internal/db"
	"github.com/tao-colosseum/colosseum-validator/internal/db/model"
	"github.com/tao-colosseum/colosseum-validator/internal/observability/metrics"
	"github.com/tao-colosseum/colosseum-validator/internal/services"
	"github.com/tao-colosseum/colosseum-validator/internal/verifier"
	"github.com/tao-colosseum/colosseum-validator/tests/mocks"
	"github.com/tao-colosseum/colosseum-validator/testutil"
)

func TestMain(m *testing.M) {
	metrics.Init(0)
	os.Exit(m.Run())
}

func testApiConfig() *config.ApiConfig {
	return &config.ApiConfig{
		Host:                "localhost",
		Port:                8080,
		WriteTimeout:        time.Minute,
		ReadTimeout:         time.Minute,
		IdleTimeout:         time.Minute,
		MaxLeaderboardLimit: 50,
	}
}

func newTestServer(mockDB *mocks.DbInterface) *Server {
	cfg := &config.Config{
		Chain:  config.ChainConfig{MaxConcurrentQueries: 4},
		Ledger: config.LedgerConfig{CommitIntervalBlocks: 360},
		Poller: config.PollerConfig{
			VolumePollingInterval:      time.Minute,
			PublicationPollingInterval: time.Minute,
		},
		Reward: config.RewardConfig{MappingFreshnessWindow: 5 * time.Minute},
		Api:    *testApiConfig(),
	}
	service := services.NewService(cfg, mockDB, nil, nil, nil)
	return New(&cfg.Api, service)
}

func doRequest(t *testing.T, srv *Server, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(rec, req)
	return rec
}

func TestSnapshotEndpoints(t *testing.T) {
	t.Run("latest snapshot", func(t *testing.T) {
		mockDB := mocks.NewDbInterface(t)
		mockDB.On("LatestSnapshot", mock.Anything).
			Return(&model.SnapshotDocument{Block: 720, ActiveIdentities: 2}, nil)

		rec := doRequest(t, newTestServer(mockDB), http.MethodGet, "/v1/snapshots/latest", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var snapshot model.SnapshotDocument
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snapshot))
		assert.Equal(t, uint64(720), snapshot.Block)
	})

	t.Run("latest snapshot on an empty store is a 404", func(t *testing.T) {
		mockDB := mocks.NewDbInterface(t)
		mockDB.On("LatestSnapshot", mock.Anything).
			Return(nil, &db.NotFoundError{Message: "empty"})

		rec := doRequest(t, newTestServer(mockDB), http.MethodGet, "/v1/snapshots/latest", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("snapshot by block", func(t *testing.T) {
		mockDB := mocks.NewDbInterface(t)
		mockDB.On("GetSnapshotByBlock", mock.Anything, uint64(360)).
			Return(&model.SnapshotDocument{Block: 360}, nil)

		rec := doRequest(t, newTestServer(mockDB), http.MethodGet, "/v1/snapshots/360", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("non-numeric block is a 400", func(t *testing.T) {
		rec := doRequest(t, newTestServer(mocks.NewDbInterface(t)), http.MethodGet, "/v1/snapshots/abc", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("list snapshots clamps the limit", func(t *testing.T) {
		mockDB := mocks.NewDbInterface(t)
		mockDB.On("ListSnapshots", mock.Anything, int64(50)).
			Return([]model.SnapshotSummary{{Block: 360}, {Block: 720}}, nil)

		rec := doRequest(t, newTestServer(mockDB), http.MethodGet, "/v1/snapshots?limit=9999", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var summaries []model.SnapshotSummary
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summaries))
		assert.Len(t, summaries, 2)
	})

	t.Run("negative limit is a 400", func(t *testing.T) {
		rec := doRequest(t, newTestServer(mocks.NewDbInterface(t)), http.MethodGet, "/v1/snapshots?limit=-1", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestScoreEndpoints(t *testing.T) {
	t.Run("scores on an empty cache", func(t *testing.T) {
		rec := doRequest(t, newTestServer(mocks.NewDbInterface(t)), http.MethodGet, "/v1/scores", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp scoresResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Empty(t, resp.Scores)
	})

	t.Run("unknown uid is a 404", func(t *testing.T) {
		rec := doRequest(t, newTestServer(mocks.NewDbInterface(t)), http.MethodGet, "/v1/scores/42", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("non-numeric uid is a 400", func(t *testing.T) {
		rec := doRequest(t, newTestServer(mocks.NewDbInterface(t)), http.MethodGet, "/v1/scores/abc", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("leaderboard on an empty cache", func(t *testing.T) {
		rec := doRequest(t, newTestServer(mocks.NewDbInterface(t)), http.MethodGet, "/v1/leaderboard", nil)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("volume listing on an empty cache", func(t *testing.T) {
		rec := doRequest(t, newTestServer(mocks.NewDbInterface(t)), http.MethodGet, "/v1/volumes", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp volumesResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Empty(t, resp.Volumes)
	})
}

func TestServiceInfo(t *testing.T) {
	rec := doRequest(t, newTestServer(mocks.NewDbInterface(t)), http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp serviceInfoResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, serviceName, resp.Service)
	assert.NotEmpty(t, resp.Version)
}

func TestIdentityEndpoints(t *testing.T) {
	t.Run("identity detail", func(t *testing.T) {
		mockDB := mocks.NewDbInterface(t)
		mockDB.On("GetIdentity", mock.Anything, uint64(7)).
			Return(&model.IdentityDocument{UID: 7, Score: 0.5, Active: true}, nil)

		rec := doRequest(t, newTestServer(mockDB), http.MethodGet, "/v1/identities/7", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var doc model.IdentityDocument
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
		assert.Equal(t, uint64(7), doc.UID)
		assert.True(t, doc.Active)
	})

	t.Run("unknown identity is a 404", func(t *testing.T) {
		mockDB := mocks.NewDbInterface(t)
		mockDB.On("GetIdentity", mock.Anything, uint64(9)).
			Return(nil, &db.NotFoundError{Message: "missing"})

		rec := doRequest(t, newTestServer(mockDB), http.MethodGet, "/v1/identities/9", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("identity listing serves persisted state", func(t *testing.T) {
		mockDB := mocks.NewDbInterface(t)
		mockDB.On("GetAllIdentities", mock.Anything).
			Return([]model.IdentityDocument{
				{UID: 2, Score: 0.8, Active: true},
				{UID: 1, Score: 0.2, Active: false},
			}, nil)

		rec := doRequest(t, newTestServer(mockDB), http.MethodGet, "/v1/identities", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var docs []model.IdentityDocument
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &docs))
		require.Len(t, docs, 2)
		assert.Equal(t, uint64(2), docs[0].UID)
	})
}

func TestWalletMappingEndpoints(t *testing.T) {
	t.Run("register with a valid dual signature", func(t *testing.T) {
		identity, err := testutil.NewIdentityKeyPair()
		require.NoError(t, err)
		evm, err := testutil.NewEVMKeyPair()
		require.NoError(t, err)

		ts := time.Now().UnixMilli()
		message := verifier.FormatLinkMessage(7, identity.PubKeyHex(), evm.Address(), ts)
		addressSig, err := evm.PersonalSign(message)
		require.NoError(t, err)

		body, err := json.Marshal(verifier.Request{
			UID:         7,
			IdentityKey: identity.PubKeyHex(),
			Address:     evm.Address(),
			Message:     message,
			IdentitySig: identity.Sign(message),
			AddressSig:  addressSig,
			TimestampMs: ts,
		})
		require.NoError(t, err)

		mockDB := mocks.NewDbInterface(t)
		mockDB.On("GetWalletMappingByAddress", mock.Anything, mock.Anything).
			Return(nil, &db.NotFoundError{Message: "not found"})
		mockDB.On("UpsertWalletMapping", mock.Anything, mock.Anything).Return(nil)

		rec := doRequest(t, newTestServer(mockDB), http.MethodPost, "/v1/wallet-mappings", body)
		require.Equal(t, http.StatusCreated, rec.Code)

		var doc model.WalletMappingDocument
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
		assert.Equal(t, uint64(7), doc.UID)
	})

	t.Run("invalid body is a 400", func(t *testing.T) {
		rec := doRequest(t, newTestServer(mocks.NewDbInterface(t)), http.MethodPost, "/v1/wallet-mappings", []byte("{"))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("bogus identity key is rejected with an error code", func(t *testing.T) {
		body, err := json.Marshal(verifier.Request{
			UID:         7,
			IdentityKey: "02deadbeef",
			Address:     "0x1111111111111111111111111111111111111111",
			Message:     "colosseum-link|uid:7|identity:02deadbeef|addr:0x1111111111111111111111111111111111111111|ts:1",
			IdentitySig: "00",
			AddressSig:  "00",
			TimestampMs: 1,
		})
		require.NoError(t, err)

		rec := doRequest(t, newTestServer(mocks.NewDbInterface(t)), http.MethodPost, "/v1/wallet-mappings", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var resp errorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.ErrorCode)
	})

	t.Run("mapping lookup by uid", func(t *testing.T) {
		mockDB := mocks.NewDbInterface(t)
		mockDB.On("GetWalletMappingByUID", mock.Anything, uint64(7)).
			Return(&model.WalletMappingDocument{UID: 7}, nil)

		rec := doRequest(t, newTestServer(mockDB), http.MethodGet, "/v1/wallet-mappings/7", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestHealthcheck(t *testing.T) {
	t.Run("stale validator still reports 200", func(t *testing.T) {
		mockDB := mocks.NewDbInterface(t)
		mockDB.On("Ping", mock.Anything).Return(nil)

		rec := doRequest(t, newTestServer(mockDB), http.MethodGet, "/healthcheck", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
