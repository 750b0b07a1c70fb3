package ledgerclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tao-colosseum/colosseum-validator/internal/config"
	"github.com/tao-colosseum/colosseum-validator/internal/types"
	"github.com/tao-colosseum/colosseum-validator/testutil"
)

func testLedgerConfig(endpoint string) *config.LedgerConfig {
	return &config.LedgerConfig{
		Endpoint:             endpoint,
		Timeout:              time.Second,
		MaxRetryTimes:        3,
		RetryInterval:        time.Millisecond,
		CommitIntervalBlocks: 360,
	}
}

func TestCurrentBlock(t *testing.T) {
	t.Run("parses the block height", func(t *testing.T) {
		height := testutil.RandomBlock()
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, blockEndpoint, r.URL.Path)
			require.NoError(t, json.NewEncoder(w).Encode(blockResponse{Block: height}))
		}))
		defer server.Close()

		block, err := NewClient(testLedgerConfig(server.URL)).CurrentBlock(context.Background())
		require.NoError(t, err)
		assert.Equal(t, height, block)
	})

	t.Run("retries transient failures", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			require.NoError(t, json.NewEncoder(w).Encode(blockResponse{Block: 99}))
		}))
		defer server.Close()

		block, err := NewClient(testLedgerConfig(server.URL)).CurrentBlock(context.Background())
		require.NoError(t, err)
		assert.Equal(t, uint64(99), block)
		assert.Equal(t, int32(2), calls.Load())
	})
}

func TestSubmitWeights(t *testing.T) {
	weights := []Weight{{UID: 1, Weight: 0.75}, {UID: 2, Weight: 0.25}}

	t.Run("posts the weight vector", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, weightsEndpoint, r.URL.Path)

			var req submitRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, weights, req.Weights)

			require.NoError(t, json.NewEncoder(w).Encode(submitResponse{Accepted: true}))
		}))
		defer server.Close()

		err := NewClient(testLedgerConfig(server.URL)).SubmitWeights(context.Background(), weights)
		require.NoError(t, err)
	})

	t.Run("429 surfaces as a rate limit without retrying", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		err := NewClient(testLedgerConfig(server.URL)).SubmitWeights(context.Background(), weights)
		require.Error(t, err)
		assert.True(t, types.IsRateLimited(err))
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("rejection reason is reported", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewEncoder(w).Encode(submitResponse{
				Accepted: false,
				Reason:   "weights must sum to one",
			}))
		}))
		defer server.Close()

		err := NewClient(testLedgerConfig(server.URL)).SubmitWeights(context.Background(), weights)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "weights must sum to one")
	})
}
