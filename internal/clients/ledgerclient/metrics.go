package ledgerclient

import (
	"context"
	"time"

	"github.com/tao-colosseum/colosseum-validator/internal/observability/metrics"
)

type ledgerClientWithMetrics struct {
	ledger LedgerInterface
}

func NewLedgerClientWithMetrics(ledger LedgerInterface) *ledgerClientWithMetrics {
	return &ledgerClientWithMetrics{ledger: ledger}
}

func (c *ledgerClientWithMetrics) CurrentBlock(ctx context.Context) (uint64, error) {
	return runLedgerClientMethodWithMetrics("CurrentBlock", func() (uint64, error) {
		return c.ledger.CurrentBlock(ctx)
	})
}

func (c *ledgerClientWithMetrics) SubmitWeights(ctx context.Context, weights []Weight) error {
	_, err := runLedgerClientMethodWithMetrics("SubmitWeights", func() (struct{}, error) {
		return struct{}{}, c.ledger.SubmitWeights(ctx, weights)
	})
	return err
}

func runLedgerClientMethodWithMetrics[T any](method string, f func() (T, error)) (T, error) {
	startTime := time.Now()
	result, err := f()
	duration := time.Since(startTime)

	metrics.RecordLedgerClientLatency(duration, method, err != nil)
	return result, err
}
