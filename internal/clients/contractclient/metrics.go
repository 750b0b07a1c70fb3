package contractclient

import (
	"context"
	"time"

	"github.com/tao-colosseum/colosseum-validator/internal/observability/metrics"
)

type contractClientWithMetrics struct {
	contract ContractInterface
}

func NewContractClientWithMetrics(contract ContractInterface) *contractClientWithMetrics {
	return &contractClientWithMetrics{contract: contract}
}

func (c *contractClientWithMetrics) CurrentEpoch(ctx context.Context) (uint64, error) {
	return runContractClientMethodWithMetrics("CurrentEpoch", func() (uint64, error) {
		return c.contract.CurrentEpoch(ctx)
	})
}

func (c *contractClientWithMetrics) GetStakeForEpoch(ctx context.Context, address string, epoch uint64) (StakeBySide, error) {
	return runContractClientMethodWithMetrics("GetStakeForEpoch", func() (StakeBySide, error) {
		return c.contract.GetStakeForEpoch(ctx, address, epoch)
	})
}

func runContractClientMethodWithMetrics[T any](method string, f func() (T, error)) (T, error) {
	startTime := time.Now()
	result, err := f()
	duration := time.Since(startTime)

	metrics.RecordContractClientLatency(duration, method, err != nil)
	return result, err
}
