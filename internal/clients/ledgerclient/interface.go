package ledgerclient

import "context"

// Weight is one entry of the score vector submitted to the ledger.
type Weight struct {
	UID    uint64  `json:"uid"`
	Weight float64 `json:"weight"`
}

//go:generate mockery --name=LedgerInterface --output=../../../tests/mocks --outpkg=mocks --filename=mock_ledger_client.go

// LedgerInterface is the gateway to the consensus ledger. Submissions are
// rate limited by the ledger itself; a rejection for submitting too soon
// surfaces as a types.RateLimited error.
type LedgerInterface interface {
	CurrentBlock(ctx context.Context) (uint64, error)
	SubmitWeights(ctx context.Context, weights []Weight) error
}
