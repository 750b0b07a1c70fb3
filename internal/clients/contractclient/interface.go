package contractclient

import (
	"context"

	sdkmath "cosmossdk.io/math"
)

// StakeBySide is the cumulative amount one address has staked on each side
// of a game epoch, in wei.
type StakeBySide struct {
	Red  sdkmath.Int
	Blue sdkmath.Int
}

// Total returns red + blue.
func (s StakeBySide) Total() sdkmath.Int {
	if s.Red.IsNil() {
		return s.Blue
	}
	if s.Blue.IsNil() {
		return s.Red
	}
	return s.Red.Add(s.Blue)
}

//go:generate mockery --name=ContractInterface --output=../../../tests/mocks --outpkg=mocks --filename=mock_contract_client.go

// ContractInterface is the read-only gateway to the betting contract. The
// contract's game logic (resolution, anti-sniping, fee math) lives behind
// it; only the observable per-address stake per epoch matters here.
type ContractInterface interface {
	CurrentEpoch(ctx context.Context) (uint64, error)
	GetStakeForEpoch(ctx context.Context, address string, epoch uint64) (StakeBySide, error)
}
