package contractclient

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	sdkmath "cosmossdk.io/math"
	"github.com/avast/retry-go/v4"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/rs/zerolog/log"

	"github.com/tao-colosseum/colosseum-validator/internal/config"
)

// betting contract ABI, only the views the validator reads
const contractABI = `[
	{
		"name": "getStakeForEpoch",
		"type": "function",
		"stateMutability": "view",
		"inputs": [
			{"name": "_user", "type": "address"},
			{"name": "_epochId", "type": "uint256"}
		],
		"outputs": [
			{"name": "redAmount", "type": "uint256"},
			{"name": "blueAmount", "type": "uint256"}
		]
	},
	{
		"name": "currentEpochId",
		"type": "function",
		"stateMutability": "view",
		"inputs": [],
		"outputs": [{"name": "", "type": "uint256"}]
	}
]`

type ContractClient struct {
	eth      *ethclient.Client
	abi      abi.ABI
	contract common.Address
	cfg      *config.ChainConfig
}

func NewContractClient(ctx context.Context, cfg *config.ChainConfig) (*ContractClient, error) {
	eth, err := ethclient.DialContext(ctx, cfg.RPCAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to dial EVM RPC %s: %w", cfg.RPCAddr, err)
	}

	parsedABI, err := abi.JSON(strings.NewReader(contractABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse contract ABI: %w", err)
	}

	c := &ContractClient{
		eth:      eth,
		abi:      parsedABI,
		contract: common.HexToAddress(cfg.ContractAddress),
		cfg:      cfg,
	}

	c.verifyChainID(ctx)

	log.Info().
		Str("contract", c.contract.Hex()).
		Str("rpc", cfg.RPCAddr).
		Msg("contract client initialized")

	return c, nil
}

// verifyChainID warns loudly when the RPC answers for a different network.
// Mirrors the rest of startup: misconfiguration should be visible, not fatal,
// since the poller will simply keep failing and retrying.
func (c *ContractClient) verifyChainID(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	chainID, err := c.eth.ChainID(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("could not verify chain id")
		return
	}
	if chainID.Int64() != c.cfg.ChainID {
		log.Warn().
			Int64("expected", c.cfg.ChainID).
			Str("actual", chainID.String()).
			Msg("chain id mismatch, RPC may point at the wrong network")
	}
}

func (c *ContractClient) CurrentEpoch(ctx context.Context) (uint64, error) {
	callForEpoch := func() (*big.Int, error) {
		out, err := c.call(ctx, "currentEpochId")
		if err != nil {
			return nil, err
		}
		return out[0].(*big.Int), nil
	}

	epoch, err := clientCallWithRetry(callForEpoch, c.cfg)
	if err != nil {
		return 0, fmt.Errorf("failed to get current epoch: %w", err)
	}
	return epoch.Uint64(), nil
}

func (c *ContractClient) GetStakeForEpoch(ctx context.Context, address string, epoch uint64) (StakeBySide, error) {
	callForStake := func() (*StakeBySide, error) {
		out, err := c.call(ctx, "getStakeForEpoch", common.HexToAddress(address), new(big.Int).SetUint64(epoch))
		if err != nil {
			return nil, err
		}
		return &StakeBySide{
			Red:  sdkmath.NewIntFromBigInt(out[0].(*big.Int)),
			Blue: sdkmath.NewIntFromBigInt(out[1].(*big.Int)),
		}, nil
	}

	stake, err := clientCallWithRetry(callForStake, c.cfg)
	if err != nil {
		return StakeBySide{}, fmt.Errorf("failed to get stake for %s epoch %d: %w", address, epoch, err)
	}
	return *stake, nil
}

// call packs and executes a read-only contract call with the configured
// timeout, holding no shared state while waiting.
func (c *ContractClient) call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	data, err := c.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s call: %w", method, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	raw, err := c.eth.CallContract(ctx, ethereum.CallMsg{
		To:   &c.contract,
		Data: data,
	}, nil)
	if err != nil {
		return nil, err
	}

	out, err := c.abi.Unpack(method, raw)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack %s result: %w", method, err)
	}
	return out, nil
}

func clientCallWithRetry[T any](
	call retry.RetryableFuncWithData[*T], cfg *config.ChainConfig,
) (*T, error) {
	result, err := retry.DoWithData(call, retry.Attempts(cfg.MaxRetryTimes), retry.Delay(cfg.RetryInterval), retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Debug().
				Uint("attempt", n+1).
				Uint("max_attempts", cfg.MaxRetryTimes).
				Err(err).
				Msg("failed to call the contract RPC client")
		}))
	if err != nil {
		return nil, err
	}
	return result, nil
}
