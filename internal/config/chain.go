package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/tao-colosseum/colosseum-validator/pkg"
)

// ChainConfig points the validator at the betting contract on the EVM chain.
type ChainConfig struct {
	// RPCAddr is the URL of the EVM JSON-RPC endpoint.
	RPCAddr         string        `mapstructure:"rpc-addr"`
	ChainID         int64         `mapstructure:"chain-id"`
	ContractAddress string        `mapstructure:"contract-address"`
	Timeout         time.Duration `mapstructure:"timeout"`
	MaxRetryTimes   uint          `mapstructure:"max-retry-times"`
	RetryInterval   time.Duration `mapstructure:"retry-interval"`
	// MaxConcurrentQueries bounds the per-address stake fan-out during
	// an ingestion tick.
	MaxConcurrentQueries int `mapstructure:"max-concurrent-queries"`
}

func (cfg *ChainConfig) Validate() error {
	if cfg.RPCAddr == "" {
		return errors.New("chain rpc-addr is required")
	}
	if cfg.ChainID <= 0 {
		return errors.New("chain-id must be positive")
	}
	if err := pkg.ValidateEVMAddress(cfg.ContractAddress); err != nil {
		return fmt.Errorf("invalid contract address: %w", err)
	}
	if cfg.Timeout <= 0 {
		return errors.New("chain timeout must be positive")
	}
	if cfg.MaxRetryTimes == 0 {
		return errors.New("chain max-retry-times must be positive")
	}
	if cfg.RetryInterval <= 0 {
		return errors.New("chain retry-interval must be positive")
	}
	if cfg.MaxConcurrentQueries <= 0 {
		return errors.New("chain max-concurrent-queries must be positive")
	}
	return nil
}
