package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

// LedgerConfig points the validator at the consensus ledger that accepts
// weight submissions.
type LedgerConfig struct {
	// Endpoint is the base URL of the ledger RPC gateway.
	Endpoint      string        `mapstructure:"endpoint"`
	Timeout       time.Duration `mapstructure:"timeout"`
	MaxRetryTimes uint          `mapstructure:"max-retry-times"`
	RetryInterval time.Duration `mapstructure:"retry-interval"`
	// CommitIntervalBlocks is the minimum number of ledger blocks between
	// two weight submissions. The ledger enforces its own rate limit; this
	// local check only avoids wasted submissions.
	CommitIntervalBlocks uint64 `mapstructure:"commit-interval-blocks"`
}

func (cfg *LedgerConfig) Validate() error {
	if cfg.Endpoint == "" {
		return errors.New("ledger endpoint is required")
	}
	u, err := url.Parse(cfg.Endpoint)
	if err != nil {
		return fmt.Errorf("invalid ledger endpoint: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("ledger endpoint must be an http(s) URL, got %q", cfg.Endpoint)
	}
	if cfg.Timeout <= 0 {
		return errors.New("ledger timeout must be positive")
	}
	if cfg.MaxRetryTimes == 0 {
		return errors.New("ledger max-retry-times must be positive")
	}
	if cfg.RetryInterval <= 0 {
		return errors.New("ledger retry-interval must be positive")
	}
	if cfg.CommitIntervalBlocks == 0 {
		return errors.New("ledger commit-interval-blocks must be positive")
	}
	return nil
}
