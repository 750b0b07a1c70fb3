package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Db      DbConfig      `mapstructure:"db"`
	Chain   ChainConfig   `mapstructure:"chain"`
	Ledger  LedgerConfig  `mapstructure:"ledger"`
	Poller  PollerConfig  `mapstructure:"poller"`
	Reward  RewardConfig  `mapstructure:"reward"`
	Api     ApiConfig     `mapstructure:"api"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Queue   *QueueConfig  `mapstructure:"queue"`
}

func (cfg *Config) Validate() error {
	if err := cfg.Db.Validate(); err != nil {
		return err
	}
	if err := cfg.Chain.Validate(); err != nil {
		return err
	}
	if err := cfg.Ledger.Validate(); err != nil {
		return err
	}
	if err := cfg.Poller.Validate(); err != nil {
		return err
	}
	if err := cfg.Reward.Validate(); err != nil {
		return err
	}
	if err := cfg.Api.Validate(); err != nil {
		return err
	}
	if err := cfg.Metrics.Validate(); err != nil {
		return err
	}
	// queue is optional, snapshot events are simply not emitted without it
	if cfg.Queue != nil {
		if err := cfg.Queue.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// New returns a fully parsed Config object from the given config file path
func New(cfgFile string) (*Config, error) {
	viper.SetConfigFile(cfgFile)
	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
