package config

import (
	"errors"
	"time"
)

type PollerConfig struct {
	VolumePollingInterval      time.Duration `mapstructure:"volume-polling-interval"`
	PublicationPollingInterval time.Duration `mapstructure:"publication-polling-interval"`
}

func (cfg *PollerConfig) Validate() error {
	if cfg.VolumePollingInterval <= 0 {
		return errors.New("volume-polling-interval must be positive")
	}

	if cfg.PublicationPollingInterval <= 0 {
		return errors.New("publication-polling-interval must be positive")
	}

	return nil
}
