package config

import (
	"errors"
	"time"
)

type ApiConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	WriteTimeout time.Duration `mapstructure:"write-timeout"`
	ReadTimeout  time.Duration `mapstructure:"read-timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle-timeout"`
	// MaxLeaderboardLimit caps the limit query parameter on list endpoints.
	MaxLeaderboardLimit int `mapstructure:"max-leaderboard-limit"`
}

func (cfg *ApiConfig) Validate() error {
	if cfg.Host == "" {
		return errors.New("api host is required")
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return errors.New("api port must be in the 1-65535 range")
	}
	if cfg.WriteTimeout <= 0 || cfg.ReadTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return errors.New("api timeouts must be positive")
	}
	if cfg.MaxLeaderboardLimit <= 0 {
		return errors.New("api max-leaderboard-limit must be positive")
	}
	return nil
}
