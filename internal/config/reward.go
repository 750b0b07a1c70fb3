package config

import (
	"errors"
	"fmt"
	"time"
)

// DefaultDecayWeights is the per-slot decay applied to the 7-day rolling
// volume history, slot 0 being today.
var DefaultDecayWeights = [7]float64{1.00, 0.85, 0.70, 0.55, 0.40, 0.25, 0.10}

type RewardConfig struct {
	// DecayWeights overrides DefaultDecayWeights when non-empty. Must hold
	// exactly 7 entries, non-increasing, slot 0 positive.
	DecayWeights []float64 `mapstructure:"decay-weights"`
	// MappingFreshnessWindow is the maximum allowed absolute skew between a
	// wallet-mapping request timestamp and the validator clock.
	MappingFreshnessWindow time.Duration `mapstructure:"mapping-freshness-window"`
}

func (cfg *RewardConfig) Validate() error {
	if len(cfg.DecayWeights) != 0 {
		if len(cfg.DecayWeights) != 7 {
			return fmt.Errorf("decay-weights must have exactly 7 entries, got %d", len(cfg.DecayWeights))
		}
		if cfg.DecayWeights[0] <= 0 {
			return errors.New("decay-weights slot 0 must be positive")
		}
		for i := 1; i < len(cfg.DecayWeights); i++ {
			if cfg.DecayWeights[i] < 0 || cfg.DecayWeights[i] > cfg.DecayWeights[i-1] {
				return errors.New("decay-weights must be non-negative and non-increasing")
			}
		}
	}
	if cfg.MappingFreshnessWindow <= 0 {
		return errors.New("mapping-freshness-window must be positive")
	}
	return nil
}

// Weights returns the configured decay weight vector, falling back to the
// defaults.
func (cfg *RewardConfig) Weights() [7]float64 {
	if len(cfg.DecayWeights) == 7 {
		var w [7]float64
		copy(w[:], cfg.DecayWeights)
		return w
	}
	return DefaultDecayWeights
}
