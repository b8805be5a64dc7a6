package config

import (
	"fmt"
	"time"
)

// EngineConfig carries the capital-control parameters: per-transaction mint
// bounds (satoshis), the backing-sync cadence and fallback window, the batch
// circuit-breaker budget, and the pause-credit timers.
type EngineConfig struct {
	MinMintSats         uint64        `mapstructure:"min-mint-sats"`
	MaxMintSats         uint64        `mapstructure:"max-mint-sats"`
	MinSyncInterval     time.Duration `mapstructure:"min-sync-interval"`
	FallbackTimeout     time.Duration `mapstructure:"fallback-timeout"`
	GracefulDegradation bool          `mapstructure:"graceful-degradation"`
	MaxBatchSize        int           `mapstructure:"max-batch-size"`
	BatchBudget         uint64        `mapstructure:"batch-budget"`
	BatchItemCost       uint64        `mapstructure:"batch-item-cost"`
	PauseDuration       time.Duration `mapstructure:"pause-duration"`
	RenewalPeriod       time.Duration `mapstructure:"renewal-period"`
	MinRedemptionBuffer time.Duration `mapstructure:"min-redemption-buffer"`
}

const (
	defaultMinSyncInterval     = 5 * time.Minute
	defaultFallbackTimeout     = 48 * time.Hour
	defaultPauseDuration       = 24 * time.Hour
	defaultRenewalPeriod       = 90 * 24 * time.Hour
	defaultMinRedemptionBuffer = time.Hour
)

func (cfg *EngineConfig) Validate() error {
	if cfg.MinMintSats == 0 {
		return fmt.Errorf("min-mint-sats must be a positive integer")
	}

	if cfg.MaxMintSats < cfg.MinMintSats {
		return fmt.Errorf("max-mint-sats must be greater than or equal to min-mint-sats")
	}

	if cfg.MaxBatchSize <= 0 {
		return fmt.Errorf("max-batch-size must be a positive integer")
	}

	if cfg.BatchItemCost == 0 {
		return fmt.Errorf("batch-item-cost must be a positive integer")
	}

	if cfg.BatchBudget < cfg.BatchItemCost {
		return fmt.Errorf("batch-budget must cover at least one item")
	}

	if cfg.MinSyncInterval == 0 {
		cfg.MinSyncInterval = defaultMinSyncInterval
	}
	if cfg.FallbackTimeout == 0 {
		cfg.FallbackTimeout = defaultFallbackTimeout
	}
	if cfg.PauseDuration == 0 {
		cfg.PauseDuration = defaultPauseDuration
	}
	if cfg.RenewalPeriod == 0 {
		cfg.RenewalPeriod = defaultRenewalPeriod
	}
	if cfg.MinRedemptionBuffer == 0 {
		cfg.MinRedemptionBuffer = defaultMinRedemptionBuffer
	}

	if cfg.MinSyncInterval < 0 || cfg.FallbackTimeout < 0 || cfg.PauseDuration < 0 ||
		cfg.RenewalPeriod < 0 || cfg.MinRedemptionBuffer < 0 {
		return fmt.Errorf("engine durations cannot be negative")
	}

	return nil
}
