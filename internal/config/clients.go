package config

import (
	"fmt"
	"net/url"
)

// OracleConfig configures the external reserve balance feed.
type OracleConfig struct {
	BaseURL string `mapstructure:"base-url"`
	Timeout int    `mapstructure:"timeout"`
}

func (cfg *OracleConfig) Validate() error {
	if err := validateClientURL(cfg.BaseURL, "oracle"); err != nil {
		return err
	}
	if cfg.Timeout <= 0 {
		return fmt.Errorf("oracle timeout must be a positive integer (milliseconds)")
	}
	return nil
}

// TokenConfig configures the token primitive the ledger mints and burns through.
type TokenConfig struct {
	BaseURL string `mapstructure:"base-url"`
	Timeout int    `mapstructure:"timeout"`
}

func (cfg *TokenConfig) Validate() error {
	if err := validateClientURL(cfg.BaseURL, "token"); err != nil {
		return err
	}
	if cfg.Timeout <= 0 {
		return fmt.Errorf("token timeout must be a positive integer (milliseconds)")
	}
	return nil
}

func validateClientURL(raw, name string) error {
	if raw == "" {
		return fmt.Errorf("missing %s base-url", name)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid %s base-url: %w", name, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported %s base-url scheme: %s", name, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host in %s base-url", name)
	}
	return nil
}
