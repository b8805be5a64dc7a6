package config

import (
	"fmt"
)

// QueueConfig configures the rabbitmq publisher that forwards audit events to
// off-chain monitors. Publication is optional; with Enabled false events are
// only written to the event log and structured logs.
type QueueConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Url      string `mapstructure:"url"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Exchange string `mapstructure:"exchange"`
}

func (cfg *QueueConfig) Validate() error {
	if !cfg.Enabled {
		return nil
	}

	if cfg.Url == "" {
		return fmt.Errorf("missing queue url")
	}

	if cfg.Exchange == "" {
		return fmt.Errorf("missing queue exchange")
	}

	return nil
}
