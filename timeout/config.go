package timeout

import (
	"fmt"

	"github.com/kbukum/iterkit/logger"
)

// Config contains adapter configuration. It is shaped for the config
// package's loader: embed it in an application config struct and pass the
// result to WithConfig.
type Config struct {
	// Name tags logs and metrics emitted by the adapter.
	Name string `yaml:"name" mapstructure:"name"`
	// Capacity is the relay channel capacity. Zero means rendezvous.
	Capacity int `yaml:"capacity" mapstructure:"capacity" validate:"gte=0"`
	// Logging configures the relay's diagnostic sink.
	Logging logger.Config `yaml:"logging" mapstructure:"logging"`
}

// ApplyDefaults applies default values to adapter configuration.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "timeout-iterator"
	}
	c.Logging.ApplyDefaults()
}

// Validate validates adapter configuration.
func (c *Config) Validate() error {
	if c.Capacity < 0 {
		return fmt.Errorf("timeout.capacity must be >= 0 (got: %d)", c.Capacity)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("timeout.logging: %w", err)
	}
	return nil
}
