package config

import (
	"fmt"
	"slices"

	"github.com/kbukum/rxkit/errors"
	"github.com/kbukum/rxkit/logger"
)

var environments = []string{"development", "staging", "production"}

// ServiceConfig holds the fields every rxkit binary shares. Embed it in the
// binary's own config:
//
//	type AppConfig struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Relay relay.Config `yaml:"relay" mapstructure:"relay"`
//	}
type ServiceConfig struct {
	Name        string        `yaml:"name" mapstructure:"name"`
	Environment string        `yaml:"environment" mapstructure:"environment"`
	Version     string        `yaml:"version" mapstructure:"version"`
	Debug       bool          `yaml:"debug" mapstructure:"debug"`
	Logging     logger.Config `yaml:"logging" mapstructure:"logging"`
}

// GetServiceConfig returns the embedded ServiceConfig.
func (c *ServiceConfig) GetServiceConfig() *ServiceConfig {
	return c
}

// ApplyDefaults fills unset fields. Development turns on debug logging.
func (c *ServiceConfig) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Environment == "development" {
		c.Debug = true
	}
	if c.Debug && c.Logging.Level == "" {
		c.Logging.Level = "debug"
	}
	c.Logging.ApplyDefaults()
}

// Validate checks the shared fields.
func (c *ServiceConfig) Validate() error {
	if c.Name == "" {
		return errors.MissingField("name")
	}
	if !slices.Contains(environments, c.Environment) {
		return errors.InvalidInput("environment", fmt.Sprintf("must be one of %v (got: %s)", environments, c.Environment))
	}
	if err := c.Logging.Validate(); err != nil {
		return errors.Validation("logging: " + err.Error()).WithCause(err)
	}
	return nil
}
