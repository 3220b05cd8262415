package main

import (
	"github.com/kbukum/rxkit/config"
	"github.com/kbukum/rxkit/errors"
	"github.com/kbukum/rxkit/observability"
	"github.com/kbukum/rxkit/relay"
	"github.com/kbukum/rxkit/rx"
	"github.com/kbukum/rxkit/server"
	"github.com/kbukum/rxkit/validation"
)

// AppConfig is the rxrelay configuration.
type AppConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Server    server.Config        `yaml:"server" mapstructure:"server"`
	Relay     relay.Config         `yaml:"relay" mapstructure:"relay"`
	Loop      rx.LoopConfig        `yaml:"loop" mapstructure:"loop"`
	Telemetry observability.Config `yaml:"telemetry" mapstructure:"telemetry"`
}

// ApplyDefaults fills every section.
func (c *AppConfig) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Relay.ApplyDefaults()
	c.Loop.ApplyDefaults()
	c.Telemetry.ApplyDefaults()
}

// Validate checks every section.
func (c *AppConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return errors.Validation("server: " + err.Error()).WithCause(err)
	}
	if err := c.Relay.Validate(); err != nil {
		return errors.Validation("relay: " + err.Error()).WithCause(err)
	}
	if err := validation.Validate(&c.Loop); err != nil {
		return errors.Validation("loop: " + err.Error()).WithCause(err)
	}
	if err := validation.Validate(&c.Telemetry); err != nil {
		return errors.Validation("telemetry: " + err.Error()).WithCause(err)
	}
	return nil
}
