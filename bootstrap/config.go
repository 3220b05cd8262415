package bootstrap

import (
	"github.com/kbukum/rxkit/config"
)

// Config is the constraint for application config types. Any struct that
// embeds config.ServiceConfig by value satisfies it through promoted
// methods, as long as it is used by pointer.
//
//	type AppConfig struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Relay relay.Config `yaml:"relay" mapstructure:"relay"`
//	}
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}
