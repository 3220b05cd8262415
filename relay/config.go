package relay

import (
	"time"

	"github.com/kbukum/rxkit/validation"
)

// Config tunes the relay hub.
type Config struct {
	// DebounceWindow coalesces bursts per watcher; 0 delivers every change.
	DebounceWindow time.Duration `yaml:"debounce_window" mapstructure:"debounce_window" validate:"gte=0"`
	// MaxChannels caps open channels; 0 means unlimited.
	MaxChannels int `yaml:"max_channels" mapstructure:"max_channels" validate:"gte=0"`
	// QueueSize is the per-watcher event buffer of event streams.
	QueueSize int `yaml:"queue_size" mapstructure:"queue_size" validate:"gte=0"`
	// PublishRate caps publishes per second on each channel; 0 disables it.
	PublishRate float64 `yaml:"publish_rate" mapstructure:"publish_rate" validate:"gte=0"`
	// PublishBurst is the per-channel burst allowance above PublishRate.
	PublishBurst int `yaml:"publish_burst" mapstructure:"publish_burst" validate:"gte=0"`
	// KeepAlive is the event stream comment interval.
	KeepAlive time.Duration `yaml:"keep_alive" mapstructure:"keep_alive" validate:"gte=0"`
}

// ApplyDefaults sets default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.QueueSize == 0 {
		c.QueueSize = 64
	}
	if c.KeepAlive == 0 {
		c.KeepAlive = 30 * time.Second
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	return validation.Validate(c)
}
