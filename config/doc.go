// Package config loads service configuration with Viper.
//
// A config.yml is resolved from the usual locations for a service
// (./cmd/<name>/config.yml, ./config/config.yml, ./config.yml), an optional
// .env file is loaded with godotenv, and every key known to the file or to
// the registered defaults can be overridden from the environment:
//
//	relay.debounce_window  ->  RXRELAY_RELAY_DEBOUNCE_WINDOW
//
// Usage:
//
//	var cfg AppConfig
//	err := config.Load("rxrelay", &cfg, config.WithEnvPrefix("RXRELAY"))
package config
