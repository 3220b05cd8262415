// Package validation wraps go-playground/validator for rxkit configs and
// request input. Errors are returned as *errors.AppError with code
// INVALID_INPUT and a "fields" detail listing every failed rule.
//
//	type Config struct {
//	    MaxChannels int `mapstructure:"max_channels" validate:"gte=0"`
//	}
//	err := validation.Validate(cfg)
//
// Single values are checked with Var:
//
//	err := validation.Var("name", name, "required,max=128")
package validation
