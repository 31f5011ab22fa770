package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/jorgebotas/gocyto/pkg/errors"
)

var validate = validator.New()

// Validate checks every section of the config.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, formatValidationError(err), "invalid config")
	}
	if c.Timeout.Duration <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid config: timeout must be positive")
	}
	if c.Cache.Backend == CacheRedis && c.Cache.Redis.Addr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid config: cache.redis.addr is required for the redis backend")
	}
	return nil
}

// Validate checks that every layout parameter is non-negative.
func (l Layout) Validate() error {
	if err := validate.Struct(l); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, formatValidationError(err), "invalid layout parameters")
	}
	return nil
}

func formatValidationError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return err
	}

	e := verrs[0]
	field := e.Namespace()
	switch e.Tag() {
	case "required":
		return fmt.Errorf("%s: field is required", field)
	case "gte":
		return fmt.Errorf("%s: must be at least %s", field, e.Param())
	case "lte":
		return fmt.Errorf("%s: must not exceed %s", field, e.Param())
	case "gt":
		return fmt.Errorf("%s: must be greater than %s", field, e.Param())
	case "oneof":
		return fmt.Errorf("%s: must be one of [%s], got %v", field, e.Param(), e.Value())
	case "url":
		return fmt.Errorf("%s: invalid URL %v", field, e.Value())
	default:
		return fmt.Errorf("%s: validation failed (%s)", field, e.Tag())
	}
}
