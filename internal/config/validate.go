package config

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
)

// ConfigError reports a missing or malformed configuration value. It is
// fatal for binaries and is never retried.
type ConfigError struct {
	Key    string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s %s", e.Key, e.Reason)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report failures by environment variable name.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("env"); name != "" {
			return name
		}
		return f.Name
	})
	return v
}

// Validate checks the loaded values and returns the first problem as a
// *ConfigError.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &ConfigError{Key: "config", Reason: err.Error()}
	}

	fe := verrs[0]
	reason := "is invalid (" + fe.Tag() + ")"
	switch fe.Tag() {
	case "required", "required_if":
		reason = "is required"
	case "oneof":
		reason = fmt.Sprintf("must be one of [%s]", fe.Param())
	case "gt":
		reason = fmt.Sprintf("must be greater than %s", fe.Param())
	}
	return &ConfigError{Key: fe.Field(), Reason: reason}
}
