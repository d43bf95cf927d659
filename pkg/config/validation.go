package config

import (
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/marmos91/dittokv/internal/telemetry"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report fields by their configuration key instead of the Go field name
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("mapstructure"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	mustRegister(v, "key_type", func(fl validator.FieldLevel) bool {
		return slices.Contains(KeyTypes, strings.ToLower(fl.Field().String()))
	})
	mustRegister(v, "value_type", func(fl validator.FieldLevel) bool {
		return slices.Contains(ValueTypes, strings.ToLower(fl.Field().String()))
	})
	mustRegister(v, "profile_type", func(fl validator.FieldLevel) bool {
		return telemetry.ValidProfileType(fl.Field().String())
	})

	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("config: register validation %q: %v", tag, err))
	}
}

// Validate checks the configuration: struct tag rules first, then every
// store is resolved against the type catalog to catch bad heap options.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return formatValidationError(err)
	}

	for _, alias := range slices.Sorted(maps.Keys(cfg.Stores)) {
		if alias == "" {
			return errors.New("stores: alias must not be empty")
		}
		if _, err := BuildStoreConfig(alias, cfg.Stores[alias], StoreDeps{}); err != nil {
			return err
		}
	}

	return nil
}

// formatValidationError renders validator errors as "path: failed on 'tag'".
func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		path := strings.TrimPrefix(fe.Namespace(), "Config.")
		msg := fmt.Sprintf("%s: failed on '%s'", path, fe.Tag())
		if fe.Param() != "" {
			msg += fmt.Sprintf(" (%s)", fe.Param())
		}
		msgs = append(msgs, msg)
	}

	return errors.New(strings.Join(msgs, "; "))
}
