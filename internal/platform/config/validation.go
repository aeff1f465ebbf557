package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ErrInvalid is wrapped by every error Validate returns.
var ErrInvalid = errors.New("invalid config")

// Fields are reported by their koanf key so a message points at the YAML
// line or APP_ variable to fix.
var configValidator = sync.OnceValue(func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if key, _, _ := strings.Cut(f.Tag.Get("koanf"), ","); key != "" && key != "-" {
			return key
		}

		return f.Name
	})

	return v
})

// Validate checks every section and reports all problems at once, one per
// line, so a broken deployment can be fixed in a single pass.
func (c *Config) Validate() error {
	return check(c)
}

func check(v any) error {
	err := configValidator().Struct(v)
	if err == nil {
		return nil
	}

	var fields validator.ValidationErrors
	if !errors.As(err, &fields) {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	problems := make([]string, len(fields))
	for i, fe := range fields {
		problems[i] = describe(fe)
	}

	return fmt.Errorf("%w:\n  %s", ErrInvalid, strings.Join(problems, "\n  "))
}

// describe renders one broken rule as "<key> <problem>".
func describe(fe validator.FieldError) string {
	key := keyPath(fe.Namespace())
	param := fe.Param()

	var problem string

	switch fe.Tag() {
	case "required":
		problem = "is required"
	case "required_if":
		problem = "is required when " + param
	case "min":
		problem = "must be at least " + param
	case "max":
		problem = "must be at most " + param
	case "len":
		problem = "must be exactly " + param + " characters"
	case "oneof":
		problem = "must be one of: " + param
	case "gtefield":
		problem = "must not be less than " + siblingKey(key, param)
	case "ltefield":
		problem = "must not exceed " + siblingKey(key, param)
	case "url":
		problem = "must be a valid URL"
	case "email":
		problem = "must be a valid email address"
	case "alpha":
		problem = "must contain only letters"
	case "datetime":
		problem = "must be a date formatted as " + param
	default:
		problem = "failed validation: " + fe.Tag()
	}

	return key + " " + problem
}

// keyPath turns the namespace "Config.client.retry.max_attempts" into the
// koanf key "client.retry.max_attempts".
func keyPath(namespace string) string {
	if _, key, ok := strings.Cut(namespace, "."); ok {
		return key
	}

	return namespace
}

// siblingKey names the field a cross-field rule compared against. The rule
// parameter is the Go field name, so it is mapped back through the tags.
func siblingKey(key, goField string) string {
	name := goField
	for _, section := range []reflect.Type{reflect.TypeFor[RetryConfig](), reflect.TypeFor[TransportConfig]()} {
		if f, ok := section.FieldByName(goField); ok {
			name, _, _ = strings.Cut(f.Tag.Get("koanf"), ",")
			break
		}
	}

	if i := strings.LastIndex(key, "."); i >= 0 {
		return key[:i+1] + name
	}

	return name
}
