package dto

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var (
	// ErrBinding wraps bodies that are not JSON or do not fit the request type.
	ErrBinding = errors.New("binding failed")
	// ErrValidation wraps bodies that parsed but broke a field rule.
	ErrValidation = errors.New("validation failed")
)

// Validator is the shared validator. Errors name fields by their JSON key,
// Number fields compare as floats and "notempty" rejects blank strings.
var Validator = sync.OnceValue(func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(jsonName)
	v.RegisterCustomTypeFunc(numberValue, Number{})

	if err := v.RegisterValidation("notempty", notBlank); err != nil {
		panic(err)
	}

	return v
})

func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}

	return name
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// Validate checks v against its validate tags.
func Validate(v any) error {
	if err := Validator().Struct(v); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	return nil
}

// BindAndValidate decodes the JSON body into v and validates it. The error
// wraps ErrBinding or ErrValidation, and a *http.MaxBytesError when the body
// was cut off by the size limit.
func BindAndValidate(c *gin.Context, v any) error {
	if err := c.ShouldBindJSON(v); err != nil {
		return fmt.Errorf("%w: %w", ErrBinding, err)
	}

	return Validate(v)
}

// IsValidationError reports whether err carries field rule violations.
func IsValidationError(err error) bool {
	var fields validator.ValidationErrors
	return errors.As(err, &fields)
}

// ValidationErrors lists the broken rules of err by field path, for example
// "settings.issueDate" or "items[3].description". It is empty for errors
// that carry no field violations.
func ValidationErrors(err error) map[string]string {
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) {
		return map[string]string{}
	}

	out := make(map[string]string, len(fields))
	for _, fe := range fields {
		out[fieldPath(fe)] = ruleMessage(fe)
	}

	return out
}

// fieldPath drops the Go type name that leads every namespace.
func fieldPath(fe validator.FieldError) string {
	if _, path, ok := strings.Cut(fe.Namespace(), "."); ok && path != "" {
		return path
	}

	return fe.Field()
}

var ruleMessages = map[string]string{
	"required": "this field is required",
	"notempty": "must not be empty",
	"email":    "must be a valid email address",
	"datetime": "must be a date formatted as %s",
	"gte":      "must be greater than or equal to %s",
	"lte":      "must be less than or equal to %s",
	"oneof":    "must be one of: %s",
}

func ruleMessage(fe validator.FieldError) string {
	switch tag := fe.Tag(); tag {
	case "min", "max":
		return lengthMessage(tag, fe.Param(), fe.Kind())
	default:
		msg, ok := ruleMessages[tag]
		if !ok {
			return "failed validation: " + tag
		}

		if strings.Contains(msg, "%s") {
			return fmt.Sprintf(msg, fe.Param())
		}

		return msg
	}
}

// lengthMessage words min and max by what they bound: characters of a
// string, entries of a list or the value of a number.
func lengthMessage(tag, param string, kind reflect.Kind) string {
	bound := "at least"
	if tag == "max" {
		bound = "at most"
	}

	switch kind {
	case reflect.String:
		return fmt.Sprintf("must be %s %s characters", bound, param)
	case reflect.Slice, reflect.Array, reflect.Map:
		return fmt.Sprintf("must have %s %s entries", bound, param)
	default:
		return fmt.Sprintf("must be %s %s", bound, param)
	}
}

// RespondBindError aborts c with the answer for a BindAndValidate error:
// 413 for a body over the limit, 400 VALIDATION_ERROR with field details for
// broken rules and 400 BAD_REQUEST for anything else.
func RespondBindError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError

	switch {
	case errors.As(err, &tooLarge):
		AbortWithCode(c, ErrorCodeTooLarge, fmt.Sprintf("request body must not exceed %d bytes", tooLarge.Limit))
	case IsValidationError(err):
		resp := NewErrorResponse(ErrorCodeValidation, "request validation failed").
			WithDetails(ValidationErrors(err)).
			WithTraceID(GetTraceID(c))
		c.AbortWithStatusJSON(http.StatusBadRequest, resp)
	default:
		AbortWithCode(c, ErrorCodeBadRequest, "malformed request body")
	}
}
