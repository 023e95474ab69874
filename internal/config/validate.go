package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// ValidationError reports a configuration value that violates its field's constraint.
type ValidationError struct {
	Field   string
	Value   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("'%s' %s (got '%s')", e.Field, e.Message, e.Value)
}

var configValidator = newValidator()

// newValidator builds the validator used for Config. Field names in errors
// are the config-file keys taken from the koanf tags.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("koanf"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("nowhitespace", func(fl validator.FieldLevel) bool {
		return !strings.ContainsFunc(fl.Field().String(), unicode.IsSpace)
	}); err != nil {
		panic(err)
	}
	return v
}

// ValidateConfigValues checks cfg against the constraints declared on its
// fields. The first violation is returned as a *ValidationError.
func ValidateConfigValues(cfg *Config) error {
	err := configValidator.Struct(cfg)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		fieldErr := validationErrors[0]
		return &ValidationError{
			Field:   fieldErr.Field(),
			Value:   fmt.Sprint(fieldErr.Value()),
			Message: formatValidationError(fieldErr),
		}
	}
	return err
}

// formatValidationError formats a validation error for a specific field.
func formatValidationError(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "must not be empty"
	case "oneof":
		return fmt.Sprintf("must be in %s", formatChoices(strings.Fields(fieldErr.Param())))
	case "len":
		return fmt.Sprintf("must be exactly %s characters", fieldErr.Param())
	case "nowhitespace":
		return "must not contain whitespace"
	default:
		return fmt.Sprintf("failed validation: %s", fieldErr.Tag())
	}
}

// formatChoices renders choices as ['a', 'b'].
func formatChoices(choices []string) string {
	quoted := make([]string, len(choices))
	for i, c := range choices {
		quoted[i] = "'" + c + "'"
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
