package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidationError represents a field validation error
type ValidationError struct {
	Field   string
	Message string
}

// Validate checks a decoded record against its validation tags. Failures
// are reported as ErrDecode.
func Validate(v any) error {
	if err := validate.Struct(v); err != nil {
		return decodeError(err)
	}
	return nil
}

// ValidateEach validates every element of a top-level array response
func ValidateEach[T any](items []T) error {
	for i := range items {
		if err := validate.Struct(&items[i]); err != nil {
			return fmt.Errorf("item %d: %w", i, decodeError(err))
		}
	}
	return nil
}

func decodeError(err error) error {
	fields := FormatValidationErrors(err)
	if len(fields) == 0 {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return fmt.Errorf("%w: %s", ErrDecode, strings.Join(parts, "; "))
}

// FormatValidationErrors converts validator errors to a readable format
func FormatValidationErrors(err error) []ValidationError {
	var errs []ValidationError

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			errs = append(errs, ValidationError{
				Field:   e.Namespace(),
				Message: getErrorMessage(e),
			})
		}
	}

	return errs
}

func getErrorMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "missing required field"
	case "datetime":
		return "must be a date formatted as " + e.Param()
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	case "gt":
		return "must be greater than " + e.Param()
	default:
		return "invalid value"
	}
}
