package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateStruct validates a struct using go-playground/validator
func ValidateStruct(s interface{}) error {
	if s == nil {
		return nil
	}

	val := reflect.ValueOf(s)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	if val.Kind() != reflect.Struct {
		return fmt.Errorf("validator: expected a struct, got %T", s)
	}

	err := validate.Struct(s)
	if err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			errMsgs := make([]string, 0, len(ve))
			for _, e := range ve {
				errMsgs = append(errMsgs, fmt.Sprintf("field '%s' failed validation: %s", e.Field(), e.Tag()))
			}
			// Keep the validator error in the chain so FieldErrors can
			// recover per-field details from the wrapped error.
			return fmt.Errorf("%s: %w", strings.Join(errMsgs, "; "), err)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	return nil
}

// FieldErrors returns a field→message map for validator errors, or nil when
// err is not a validation error.
func FieldErrors(err error) map[string]string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return nil
	}
	fields := make(map[string]string, len(ve))
	for _, e := range ve {
		fields[strings.ToLower(e.Field())] = fmt.Sprintf("failed on the '%s' rule", e.Tag())
	}
	return fields
}
