package validator

import (
	"fmt"
	"reflect"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	SkuRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._\-/]*$`)
)

// Validator is a validator that validates the given struct.
type Validator interface {
	// Validate validates the given struct
	Validate(s any) error
}

type DefaultValidator struct {
	v *validator.Validate
}

// NewDefaultValidator creates a new default validator.
// It returns a new DefaultValidator and an error if the validator registration fails.
func NewDefaultValidator() (*DefaultValidator, error) {
	v := validator.New()

	// Decimals are validated through their string form.
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})

	// Register custom validators
	if err := v.RegisterValidation("sku", validateSku); err != nil {
		return nil, fmt.Errorf("register sku validator: %w", err)
	}

	if err := v.RegisterValidation("dgte", validateDecimalGte); err != nil {
		return nil, fmt.Errorf("register dgte validator: %w", err)
	}

	if err := v.RegisterValidation("dgt", validateDecimalGt); err != nil {
		return nil, fmt.Errorf("register dgt validator: %w", err)
	}

	return &DefaultValidator{v: v}, nil
}

func (v DefaultValidator) Validate(s any) error {
	return v.v.Struct(s)
}

// IsValidationError checks if the given error is a validation error
func IsValidationError(err error) bool {
	_, ok := err.(validator.ValidationErrors)
	return ok
}

func ValidationErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field is required"
	case "uuid":
		return "must be a valid UUID"
	case "url":
		return "must be a valid URL"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gte", "dgte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "gt", "dgt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "sku":
		return "must start with a letter or digit and contain only letters, digits, '.', '_', '-' or '/'"
	default:
		return "is invalid"
	}
}

func validateSku(fl validator.FieldLevel) bool {
	return SkuRegex.MatchString(fl.Field().String())
}

func validateDecimalGte(fl validator.FieldLevel) bool {
	return compareDecimal(fl, func(value, bound decimal.Decimal) bool {
		return value.GreaterThanOrEqual(bound)
	})
}

func validateDecimalGt(fl validator.FieldLevel) bool {
	return compareDecimal(fl, func(value, bound decimal.Decimal) bool {
		return value.GreaterThan(bound)
	})
}

func compareDecimal(fl validator.FieldLevel, cmp func(value, bound decimal.Decimal) bool) bool {
	bound, err := decimal.NewFromString(fl.Param())
	if err != nil {
		return false
	}

	if fl.Field().Kind() != reflect.String {
		return false
	}
	value, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}

	return cmp(value, bound)
}

func decimalValue(field reflect.Value) any {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		return d.String()
	}
	return nil
}
