package validation

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is returned for inputs no computation can accept, such as
// a negative yield or an unknown repayment type. It is always wrapped with
// context; test for it with errors.Is.
var ErrInvalidInput = errors.New("invalid input")

// NonNegative returns an ErrInvalidInput naming the field if value is below zero.
func NonNegative(field string, value float64) error {
	if value < 0 {
		return fmt.Errorf("%s must be non-negative, got %v: %w", field, value, ErrInvalidInput)
	}
	return nil
}

// ValidateFarm checks the physical farm inputs shared by every computation.
func ValidateFarm(farmSize float64, bags int, pricePerBag float64) error {
	if err := NonNegative("farm size", farmSize); err != nil {
		return err
	}
	if err := NonNegative("expected yield", float64(bags)); err != nil {
		return err
	}
	return NonNegative("price per bag", pricePerBag)
}
