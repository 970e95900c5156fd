// Package revenue computes gross sale revenue for a harvest.
package revenue

import "github.com/iwvelando/maize-roi/pkg/validation"

// Calculate returns the gross revenue of selling bags (50 kg each) at
// pricePerBag. Negative inputs are rejected so that revenue is never negative.
func Calculate(bags int, pricePerBag float64) (float64, error) {
	if err := validation.NonNegative("bags", float64(bags)); err != nil {
		return 0, err
	}
	if err := validation.NonNegative("price per bag", pricePerBag); err != nil {
		return 0, err
	}
	return float64(bags) * pricePerBag, nil
}
