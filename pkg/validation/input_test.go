package validation

import (
	"errors"
	"strings"
	"testing"
)

func TestNonNegative(t *testing.T) {
	tests := []struct {
		name      string
		value     float64
		expectErr bool
	}{
		{"Zero", 0, false},
		{"Positive", 4452000, false},
		{"Negative", -1, true},
		{"Tiny negative", -0.0001, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NonNegative("amount", tt.value)
			if tt.expectErr {
				if err == nil {
					t.Fatalf("NonNegative(%v) expected error but got none", tt.value)
				}
				if !errors.Is(err, ErrInvalidInput) {
					t.Errorf("NonNegative(%v) error %v does not wrap ErrInvalidInput", tt.value, err)
				}
				if !strings.Contains(err.Error(), "amount") {
					t.Errorf("NonNegative(%v) error %q does not name the field", tt.value, err)
				}
			} else if err != nil {
				t.Errorf("NonNegative(%v) unexpected error = %v", tt.value, err)
			}
		})
	}
}

func TestValidateFarm(t *testing.T) {
	tests := []struct {
		name      string
		farmSize  float64
		bags      int
		price     float64
		expectErr string
	}{
		{"Valid", 5, 150, 60000, ""},
		{"Zero everything", 0, 0, 0, ""},
		{"Negative farm size", -2, 150, 60000, "farm size"},
		{"Negative yield", 5, -1, 60000, "expected yield"},
		{"Negative price", 5, 150, -60000, "price per bag"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFarm(tt.farmSize, tt.bags, tt.price)
			if tt.expectErr == "" {
				if err != nil {
					t.Errorf("ValidateFarm() unexpected error = %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("ValidateFarm() expected error mentioning %q", tt.expectErr)
			}
			if !errors.Is(err, ErrInvalidInput) || !strings.Contains(err.Error(), tt.expectErr) {
				t.Errorf("ValidateFarm() error = %v, expected ErrInvalidInput mentioning %q", err, tt.expectErr)
			}
		})
	}
}
