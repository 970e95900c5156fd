// Package loans resolves the repayment obligation for a season's input loan.
package loans

import (
	"fmt"
	"strings"

	"github.com/iwvelando/maize-roi/pkg/constants"
	"github.com/iwvelando/maize-roi/pkg/validation"
)

// RepaymentType selects how the loan is repaid and therefore its interest rate.
type RepaymentType int

const (
	// Bullet repays the loan in a single lump sum at term end.
	Bullet RepaymentType = iota
	// Installments repays the loan in two tranches at a higher rate.
	Installments
)

// String returns the canonical config value for the repayment type.
func (r RepaymentType) String() string {
	switch r {
	case Bullet:
		return "bullet"
	case Installments:
		return "installments"
	}
	return fmt.Sprintf("RepaymentType(%d)", int(r))
}

// Label returns the human-readable name shown in tables.
func (r RepaymentType) Label() string {
	switch r {
	case Bullet:
		return "Bullet Repayment"
	case Installments:
		return "Installments (2x)"
	}
	return r.String()
}

// ParseRepaymentType maps a config or UI value onto a RepaymentType.
func ParseRepaymentType(value string) (RepaymentType, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "bullet", "bullet repayment", "bullet-repayment":
		return Bullet, nil
	case "installments", "installment", "installments (2x)":
		return Installments, nil
	}
	return 0, fmt.Errorf("unrecognized repayment type %q: %w", value, validation.ErrInvalidInput)
}

// InterestRate returns the flat interest rate charged for the repayment type.
func InterestRate(repaymentType RepaymentType) (float64, error) {
	switch repaymentType {
	case Bullet:
		return constants.BulletInterestRate, nil
	case Installments:
		return constants.InstallmentsInterestRate, nil
	}
	return 0, fmt.Errorf("unrecognized repayment type %s: %w", repaymentType, validation.ErrInvalidInput)
}

// Terms holds the rates and derived amounts of a resolved loan.
type Terms struct {
	RepaymentType   RepaymentType
	Principal       float64
	FeeRate         float64
	InterestRate    float64
	InsuranceRate   float64
	ProcessingFee   float64
	Interest        float64
	InsuranceAmount float64
	ExtraExpenses   float64
	TotalRepayment  float64
}

// Resolve computes the repayment obligation for a budget. Insurance is
// charged only when insuranceEnabled is set; extraExpenses is folded into the
// total once the season's expenses are known and is zero before that.
func Resolve(budget float64, repaymentType RepaymentType, insuranceEnabled bool, extraExpenses float64) (Terms, error) {
	if err := validation.NonNegative("loan budget", budget); err != nil {
		return Terms{}, err
	}
	if err := validation.NonNegative("extra expenses", extraExpenses); err != nil {
		return Terms{}, err
	}
	interestRate, err := InterestRate(repaymentType)
	if err != nil {
		return Terms{}, err
	}

	terms := Terms{
		RepaymentType: repaymentType,
		Principal:     budget,
		FeeRate:       constants.ProcessingFeeRate,
		InterestRate:  interestRate,
		ExtraExpenses: extraExpenses,
	}
	terms.ProcessingFee = constants.ProcessingFeeRate * budget
	terms.Interest = interestRate * budget
	if insuranceEnabled {
		terms.InsuranceRate = constants.InsuranceRate
		terms.InsuranceAmount = constants.InsuranceRate * budget
	}
	terms.TotalRepayment = budget + terms.ProcessingFee + terms.Interest + terms.InsuranceAmount + extraExpenses

	return terms, nil
}

// InsuranceEnabled reports whether the terms carry a crop insurance premium.
func (t Terms) InsuranceEnabled() bool {
	return t.InsuranceRate > 0
}
