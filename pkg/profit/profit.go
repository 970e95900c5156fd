// Package profit combines loan repayment, revenue and season expenses into a
// profit figure, a recommendation and a price sensitivity sweep.
package profit

import (
	"fmt"
	"iter"
	"math"
	"strconv"

	"github.com/iwvelando/maize-roi/pkg/constants"
	"github.com/iwvelando/maize-roi/pkg/loans"
	"github.com/iwvelando/maize-roi/pkg/mathutil"
	"github.com/iwvelando/maize-roi/pkg/revenue"
	"github.com/iwvelando/maize-roi/pkg/validation"
)

// FarmParameters are the season's physical and loan choices.
type FarmParameters struct {
	FarmSize      float64 // acres
	ExpectedYield int     // 50 kg bags
	PricePerBag   float64
	RepaymentType loans.RepaymentType
	Insurance     bool
}

// Validate rejects physically impossible farm parameters.
func (f FarmParameters) Validate() error {
	return validation.ValidateFarm(f.FarmSize, f.ExpectedYield, f.PricePerBag)
}

// Result is the profitability of one season.
type Result struct {
	Revenue        float64
	LaborCost      float64
	ExtraExpenses  float64
	TotalExpenses  float64
	TotalRepayment float64
	Profit         float64
	ROI            float64 // profit as a percentage of total repayment
	Recommendation string
	Terms          loans.Terms
}

// Profitable reports whether the season makes money.
func (r Result) Profitable() bool {
	return r.Recommendation == constants.RecommendationProfitable
}

// Aggregate computes the season's profit. The loan terms are re-resolved with
// the season's total expenses folded into the repayment, so terms only needs
// to carry the principal and repayment type.
func Aggregate(farm FarmParameters, terms loans.Terms, totalLaborCost, extraExpenses float64) (Result, error) {
	if err := farm.Validate(); err != nil {
		return Result{}, err
	}
	if err := validation.NonNegative("labor cost", totalLaborCost); err != nil {
		return Result{}, err
	}
	if err := validation.NonNegative("extra expenses", extraExpenses); err != nil {
		return Result{}, err
	}

	totalExpenses := totalLaborCost + extraExpenses
	gross, err := revenue.Calculate(farm.ExpectedYield, farm.PricePerBag)
	if err != nil {
		return Result{}, err
	}
	finalTerms, err := loans.Resolve(terms.Principal, farm.RepaymentType, farm.Insurance, totalExpenses)
	if err != nil {
		return Result{}, err
	}

	result := Result{
		Revenue:        gross,
		LaborCost:      totalLaborCost,
		ExtraExpenses:  extraExpenses,
		TotalExpenses:  totalExpenses,
		TotalRepayment: finalTerms.TotalRepayment,
		Profit:         gross - finalTerms.TotalRepayment,
		Terms:          finalTerms,
	}
	result.ROI = mathutil.CalculatePercentage(result.Profit, result.TotalRepayment)
	result.Recommendation = Recommend(result.Profit)
	return result, nil
}

// Recommend maps a profit onto one of the two recommendation states. Zero
// profit is loss-making.
func Recommend(profit float64) string {
	if profit > 0 {
		return constants.RecommendationProfitable
	}
	return constants.RecommendationLossMaking
}

// Advice returns the advisory sentence shown with a recommendation.
func Advice(recommendation string) string {
	if recommendation == constants.RecommendationProfitable {
		return "Your maize production is profitable under the current scenario. Aim to maximize yield and sell when market prices are favorable."
	}
	return "This scenario results in a loss. Consider increasing production or targeting higher market prices to improve ROI."
}

// ProfitAt returns the profit of selling bags at price against a fixed repayment.
func ProfitAt(bags int, price, repayment float64) float64 {
	return float64(bags)*price - repayment
}

// PriceGrid is a fixed-step range of prices per bag, inclusive of Low and of
// High when High lands on the grid.
type PriceGrid struct {
	Low  float64
	High float64
	Step float64
}

// DefaultPriceGrid returns the 30,000 to 100,000 MWK grid in 5,000 steps.
func DefaultPriceGrid() PriceGrid {
	return PriceGrid{Low: constants.DefaultSweepLow, High: constants.DefaultSweepHigh, Step: constants.DefaultSweepStep}
}

// Validate rejects grids that are empty or would never terminate.
func (g PriceGrid) Validate() error {
	if g.Step <= 0 || math.IsNaN(g.Step) || math.IsInf(g.Step, 0) {
		return fmt.Errorf("sensitivity step must be positive, got %v: %w", g.Step, validation.ErrInvalidInput)
	}
	if g.Low > g.High {
		return fmt.Errorf("sensitivity low %v above high %v: %w", g.Low, g.High, validation.ErrInvalidInput)
	}
	return validation.NonNegative("sensitivity low", g.Low)
}

// Len returns the number of prices on the grid.
func (g PriceGrid) Len() int {
	if g.Validate() != nil {
		return 0
	}
	// A small epsilon keeps High on the grid despite float drift.
	return int(math.Floor((g.High-g.Low)/g.Step+1e-9)) + 1
}

// Prices yields the grid's prices in increasing order. Each price is computed
// from its index so repeated sweeps produce identical values.
func (g PriceGrid) Prices() iter.Seq[float64] {
	return func(yield func(float64) bool) {
		n := g.Len()
		for i := 0; i < n; i++ {
			if !yield(g.Low + float64(i)*g.Step) {
				return
			}
		}
	}
}

// Sweep yields (price, profit) pairs across the grid, holding bags and
// repayment fixed. The sequence is lazy and can be ranged over repeatedly.
func Sweep(bags int, repayment float64, grid PriceGrid) iter.Seq2[float64, float64] {
	return func(yield func(float64, float64) bool) {
		for price := range grid.Prices() {
			if !yield(price, ProfitAt(bags, price, repayment)) {
				return
			}
		}
	}
}

// Point is a materialized sweep pair.
type Point struct {
	Price  float64
	Profit float64
}

// Collect materializes a sweep for callers that render or serialize it.
func Collect(sweep iter.Seq2[float64, float64]) []Point {
	var points []Point
	for price, p := range sweep {
		points = append(points, Point{Price: price, Profit: p})
	}
	return points
}

// BreakEven holds the thresholds at which a season stops losing money.
type BreakEven struct {
	// MinPricePerBag is the price above which profit is positive at the
	// expected yield. It is +Inf when the yield is zero.
	MinPricePerBag float64
	// MinBags is the smallest whole number of bags with positive profit at
	// the expected price. It is -1 when the price is zero.
	MinBags int
}

// FindBreakEven solves bags*price > repayment for price and for bags.
func FindBreakEven(bags int, price, repayment float64) BreakEven {
	be := BreakEven{MinPricePerBag: math.Inf(1), MinBags: -1}
	if bags > 0 {
		be.MinPricePerBag = repayment / float64(bags)
	}
	if price > 0 {
		// Profit must be strictly positive, so an exact division needs one more bag.
		be.MinBags = int(math.Floor(repayment/price)) + 1
		if repayment < 0 {
			be.MinBags = 0
		}
	}
	return be
}

// Amount renders a currency value for delimited export, rounded to the
// tambala and never as negative zero.
func Amount(v float64) string {
	rounded := mathutil.Round(v)
	if rounded == 0 {
		rounded = 0
	}
	return strconv.FormatFloat(rounded, 'f', 2, 64)
}

// SummaryHeader is the column order used when a result is exported.
var SummaryHeader = []string{"Metric", "Value"}

// Table flattens a result into Metric/Value records for delimited export.
func Table(result Result) [][]string {
	return [][]string{
		{"Repayment Type", result.Terms.RepaymentType.Label()},
		{"Principal", Amount(result.Terms.Principal)},
		{"Processing Fee", Amount(result.Terms.ProcessingFee)},
		{"Interest", Amount(result.Terms.Interest)},
		{"Insurance", Amount(result.Terms.InsuranceAmount)},
		{"Labor Cost", Amount(result.LaborCost)},
		{"Extra Expenses", Amount(result.ExtraExpenses)},
		{"Total Expenses", Amount(result.TotalExpenses)},
		{"Total Repayment", Amount(result.TotalRepayment)},
		{"Revenue", Amount(result.Revenue)},
		{"Profit", Amount(result.Profit)},
		{"ROI (%)", Amount(result.ROI)},
		{"Recommendation", result.Recommendation},
	}
}
