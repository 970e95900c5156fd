// Package workplan validates the editable activity schedule and prices the
// labor each activity needs.
package workplan

import (
	"fmt"

	"github.com/iwvelando/maize-roi/pkg/constants"
	"github.com/iwvelando/maize-roi/pkg/validation"
	"go.uber.org/zap"
)

// Row is one user-editable line of the season's work plan.
type Row struct {
	Activity  string
	StartWeek int
	EndWeek   int
	LaborType string
}

// RateTable maps a labor type to its cost rate. The Tractor rate is per acre,
// every other rate is per working day.
type RateTable map[string]float64

// Rate returns the rate for laborType and whether the table defines it.
func (r RateTable) Rate(laborType string) (float64, bool) {
	rate, ok := r[laborType]
	return rate, ok
}

// ValidatedRow is a Row with its computed duration (weeks) and labor cost.
type ValidatedRow struct {
	Row
	Duration  int
	Cost      float64
	RateFound bool
}

// Duration returns the inclusive week span of a row, or 0 when the end week
// precedes the start week.
func Duration(startWeek, endWeek int) int {
	return max(endWeek-startWeek+1, 0)
}

// Validator prices work plan rows and logs the rows it had to degrade.
type Validator struct {
	logger *zap.Logger
}

// NewValidator creates a new validator with the given logger.
// If logger is nil, it will use a no-op logger to prevent panics.
func NewValidator(logger *zap.Logger) *Validator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Validator{logger: logger}
}

// Validate is a convenience wrapper around a Validator without logging.
func Validate(rows []Row, rates RateTable, farmSize float64) ([]ValidatedRow, error) {
	return NewValidator(nil).Validate(rows, rates, farmSize)
}

// Validate computes duration and cost for every row, preserving input order.
// Malformed rows and unknown labor types cost zero; no row is ever dropped.
func (v *Validator) Validate(rows []Row, rates RateTable, farmSize float64) ([]ValidatedRow, error) {
	if err := validation.NonNegative("farm size", farmSize); err != nil {
		return nil, err
	}

	validated := make([]ValidatedRow, len(rows))
	for i, row := range rows {
		duration := Duration(row.StartWeek, row.EndWeek)
		if duration == 0 {
			v.logger.Debug(fmt.Sprintf("activity %s ends in week %d before it starts in week %d, using zero duration",
				row.Activity, row.EndWeek, row.StartWeek),
				zap.String("op", "workplan.Validate"),
			)
		}

		rate, found := rates.Rate(row.LaborType)
		if !found {
			v.logger.Debug("no labor rate for activity, using zero cost",
				zap.String("op", "workplan.Validate"),
				zap.String("activity", row.Activity),
				zap.String("laborType", row.LaborType),
			)
		}

		var cost float64
		if row.LaborType == constants.TractorLaborType {
			cost = rate * farmSize
		} else {
			cost = rate * float64(duration) * constants.WorkingDaysPerWeek
		}

		validated[i] = ValidatedRow{
			Row:       row,
			Duration:  duration,
			Cost:      cost,
			RateFound: found,
		}
	}

	return validated, nil
}

// TotalCost sums the labor cost of validated rows.
func TotalCost(rows []ValidatedRow) float64 {
	total := 0.0
	for _, row := range rows {
		total += row.Cost
	}
	return total
}
