// Package cashflow projects the season's weekly costs and income from a
// validated work plan.
package cashflow

import (
	"fmt"
	"strconv"

	"github.com/iwvelando/maize-roi/pkg/datetime"
	"github.com/iwvelando/maize-roi/pkg/workplan"
	"go.uber.org/zap"
)

// LabelMode chooses how each entry's week label is derived.
type LabelMode int

const (
	// LabelByStartWeek labels a row with its own start week, falling back to
	// its position when the row has no start week.
	LabelByStartWeek LabelMode = iota
	// LabelByPosition labels rows "Week 1", "Week 2", ... in plan order.
	LabelByPosition
)

// CostSource chooses where each entry's cost comes from.
type CostSource int

const (
	// CostFromRates uses the labor cost computed by the work plan validator.
	CostFromRates CostSource = iota
	// CostFromMap looks the activity up in a flat cost map, defaulting to 0.
	CostFromMap
	// CostAuto uses the rate-driven cost when the row's labor type had a
	// rate and the cost map otherwise.
	CostAuto
)

// ParseLabelMode maps a config value onto a LabelMode. Empty means the default.
func ParseLabelMode(value string) (LabelMode, error) {
	switch value {
	case "", "startWeek":
		return LabelByStartWeek, nil
	case "position":
		return LabelByPosition, nil
	}
	return 0, fmt.Errorf("unknown week label mode %q, expected startWeek or position", value)
}

// ParseCostSource maps a config value onto a CostSource. Empty means the default.
func ParseCostSource(value string) (CostSource, error) {
	switch value {
	case "", "rates":
		return CostFromRates, nil
	case "costMap":
		return CostFromMap, nil
	case "auto":
		return CostAuto, nil
	}
	return 0, fmt.Errorf("unknown cost source %q, expected rates, costMap or auto", value)
}

// Options control a single projection. The zero value labels by start week
// and uses rate-driven costs.
type Options struct {
	Labels  LabelMode
	Costs   CostSource
	CostMap map[string]float64
	// SeasonStart (YYYY-MM-DD) dates each entry when set.
	SeasonStart string
}

// Entry is one week of the cash-flow projection.
type Entry struct {
	Week       string
	WeekNumber int
	Date       string
	Activity   string
	Cost       float64
	Income     float64
	NetFlow    float64
	Cumulative float64
}

// Projector builds cash-flow projections and logs cost-map fallbacks.
type Projector struct {
	logger *zap.Logger
}

// NewProjector creates a new projector with the given logger.
// If logger is nil, it will use a no-op logger to prevent panics.
func NewProjector(logger *zap.Logger) *Projector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Projector{logger: logger}
}

// Project is a convenience wrapper around a Projector without logging.
func Project(rows []workplan.ValidatedRow, totalIncome float64, incomeActivity string, opts Options) ([]Entry, error) {
	return NewProjector(nil).Project(rows, totalIncome, incomeActivity, opts)
}

// Project returns one entry per validated row, in row order. Only rows named
// incomeActivity receive totalIncome; every other row has zero income.
func (p *Projector) Project(rows []workplan.ValidatedRow, totalIncome float64, incomeActivity string, opts Options) ([]Entry, error) {
	entries := make([]Entry, 0, len(rows))
	cumulative := 0.0
	for i, row := range rows {
		week := i + 1
		if opts.Labels == LabelByStartWeek && row.StartWeek > 0 {
			week = row.StartWeek
		}

		entry := Entry{
			Week:       datetime.WeekLabel(week),
			WeekNumber: week,
			Activity:   row.Activity,
			Cost:       p.cost(row, opts),
		}
		if opts.SeasonStart != "" {
			date, err := datetime.WeekStart(opts.SeasonStart, week)
			if err != nil {
				return nil, fmt.Errorf("failed to date %s: %w", entry.Week, err)
			}
			entry.Date = date
		}
		if row.Activity == incomeActivity {
			entry.Income = totalIncome
		}
		entry.NetFlow = entry.Income - entry.Cost
		cumulative += entry.NetFlow
		entry.Cumulative = cumulative

		entries = append(entries, entry)
	}
	return entries, nil
}

func (p *Projector) cost(row workplan.ValidatedRow, opts Options) float64 {
	switch opts.Costs {
	case CostFromMap:
		return p.lookup(row.Activity, opts.CostMap)
	case CostAuto:
		if row.RateFound {
			return row.Cost
		}
		return p.lookup(row.Activity, opts.CostMap)
	}
	return row.Cost
}

func (p *Projector) lookup(activity string, costMap map[string]float64) float64 {
	cost, ok := costMap[activity]
	if !ok {
		p.logger.Debug("no mapped cost for activity, using zero cost",
			zap.String("op", "cashflow.Project"),
			zap.String("activity", activity),
		)
	}
	return cost
}

// Summary holds the season totals of a projection.
type Summary struct {
	Cost    float64
	Income  float64
	NetFlow float64
	// LowestCumulative is the deepest cash position reached during the
	// season, i.e. the working capital the plan needs before the sale.
	LowestCumulative float64
}

// Totals sums a projection.
func Totals(entries []Entry) Summary {
	var summary Summary
	for _, entry := range entries {
		summary.Cost += entry.Cost
		summary.Income += entry.Income
		summary.NetFlow += entry.NetFlow
		summary.LowestCumulative = min(summary.LowestCumulative, entry.Cumulative)
	}
	return summary
}

// Header is the column order used when a projection is exported.
var Header = []string{"Week", "Date", "Activity", "Cost", "Income", "Net Flow", "Cumulative"}

// Table flattens entries into string records for delimited export.
func Table(entries []Entry) [][]string {
	records := make([][]string, 0, len(entries))
	for _, entry := range entries {
		records = append(records, []string{
			entry.Week,
			entry.Date,
			entry.Activity,
			strconv.FormatFloat(entry.Cost, 'f', 2, 64),
			strconv.FormatFloat(entry.Income, 'f', 2, 64),
			strconv.FormatFloat(entry.NetFlow, 'f', 2, 64),
			strconv.FormatFloat(entry.Cumulative, 'f', 2, 64),
		})
	}
	return records
}
