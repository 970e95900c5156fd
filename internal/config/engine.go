package config

import (
	"fmt"

	"github.com/iwvelando/maize-roi/pkg/cashflow"
	"github.com/iwvelando/maize-roi/pkg/constants"
	"github.com/iwvelando/maize-roi/pkg/datetime"
	"github.com/iwvelando/maize-roi/pkg/loans"
	"github.com/iwvelando/maize-roi/pkg/profit"
	"github.com/iwvelando/maize-roi/pkg/workplan"
)

// ScenarioParameters are the fully resolved engine inputs of one scenario.
type ScenarioParameters struct {
	Name           string
	Farm           profit.FarmParameters
	Budget         float64
	ExtraExpenses  float64
	UseMarketPrice bool
}

// RateTable converts the configured labor rates into a lookup table. A type
// listed twice keeps its last rate.
func (conf *Configuration) RateTable() workplan.RateTable {
	rates := make(workplan.RateTable, len(conf.LaborRates))
	for _, rate := range conf.LaborRates {
		rates[rate.Type] = rate.Rate
	}
	return rates
}

// Rows converts the configured work plan into engine rows, in plan order.
func (conf *Configuration) Rows() []workplan.Row {
	rows := make([]workplan.Row, 0, len(conf.WorkPlan))
	for _, activity := range conf.WorkPlan {
		rows = append(rows, workplan.Row{
			Activity:  activity.Name,
			StartWeek: activity.StartWeek,
			EndWeek:   activity.EndWeek,
			LaborType: activity.LaborType,
		})
	}
	return rows
}

// CostMap converts the static activity costs into a lookup table.
func (conf *Configuration) CostMap() map[string]float64 {
	costs := make(map[string]float64, len(conf.CashFlow.CostMap))
	for _, entry := range conf.CashFlow.CostMap {
		costs[entry.Activity] = entry.Cost
	}
	return costs
}

// CashFlowOptions builds the projection options from the cashFlow section.
func (conf *Configuration) CashFlowOptions() (cashflow.Options, error) {
	labels, err := cashflow.ParseLabelMode(conf.CashFlow.WeekLabels)
	if err != nil {
		return cashflow.Options{}, err
	}
	costs, err := cashflow.ParseCostSource(conf.CashFlow.CostSource)
	if err != nil {
		return cashflow.Options{}, err
	}
	if conf.CashFlow.SeasonStart != "" && !datetime.ValidSeasonStart(conf.CashFlow.SeasonStart) {
		return cashflow.Options{}, fmt.Errorf("season start %q does not match layout %s",
			conf.CashFlow.SeasonStart, datetime.DateLayout)
	}
	return cashflow.Options{
		Labels:      labels,
		Costs:       costs,
		CostMap:     conf.CostMap(),
		SeasonStart: conf.CashFlow.SeasonStart,
	}, nil
}

// IncomeActivity returns the activity that receives the sale income.
func (conf *Configuration) IncomeActivity() string {
	if conf.CashFlow.IncomeActivity == "" {
		return constants.DefaultIncomeActivity
	}
	return conf.CashFlow.IncomeActivity
}

// PriceGrid returns the sensitivity sweep grid.
func (conf *Configuration) PriceGrid() profit.PriceGrid {
	return profit.PriceGrid{
		Low:  conf.Sensitivity.Low,
		High: conf.Sensitivity.High,
		Step: conf.Sensitivity.Step,
	}
}

// ActiveScenarios returns the scenarios to compute. A config without any
// scenarios computes a single baseline from the shared parameters.
func (conf *Configuration) ActiveScenarios() []Scenario {
	if len(conf.Scenarios) == 0 {
		return []Scenario{{Name: constants.DefaultScenarioName, Active: true}}
	}
	var active []Scenario
	for _, scenario := range conf.Scenarios {
		if scenario.Active {
			active = append(active, scenario)
		}
	}
	return active
}

// Parameters resolves a scenario's overrides against the shared farm and
// loan parameters.
func (conf *Configuration) Parameters(scenario Scenario) (ScenarioParameters, error) {
	repaymentValue := conf.Loan.RepaymentType
	if scenario.RepaymentType != "" {
		repaymentValue = scenario.RepaymentType
	}
	repaymentType, err := loans.ParseRepaymentType(repaymentValue)
	if err != nil {
		return ScenarioParameters{}, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	params := ScenarioParameters{
		Name: scenario.Name,
		Farm: profit.FarmParameters{
			FarmSize:      conf.Farm.Size,
			ExpectedYield: conf.Farm.ExpectedYield,
			PricePerBag:   conf.Farm.PricePerBag,
			RepaymentType: repaymentType,
			Insurance:     conf.Loan.Insurance,
		},
		Budget:         conf.Loan.Budget,
		UseMarketPrice: conf.Farm.UseMarketPrice,
	}
	if scenario.FarmSize != nil {
		params.Farm.FarmSize = *scenario.FarmSize
	}
	if scenario.ExpectedYield != nil {
		params.Farm.ExpectedYield = *scenario.ExpectedYield
	}
	if scenario.PricePerBag != nil {
		params.Farm.PricePerBag = *scenario.PricePerBag
	}
	if scenario.UseMarketPrice != nil {
		params.UseMarketPrice = *scenario.UseMarketPrice
	}
	if scenario.Insurance != nil {
		params.Farm.Insurance = *scenario.Insurance
	}

	for _, expense := range conf.Expenses {
		params.ExtraExpenses += expense.Amount
	}
	for _, expense := range scenario.Expenses {
		params.ExtraExpenses += expense.Amount
	}

	if err := params.Farm.Validate(); err != nil {
		return ScenarioParameters{}, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}
	return params, nil
}
