// Package planner runs the season computation for every active scenario of a
// configuration.
package planner

import (
	"context"
	"fmt"

	"github.com/iwvelando/maize-roi/internal/config"
	"github.com/iwvelando/maize-roi/pkg/cashflow"
	"github.com/iwvelando/maize-roi/pkg/loans"
	"github.com/iwvelando/maize-roi/pkg/market"
	"github.com/iwvelando/maize-roi/pkg/profit"
	"github.com/iwvelando/maize-roi/pkg/validation"
	"github.com/iwvelando/maize-roi/pkg/workplan"
	"go.uber.org/zap"
)

// Result holds everything computed for one scenario.
type Result struct {
	Name        string
	Parameters  config.ScenarioParameters
	PriceQuote  *market.PriceQuote
	WorkPlan    []workplan.ValidatedRow
	CashFlow    []cashflow.Entry
	CashSummary cashflow.Summary
	Profit      profit.Result
	Sensitivity []profit.Point
	BreakEven   profit.BreakEven
}

// Run computes every active scenario. prices is consulted only by scenarios
// that ask for the market price and may be nil otherwise. The first invalid
// input aborts the run.
func Run(ctx context.Context, logger *zap.Logger, conf config.Configuration, prices market.PriceSource) ([]Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	opts, err := conf.CashFlowOptions()
	if err != nil {
		return nil, fmt.Errorf("invalid cash flow configuration, %s: %w", err, validation.ErrInvalidInput)
	}
	grid := conf.PriceGrid()
	if err := grid.Validate(); err != nil {
		return nil, err
	}

	validator := workplan.NewValidator(logger)
	projector := cashflow.NewProjector(logger)
	rows := conf.Rows()
	rates := conf.RateTable()

	var results []Result
	for _, scenario := range conf.ActiveScenarios() {
		params, err := conf.Parameters(scenario)
		if err != nil {
			return nil, err
		}

		result := Result{Name: scenario.Name}
		if params.UseMarketPrice {
			if prices == nil {
				return nil, fmt.Errorf("scenario %s uses the market price but no price source is configured", scenario.Name)
			}
			quote, err := prices.CurrentPrice(ctx)
			if err != nil {
				return nil, fmt.Errorf("scenario %s: failed to fetch market price: %w", scenario.Name, err)
			}
			if err := validation.NonNegative("market price per bag", quote.PricePerBag); err != nil {
				return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
			}
			logger.Debug(fmt.Sprintf("using %s market price %.2f for scenario %s", quote.Source, quote.PricePerBag, scenario.Name),
				zap.String("op", "planner.Run"),
			)
			params.Farm.PricePerBag = quote.PricePerBag
			result.PriceQuote = &quote
		}
		result.Parameters = params

		result.WorkPlan, err = validator.Validate(rows, rates, params.Farm.FarmSize)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
		}
		laborCost := workplan.TotalCost(result.WorkPlan)

		terms, err := loans.Resolve(params.Budget, params.Farm.RepaymentType, params.Farm.Insurance, 0)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
		}
		result.Profit, err = profit.Aggregate(params.Farm, terms, laborCost, params.ExtraExpenses)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
		}

		result.CashFlow, err = projector.Project(result.WorkPlan, result.Profit.Revenue, conf.IncomeActivity(), opts)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
		}
		result.CashSummary = cashflow.Totals(result.CashFlow)

		result.Sensitivity = profit.Collect(profit.Sweep(params.Farm.ExpectedYield, result.Profit.TotalRepayment, grid))
		result.BreakEven = profit.FindBreakEven(params.Farm.ExpectedYield, params.Farm.PricePerBag, result.Profit.TotalRepayment)

		logger.Debug("scenario computed",
			zap.String("op", "planner.Run"),
			zap.String("scenario", scenario.Name),
			zap.Float64("revenue", result.Profit.Revenue),
			zap.Float64("repayment", result.Profit.TotalRepayment),
			zap.Float64("profit", result.Profit.Profit),
			zap.String("recommendation", result.Profit.Recommendation),
		)
		results = append(results, result)
	}

	return results, nil
}

// MarketSources builds the placeholder price and weather sources from the
// market section of conf.
func MarketSources(conf config.Configuration) (market.PriceSource, market.WeatherSource, error) {
	prices, err := market.NewStaticPriceSource(conf.Market.PricePerBag, conf.Market.Source)
	if err != nil {
		return nil, nil, err
	}
	weather := market.NewStaticWeatherSource(conf.Market.Location, conf.Market.Weather, conf.Market.RainfallMM, conf.Market.TempC)
	return prices, weather, nil
}
