package config

import (
	"github.com/iwvelando/maize-roi/pkg/constants"
	"github.com/spf13/viper"
)

// DefaultLaborRates are the MWK rates used when the config sets none.
var DefaultLaborRates = []LaborRate{
	{Type: constants.TractorLaborType, Rate: 30000},
	{Type: "Casual", Rate: 2000},
	{Type: "Seasonal", Rate: 1500},
}

// DefaultWorkPlan is a typical rain-fed maize season.
var DefaultWorkPlan = []Activity{
	{Name: "Land Preparation", StartWeek: 1, EndWeek: 2, LaborType: constants.TractorLaborType},
	{Name: "Planting", StartWeek: 3, EndWeek: 3, LaborType: "Casual"},
	{Name: "Fertilizer Application", StartWeek: 4, EndWeek: 5, LaborType: "Casual"},
	{Name: "Weeding", StartWeek: 6, EndWeek: 8, LaborType: "Seasonal"},
	{Name: "Pest Control", StartWeek: 9, EndWeek: 9, LaborType: "Casual"},
	{Name: "Harvesting", StartWeek: 16, EndWeek: 17, LaborType: "Seasonal"},
	{Name: constants.DefaultIncomeActivity, StartWeek: 18, EndWeek: 19, LaborType: "Casual"},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("farm.size", 5.0)
	v.SetDefault("farm.expectedYield", 150)
	v.SetDefault("farm.pricePerBag", 60000.0)
	v.SetDefault("farm.useMarketPrice", false)

	v.SetDefault("loan.budget", constants.DefaultLoanBudget)
	v.SetDefault("loan.repaymentType", "bullet")
	v.SetDefault("loan.insurance", true)

	v.SetDefault("laborRates", laborRatesDefault())
	v.SetDefault("workPlan", workPlanDefault())

	v.SetDefault("cashFlow.incomeActivity", constants.DefaultIncomeActivity)
	v.SetDefault("cashFlow.weekLabels", "startWeek")
	v.SetDefault("cashFlow.costSource", "rates")

	v.SetDefault("sensitivity.low", constants.DefaultSweepLow)
	v.SetDefault("sensitivity.high", constants.DefaultSweepHigh)
	v.SetDefault("sensitivity.step", constants.DefaultSweepStep)

	v.SetDefault("output.format", constants.OutputFormatPretty)
}

// Viper defaults must be plain maps so they merge with file values the same
// way decoded YAML does.
func laborRatesDefault() []map[string]interface{} {
	rates := make([]map[string]interface{}, 0, len(DefaultLaborRates))
	for _, rate := range DefaultLaborRates {
		rates = append(rates, map[string]interface{}{"type": rate.Type, "rate": rate.Rate})
	}
	return rates
}

func workPlanDefault() []map[string]interface{} {
	plan := make([]map[string]interface{}, 0, len(DefaultWorkPlan))
	for _, activity := range DefaultWorkPlan {
		plan = append(plan, map[string]interface{}{
			"name":      activity.Name,
			"startWeek": activity.StartWeek,
			"endWeek":   activity.EndWeek,
			"laborType": activity.LaborType,
		})
	}
	return plan
}
