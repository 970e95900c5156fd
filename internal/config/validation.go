package config

import (
	"github.com/iwvelando/maize-roi/pkg/configprocessor"
)

// ValidateConfiguration performs general validation of the configuration and
// returns warnings for inputs the engine accepts but degrades, such as
// malformed work plan rows or labor types without a rate.
func (conf *Configuration) ValidateConfiguration() []string {
	var activities []configprocessor.ActivityInfo
	for _, activity := range conf.WorkPlan {
		activities = append(activities, configprocessor.ActivityInfo{
			Name:      activity.Name,
			StartWeek: activity.StartWeek,
			EndWeek:   activity.EndWeek,
			LaborType: activity.LaborType,
		})
	}

	var scenarios []configprocessor.ScenarioInfo
	for _, scenario := range conf.Scenarios {
		scenarios = append(scenarios, configprocessor.ScenarioInfo{
			Name:   scenario.Name,
			Active: scenario.Active,
		})
	}

	processor := configprocessor.NewProcessor()
	return processor.ValidateConfiguration(configprocessor.PlanInfo{
		Rates:          conf.RateTable(),
		Activities:     activities,
		IncomeActivity: conf.IncomeActivity(),
		CostSource:     conf.CashFlow.CostSource,
		CostMap:        conf.CostMap(),
	}, scenarios)
}
