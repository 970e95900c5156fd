// Package configprocessor provides shared configuration processing utilities.
package configprocessor

import (
	"fmt"
	"sort"
	"strings"

	"github.com/iwvelando/maize-roi/pkg/constants"
)

// ActivityInfo represents work plan row configuration information
type ActivityInfo struct {
	Name      string
	StartWeek int
	EndWeek   int
	LaborType string
}

// ScenarioInfo represents scenario configuration information
type ScenarioInfo struct {
	Name   string
	Active bool
}

// PlanInfo represents the work plan and cash-flow configuration
type PlanInfo struct {
	Rates          map[string]float64
	Activities     []ActivityInfo
	IncomeActivity string
	CostSource     string
	CostMap        map[string]float64
}

// Processor handles configuration processing and validation
type Processor struct{}

// NewProcessor creates a new configuration processor
func NewProcessor() *Processor {
	return &Processor{}
}

// ValidateConfiguration validates the configuration and returns warnings.
// Nothing reported here stops a computation; each warning names an input the
// engine will price at zero or otherwise degrade.
func (p *Processor) ValidateConfiguration(plan PlanInfo, scenarios []ScenarioInfo) []string {
	var warnings []string

	seen := make(map[string]int)
	incomeFound := false
	for i, activity := range plan.Activities {
		name := activity.Name
		if strings.TrimSpace(name) == "" {
			name = fmt.Sprintf("#%d", i+1)
			warnings = append(warnings, fmt.Sprintf("Activity %s has no name", name))
		}
		seen[activity.Name]++
		if activity.Name == plan.IncomeActivity {
			incomeFound = true
		}

		if activity.EndWeek < activity.StartWeek {
			warnings = append(warnings, fmt.Sprintf("Activity '%s' ends in week %d before it starts in week %d; it will have zero duration",
				name, activity.EndWeek, activity.StartWeek))
		}
		if activity.StartWeek < 1 {
			warnings = append(warnings, fmt.Sprintf("Activity '%s' starts in week %d; its cash flow will be labeled by position",
				name, activity.StartWeek))
		}
		if _, ok := plan.Rates[activity.LaborType]; !ok && usesRates(plan.CostSource) {
			warnings = append(warnings, fmt.Sprintf("Activity '%s' uses labor type '%s' which has no rate; its labor cost will be zero",
				name, activity.LaborType))
		}
		if _, ok := plan.CostMap[activity.Name]; !ok && plan.CostSource == "costMap" {
			warnings = append(warnings, fmt.Sprintf("Activity '%s' has no entry in the cost map; its cash-flow cost will be zero", name))
		}
	}

	duplicates := make([]string, 0)
	for name, count := range seen {
		if count > 1 && strings.TrimSpace(name) != "" {
			duplicates = append(duplicates, name)
		}
	}
	sort.Strings(duplicates)
	for _, name := range duplicates {
		warnings = append(warnings, fmt.Sprintf("Activity '%s' is listed %d times; each row is costed separately", name, seen[name]))
	}

	if len(plan.Activities) > 0 && !incomeFound {
		warnings = append(warnings, fmt.Sprintf("Income activity '%s' is not in the work plan; the cash flow will show no income",
			plan.IncomeActivity))
	}

	if tractor, ok := plan.Rates[constants.TractorLaborType]; ok && tractor == 0 {
		warnings = append(warnings, "Tractor rate is zero; land preparation will be free")
	}

	if len(scenarios) > 0 {
		active := 0
		for _, scenario := range scenarios {
			if scenario.Active {
				active++
			}
		}
		if active == 0 {
			warnings = append(warnings, "No scenarios are active; nothing will be computed")
		}
	}

	if len(warnings) == 0 {
		return nil
	}
	return warnings
}

func usesRates(costSource string) bool {
	return costSource == "" || costSource == "rates" || costSource == "auto"
}
