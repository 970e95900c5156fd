package integration

import (
	"bytes"
	"context"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iwvelando/maize-roi/internal/config"
	"github.com/iwvelando/maize-roi/internal/planner"
	"github.com/iwvelando/maize-roi/pkg/constants"
	"github.com/iwvelando/maize-roi/pkg/loans"
	"github.com/iwvelando/maize-roi/pkg/output"
	"github.com/iwvelando/maize-roi/pkg/testutil"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const testConfigPath = "../test_config.yaml"

func assertAmount(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > constants.CurrencyTolerance {
		t.Errorf("%s = %.2f, want %.2f", name, got, want)
	}
}

// TestSeasonBaseline checks the full pipeline against hand-computed values
// for the default maize season.
func TestSeasonBaseline(t *testing.T) {
	results := testutil.RunConfig(t, testConfigPath)
	if len(results) != 3 {
		t.Fatalf("expected 3 active scenarios, got %d", len(results))
	}
	if testutil.FindScenario(results, "Drought") != nil {
		t.Error("inactive scenario Drought should not be computed")
	}

	tests := []struct {
		scenario       string
		repaymentType  loans.RepaymentType
		fee            float64
		interest       float64
		insurance      float64
		revenue        float64
		totalRepayment float64
		profit         float64
	}{
		{"Bullet with insurance", loans.Bullet, 244860, 97944, 222600, 9000000, 5264904, 3735096},
		{"Installments without insurance", loans.Installments, 244860, 195888, 0, 9000000, 5140248, 3859752},
		{"Market price", loans.Bullet, 244860, 97944, 222600, 9750000, 5264904, 4485096},
	}

	for _, tt := range tests {
		t.Run(tt.scenario, func(t *testing.T) {
			result := testutil.FindScenario(results, tt.scenario)
			if result == nil {
				t.Fatalf("scenario %s not found", tt.scenario)
			}
			terms := result.Profit.Terms
			if terms.RepaymentType != tt.repaymentType {
				t.Errorf("repayment type = %s, want %s", terms.RepaymentType, tt.repaymentType)
			}
			assertAmount(t, "processing fee", terms.ProcessingFee, tt.fee)
			assertAmount(t, "interest", terms.Interest, tt.interest)
			assertAmount(t, "insurance", terms.InsuranceAmount, tt.insurance)
			assertAmount(t, "labor cost", result.Profit.LaborCost, 247500)
			assertAmount(t, "revenue", result.Profit.Revenue, tt.revenue)
			assertAmount(t, "total repayment", result.Profit.TotalRepayment, tt.totalRepayment)
			assertAmount(t, "profit", result.Profit.Profit, tt.profit)
			if !result.Profit.Profitable() {
				t.Errorf("expected %s to be profitable", tt.scenario)
			}

			// The sweep at the scenario's own price reproduces its profit.
			for _, point := range result.Sensitivity {
				if point.Price == result.Parameters.Farm.PricePerBag {
					assertAmount(t, "sweep profit at scenario price", point.Profit, tt.profit)
				}
			}
		})
	}
}

// TestSweepCrossesBreakEven checks that the sweep changes sign exactly around
// the break-even price.
func TestSweepCrossesBreakEven(t *testing.T) {
	results := testutil.RunConfig(t, testConfigPath)
	result := testutil.FindScenario(results, "Bullet with insurance")

	breakEven := result.BreakEven.MinPricePerBag
	for _, point := range result.Sensitivity {
		if point.Price <= breakEven && point.Profit > 0 {
			t.Errorf("price %.2f at or below break-even %.2f should not be profitable", point.Price, breakEven)
		}
		if point.Price > breakEven && point.Profit <= 0 {
			t.Errorf("price %.2f above break-even %.2f should be profitable", point.Price, breakEven)
		}
	}
}

func TestCashFlowIncomeLandsOnce(t *testing.T) {
	results := testutil.RunConfig(t, testConfigPath)

	for _, result := range results {
		incomeRows := 0
		for _, entry := range result.CashFlow {
			if entry.Income != 0 {
				incomeRows++
				if entry.Activity != constants.DefaultIncomeActivity {
					t.Errorf("%s: income booked on %s", result.Name, entry.Activity)
				}
			}
		}
		if incomeRows != 1 {
			t.Errorf("%s: expected income on exactly one row, got %d", result.Name, incomeRows)
		}
		assertAmount(t, result.Name+" cash flow income", result.CashSummary.Income, result.Profit.Revenue)
	}
}

func TestOutputFormats(t *testing.T) {
	results := testutil.RunConfig(t, testConfigPath)

	var pretty bytes.Buffer
	if err := output.PrettyFormat(&pretty, results); err != nil {
		t.Fatalf("PrettyFormat failed: %v", err)
	}
	for _, result := range results {
		if !strings.Contains(pretty.String(), "--- Results for scenario "+result.Name+" ---") {
			t.Errorf("pretty output missing scenario %s", result.Name)
		}
	}

	csvData, err := output.CsvString(results)
	if err != nil {
		t.Fatalf("CsvString failed: %v", err)
	}
	if !strings.Contains(csvData, "Market price,Price Source,ADMARC") {
		t.Errorf("CSV output missing the market price source:\n%s", csvData)
	}

	path := filepath.Join(t.TempDir(), constants.DefaultXLSXFile)
	if err := output.WriteXLSX(path, results); err != nil {
		t.Fatalf("WriteXLSX failed: %v", err)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("failed to open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(output.SectionSensitivity)
	if err != nil {
		t.Fatalf("failed to read sensitivity sheet: %v", err)
	}
	// Header plus 15 prices for each of the 3 scenarios.
	if len(rows) != 46 {
		t.Errorf("expected 46 sensitivity rows, got %d", len(rows))
	}
}

func TestEndToEndWithCostMap(t *testing.T) {
	conf, err := config.LoadConfiguration(testConfigPath)
	if err != nil {
		t.Fatalf("LoadConfiguration failed: %v", err)
	}
	conf.Scenarios = nil
	conf.CashFlow.CostSource = "auto"
	conf.CashFlow.CostMap = []config.ActivityCost{{Activity: "Scouting", Cost: 12000}}
	conf.WorkPlan = append(conf.WorkPlan, config.Activity{Name: "Scouting", StartWeek: 10, EndWeek: 10, LaborType: "Drone"})

	warnings := conf.ValidateConfiguration()
	if len(warnings) != 1 {
		t.Errorf("expected one warning for the unpriced labor type, got %v", warnings)
	}

	results, err := planner.Run(context.Background(), zap.NewNop(), *conf, nil)
	if err != nil {
		t.Fatalf("planner.Run failed: %v", err)
	}
	result := results[0]

	// Labor cost ignores the cost map; the cash flow falls back to it.
	assertAmount(t, "labor cost", result.Profit.LaborCost, 247500)
	assertAmount(t, "cash flow cost", result.CashSummary.Cost, 259500)
}
