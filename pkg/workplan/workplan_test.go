package workplan

import (
	"errors"
	"math"
	"testing"

	"github.com/iwvelando/maize-roi/pkg/validation"
	"go.uber.org/zap"
)

var testRates = RateTable{
	"Tractor":  30000,
	"Casual":   2000,
	"Seasonal": 1500,
}

func TestDuration(t *testing.T) {
	tests := []struct {
		name     string
		start    int
		end      int
		expected int
	}{
		{"Single week", 3, 3, 1},
		{"Three weeks", 4, 6, 3},
		{"Malformed", 5, 3, 0},
		{"End one before start", 5, 4, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := Duration(tt.start, tt.end); result != tt.expected {
				t.Errorf("Duration(%d, %d) = %d, expected %d", tt.start, tt.end, result, tt.expected)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name             string
		row              Row
		farmSize         float64
		expectedDuration int
		expectedCost     float64
		expectedFound    bool
	}{
		{
			name:             "Tractor is flat per acre",
			row:              Row{Activity: "Land Preparation", StartWeek: 1, EndWeek: 2, LaborType: "Tractor"},
			farmSize:         5,
			expectedDuration: 2,
			expectedCost:     150000,
			expectedFound:    true,
		},
		{
			name:             "Tractor ignores malformed weeks",
			row:              Row{Activity: "Land Preparation", StartWeek: 9, EndWeek: 1, LaborType: "Tractor"},
			farmSize:         5,
			expectedDuration: 0,
			expectedCost:     150000,
			expectedFound:    true,
		},
		{
			name:             "Casual per day over weeks",
			row:              Row{Activity: "Weeding", StartWeek: 6, EndWeek: 8, LaborType: "Casual"},
			farmSize:         5,
			expectedDuration: 3,
			expectedCost:     30000, // 2000 * 3 * 5
			expectedFound:    true,
		},
		{
			name:             "Malformed row costs nothing",
			row:              Row{Activity: "Planting", StartWeek: 5, EndWeek: 3, LaborType: "Casual"},
			farmSize:         5,
			expectedDuration: 0,
			expectedCost:     0,
			expectedFound:    true,
		},
		{
			name:             "Unknown labor type costs nothing",
			row:              Row{Activity: "Scouting", StartWeek: 2, EndWeek: 4, LaborType: "Family"},
			farmSize:         5,
			expectedDuration: 3,
			expectedCost:     0,
			expectedFound:    false,
		},
	}

	validator := NewValidator(zap.NewNop())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := validator.Validate([]Row{tt.row}, testRates, tt.farmSize)
			if err != nil {
				t.Fatalf("Validate() error = %v", err)
			}
			if len(result) != 1 {
				t.Fatalf("Validate() returned %d rows, expected 1", len(result))
			}
			got := result[0]
			if got.Row != tt.row {
				t.Errorf("Validate() altered row fields: %+v", got.Row)
			}
			if got.Duration != tt.expectedDuration {
				t.Errorf("Duration = %d, expected %d", got.Duration, tt.expectedDuration)
			}
			if math.Abs(got.Cost-tt.expectedCost) > 0.01 {
				t.Errorf("Cost = %.2f, expected %.2f", got.Cost, tt.expectedCost)
			}
			if got.RateFound != tt.expectedFound {
				t.Errorf("RateFound = %v, expected %v", got.RateFound, tt.expectedFound)
			}
		})
	}
}

func TestValidatePreservesOrderAndLength(t *testing.T) {
	rows := []Row{
		{Activity: "Post-Harvest Handling", StartWeek: 18, EndWeek: 19, LaborType: "Casual"},
		{Activity: "Broken", StartWeek: 4, EndWeek: 1, LaborType: "Casual"},
		{Activity: "Land Preparation", StartWeek: 1, EndWeek: 2, LaborType: "Tractor"},
		{Activity: "Mystery", StartWeek: 3, EndWeek: 3, LaborType: ""},
	}

	result, err := Validate(rows, testRates, 2.5)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if len(result) != len(rows) {
		t.Fatalf("Validate() returned %d rows, expected %d", len(result), len(rows))
	}
	for i := range rows {
		if result[i].Activity != rows[i].Activity {
			t.Errorf("row %d activity = %s, expected %s", i, result[i].Activity, rows[i].Activity)
		}
	}

	// 2000*2*5 + 0 + 30000*2.5 + 0
	if total := TotalCost(result); math.Abs(total-95000) > 0.01 {
		t.Errorf("TotalCost() = %.2f, expected 95000.00", total)
	}
}

func TestValidateEmptyPlan(t *testing.T) {
	result, err := Validate(nil, testRates, 5)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if len(result) != 0 {
		t.Errorf("Validate(nil) returned %d rows", len(result))
	}
	if TotalCost(result) != 0 {
		t.Errorf("TotalCost() of empty plan = %.2f", TotalCost(result))
	}
}

func TestValidateNilRateTable(t *testing.T) {
	rows := []Row{
		{Activity: "Land Preparation", StartWeek: 1, EndWeek: 2, LaborType: "Tractor"},
		{Activity: "Weeding", StartWeek: 6, EndWeek: 8, LaborType: "Casual"},
	}
	result, err := Validate(rows, nil, 5)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	for _, row := range result {
		if row.Cost != 0 || row.RateFound {
			t.Errorf("row %s with no rate table: cost %.2f, found %v", row.Activity, row.Cost, row.RateFound)
		}
	}
}

func TestValidateRejectsNegativeFarmSize(t *testing.T) {
	_, err := Validate([]Row{{Activity: "Planting", StartWeek: 1, EndWeek: 1, LaborType: "Casual"}}, testRates, -1)
	if !errors.Is(err, validation.ErrInvalidInput) {
		t.Errorf("Validate() error = %v, expected ErrInvalidInput", err)
	}
}

func TestTable(t *testing.T) {
	rows, err := Validate([]Row{
		{Activity: "Land Preparation", StartWeek: 1, EndWeek: 2, LaborType: "Tractor"},
		{Activity: "Planting", StartWeek: 5, EndWeek: 3, LaborType: "Casual"},
	}, testRates, 5)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	records := Table(rows)
	expected := [][]string{
		{"Land Preparation", "1", "2", "Tractor", "2", "150000.00"},
		{"Planting", "5", "3", "Casual", "0", "0.00"},
	}
	if len(records) != len(expected) {
		t.Fatalf("Table() returned %d records, expected %d", len(records), len(expected))
	}
	for i := range expected {
		if len(records[i]) != len(Header) {
			t.Errorf("record %d has %d columns, header has %d", i, len(records[i]), len(Header))
		}
		for j := range expected[i] {
			if records[i][j] != expected[i][j] {
				t.Errorf("record %d column %s = %q, expected %q", i, Header[j], records[i][j], expected[i][j])
			}
		}
	}
}
