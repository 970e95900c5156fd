// Package output provides utilities for formatting and displaying season results.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/iwvelando/maize-roi/internal/planner"
	"github.com/iwvelando/maize-roi/pkg/cashflow"
	"github.com/iwvelando/maize-roi/pkg/format"
	"github.com/iwvelando/maize-roi/pkg/profit"
	"github.com/iwvelando/maize-roi/pkg/workplan"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Section is one exported table. Every record starts with the scenario name.
type Section struct {
	Name    string
	Header  []string
	Records [][]string
}

// Section names double as XLSX sheet names.
const (
	SectionSummary     = "Summary"
	SectionWorkPlan    = "Work Plan"
	SectionCashFlow    = "Cash Flow"
	SectionSensitivity = "Sensitivity"
)

// Sections flattens results into the tables shared by the CSV and XLSX exports.
func Sections(results []planner.Result) []Section {
	summary := Section{Name: SectionSummary, Header: withScenario(profit.SummaryHeader)}
	plan := Section{Name: SectionWorkPlan, Header: withScenario(workplan.Header)}
	flow := Section{Name: SectionCashFlow, Header: withScenario(cashflow.Header)}
	sensitivity := Section{Name: SectionSensitivity, Header: []string{"Scenario", "Price Per Bag", "Profit"}}

	for _, result := range results {
		summary.Records = append(summary.Records, prefix(result.Name, summaryRecords(result))...)
		plan.Records = append(plan.Records, prefix(result.Name, workplan.Table(result.WorkPlan))...)
		flow.Records = append(flow.Records, prefix(result.Name, cashflow.Table(result.CashFlow))...)
		for _, point := range result.Sensitivity {
			sensitivity.Records = append(sensitivity.Records, []string{result.Name, profit.Amount(point.Price), profit.Amount(point.Profit)})
		}
	}

	return []Section{summary, plan, flow, sensitivity}
}

func summaryRecords(result planner.Result) [][]string {
	records := [][]string{
		{"Price Per Bag", profit.Amount(result.Parameters.Farm.PricePerBag)},
	}
	if result.PriceQuote != nil {
		records = append(records, []string{"Price Source", result.PriceQuote.Source})
	}
	records = append(records, profit.Table(result.Profit)...)
	// No break-even exists without yield or without a price.
	if !math.IsInf(result.BreakEven.MinPricePerBag, 0) {
		records = append(records, []string{"Break-even Price Per Bag", profit.Amount(result.BreakEven.MinPricePerBag)})
	}
	if result.BreakEven.MinBags >= 0 {
		records = append(records, []string{"Break-even Bags", strconv.Itoa(result.BreakEven.MinBags)})
	}
	records = append(records, []string{"Lowest Cumulative Cash", profit.Amount(result.CashSummary.LowestCumulative)})
	return records
}

func withScenario(header []string) []string {
	return append([]string{"Scenario"}, header...)
}

func prefix(name string, records [][]string) [][]string {
	prefixed := make([][]string, 0, len(records))
	for _, record := range records {
		prefixed = append(prefixed, append([]string{name}, record...))
	}
	return prefixed
}

// CsvFormat outputs every section in comma-separated value format, separated
// by blank lines.
func CsvFormat(w io.Writer, results []planner.Result) error {
	writer := csv.NewWriter(w)
	for i, section := range Sections(results) {
		if i > 0 {
			if err := writer.Write(nil); err != nil {
				return err
			}
		}
		if err := writer.Write(section.Header); err != nil {
			return err
		}
		if err := writer.WriteAll(section.Records); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// CsvString returns the CSV output as a string.
func CsvString(results []planner.Result) (string, error) {
	var builder strings.Builder
	if err := CsvFormat(&builder, results); err != nil {
		return "", err
	}
	return builder.String(), nil
}

type prettyWriter struct {
	p   *message.Printer
	w   io.Writer
	err error
}

func (pw *prettyWriter) printf(msg string, args ...interface{}) {
	if pw.err != nil {
		return
	}
	_, pw.err = pw.p.Fprintf(pw.w, msg, args...)
}

// PrettyFormat outputs a human-readable rather than machine-readable report.
func PrettyFormat(w io.Writer, results []planner.Result) error {
	pw := &prettyWriter{p: message.NewPrinter(language.English), w: w}
	for i, result := range results {
		if i > 0 {
			pw.printf("\n")
		}
		writePrettyResult(pw, result)
	}
	return pw.err
}

func writePrettyResult(pw *prettyWriter, result planner.Result) {
	farm := result.Parameters.Farm
	pw.printf("--- Results for scenario %s ---\n", result.Name)
	pw.printf("Farm size: %.2f acres | Expected yield: %d bags | Price per bag: %s", farm.FarmSize, farm.ExpectedYield, format.Currency(farm.PricePerBag))
	if result.PriceQuote != nil {
		pw.printf(" (%s market price)", result.PriceQuote.Source)
	}
	pw.printf("\n\n")

	pw.printf("Work plan\n")
	pw.printf("Activity | Weeks | Labor Type | Duration | Estimated Cost\n")
	for _, row := range result.WorkPlan {
		pw.printf("%s | %d-%d | %s | %d | %s\n", row.Activity, row.StartWeek, row.EndWeek, row.LaborType, row.Duration, format.Currency(row.Cost))
	}
	pw.printf("\n")

	pw.printf("Cash flow\n")
	pw.printf("Week | Date | Activity | Cost | Income | Net Flow | Cumulative\n")
	for _, entry := range result.CashFlow {
		date := entry.Date
		if date == "" {
			date = "-"
		}
		pw.printf("%s | %s | %s | %s | %s | %s | %s\n", entry.Week, date, entry.Activity,
			format.Currency(entry.Cost), format.Currency(entry.Income), format.Currency(entry.NetFlow), format.Currency(entry.Cumulative))
	}
	pw.printf("Lowest cumulative cash: %s\n\n", format.Currency(result.CashSummary.LowestCumulative))

	summary := result.Profit
	pw.printf("Summary\n")
	pw.printf("Repayment type | %s\n", summary.Terms.RepaymentType.Label())
	pw.printf("Principal | %s\n", format.Currency(summary.Terms.Principal))
	pw.printf("Processing fee | %s\n", format.Currency(summary.Terms.ProcessingFee))
	pw.printf("Interest | %s\n", format.Currency(summary.Terms.Interest))
	if summary.Terms.InsuranceEnabled() {
		pw.printf("Insurance | %s\n", format.Currency(summary.Terms.InsuranceAmount))
	}
	pw.printf("Labor cost | %s\n", format.Currency(summary.LaborCost))
	if summary.ExtraExpenses > 0 {
		pw.printf("Extra expenses | %s\n", format.Currency(summary.ExtraExpenses))
	}
	pw.printf("Total repayment | %s\n", format.Currency(summary.TotalRepayment))
	pw.printf("Revenue | %s\n", format.Currency(summary.Revenue))
	pw.printf("Profit | %s\n", format.Currency(summary.Profit))
	pw.printf("ROI | %s\n", format.Percent(summary.ROI))
	pw.printf("Recommendation | %s\n", summary.Recommendation)
	pw.printf("%s\n", profit.Advice(summary.Recommendation))
	pw.printf("Break-even | %s\n\n", breakEvenText(result.BreakEven, farm))

	pw.printf("Sensitivity\n")
	pw.printf("Price per bag | Profit\n")
	for _, point := range result.Sensitivity {
		pw.printf("%s | %s\n", format.Currency(point.Price), format.Currency(point.Profit))
	}
}

func breakEvenText(be profit.BreakEven, farm profit.FarmParameters) string {
	var parts []string
	if !math.IsInf(be.MinPricePerBag, 0) {
		parts = append(parts, fmt.Sprintf("above %s per bag at %d bags", format.Currency(be.MinPricePerBag), farm.ExpectedYield))
	}
	if be.MinBags >= 0 {
		parts = append(parts, fmt.Sprintf("%d bags at %s", be.MinBags, format.Currency(farm.PricePerBag)))
	}
	if len(parts) == 0 {
		return "n/a"
	}
	return strings.Join(parts, " or ")
}
