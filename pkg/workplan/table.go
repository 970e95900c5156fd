package workplan

import "strconv"

// Header is the column order used when a validated plan is exported: the
// original row fields, then Duration, then Estimated Cost.
var Header = []string{"Activity", "Start Week", "End Week", "Labor Type", "Duration", "Estimated Cost"}

// Table flattens validated rows into string records for delimited export.
func Table(rows []ValidatedRow) [][]string {
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, []string{
			row.Activity,
			strconv.Itoa(row.StartWeek),
			strconv.Itoa(row.EndWeek),
			row.LaborType,
			strconv.Itoa(row.Duration),
			strconv.FormatFloat(row.Cost, 'f', 2, 64),
		})
	}
	return records
}
