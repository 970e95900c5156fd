package output

import (
	"fmt"
	"math"
	"strconv"

	"github.com/iwvelando/maize-roi/internal/planner"
	"github.com/xuri/excelize/v2"
)

// Workbook builds an XLSX workbook with one sheet per section. Numeric cells
// are stored as numbers so the sheets can be charted and summed.
func Workbook(results []planner.Result) (*excelize.File, error) {
	f := excelize.NewFile()

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for i, section := range Sections(results) {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), section.Name); err != nil {
				_ = f.Close()
				return nil, err
			}
		} else if _, err := f.NewSheet(section.Name); err != nil {
			_ = f.Close()
			return nil, err
		}
		if err := writeSheet(f, section, headerStyle); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("failed to write sheet %s: %w", section.Name, err)
		}
	}
	f.SetActiveSheet(0)

	return f, nil
}

func writeSheet(f *excelize.File, section Section, headerStyle int) error {
	header := make([]interface{}, len(section.Header))
	for i, title := range section.Header {
		header[i] = title
	}
	if err := f.SetSheetRow(section.Name, "A1", &header); err != nil {
		return err
	}
	lastHeader, err := excelize.CoordinatesToCellName(len(section.Header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(section.Name, "A1", lastHeader, headerStyle); err != nil {
		return err
	}

	text := textColumns(section.Header)
	for i, record := range section.Records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := make([]interface{}, len(record))
		for j, value := range record {
			if j < len(text) && text[j] {
				row[j] = value
				continue
			}
			row[j] = cellValue(value)
		}
		if err := f.SetSheetRow(section.Name, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

// labelColumns hold names and dates that must stay text even when they look
// like numbers.
var labelColumns = map[string]bool{
	"Scenario":   true,
	"Metric":     true,
	"Activity":   true,
	"Labor Type": true,
	"Week":       true,
	"Date":       true,
}

func textColumns(header []string) []bool {
	text := make([]bool, len(header))
	for i, title := range header {
		text[i] = labelColumns[title]
	}
	return text
}

// cellValue stores finite numbers as numbers and everything else as text.
func cellValue(value string) interface{} {
	number, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsInf(number, 0) || math.IsNaN(number) {
		return value
	}
	return number
}

// XLSXBytes returns the workbook serialized in memory.
func XLSXBytes(results []planner.Result) ([]byte, error) {
	f, err := Workbook(results)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteXLSX saves the workbook to path.
func WriteXLSX(path string, results []planner.Result) error {
	f, err := Workbook(results)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return nil
}
