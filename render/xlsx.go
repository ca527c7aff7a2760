package render

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"olistdash/api/models"
)

const maxSheetName = 31

// Workbook writes each chart's data to its own sheet, named after the chart id. The first sheet,
// "summary", carries the page title, the selected range and the chart index.
func Workbook(page models.Page, rangeLabel string, charts []models.Chart) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := fillWorkbook(f, page, rangeLabel, charts); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func fillWorkbook(f *excelize.File, page models.Page, rangeLabel string, charts []models.Chart) error {
	const summary = "summary"
	if err := f.SetSheetName("Sheet1", summary); err != nil {
		return fmt.Errorf("failed to rename summary sheet: %w", err)
	}
	header := map[string]any{
		"A1": page.Title(),
		"A2": "Date range",
		"B2": rangeLabel,
		"A4": "Chart",
		"B4": "Title",
		"C4": "Rows",
	}
	for cell, v := range header {
		if err := f.SetCellValue(summary, cell, v); err != nil {
			return fmt.Errorf("failed to write %s!%s: %w", summary, cell, err)
		}
	}
	if err := f.SetColWidth(summary, "A", "B", 32); err != nil {
		return fmt.Errorf("failed to size %s columns: %w", summary, err)
	}

	for i, c := range charts {
		row := i + 5
		name := sheetName(c.ID)
		for col, v := range []any{name, c.Title, len(c.Data)} {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(summary, cell, v); err != nil {
				return fmt.Errorf("failed to write %s!%s: %w", summary, cell, err)
			}
		}

		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to add sheet %s: %w", name, err)
		}
		for col, header := range c.Columns {
			colName, err := excelize.ColumnNumberToName(col + 1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(name, colName+"1", header); err != nil {
				return fmt.Errorf("failed to write %s!%s1: %w", name, colName, err)
			}
			if err := f.SetColWidth(name, colName, colName, 22); err != nil {
				return fmt.Errorf("failed to size %s!%s: %w", name, colName, err)
			}
		}
		for r, d := range c.Data {
			for col, header := range c.Columns {
				cell, err := excelize.CoordinatesToCellName(col+1, r+2)
				if err != nil {
					return err
				}
				if err := f.SetCellValue(name, cell, d[header]); err != nil {
					return fmt.Errorf("failed to write %s!%s: %w", name, cell, err)
				}
			}
		}
	}

	f.SetActiveSheet(0)
	return nil
}

func sheetName(id string) string {
	if len(id) > maxSheetName {
		return id[:maxSheetName]
	}
	return id
}
