package output

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

type ExcelWriter struct{}

func (w *ExcelWriter) Write(path string, report Report) error {
	if path == Stdout {
		return fmt.Errorf("excel report needs a file path")
	}

	file := excelize.NewFile()
	defer file.Close()

	sheet := "Sheets"
	if err := file.SetSheetName(file.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("rename report sheet: %w", err)
	}

	headers := []any{"Sheet", "Key", "Rows"}
	if err := file.SetSheetRow(sheet, "A1", &headers); err != nil {
		return fmt.Errorf("set excel headers: %w", err)
	}
	for i, entry := range report.Sheets {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		values := []any{entry.Name, entry.Key, entry.Rows}
		if err := file.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("set excel row %s: %w", cell, err)
		}
	}

	summary := "Summary"
	if _, err := file.NewSheet(summary); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}
	pairs := [][]any{
		{"Input", report.Input},
		{"Template", report.Template},
		{"Output", report.Output},
		{"GroupColumn", report.GroupColumn},
		{"TemplateSheet", report.TemplateSheet},
		{"RawHeaderRow", report.RawHeaderRow},
		{"TemplateHeaderRow", report.TemplateHeaderRow},
		{"StartRow", report.StartRow},
		{"RowsWritten", report.RowsWritten},
		{"TemplateRemoved", report.TemplateRemoved},
	}
	for _, warning := range report.Warnings {
		pairs = append(pairs, []any{"Warning", warning})
	}
	for i, pair := range pairs {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := file.SetSheetRow(summary, cell, &pair); err != nil {
			return fmt.Errorf("set summary row %s: %w", cell, err)
		}
	}

	if err := file.SaveAs(path); err != nil {
		return fmt.Errorf("save excel report %s: %w", path, err)
	}

	return nil
}
