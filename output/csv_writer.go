package output

import (
	"encoding/csv"
	"fmt"
	"strconv"
)

type CSVWriter struct{}

func (w *CSVWriter) Write(path string, report Report) error {
	file, err := create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	headers := []string{"Sheet", "Key", "Rows", "GroupColumn", "TemplateSheet"}
	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("write csv headers: %w", err)
	}

	for _, sheet := range report.Sheets {
		row := []string{
			sheet.Name,
			sheet.Key,
			strconv.Itoa(sheet.Rows),
			report.GroupColumn,
			report.TemplateSheet,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv report: %w", err)
	}

	return nil
}
