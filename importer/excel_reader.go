package importer

import (
	"fmt"
	"io"

	"clientsplit/dataset"
	"clientsplit/workbook"

	"github.com/xuri/excelize/v2"
)

// ExcelReader reads one sheet of an xlsx/xlsm workbook, the first when Sheet
// is empty.
type ExcelReader struct {
	Sheet string
}

func (r *ExcelReader) Read(in io.Reader) (dataset.Grid, error) {
	file, err := excelize.OpenReader(in)
	if err != nil {
		return nil, fmt.Errorf("open excel workbook: %w", err)
	}
	defer file.Close()

	sheet, err := resolveSheet(file.GetSheetList(), r.Sheet)
	if err != nil {
		return nil, err
	}

	grid, err := workbook.ReadGrid(file, sheet)
	if err != nil {
		return nil, err
	}
	if len(grid) == 0 {
		return nil, fmt.Errorf("sheet %s is empty", sheet)
	}
	return grid, nil
}

func excelSheets(in io.Reader) ([]string, error) {
	file, err := excelize.OpenReader(in)
	if err != nil {
		return nil, fmt.Errorf("open excel workbook: %w", err)
	}
	defer file.Close()
	return file.GetSheetList(), nil
}
