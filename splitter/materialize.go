package splitter

import (
	"fmt"

	"clientsplit/dataset"
)

// Workbook is the spreadsheet capability the splitter needs. Rows and columns
// are 1-based; Rows returns the used range as a 0-based grid.
type Workbook interface {
	SheetNames() []string
	Rows(sheet string) (dataset.Grid, error)
	Dimensions(sheet string) (maxRow, maxCol int, err error)
	SetCell(sheet string, row, col int, value dataset.Value) error
	Duplicate(source, target string) error
	Remove(sheet string) error
}

// Layout describes where group data lands on copies of a template sheet.
type Layout struct {
	Template  string
	HeaderRow int
	StartRow  int
	Header    []HeaderCell
	Mapping   Mapping
}

// Materialize copies the template into a new sheet named target, rewrites the
// header row (template labels plus extras) and writes rows of table from
// layout.StartRow on. It returns the number of rows written.
func Materialize(book Workbook, layout Layout, target string, table *dataset.Table, rows []int) (int, error) {
	if err := book.Duplicate(layout.Template, target); err != nil {
		return 0, fmt.Errorf("duplicate template %q as %q: %w", layout.Template, target, err)
	}

	for _, cell := range layout.Header {
		if err := book.SetCell(target, layout.HeaderRow, cell.Column, cell.Value); err != nil {
			return 0, fmt.Errorf("write header %q on %q: %w", cell.Label, target, err)
		}
	}
	for _, extra := range layout.Mapping.Extras() {
		if err := book.SetCell(target, layout.HeaderRow, extra.TemplateColumn, dataset.Text(extra.Label)); err != nil {
			return 0, fmt.Errorf("write header %q on %q: %w", extra.Label, target, err)
		}
	}

	for offset, row := range rows {
		sheetRow := layout.StartRow + offset
		for _, assignment := range layout.Mapping.Assignments {
			value := table.Value(row, assignment.RawIndex)
			if err := book.SetCell(target, sheetRow, assignment.TemplateColumn, value); err != nil {
				return offset, fmt.Errorf("write %q row %d on %q: %w", assignment.RawColumn, sheetRow, target, err)
			}
		}
	}

	return len(rows), nil
}
