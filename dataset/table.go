package dataset

import (
	"fmt"
	"strings"
)

// Grid is a 0-based, possibly ragged block of cells as read from a source sheet.
type Grid [][]Value

func (g Grid) Width() int {
	width := 0
	for _, row := range g {
		if len(row) > width {
			width = len(row)
		}
	}
	return width
}

func (g Grid) Cell(row, col int) Value {
	if row < 0 || row >= len(g) || col < 0 || col >= len(g[row]) {
		return Value{}
	}
	return g[row][col]
}

// GridFromStrings infers typed values for every cell of a text grid.
func GridFromStrings(rows [][]string) Grid {
	grid := make(Grid, len(rows))
	for i, row := range rows {
		values := make([]Value, len(row))
		for j, raw := range row {
			values[j] = Infer(raw)
		}
		grid[i] = values
	}
	return grid
}

// Table is the raw dataset below a detected header row: unique column labels
// and rectangular row-major values.
type Table struct {
	Columns []string
	Rows    [][]Value
}

// NewTable builds a table from grid using headerRow as the label row. Blank
// labels become "Column N", duplicates get ".1", ".2" suffixes and entirely
// empty data rows are dropped.
func NewTable(grid Grid, headerRow int) *Table {
	width := 0
	if headerRow >= 0 && headerRow < len(grid) {
		width = lastUsedColumn(grid[headerRow]) + 1
	}
	for i := headerRow + 1; i < len(grid); i++ {
		if i < 0 {
			continue
		}
		if used := lastUsedColumn(grid[i]) + 1; used > width {
			width = used
		}
	}

	labels := make([]string, width)
	for col := 0; col < width; col++ {
		labels[col] = strings.TrimSpace(grid.Cell(headerRow, col).String())
	}

	table := &Table{Columns: dedupeLabels(labels)}
	for i := headerRow + 1; i < len(grid); i++ {
		if i < 0 {
			continue
		}
		row := make([]Value, width)
		blank := true
		for col := 0; col < width; col++ {
			row[col] = grid.Cell(i, col)
			if !row[col].IsEmpty() {
				blank = false
			}
		}
		if blank {
			continue
		}
		table.Rows = append(table.Rows, row)
	}

	return table
}

func lastUsedColumn(row []Value) int {
	for col := len(row) - 1; col >= 0; col-- {
		if !row[col].IsEmpty() {
			return col
		}
	}
	return -1
}

func dedupeLabels(labels []string) []string {
	out := make([]string, len(labels))
	taken := make(map[string]bool, len(labels))
	for i, label := range labels {
		if label == "" {
			label = fmt.Sprintf("Column %d", i+1)
		}
		candidate := label
		for n := 1; taken[candidate]; n++ {
			candidate = fmt.Sprintf("%s.%d", label, n)
		}
		taken[candidate] = true
		out[i] = candidate
	}
	return out
}

func (t *Table) Len() int {
	return len(t.Rows)
}

// ColumnIndex returns the position of the exact label, or -1.
func (t *Table) ColumnIndex(label string) int {
	for i, column := range t.Columns {
		if column == label {
			return i
		}
	}
	return -1
}

func (t *Table) Value(row, col int) Value {
	if row < 0 || row >= len(t.Rows) || col < 0 || col >= len(t.Rows[row]) {
		return Value{}
	}
	return t.Rows[row][col]
}
