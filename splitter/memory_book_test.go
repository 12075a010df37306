package splitter

import (
	"fmt"
	"strings"

	"clientsplit/dataset"
)

type cellKey struct {
	row int
	col int
}

// memoryBook is an in-memory Workbook used to observe what the splitter writes.
type memoryBook struct {
	order  []string
	sheets map[string]map[cellKey]dataset.Value
}

func newMemoryBook() *memoryBook {
	return &memoryBook{sheets: make(map[string]map[cellKey]dataset.Value)}
}

func (b *memoryBook) addSheet(name string, rows [][]string) {
	cells := make(map[cellKey]dataset.Value)
	for r, row := range rows {
		for c, raw := range row {
			if value := dataset.Infer(raw); value.Kind() != dataset.Empty {
				cells[cellKey{row: r + 1, col: c + 1}] = value
			}
		}
	}
	b.order = append(b.order, name)
	b.sheets[name] = cells
}

func (b *memoryBook) SheetNames() []string {
	return append([]string(nil), b.order...)
}

func (b *memoryBook) sheet(name string) (map[cellKey]dataset.Value, error) {
	cells, ok := b.sheets[name]
	if !ok {
		return nil, fmt.Errorf("sheet %s does not exist", name)
	}
	return cells, nil
}

func (b *memoryBook) Rows(sheet string) (dataset.Grid, error) {
	maxRow, maxCol, err := b.Dimensions(sheet)
	if err != nil {
		return nil, err
	}
	cells := b.sheets[sheet]
	grid := make(dataset.Grid, maxRow)
	for r := 1; r <= maxRow; r++ {
		row := make([]dataset.Value, maxCol)
		for c := 1; c <= maxCol; c++ {
			row[c-1] = cells[cellKey{row: r, col: c}]
		}
		grid[r-1] = row
	}
	return grid, nil
}

func (b *memoryBook) Dimensions(sheet string) (int, int, error) {
	cells, err := b.sheet(sheet)
	if err != nil {
		return 0, 0, err
	}
	maxRow, maxCol := 0, 0
	for key := range cells {
		if key.row > maxRow {
			maxRow = key.row
		}
		if key.col > maxCol {
			maxCol = key.col
		}
	}
	return maxRow, maxCol, nil
}

func (b *memoryBook) SetCell(sheet string, row, col int, value dataset.Value) error {
	cells, err := b.sheet(sheet)
	if err != nil {
		return err
	}
	if value.Kind() == dataset.Empty {
		delete(cells, cellKey{row: row, col: col})
		return nil
	}
	cells[cellKey{row: row, col: col}] = value
	return nil
}

func (b *memoryBook) Duplicate(source, target string) error {
	cells, err := b.sheet(source)
	if err != nil {
		return err
	}
	for _, name := range b.order {
		if strings.EqualFold(name, target) {
			return fmt.Errorf("sheet %s already exists", target)
		}
	}
	copied := make(map[cellKey]dataset.Value, len(cells))
	for key, value := range cells {
		copied[key] = value
	}
	b.order = append(b.order, target)
	b.sheets[target] = copied
	return nil
}

func (b *memoryBook) Remove(sheet string) error {
	if _, err := b.sheet(sheet); err != nil {
		return err
	}
	delete(b.sheets, sheet)
	for i, name := range b.order {
		if name == sheet {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
	return nil
}

func (b *memoryBook) text(sheet string, row, col int) string {
	return b.sheets[sheet][cellKey{row: row, col: col}].String()
}
