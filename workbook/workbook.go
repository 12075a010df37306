// Package workbook adapts excelize files to the splitter's workbook
// capability and reads typed cell grids out of xlsx sheets.
package workbook

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"clientsplit/dataset"
	"clientsplit/splitter"

	"github.com/xuri/excelize/v2"
)

var _ splitter.Workbook = (*Book)(nil)

// Book is a single-owner xlsx workbook. It is not safe for concurrent use.
type Book struct {
	file *excelize.File
}

// Open loads the workbook at path. Failures wrap splitter.ErrTemplateLoad.
func Open(path string) (*Book, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open workbook %s: %w", splitter.ErrTemplateLoad, path, err)
	}
	return &Book{file: file}, nil
}

func OpenReader(r io.Reader) (*Book, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: read workbook: %w", splitter.ErrTemplateLoad, err)
	}
	return &Book{file: file}, nil
}

// New returns an empty workbook holding the default sheet.
func New() *Book {
	return &Book{file: excelize.NewFile()}
}

func (b *Book) File() *excelize.File {
	return b.file
}

func (b *Book) SheetNames() []string {
	return b.file.GetSheetList()
}

func (b *Book) Rows(sheet string) (dataset.Grid, error) {
	return ReadGrid(b.file, sheet)
}

// Dimensions reports the last row and column holding a non-empty value.
func (b *Book) Dimensions(sheet string) (int, int, error) {
	grid, err := ReadGrid(b.file, sheet)
	if err != nil {
		return 0, 0, err
	}
	maxRow, maxCol := 0, 0
	for r, row := range grid {
		for c, value := range row {
			if value.IsEmpty() {
				continue
			}
			maxRow = r + 1
			if c+1 > maxCol {
				maxCol = c + 1
			}
		}
	}
	return maxRow, maxCol, nil
}

// SetCell writes value keeping the cell style; Empty clears the cell.
func (b *Book) SetCell(sheet string, row, col int, value dataset.Value) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := b.file.SetCellValue(sheet, cell, value.Native()); err != nil {
		return fmt.Errorf("set cell %s!%s: %w", sheet, cell, err)
	}
	return nil
}

// Duplicate appends a copy of source named target. Names compare without
// regard to case, as in Excel.
func (b *Book) Duplicate(source, target string) error {
	from, err := b.file.GetSheetIndex(source)
	if err != nil {
		return fmt.Errorf("look up sheet %s: %w", source, err)
	}
	if from < 0 {
		return fmt.Errorf("sheet %s does not exist", source)
	}
	for _, name := range b.file.GetSheetList() {
		if strings.EqualFold(name, target) {
			return fmt.Errorf("sheet %s already exists", target)
		}
	}

	to, err := b.file.NewSheet(target)
	if err != nil {
		return fmt.Errorf("create sheet %s: %w", target, err)
	}
	if err := b.file.CopySheet(from, to); err != nil {
		return fmt.Errorf("copy sheet %s to %s: %w", source, target, err)
	}
	return nil
}

func (b *Book) Remove(sheet string) error {
	if err := b.file.DeleteSheet(sheet); err != nil {
		return fmt.Errorf("delete sheet %s: %w", sheet, err)
	}
	return nil
}

// Activate makes sheet the one shown when the workbook is opened.
func (b *Book) Activate(sheet string) error {
	idx, err := b.file.GetSheetIndex(sheet)
	if err != nil {
		return fmt.Errorf("look up sheet %s: %w", sheet, err)
	}
	if idx < 0 {
		return fmt.Errorf("sheet %s does not exist", sheet)
	}
	b.file.SetActiveSheet(idx)
	return nil
}

func (b *Book) Save(path string) error {
	if err := b.file.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}

func (b *Book) WriteTo(w io.Writer) (int64, error) {
	n, err := b.file.WriteTo(w)
	if err != nil {
		return n, fmt.Errorf("write workbook: %w", err)
	}
	return n, nil
}

func (b *Book) Close() error {
	return b.file.Close()
}

// ReadGrid returns the used range of sheet with typed values: numbers stay
// numbers, booleans become Bool and date-formatted numbers become Time.
func ReadGrid(file *excelize.File, sheet string) (dataset.Grid, error) {
	rows, err := file.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read rows from sheet %s: %w", sheet, err)
	}

	dates := newDateStyles(file)
	grid := make(dataset.Grid, len(rows))
	for r, row := range rows {
		values := make([]dataset.Value, len(row))
		for c, raw := range row {
			if raw == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return nil, err
			}
			value, err := typedValue(file, dates, sheet, cell, raw)
			if err != nil {
				return nil, err
			}
			values[c] = value
		}
		grid[r] = values
	}
	return grid, nil
}

func typedValue(file *excelize.File, dates *dateStyles, sheet, cell, raw string) (dataset.Value, error) {
	cellType, err := file.GetCellType(sheet, cell)
	if err != nil {
		return dataset.Value{}, fmt.Errorf("read cell type %s!%s: %w", sheet, cell, err)
	}

	switch cellType {
	case excelize.CellTypeBool:
		return dataset.Boolean(raw == "1" || strings.EqualFold(raw, "true")), nil
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		number, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return dataset.Text(raw), nil
		}
		isDate, err := dates.lookup(sheet, cell)
		if err != nil {
			return dataset.Value{}, err
		}
		if isDate {
			if at, err := excelize.ExcelDateToTime(number, false); err == nil {
				return dataset.Timestamp(at), nil
			}
		}
		return dataset.Num(number), nil
	case excelize.CellTypeDate:
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
			if at, err := time.Parse(layout, raw); err == nil {
				return dataset.Timestamp(at), nil
			}
		}
		return dataset.Text(raw), nil
	default:
		return dataset.Text(raw), nil
	}
}
