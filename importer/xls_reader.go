package importer

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"clientsplit/dataset"

	"github.com/extrame/xls"
)

const defaultXLSCharset = "utf-8"

// XLSReader reads legacy BIFF workbooks. Cells come back as text and are
// typed with dataset.Infer.
type XLSReader struct {
	Sheet   string
	Charset string
}

func (r *XLSReader) Read(in io.Reader) (dataset.Grid, error) {
	book, err := openXLS(in, r.Charset)
	if err != nil {
		return nil, err
	}

	names, sheets := xlsSheetList(book)
	name, err := resolveSheet(names, r.Sheet)
	if err != nil {
		return nil, err
	}
	var sheet *xls.WorkSheet
	for i, candidate := range names {
		if candidate == name {
			sheet = sheets[i]
			break
		}
	}

	grid := make(dataset.Grid, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			grid = append(grid, nil)
			continue
		}
		values := make([]dataset.Value, row.LastCol())
		for j := 0; j < row.LastCol(); j++ {
			values[j] = dataset.Infer(row.Col(j))
		}
		grid = append(grid, values)
	}
	for len(grid) > 0 && blankRow(grid[len(grid)-1]) {
		grid = grid[:len(grid)-1]
	}
	if len(grid) == 0 {
		return nil, fmt.Errorf("sheet %s is empty", name)
	}
	return grid, nil
}

func openXLS(in io.Reader, charset string) (book *xls.WorkBook, err error) {
	// the BIFF parser panics on some malformed files
	defer func() {
		if r := recover(); r != nil {
			book, err = nil, fmt.Errorf("open xls workbook: %v", r)
		}
	}()

	if strings.TrimSpace(charset) == "" {
		charset = defaultXLSCharset
	}
	seeker, ok := in.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(in)
		if err != nil {
			return nil, fmt.Errorf("read xls workbook: %w", err)
		}
		seeker = bytes.NewReader(data)
	}
	book, err = xls.OpenReader(seeker, charset)
	if err != nil {
		return nil, fmt.Errorf("open xls workbook: %w", err)
	}
	return book, nil
}

func xlsSheetList(book *xls.WorkBook) ([]string, []*xls.WorkSheet) {
	names := make([]string, 0, book.NumSheets())
	sheets := make([]*xls.WorkSheet, 0, book.NumSheets())
	for i := 0; i < book.NumSheets(); i++ {
		if sheet := book.GetSheet(i); sheet != nil {
			names = append(names, sheet.Name)
			sheets = append(sheets, sheet)
		}
	}
	return names, sheets
}

func xlsSheets(in io.Reader, charset string) ([]string, error) {
	book, err := openXLS(in, charset)
	if err != nil {
		return nil, err
	}
	names, _ := xlsSheetList(book)
	return names, nil
}

func blankRow(row []dataset.Value) bool {
	for _, value := range row {
		if !value.IsEmpty() {
			return false
		}
	}
	return true
}
