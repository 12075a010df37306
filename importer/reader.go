// Package importer reads raw tables from csv, xlsx and xls files into typed
// grids.
package importer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"clientsplit/dataset"
)

type Reader interface {
	Read(r io.Reader) (dataset.Grid, error)
}

// Options tune the readers. Sheet applies to workbook formats; Delimiter and
// Encoding to delimited text; Charset to legacy xls files.
type Options struct {
	Sheet     string
	Delimiter string
	Encoding  string
	Charset   string
}

func ReaderForFormat(format string, opts Options) (Reader, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "csv", "txt":
		return &CSVReader{Delimiter: opts.Delimiter, Encoding: opts.Encoding}, nil
	case "tsv":
		return &CSVReader{Delimiter: "\t", Encoding: opts.Encoding}, nil
	case "excel", "xlsx", "xlsm":
		return &ExcelReader{Sheet: opts.Sheet}, nil
	case "xls":
		return &XLSReader{Sheet: opts.Sheet, Charset: opts.Charset}, nil
	default:
		return nil, fmt.Errorf("unsupported input format: %s", format)
	}
}

// InferFormat returns explicit when set, otherwise the format implied by the
// file extension.
func InferFormat(path, explicit string) (string, error) {
	if strings.TrimSpace(explicit) != "" {
		return strings.ToLower(strings.TrimSpace(explicit)), nil
	}

	extension := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch extension {
	case "csv", "txt", "tsv", "xls":
		return extension, nil
	case "xlsx", "xlsm":
		return "excel", nil
	default:
		return "", fmt.Errorf("unsupported file extension for %s", path)
	}
}

// ReadFile opens path and reads it with the reader for format, inferred from
// the extension when empty.
func ReadFile(path, format string, opts Options) (dataset.Grid, error) {
	sourceFormat, err := InferFormat(path, format)
	if err != nil {
		return nil, err
	}
	reader, err := ReaderForFormat(sourceFormat, opts)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input file %s: %w", path, err)
	}
	defer file.Close()

	grid, err := reader.Read(file)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return grid, nil
}

// ListSheets returns the sheet names of a workbook file; delimited text has none.
func ListSheets(path, format string) ([]string, error) {
	sourceFormat, err := InferFormat(path, format)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input file %s: %w", path, err)
	}
	defer file.Close()

	switch sourceFormat {
	case "excel", "xlsx", "xlsm":
		return excelSheets(file)
	case "xls":
		return xlsSheets(file, "")
	default:
		return nil, nil
	}
}

func resolveSheet(names []string, requested string) (string, error) {
	if len(names) == 0 {
		return "", fmt.Errorf("workbook has no sheets")
	}
	requested = strings.TrimSpace(requested)
	if requested == "" {
		return names[0], nil
	}
	for _, name := range names {
		if strings.EqualFold(name, requested) {
			return name, nil
		}
	}
	return "", fmt.Errorf("sheet %s not found (available sheets: %s)", requested, strings.Join(names, ", "))
}
