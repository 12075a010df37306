package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Stdout as a report path writes textual formats to standard output.
const Stdout = "-"

type Writer interface {
	Write(path string, report Report) error
}

func WriterForFormat(format string) (Writer, error) {
	switch normalizeFormat(format) {
	case "", "text", "txt":
		return &TextWriter{}, nil
	case "csv":
		return &CSVWriter{}, nil
	case "yaml", "yml":
		return &YAMLWriter{}, nil
	case "excel", "xlsx":
		return &ExcelWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

// InferFormat derives the report format from the path extension.
func InferFormat(path string) string {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case "csv":
		return "csv"
	case "yaml", "yml":
		return "yaml"
	case "xlsx":
		return "excel"
	default:
		return "text"
	}
}

func normalizeFormat(value string) string {
	return strings.TrimSpace(strings.ToLower(value))
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

func create(path string) (io.WriteCloser, error) {
	if path == Stdout {
		return nopCloser{Writer: os.Stdout}, nil
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create report %s: %w", path, err)
	}
	return file, nil
}
