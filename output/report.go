package output

import (
	"clientsplit/splitter"
	"errors"
)

// Report is the serializable outcome of one split run.
type Report struct {
	Input             string       `yaml:"input"`
	Template          string       `yaml:"template"`
	Output            string       `yaml:"output"`
	GroupColumn       string       `yaml:"group_column"`
	TemplateSheet     string       `yaml:"template_sheet"`
	RawHeaderRow      int          `yaml:"raw_header_row"`
	TemplateHeaderRow int          `yaml:"template_header_row"`
	StartRow          int          `yaml:"start_row"`
	RowsWritten       int          `yaml:"rows_written"`
	TemplateRemoved   bool         `yaml:"template_removed"`
	ExtraColumns      []string     `yaml:"extra_columns,omitempty"`
	Sheets            []SheetEntry `yaml:"sheets"`
	Warnings          []string     `yaml:"warnings,omitempty"`
}

type SheetEntry struct {
	Name string `yaml:"name"`
	Key  string `yaml:"key"`
	Rows int    `yaml:"rows"`
}

// Source names the files and selections behind a run.
type Source struct {
	Input         string
	Template      string
	Output        string
	GroupColumn   string
	TemplateSheet string
}

// NewReport flattens result into a report. Row numbers are 1-based.
func NewReport(result *splitter.Result, source Source) Report {
	report := Report{
		Input:             source.Input,
		Template:          source.Template,
		Output:            source.Output,
		GroupColumn:       source.GroupColumn,
		TemplateSheet:     source.TemplateSheet,
		RawHeaderRow:      result.RawHeaderRow + 1,
		TemplateHeaderRow: result.TemplateHeaderRow,
		StartRow:          result.StartRow,
		RowsWritten:       result.RowsWritten,
		TemplateRemoved:   result.TemplateRemoved,
		Sheets:            make([]SheetEntry, 0, len(result.Sheets)),
	}
	for _, extra := range result.Mapping.Extras() {
		report.ExtraColumns = append(report.ExtraColumns, extra.Label)
	}
	for _, sheet := range result.Sheets {
		report.Sheets = append(report.Sheets, SheetEntry{Name: sheet.Name, Key: sheet.Key, Rows: sheet.Rows})
	}
	for _, warning := range result.Warnings {
		report.Warnings = append(report.Warnings, warning.Error())
	}
	return report
}

// HeaderGuessed reports whether any warning came from a failed header detection.
func HeaderGuessed(result *splitter.Result) bool {
	for _, warning := range result.Warnings {
		if errors.Is(warning, splitter.ErrHeaderNotDetected) {
			return true
		}
	}
	return false
}
