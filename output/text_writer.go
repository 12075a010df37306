package output

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

type TextWriter struct{}

func (w *TextWriter) Write(path string, report Report) error {
	out, err := create(path)
	if err != nil {
		return err
	}
	if err := WriteText(out, report); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// WriteText renders the report as an aligned listing of generated sheets.
func WriteText(out io.Writer, report Report) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Grouping column:\t%s\n", report.GroupColumn)
	fmt.Fprintf(tw, "Template sheet:\t%s\n", report.TemplateSheet)
	fmt.Fprintf(tw, "Header rows:\traw %d, template %d\n", report.RawHeaderRow, report.TemplateHeaderRow)
	fmt.Fprintf(tw, "First data row:\t%d\n", report.StartRow)
	if len(report.ExtraColumns) > 0 {
		fmt.Fprintf(tw, "Appended columns:\t%s\n", strings.Join(report.ExtraColumns, ", "))
	}
	fmt.Fprintf(tw, "Sheets:\t%d (%d rows)\n", len(report.Sheets), report.RowsWritten)
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "SHEET\tKEY\tROWS")
	for _, sheet := range report.Sheets {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", sheet.Name, sheet.Key, sheet.Rows)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("write text report: %w", err)
	}
	return nil
}
