package cmd

import (
	"clientsplit/config"
	"clientsplit/importer"
	"clientsplit/splitter"
	"clientsplit/workbook"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

type columnsFlags struct {
	input    string
	template string
	rawSheet string
	format   string
}

var columnsOpts columnsFlags

var columnsCmd = &cobra.Command{
	Use:   "columns",
	Short: "Show the detected header, columns and grouping candidates of a raw table",
	Long: `Inspect a raw table before splitting it.

Prints the detected header row, every column label, and the grouping candidates:
columns whose label matches a keyword hint, or all columns when none does.
Each candidate shows how many client sheets it would produce and how many rows
would land in the sentinel sheet. With --template, the template sheets are listed too.`,
	Example: `
  # Inspect a raw workbook
  clientsplit columns -i ./processos.xlsx

  # Inspect a CSV and list template sheets
  clientsplit columns -i ./processos.csv -t ./modelo.xlsx
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}
		return runColumns(cfg, columnsOpts, os.Stdout, os.Stderr)
	},
}

func init() {
	rootCmd.AddCommand(columnsCmd)

	columnsCmd.Flags().StringVarP(&columnsOpts.input, "input", "i", "", "Raw table file (.xlsx, .xlsm, .xls, .csv, .tsv, .txt)")
	columnsCmd.Flags().StringVarP(&columnsOpts.template, "template", "t", "", "Template workbook whose sheets are listed")
	columnsCmd.Flags().StringVar(&columnsOpts.rawSheet, "raw-sheet", "", "Sheet of a raw workbook (default first sheet)")
	columnsCmd.Flags().StringVar(&columnsOpts.format, "format", "", "Raw input format: csv, tsv, txt, excel, xls (default from extension)")

	_ = columnsCmd.MarkFlagRequired("input")
}

func runColumns(cfg *config.Config, flags columnsFlags, stdout, stderr io.Writer) error {
	grid, err := importer.ReadFile(flags.input, flags.format, importer.Options{
		Sheet:     flags.rawSheet,
		Delimiter: cfg.Input.CSVDelimiter,
		Encoding:  cfg.Input.CSVEncoding,
		Charset:   cfg.Input.XLSCharset,
	})
	if err != nil {
		return err
	}

	rawSheets, err := importer.ListSheets(flags.input, flags.format)
	if err != nil {
		return err
	}

	var templateSheets []string
	if flags.template != "" {
		book, err := workbook.Open(flags.template)
		if err != nil {
			return err
		}
		templateSheets = book.SheetNames()
		book.Close()
	}

	inspection := splitter.Inspect(grid, cfg.SplitOptions())
	for _, warning := range inspection.Warnings {
		fmt.Fprintf(stderr, "Warning: %v\n", warning)
	}
	return writeInspection(stdout, inspection, rawSheets, templateSheets)
}

func writeInspection(out io.Writer, inspection *splitter.Inspection, rawSheets, templateSheets []string) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	if len(rawSheets) > 0 {
		fmt.Fprintf(tw, "Raw sheets:\t%s\n", strings.Join(rawSheets, ", "))
	}
	fmt.Fprintf(tw, "Header row:\t%d\n", inspection.HeaderRow+1)
	fmt.Fprintf(tw, "Data rows:\t%d\n", inspection.Rows)
	fmt.Fprintf(tw, "Columns:\t%s\n", strings.Join(inspection.Columns, ", "))
	if len(templateSheets) > 0 {
		fmt.Fprintf(tw, "Template sheets:\t%s\n", strings.Join(templateSheets, ", "))
	}
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "CANDIDATE\tSHEETS\tEMPTY")
	for _, candidate := range inspection.Candidates {
		fmt.Fprintf(tw, "%s\t%d\t%d\n", candidate.Column, candidate.Groups, candidate.Empty)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("write columns: %w", err)
	}
	return nil
}
