package cmd

import (
	"clientsplit/config"
	"clientsplit/importer"
	"clientsplit/output"
	"clientsplit/splitter"
	"clientsplit/storage"
	"clientsplit/workbook"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

type splitFlags struct {
	input        string
	template     string
	column       string
	sheet        string
	output       string
	dropTemplate bool
	startMode    string
	startRow     int
	rawSheet     string
	format       string
	delimiter    string
	encoding     string
	report       string
	reportFormat string
	historyDB    string
}

var splitOpts splitFlags

var splitCmd = &cobra.Command{
	Use:   "split",
	Short: "Generate one template-based sheet per client",
	Long: `Read the raw table, group its rows by the grouping column and write one copy of the
template sheet per client, filled with that client's rows.

The raw header row is detected from keyword hints (cliente, processo, contrato, ...).
Raw columns are matched to template header labels case- and whitespace-insensitively;
raw columns without a template label are appended after the template's last column.
Empty and "nan"/"none" client values are collected in one sheet named by the sentinel.

When --output is omitted, the workbook is written next to the template as
<template>-by-client.xlsx. Use --output - to write the workbook to stdout.`,
	Example: `
  # Split processes by client into copies of the "Geral" sheet
  clientsplit split -i ./processos.xlsx -t ./modelo.xlsx -c Cliente -s Geral

  # Append rows after the template content and drop the template sheet
  clientsplit split -i ./processos.csv -t ./modelo.xlsx -c Cliente --start-mode append --drop-template

  # Write a YAML report and record the run in the history database
  clientsplit split -i ./processos.xlsx -t ./modelo.xlsx -c Cliente --report ./report.yaml --history ./clientsplit.db
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}
		_, err = runSplit(cfg, splitOpts, os.Stdout, os.Stderr)
		return err
	},
}

func init() {
	rootCmd.AddCommand(splitCmd)

	splitCmd.Flags().StringVarP(&splitOpts.input, "input", "i", "", "Raw table file (.xlsx, .xlsm, .xls, .csv, .tsv, .txt)")
	splitCmd.Flags().StringVarP(&splitOpts.template, "template", "t", "", "Template workbook (.xlsx, .xlsm)")
	splitCmd.Flags().StringVarP(&splitOpts.column, "column", "c", "", "Grouping column of the raw table")
	splitCmd.Flags().StringVarP(&splitOpts.sheet, "sheet", "s", "", "Template sheet (default from config, else the first sheet)")
	splitCmd.Flags().StringVarP(&splitOpts.output, "output", "o", "", "Output workbook path, - for stdout (default <template>-by-client.xlsx)")
	splitCmd.Flags().BoolVar(&splitOpts.dropTemplate, "drop-template", false, "Remove the template sheet from the output")
	splitCmd.Flags().StringVar(&splitOpts.startMode, "start-mode", "", "Where rows start: header or append (default from config)")
	splitCmd.Flags().IntVar(&splitOpts.startRow, "start-row", 0, "Explicit 1-based first data row (overrides --start-mode)")
	splitCmd.Flags().StringVar(&splitOpts.rawSheet, "raw-sheet", "", "Sheet of a raw workbook (default first sheet)")
	splitCmd.Flags().StringVar(&splitOpts.format, "format", "", "Raw input format: csv, tsv, txt, excel, xls (default from extension)")
	splitCmd.Flags().StringVar(&splitOpts.delimiter, "delimiter", "", "CSV delimiter, auto to detect (default from config)")
	splitCmd.Flags().StringVar(&splitOpts.encoding, "encoding", "", "CSV encoding (default from config)")
	splitCmd.Flags().StringVar(&splitOpts.report, "report", "", "Write a run report to this path, - for stdout")
	splitCmd.Flags().StringVar(&splitOpts.reportFormat, "report-format", "", "Report format: text, csv, yaml, excel (default from extension)")
	splitCmd.Flags().StringVar(&splitOpts.historyDB, "history", "", "Record the run in this SQLite history database (default from config when enabled)")

	_ = splitCmd.MarkFlagRequired("input")
	_ = splitCmd.MarkFlagRequired("template")
	_ = splitCmd.MarkFlagRequired("column")
}

// runSplit executes one split and prints the summary to stdout, or to stderr
// when the workbook itself goes to stdout.
func runSplit(cfg *config.Config, flags splitFlags, stdout, stderr io.Writer) (*splitter.Result, error) {
	opts, err := splitOptionsFromFlags(cfg, flags)
	if err != nil {
		return nil, err
	}

	readerOpts := importer.Options{
		Sheet:     flags.rawSheet,
		Delimiter: firstNonBlank(flags.delimiter, cfg.Input.CSVDelimiter),
		Encoding:  firstNonBlank(flags.encoding, cfg.Input.CSVEncoding),
		Charset:   cfg.Input.XLSCharset,
	}
	grid, err := importer.ReadFile(flags.input, flags.format, readerOpts)
	if err != nil {
		return nil, err
	}

	book, err := workbook.Open(flags.template)
	if err != nil {
		return nil, err
	}
	defer book.Close()

	result, err := splitter.Run(book, grid, opts)
	if err != nil {
		return nil, err
	}
	if len(result.Sheets) > 0 {
		if err := book.Activate(result.Sheets[0].Name); err != nil {
			return nil, err
		}
	}

	outputPath := flags.output
	if strings.TrimSpace(outputPath) == "" {
		outputPath = defaultOutputPath(flags.template)
	}
	summary := stdout
	if outputPath == output.Stdout {
		summary = stderr
		if _, err := book.WriteTo(stdout); err != nil {
			return nil, err
		}
	} else if err := book.Save(outputPath); err != nil {
		return nil, err
	}

	for _, warning := range result.Warnings {
		fmt.Fprintf(stderr, "Warning: %v\n", warning)
	}

	report := output.NewReport(result, output.Source{
		Input:         flags.input,
		Template:      flags.template,
		Output:        outputPath,
		GroupColumn:   opts.GroupColumn,
		TemplateSheet: result.TemplateSheet,
	})

	if flags.report != "" {
		format := flags.reportFormat
		if strings.TrimSpace(format) == "" {
			format = output.InferFormat(flags.report)
		}
		writer, err := output.WriterForFormat(format)
		if err != nil {
			return nil, err
		}
		if err := writer.Write(flags.report, report); err != nil {
			return nil, err
		}
	}

	if historyDB := resolveHistoryDB(flags.historyDB, cfg); historyDB != "" {
		if err := recordRun(historyDB, report, len(result.Warnings)); err != nil {
			return nil, err
		}
	}

	fmt.Fprintf(summary, "Split completed. Sheets: %d, Rows written: %d, Template removed: %t, Output: %s\n",
		len(result.Sheets),
		result.RowsWritten,
		result.TemplateRemoved,
		displayPath(outputPath),
	)
	for _, sheet := range result.Sheets {
		fmt.Fprintf(summary, "  %s (%d rows)\n", sheet.Name, sheet.Rows)
	}
	return result, nil
}

func splitOptionsFromFlags(cfg *config.Config, flags splitFlags) (splitter.Options, error) {
	opts := cfg.SplitOptions()
	opts.GroupColumn = strings.TrimSpace(flags.column)
	if opts.GroupColumn == "" {
		return opts, fmt.Errorf("grouping column is required (--column)")
	}
	if sheet := strings.TrimSpace(flags.sheet); sheet != "" {
		opts.TemplateSheet = sheet
	}
	if flags.dropTemplate {
		opts.KeepTemplate = false
	}
	if raw := strings.TrimSpace(flags.startMode); raw != "" {
		mode := splitter.StartMode(strings.ToLower(raw))
		switch mode {
		case splitter.StartAtHeader, splitter.StartAfterContent:
			opts.StartMode = mode
		default:
			return opts, fmt.Errorf("invalid --start-mode %q (valid: header, append)", raw)
		}
	}
	if flags.startRow < 0 {
		return opts, fmt.Errorf("invalid --start-row %d (expected positive row number)", flags.startRow)
	}
	opts.StartRow = flags.startRow
	return opts, nil
}

func recordRun(path string, report output.Report, warnings int) error {
	store, err := storage.OpenSQLite(path)
	if err != nil {
		return err
	}
	defer store.Close()

	sheets := make([]string, 0, len(report.Sheets))
	for _, sheet := range report.Sheets {
		sheets = append(sheets, sheet.Name)
	}
	return store.InsertRun(&storage.Run{
		Origin:        "cli",
		Input:         report.Input,
		Template:      report.Template,
		Output:        report.Output,
		GroupColumn:   report.GroupColumn,
		TemplateSheet: report.TemplateSheet,
		Sheets:        sheets,
		RowsWritten:   report.RowsWritten,
		Warnings:      warnings,
	})
}

// defaultOutputPath places <stem>-by-client next to the template, keeping a
// macro-enabled extension.
func defaultOutputPath(templatePath string) string {
	ext := strings.ToLower(filepath.Ext(templatePath))
	if ext != ".xlsm" {
		ext = ".xlsx"
	}
	stem := strings.TrimSuffix(filepath.Base(templatePath), filepath.Ext(templatePath))
	if stem == "" || stem == "." {
		stem = "template"
	}
	return filepath.Join(filepath.Dir(templatePath), stem+"-by-client"+ext)
}

func displayPath(path string) string {
	if path == output.Stdout {
		return "stdout"
	}
	return path
}

func firstNonBlank(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
