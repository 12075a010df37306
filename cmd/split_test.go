package cmd

import (
	"bytes"
	"clientsplit/config"
	"clientsplit/dataset"
	"clientsplit/splitter"
	"clientsplit/storage"
	"clientsplit/workbook"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func writeTemplateFile(t *testing.T, dir, sheet string, header []string) string {
	t.Helper()

	file := excelize.NewFile()
	defer file.Close()
	if err := file.SetSheetName("Sheet1", sheet); err != nil {
		t.Fatalf("rename sheet: %v", err)
	}
	if err := file.SetSheetRow(sheet, "A1", &header); err != nil {
		t.Fatalf("write template header: %v", err)
	}

	path := filepath.Join(dir, "modelo.xlsx")
	if err := file.SaveAs(path); err != nil {
		t.Fatalf("save template: %v", err)
	}
	return path
}

func writeRawCSV(t *testing.T, dir, content string) string {
	t.Helper()

	path := filepath.Join(dir, "processos.csv")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write raw csv: %v", err)
	}
	return path
}

func splitFixture(t *testing.T) (string, splitFlags) {
	t.Helper()

	dir := t.TempDir()
	template := writeTemplateFile(t, dir, "Geral", []string{"Cliente", "Processo", "Valor"})
	raw := writeRawCSV(t, dir, "Cliente;Processo;Valor\nAcme;P1;10\nBeta;P2;20\nAcme;P3;30\n")
	return dir, splitFlags{
		input:    raw,
		template: template,
		column:   "Cliente",
		output:   filepath.Join(dir, "out.xlsx"),
	}
}

func TestRunSplit_WritesWorkbookReportAndHistory(t *testing.T) {
	t.Parallel()

	dir, flags := splitFixture(t)
	flags.report = filepath.Join(dir, "report.yaml")
	flags.historyDB = filepath.Join(dir, "history.db")

	var stdout, stderr bytes.Buffer
	result, err := runSplit(config.Default(), flags, &stdout, &stderr)
	if err != nil {
		t.Fatalf("run split: %v", err)
	}
	if got := result.SheetNames(); !reflect.DeepEqual(got, []string{"Acme", "Beta"}) {
		t.Fatalf("unexpected sheets: %v", got)
	}
	if !strings.Contains(stdout.String(), "Split completed. Sheets: 2, Rows written: 3") {
		t.Fatalf("unexpected summary: %q", stdout.String())
	}
	if stderr.Len() != 0 {
		t.Fatalf("unexpected warnings: %q", stderr.String())
	}

	book, err := workbook.Open(flags.output)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer book.Close()
	if got := book.SheetNames(); !reflect.DeepEqual(got, []string{"Geral", "Acme", "Beta"}) {
		t.Fatalf("unexpected output sheets: %v", got)
	}
	rows, err := book.Rows("Acme")
	if err != nil {
		t.Fatalf("read Acme: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header plus two rows, got %d", len(rows))
	}
	if rows[2][1].String() != "P3" || rows[2][2].Kind() != dataset.Number || rows[2][2].String() != "30" {
		t.Fatalf("unexpected Acme row: %v", rows[2])
	}

	report, err := os.ReadFile(flags.report)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	for _, want := range []string{"group_column: Cliente", "template_sheet: Geral", "rows_written: 3"} {
		if !strings.Contains(string(report), want) {
			t.Fatalf("expected %q in report:\n%s", want, report)
		}
	}

	store, err := storage.OpenSQLite(flags.historyDB)
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	defer store.Close()
	runs, err := store.ListRuns(0)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected one recorded run, got %d", len(runs))
	}
	if runs[0].Origin != "cli" || runs[0].TemplateSheet != "Geral" || !reflect.DeepEqual(runs[0].Sheets, []string{"Acme", "Beta"}) {
		t.Fatalf("unexpected run: %+v", runs[0])
	}
}

func TestRunSplit_DropTemplateAndDefaultOutput(t *testing.T) {
	t.Parallel()

	dir, flags := splitFixture(t)
	flags.output = ""
	flags.dropTemplate = true

	var stdout, stderr bytes.Buffer
	result, err := runSplit(config.Default(), flags, &stdout, &stderr)
	if err != nil {
		t.Fatalf("run split: %v", err)
	}
	if !result.TemplateRemoved {
		t.Fatalf("expected template to be removed")
	}

	output := filepath.Join(dir, "modelo-by-client.xlsx")
	book, err := workbook.Open(output)
	if err != nil {
		t.Fatalf("open default output: %v", err)
	}
	defer book.Close()
	if got := book.SheetNames(); !reflect.DeepEqual(got, []string{"Acme", "Beta"}) {
		t.Fatalf("unexpected output sheets: %v", got)
	}
}

func TestRunSplit_WorkbookToStdout(t *testing.T) {
	t.Parallel()

	_, flags := splitFixture(t)
	flags.output = "-"

	var stdout, stderr bytes.Buffer
	if _, err := runSplit(config.Default(), flags, &stdout, &stderr); err != nil {
		t.Fatalf("run split: %v", err)
	}
	if !bytes.HasPrefix(stdout.Bytes(), []byte("PK")) {
		t.Fatalf("expected xlsx bytes on stdout")
	}
	if !strings.Contains(stderr.String(), "Output: stdout") {
		t.Fatalf("expected summary on stderr, got %q", stderr.String())
	}
}

func TestRunSplit_HeaderWarningGoesToStderr(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	template := writeTemplateFile(t, dir, "Geral", []string{"Nome", "Valor"})
	raw := writeRawCSV(t, dir, "Nome;Valor\nAcme;1\nBeta;2\n")

	var stdout, stderr bytes.Buffer
	result, err := runSplit(config.Default(), splitFlags{
		input:    raw,
		template: template,
		column:   "Nome",
		output:   filepath.Join(dir, "out.xlsx"),
	}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("run split: %v", err)
	}
	if len(result.Sheets) != 2 {
		t.Fatalf("expected two sheets, got %v", result.SheetNames())
	}
	if !strings.HasPrefix(stderr.String(), "Warning: ") || !strings.Contains(stderr.String(), "header row not detected") {
		t.Fatalf("expected header warning on stderr, got %q", stderr.String())
	}
}

func TestRunSplit_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		modify  func(*splitFlags)
		wantErr error
		wantMsg string
	}{
		{name: "unknown column", modify: func(f *splitFlags) { f.column = "Contrato" }, wantErr: splitter.ErrColumnNotFound},
		{name: "missing template sheet", modify: func(f *splitFlags) { f.sheet = "Resumo" }, wantErr: splitter.ErrTemplateLoad},
		{name: "missing template file", modify: func(f *splitFlags) { f.template = f.template + ".missing" }, wantErr: splitter.ErrTemplateLoad},
		{name: "invalid start mode", modify: func(f *splitFlags) { f.startMode = "bottom" }, wantMsg: "invalid --start-mode"},
		{name: "negative start row", modify: func(f *splitFlags) { f.startRow = -1 }, wantMsg: "invalid --start-row"},
		{name: "blank column", modify: func(f *splitFlags) { f.column = "  " }, wantMsg: "grouping column is required"},
		{name: "unsupported report format", modify: func(f *splitFlags) {
			f.report = filepath.Join(filepath.Dir(f.output), "report.pdf")
			f.reportFormat = "pdf"
		}, wantMsg: "unsupported report format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, flags := splitFixture(t)
			tt.modify(&flags)

			var stdout, stderr bytes.Buffer
			_, err := runSplit(config.Default(), flags, &stdout, &stderr)
			if err == nil {
				t.Fatalf("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if tt.wantMsg != "" && !strings.Contains(err.Error(), tt.wantMsg) {
				t.Fatalf("expected %q in error, got %v", tt.wantMsg, err)
			}
		})
	}
}

func TestSplitOptionsFromFlags(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	opts, err := splitOptionsFromFlags(cfg, splitFlags{
		column:       " Cliente ",
		sheet:        "Modelo",
		dropTemplate: true,
		startMode:    "APPEND",
		startRow:     7,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.GroupColumn != "Cliente" || opts.TemplateSheet != "Modelo" {
		t.Fatalf("unexpected column/sheet: %+v", opts)
	}
	if opts.KeepTemplate || opts.StartMode != splitter.StartAfterContent || opts.StartRow != 7 {
		t.Fatalf("unexpected start options: %+v", opts)
	}
	if opts.Names.Sentinel != cfg.SheetNames.Sentinel {
		t.Fatalf("expected sheet name options from config, got %+v", opts.Names)
	}
}

func TestDefaultOutputPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		template string
		want     string
	}{
		{template: filepath.Join("in", "modelo.xlsx"), want: filepath.Join("in", "modelo-by-client.xlsx")},
		{template: "macro.XLSM", want: "macro-by-client.xlsm"},
		{template: "plain", want: "plain-by-client.xlsx"},
	}
	for _, tt := range tests {
		if got := defaultOutputPath(tt.template); got != tt.want {
			t.Fatalf("%s: expected %q, got %q", tt.template, tt.want, got)
		}
	}
}
