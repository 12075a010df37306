package cmd

import (
	"bytes"
	"clientsplit/storage"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestConfirmPrompt(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "uppercase Y confirms", input: "Y\n", want: true},
		{name: "lowercase y does not confirm", input: "y\n", want: false},
		{name: "N does not confirm", input: "N\n", want: false},
		{name: "empty does not confirm", input: "\n", want: false},
		{name: "Y without newline confirms", input: "Y", want: true},
		{name: "Y with surrounding spaces confirms", input: "  Y \r\n", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := confirmPrompt(bytes.NewBufferString(tt.input), &out, `Delete all runs recorded in "./clientsplit.db"?`)
			if err != nil {
				t.Fatalf("confirm prompt returned error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			if !strings.Contains(out.String(), "Type Y to confirm") {
				t.Fatalf("expected prompt output, got %q", out.String())
			}
		})
	}
}

func TestConfirmPrompt_NilInput(t *testing.T) {
	if _, err := confirmPrompt(nil, nil, "Delete?"); err == nil {
		t.Fatalf("expected error without input")
	}
}

func TestRemoveDatabaseFile(t *testing.T) {
	t.Run("deletes existing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "clientsplit.db")
		if err := os.WriteFile(path, []byte("x"), 0o600); err != nil {
			t.Fatalf("write temp db file: %v", err)
		}

		if err := removeDatabaseFile(path); err != nil {
			t.Fatalf("remove db file: %v", err)
		}
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Fatalf("expected file to be deleted")
		}
	})

	t.Run("fails for directory path", func(t *testing.T) {
		dir := t.TempDir()
		if err := removeDatabaseFile(dir); err == nil {
			t.Fatalf("expected error for directory path")
		}
	})

	t.Run("fails for missing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing.db")
		if err := removeDatabaseFile(path); err == nil {
			t.Fatalf("expected error for missing file")
		}
	})
}

func TestWriteRuns(t *testing.T) {
	t.Parallel()

	runs := []storage.Run{{
		ID:          "run-1",
		CreatedAt:   time.Date(2025, 2, 3, 10, 30, 0, 0, time.Local),
		Origin:      "cli",
		Input:       "processos.xlsx",
		GroupColumn: "Cliente",
		Sheets:      []string{"Acme", "Beta"},
		RowsWritten: 3,
	}}

	var out bytes.Buffer
	if err := writeRuns(&out, runs); err != nil {
		t.Fatalf("write runs: %v", err)
	}
	text := out.String()
	for _, want := range []string{"ID", "run-1", "2025-02-03 10:30", "processos.xlsx", "Cliente"} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in output:\n%s", want, text)
		}
	}
}

func TestWriteRunDetail(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	err := writeRunDetail(&out, storage.Run{
		ID:            "run-2",
		Origin:        "web",
		TemplateSheet: "Geral",
		Sheets:        []string{"Acme", "Unnamed"},
	})
	if err != nil {
		t.Fatalf("write run detail: %v", err)
	}
	text := out.String()
	for _, want := range []string{"run-2", "web", "Geral", "Acme", "Unnamed"} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in output:\n%s", want, text)
		}
	}
}
