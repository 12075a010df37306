package splitter

import (
	"errors"
	"testing"
)

func TestInspect_PrefersKeywordColumns(t *testing.T) {
	t.Parallel()

	raw := rawGrid(
		[]string{"Extrato"},
		[]string{"Data", "Nome do Cliente", "Processo", "Valor"},
		[]string{"2024-01-01", "Acme", "P1", "1"},
		[]string{"2024-01-02", "Beta", "P1", "2"},
		[]string{"2024-01-03", "", "P2", "3"},
	)

	inspection := Inspect(raw, DefaultOptions())
	if inspection.HeaderRow != 1 || inspection.Rows != 3 {
		t.Fatalf("unexpected header row %d or rows %d", inspection.HeaderRow, inspection.Rows)
	}
	if len(inspection.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", inspection.Warnings)
	}
	want := []Candidate{
		{Column: "Nome do Cliente", Groups: 3, Empty: 1},
		{Column: "Processo", Groups: 2, Empty: 0},
	}
	if len(inspection.Candidates) != len(want) {
		t.Fatalf("unexpected candidates: %+v", inspection.Candidates)
	}
	for i := range want {
		if inspection.Candidates[i] != want[i] {
			t.Fatalf("candidate %d: expected %+v, got %+v", i, want[i], inspection.Candidates[i])
		}
	}
}

func TestInspect_FallsBackToAllColumns(t *testing.T) {
	t.Parallel()

	raw := rawGrid([]string{"Name", "Notes"}, []string{"Acme", ""}, []string{"Beta", ""})
	inspection := Inspect(raw, DefaultOptions())

	if len(inspection.Warnings) != 1 || !errors.Is(inspection.Warnings[0], ErrHeaderNotDetected) {
		t.Fatalf("expected header warning, got %v", inspection.Warnings)
	}
	if len(inspection.Candidates) != 2 {
		t.Fatalf("expected every column as candidate, got %+v", inspection.Candidates)
	}
	if inspection.Candidates[1].Groups != 0 || inspection.Candidates[1].Empty != 2 {
		t.Fatalf("expected empty Notes column, got %+v", inspection.Candidates[1])
	}
}
