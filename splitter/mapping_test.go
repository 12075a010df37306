package splitter

import (
	"testing"

	"clientsplit/dataset"
)

func headerOf(labels ...string) []HeaderCell {
	row := make([]dataset.Value, len(labels))
	for i, label := range labels {
		row[i] = dataset.Text(label)
	}
	return HeaderCells(row)
}

func TestHeaderCells_SkipsEmptyLabels(t *testing.T) {
	t.Parallel()

	cells := headerOf("Cliente", "", "  ", " Valor ")
	if len(cells) != 2 {
		t.Fatalf("expected 2 header cells, got %d", len(cells))
	}
	if cells[1].Column != 4 || cells[1].Label != "Valor" {
		t.Fatalf("unexpected second cell: %+v", cells[1])
	}
}

func TestBuildMapping_MatchesNormalizedLabelsAndAppendsExtras(t *testing.T) {
	t.Parallel()

	mapping := BuildMapping(
		headerOf("Cliente", "Valor Total", "", "Data"),
		[]string{"data", "Notes", "CLIENTE", "valortotal", "Obs"},
		4,
	)

	want := map[string]int{"CLIENTE": 1, "valortotal": 2, "data": 4, "Notes": 5, "Obs": 6}
	if len(mapping.Assignments) != len(want) {
		t.Fatalf("expected %d assignments, got %+v", len(want), mapping.Assignments)
	}
	for raw, column := range want {
		assignment, ok := mapping.Lookup(raw)
		if !ok {
			t.Fatalf("raw column %q missing from mapping", raw)
		}
		if assignment.TemplateColumn != column {
			t.Fatalf("raw column %q: expected template column %d, got %d", raw, column, assignment.TemplateColumn)
		}
	}

	extras := mapping.Extras()
	if len(extras) != 2 || extras[0].RawColumn != "Notes" || extras[1].RawColumn != "Obs" {
		t.Fatalf("unexpected extras: %+v", extras)
	}
	if extras[0].Label != "Notes" {
		t.Fatalf("expected extra label to keep raw name, got %q", extras[0].Label)
	}
	if len(mapping.Mapped()) != 3 {
		t.Fatalf("expected 3 mapped columns, got %d", len(mapping.Mapped()))
	}
}

func TestBuildMapping_FirstTemplateColumnWins(t *testing.T) {
	t.Parallel()

	mapping := BuildMapping(headerOf("Valor", "VALOR"), []string{"valor"}, 2)
	if len(mapping.Assignments) != 1 {
		t.Fatalf("expected a single assignment, got %+v", mapping.Assignments)
	}
	if mapping.Assignments[0].TemplateColumn != 1 {
		t.Fatalf("expected first template column to claim raw column, got %+v", mapping.Assignments[0])
	}
}

func TestBuildMapping_DuplicateRawLabelsClaimedInOrder(t *testing.T) {
	t.Parallel()

	mapping := BuildMapping(headerOf("Valor", "Valor"), []string{"Valor", "valor "}, 2)
	first, _ := mapping.Lookup("Valor")
	second, _ := mapping.Lookup("valor ")
	if first.TemplateColumn != 1 || second.TemplateColumn != 2 {
		t.Fatalf("expected raw columns to fill template columns in order, got %d and %d", first.TemplateColumn, second.TemplateColumn)
	}
}

func TestBuildMapping_IsTotal(t *testing.T) {
	t.Parallel()

	raw := []string{"A", "B", "C", "D", "E"}
	mapping := BuildMapping(headerOf("b", "x", "d"), raw, 7)

	seenRaw := map[string]int{}
	seenTemplate := map[int]bool{}
	for _, assignment := range mapping.Assignments {
		seenRaw[assignment.RawColumn]++
		if seenTemplate[assignment.TemplateColumn] {
			t.Fatalf("template column %d assigned twice", assignment.TemplateColumn)
		}
		seenTemplate[assignment.TemplateColumn] = true
	}
	for _, column := range raw {
		if seenRaw[column] != 1 {
			t.Fatalf("raw column %q appears %d times", column, seenRaw[column])
		}
	}
	if extras := mapping.Extras(); extras[0].TemplateColumn != 8 {
		t.Fatalf("expected extras to start after column 7, got %d", extras[0].TemplateColumn)
	}
}

func TestBuildMapping_EmptyTemplateHeader(t *testing.T) {
	t.Parallel()

	mapping := BuildMapping(nil, []string{"A", "B"}, 0)
	extras := mapping.Extras()
	if len(extras) != 2 || extras[0].TemplateColumn != 1 || extras[1].TemplateColumn != 2 {
		t.Fatalf("unexpected extras: %+v", extras)
	}
}
