package splitter

import (
	"strings"

	"clientsplit/dataset"
	"clientsplit/internal/colname"
)

// HeaderCell is one non-empty label of a template header row; Column is 1-based.
type HeaderCell struct {
	Column int
	Label  string
	Value  dataset.Value
}

// Assignment binds a raw column to a 1-based template column. Extra marks raw
// columns without a template counterpart, appended right of the template.
type Assignment struct {
	TemplateColumn int
	RawColumn      string
	RawIndex       int
	Label          string
	Extra          bool
}

type Mapping struct {
	Assignments []Assignment
}

// HeaderCells extracts the non-empty labels of a template row.
func HeaderCells(row []dataset.Value) []HeaderCell {
	cells := make([]HeaderCell, 0, len(row))
	for i, value := range row {
		label := strings.TrimSpace(value.String())
		if label == "" {
			continue
		}
		cells = append(cells, HeaderCell{Column: i + 1, Label: label, Value: value})
	}
	return cells
}

// BuildMapping pairs template header cells with raw columns by normalized
// label. Each raw column is claimed at most once, by the leftmost template
// column; unclaimed raw columns become extras numbered from
// maxTemplateColumn+1 in raw order.
func BuildMapping(templateHeader []HeaderCell, rawColumns []string, maxTemplateColumn int) Mapping {
	rawKeys := make([]string, len(rawColumns))
	for i, column := range rawColumns {
		rawKeys[i] = colname.Normalize(column)
	}

	claimed := make([]bool, len(rawColumns))
	mapping := Mapping{Assignments: make([]Assignment, 0, len(rawColumns))}
	for _, cell := range templateHeader {
		key := colname.Normalize(cell.Label)
		if key == "" {
			continue
		}
		if cell.Column > maxTemplateColumn {
			maxTemplateColumn = cell.Column
		}
		for i, rawKey := range rawKeys {
			if claimed[i] || rawKey != key {
				continue
			}
			claimed[i] = true
			mapping.Assignments = append(mapping.Assignments, Assignment{
				TemplateColumn: cell.Column,
				RawColumn:      rawColumns[i],
				RawIndex:       i,
				Label:          cell.Label,
			})
			break
		}
	}

	next := maxTemplateColumn + 1
	for i, column := range rawColumns {
		if claimed[i] {
			continue
		}
		mapping.Assignments = append(mapping.Assignments, Assignment{
			TemplateColumn: next,
			RawColumn:      column,
			RawIndex:       i,
			Label:          column,
			Extra:          true,
		})
		next++
	}

	return mapping
}

func (m Mapping) Mapped() []Assignment {
	return m.filter(false)
}

func (m Mapping) Extras() []Assignment {
	return m.filter(true)
}

func (m Mapping) filter(extra bool) []Assignment {
	out := make([]Assignment, 0, len(m.Assignments))
	for _, assignment := range m.Assignments {
		if assignment.Extra == extra {
			out = append(out, assignment)
		}
	}
	return out
}

// Lookup returns the assignment of a raw column label.
func (m Mapping) Lookup(rawColumn string) (Assignment, bool) {
	for _, assignment := range m.Assignments {
		if assignment.RawColumn == rawColumn {
			return assignment, true
		}
	}
	return Assignment{}, false
}
