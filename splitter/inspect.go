package splitter

import (
	"errors"

	"clientsplit/dataset"
	"clientsplit/header"
)

// Candidate is a column that could serve as the grouping column.
type Candidate struct {
	Column string `json:"column"`
	Groups int    `json:"groups"`
	Empty  int    `json:"empty"`
}

// Inspection describes a raw grid before any sheet is generated.
type Inspection struct {
	HeaderRow  int         `json:"headerRow"`
	Columns    []string    `json:"columns"`
	Rows       int         `json:"rows"`
	Candidates []Candidate `json:"candidates"`
	Warnings   []error     `json:"-"`
}

// Inspect locates the raw header and lists grouping candidates: the columns
// whose label matches a keyword hint, or every column when none does.
func Inspect(raw dataset.Grid, opts Options) *Inspection {
	opts = opts.withDefaults()
	table, row, warning := LoadTable(raw, opts)

	inspection := &Inspection{
		HeaderRow: row,
		Columns:   table.Columns,
		Rows:      table.Len(),
	}
	if warning != nil {
		inspection.Warnings = append(inspection.Warnings, warning)
	}

	matcher := header.NewKeywordMatcher(opts.Keywords)
	hinted := make([]string, 0, len(table.Columns))
	for _, column := range table.Columns {
		if matcher.Match(column) {
			hinted = append(hinted, column)
		}
	}
	if len(hinted) == 0 {
		hinted = table.Columns
	}

	for _, column := range hinted {
		candidate := Candidate{Column: column}
		idx := table.ColumnIndex(column)
		for r := range table.Rows {
			if IsNullToken(table.Value(r, idx).String(), opts.Names.NullTokens) {
				candidate.Empty++
			}
		}
		groups, err := Partition(table, column, opts.Names)
		if err != nil && !errors.Is(err, ErrAllValuesEmpty) {
			continue
		}
		candidate.Groups = len(groups)
		inspection.Candidates = append(inspection.Candidates, candidate)
	}

	return inspection
}
