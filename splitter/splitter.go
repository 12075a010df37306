// Package splitter turns one raw table and a template sheet into one
// populated copy of the template per client.
package splitter

import (
	"fmt"
	"strings"

	"clientsplit/dataset"
	"clientsplit/header"
)

type SheetResult struct {
	Name     string
	Key      string
	Rows     int
	FirstRow int
}

type Result struct {
	// TemplateSheet is the resolved name of the model sheet.
	TemplateSheet string
	// RawHeaderRow is the 0-based grid index of the raw header.
	RawHeaderRow int
	// TemplateHeaderRow is the 1-based template row holding the labels.
	TemplateHeaderRow int
	HeaderMatches     int
	StartRow          int
	Columns           []string
	Mapping           Mapping
	Sheets            []SheetResult
	RowsWritten       int
	TemplateRemoved   bool
	Warnings          []error
}

func (r *Result) SheetNames() []string {
	names := make([]string, len(r.Sheets))
	for i, sheet := range r.Sheets {
		names[i] = sheet.Name
	}
	return names
}

// LoadTable locates the raw header row with the keyword hints and builds the
// typed table below it. A non-nil warning wraps ErrHeaderNotDetected.
func LoadTable(raw dataset.Grid, opts Options) (*dataset.Table, int, error) {
	opts = opts.withDefaults()
	row, ok := header.ByKeyword(raw, header.NewKeywordMatcher(opts.Keywords), opts.ScanLimit)
	var warning error
	if !ok {
		warning = fmt.Errorf("%w: no raw row within the first %d mentions %s; using the first row",
			ErrHeaderNotDetected, opts.ScanLimit, strings.Join(opts.Keywords, "/"))
	}
	return dataset.NewTable(raw, row), row, warning
}

// Run generates one sheet per group of raw inside book. On error the book
// may hold partially written sheets and must be discarded by the caller;
// every input problem is reported before the first sheet is created.
func Run(book Workbook, raw dataset.Grid, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	if strings.TrimSpace(opts.GroupColumn) == "" {
		return nil, fmt.Errorf("%w: grouping column is empty", ErrColumnNotFound)
	}

	template, err := resolveSheet(book, opts.TemplateSheet)
	if err != nil {
		return nil, err
	}

	result := &Result{TemplateSheet: template}
	table, rawRow, warning := LoadTable(raw, opts)
	if warning != nil {
		result.Warnings = append(result.Warnings, warning)
	}
	result.RawHeaderRow = rawRow
	result.Columns = table.Columns

	templateGrid, err := book.Rows(template)
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %q: %w", ErrTemplateLoad, template, err)
	}
	maxRow, maxCol, err := book.Dimensions(template)
	if err != nil {
		return nil, fmt.Errorf("%w: measure sheet %q: %w", ErrTemplateLoad, template, err)
	}

	headerIdx, matches := header.ByOverlap(templateGrid, table.Columns, opts.ScanLimit)
	if matches == 0 {
		result.Warnings = append(result.Warnings, fmt.Errorf(
			"%w: no template row of %q shares a label with the raw columns; using row 1", ErrHeaderNotDetected, template))
	}
	result.TemplateHeaderRow = headerIdx + 1
	result.HeaderMatches = matches

	var headerRow []dataset.Value
	if headerIdx < len(templateGrid) {
		headerRow = templateGrid[headerIdx]
	}
	headerCells := HeaderCells(headerRow)
	result.Mapping = BuildMapping(headerCells, table.Columns, maxCol)

	groups, err := Partition(table, opts.GroupColumn, opts.Names)
	if err != nil {
		return nil, err
	}

	layout := Layout{
		Template:  template,
		HeaderRow: result.TemplateHeaderRow,
		StartRow:  startRow(opts, result.TemplateHeaderRow, maxRow),
		Header:    headerCells,
		Mapping:   result.Mapping,
	}
	result.StartRow = layout.StartRow

	namer := NewNamer(opts.Names, book.SheetNames())
	for _, group := range groups {
		name := namer.Next(group.Key)
		written, err := Materialize(book, layout, name, table, group.Rows)
		if err != nil {
			return nil, err
		}
		result.Sheets = append(result.Sheets, SheetResult{
			Name:     name,
			Key:      group.Key,
			Rows:     written,
			FirstRow: layout.StartRow,
		})
		result.RowsWritten += written
	}

	if !opts.KeepTemplate {
		if err := book.Remove(template); err != nil {
			return nil, fmt.Errorf("remove template sheet %q: %w", template, err)
		}
		result.TemplateRemoved = true
	}

	return result, nil
}

func resolveSheet(book Workbook, requested string) (string, error) {
	names := book.SheetNames()
	requested = strings.TrimSpace(requested)
	if requested == "" {
		if len(names) == 0 {
			return "", fmt.Errorf("%w: workbook has no sheets", ErrTemplateLoad)
		}
		return names[0], nil
	}
	for _, name := range names {
		if name == requested {
			return name, nil
		}
	}
	for _, name := range names {
		if strings.EqualFold(name, requested) {
			return name, nil
		}
	}
	return "", fmt.Errorf("%w: sheet %q not found (available sheets: %s)", ErrTemplateLoad, requested, strings.Join(names, ", "))
}

func startRow(opts Options, headerRow, maxRow int) int {
	if opts.StartRow > 0 {
		return opts.StartRow
	}
	if opts.StartMode == StartAfterContent && maxRow >= headerRow {
		return maxRow + 1
	}
	return headerRow + 1
}
