package splitter

import (
	"fmt"
	"strings"

	"clientsplit/dataset"
	"clientsplit/internal/colname"
)

// Group is one client: its canonical key and the indices of its rows in the
// raw table, in source order.
type Group struct {
	Key  string
	Rows []int
}

// ResolveColumn finds column by exact label, then by normalized label.
func ResolveColumn(table *dataset.Table, column string) (int, error) {
	if idx := table.ColumnIndex(column); idx >= 0 {
		return idx, nil
	}
	if idx := table.ColumnIndex(strings.TrimSpace(column)); idx >= 0 {
		return idx, nil
	}
	key := colname.Normalize(column)
	if key != "" {
		for i, label := range table.Columns {
			if colname.Normalize(label) == key {
				return i, nil
			}
		}
	}
	return -1, fmt.Errorf("%w: %q (available columns: %s)", ErrColumnNotFound, column, strings.Join(table.Columns, ", "))
}

// GroupKey canonicalizes a grouping value: trimmed text, with blanks and null
// tokens collapsed into the sentinel.
func GroupKey(value dataset.Value, opts NameOptions) string {
	opts = opts.withDefaults()
	key := strings.TrimSpace(value.String())
	if IsNullToken(key, opts.NullTokens) {
		return opts.Sentinel
	}
	return key
}

// Partition splits the table rows by the grouping column, keeping the first
// appearance order of keys and the source order of rows.
func Partition(table *dataset.Table, column string, opts NameOptions) ([]Group, error) {
	idx, err := ResolveColumn(table, column)
	if err != nil {
		return nil, err
	}
	opts = opts.withDefaults()

	groups := make([]Group, 0, 16)
	position := make(map[string]int, 16)
	usable := false
	for row := range table.Rows {
		value := table.Value(row, idx)
		if !IsNullToken(value.String(), opts.NullTokens) {
			usable = true
		}
		key := GroupKey(value, opts)
		pos, ok := position[key]
		if !ok {
			pos = len(groups)
			position[key] = pos
			groups = append(groups, Group{Key: key})
		}
		groups[pos].Rows = append(groups[pos].Rows, row)
	}

	if !usable {
		return nil, fmt.Errorf("%w: every value of %q is empty", ErrAllValuesEmpty, table.Columns[idx])
	}
	return groups, nil
}
