package workbook

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// dateStyles remembers which cell style indexes carry a date number format.
type dateStyles struct {
	file  *excelize.File
	known map[int]bool
}

func newDateStyles(file *excelize.File) *dateStyles {
	return &dateStyles{file: file, known: make(map[int]bool)}
}

func (d *dateStyles) lookup(sheet, cell string) (bool, error) {
	idx, err := d.file.GetCellStyle(sheet, cell)
	if err != nil {
		return false, fmt.Errorf("read cell style %s!%s: %w", sheet, cell, err)
	}
	if idx == 0 {
		return false, nil
	}
	if isDate, ok := d.known[idx]; ok {
		return isDate, nil
	}

	style, err := d.file.GetStyle(idx)
	if err != nil {
		return false, fmt.Errorf("read style %d: %w", idx, err)
	}
	isDate := isDateFormat(style.NumFmt, style.CustomNumFmt)
	d.known[idx] = isDate
	return isDate, nil
}

// Built-in number formats 14-22 and 45-47 render dates and times.
func isDateFormat(numFmt int, custom *string) bool {
	if custom != nil && *custom != "" {
		return customDateFormat(*custom)
	}
	return (numFmt >= 14 && numFmt <= 22) || (numFmt >= 45 && numFmt <= 47)
}

func customDateFormat(format string) bool {
	var b strings.Builder
	quoted, bracket := false, false
	for _, r := range strings.ToLower(format) {
		switch {
		case r == '"' && !bracket:
			quoted = !quoted
		case quoted:
		case r == '[':
			bracket = true
		case r == ']':
			bracket = false
		case bracket:
		default:
			b.WriteRune(r)
		}
	}
	clean := b.String()
	return strings.ContainsAny(clean, "dy") || (strings.Contains(clean, "mm") && strings.ContainsAny(clean, "hs"))
}
