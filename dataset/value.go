// Package dataset holds the typed cell and table values shared by readers,
// the splitter and the workbook adapter.
package dataset

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"clientsplit/internal/timeutil"
)

type Kind int

const (
	Empty Kind = iota
	String
	Number
	Bool
	Time
)

func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Number:
		return "number"
	case Bool:
		return "bool"
	case Time:
		return "time"
	default:
		return "empty"
	}
}

// Value is a nullable spreadsheet scalar. The zero value is Empty.
type Value struct {
	kind Kind
	text string
	num  float64
	flag bool
	at   time.Time
}

var numericText = regexp.MustCompile(`^-?\d+(\.\d+)?$`)

func Text(value string) Value {
	if value == "" {
		return Value{}
	}
	return Value{kind: String, text: value}
}

func Num(value float64) Value {
	return Value{kind: Number, num: value}
}

func Boolean(value bool) Value {
	return Value{kind: Bool, flag: value}
}

func Timestamp(value time.Time) Value {
	if value.IsZero() {
		return Value{}
	}
	return Value{kind: Time, at: value}
}

// Infer types a raw text cell. Plain decimal numbers become Number only when
// a float64 holds them exactly; leading zeros ("00123"), exponents and long
// identifiers such as 20-digit process numbers stay text.
func Infer(raw string) Value {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Value{}
	}
	if numericText.MatchString(trimmed) && !hasLeadingZero(trimmed) {
		parsed, err := strconv.ParseFloat(trimmed, 64)
		if err == nil && strconv.FormatFloat(parsed, 'f', -1, 64) == canonicalDecimal(trimmed) {
			return Num(parsed)
		}
	}
	return Text(raw)
}

// canonicalDecimal drops trailing fraction zeros so "10.50" compares equal to
// its formatted float "10.5".
func canonicalDecimal(value string) string {
	if !strings.Contains(value, ".") {
		return value
	}
	value = strings.TrimRight(value, "0")
	return strings.TrimSuffix(value, ".")
}

func hasLeadingZero(value string) bool {
	digits := strings.TrimPrefix(value, "-")
	return len(digits) > 1 && digits[0] == '0' && digits[1] != '.'
}

func (v Value) Kind() Kind {
	return v.kind
}

// IsEmpty reports true for Empty values and whitespace-only text.
func (v Value) IsEmpty() bool {
	switch v.kind {
	case Empty:
		return true
	case String:
		return strings.TrimSpace(v.text) == ""
	default:
		return false
	}
}

// String renders the canonical text of the value used for comparisons and
// grouping keys.
func (v Value) String() string {
	switch v.kind {
	case String:
		return v.text
	case Number:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case Bool:
		return strconv.FormatBool(v.flag)
	case Time:
		return v.at.Format(timeutil.DateLayout(v.at))
	default:
		return ""
	}
}

// Native returns the Go value handed to spreadsheet writers; nil for Empty.
func (v Value) Native() any {
	switch v.kind {
	case String:
		return v.text
	case Number:
		return v.num
	case Bool:
		return v.flag
	case Time:
		return v.at
	default:
		return nil
	}
}
