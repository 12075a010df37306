package splitter

import (
	"errors"
	"strings"

	"clientsplit/header"
)

var (
	ErrTemplateLoad      = errors.New("template load failed")
	ErrColumnNotFound    = errors.New("grouping column not found")
	ErrAllValuesEmpty    = errors.New("grouping column has no values")
	ErrHeaderNotDetected = errors.New("header row not detected")
)

// StartMode selects where client rows begin on a generated sheet.
type StartMode string

const (
	// StartAtHeader writes rows directly below the detected header row,
	// overwriting any sample rows of the template.
	StartAtHeader StartMode = "header"
	// StartAfterContent appends rows after the template's last used row.
	StartAfterContent StartMode = "append"
)

const (
	DefaultSentinel      = "Unnamed"
	DefaultMaxNameLength = 31
	DefaultReplacement   = "-"
)

var DefaultNullTokens = []string{"nan", "none"}

// NameOptions controls grouping-key canonicalization and sheet naming.
// An empty Replacement drops disallowed characters instead of replacing them.
type NameOptions struct {
	Sentinel    string
	NullTokens  []string
	MaxLength   int
	Replacement string
}

type Options struct {
	GroupColumn   string
	TemplateSheet string
	KeepTemplate  bool
	StartMode     StartMode
	// StartRow, when positive, is the 1-based first data row and overrides StartMode.
	StartRow  int
	Keywords  []string
	ScanLimit int
	Names     NameOptions
}

func DefaultNameOptions() NameOptions {
	return NameOptions{
		Sentinel:    DefaultSentinel,
		NullTokens:  append([]string(nil), DefaultNullTokens...),
		MaxLength:   DefaultMaxNameLength,
		Replacement: DefaultReplacement,
	}
}

func DefaultOptions() Options {
	return Options{
		KeepTemplate: true,
		StartMode:    StartAtHeader,
		Keywords:     append([]string(nil), header.DefaultKeywords...),
		ScanLimit:    header.DefaultScanLimit,
		Names:        DefaultNameOptions(),
	}
}

func (o NameOptions) withDefaults() NameOptions {
	if strings.TrimSpace(o.Sentinel) == "" {
		o.Sentinel = DefaultSentinel
	}
	if o.NullTokens == nil {
		o.NullTokens = DefaultNullTokens
	}
	if o.MaxLength <= 0 || o.MaxLength > DefaultMaxNameLength {
		o.MaxLength = DefaultMaxNameLength
	}
	return o
}

func (o Options) withDefaults() Options {
	if o.StartMode == "" {
		o.StartMode = StartAtHeader
	}
	if o.Keywords == nil {
		o.Keywords = header.DefaultKeywords
	}
	if o.ScanLimit <= 0 {
		o.ScanLimit = header.DefaultScanLimit
	}
	o.Names = o.Names.withDefaults()
	return o
}
