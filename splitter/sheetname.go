package splitter

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

const invalidSheetChars = `\/*?:[]`

// Namer hands out unique, valid sheet names. Names are compared
// case-insensitively, like spreadsheet applications do.
type Namer struct {
	opts  NameOptions
	taken map[string]struct{}
}

func NewNamer(opts NameOptions, existing []string) *Namer {
	namer := &Namer{
		opts:  opts.withDefaults(),
		taken: make(map[string]struct{}, len(existing)),
	}
	namer.opts.Replacement = stripInvalid(namer.opts.Replacement)
	for _, name := range existing {
		namer.Reserve(name)
	}
	return namer
}

func (n *Namer) Reserve(name string) {
	n.taken[strings.ToLower(name)] = struct{}{}
}

func (n *Namer) Taken(name string) bool {
	_, ok := n.taken[strings.ToLower(name)]
	return ok
}

// Next converts key into a sheet name not handed out or reserved before and
// reserves it. Collisions get "_1", "_2", ... suffixes within the length limit.
// A suffix that leaves no room for the name under MaxLength is applied against
// DefaultMaxNameLength instead, so names never exceed the spreadsheet limit.
func (n *Namer) Next(key string) string {
	base := n.clean(key)
	name := base
	for i := 1; n.Taken(name); i++ {
		suffix := "_" + strconv.Itoa(i)
		limit := n.opts.MaxLength - utf8.RuneCountInString(suffix)
		if limit < 1 {
			limit = DefaultMaxNameLength - utf8.RuneCountInString(suffix)
		}
		name = truncateRunes(base, limit) + suffix
	}
	n.Reserve(name)
	return name
}

func (n *Namer) clean(key string) string {
	key = strings.TrimSpace(key)
	if IsNullToken(key, n.opts.NullTokens) {
		key = n.opts.Sentinel
	}

	var b strings.Builder
	for _, r := range key {
		if strings.ContainsRune(invalidSheetChars, r) {
			b.WriteString(n.opts.Replacement)
			continue
		}
		b.WriteRune(r)
	}

	name := trimQuotes(b.String())
	name = trimQuotes(truncateRunes(name, n.opts.MaxLength))
	if name == "" {
		name = trimQuotes(truncateRunes(stripInvalid(n.opts.Sentinel), n.opts.MaxLength))
	}
	if name == "" {
		name = DefaultSentinel
	}
	return name
}

// Sanitize is a single-shot Namer: it returns a valid name for key that does
// not collide with existing.
func Sanitize(key string, existing []string, opts NameOptions) string {
	return NewNamer(opts, existing).Next(key)
}

// IsNullToken reports whether value is blank or one of tokens, ignoring case.
func IsNullToken(value string, tokens []string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return true
	}
	for _, token := range tokens {
		if strings.EqualFold(value, strings.TrimSpace(token)) {
			return true
		}
	}
	return false
}

// ValidSheetName reports whether name satisfies the spreadsheet naming rules
// for the given maximum length.
func ValidSheetName(name string, maxLength int) bool {
	if strings.TrimSpace(name) == "" || utf8.RuneCountInString(name) > maxLength {
		return false
	}
	if strings.ContainsAny(name, invalidSheetChars) {
		return false
	}
	return !strings.HasPrefix(name, "'") && !strings.HasSuffix(name, "'")
}

// ValidReplacement reports whether value may stand in for disallowed characters.
func ValidReplacement(value string) bool {
	return !strings.ContainsAny(value, invalidSheetChars)
}

func stripInvalid(value string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(invalidSheetChars, r) {
			return -1
		}
		return r
	}, value)
}

func trimQuotes(value string) string {
	return strings.Trim(value, "'")
}

func truncateRunes(value string, limit int) string {
	if utf8.RuneCountInString(value) <= limit {
		return value
	}
	runes := []rune(value)
	return string(runes[:limit])
}
