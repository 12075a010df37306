package splitter

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestNamer_Next(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		key      string
		existing []string
		want     string
	}{
		{name: "plain", key: "Acme", want: "Acme"},
		{name: "empty uses sentinel", key: "   ", want: "Unnamed"},
		{name: "nan uses sentinel", key: "NaN", want: "Unnamed"},
		{name: "none uses sentinel", key: "None", want: "Unnamed"},
		{name: "replaces invalid characters", key: `a\b/c*d?e:f[g]h`, want: "a-b-c-d-e-f-g-h"},
		{name: "truncates to 31", key: strings.Repeat("x", 40), want: strings.Repeat("x", 31)},
		{name: "collision suffix", key: "Acme", existing: []string{"Acme"}, want: "Acme_1"},
		{name: "case insensitive collision", key: "acme", existing: []string{"ACME"}, want: "acme_1"},
		{name: "next free suffix", key: "Acme", existing: []string{"Acme", "Acme_1"}, want: "Acme_2"},
		{name: "suffix truncates base", key: strings.Repeat("y", 31), existing: []string{strings.Repeat("y", 31)}, want: strings.Repeat("y", 29) + "_1"},
		{name: "strips apostrophes", key: "'quoted'", want: "quoted"},
		{name: "only apostrophes", key: "''", want: "Unnamed"},
		{name: "counts runes", key: strings.Repeat("é", 35), want: strings.Repeat("é", 31)},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := NewNamer(DefaultNameOptions(), tt.existing).Next(tt.key)
			if got != tt.want {
				t.Fatalf("Next(%q): expected %q, got %q", tt.key, tt.want, got)
			}
		})
	}
}

func TestNamer_SanitizedCollision(t *testing.T) {
	t.Parallel()

	namer := NewNamer(DefaultNameOptions(), []string{"Geral"})
	first := namer.Next("A/B")
	second := namer.Next("A-B")
	if first != "A-B" || second != "A-B_1" {
		t.Fatalf("expected A-B and A-B_1, got %q and %q", first, second)
	}
}

func TestNamer_CustomOptions(t *testing.T) {
	t.Parallel()

	opts := NameOptions{Sentinel: "SemNome", NullTokens: []string{"null"}, MaxLength: 10, Replacement: ""}
	namer := NewNamer(opts, nil)

	if got := namer.Next("null"); got != "SemNome" {
		t.Fatalf("expected sentinel, got %q", got)
	}
	if got := namer.Next("a/b:c"); got != "abc" {
		t.Fatalf("expected dropped characters, got %q", got)
	}
	if got := namer.Next("abcdefghijklmno"); got != "abcdefghij" {
		t.Fatalf("expected 10 characters, got %q", got)
	}
	if got := namer.Next("abcdefghijXYZ"); got != "abcdefgh_1" {
		t.Fatalf("expected truncated suffix name, got %q", got)
	}
}

func TestNamer_InvalidReplacementIsStripped(t *testing.T) {
	t.Parallel()

	opts := DefaultNameOptions()
	opts.Replacement = "/"
	if got := Sanitize("a:b", nil, opts); got != "ab" {
		t.Fatalf("expected invalid replacement to be ignored, got %q", got)
	}
}

func TestNamer_AlwaysValidAndUnique(t *testing.T) {
	t.Parallel()

	keys := []string{"", " ", "nan", "A/B", "A-B", "a-b", "[x]", "'", "''a''",
		strings.Repeat("long client name ", 4), strings.Repeat("long client name ", 4),
		strings.Repeat("long client name ", 4), "Unnamed", "unnamed", "?", "*", "Geral"}

	namer := NewNamer(DefaultNameOptions(), []string{"Geral"})
	seen := map[string]bool{"geral": true}
	for _, key := range keys {
		name := namer.Next(key)
		if !ValidSheetName(name, DefaultMaxNameLength) {
			t.Fatalf("invalid sheet name %q for key %q", name, key)
		}
		if utf8.RuneCountInString(name) > 31 {
			t.Fatalf("sheet name too long: %q", name)
		}
		lower := strings.ToLower(name)
		if seen[lower] {
			t.Fatalf("duplicate sheet name %q for key %q", name, key)
		}
		seen[lower] = true
	}
}

func TestIsNullToken(t *testing.T) {
	t.Parallel()

	if !IsNullToken(" NONE ", DefaultNullTokens) {
		t.Fatalf("expected none to be a null token")
	}
	if IsNullToken("Nancy", DefaultNullTokens) {
		t.Fatalf("expected regular value not to be a null token")
	}
}

func TestNamer_ManyCollisionsAtMinimumLength(t *testing.T) {
	t.Parallel()

	namer := NewNamer(NameOptions{Sentinel: "Vazio", MaxLength: 4, Replacement: "-"}, nil)
	seen := make(map[string]bool)
	for i := 0; i < 1500; i++ {
		name := namer.Next("Acme")
		if !ValidSheetName(name, DefaultMaxNameLength) {
			t.Fatalf("call %d: invalid sheet name %q", i, name)
		}
		if i < 100 && utf8.RuneCountInString(name) > 4 {
			t.Fatalf("call %d: %q exceeds the configured length while the suffix fits", i, name)
		}
		if !strings.HasPrefix(name, "A") {
			t.Fatalf("call %d: %q lost the client name", i, name)
		}
		lower := strings.ToLower(name)
		if seen[lower] {
			t.Fatalf("call %d: duplicate sheet name %q", i, name)
		}
		seen[lower] = true
	}
	if got := namer.Next("Acme"); got != "Acme_1500" {
		t.Fatalf("expected long suffix against the hard cap, got %q", got)
	}
}
