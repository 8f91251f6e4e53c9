package domain

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	disallowedChars = regexp.MustCompile(`[^A-Za-z0-9_\s-]`)
	separatorRuns   = regexp.MustCompile(`[\s_-]+`)
)

// Normalize derives a machine-safe identifier from free text.
// Diacritics are stripped, anything outside letters, digits, hyphen, underscore and
// whitespace is dropped, separator runs collapse to one hyphen, and the result is
// lowercased with no leading or trailing hyphen. It may return "".
func Normalize(text string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	s, _, err := transform.String(t, text)
	if err != nil {
		s = text
	}

	s = disallowedChars.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	s = separatorRuns.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	return strings.ToLower(s)
}

// EnsureUnique normalizes text (falling back to fallbackPrefix when empty) and
// appends -1, -2, ... until the identifier is not in existing.
func EnsureUnique(text string, existing []string, fallbackPrefix string) string {
	base := Normalize(text)
	if base == "" {
		base = fallbackPrefix
	}

	taken := make(map[string]bool, len(existing))
	for _, name := range existing {
		taken[name] = true
	}

	if !taken[base] {
		return base
	}

	suffix := 1
	for taken[base+"-"+strconv.Itoa(suffix)] {
		suffix++
	}
	return base + "-" + strconv.Itoa(suffix)
}
