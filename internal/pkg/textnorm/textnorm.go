// Package textnorm holds the text transforms shared by storage and display.
//
// Free-text category fields (district, gender, group name, ...) are stored in
// their Normalize form and rendered with TitleCase, so "  MBALE", "mbale" and
// "Mbale " all collapse to one bucket.
package textnorm

import (
	"regexp"
	"strings"
)

// Unknown is the bucket used for missing category values.
const Unknown = "Unknown"

// wordStart matches the first word character after every \b boundary,
// including boundaries after punctuation ("o'brien" -> "O'Brien").
var wordStart = regexp.MustCompile(`\b\w`)

// Normalize trims surrounding whitespace and lowercases s.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizePtr is Normalize for nullable columns. A nil pointer is "".
func NormalizePtr(s *string) string {
	if s == nil {
		return ""
	}
	return Normalize(*s)
}

// TitleCase normalizes s and uppercases the first character of each word.
func TitleCase(s string) string {
	return wordStart.ReplaceAllStringFunc(Normalize(s), strings.ToUpper)
}

// OrDefault returns def when s is blank.
func OrDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

// DisplayOrUnknown is the display label for a category value, with blanks
// mapped to Unknown.
func DisplayOrUnknown(s string) string {
	return TitleCase(OrDefault(s, Unknown))
}

// SplitList splits a comma separated free-text value into trimmed, non-empty
// parts in input order.
func SplitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// NormalizeAll returns the normalized, non-empty members of tags.
func NormalizeAll(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if n := Normalize(t); n != "" {
			out = append(out, n)
		}
	}
	return out
}
