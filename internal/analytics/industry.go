package analytics

import (
	"strings"

	"github.com/ignite/survey-tracker/internal/pkg/textnorm"
)

const (
	IndustryCoffee = "Coffee"
	IndustryTea    = "Tea"
)

// IndustryMembership is the parsed form of the free-text industry field.
type IndustryMembership struct {
	Coffee bool
	Tea    bool
	// Other holds unmatched parts, title-cased, in input order.
	Other []string
	Raw   string
}

// ParseIndustry splits a comma separated industry answer and matches each
// part against the coffee/tea vocabulary. A respondent naming both counts
// toward both.
func ParseIndustry(raw string) IndustryMembership {
	m := IndustryMembership{Raw: strings.TrimSpace(raw)}
	for _, part := range textnorm.SplitList(m.Raw) {
		switch textnorm.Normalize(part) {
		case "coffee":
			m.Coffee = true
		case "tea":
			m.Tea = true
		default:
			m.Other = append(m.Other, textnorm.TitleCase(part))
		}
	}
	return m
}

// IsEmpty reports whether the answer was blank.
func (m IndustryMembership) IsEmpty() bool { return m.Raw == "" }

// Label is the combined detail label, e.g. "Coffee + Tea" or
// "Coffee + Beekeeping". Blank answers are Unknown.
func (m IndustryMembership) Label() string {
	if m.IsEmpty() {
		return textnorm.Unknown
	}
	var parts []string
	if m.Coffee {
		parts = append(parts, IndustryCoffee)
	}
	if m.Tea {
		parts = append(parts, IndustryTea)
	}
	parts = append(parts, m.Other...)
	if len(parts) == 0 {
		return textnorm.TitleCase(m.Raw)
	}
	return strings.Join(parts, " + ")
}
