package analytics

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/ignite/survey-tracker/internal/pkg/textnorm"
)

// AgeGroups is the chart order of the age buckets.
var AgeGroups = []string{"18-24", "25-34", "35-44", "45-54", "55+"}

// AgeGroup buckets a free-text age answer. Only the leading digits count
// ("34 years" is 34); non-numeric and non-positive answers are Unknown.
func AgeGroup(age string) string {
	n := leadingInt(age)
	switch {
	case n <= 0:
		return textnorm.Unknown
	case n < 25:
		return "18-24"
	case n < 35:
		return "25-34"
	case n < 45:
		return "35-44"
	case n < 55:
		return "45-54"
	default:
		return "55+"
	}
}

func leadingInt(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && unicode.IsDigit(rune(s[end])) {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}
