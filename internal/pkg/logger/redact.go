package logger

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	emailRegex = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	phoneRegex = regexp.MustCompile(`\+?\d[\d\s-]{7,}\d`)
)

func redactValue(key string, val interface{}) interface{} {
	key = strings.ToLower(key)
	switch {
	case strings.Contains(key, "email"):
		return RedactEmail(fmt.Sprint(val))
	case strings.Contains(key, "phone"):
		return "***"
	case strings.Contains(key, "name") && !strings.Contains(key, "group") && !strings.Contains(key, "file"):
		return RedactName(fmt.Sprint(val))
	}
	s, ok := val.(string)
	if !ok {
		return val
	}
	s = emailRegex.ReplaceAllStringFunc(s, RedactEmail)
	return phoneRegex.ReplaceAllString(s, "***")
}

// RedactEmail masks an email address for safe logging.
// "john.doe@example.com" → "jo***@example.com"
// Short local parts (≤2 chars) are fully masked: "ab@example.com" → "***@example.com"
func RedactEmail(email string) string {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return "***@***"
	}
	name := parts[0]
	if len(name) > 2 {
		return name[:2] + "***@" + parts[1]
	}
	return "***@" + parts[1]
}

// RedactName keeps the initial of each word: "Jane Nakato" → "J*** N***".
func RedactName(name string) string {
	words := strings.Fields(name)
	if len(words) == 0 {
		return ""
	}
	for i, w := range words {
		r := []rune(w)
		words[i] = string(r[0]) + "***"
	}
	return strings.Join(words, " ")
}
