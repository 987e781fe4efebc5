// Package inflect turns identifiers into English labels for generated
// documents.
package inflect

import "strings"

var irregular = map[string]string{
	"person": "people",
	"man":    "men",
	"woman":  "women",
	"child":  "children",
	"mouse":  "mice",
	"datum":  "data",
	"medium": "media",
	"index":  "indices",
	"schema": "schemas",
	"status": "statuses",
}

var uncountable = map[string]bool{
	"data":        true,
	"equipment":   true,
	"information": true,
	"metadata":    true,
	"news":        true,
	"series":      true,
	"sheep":       true,
	"species":     true,
}

// Humanize turns an identifier such as "credit_card_id" into
// "Credit card".
func Humanize(s string) string {
	s = strings.TrimSuffix(s, "_id")
	s = strings.TrimSpace(strings.ReplaceAll(s, "_", " "))
	if s == "" {
		return ""
	}

	s = strings.ToLower(s)
	return strings.ToUpper(s[:1]) + s[1:]
}

// Pluralize returns the plural form of the last word of s.
func Pluralize(s string) string {
	if s == "" {
		return ""
	}

	i := strings.LastIndexByte(s, ' ')
	return s[:i+1] + pluralizeWord(s[i+1:])
}

func pluralizeWord(word string) string {
	if word == "" {
		return ""
	}

	lower := strings.ToLower(word)
	if uncountable[lower] {
		return word
	}

	if plural, ok := irregular[lower]; ok {
		if word[0] >= 'A' && word[0] <= 'Z' {
			return strings.ToUpper(plural[:1]) + plural[1:]
		}
		return plural
	}

	switch {
	case hasAnySuffix(lower, "s", "x", "z", "ch", "sh"):
		return word + "es"
	case strings.HasSuffix(lower, "y") && len(lower) > 1 && !isVowel(lower[len(lower)-2]):
		return word[:len(word)-1] + "ies"
	case strings.HasSuffix(lower, "fe"):
		return word[:len(word)-2] + "ves"
	case strings.HasSuffix(lower, "f") && !strings.HasSuffix(lower, "ff"):
		return word[:len(word)-1] + "ves"
	}

	return word + "s"
}

func hasAnySuffix(s string, suffixes ...string) bool {
	for _, suffix := range suffixes {
		if strings.HasSuffix(s, suffix) {
			return true
		}
	}
	return false
}

func isVowel(c byte) bool {
	switch c {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}
