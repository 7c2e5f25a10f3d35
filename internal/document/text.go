package document

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var whitespacePattern = regexp.MustCompile(`\s+`)

// Normalize returns s in Unicode NFC form.
func Normalize(s string) string {
	return norm.NFC.String(s)
}

// CleanText normalizes s, collapses runs of whitespace including newlines into one space and trims it.
func CleanText(s string) string {
	s = whitespacePattern.ReplaceAllString(Normalize(s), " ")
	return strings.TrimSpace(s)
}

// Lines splits s on line breaks and returns the trimmed, non-blank lines.
func Lines(s string) []string {
	var lines []string
	for _, line := range strings.Split(Normalize(s), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
