// Package normalize cleans raw PDF-extracted text before chunking.
package normalize

import (
	"regexp"
	"strings"
	"unicode"
)

// pageFurniturePattern matches "Page 3 of 12" and bare "Page 3" lines that
// PDF extractors emit for running headers and footers.
var pageFurniturePattern = regexp.MustCompile(`(?i)\bpage\s+\d+(\s+of\s+\d+)?\b`)

// whitespaceRun matches runs of spaces and tabs.
var whitespaceRun = regexp.MustCompile(`[ \t]+`)

// newlineRun matches runs of two or more newlines (with optional
// interleaved spaces) left behind after line removal.
var newlineRun = regexp.MustCompile(`\n(\s*\n)+`)

// Normalize strips page furniture and header/footer noise from extracted
// text and collapses whitespace. It always returns a string; an empty
// result means the source had no usable text, which callers must treat as
// an extraction failure. Normalize is idempotent.
func Normalize(text string) string {
	text = pageFurniturePattern.ReplaceAllString(text, "")

	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if isUppercaseFurniture(line) {
			continue
		}
		kept = append(kept, line)
	}
	text = strings.Join(kept, "\n")

	text = whitespaceRun.ReplaceAllString(text, " ")
	text = newlineRun.ReplaceAllString(text, "\n")

	return strings.TrimSpace(text)
}

// isUppercaseFurniture reports whether a line consists solely of uppercase
// letters and whitespace. Such lines are almost always running headers or
// footers ("ANNUAL REPORT 2024" style banners). Legitimate all-caps
// content is a known false positive.
func isUppercaseFurniture(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}

	sawLetter := false
	for _, r := range trimmed {
		switch {
		case unicode.IsUpper(r):
			sawLetter = true
		case unicode.IsSpace(r):
			// allowed
		default:
			return false
		}
	}
	return sawLetter
}
