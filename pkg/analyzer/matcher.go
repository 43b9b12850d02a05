package analyzer

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// DefaultSnippetRadius is how many characters of context surround a match
const DefaultSnippetRadius = 50

// CountOccurrences counts non-overlapping substrings of keyword in text.
// It is not word-boundary aware, so "gender" is found inside "transgendered".
// Blank keywords never match.
func CountOccurrences(text, keyword string) int {
	if strings.TrimSpace(keyword) == "" {
		return 0
	}
	keyword = strings.ToLower(keyword)
	return strings.Count(text, keyword)
}

// WordPattern compiles the case-insensitive whole-word pattern for keyword.
// Word boundaries are ASCII only, so "caf" matches inside "café".
func WordPattern(keyword string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(strings.ToLower(keyword)) + `\b`)
}

// FindContexts returns one snippet per whole-word match of keyword in text
func FindContexts(text, keyword string, radius int) []string {
	if strings.TrimSpace(keyword) == "" {
		return nil
	}
	return findContexts(text, WordPattern(keyword), radius)
}

func findContexts(text string, pattern *regexp.Regexp, radius int) []string {
	matches := pattern.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return nil
	}
	snippets := make([]string, 0, len(matches))
	for _, m := range matches {
		snippets = append(snippets, clip(text, m[0], m[1], radius))
	}
	return snippets
}

// clip widens [start, end) by radius runes on each side, stopping at the text bounds
func clip(text string, start, end, radius int) string {
	lo := start
	for i := 0; i < radius && lo > 0; i++ {
		_, size := utf8.DecodeLastRuneInString(text[:lo])
		lo -= size
	}
	hi := end
	for i := 0; i < radius && hi < len(text); i++ {
		_, size := utf8.DecodeRuneInString(text[hi:])
		hi += size
	}
	return text[lo:hi]
}
