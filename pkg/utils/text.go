package utils

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"
)

var space = regexp.MustCompile(`\s+`)

// CleanText collapses whitespace runs into single spaces and trims the ends
func CleanText(text string) string {
	return strings.TrimSpace(space.ReplaceAllString(text, " "))
}

// TruncateText truncates text to a maximum length, preserving word boundaries
func TruncateText(text string, maxLength int) string {
	if len(text) <= maxLength {
		return text
	}

	truncated := text[:maxLength]
	for len(truncated) > 0 && !utf8.RuneStart(text[len(truncated)]) {
		truncated = truncated[:len(truncated)-1]
	}
	lastSpace := strings.LastIndex(truncated, " ")

	if lastSpace > 0 {
		truncated = truncated[:lastSpace]
	}

	return truncated + "..."
}

// IsValidURL checks that s is an absolute http or https URL with a host
func IsValidURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// GetDomainFromURL extracts the lowercased host (without port) from a URL
func GetDomainFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// SplitList splits a comma separated list, trimming blanks and dropping empty items
func SplitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
