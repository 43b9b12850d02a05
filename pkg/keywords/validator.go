package keywords

import (
	"regexp"
	"sort"
	"strings"

	"github.com/amosWeiskopf/keywordscan/pkg/utils"
)

var alphaOnly = regexp.MustCompile(`^[A-Za-z]+$`)

// IsValid reports whether token is a single word made only of ASCII letters.
func IsValid(token string) bool {
	return alphaOnly.MatchString(token)
}

// Validate splits comma separated input into usable keywords and rejected tokens.
//
// Valid keywords are lowercased and deduplicated in first-seen order. Anything
// holding digits, punctuation or whitespace (so multi-word phrases too) lands in
// excluded, which is sorted and holds each raw token once.
func Validate(raw string) (valid []string, excluded []string) {
	seen := make(map[string]bool)
	rejected := make(map[string]bool)

	for _, token := range utils.SplitList(raw) {
		if !IsValid(token) {
			rejected[token] = true
			continue
		}
		kw := strings.ToLower(token)
		if seen[kw] {
			continue
		}
		seen[kw] = true
		valid = append(valid, kw)
	}

	for token := range rejected {
		excluded = append(excluded, token)
	}
	sort.Strings(excluded)
	return valid, excluded
}

// Normalize lowercases a fixed keyword list and drops blanks and duplicates.
// Unlike Validate it keeps phrases and punctuation.
func Normalize(list []string) []string {
	seen := make(map[string]bool, len(list))
	out := make([]string, 0, len(list))
	for _, kw := range list {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" || seen[kw] {
			continue
		}
		seen[kw] = true
		out = append(out, kw)
	}
	return out
}
