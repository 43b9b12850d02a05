package models

import (
	"fmt"
	"time"
)

// Mode selects the matching semantics and the table layout of a scan
type Mode string

const (
	// ModeFrequency counts raw substrings and reports Keyword, Frequency
	ModeFrequency Mode = "frequency"
	// ModeContext matches whole words and keeps a snippet per match
	ModeContext Mode = "context"
	// ModePerPage matches whole words and reports Page URL, Keyword, Frequency
	ModePerPage Mode = "per-page"
)

// Modes lists every supported mode
var Modes = []Mode{ModeFrequency, ModeContext, ModePerPage}

// ParseMode converts a user supplied string into a Mode
func ParseMode(s string) (Mode, error) {
	for _, m := range Modes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown mode %q (want frequency, context or per-page)", s)
}

// WholeWord reports whether the mode matches on word boundaries
func (m Mode) WholeWord() bool {
	return m == ModeContext || m == ModePerPage
}

// Occurrence groups every match of one keyword on one page
type Occurrence struct {
	PageURL  string   `json:"page_url"`
	Keyword  string   `json:"keyword"`
	Count    int      `json:"count"`
	Snippets []string `json:"snippets,omitempty"`
}

// SkippedPage is a page that was not matched because its fetch failed
type SkippedPage struct {
	URL        string `json:"url"`
	Reason     string `json:"reason"`
	StatusCode int    `json:"status_code,omitempty"`
}

// ScanResult is the aggregated outcome of one scan
type ScanResult struct {
	ID               string         `json:"id"`
	SeedURL          string         `json:"seed_url"`
	Mode             Mode           `json:"mode"`
	Keywords         []string       `json:"keywords"`
	KeywordCounts    map[string]int `json:"keyword_counts"`
	Occurrences      []Occurrence   `json:"occurrences"`
	ExcludedKeywords []string       `json:"excluded_keywords,omitempty"`
	SubpagesFound    int            `json:"subpages_found"`
	PagesScanned     int            `json:"pages_scanned"`
	SkippedPages     []SkippedPage  `json:"skipped_pages,omitempty"`
	Warnings         []string       `json:"warnings,omitempty"`
	StartedAt        time.Time      `json:"started_at"`
	FinishedAt       time.Time      `json:"finished_at"`
}

// TotalMatches sums every keyword count
func (r *ScanResult) TotalMatches() int {
	total := 0
	for _, n := range r.KeywordCounts {
		total += n
	}
	return total
}

// Empty reports whether no keyword matched anywhere
func (r *ScanResult) Empty() bool {
	return r.TotalMatches() == 0
}
