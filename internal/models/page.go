package models

import (
	"fmt"
	"time"
)

// Page represents a fetched web page after text extraction
type Page struct {
	URL       string      `json:"url"`
	Text      string      `json:"-"`
	Links     []string    `json:"links,omitempty"`
	Err       *FetchError `json:"error,omitempty"`
	CrawledAt time.Time   `json:"crawled_at"`
}

// OK reports whether the page was fetched and extracted successfully
func (p Page) OK() bool {
	return p.Err == nil
}

// FetchError describes why a page could not be retrieved
type FetchError struct {
	URL        string `json:"url"`
	Reason     string `json:"reason"`
	StatusCode int    `json:"status_code,omitempty"`
	Err        error  `json:"-"`
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: %s (HTTP %d)", e.URL, e.Reason, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Reason)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// CrawlResult contains the results of a depth-one crawl
type CrawlResult struct {
	SeedURL   string        `json:"seed_url"`
	Seed      Page          `json:"seed"`
	Subpages  []string      `json:"subpages"`
	Pages     []Page        `json:"pages"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
}

// Succeeded returns the pages that can be matched against keywords
func (r *CrawlResult) Succeeded() []Page {
	pages := make([]Page, 0, len(r.Pages))
	for _, p := range r.Pages {
		if p.OK() {
			pages = append(pages, p)
		}
	}
	return pages
}

// Failed returns the fetch errors of every skipped page, seed included
func (r *CrawlResult) Failed() []*FetchError {
	var failed []*FetchError
	if r.Seed.Err != nil {
		failed = append(failed, r.Seed.Err)
	}
	for _, p := range r.Pages {
		if p.Err != nil {
			failed = append(failed, p.Err)
		}
	}
	return failed
}
