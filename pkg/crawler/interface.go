package crawler

import (
	"context"
	"time"
)

// Fetcher retrieves the raw markup of a page.
// Any failure is returned as a *models.FetchError.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) (string, error)
}

// Extractor turns markup into normalized text and raw anchor hrefs
type Extractor interface {
	Extract(pageURL, markup string) (text string, links []string)
}

// ProgressFunc is called after every finished page, one call at a time,
// with done counting up to total. err is nil when the page was fetched.
type ProgressFunc func(done, total int, pageURL string, err error)

// Options contains configuration for the crawler
type Options struct {
	Workers     int           // Concurrent subpage fetches; 1 means sequential
	Throttle    time.Duration // Minimum interval between requests; 0 disables
	IncludeSeed bool          // Match the seed page text too
	UserAgent   string        // User agent string
	Timeout     time.Duration // Per request timeout
	MaxBodySize int64         // Response body cap in bytes
}

// DefaultOptions returns the options of a plain sequential crawl
func DefaultOptions() Options {
	return Options{
		Workers:     1,
		Timeout:     DefaultTimeout,
		UserAgent:   DefaultUserAgent,
		MaxBodySize: DefaultMaxBodySize,
	}
}
