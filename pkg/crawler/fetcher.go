package crawler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html/charset"

	"github.com/amosWeiskopf/keywordscan/internal/models"
)

const (
	// DefaultTimeout bounds a single page request
	DefaultTimeout = 10 * time.Second

	// DefaultUserAgent identifies the scanner in server logs
	DefaultUserAgent = "KeywordScan/1.0 (+https://github.com/amosWeiskopf/keywordscan)"

	// DefaultMaxBodySize caps how much of a response body is read
	DefaultMaxBodySize = 5 * 1024 * 1024
)

// HTTPFetcher fetches pages with one GET request each, without retries
type HTTPFetcher struct {
	client      *http.Client
	userAgent   string
	timeout     time.Duration
	maxBodySize int64
	logger      *slog.Logger
}

// NewHTTPFetcher creates a fetcher. A nil client gets a fresh one.
func NewHTTPFetcher(client *http.Client, opts Options) *HTTPFetcher {
	if client == nil {
		client = &http.Client{}
	}
	f := &HTTPFetcher{
		client:      client,
		userAgent:   opts.UserAgent,
		timeout:     opts.Timeout,
		maxBodySize: opts.MaxBodySize,
		logger:      slog.Default(),
	}
	if f.userAgent == "" {
		f.userAgent = DefaultUserAgent
	}
	if f.timeout <= 0 {
		f.timeout = DefaultTimeout
	}
	if f.maxBodySize <= 0 {
		f.maxBodySize = DefaultMaxBodySize
	}
	return f
}

// Fetch performs a GET and returns the body decoded to UTF-8
func (f *HTTPFetcher) Fetch(ctx context.Context, pageURL string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", &models.FetchError{URL: pageURL, Reason: "invalid request", Err: err}
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		reason := "request failed"
		if errors.Is(err, context.DeadlineExceeded) {
			reason = fmt.Sprintf("timed out after %s", f.timeout)
		}
		return "", &models.FetchError{URL: pageURL, Reason: reason, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &models.FetchError{
			URL:        pageURL,
			Reason:     http.StatusText(resp.StatusCode),
			StatusCode: resp.StatusCode,
		}
	}

	contentType := resp.Header.Get("Content-Type")
	if !isWebpageMIME(contentType) {
		return "", &models.FetchError{
			URL:        pageURL,
			Reason:     fmt.Sprintf("unsupported content type %q", contentType),
			StatusCode: resp.StatusCode,
		}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize+1))
	if err != nil {
		return "", &models.FetchError{URL: pageURL, Reason: "read body failed", StatusCode: resp.StatusCode, Err: err}
	}
	if int64(len(raw)) > f.maxBodySize {
		raw = raw[:f.maxBodySize]
		f.logger.Warn("response body truncated", "url", pageURL, "limit_bytes", f.maxBodySize)
	}

	body, err := charset.NewReader(bytes.NewReader(raw), contentType)
	if err != nil {
		return "", &models.FetchError{URL: pageURL, Reason: "unknown charset", StatusCode: resp.StatusCode, Err: err}
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", &models.FetchError{URL: pageURL, Reason: "read body failed", StatusCode: resp.StatusCode, Err: err}
	}
	return string(data), nil
}

// isWebpageMIME accepts HTML-like types and a missing Content-Type header
func isWebpageMIME(contentType string) bool {
	mimeType := strings.TrimSpace(strings.Split(strings.ToLower(contentType), ";")[0])
	if mimeType == "" {
		return true
	}
	webpageMIMEs := []string{"text/html", "application/xhtml+xml", "application/xhtml", "text/xml", "application/xml", "text/plain"}
	for _, mime := range webpageMIMEs {
		if mime == mimeType {
			return true
		}
	}
	return false
}
