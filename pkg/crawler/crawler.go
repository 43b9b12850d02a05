package crawler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/amosWeiskopf/keywordscan/internal/models"
)

// Crawler fetches a seed page and every same-site page it links to.
// Links found on those subpages are not followed.
type Crawler struct {
	fetcher   Fetcher
	extractor Extractor
	opts      Options
	limiter   *rate.Limiter
	logger    *slog.Logger
	progress  ProgressFunc
}

// CrawlerOption configures a Crawler
type CrawlerOption func(*Crawler)

// WithFetcher replaces the HTTP fetcher, mainly for tests
func WithFetcher(f Fetcher) CrawlerOption {
	return func(c *Crawler) {
		c.fetcher = f
	}
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) CrawlerOption {
	return func(c *Crawler) {
		c.logger = l
	}
}

// WithProgress registers a callback invoked after every finished page
func WithProgress(fn ProgressFunc) CrawlerOption {
	return func(c *Crawler) {
		c.progress = fn
	}
}

// New creates a crawler for one scan. Crawlers hold per-scan state (the
// throttle) and must not be shared between concurrent scans.
func New(extractor Extractor, opts Options, options ...CrawlerOption) *Crawler {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	c := &Crawler{
		extractor: extractor,
		opts:      opts,
	}
	for _, o := range options {
		o(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.fetcher == nil {
		transport := &http.Transport{
			MaxIdleConns:        opts.Workers,
			MaxIdleConnsPerHost: opts.Workers,
			IdleConnTimeout:     30 * time.Second,
		}
		f := NewHTTPFetcher(&http.Client{Transport: transport}, opts)
		f.logger = c.logger
		c.fetcher = f
	}
	if opts.Throttle > 0 {
		c.limiter = rate.NewLimiter(rate.Every(opts.Throttle), 1)
	}
	return c
}

// Crawl fetches seedURL, resolves its same-site links and fetches each of them once.
//
// A failed seed fetch is not an error: the result carries the failure and no
// subpages. The only error returned is a cancelled or expired ctx.
func (c *Crawler) Crawl(ctx context.Context, seedURL string) (*models.CrawlResult, error) {
	if _, err := url.Parse(seedURL); err != nil {
		return nil, fmt.Errorf("invalid seed URL: %w", err)
	}

	result := &models.CrawlResult{
		SeedURL:   seedURL,
		StartedAt: time.Now(),
	}
	defer func() { result.Duration = time.Since(result.StartedAt) }()

	seed, err := c.visit(ctx, seedURL, true)
	if err != nil {
		return nil, err
	}
	result.Seed = seed
	if !seed.OK() {
		c.logger.Warn("seed page skipped", "url", seedURL, "reason", seed.Err.Reason)
		return result, nil
	}

	result.Subpages = Resolve(seedURL, seed.Links)
	c.logger.Info("links discovered", "seed", seedURL, "subpages", len(result.Subpages))

	total := len(result.Subpages)
	pages := make([]models.Page, total)
	var (
		mu   sync.Mutex
		done int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.Workers)
	for i, pageURL := range result.Subpages {
		g.Go(func() error {
			page, err := c.visit(gctx, pageURL, false)
			if err != nil {
				return err
			}
			pages[i] = page

			mu.Lock()
			defer mu.Unlock()
			done++
			if page.OK() {
				c.logger.Debug("page crawled", "url", pageURL, "done", done, "total", total)
			} else {
				c.logger.Warn("page skipped", "url", pageURL, "reason", page.Err.Reason, "status", page.Err.StatusCode)
			}
			c.report(done, total, pageURL, page.Err)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if c.opts.IncludeSeed {
		result.Pages = append(result.Pages, seed)
	}
	result.Pages = append(result.Pages, pages...)
	return result, nil
}

// visit fetches and extracts one page. Fetch failures are stored on the page;
// only context cancellation is returned as an error.
func (c *Crawler) visit(ctx context.Context, pageURL string, isSeed bool) (models.Page, error) {
	page := models.Page{URL: pageURL}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return page, err
		}
	}
	if err := ctx.Err(); err != nil {
		return page, err
	}

	markup, err := c.fetcher.Fetch(ctx, pageURL)
	page.CrawledAt = time.Now()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return page, ctxErr
		}
		var fe *models.FetchError
		if !errors.As(err, &fe) {
			fe = &models.FetchError{URL: pageURL, Reason: err.Error(), Err: err}
		}
		page.Err = fe
		return page, nil
	}

	text, links := c.extractor.Extract(pageURL, markup)
	page.Text = text
	if isSeed {
		page.Links = links
	}
	return page, nil
}

func (c *Crawler) report(done, total int, pageURL string, err *models.FetchError) {
	if c.progress == nil {
		return
	}
	if err != nil {
		c.progress(done, total, pageURL, err)
		return
	}
	c.progress(done, total, pageURL, nil)
}
