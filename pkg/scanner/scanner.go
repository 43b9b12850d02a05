// Package scanner runs one keyword scan: it validates the input, crawls the
// site one level deep, matches keywords on every fetched page and collects
// the warnings a user needs to see.
package scanner

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/amosWeiskopf/keywordscan/internal/models"
	"github.com/amosWeiskopf/keywordscan/pkg/analyzer"
	"github.com/amosWeiskopf/keywordscan/pkg/crawler"
	"github.com/amosWeiskopf/keywordscan/pkg/extractor"
	"github.com/amosWeiskopf/keywordscan/pkg/keywords"
	"github.com/amosWeiskopf/keywordscan/pkg/utils"
)

// Config holds the defaults a Scanner applies to every request
type Config struct {
	Crawler    crawler.Options
	Extraction extractor.Strategy
	Selector   string
	Mode       models.Mode
	// Keywords replaces the builtin list when set
	Keywords       []string
	KeepZeroCounts bool
}

// DefaultConfig returns a sequential frequency scan over the builtin list
func DefaultConfig() Config {
	return Config{
		Crawler:    crawler.DefaultOptions(),
		Extraction: extractor.StrategyFull,
		Mode:       models.ModeFrequency,
	}
}

// Request describes one scan
type Request struct {
	SeedURL string
	// KeywordInput is free comma separated text. Only single alphabetic
	// words survive and every surviving keyword is reported, even at zero.
	KeywordInput string
	// Keywords is a fixed list, used when KeywordInput is empty
	Keywords []string
	// Mode overrides Config.Mode when set
	Mode     models.Mode
	Progress crawler.ProgressFunc
}

// Scanner runs scans. It keeps no state between runs and is safe for concurrent use.
type Scanner struct {
	config  Config
	logger  *slog.Logger
	fetcher crawler.Fetcher
}

// Option configures a Scanner
type Option func(*Scanner)

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(s *Scanner) {
		s.logger = l
	}
}

// WithFetcher makes every crawl use f instead of a fresh HTTP fetcher
func WithFetcher(f crawler.Fetcher) Option {
	return func(s *Scanner) {
		s.fetcher = f
	}
}

// New creates a Scanner
func New(config Config, opts ...Option) *Scanner {
	s := &Scanner{config: config}
	for _, o := range opts {
		o(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.config.Mode == "" {
		s.config.Mode = models.ModeFrequency
	}
	return s
}

// Run performs a scan.
//
// Missing input yields models.ErrMissingInput and a malformed seed
// models.ErrInvalidSeedURL, both before any request is made. Once the crawl
// starts, page failures only add warnings; the returned error is then limited
// to ctx cancellation. A result where nothing matched is returned with a
// "no keywords found" warning and Empty() set.
func (s *Scanner) Run(ctx context.Context, req Request) (*models.ScanResult, error) {
	seed := strings.TrimSpace(req.SeedURL)
	if seed == "" {
		return nil, models.ErrMissingInput
	}
	if !utils.IsValidURL(seed) {
		return nil, fmt.Errorf("%w: %q", models.ErrInvalidSeedURL, seed)
	}

	kws, excluded, keepZero := s.keywords(req)
	if len(kws) == 0 {
		if len(excluded) > 0 {
			return nil, fmt.Errorf("%w: every keyword was excluded (%s)", models.ErrMissingInput, strings.Join(excluded, ", "))
		}
		return nil, models.ErrMissingInput
	}

	mode := s.config.Mode
	if req.Mode != "" {
		mode = req.Mode
	}

	ext, err := s.extractor()
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	logger := s.logger.With("scan_id", id, "domain", utils.GetDomainFromURL(seed))
	logger.Info("scan started", "seed", seed, "mode", mode, "keywords", len(kws))

	options := []crawler.CrawlerOption{crawler.WithLogger(logger)}
	if s.fetcher != nil {
		options = append(options, crawler.WithFetcher(s.fetcher))
	}
	if req.Progress != nil {
		options = append(options, crawler.WithProgress(req.Progress))
	}

	started := time.Now()
	crawl, err := crawler.New(ext, s.config.Crawler, options...).Crawl(ctx, seed)
	if err != nil {
		return nil, fmt.Errorf("crawl failed: %w", err)
	}

	result := analyzer.NewWithConfig(&analyzer.Config{
		Mode:           mode,
		KeepZeroCounts: keepZero,
	}).Analyze(crawl.Pages, kws)

	result.ID = id
	result.SeedURL = seed
	result.ExcludedKeywords = excluded
	result.SubpagesFound = len(crawl.Subpages)
	result.PagesScanned = len(crawl.Succeeded())
	result.StartedAt = started
	result.Warnings = warnings(crawl, result)
	for _, fe := range crawl.Failed() {
		result.SkippedPages = append(result.SkippedPages, models.SkippedPage{
			URL:        fe.URL,
			Reason:     fe.Reason,
			StatusCode: fe.StatusCode,
		})
	}
	result.FinishedAt = time.Now()

	logger.Info("scan finished",
		"subpages", result.SubpagesFound,
		"scanned", result.PagesScanned,
		"skipped", len(result.SkippedPages),
		"matches", result.TotalMatches(),
		"duration", result.FinishedAt.Sub(started))
	return result, nil
}

// keywords picks the keyword source of a request. Custom text input keeps
// zero counts; fixed lists follow the scanner config.
func (s *Scanner) keywords(req Request) (kws, excluded []string, keepZero bool) {
	if len(utils.SplitList(req.KeywordInput)) > 0 {
		kws, excluded = keywords.Validate(req.KeywordInput)
		return kws, excluded, true
	}
	if len(req.Keywords) > 0 {
		return keywords.Normalize(req.Keywords), nil, s.config.KeepZeroCounts
	}
	if len(s.config.Keywords) > 0 {
		return keywords.Normalize(s.config.Keywords), nil, s.config.KeepZeroCounts
	}
	return keywords.Default(), nil, s.config.KeepZeroCounts
}

func (s *Scanner) extractor() (*extractor.Extractor, error) {
	opts := []extractor.Option{
		extractor.WithStrategy(s.config.Extraction),
		extractor.WithLogger(s.logger),
	}
	if s.config.Selector != "" {
		sel, err := extractor.WithSelector(s.config.Selector)
		if err != nil {
			return nil, err
		}
		opts = append(opts, sel)
	}
	return extractor.New(opts...), nil
}

func warnings(crawl *models.CrawlResult, result *models.ScanResult) []string {
	var out []string
	if !crawl.Seed.OK() {
		out = append(out, fmt.Sprintf("seed page could not be fetched: %s", crawl.Seed.Err.Reason))
	} else if len(crawl.Subpages) == 0 {
		out = append(out, "no same-site links found on the seed page")
	}
	for _, p := range crawl.Pages {
		if !p.OK() {
			out = append(out, fmt.Sprintf("skipped %s: %s", p.URL, p.Err.Reason))
		}
	}
	if result.Empty() {
		out = append(out, models.ErrNoMatches.Error())
	}
	return out
}
