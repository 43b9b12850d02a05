package extractor

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	readability "github.com/go-shiori/go-readability"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"

	"github.com/amosWeiskopf/keywordscan/pkg/utils"
)

// Strategy selects how page text is obtained from markup
type Strategy string

const (
	// StrategyFull keeps every visible text node of the document
	StrategyFull Strategy = "full"
	// StrategyTrafilatura keeps the main content found by trafilatura
	StrategyTrafilatura Strategy = "trafilatura"
	// StrategyReadability keeps the main content found by Mozilla readability
	StrategyReadability Strategy = "readability"
)

// ParseStrategy converts a config value into a Strategy
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyFull, StrategyTrafilatura, StrategyReadability:
		return Strategy(s), nil
	case "":
		return StrategyFull, nil
	}
	return "", fmt.Errorf("unknown extraction strategy %q", s)
}

// skipTags hold raw text that is never shown to a reader
var skipTags = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
}

// Extractor turns raw HTML into normalized text and anchor hrefs
type Extractor struct {
	strategy Strategy
	scope    cascadia.Sel
	logger   *slog.Logger
}

// Option configures an Extractor
type Option func(*Extractor)

// WithStrategy sets the text extraction strategy
func WithStrategy(s Strategy) Option {
	return func(e *Extractor) {
		e.strategy = s
	}
}

// WithLogger sets the logger used to report extraction fallbacks
func WithLogger(l *slog.Logger) Option {
	return func(e *Extractor) {
		e.logger = l
	}
}

// WithSelector limits text extraction to elements matching a CSS selector.
// Only the full strategy honors it.
func WithSelector(selector string) (Option, error) {
	if selector == "" {
		return func(*Extractor) {}, nil
	}
	sel, err := cascadia.Parse(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid selector %q: %w", selector, err)
	}
	return func(e *Extractor) {
		e.scope = sel
	}, nil
}

// New creates a new Extractor instance
func New(opts ...Option) *Extractor {
	e := &Extractor{strategy: StrategyFull}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// Extract returns the normalized text and the raw hrefs of a page
func (e *Extractor) Extract(pageURL, markup string) (string, []string) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return "", nil
	}
	return e.text(doc, pageURL, markup), links(doc)
}

// ExtractText strips all markup, joins text nodes with single spaces and lowercases the result.
// Whitespace runs inside a text node also collapse to one space, so a phrase
// broken across source lines still matches.
func (e *Extractor) ExtractText(markup string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return ""
	}
	return e.text(doc, "", markup)
}

// ExtractLinks collects the href of every anchor, unresolved, in document order
func (e *Extractor) ExtractLinks(markup string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil
	}
	return links(doc)
}

func (e *Extractor) text(doc *goquery.Document, pageURL, markup string) string {
	switch e.strategy {
	case StrategyTrafilatura:
		if text := e.trafilaturaText(pageURL, markup); text != "" {
			return normalize(text)
		}
	case StrategyReadability:
		if text := e.readabilityText(pageURL, markup); text != "" {
			return normalize(text)
		}
	}

	roots := doc.Nodes
	if e.scope != nil && len(doc.Nodes) > 0 {
		if matched := cascadia.QueryAll(doc.Nodes[0], e.scope); len(matched) > 0 {
			roots = matched
		}
	}

	var parts []string
	for _, n := range roots {
		parts = collectText(n, parts)
	}
	return normalize(strings.Join(parts, " "))
}

func (e *Extractor) trafilaturaText(pageURL, markup string) string {
	opts := trafilatura.Options{}
	if u, err := url.Parse(pageURL); err == nil && pageURL != "" {
		opts.OriginalURL = u
	}
	result, err := trafilatura.Extract(strings.NewReader(markup), opts)
	if err != nil || result == nil {
		e.logger.Debug("trafilatura found no content, using full text", "url", pageURL, "error", err)
		return ""
	}
	return result.ContentText
}

func (e *Extractor) readabilityText(pageURL, markup string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		u = &url.URL{}
	}
	article, err := readability.FromReader(strings.NewReader(markup), u)
	if err != nil || strings.TrimSpace(article.TextContent) == "" {
		e.logger.Debug("readability found no content, using full text", "url", pageURL, "error", err)
		return ""
	}
	return article.TextContent
}

func collectText(n *html.Node, parts []string) []string {
	if n.Type == html.ElementNode && skipTags[n.Data] {
		return parts
	}
	if n.Type == html.TextNode {
		if t := strings.TrimSpace(n.Data); t != "" {
			parts = append(parts, t)
		}
		return parts
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		parts = collectText(c, parts)
	}
	return parts
}

func links(doc *goquery.Document) []string {
	seen := make(map[string]bool)
	var hrefs []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		if !seen[href] {
			seen[href] = true
			hrefs = append(hrefs, href)
		}
	})
	return hrefs
}

func normalize(s string) string {
	return strings.ToLower(utils.CleanText(s))
}
