package analyzer

import (
	"regexp"
	"sort"
	"strings"

	"github.com/amosWeiskopf/keywordscan/internal/models"
)

// Analyzer matches keywords against crawled page text
type Analyzer struct {
	config *Config
}

// Config holds analyzer configuration
type Config struct {
	Mode           models.Mode
	KeepZeroCounts bool // report keywords that never matched with a zero count
	SnippetRadius  int
}

// New creates an Analyzer for frequency mode
func New() *Analyzer {
	return NewWithConfig(&Config{Mode: models.ModeFrequency})
}

// NewWithConfig creates an Analyzer with custom configuration
func NewWithConfig(config *Config) *Analyzer {
	cfg := *config
	if cfg.Mode == "" {
		cfg.Mode = models.ModeFrequency
	}
	if cfg.SnippetRadius <= 0 {
		cfg.SnippetRadius = DefaultSnippetRadius
	}
	return &Analyzer{config: &cfg}
}

// Analyze aggregates the matches of every keyword over the successfully fetched pages.
//
// Pages are visited in URL order so the occurrence sequence does not depend on
// crawl order. Failed pages are ignored. The returned result only has the
// matching fields set; the caller fills in crawl metadata.
func (a *Analyzer) Analyze(pages []models.Page, keywords []string) *models.ScanResult {
	result := &models.ScanResult{
		Mode:          a.config.Mode,
		Keywords:      keywords,
		KeywordCounts: make(map[string]int, len(keywords)),
		Occurrences:   []models.Occurrence{},
	}

	ordered := make([]models.Page, 0, len(pages))
	for _, p := range pages {
		if p.OK() {
			ordered = append(ordered, p)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].URL < ordered[j].URL })

	// compiled once per call; nothing is shared between scans
	patterns := make(map[string]*regexp.Regexp)
	if a.config.Mode.WholeWord() {
		for _, kw := range keywords {
			if strings.TrimSpace(kw) != "" {
				patterns[kw] = WordPattern(kw)
			}
		}
	}

	for _, page := range ordered {
		for _, kw := range keywords {
			occ := a.match(page, kw, patterns[kw])
			result.KeywordCounts[kw] += occ.Count
			if occ.Count > 0 {
				result.Occurrences = append(result.Occurrences, occ)
			}
		}
	}

	if a.config.KeepZeroCounts {
		for _, kw := range keywords {
			if _, ok := result.KeywordCounts[kw]; !ok {
				result.KeywordCounts[kw] = 0
			}
		}
	} else {
		for kw, n := range result.KeywordCounts {
			if n == 0 {
				delete(result.KeywordCounts, kw)
			}
		}
	}

	return result
}

func (a *Analyzer) match(page models.Page, keyword string, pattern *regexp.Regexp) models.Occurrence {
	occ := models.Occurrence{PageURL: page.URL, Keyword: keyword}
	if !a.config.Mode.WholeWord() {
		occ.Count = CountOccurrences(page.Text, keyword)
		return occ
	}
	if pattern == nil {
		return occ
	}
	occ.Snippets = findContexts(page.Text, pattern, a.config.SnippetRadius)
	occ.Count = len(occ.Snippets)
	return occ
}
