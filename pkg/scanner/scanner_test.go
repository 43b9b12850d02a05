package scanner

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amosWeiskopf/keywordscan/internal/models"
)

// stubFetcher serves canned markup; unknown URLs fail with 404
type stubFetcher map[string]string

func (s stubFetcher) Fetch(_ context.Context, pageURL string) (string, error) {
	if markup, ok := s[pageURL]; ok {
		return markup, nil
	}
	return "", &models.FetchError{URL: pageURL, Reason: "Not Found", StatusCode: http.StatusNotFound}
}

func site() stubFetcher {
	return stubFetcher{
		"https://example.com/": `<html><body>
			<p>Seed mentions diversity</p>
			<a href="/about">About</a>
			<a href="/team">Team</a>
			<a href="/gone">Gone</a>
			<a href="https://elsewhere.org/">Elsewhere</a>
		</body></html>`,
		"https://example.com/about": `<p>We value diversity and Diversity training.</p>`,
		"https://example.com/team":  `<p>Gendered language and equity.</p>`,
	}
}

func TestRunInputValidation(t *testing.T) {
	s := New(DefaultConfig(), WithFetcher(site()))

	tests := []struct {
		name string
		req  Request
		want error
	}{
		{"no url", Request{KeywordInput: "diversity"}, models.ErrMissingInput},
		{"blank url", Request{SeedURL: "   "}, models.ErrMissingInput},
		{"relative url", Request{SeedURL: "example.com/page"}, models.ErrInvalidSeedURL},
		{"unsupported scheme", Request{SeedURL: "ftp://example.com/"}, models.ErrInvalidSeedURL},
		{"only invalid keywords", Request{SeedURL: "https://example.com/", KeywordInput: "123, good one"}, models.ErrMissingInput},
		{"only separators", Request{SeedURL: "https://example.com/", KeywordInput: " , ,"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Run(context.Background(), tt.req)
			if tt.want == nil {
				assert.NoError(t, err, "blank custom input falls back to the default list")
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRunCustomKeywords(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Mode = models.ModeContext
	s := New(cfg, WithFetcher(site()))

	result, err := s.Run(context.Background(), Request{
		SeedURL:      "https://example.com/",
		KeywordInput: "Diversity, gender, equity, bias, 123bad, good one",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, result.ID)
	assert.Equal(t, []string{"diversity", "gender", "equity", "bias"}, result.Keywords)
	assert.Equal(t, []string{"123bad", "good one"}, result.ExcludedKeywords)
	assert.Equal(t, map[string]int{"diversity": 2, "gender": 0, "equity": 1, "bias": 0}, result.KeywordCounts,
		"custom keywords keep zero counts and the seed text is not matched")

	assert.Equal(t, 3, result.SubpagesFound)
	assert.Equal(t, 2, result.PagesScanned)
	require.Len(t, result.SkippedPages, 1)
	assert.Equal(t, models.SkippedPage{URL: "https://example.com/gone", Reason: "Not Found", StatusCode: 404}, result.SkippedPages[0])
	assert.Contains(t, result.Warnings, "skipped https://example.com/gone: Not Found")
	assert.False(t, result.Empty())
	assert.False(t, result.FinishedAt.Before(result.StartedAt))
}

func TestRunFixedListModes(t *testing.T) {
	s := New(DefaultConfig(), WithFetcher(site()))
	req := Request{SeedURL: "https://example.com/", Keywords: []string{"gender", "equity", "bias"}}

	freq, err := s.Run(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"gender": 1, "equity": 1}, freq.KeywordCounts, "substring match inside gendered")

	req.Mode = models.ModePerPage
	perPage, err := s.Run(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, models.ModePerPage, perPage.Mode)
	assert.Equal(t, map[string]int{"equity": 1}, perPage.KeywordCounts)
	assert.NotEqual(t, freq.ID, perPage.ID)
}

func TestRunConfiguredKeywords(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Keywords = []string{" Equity ", "equity"}
	cfg.KeepZeroCounts = true

	result, err := New(cfg, WithFetcher(site())).Run(context.Background(), Request{SeedURL: "https://example.com/"})
	require.NoError(t, err)
	assert.Equal(t, []string{"equity"}, result.Keywords)
	assert.Equal(t, map[string]int{"equity": 1}, result.KeywordCounts)
}

func TestRunIncludeSeed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Crawler.IncludeSeed = true

	result, err := New(cfg, WithFetcher(site())).Run(context.Background(), Request{
		SeedURL:  "https://example.com/",
		Keywords: []string{"seed mentions"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.KeywordCounts["seed mentions"])
	assert.Equal(t, 3, result.PagesScanned)
}

func TestRunNoKeywordsFound(t *testing.T) {
	s := New(DefaultConfig(), WithFetcher(stubFetcher{
		"https://example.com/": `<html><body>hello world</body></html>`,
	}))

	result, err := s.Run(context.Background(), Request{SeedURL: "https://example.com/"})
	require.NoError(t, err)

	assert.Zero(t, result.SubpagesFound)
	assert.Empty(t, result.Occurrences)
	assert.Empty(t, result.KeywordCounts)
	assert.True(t, result.Empty())
	assert.Contains(t, result.Warnings, "no same-site links found on the seed page")
	assert.Contains(t, result.Warnings, "no keywords found")
}

func TestRunSeedUnreachable(t *testing.T) {
	s := New(DefaultConfig(), WithFetcher(stubFetcher{}))

	result, err := s.Run(context.Background(), Request{SeedURL: "https://example.com/", KeywordInput: "equity"})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"equity": 0}, result.KeywordCounts)
	require.Len(t, result.SkippedPages, 1)
	assert.Equal(t, "https://example.com/", result.SkippedPages[0].URL)
	assert.Contains(t, result.Warnings, "seed page could not be fetched: Not Found")
	assert.True(t, result.Empty())
}

func TestRunBadSelector(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Selector = "main[["
	_, err := New(cfg, WithFetcher(site())).Run(context.Background(), Request{SeedURL: "https://example.com/"})
	assert.Error(t, err)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(DefaultConfig(), WithFetcher(site())).Run(ctx, Request{SeedURL: "https://example.com/"})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRunOverHTTP(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if r.URL.Path == "/" {
			w.Write([]byte(`<a href="/policy">Policy</a><a href="/policy">Policy</a>`))
			return
		}
		if r.URL.Path == "/policy" {
			w.Write([]byte(`<main><h1>Equal Opportunity</h1><script>var equity = 1;</script><p>Equity for all.</p></main>`))
			return
		}
		http.NotFound(w, r)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	var progress []string
	result, err := New(DefaultConfig()).Run(context.Background(), Request{
		SeedURL:  server.URL + "/",
		Keywords: []string{"equity", "equal opportunity"},
		Progress: func(done, total int, pageURL string, err error) {
			progress = append(progress, pageURL)
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{server.URL + "/policy"}, progress)
	assert.Equal(t, map[string]int{"equity": 1, "equal opportunity": 1}, result.KeywordCounts, "script text is ignored")
}
