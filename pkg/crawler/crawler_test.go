package crawler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amosWeiskopf/keywordscan/internal/models"
	"github.com/amosWeiskopf/keywordscan/pkg/extractor"
)

// stubFetcher serves canned markup and errors without touching the network
type stubFetcher struct {
	mu     sync.Mutex
	pages  map[string]string
	errs   map[string]error
	called []string
}

func (s *stubFetcher) Fetch(_ context.Context, pageURL string) (string, error) {
	s.mu.Lock()
	s.called = append(s.called, pageURL)
	s.mu.Unlock()

	if err, ok := s.errs[pageURL]; ok {
		return "", err
	}
	if markup, ok := s.pages[pageURL]; ok {
		return markup, nil
	}
	return "", &models.FetchError{URL: pageURL, Reason: "Not Found", StatusCode: http.StatusNotFound}
}

func TestCrawlSeedAndSubpages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		switch r.URL.Path {
		case "/":
			w.Write([]byte(`
				<html><body>
				<p>Seed text about equity</p>
				<a href="/page1">Page 1</a>
				<a href="page2">Page 2</a>
				<a href="/page1">Page 1 again</a>
				<a href="https://external.example/">External</a>
				</body></html>
			`))
		case "/page1":
			w.Write([]byte(`<html><body>Page One <a href="/deeper">Deeper</a></body></html>`))
		case "/page2":
			w.Write([]byte(`<html><body>Page Two</body></html>`))
		default:
			t.Errorf("unexpected request for %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	seed := server.URL + "/"
	c := New(extractor.New(), DefaultOptions())

	result, err := c.Crawl(context.Background(), seed)
	require.NoError(t, err)

	assert.True(t, result.Seed.OK())
	assert.Equal(t, []string{seed + "page1", seed + "page2"}, result.Subpages)
	require.Len(t, result.Pages, 2, "seed is used for discovery only")
	assert.Equal(t, seed+"page1", result.Pages[0].URL)
	assert.Equal(t, "page one deeper", result.Pages[0].Text)
	assert.Empty(t, result.Pages[0].Links, "subpage links are not kept")
	assert.Equal(t, "page two", result.Pages[1].Text)
	assert.Empty(t, result.Failed())
}

func TestCrawlIncludeSeed(t *testing.T) {
	f := &stubFetcher{pages: map[string]string{
		"https://example.com/": `<p>Hello World</p>`,
	}}
	opts := DefaultOptions()
	opts.IncludeSeed = true

	result, err := New(extractor.New(), opts, WithFetcher(f)).Crawl(context.Background(), "https://example.com/")
	require.NoError(t, err)

	require.Len(t, result.Pages, 1)
	assert.Equal(t, "hello world", result.Pages[0].Text)
}

func TestCrawlSeedFailure(t *testing.T) {
	f := &stubFetcher{errs: map[string]error{
		"https://example.com/": &models.FetchError{URL: "https://example.com/", Reason: "timed out after 10s"},
	}}

	result, err := New(extractor.New(), DefaultOptions(), WithFetcher(f)).Crawl(context.Background(), "https://example.com/")
	require.NoError(t, err)

	assert.False(t, result.Seed.OK())
	assert.Empty(t, result.Subpages)
	assert.Empty(t, result.Pages)
	require.Len(t, result.Failed(), 1)
	assert.Equal(t, "timed out after 10s", result.Failed()[0].Reason)
}

func TestCrawlNoLinks(t *testing.T) {
	f := &stubFetcher{pages: map[string]string{
		"https://example.com/": `<html><body>hello world</body></html>`,
	}}

	result, err := New(extractor.New(), DefaultOptions(), WithFetcher(f)).Crawl(context.Background(), "https://example.com/")
	require.NoError(t, err)

	assert.True(t, result.Seed.OK())
	assert.Empty(t, result.Subpages)
	assert.Empty(t, result.Pages)
}

func TestCrawlSkipsFailedSubpages(t *testing.T) {
	f := &stubFetcher{
		pages: map[string]string{
			"https://example.com/":   `<a href="/ok">ok</a><a href="/missing">missing</a><a href="/broken">broken</a>`,
			"https://example.com/ok": `<p>Fine</p>`,
		},
		errs: map[string]error{
			"https://example.com/broken": fmt.Errorf("connection reset"),
		},
	}
	var progress []string
	c := New(extractor.New(), DefaultOptions(), WithFetcher(f), WithProgress(func(done, total int, pageURL string, err error) {
		progress = append(progress, fmt.Sprintf("%d/%d %s %v", done, total, pageURL, err != nil))
	}))

	result, err := c.Crawl(context.Background(), "https://example.com/")
	require.NoError(t, err)

	require.Len(t, result.Pages, 3)
	assert.Len(t, result.Succeeded(), 1)
	failed := result.Failed()
	require.Len(t, failed, 2)
	assert.Equal(t, "connection reset", failed[0].Reason)
	assert.Equal(t, http.StatusNotFound, failed[1].StatusCode)

	assert.Equal(t, []string{
		"1/3 https://example.com/broken true",
		"2/3 https://example.com/missing true",
		"3/3 https://example.com/ok false",
	}, progress)
}

func TestCrawlVisitsEachSubpageOnce(t *testing.T) {
	var hits sync.Map
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n, _ := hits.LoadOrStore(r.URL.Path, new(int32))
		atomic.AddInt32(n.(*int32), 1)
		if r.URL.Path == "/" {
			for i := 0; i < 8; i++ {
				fmt.Fprintf(w, `<a href="/p%d">p</a><a href="/p%d#again">p</a>`, i, i)
			}
			return
		}
		fmt.Fprintf(w, "<p>%s</p>", r.URL.Path)
	}))
	defer server.Close()

	opts := DefaultOptions()
	opts.Workers = 4
	result, err := New(extractor.New(), opts).Crawl(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Len(t, result.Pages, 16, "fragments are distinct URLs")
	hits.Range(func(key, value any) bool {
		if key == "/" {
			assert.Equal(t, int32(1), atomic.LoadInt32(value.(*int32)))
		} else {
			assert.Equal(t, int32(2), atomic.LoadInt32(value.(*int32)), key)
		}
		return true
	})

	urls := make([]string, 0, len(result.Pages))
	for _, p := range result.Pages {
		urls = append(urls, p.URL)
	}
	assert.True(t, sort.StringsAreSorted(urls), "pages keep resolver order regardless of workers")
}

func TestCrawlThrottle(t *testing.T) {
	var (
		mu    sync.Mutex
		times []time.Time
	)
	f := &stubFetcher{pages: map[string]string{
		"https://example.com/":  `<a href="/a">a</a><a href="/b">b</a>`,
		"https://example.com/a": `a`,
		"https://example.com/b": `b`,
	}}
	timed := fetcherFunc(func(ctx context.Context, u string) (string, error) {
		mu.Lock()
		times = append(times, time.Now())
		mu.Unlock()
		return f.Fetch(ctx, u)
	})

	opts := DefaultOptions()
	opts.Throttle = 100 * time.Millisecond
	_, err := New(extractor.New(), opts, WithFetcher(timed)).Crawl(context.Background(), "https://example.com/")
	require.NoError(t, err)

	require.Len(t, times, 3)
	for i := 1; i < len(times); i++ {
		assert.GreaterOrEqual(t, times[i].Sub(times[i-1]), 90*time.Millisecond)
	}
}

func TestCrawlCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := &stubFetcher{pages: map[string]string{"https://example.com/": "x"}}
	_, err := New(extractor.New(), DefaultOptions(), WithFetcher(f)).Crawl(ctx, "https://example.com/")
	assert.ErrorIs(t, err, context.Canceled)
}

type fetcherFunc func(ctx context.Context, pageURL string) (string, error)

func (f fetcherFunc) Fetch(ctx context.Context, pageURL string) (string, error) {
	return f(ctx, pageURL)
}

func BenchmarkCrawl(b *testing.B) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`
			<html>
			<head><title>Test</title></head>
			<body>
				<p>Content</p>
				<a href="/page1">Link 1</a>
				<a href="/page2">Link 2</a>
			</body>
			</html>
		`))
	}))
	defer server.Close()

	c := New(extractor.New(), DefaultOptions())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Crawl(context.Background(), server.URL)
	}
}
