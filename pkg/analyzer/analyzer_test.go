package analyzer

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amosWeiskopf/keywordscan/internal/models"
)

func TestCountOccurrences(t *testing.T) {
	tests := []struct {
		text    string
		keyword string
		want    int
	}{
		{"gendered language", "gender", 1},
		{"transgendered gender genders", "gender", 3},
		{"aaaa", "aa", 2},
		{"equity equity", "Equity", 2},
		{"nothing here", "bias", 0},
		{"anything", "", 0},
		{"a b c", " ", 0},
		{"a\t\tb", "\t", 0},
	}
	for _, tt := range tests {
		t.Run(tt.text+"/"+tt.keyword, func(t *testing.T) {
			assert.Equal(t, tt.want, CountOccurrences(tt.text, tt.keyword))
		})
	}
}

func TestFindContexts(t *testing.T) {
	t.Run("whole words only", func(t *testing.T) {
		assert.Empty(t, FindContexts("gendered language", "gender", DefaultSnippetRadius))
		assert.Len(t, FindContexts("gender, genders and gender.", "gender", DefaultSnippetRadius), 2)
	})

	t.Run("case insensitive", func(t *testing.T) {
		snippets := FindContexts("we value diversity and Diversity training", "DIVERSITY", 5)
		require.Len(t, snippets, 2)
		assert.Equal(t, "alue diversity and ", snippets[0])
		assert.Equal(t, " and Diversity trai", snippets[1])
	})

	t.Run("word boundaries are ascii", func(t *testing.T) {
		assert.Equal(t, []string{"café"}, FindContexts("café", "caf", DefaultSnippetRadius))
		assert.Empty(t, FindContexts("cafe", "caf", DefaultSnippetRadius))
	})

	t.Run("clipped at bounds", func(t *testing.T) {
		snippets := FindContexts("bias", "bias", DefaultSnippetRadius)
		assert.Equal(t, []string{"bias"}, snippets)
	})

	t.Run("snippet length", func(t *testing.T) {
		text := strings.Repeat("x ", 100) + "equity" + strings.Repeat(" y", 100)
		snippets := FindContexts(text, "equity", DefaultSnippetRadius)
		require.Len(t, snippets, 1)
		assert.Equal(t, 100+len("equity"), len(snippets[0]))
		assert.Contains(t, snippets[0], "equity")
	})

	t.Run("radius counts runes", func(t *testing.T) {
		text := strings.Repeat("é", 60) + " bias " + strings.Repeat("ü", 60)
		snippets := FindContexts(text, "bias", DefaultSnippetRadius)
		require.Len(t, snippets, 1)
		assert.True(t, utf8.ValidString(snippets[0]))
		assert.Equal(t, 100+len("bias"), utf8.RuneCountInString(snippets[0]))
	})

	t.Run("regex metacharacters are literal", func(t *testing.T) {
		assert.Len(t, FindContexts("c++ and c", "c++", 3), 0, "no word boundary after +")
		assert.Len(t, FindContexts("socio-economic status", "socio-economic", 3), 1)
	})

	t.Run("phrases", func(t *testing.T) {
		assert.Len(t, FindContexts("we promote social justice and justice", "social justice", 3), 1)
	})

	t.Run("blank keyword", func(t *testing.T) {
		assert.Nil(t, FindContexts("text", " ", 3))
	})
}

func pages(texts map[string]string) []models.Page {
	var out []models.Page
	for u, text := range texts {
		out = append(out, models.Page{URL: u, Text: text})
	}
	return out
}

func TestAnalyzeWholeWord(t *testing.T) {
	a := NewWithConfig(&Config{Mode: models.ModeContext})
	result := a.Analyze(pages(map[string]string{
		"https://example.com/a": "we value diversity and diversity training",
	}), []string{"diversity", "equity"})

	assert.Equal(t, map[string]int{"diversity": 2}, result.KeywordCounts)
	require.Len(t, result.Occurrences, 1)
	occ := result.Occurrences[0]
	assert.Equal(t, "https://example.com/a", occ.PageURL)
	assert.Equal(t, 2, occ.Count)
	require.Len(t, occ.Snippets, 2)
	for _, s := range occ.Snippets {
		assert.Contains(t, s, "diversity")
	}
}

func TestAnalyzeModesDiverge(t *testing.T) {
	input := pages(map[string]string{"https://example.com/a": "gendered language"})
	kws := []string{"gender"}

	freq := New().Analyze(input, kws)
	assert.Equal(t, 1, freq.KeywordCounts["gender"])
	require.Len(t, freq.Occurrences, 1)
	assert.Empty(t, freq.Occurrences[0].Snippets)

	whole := NewWithConfig(&Config{Mode: models.ModeContext}).Analyze(input, kws)
	assert.Empty(t, whole.KeywordCounts)
	assert.Empty(t, whole.Occurrences)
	assert.True(t, whole.Empty())
}

func TestAnalyzeZeroCounts(t *testing.T) {
	input := pages(map[string]string{"https://example.com/a": "equity matters"})
	kws := []string{"equity", "bias"}

	dropped := NewWithConfig(&Config{Mode: models.ModePerPage}).Analyze(input, kws)
	assert.Equal(t, map[string]int{"equity": 1}, dropped.KeywordCounts)

	kept := NewWithConfig(&Config{Mode: models.ModePerPage, KeepZeroCounts: true}).Analyze(input, kws)
	assert.Equal(t, map[string]int{"equity": 1, "bias": 0}, kept.KeywordCounts)

	none := NewWithConfig(&Config{KeepZeroCounts: true}).Analyze(nil, kws)
	assert.Equal(t, map[string]int{"equity": 0, "bias": 0}, none.KeywordCounts)
	assert.True(t, none.Empty())
}

func TestAnalyzeSkipsFailedPages(t *testing.T) {
	input := []models.Page{
		{URL: "https://example.com/ok", Text: "bias"},
		{URL: "https://example.com/down", Text: "bias", Err: &models.FetchError{Reason: "Not Found"}},
	}
	result := New().Analyze(input, []string{"bias"})
	assert.Equal(t, 1, result.KeywordCounts["bias"])
	require.Len(t, result.Occurrences, 1)
	assert.Equal(t, "https://example.com/ok", result.Occurrences[0].PageURL)
}

func TestAnalyzeCountsMatchOccurrences(t *testing.T) {
	input := pages(map[string]string{
		"https://example.com/a": "equity and inclusion, inclusion again",
		"https://example.com/b": "equity inclusive inclusion",
		"https://example.com/c": "nothing relevant",
	})
	kws := []string{"equity", "inclusion", "inclusive"}

	for _, mode := range models.Modes {
		t.Run(string(mode), func(t *testing.T) {
			result := NewWithConfig(&Config{Mode: mode}).Analyze(input, kws)
			sums := make(map[string]int)
			for _, occ := range result.Occurrences {
				sums[occ.Keyword] += occ.Count
				if mode.WholeWord() {
					assert.Len(t, occ.Snippets, occ.Count)
				}
			}
			assert.Equal(t, result.KeywordCounts, sums)
		})
	}
}

func TestAnalyzeIdempotent(t *testing.T) {
	input := pages(map[string]string{
		"https://example.com/b": "racial justice and social justice",
		"https://example.com/a": "justice for all",
		"https://example.com/c": "justice",
	})
	kws := []string{"justice", "social justice"}
	a := NewWithConfig(&Config{Mode: models.ModeContext})

	first := a.Analyze(input, kws)
	reversed := make([]models.Page, len(input))
	for i, p := range input {
		reversed[len(input)-1-i] = p
	}
	second := a.Analyze(reversed, kws)

	assert.Equal(t, first.KeywordCounts, second.KeywordCounts)
	assert.Equal(t, first.Occurrences, second.Occurrences)
	assert.Equal(t, "https://example.com/a", first.Occurrences[0].PageURL)
}

func BenchmarkAnalyze(b *testing.B) {
	text := strings.Repeat("diversity equity inclusion and other words ", 500)
	input := []models.Page{{URL: "https://example.com/", Text: text}}
	kws := []string{"diversity", "equity", "inclusion", "bias", "social justice"}
	a := NewWithConfig(&Config{Mode: models.ModeContext})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		a.Analyze(input, kws)
	}
}
