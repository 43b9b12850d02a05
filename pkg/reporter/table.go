package reporter

import (
	"sort"
	"strconv"

	"github.com/amosWeiskopf/keywordscan/internal/models"
)

// Row is one line of the tabular report. PageURL is empty outside per-page mode.
type Row struct {
	PageURL   string `json:"page_url,omitempty"`
	Keyword   string `json:"keyword"`
	Frequency int    `json:"frequency"`
}

// BuildTable returns the keyword counts sorted by frequency, highest first.
// Ties keep the order of result.Keywords.
func BuildTable(result *models.ScanResult) []Row {
	order := result.Keywords
	if len(order) == 0 {
		order = make([]string, 0, len(result.KeywordCounts))
		for kw := range result.KeywordCounts {
			order = append(order, kw)
		}
		sort.Strings(order)
	}

	rows := make([]Row, 0, len(result.KeywordCounts))
	for _, kw := range order {
		if n, ok := result.KeywordCounts[kw]; ok {
			rows = append(rows, Row{Keyword: kw, Frequency: n})
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Frequency > rows[j].Frequency
	})
	return rows
}

// BuildPageTable returns one row per page and matched keyword
func BuildPageTable(result *models.ScanResult) []Row {
	rows := make([]Row, 0, len(result.Occurrences))
	for _, occ := range result.Occurrences {
		rows = append(rows, Row{PageURL: occ.PageURL, Keyword: occ.Keyword, Frequency: occ.Count})
	}
	return rows
}

// Table picks the layout that matches the scan mode
func Table(result *models.ScanResult) []Row {
	if result.Mode == models.ModePerPage {
		return BuildPageTable(result)
	}
	return BuildTable(result)
}

// Header returns the column names for mode
func Header(mode models.Mode) []string {
	if mode == models.ModePerPage {
		return []string{"Page URL", "Keyword", "Frequency"}
	}
	return []string{"Keyword", "Frequency"}
}

// Records flattens rows into string cells under Header(mode)
func Records(mode models.Mode, rows []Row) [][]string {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		if mode == models.ModePerPage {
			records = append(records, []string{r.PageURL, r.Keyword, strconv.Itoa(r.Frequency)})
		} else {
			records = append(records, []string{r.Keyword, strconv.Itoa(r.Frequency)})
		}
	}
	return records
}
