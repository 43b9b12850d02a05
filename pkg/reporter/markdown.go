package reporter

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/amosWeiskopf/keywordscan/internal/models"
)

// maxChartSlices keeps the pie chart readable on large keyword lists
const maxChartSlices = 10

// WriteMarkdown writes the report as GitHub flavored Markdown
func WriteMarkdown(w io.Writer, result *models.ScanResult) error {
	md := markdown.NewMarkdown(w)
	rows := Table(result)

	md.H1("Keyword Report")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Site", result.SeedURL},
			{"Scan ID", "`" + result.ID + "`"},
			{"Mode", string(result.Mode)},
			{"Subpages Found", strconv.Itoa(result.SubpagesFound)},
			{"Pages Scanned", strconv.Itoa(result.PagesScanned)},
			{"Total Matches", strconv.Itoa(result.TotalMatches())},
		},
	})
	md.PlainText("")

	if result.Empty() {
		md.Warningf("No keywords found on %s.", result.SeedURL)
		md.PlainText("")
	}

	md.H2("Keyword Frequency")
	md.PlainText("")
	if len(rows) == 0 {
		md.PlainText("No keywords found.")
	} else {
		md.Table(markdown.TableSet{
			Header: Header(result.Mode),
			Rows:   escapeCells(Records(result.Mode, rows)),
		})
	}
	md.PlainText("")

	if !result.Empty() {
		writeChart(md, BuildTable(result))
	}

	writeSnippets(md, result)

	if len(result.ExcludedKeywords) > 0 {
		md.H2("Excluded Keywords")
		md.PlainText("")
		md.Note("Only single words made of letters are accepted.")
		md.PlainText("")
		md.BulletList(result.ExcludedKeywords...)
		md.PlainText("")
	}

	if len(result.SkippedPages) > 0 {
		md.H2("Skipped Pages")
		md.PlainText("")
		items := make([]string, 0, len(result.SkippedPages))
		for _, p := range result.SkippedPages {
			item := p.URL + ": " + p.Reason
			if p.StatusCode != 0 {
				item += fmt.Sprintf(" (HTTP %d)", p.StatusCode)
			}
			items = append(items, item)
		}
		md.BulletList(items...)
		md.PlainText("")
	}

	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by keywordscan*")

	if err := md.Build(); err != nil {
		return fmt.Errorf("failed to write markdown: %w", err)
	}
	return nil
}

func writeChart(md *markdown.Markdown, rows []Row) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Keyword Distribution"),
		piechart.WithShowData(true),
	)
	for i, r := range rows {
		if i == maxChartSlices || r.Frequency == 0 {
			break
		}
		chart.LabelAndIntValue(r.Keyword, uint64(r.Frequency))
	}
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func writeSnippets(md *markdown.Markdown, result *models.ScanResult) {
	var groups []models.Occurrence
	for _, occ := range result.Occurrences {
		if len(occ.Snippets) > 0 {
			groups = append(groups, occ)
		}
	}
	if len(groups) == 0 {
		return
	}

	md.H2("Occurrences")
	md.PlainText("")
	for _, occ := range groups {
		md.PlainTextf("### %s", occ.PageURL)
		md.PlainText("")
		items := make([]string, 0, len(occ.Snippets))
		for _, s := range occ.Snippets {
			items = append(items, "**"+occ.Keyword+"**: ..."+s+"...")
		}
		md.BulletList(items...)
		md.PlainText("")
	}
}

// escapeCells keeps pipes in page URLs from breaking table columns
func escapeCells(records [][]string) [][]string {
	for _, rec := range records {
		for i, cell := range rec {
			rec[i] = strings.ReplaceAll(cell, "|", `\|`)
		}
	}
	return records
}
