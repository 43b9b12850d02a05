package reporter

import (
	"fmt"
	"html/template"
	"io"
	"regexp"
	"strings"

	"github.com/amosWeiskopf/keywordscan/internal/models"
)

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Keyword Report - {{.Result.SeedURL}}</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;
            line-height: 1.6;
            color: #333;
            max-width: 1200px;
            margin: 0 auto;
            padding: 20px;
            background: #f5f5f5;
        }
        .header {
            background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
            color: white;
            padding: 2rem;
            border-radius: 10px;
            margin-bottom: 2rem;
        }
        .header a {
            color: white;
        }
        .card {
            background: white;
            border-radius: 10px;
            padding: 1.5rem;
            margin-bottom: 1.5rem;
            box-shadow: 0 2px 10px rgba(0,0,0,0.1);
        }
        table {
            border-collapse: collapse;
            width: 100%;
        }
        th, td {
            text-align: left;
            padding: 0.5rem;
            border-bottom: 1px solid #eee;
        }
        .occurrence {
            border-left: 4px solid #667eea;
            padding: 0.5rem 1rem;
            margin: 1rem 0;
        }
        .keyword {
            display: inline-block;
            padding: 0.1rem 0.6rem;
            background: #667eea;
            color: white;
            border-radius: 4px;
            font-size: 0.85rem;
            font-weight: bold;
        }
        .snippet {
            color: #555;
            font-family: Georgia, serif;
        }
        mark {
            background: #ffe066;
            padding: 0 2px;
        }
        .warning {
            border-left: 4px solid #ffc107;
            padding: 0.5rem 1rem;
        }
    </style>
</head>
<body>
    <div class="header">
        <h1>Keyword Report</h1>
        <p>Site: <a href="{{.Result.SeedURL}}">{{.Result.SeedURL}}</a></p>
        <p>Mode: {{.Result.Mode}} | Subpages found: {{.Result.SubpagesFound}} | Pages scanned: {{.Result.PagesScanned}} | Total matches: {{.Result.TotalMatches}}</p>
        {{if not .Result.FinishedAt.IsZero}}<p>Generated on {{.Result.FinishedAt.Format "January 2, 2006 15:04"}}</p>{{end}}
    </div>

    <div class="card">
        <h2>Keyword Frequency</h2>
        {{if .Table}}
        <table>
            <thead>
                <tr>{{range .Header}}<th>{{.}}</th>{{end}}</tr>
            </thead>
            <tbody>
                {{range .Table}}
                <tr>{{if $.PerPage}}<td><a href="{{.PageURL}}">{{.PageURL}}</a></td>{{end}}<td>{{.Keyword}}</td><td>{{.Frequency}}</td></tr>
                {{end}}
            </tbody>
        </table>
        {{else}}
        <p>No keywords found.</p>
        {{end}}
    </div>

    {{if .Groups}}
    <div class="card">
        <h2>Occurrences</h2>
        {{range .Groups}}
        <div class="occurrence">
            <p><a href="{{.PageURL}}">{{.PageURL}}</a> <span class="keyword">{{.Keyword}}</span> {{.Count}}</p>
            {{if .Snippets}}
            <ul>
                {{range .Snippets}}
                <li class="snippet">...{{range .}}{{if .Match}}<mark>{{.Text}}</mark>{{else}}{{.Text}}{{end}}{{end}}...</li>
                {{end}}
            </ul>
            {{end}}
        </div>
        {{end}}
    </div>
    {{end}}

    {{if .Result.ExcludedKeywords}}
    <div class="card">
        <h2>Excluded Keywords</h2>
        <p>Only single words made of letters are accepted. These entries were ignored:</p>
        <ul>
            {{range .Result.ExcludedKeywords}}
            <li>{{.}}</li>
            {{end}}
        </ul>
    </div>
    {{end}}

    {{if .Result.SkippedPages}}
    <div class="card">
        <h2>Skipped Pages</h2>
        <ul>
            {{range .Result.SkippedPages}}
            <li class="warning"><a href="{{.URL}}">{{.URL}}</a>: {{.Reason}}{{if .StatusCode}} (HTTP {{.StatusCode}}){{end}}</li>
            {{end}}
        </ul>
    </div>
    {{end}}
</body>
</html>
`

var reportTemplate = template.Must(template.New("report").Parse(htmlTemplate))

// segment is a piece of a snippet, highlighted when Match is set
type segment struct {
	Text  string
	Match bool
}

type htmlGroup struct {
	PageURL  string
	Keyword  string
	Count    int
	Snippets [][]segment
}

type htmlReport struct {
	Result  *models.ScanResult
	Header  []string
	Table   []Row
	PerPage bool
	Groups  []htmlGroup
}

// WriteHTML writes a standalone HTML document with the frequency table and
// every occurrence group. Snippets have the keyword wrapped in <mark>.
func WriteHTML(w io.Writer, result *models.ScanResult) error {
	data := htmlReport{
		Result:  result,
		Header:  Header(result.Mode),
		Table:   Table(result),
		PerPage: result.Mode == models.ModePerPage,
	}

	patterns := make(map[string]*regexp.Regexp)
	for _, occ := range result.Occurrences {
		group := htmlGroup{PageURL: occ.PageURL, Keyword: occ.Keyword, Count: occ.Count}
		if len(occ.Snippets) > 0 {
			re, ok := patterns[occ.Keyword]
			if !ok {
				re = highlightPattern(occ.Keyword, result.Mode.WholeWord())
				patterns[occ.Keyword] = re
			}
			for _, s := range occ.Snippets {
				group.Snippets = append(group.Snippets, highlight(s, re))
			}
		}
		data.Groups = append(data.Groups, group)
	}

	if err := reportTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}
	return nil
}

func highlightPattern(keyword string, wholeWord bool) *regexp.Regexp {
	expr := regexp.QuoteMeta(strings.ToLower(keyword))
	if wholeWord {
		expr = `\b` + expr + `\b`
	}
	return regexp.MustCompile(`(?i)` + expr)
}

// highlight splits s into plain and matching segments
func highlight(s string, re *regexp.Regexp) []segment {
	var out []segment
	last := 0
	for _, m := range re.FindAllStringIndex(s, -1) {
		if m[0] > last {
			out = append(out, segment{Text: s[last:m[0]]})
		}
		out = append(out, segment{Text: s[m[0]:m[1]], Match: true})
		last = m[1]
	}
	if last < len(s) {
		out = append(out, segment{Text: s[last:]})
	}
	return out
}
