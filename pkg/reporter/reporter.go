package reporter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/amosWeiskopf/keywordscan/internal/models"
)

// Format is an output format of the report
type Format string

const (
	FormatCSV      Format = "csv"
	FormatHTML     Format = "html"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// Formats lists every supported format
var Formats = []Format{FormatCSV, FormatHTML, FormatJSON, FormatMarkdown}

// ParseFormat converts a user supplied string into a Format
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported format: %s", s)
}

// Artifact is a generated report ready to be saved or downloaded
type Artifact struct {
	Filename string
	MIMEType string
	Data     []byte
}

// Save writes the artifact into dir and returns its path
func (a *Artifact) Save(dir string) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(dir, a.Filename)
	if err := os.WriteFile(path, a.Data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}

// Reporter handles report generation in various formats
type Reporter struct {
	baseName string
}

// New creates a new Reporter instance
func New() *Reporter {
	return &Reporter{
		baseName: "keyword_report",
	}
}

// Generate renders result in the given format
func (r *Reporter) Generate(result *models.ScanResult, format Format) (*Artifact, error) {
	var (
		buf  bytes.Buffer
		err  error
		mime string
		ext  string
	)

	switch format {
	case FormatCSV:
		mime, ext = "text/csv", "csv"
		err = WriteCSV(&buf, result)
	case FormatHTML:
		mime, ext = "text/html", "html"
		err = WriteHTML(&buf, result)
	case FormatJSON:
		mime, ext = "application/json", "json"
		err = WriteJSON(&buf, result)
	case FormatMarkdown:
		mime, ext = "text/markdown", "md"
		err = WriteMarkdown(&buf, result)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
	if err != nil {
		return nil, err
	}

	return &Artifact{
		Filename: r.baseName + "." + ext,
		MIMEType: mime,
		Data:     buf.Bytes(),
	}, nil
}

// WriteCSV writes the tabular report with a header row
func WriteCSV(w io.Writer, result *models.ScanResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header(result.Mode)); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	if err := cw.WriteAll(Records(result.Mode, Table(result))); err != nil {
		return fmt.Errorf("failed to write csv rows: %w", err)
	}
	return nil
}

// jsonReport is the document written by WriteJSON
type jsonReport struct {
	*models.ScanResult
	Table []Row `json:"table"`
}

// WriteJSON writes the full scan result plus its table
func WriteJSON(w io.Writer, result *models.ScanResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(jsonReport{ScanResult: result, Table: Table(result)}); err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	return nil
}
