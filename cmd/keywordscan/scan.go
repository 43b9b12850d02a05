package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/amosWeiskopf/keywordscan/internal/config"
	"github.com/amosWeiskopf/keywordscan/internal/models"
	"github.com/amosWeiskopf/keywordscan/pkg/reporter"
	"github.com/amosWeiskopf/keywordscan/pkg/scanner"
	"github.com/amosWeiskopf/keywordscan/pkg/utils"
)

var scanCmd = &cobra.Command{
	Use:   "scan [URL]",
	Short: "Scan a website for keywords and write a report",
	Long: `Fetch the seed URL, follow every same-site link on it once and count the
configured keywords on each page. Without --keywords the builtin list (or the
configured one) is used.`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().String("keywords", "", "Comma separated keywords; only single alphabetic words are kept")
	scanCmd.Flags().String("keywords-file", "", "YAML keyword list replacing the builtin list")
	scanCmd.Flags().String("mode", "", "Matching mode (frequency, context, per-page)")
	scanCmd.Flags().String("format", "", "Report format (csv, html, json, markdown)")
	scanCmd.Flags().String("output-dir", "", "Directory for the report file")
	scanCmd.Flags().Int("workers", 0, "Concurrent subpage fetches")
	scanCmd.Flags().Duration("throttle", 0, "Minimum delay between requests")
	scanCmd.Flags().Duration("timeout", 0, "Per request timeout")
	scanCmd.Flags().Bool("include-seed", false, "Also match keywords on the seed page")
	scanCmd.Flags().String("extraction", "", "Text extraction (full, trafilatura, readability)")
	scanCmd.Flags().String("selector", "", "CSS selector limiting the text that is matched")
}

func runScan(cmd *cobra.Command, args []string) error {
	applyScanFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	format, err := reporter.ParseFormat(cfg.Report.Format)
	if err != nil {
		return err
	}
	scanCfg, err := cfg.ScannerConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	input, _ := cmd.Flags().GetString("keywords")
	errOut := cmd.ErrOrStderr()
	result, err := scanner.New(scanCfg, scanner.WithLogger(logger)).Run(ctx, scanner.Request{
		SeedURL:      args[0],
		KeywordInput: input,
		Progress: func(done, total int, pageURL string, err error) {
			status := "ok"
			if err != nil {
				status = "skipped"
			}
			fmt.Fprintf(errOut, "[%d/%d] %s %s\n", done, total, status, utils.TruncateText(pageURL, 80))
		},
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printSummary(out, result)

	if result.Empty() {
		fmt.Fprintln(errOut, "No report written")
		return nil
	}

	artifact, err := reporter.New().Generate(result, format)
	if err != nil {
		return fmt.Errorf("report generation failed: %w", err)
	}
	path, err := artifact.Save(cfg.Report.OutputDir)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Report saved to %s\n", path)
	return nil
}

// applyScanFlags copies explicitly set flags over the loaded configuration
func applyScanFlags(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("keywords-file") {
		c.Scan.KeywordsFile, _ = flags.GetString("keywords-file")
	}
	if flags.Changed("mode") {
		c.Scan.Mode, _ = flags.GetString("mode")
	}
	if flags.Changed("format") {
		c.Report.Format, _ = flags.GetString("format")
	}
	if flags.Changed("output-dir") {
		c.Report.OutputDir, _ = flags.GetString("output-dir")
	}
	if flags.Changed("workers") {
		c.Crawler.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("throttle") {
		c.Crawler.Throttle, _ = flags.GetDuration("throttle")
	}
	if flags.Changed("timeout") {
		c.Crawler.Timeout, _ = flags.GetDuration("timeout")
	}
	if flags.Changed("include-seed") {
		c.Crawler.IncludeSeed, _ = flags.GetBool("include-seed")
	}
	if flags.Changed("extraction") {
		c.Crawler.Extraction, _ = flags.GetString("extraction")
	}
	if flags.Changed("selector") {
		c.Crawler.Selector, _ = flags.GetString("selector")
	}
}

// printSummary writes the frequency table and any warnings to w
func printSummary(w io.Writer, result *models.ScanResult) {
	fmt.Fprintf(w, "Scanned %d pages of %s (%d subpages found)\n\n", result.PagesScanned, result.SeedURL, result.SubpagesFound)

	rows := reporter.Table(result)
	if len(rows) > 0 {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		header := reporter.Header(result.Mode)
		for i, h := range header {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, h)
		}
		fmt.Fprintln(tw)
		for _, rec := range reporter.Records(result.Mode, rows) {
			for i, cell := range rec {
				if i > 0 {
					fmt.Fprint(tw, "\t")
				}
				fmt.Fprint(tw, utils.TruncateText(cell, 60))
			}
			fmt.Fprintln(tw)
		}
		tw.Flush()
		fmt.Fprintln(w)
	}

	if len(result.ExcludedKeywords) > 0 {
		fmt.Fprintf(w, "Excluded keywords: %v\n", result.ExcludedKeywords)
	}
	for _, warning := range result.Warnings {
		fmt.Fprintf(w, "Warning: %s\n", warning)
	}
}
