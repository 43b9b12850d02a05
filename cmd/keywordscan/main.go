package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/amosWeiskopf/keywordscan/internal/api"
	"github.com/amosWeiskopf/keywordscan/internal/config"
	"github.com/amosWeiskopf/keywordscan/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// loaded by the root command before any subcommand runs
var (
	cfg      *config.Config
	logger   *slog.Logger
	closeLog = func() error { return nil }
)

var rootCmd = &cobra.Command{
	Use:   "keywordscan",
	Short: "KeywordScan - Website keyword coverage audits",
	Long: `KeywordScan crawls a website's pages one level below a seed URL and
reports where and how often a list of keywords and phrases appears, as a
frequency table and an HTML report with highlighted snippets.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		verbose, _ := cmd.Flags().GetBool("verbose")

		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if verbose {
			cfg.Logging.Level = "debug"
		}

		logger, closeLog, err = logging.New(cfg.Logging, nil)
		if err != nil {
			return err
		}
		slog.SetDefault(logger)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeLog()
	},
}

func init() {
	api.Version = version

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(keywordsCmd)
	rootCmd.AddCommand(serveCmd)

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "Config file path")
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable verbose output")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
