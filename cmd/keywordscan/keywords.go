package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amosWeiskopf/keywordscan/pkg/keywords"
)

var keywordsCmd = &cobra.Command{
	Use:   "keywords",
	Short: "Inspect keyword lists",
}

var keywordsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the keyword list a scan uses by default",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		list := keywords.Default()
		switch {
		case cfg.Scan.KeywordsFile != "":
			var err error
			list, err = keywords.LoadFile(cfg.Scan.KeywordsFile)
			if err != nil {
				return err
			}
		case len(cfg.Scan.Keywords) > 0:
			list = keywords.Normalize(cfg.Scan.Keywords)
		}

		out := cmd.OutOrStdout()
		for _, kw := range list {
			fmt.Fprintln(out, kw)
		}
		return nil
	},
}

var keywordsValidateCmd = &cobra.Command{
	Use:   "validate [KEYWORDS]",
	Short: "Show which comma separated keywords a scan would accept",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		valid, excluded := keywords.Validate(strings.Join(args, ","))

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Valid (%d): %s\n", len(valid), strings.Join(valid, ", "))
		fmt.Fprintf(out, "Excluded (%d): %s\n", len(excluded), strings.Join(excluded, ", "))
		if len(valid) == 0 {
			return fmt.Errorf("no valid keywords")
		}
		return nil
	},
}

func init() {
	keywordsCmd.AddCommand(keywordsListCmd)
	keywordsCmd.AddCommand(keywordsValidateCmd)
}
