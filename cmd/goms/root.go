package main

import (
	"github.com/spf13/cobra"

	"github.com/govtorders/goms/internal/api"
	"github.com/govtorders/goms/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "goms",
	Short: "Government Order bundle processor with LLM-powered amendment extraction",
	Long: `goms splits scanned Government Order (G.O.Ms) PDF bundles into
individual orders and extracts their amendments as structured records.

The pipeline includes:
  - Page boundary detection (header regex or oracle-assisted)
  - Per-order PDF slicing with an optional OCR pre-pass
  - Markdown conversion tuned for GO layout
  - Structured amendment and metadata extraction via Gemini`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ~/.goms/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "goms home directory (default: ~/.goms)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)

	// Set output format before any command runs
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		api.SetOutputFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)
}
