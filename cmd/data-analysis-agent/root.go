package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jjalcantara1/data-analysis-agent/internal/cli"
	"github.com/jjalcantara1/data-analysis-agent/internal/cli/config"
)

var (
	// These are set during build time using -ldflags
	version = "dev"
	commit  = "none"
	date    = "unknown"

	// Flags persistent across commands
	cfgFile string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "data-analysis-agent -d <dataset> -p <plan>",
	Short: "Executes a structured analysis plan against a cleaned dataset.",
	Long: `data-analysis-agent takes a cleaned tabular dataset and a structured
analysis plan, runs every requested analysis, and produces per-entry
statistical summaries plus chart artifacts.

It features:
  - Parallel execution of plan entries.
  - Per-entry failure isolation: one bad entry never aborts the run.
  - Upfront schema validation of each entry against the dataset.
  - Deterministic, plan-ordered report output (report.json).
  - PNG chart rendering for every supported analysis type.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Create a context that listens for interrupt signals
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		cfg, logger, err := config.Load(cfgFile, verbose, cmd.Flags())
		if err != nil {
			return err
		}

		return cli.Run(ctx, cfg, logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	rootCmd.SetVersionTemplate(`{{.Use}} version {{.Version}}` + "\n")
	// Cobra prints the error and exits non-zero if RunE returns an error.
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init registers flags for the root command.
func init() {
	// Persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Configuration file path (default is search ., $HOME/.config/data-analysis-agent/)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose (debug) logging output (disables the progress bar)")

	// Required input flags
	rootCmd.PersistentFlags().StringP("dataset", "d", "", "Required. Cleaned dataset artifact (.json or .csv).")
	rootCmd.PersistentFlags().StringP("plan", "p", "", "Required. Analysis plan artifact (.json, .yaml or .yml).")
	_ = rootCmd.MarkPersistentFlagRequired("dataset")
	_ = rootCmd.MarkPersistentFlagRequired("plan")

	// --- Local Flags for the root command ---
	// Note: Flag names must align with the Viper keys used in
	// internal/cli/config/config.go, since they are bound wholesale.

	rootCmd.Flags().StringP("output", "o", "analysis_outputs", "Output directory for report.json and charts/")
	rootCmd.Flags().Bool("renderCharts", true, "Render chart artifacts (disable to compute statistics only)")
	rootCmd.Flags().Duration("entryTimeout", 0, "Per-entry deadline, e.g. '30s' (0 uses the configured default)")
	rootCmd.Flags().Int("concurrency", 0, "Number of parallel workers (0 for auto-detect CPU cores)")

	// Analysis tuning flags
	rootCmd.Flags().Int("topN", 10, "Number of categories reported by frequency analyses")
	rootCmd.Flags().Int("percentDigits", 1, "Decimal digits for percentage figures")
	rootCmd.Flags().Int("statDigits", 2, "Decimal digits for plain statistics")
	rootCmd.Flags().StringSlice("multiValueColumns", []string{}, "Columns whose cells hold separator-joined value lists")
	rootCmd.Flags().String("multiValueSeparator", ",", "Separator for multi-value columns")
}
