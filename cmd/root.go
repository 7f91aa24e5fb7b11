package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/dataloom/internal/config"
	"github.com/KaramelBytes/dataloom/internal/logging"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

var (
	// Global flags
	cfgFile string
	debug   bool

	// Loaded configuration and logger, set by loadConfig before any RunE
	cfg *cfgpkg.Global
	log *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "dataloom",
	Short: "DataLoom: schema-aware analytics over tabular datasets",
	Long: `DataLoom loads CSV, TSV and JSON datasets, infers a typed schema for each
column, and runs analytics (correlations, outliers, segmentation, time
series, quality checks) over them. It serves the same operations to
tool-calling clients over the MCP protocol on stdio.`,
}

// Execute is the entry point called by main.main()
func Execute() {
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.dataloom/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = cfgpkg.Default()
	}
	cfg = c
	level := cfg.LogLevel
	if debug {
		level = "debug"
	}
	log = logging.New(level, cfg.LogFormat)
}
