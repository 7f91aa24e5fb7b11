package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/dataloom/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set DataLoom configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Println("No config loaded")
			return nil
		}
		fmt.Printf("server_name: %s\n", cfg.ServerName)
		fmt.Printf("log_level: %s\n", cfg.LogLevel)
		fmt.Printf("log_format: %s\n", cfg.LogFormat)
		fmt.Printf("identifier_uniqueness: %.2f\n", cfg.IdentifierUniqueness)
		fmt.Printf("categorical_max_ratio: %.2f\n", cfg.CategoricalMaxRatio)
		fmt.Printf("categorical_max_distinct: %d\n", cfg.CategoricalMaxDistinct)
		fmt.Printf("iqr_multiplier: %.2f\n", cfg.Analytics.IQRMultiplier)
		fmt.Printf("zscore_threshold: %.2f\n", cfg.Analytics.ZScoreThreshold)
		fmt.Printf("min_correlation_rows: %d\n", cfg.Analytics.MinCorrelationRows)
		fmt.Printf("correlation_threshold: %.2f\n", cfg.Analytics.CorrelationThreshold)
		fmt.Printf("max_segments: %d\n", cfg.Analytics.MaxSegments)
		fmt.Printf("segment_cardinality_cap: %d\n", cfg.Analytics.SegmentCardinality)
		fmt.Printf("min_time_points: %d\n", cfg.Analytics.MinTimePoints)
		fmt.Printf("export_dir: %s\n", cfg.ExportDir)
		fmt.Printf("sandbox_command: %s\n", cfg.SandboxCommand)
		fmt.Printf("sandbox_timeout_sec: %d\n", cfg.SandboxTimeoutSec)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "server_name":
			cfg.ServerName = val
		case "log_level":
			cfg.LogLevel = val
		case "log_format":
			if val != "text" && val != "json" {
				return fmt.Errorf("invalid log_format: %s (use text or json)", val)
			}
			cfg.LogFormat = val
		case "identifier_uniqueness":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f <= 0 || f > 1 {
				return fmt.Errorf("invalid identifier_uniqueness: %s (use a fraction in (0,1])", val)
			}
			cfg.IdentifierUniqueness = f
		case "categorical_max_ratio":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f <= 0 || f > 1 {
				return fmt.Errorf("invalid categorical_max_ratio: %s (use a fraction in (0,1])", val)
			}
			cfg.CategoricalMaxRatio = f
		case "categorical_max_distinct":
			n, err := strconv.Atoi(val)
			if err != nil || n <= 0 {
				return fmt.Errorf("invalid categorical_max_distinct: %s", val)
			}
			cfg.CategoricalMaxDistinct = n
		case "iqr_multiplier":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f <= 0 {
				return fmt.Errorf("invalid iqr_multiplier: %s", val)
			}
			cfg.Analytics.IQRMultiplier = f
		case "zscore_threshold":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f <= 0 {
				return fmt.Errorf("invalid zscore_threshold: %s", val)
			}
			cfg.Analytics.ZScoreThreshold = f
		case "correlation_threshold":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f < 0 || f > 1 {
				return fmt.Errorf("invalid correlation_threshold: %s (use a fraction in [0,1])", val)
			}
			cfg.Analytics.CorrelationThreshold = f
		case "export_dir":
			cfg.ExportDir = val
		case "sandbox_command":
			cfg.SandboxCommand = val
		case "sandbox_timeout_sec":
			n, err := strconv.Atoi(val)
			if err != nil || n <= 0 {
				return fmt.Errorf("invalid sandbox_timeout_sec: %s", val)
			}
			cfg.SandboxTimeoutSec = n
		default:
			return fmt.Errorf("unknown config key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Printf("✓ Saved %s\n", key)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
