package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/dataloom/internal/analytics"
	"github.com/KaramelBytes/dataloom/internal/schema"
)

// Global configuration structure. Every inference and analytics threshold is
// named here with its stated default; none of them varies by dataset size.
type Global struct {
	ServerName string `mapstructure:"server_name" yaml:"server_name"`
	LogLevel   string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat  string `mapstructure:"log_format" yaml:"log_format"` // "text" or "json"

	// Schema inference thresholds
	IdentifierUniqueness   float64 `mapstructure:"identifier_uniqueness" yaml:"identifier_uniqueness"`
	CategoricalMaxRatio    float64 `mapstructure:"categorical_max_ratio" yaml:"categorical_max_ratio"`
	CategoricalMaxDistinct int     `mapstructure:"categorical_max_distinct" yaml:"categorical_max_distinct"`

	// Analytics thresholds
	Analytics analytics.Config `mapstructure:",squash" yaml:",inline"`

	// Export boundary
	ExportDir string `mapstructure:"export_dir" yaml:"export_dir"`

	// Sandboxed script execution
	SandboxCommand    string `mapstructure:"sandbox_command" yaml:"sandbox_command"`
	SandboxTimeoutSec int    `mapstructure:"sandbox_timeout_sec" yaml:"sandbox_timeout_sec"`
}

// Default returns the built-in configuration.
func Default() *Global {
	opt := schema.DefaultOptions()
	return &Global{
		ServerName:             "dataloom",
		LogLevel:               "info",
		LogFormat:              "text",
		IdentifierUniqueness:   opt.IdentifierUniqueness,
		CategoricalMaxRatio:    opt.CategoricalMaxRatio,
		CategoricalMaxDistinct: opt.CategoricalMaxDistinct,
		Analytics:              analytics.DefaultConfig(),
		ExportDir:              ".",
		SandboxCommand:         "python3",
		SandboxTimeoutSec:      30,
	}
}

// SchemaOptions maps the flat config onto the profiler's option struct.
func (c *Global) SchemaOptions() schema.Options {
	opt := schema.DefaultOptions()
	if c.IdentifierUniqueness > 0 {
		opt.IdentifierUniqueness = c.IdentifierUniqueness
	}
	if c.CategoricalMaxRatio > 0 {
		opt.CategoricalMaxRatio = c.CategoricalMaxRatio
	}
	if c.CategoricalMaxDistinct > 0 {
		opt.CategoricalMaxDistinct = c.CategoricalMaxDistinct
	}
	return opt
}

// Load reads configuration from cfgFile, or ~/.dataloom/config.yaml when
// empty, over the defaults. Environment variables prefixed DATALOOM_
// override file values. A missing file is not an error.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("dataloom")
	v.AutomaticEnv()

	def := Default()
	v.SetDefault("server_name", def.ServerName)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("log_format", def.LogFormat)
	v.SetDefault("identifier_uniqueness", def.IdentifierUniqueness)
	v.SetDefault("categorical_max_ratio", def.CategoricalMaxRatio)
	v.SetDefault("categorical_max_distinct", def.CategoricalMaxDistinct)
	v.SetDefault("iqr_multiplier", def.Analytics.IQRMultiplier)
	v.SetDefault("zscore_threshold", def.Analytics.ZScoreThreshold)
	v.SetDefault("min_correlation_rows", def.Analytics.MinCorrelationRows)
	v.SetDefault("correlation_threshold", def.Analytics.CorrelationThreshold)
	v.SetDefault("max_segments", def.Analytics.MaxSegments)
	v.SetDefault("segment_cardinality_cap", def.Analytics.SegmentCardinality)
	v.SetDefault("min_time_points", def.Analytics.MinTimePoints)
	v.SetDefault("batch_rows", def.Analytics.BatchRows)
	v.SetDefault("export_dir", def.ExportDir)
	v.SetDefault("sandbox_command", def.SandboxCommand)
	v.SetDefault("sandbox_timeout_sec", def.SandboxTimeoutSec)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".dataloom"))
			v.SetConfigName("config")
		}
	}
	if err := v.ReadInConfig(); err != nil {
		// Only a hard failure when the caller named a file that exists but
		// cannot be parsed.
		if cfgFile != "" {
			if _, statErr := os.Stat(cfgFile); statErr == nil {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// Save writes the configuration to cfgFile, or ~/.dataloom/config.yaml when
// empty, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".dataloom")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
