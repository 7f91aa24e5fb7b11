package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/dataloom/internal/analytics"
	"github.com/KaramelBytes/dataloom/internal/dataset"
	"github.com/KaramelBytes/dataloom/internal/export"
	"github.com/KaramelBytes/dataloom/internal/parser"
	"github.com/KaramelBytes/dataloom/internal/registry"
	"github.com/KaramelBytes/dataloom/internal/schema"
)

var (
	anaName       string
	anaSampleSize int
	anaCorr       bool
	anaOutliers   string
	anaQuality    bool
	anaOutputPath string
	anaFormat     string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Load a data file and print a one-shot analysis report",
	Long: `Loads one CSV, TSV or JSON file, infers its schema and prints a report:
column roles and statistics, suggested operations, and optionally a
quality assessment, correlation matrix and outlier screen.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		name := anaName
		if name == "" {
			base := filepath.Base(path)
			name = strings.TrimSuffix(base, filepath.Ext(base))
		}

		parsed, err := parser.ParseFile(path)
		if err != nil {
			return err
		}
		rows := parsed.Rows
		if anaSampleSize > 0 {
			rows = parser.SampleRows(rows, anaSampleSize)
		}

		engine := schema.NewEngine(cfg.SchemaOptions())
		reg := registry.New(engine, log)
		ds := dataset.New(name, parsed.Columns, rows)
		ds.Format = parsed.Format
		entry, err := reg.LoadDataset(ds, false)
		if err != nil {
			return err
		}
		ops := analytics.NewOperations(reg, cfg.Analytics)

		ctx := context.Background()
		report := map[string]any{
			"dataset": name,
			"source":  path,
			"rows":    len(entry.Dataset.Rows),
			"schema":  entry.Schema,
		}

		suggestions, err := analytics.NewSuggester(ops).Suggest(name)
		if err != nil {
			return err
		}
		report["suggestions"] = suggestions

		if anaQuality {
			q, err := ops.AssessQuality(ctx, name)
			if err != nil {
				return err
			}
			report["quality"] = q
		}
		if anaCorr {
			c, err := ops.Correlate(ctx, name, nil, cfg.Analytics.CorrelationThreshold)
			if err != nil {
				fmt.Fprintf(os.Stderr, "⚠ Warning: correlations skipped: %v\n", err)
			} else {
				report["correlations"] = c
			}
		}
		if anaOutliers != "" {
			o, err := ops.DetectOutliers(ctx, name, nil, analytics.OutlierMethod(anaOutliers))
			if err != nil {
				fmt.Fprintf(os.Stderr, "⚠ Warning: outlier screen skipped: %v\n", err)
			} else {
				report["outliers"] = o
			}
		}

		if anaOutputPath != "" {
			p, err := export.WriteInsights(filepath.Dir(anaOutputPath),
				strings.TrimSuffix(filepath.Base(anaOutputPath), filepath.Ext(anaOutputPath)),
				report, anaFormat)
			if err != nil {
				return err
			}
			fmt.Printf("✓ Wrote analysis to %s\n", p)
			return nil
		}
		b, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(b))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVar(&anaName, "name", "", "dataset name (default: file name without extension)")
	analyzeCmd.Flags().IntVar(&anaSampleSize, "sample-size", 0, "load only this many rows, sampled without replacement")
	analyzeCmd.Flags().BoolVar(&anaCorr, "correlations", false, "include the pairwise correlation matrix")
	analyzeCmd.Flags().StringVar(&anaOutliers, "outliers", "", "include an outlier screen: 'iqr' or 'zscore'")
	analyzeCmd.Flags().BoolVar(&anaQuality, "quality", true, "include the data quality assessment")
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "write the report to a file instead of stdout")
	analyzeCmd.Flags().StringVar(&anaFormat, "format", "json", "output format when writing a file: json or markdown")
}
