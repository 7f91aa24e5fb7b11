package server

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/KaramelBytes/dataloom/internal/analytics"
	"github.com/KaramelBytes/dataloom/internal/dataset"
	"github.com/KaramelBytes/dataloom/internal/export"
	"github.com/KaramelBytes/dataloom/internal/parser"
	"github.com/KaramelBytes/dataloom/internal/registry"
)

func (s *Server) registerTools() {
	s.mcp.AddTool(mcp.NewTool("load_dataset",
		mcp.WithDescription("Load a CSV, TSV or JSON file into the registry under a name and infer its schema."),
		mcp.WithString("file_path", mcp.Required(), mcp.Description("Path to the data file")),
		mcp.WithString("dataset_name", mcp.Required(), mcp.Description("Registry name for the dataset")),
		mcp.WithNumber("sample_size", mcp.Description("Load only this many rows, sampled without replacement")),
		mcp.WithBoolean("overwrite", mcp.Description("Replace an existing dataset of the same name")),
	), s.handleLoadDataset)

	s.mcp.AddTool(mcp.NewTool("list_loaded_datasets",
		mcp.WithDescription("List every loaded dataset with row, column and memory summaries."),
	), s.handleListDatasets)

	s.mcp.AddTool(mcp.NewTool("clear_dataset",
		mcp.WithDescription("Remove one dataset from the registry."),
		mcp.WithString("dataset_name", mcp.Required(), mcp.Description("Dataset to remove")),
	), s.handleClearDataset)

	s.mcp.AddTool(mcp.NewTool("clear_all_datasets",
		mcp.WithDescription("Remove every dataset from the registry."),
	), s.handleClearAll)

	s.mcp.AddTool(mcp.NewTool("suggest_analysis",
		mcp.WithDescription("Rank the operations applicable to a dataset given its inferred schema."),
		mcp.WithString("dataset_name", mcp.Required(), mcp.Description("Dataset to inspect")),
	), s.handleSuggest)

	s.mcp.AddTool(mcp.NewTool("analyze_distributions",
		mcp.WithDescription("Describe the distribution of one column: moments and quartiles for numeric roles, frequencies otherwise."),
		mcp.WithString("dataset_name", mcp.Required(), mcp.Description("Dataset to analyze")),
		mcp.WithString("column", mcp.Required(), mcp.Description("Column to profile")),
	), s.handleDistributions)

	s.mcp.AddTool(mcp.NewTool("find_correlations",
		mcp.WithDescription("Compute the pairwise Pearson correlation matrix over numerical columns."),
		mcp.WithString("dataset_name", mcp.Required(), mcp.Description("Dataset to analyze")),
		mcp.WithArray("columns", mcp.Description("Numerical columns to include; all numerical columns when omitted"),
			mcp.Items(map[string]any{"type": "string"})),
		mcp.WithNumber("threshold", mcp.Description("Absolute correlation above which a pair is reported as strong")),
	), s.handleCorrelations)

	s.mcp.AddTool(mcp.NewTool("segment_by_column",
		mcp.WithDescription("Group rows by a categorical column and aggregate numerical metrics per group."),
		mcp.WithString("dataset_name", mcp.Required(), mcp.Description("Dataset to analyze")),
		mcp.WithString("column", mcp.Required(), mcp.Description("Categorical or boolean column to group by")),
		mcp.WithArray("value_columns", mcp.Description("Numerical columns to aggregate; all numerical columns when omitted"),
			mcp.Items(map[string]any{"type": "string"})),
	), s.handleSegment)

	s.mcp.AddTool(mcp.NewTool("detect_outliers",
		mcp.WithDescription("Flag outlying values in numerical columns using the IQR or z-score method."),
		mcp.WithString("dataset_name", mcp.Required(), mcp.Description("Dataset to analyze")),
		mcp.WithString("method", mcp.Required(), mcp.Description("Detection method: iqr or zscore")),
		mcp.WithArray("columns", mcp.Description("Numerical columns to screen; all numerical columns when omitted"),
			mcp.Items(map[string]any{"type": "string"})),
	), s.handleOutliers)

	s.mcp.AddTool(mcp.NewTool("time_series_analysis",
		mcp.WithDescription("Bucket a numerical column by a temporal column and report trend and seasonality hints."),
		mcp.WithString("dataset_name", mcp.Required(), mcp.Description("Dataset to analyze")),
		mcp.WithString("date_column", mcp.Required(), mcp.Description("Temporal column")),
		mcp.WithString("value_column", mcp.Required(), mcp.Description("Numerical column to aggregate")),
		mcp.WithString("granularity", mcp.Description("Bucket size: day, week or month; inferred from the column span when omitted")),
	), s.handleTimeSeries)

	s.mcp.AddTool(mcp.NewTool("validate_data_quality",
		mcp.WithDescription("Score dataset quality from missing cells, duplicate rows and schema violations."),
		mcp.WithString("dataset_name", mcp.Required(), mcp.Description("Dataset to assess")),
	), s.handleQuality)

	s.mcp.AddTool(mcp.NewTool("compare_datasets",
		mcp.WithDescription("Compare two datasets structurally: shared and exclusive columns, role changes, numeric summary shifts."),
		mcp.WithString("dataset_a", mcp.Required(), mcp.Description("First dataset")),
		mcp.WithString("dataset_b", mcp.Required(), mcp.Description("Second dataset")),
	), s.handleCompare)

	s.mcp.AddTool(mcp.NewTool("merge_datasets",
		mcp.WithDescription("Join two datasets on a key column into a new registered dataset with a freshly inferred schema."),
		mcp.WithString("primary", mcp.Required(), mcp.Description("Primary dataset")),
		mcp.WithString("secondary", mcp.Required(), mcp.Description("Secondary dataset")),
		mcp.WithString("on_column", mcp.Required(), mcp.Description("Join key present in both datasets")),
		mcp.WithString("how", mcp.Description("Join strategy: inner, left or outer; inner when omitted")),
		mcp.WithString("new_name", mcp.Description("Name for the merged dataset; generated when omitted")),
	), s.handleMerge)

	s.mcp.AddTool(mcp.NewTool("calculate_feature_importance",
		mcp.WithDescription("Rank candidate columns by absolute correlation with a numerical target."),
		mcp.WithString("dataset_name", mcp.Required(), mcp.Description("Dataset to analyze")),
		mcp.WithString("target", mcp.Required(), mcp.Description("Numerical target column")),
		mcp.WithArray("candidates", mcp.Description("Candidate numerical columns; all other numerical columns when omitted"),
			mcp.Items(map[string]any{"type": "string"})),
	), s.handleImportance)

	s.mcp.AddTool(mcp.NewTool("memory_report",
		mcp.WithDescription("Report estimated memory per dataset with compaction hints. Advisory only, nothing is evicted."),
	), s.handleMemory)

	s.mcp.AddTool(mcp.NewTool("export_insights",
		mcp.WithDescription("Write a combined report (schema summary, quality assessment, suggestions) to a file."),
		mcp.WithString("dataset_name", mcp.Required(), mcp.Description("Dataset to report on")),
		mcp.WithString("format", mcp.Description("Output format: json or markdown; json when omitted")),
	), s.handleExportInsights)

	s.mcp.AddTool(mcp.NewTool("create_chart",
		mcp.WithDescription("Render a chart of dataset columns to a self-contained HTML file."),
		mcp.WithString("dataset_name", mcp.Required(), mcp.Description("Dataset to chart")),
		mcp.WithString("chart_type", mcp.Required(), mcp.Description("Chart type: bar, line, scatter or histogram")),
		mcp.WithString("x_column", mcp.Required(), mcp.Description("X axis column")),
		mcp.WithString("y_column", mcp.Description("Y axis column; counts are plotted when omitted")),
		mcp.WithString("title", mcp.Description("Chart title")),
	), s.handleCreateChart)

	s.mcp.AddTool(mcp.NewTool("run_script",
		mcp.WithDescription("Execute a script against a dataset in an external interpreter with a wall-clock timeout. The dataset arrives as JSON on stdin; output is returned verbatim."),
		mcp.WithString("dataset_name", mcp.Required(), mcp.Description("Dataset to expose to the script")),
		mcp.WithString("script", mcp.Required(), mcp.Description("Script source passed to the interpreter")),
	), s.handleRunScript)
}

func (s *Server) handleLoadDataset(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("file_path")
	if err != nil {
		return toolError(err)
	}
	name, err := req.RequireString("dataset_name")
	if err != nil {
		return toolError(err)
	}
	parsed, err := parser.ParseFile(path)
	if err != nil {
		return toolError(err)
	}
	rows := parsed.Rows
	if n := req.GetInt("sample_size", 0); n > 0 {
		rows = parser.SampleRows(rows, n)
	}
	ds := dataset.New(name, parsed.Columns, rows)
	ds.Format = parsed.Format
	entry, err := s.reg.LoadDataset(ds, req.GetBool("overwrite", false))
	if err != nil {
		return toolError(err)
	}
	return jsonResult(map[string]any{
		"dataset": name,
		"rows":    len(entry.Dataset.Rows),
		"columns": entry.Dataset.Columns,
		"schema":  entry.Schema,
	})
}

func (s *Server) handleListDatasets(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.reg.List())
}

func (s *Server) handleClearDataset(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("dataset_name")
	if err != nil {
		return toolError(err)
	}
	if err := s.reg.Clear(name); err != nil {
		return toolError(err)
	}
	return jsonResult(map[string]any{"cleared": name})
}

func (s *Server) handleClearAll(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	n := s.reg.ClearAll()
	return jsonResult(map[string]any{"cleared_count": n})
}

func (s *Server) handleSuggest(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("dataset_name")
	if err != nil {
		return toolError(err)
	}
	suggestions, err := s.suggest.Suggest(name)
	if err != nil {
		return toolError(err)
	}
	return jsonResult(map[string]any{"dataset": name, "suggestions": suggestions})
}

func (s *Server) handleDistributions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("dataset_name")
	if err != nil {
		return toolError(err)
	}
	column, err := req.RequireString("column")
	if err != nil {
		return toolError(err)
	}
	res, err := s.ops.Distribution(ctx, name, column)
	if err != nil {
		return toolError(err)
	}
	return jsonResult(res)
}

func (s *Server) handleCorrelations(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("dataset_name")
	if err != nil {
		return toolError(err)
	}
	res, err := s.ops.Correlate(ctx, name,
		req.GetStringSlice("columns", nil),
		req.GetFloat("threshold", s.cfg.Analytics.CorrelationThreshold))
	if err != nil {
		return toolError(err)
	}
	return jsonResult(res)
}

func (s *Server) handleSegment(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("dataset_name")
	if err != nil {
		return toolError(err)
	}
	column, err := req.RequireString("column")
	if err != nil {
		return toolError(err)
	}
	res, err := s.ops.Segment(ctx, name, column, req.GetStringSlice("value_columns", nil))
	if err != nil {
		return toolError(err)
	}
	return jsonResult(res)
}

func (s *Server) handleOutliers(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("dataset_name")
	if err != nil {
		return toolError(err)
	}
	method, err := req.RequireString("method")
	if err != nil {
		return toolError(err)
	}
	res, err := s.ops.DetectOutliers(ctx, name,
		req.GetStringSlice("columns", nil),
		analytics.OutlierMethod(method))
	if err != nil {
		return toolError(err)
	}
	return jsonResult(res)
}

func (s *Server) handleTimeSeries(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("dataset_name")
	if err != nil {
		return toolError(err)
	}
	dateCol, err := req.RequireString("date_column")
	if err != nil {
		return toolError(err)
	}
	valueCol, err := req.RequireString("value_column")
	if err != nil {
		return toolError(err)
	}
	res, err := s.ops.TimeSeries(ctx, name, dateCol, valueCol, req.GetString("granularity", ""))
	if err != nil {
		return toolError(err)
	}
	return jsonResult(res)
}

func (s *Server) handleQuality(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("dataset_name")
	if err != nil {
		return toolError(err)
	}
	res, err := s.ops.AssessQuality(ctx, name)
	if err != nil {
		return toolError(err)
	}
	return jsonResult(res)
}

func (s *Server) handleCompare(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	a, err := req.RequireString("dataset_a")
	if err != nil {
		return toolError(err)
	}
	b, err := req.RequireString("dataset_b")
	if err != nil {
		return toolError(err)
	}
	res, err := s.ops.Compare(ctx, a, b)
	if err != nil {
		return toolError(err)
	}
	return jsonResult(res)
}

func (s *Server) handleMerge(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	primary, err := req.RequireString("primary")
	if err != nil {
		return toolError(err)
	}
	secondary, err := req.RequireString("secondary")
	if err != nil {
		return toolError(err)
	}
	onColumn, err := req.RequireString("on_column")
	if err != nil {
		return toolError(err)
	}
	how := registry.JoinHow(req.GetString("how", string(registry.JoinInner)))
	res, err := s.reg.Merge(primary, secondary, onColumn, how, req.GetString("new_name", ""))
	if err != nil {
		return toolError(err)
	}
	return jsonResult(res)
}

func (s *Server) handleImportance(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("dataset_name")
	if err != nil {
		return toolError(err)
	}
	target, err := req.RequireString("target")
	if err != nil {
		return toolError(err)
	}
	res, err := s.ops.FeatureImportance(ctx, name, target, req.GetStringSlice("candidates", nil))
	if err != nil {
		return toolError(err)
	}
	return jsonResult(res)
}

func (s *Server) handleMemory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.reg.Memory())
}

func (s *Server) handleExportInsights(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("dataset_name")
	if err != nil {
		return toolError(err)
	}
	entry, err := s.reg.Get(name)
	if err != nil {
		return toolError(err)
	}
	quality, err := s.ops.AssessQuality(ctx, name)
	if err != nil {
		return toolError(err)
	}
	suggestions, err := s.suggest.Suggest(name)
	if err != nil {
		return toolError(err)
	}
	report := map[string]any{
		"dataset":     name,
		"rows":        len(entry.Dataset.Rows),
		"schema":      entry.Schema,
		"quality":     quality,
		"suggestions": suggestions,
	}
	path, err := export.WriteInsights(s.cfg.ExportDir, name+"_insights", report, req.GetString("format", "json"))
	if err != nil {
		return toolError(err)
	}
	return jsonResult(map[string]any{"dataset": name, "path": path})
}

func (s *Server) handleCreateChart(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("dataset_name")
	if err != nil {
		return toolError(err)
	}
	chartType, err := req.RequireString("chart_type")
	if err != nil {
		return toolError(err)
	}
	xColumn, err := req.RequireString("x_column")
	if err != nil {
		return toolError(err)
	}
	entry, err := s.reg.Get(name)
	if err != nil {
		return toolError(err)
	}
	path, err := export.RenderChart(s.cfg.ExportDir, entry.Dataset, export.ChartSpec{
		Type:    chartType,
		XColumn: xColumn,
		YColumn: req.GetString("y_column", ""),
		Title:   req.GetString("title", ""),
	})
	if err != nil {
		return toolError(err)
	}
	return jsonResult(map[string]any{"dataset": name, "chart": chartType, "path": path})
}

func (s *Server) handleRunScript(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("dataset_name")
	if err != nil {
		return toolError(err)
	}
	script, err := req.RequireString("script")
	if err != nil {
		return toolError(err)
	}
	entry, err := s.reg.Get(name)
	if err != nil {
		return toolError(err)
	}
	res, err := s.runner.Run(ctx, entry.Dataset, script)
	if err != nil {
		return toolError(fmt.Errorf("run script: %w", err))
	}
	return jsonResult(res)
}
