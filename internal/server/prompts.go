package server

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerPrompts() {
	s.mcp.AddPrompt(mcp.NewPrompt("dataset_first_look",
		mcp.WithPromptDescription("Guided first inspection of a loaded dataset."),
		mcp.WithArgument("dataset_name", mcp.ArgumentDescription("Dataset to inspect"), mcp.RequiredArgument()),
	), s.promptFirstLook)

	s.mcp.AddPrompt(mcp.NewPrompt("correlation_investigation",
		mcp.WithPromptDescription("Walk through finding and interpreting correlations in a dataset."),
		mcp.WithArgument("dataset_name", mcp.ArgumentDescription("Dataset to investigate"), mcp.RequiredArgument()),
	), s.promptCorrelation)

	s.mcp.AddPrompt(mcp.NewPrompt("segmentation_workshop",
		mcp.WithPromptDescription("Plan a segmentation analysis over categorical columns."),
		mcp.WithArgument("dataset_name", mcp.ArgumentDescription("Dataset to segment"), mcp.RequiredArgument()),
	), s.promptSegmentation)

	s.mcp.AddPrompt(mcp.NewPrompt("data_quality_assessment",
		mcp.WithPromptDescription("Structured review of dataset quality issues."),
		mcp.WithArgument("dataset_name", mcp.ArgumentDescription("Dataset to assess"), mcp.RequiredArgument()),
	), s.promptQuality)

	s.mcp.AddPrompt(mcp.NewPrompt("find_datasources",
		mcp.WithPromptDescription("List loadable data files in a directory."),
		mcp.WithArgument("directory", mcp.ArgumentDescription("Directory to scan; current directory when omitted")),
	), s.promptFindDatasources)
}

func (s *Server) promptFirstLook(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	name := req.Params.Arguments["dataset_name"]
	entry, err := s.reg.Get(name)
	if err != nil {
		return nil, err
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Dataset %q is loaded with %d rows and %d columns.\n\n",
		name, len(entry.Dataset.Rows), len(entry.Dataset.Columns))
	sb.WriteString("Columns by inferred role:\n")
	for _, c := range entry.Schema.Columns {
		fmt.Fprintf(&sb, "- %s (%s, %d distinct, %.0f%% null)\n",
			c.Name, c.Role, c.Distinct, c.NullRatio()*100)
	}
	sb.WriteString("\nStart with suggest_analysis to see which operations apply, ")
	sb.WriteString("then analyze_distributions on the columns that matter most.")
	return promptResult("First look at "+name, sb.String()), nil
}

func (s *Server) promptCorrelation(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	name := req.Params.Arguments["dataset_name"]
	entry, err := s.reg.Get(name)
	if err != nil {
		return nil, err
	}
	numerical := entry.Schema.ColumnsByRole("numerical")
	var sb strings.Builder
	if len(numerical) < 2 {
		fmt.Fprintf(&sb, "Dataset %q has %d numerical columns; correlation needs at least two. ",
			name, len(numerical))
		sb.WriteString("Check the schema for columns misclassified as text, or load richer data.")
	} else {
		fmt.Fprintf(&sb, "Dataset %q has %d numerical columns: %s.\n\n",
			name, len(numerical), strings.Join(numerical, ", "))
		sb.WriteString("Run find_correlations over them, then inspect strong pairs with ")
		sb.WriteString("analyze_distributions and a scatter chart via create_chart. ")
		sb.WriteString("Correlation is not causation; treat strong pairs as leads, not conclusions.")
	}
	return promptResult("Correlation investigation for "+name, sb.String()), nil
}

func (s *Server) promptSegmentation(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	name := req.Params.Arguments["dataset_name"]
	entry, err := s.reg.Get(name)
	if err != nil {
		return nil, err
	}
	categorical := entry.Schema.ColumnsByRole("categorical")
	numerical := entry.Schema.ColumnsByRole("numerical")
	var sb strings.Builder
	fmt.Fprintf(&sb, "Dataset %q offers %d categorical grouping columns (%s) and %d numerical metrics (%s).\n\n",
		name, len(categorical), strings.Join(categorical, ", "),
		len(numerical), strings.Join(numerical, ", "))
	sb.WriteString("Pick one grouping column and run segment_by_column. Compare group means ")
	sb.WriteString("against the overall distribution from analyze_distributions to spot segments ")
	sb.WriteString("that behave differently.")
	return promptResult("Segmentation workshop for "+name, sb.String()), nil
}

func (s *Server) promptQuality(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	name := req.Params.Arguments["dataset_name"]
	if _, err := s.reg.Get(name); err != nil {
		return nil, err
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Assess the quality of dataset %q:\n\n", name)
	sb.WriteString("1. Run validate_data_quality for the overall score and issue list.\n")
	sb.WriteString("2. For columns with high missingness, check analyze_distributions to see what remains.\n")
	sb.WriteString("3. Duplicate rows usually indicate an upstream join or export problem.\n")
	sb.WriteString("4. Role violations (numeric text columns, non-unique identifiers) are fixed at the source, not here.")
	return promptResult("Quality assessment for "+name, sb.String()), nil
}

func (s *Server) promptFindDatasources(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	dir := req.Params.Arguments["directory"]
	if dir == "" {
		dir = "."
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".csv", ".tsv", ".json":
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	var sb strings.Builder
	if len(files) == 0 {
		fmt.Fprintf(&sb, "No loadable data files (.csv, .tsv, .json) found in %s.", dir)
	} else {
		fmt.Fprintf(&sb, "Loadable data files in %s:\n\n", dir)
		for _, f := range files {
			fmt.Fprintf(&sb, "- %s\n", filepath.Join(dir, f))
		}
		sb.WriteString("\nLoad one with load_dataset, giving it a short registry name.")
	}
	return promptResult("Data sources in "+dir, sb.String()), nil
}

func promptResult(description, text string) *mcp.GetPromptResult {
	return mcp.NewGetPromptResult(description, []mcp.PromptMessage{
		mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(text)),
	})
}
