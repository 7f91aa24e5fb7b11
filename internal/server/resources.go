package server

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/KaramelBytes/dataloom/internal/dataset"
)

// sampleRowLimit caps the rows exposed through the sample resource.
const sampleRowLimit = 25

func (s *Server) registerResources() {
	s.mcp.AddResource(mcp.NewResource(
		"config://server",
		"Server configuration",
		mcp.WithResourceDescription("Active configuration: named thresholds and server identity."),
		mcp.WithMIMEType("application/json"),
	), s.readServerConfig)

	s.mcp.AddResource(mcp.NewResource(
		"datasets://loaded",
		"Loaded datasets",
		mcp.WithResourceDescription("Summary of every dataset currently in the registry."),
		mcp.WithMIMEType("application/json"),
	), s.readLoadedDatasets)

	s.mcp.AddResourceTemplate(mcp.NewResourceTemplate(
		"datasets://{name}/schema",
		"Dataset schema",
		mcp.WithTemplateDescription("Inferred schema of one dataset: column roles, statistics and confidence."),
		mcp.WithTemplateMIMEType("application/json"),
	), s.readDatasetSchema)

	s.mcp.AddResourceTemplate(mcp.NewResourceTemplate(
		"datasets://{name}/summary",
		"Dataset summary",
		mcp.WithTemplateDescription("Row count, columns by role and memory estimate for one dataset."),
		mcp.WithTemplateMIMEType("application/json"),
	), s.readDatasetSummary)

	s.mcp.AddResourceTemplate(mcp.NewResourceTemplate(
		"datasets://{name}/sample",
		"Dataset sample",
		mcp.WithTemplateDescription("Up to 25 leading rows of one dataset as native values."),
		mcp.WithTemplateMIMEType("application/json"),
	), s.readDatasetSample)
}

func (s *Server) readServerConfig(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonContents(req.Params.URI, map[string]any{
		"server_name": s.cfg.ServerName,
		"version":     s.version,
		"thresholds": map[string]any{
			"identifier_uniqueness":    s.cfg.IdentifierUniqueness,
			"categorical_max_ratio":    s.cfg.CategoricalMaxRatio,
			"categorical_max_distinct": s.cfg.CategoricalMaxDistinct,
			"iqr_multiplier":           s.cfg.Analytics.IQRMultiplier,
			"zscore_threshold":         s.cfg.Analytics.ZScoreThreshold,
			"min_correlation_rows":     s.cfg.Analytics.MinCorrelationRows,
			"correlation_threshold":    s.cfg.Analytics.CorrelationThreshold,
			"max_segments":             s.cfg.Analytics.MaxSegments,
			"segment_cardinality_cap":  s.cfg.Analytics.SegmentCardinality,
			"min_time_points":          s.cfg.Analytics.MinTimePoints,
		},
		"sandbox": map[string]any{
			"command":     s.cfg.SandboxCommand,
			"timeout_sec": s.cfg.SandboxTimeoutSec,
		},
	})
}

func (s *Server) readLoadedDatasets(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonContents(req.Params.URI, s.reg.List())
}

func (s *Server) readDatasetSchema(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	name, err := datasetFromURI(req.Params.URI, "/schema")
	if err != nil {
		return nil, err
	}
	entry, err := s.reg.Get(name)
	if err != nil {
		return nil, err
	}
	return jsonContents(req.Params.URI, entry.Schema)
}

func (s *Server) readDatasetSummary(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	name, err := datasetFromURI(req.Params.URI, "/summary")
	if err != nil {
		return nil, err
	}
	entry, err := s.reg.Get(name)
	if err != nil {
		return nil, err
	}
	byRole := make(map[string][]string)
	for _, c := range entry.Schema.Columns {
		byRole[string(c.Role)] = append(byRole[string(c.Role)], c.Name)
	}
	return jsonContents(req.Params.URI, map[string]any{
		"name":            name,
		"rows":            len(entry.Dataset.Rows),
		"columns":         entry.Dataset.Columns,
		"columns_by_role": byRole,
		"format":          entry.Dataset.Format,
		"loaded_at":       entry.Dataset.LoadedAt,
		"estimated_bytes": entry.Dataset.EstimateBytes(),
		"low_confidence":  entry.Schema.LowConfidence,
	})
}

func (s *Server) readDatasetSample(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	name, err := datasetFromURI(req.Params.URI, "/sample")
	if err != nil {
		return nil, err
	}
	entry, err := s.reg.Get(name)
	if err != nil {
		return nil, err
	}
	return jsonContents(req.Params.URI, map[string]any{
		"name":  name,
		"rows":  entry.Dataset.Sample(sampleRowLimit),
		"total": len(entry.Dataset.Rows),
	})
}

// datasetFromURI extracts the dataset name from datasets://{name}<suffix>.
func datasetFromURI(uri, suffix string) (string, error) {
	rest, ok := strings.CutPrefix(uri, "datasets://")
	if !ok {
		return "", &dataset.NotFoundError{Name: uri}
	}
	name, ok := strings.CutSuffix(rest, suffix)
	if !ok || name == "" {
		return "", &dataset.NotFoundError{Name: rest}
	}
	return name, nil
}

func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(b),
		},
	}, nil
}
