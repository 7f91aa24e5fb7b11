// Package analytics implements the operation library: every operation
// resolves its dataset through the registry, validates requested columns
// against the inferred schema, executes with cooperative cancellation and
// returns a typed result carrying enough metadata to verify independently.
package analytics

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/KaramelBytes/dataloom/internal/dataset"
	"github.com/KaramelBytes/dataloom/internal/registry"
	"github.com/KaramelBytes/dataloom/internal/schema"
)

// Config holds the named analytic thresholds with their stated defaults.
// Like the inference thresholds, they never vary by dataset size.
type Config struct {
	IQRMultiplier        float64 `mapstructure:"iqr_multiplier" yaml:"iqr_multiplier"`
	ZScoreThreshold      float64 `mapstructure:"zscore_threshold" yaml:"zscore_threshold"`
	MinCorrelationRows   int     `mapstructure:"min_correlation_rows" yaml:"min_correlation_rows"`
	CorrelationThreshold float64 `mapstructure:"correlation_threshold" yaml:"correlation_threshold"`
	MaxSegments          int     `mapstructure:"max_segments" yaml:"max_segments"`
	SegmentCardinality   int     `mapstructure:"segment_cardinality_cap" yaml:"segment_cardinality_cap"`
	MinTimePoints        int     `mapstructure:"min_time_points" yaml:"min_time_points"`
	BatchRows            int     `mapstructure:"batch_rows" yaml:"batch_rows"`
}

// DefaultConfig returns the stated defaults.
func DefaultConfig() Config {
	return Config{
		IQRMultiplier:        1.5,
		ZScoreThreshold:      3.0,
		MinCorrelationRows:   3,
		CorrelationThreshold: 0.3,
		MaxSegments:          10,
		SegmentCardinality:   100,
		MinTimePoints:        3,
		BatchRows:            1024,
	}
}

// Operations is the analytics entry point. It holds the registry by
// reference and a fixed config; it has no state of its own, so it is safe
// for concurrent use.
type Operations struct {
	reg *registry.Registry
	cfg Config
}

func NewOperations(reg *registry.Registry, cfg Config) *Operations {
	if cfg.BatchRows <= 0 {
		cfg = DefaultConfig()
	}
	return &Operations{reg: reg, cfg: cfg}
}

// Registry exposes the backing registry for read-only collaborators
// (reporting, export, sandbox boundaries).
func (o *Operations) Registry() *registry.Registry { return o.reg }

// Meta is the common metadata block embedded in every operation result.
type Meta struct {
	ID        string    `json:"id"`
	Dataset   string    `json:"dataset"`
	Analysis  string    `json:"analysis"`
	Method    string    `json:"method,omitempty"`
	Columns   []string  `json:"columns,omitempty"`
	RowsUsed  int       `json:"rows_used"`
	Timestamp time.Time `json:"timestamp"`
}

func newMeta(ds, analysis, method string, columns []string, rowsUsed int) Meta {
	return Meta{
		ID:        uuid.NewString(),
		Dataset:   ds,
		Analysis:  analysis,
		Method:    method,
		Columns:   columns,
		RowsUsed:  rowsUsed,
		Timestamp: time.Now().UTC(),
	}
}

// requireRole validates that column exists and carries one of the wanted
// roles. An absent column is a not-found condition, not a role mismatch.
func requireRole(e *registry.Entry, column string, want ...schema.Role) error {
	prof := e.Schema.Column(column)
	if prof == nil {
		return &dataset.ColumnNotFoundError{Dataset: e.Dataset.Name, Column: column}
	}
	for _, r := range want {
		if prof.Role == r {
			return nil
		}
	}
	return &InvalidColumnRoleError{Dataset: e.Dataset.Name, Column: column, Actual: prof.Role, Expected: want}
}

// resolveNumericColumns returns the validated numerical column list: the
// caller's subset when given, otherwise every numerical column in schema
// order. An empty outcome is an InvalidColumnRoleError naming numerical.
func resolveNumericColumns(e *registry.Entry, requested []string) ([]string, error) {
	if len(requested) == 0 {
		cols := e.Schema.ColumnsByRole(schema.RoleNumerical)
		if len(cols) == 0 {
			return nil, &InvalidColumnRoleError{Dataset: e.Dataset.Name, Expected: []schema.Role{schema.RoleNumerical}}
		}
		return cols, nil
	}
	for _, c := range requested {
		if err := requireRole(e, c, schema.RoleNumerical); err != nil {
			return nil, err
		}
	}
	return requested, nil
}

// checkCancel returns the context error at row-batch boundaries so long
// scans stay cancellable. Partial results are discarded by the caller
// returning the error.
func (o *Operations) checkCancel(ctx context.Context, row int) error {
	if row%o.cfg.BatchRows == 0 {
		return ctx.Err()
	}
	return nil
}
