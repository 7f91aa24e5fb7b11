package schema

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/dataloom/internal/dataset"
)

func text(ss ...string) []dataset.Value {
	out := make([]dataset.Value, len(ss))
	for i, s := range ss {
		if s == "" {
			out[i] = dataset.Null
		} else {
			out[i] = dataset.Text(s)
		}
	}
	return out
}

func TestProfileRoles(t *testing.T) {
	p := NewProfiler(DefaultOptions())

	cases := []struct {
		name   string
		values []dataset.Value
		want   Role
	}{
		{"order_id", text("o1", "o2", "o3", "o4"), RoleIdentifier},
		{"order_date", text("2024-01-01", "2024-01-02", "2024-01-03"), RoleTemporal},
		{"order_value", text("10.5", "20", "1,234.5"), RoleNumerical},
		{"region", text("east", "west", "east", "west", "east", "west"), RoleCategorical},
		{"active", text("true", "false", "true", "TRUE"), RoleBoolean},
		{"comment", text("alpha", "beta", "gamma", "delta"), RoleText},
		{"empty", nil, RoleUnknown},
		{"all_null", text("", "", ""), RoleUnknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			prof := p.Profile(tc.name, tc.values)
			assert.Equal(t, tc.want, prof.Role)
		})
	}
}

func TestProfileIdentifierNeedsUniqueness(t *testing.T) {
	p := NewProfiler(DefaultOptions())
	// Conventional name but heavily repeated values: the identifier rule
	// must not fire.
	prof := p.Profile("customer_id", text("c1", "c1", "c1", "c2", "c2", "c2"))
	assert.NotEqual(t, RoleIdentifier, prof.Role)
	assert.Equal(t, RoleCategorical, prof.Role)
}

func TestProfileNumericWinsOverLowCardinality(t *testing.T) {
	p := NewProfiler(DefaultOptions())
	// Few distinct values, but all numeric: rule order says numerical.
	prof := p.Profile("rating", text("1", "2", "1", "2", "1", "2"))
	assert.Equal(t, RoleNumerical, prof.Role)
}

func TestProfileMixedColumnIsText(t *testing.T) {
	p := NewProfiler(DefaultOptions())
	// One unparseable value breaks the all-numbers rule; high cardinality
	// breaks categorical.
	prof := p.Profile("mixed", text("1", "2", "3", "n/a"))
	assert.Equal(t, RoleText, prof.Role)
}

func TestProfileNumericStats(t *testing.T) {
	p := NewProfiler(DefaultOptions())
	prof := p.Profile("v", text("1", "2", "3", "4", "5"))
	require.Equal(t, RoleNumerical, prof.Role)
	require.NotNil(t, prof.Numeric)

	s := prof.Numeric
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 5.0, s.Max)
	assert.InDelta(t, 3.0, s.Mean, 1e-9)
	assert.Equal(t, 3.0, s.Median)
	assert.LessOrEqual(t, s.Min, s.Mean)
	assert.LessOrEqual(t, s.Mean, s.Max)
	assert.GreaterOrEqual(t, s.Std, 0.0)
}

func TestProfileCountsNulls(t *testing.T) {
	p := NewProfiler(DefaultOptions())
	prof := p.Profile("v", text("1", "", "3", ""))
	assert.Equal(t, 4, prof.Rows)
	assert.Equal(t, 2, prof.NonNull)
	assert.Equal(t, 2, prof.Nulls)
	assert.InDelta(t, 0.5, prof.NullRatio(), 1e-9)
}

func TestProfileDeterministic(t *testing.T) {
	p := NewProfiler(DefaultOptions())
	values := text("east", "west", "north", "east", "west", "east")
	a := p.Profile("region", values)
	b := p.Profile("region", values)
	assert.Equal(t, a.Role, b.Role)
	assert.Equal(t, a.TopValues, b.TopValues)
}

func TestTopValuesOrdering(t *testing.T) {
	p := NewProfiler(DefaultOptions())
	prof := p.Profile("region", text("b", "a", "a", "c", "b", "a", "c", "b"))
	require.Equal(t, RoleCategorical, prof.Role)
	require.Len(t, prof.TopValues, 3)
	// a=3, b=3, c=2: descending count, ties broken by value.
	assert.Equal(t, "a", prof.TopValues[0].Value)
	assert.Equal(t, "b", prof.TopValues[1].Value)
	assert.Equal(t, "c", prof.TopValues[2].Value)
}

func TestIdentifierName(t *testing.T) {
	yes := []string{"id", "ID", "uuid", "key", "order_id", "user_uuid", "session_key", "id_hash", "orderid", "customerid"}
	no := []string{"paid", "android", "valid", "name", "region", "idea"}
	for _, n := range yes {
		assert.True(t, identifierName(n), n)
	}
	for _, n := range no {
		assert.False(t, identifierName(n), n)
	}
}

func TestQuantileLinearInterpolation(t *testing.T) {
	sorted := []float64{1, 2, 2, 3, 3, 3, 4, 4, 5, 100}
	assert.InDelta(t, 2.25, Quantile(sorted, 0.25), 1e-9)
	assert.InDelta(t, 3.0, Quantile(sorted, 0.5), 1e-9)
	assert.InDelta(t, 4.0, Quantile(sorted, 0.75), 1e-9)
	assert.Equal(t, 1.0, Quantile(sorted, 0))
	assert.Equal(t, 100.0, Quantile(sorted, 1))
	assert.Equal(t, 7.0, Quantile([]float64{7}, 0.5))
}

func TestParseNumberForms(t *testing.T) {
	cases := map[string]float64{
		"42":      42,
		"-3.5":    -3.5,
		"1,234.5": 1234.5,
		"1e3":     1000,
	}
	for in, want := range cases {
		got, ok := ParseNumber(dataset.Text(in))
		require.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	for _, in := range []string{"", "abc", "2024-01-01x"} {
		_, ok := ParseNumber(dataset.Text(in))
		assert.False(t, ok, fmt.Sprintf("%q should not parse", in))
	}
	_, ok := ParseNumber(dataset.Boolean(true))
	assert.False(t, ok)
}

func TestTemporalGranularity(t *testing.T) {
	p := NewProfiler(DefaultOptions())

	daily := p.Profile("d", text("2024-01-01", "2024-01-02", "2024-01-03"))
	require.Equal(t, RoleTemporal, daily.Role)
	assert.Equal(t, "day", daily.Temporal.Granularity)

	weekly := p.Profile("d", text("2024-01-01", "2024-01-08", "2024-01-15"))
	assert.Equal(t, "week", weekly.Temporal.Granularity)

	monthly := p.Profile("d", text("2024-01-01", "2024-02-01", "2024-03-01"))
	assert.Equal(t, "month", monthly.Temporal.Granularity)
}
