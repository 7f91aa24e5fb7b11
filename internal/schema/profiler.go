package schema

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/KaramelBytes/dataloom/internal/dataset"
)

// Options holds the named inference thresholds. They are fixed configuration:
// the profiler never varies them by dataset size.
type Options struct {
	// IdentifierUniqueness is the minimum distinct/non-null ratio for the
	// identifier rule to fire on a conventionally named column.
	IdentifierUniqueness float64
	// CategoricalMaxRatio is the maximum distinct/non-null ratio for the
	// categorical rule.
	CategoricalMaxRatio float64
	// CategoricalMaxDistinct is the absolute distinct-value cap for the
	// categorical rule.
	CategoricalMaxDistinct int
	// TopValues limits how many category frequencies a profile records.
	TopValues int
	// SampleValues limits how many example values a profile records.
	SampleValues int
}

// DefaultOptions returns the stated default thresholds.
func DefaultOptions() Options {
	return Options{
		IdentifierUniqueness:   0.95,
		CategoricalMaxRatio:    0.5,
		CategoricalMaxDistinct: 50,
		TopValues:              10,
		SampleValues:           3,
	}
}

// Profiler classifies one column's raw values into a Role with statistics.
// Classification is rule-ordered and deterministic: the first matching rule
// wins, never a majority vote.
type Profiler struct {
	opt Options
}

func NewProfiler(opt Options) *Profiler {
	if opt.IdentifierUniqueness <= 0 {
		opt = DefaultOptions()
	}
	return &Profiler{opt: opt}
}

// acceptedTimeLayouts are the formats the temporal rule recognizes. Order
// matters only for parse speed; a value matching any layout counts.
var acceptedTimeLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006/01/02",
	"01/02/2006",
}

// Profile examines the ordered raw values of one column and returns its
// role and statistics. Empty and all-null columns yield RoleUnknown with
// null statistics.
func (p *Profiler) Profile(name string, values []dataset.Value) *ColumnProfile {
	prof := &ColumnProfile{Name: name, Role: RoleUnknown, Rows: len(values)}

	distinct := make(map[string]int)
	var nonNull []dataset.Value
	for _, v := range values {
		if v.IsNull() {
			prof.Nulls++
			continue
		}
		nonNull = append(nonNull, v)
		distinct[v.Key()]++
		if len(prof.Samples) < p.opt.SampleValues {
			prof.Samples = append(prof.Samples, v.Native())
		}
	}
	prof.NonNull = len(nonNull)
	prof.Distinct = len(distinct)
	if prof.NonNull == 0 {
		return prof
	}
	uniqueness := float64(prof.Distinct) / float64(prof.NonNull)

	// Rule 1: conventional identifier name plus near-unique values.
	if identifierName(name) && uniqueness >= p.opt.IdentifierUniqueness {
		prof.Role = RoleIdentifier
		prof.Uniqueness = uniqueness
		return prof
	}

	// Rule 2: every non-null value is a date or timestamp.
	if times, ok := parseAllTimes(nonNull); ok {
		prof.Role = RoleTemporal
		prof.Temporal = temporalStats(times)
		return prof
	}

	// Rule 3: every non-null value is a number, numeric text included.
	if nums, ok := parseAllNumbers(nonNull); ok {
		prof.Role = RoleNumerical
		prof.Numeric = numericStats(nums)
		return prof
	}

	boolish := allBooleanLike(nonNull)

	// Rule 4: low cardinality relative to row count. Boolean-literal columns
	// are left for rule 5 so the boolean tag stays reachable.
	if !boolish && uniqueness < p.opt.CategoricalMaxRatio && prof.Distinct <= p.opt.CategoricalMaxDistinct {
		prof.Role = RoleCategorical
		prof.TopValues = topValues(distinct, p.opt.TopValues)
		return prof
	}

	// Rule 5: exactly {true,false}-like values.
	if boolish {
		prof.Role = RoleBoolean
		prof.TopValues = topValues(distinct, p.opt.TopValues)
		return prof
	}

	// Rule 6: free-form strings.
	prof.Role = RoleText
	return prof
}

// ParseNumber exposes the profiler's numeric parsing rule so analytic
// operations extract values under exactly the classification the role was
// assigned with.
func ParseNumber(v dataset.Value) (float64, bool) { return parseNumberValue(v) }

// ParseTime exposes the profiler's temporal parsing rule, see ParseNumber.
func ParseTime(v dataset.Value) (time.Time, bool) { return parseTimeValue(v) }

// identifierName reports whether a column name follows an identifier naming
// convention such as "id", "order_id" or "uuid". Case-insensitive.
func identifierName(name string) bool {
	l := strings.ToLower(strings.TrimSpace(name))
	switch {
	case l == "id" || l == "uuid" || l == "guid" || l == "key":
		return true
	case strings.HasSuffix(l, "_id") || strings.HasSuffix(l, "_uuid") || strings.HasSuffix(l, "_key"):
		return true
	case strings.HasPrefix(l, "id_"):
		return true
	case strings.HasSuffix(l, "id") && len(l) > 2 && !strings.HasSuffix(l, "aid") && !strings.HasSuffix(l, "oid") && !strings.HasSuffix(l, "lid"):
		// orderid, customerid; avoid words like "paid", "android", "valid"
		return true
	}
	return false
}

// parseTimeValue parses a single value as a timestamp under the accepted
// layouts. Typed time values pass through.
func parseTimeValue(v dataset.Value) (time.Time, bool) {
	switch v.Kind {
	case dataset.KindTime:
		return v.Time, true
	case dataset.KindText:
		s := strings.TrimSpace(v.Str)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range acceptedTimeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

func parseAllTimes(values []dataset.Value) ([]time.Time, bool) {
	out := make([]time.Time, 0, len(values))
	for _, v := range values {
		t, ok := parseTimeValue(v)
		if !ok {
			return nil, false
		}
		out = append(out, t)
	}
	return out, true
}

// parseNumberValue parses a single value as a float. Numeric-looking text
// (optionally with thousands separators) counts; booleans and times do not.
func parseNumberValue(v dataset.Value) (float64, bool) {
	switch v.Kind {
	case dataset.KindNumber:
		return v.Num, true
	case dataset.KindText:
		s := strings.TrimSpace(v.Str)
		if s == "" {
			return 0, false
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f, true
		}
		// "1,234.5" style thousands separators
		if strings.Contains(s, ",") {
			if f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

func parseAllNumbers(values []dataset.Value) ([]float64, bool) {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		f, ok := parseNumberValue(v)
		if !ok {
			return nil, false
		}
		out = append(out, f)
	}
	return out, true
}

func allBooleanLike(values []dataset.Value) bool {
	for _, v := range values {
		switch v.Kind {
		case dataset.KindBool:
			continue
		case dataset.KindText:
			switch strings.ToLower(strings.TrimSpace(v.Str)) {
			case "true", "false":
				continue
			}
			return false
		default:
			return false
		}
	}
	return true
}

func topValues(counts map[string]int, limit int) []CategoryCount {
	out := make([]CategoryCount, 0, len(counts))
	for v, c := range counts {
		out = append(out, CategoryCount{Value: v, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Value < out[j].Value
		}
		return out[i].Count > out[j].Count
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func numericStats(nums []float64) *NumericStats {
	s := &NumericStats{Min: math.Inf(1), Max: math.Inf(-1)}
	var mean, m2 float64
	for i, x := range nums {
		if x < s.Min {
			s.Min = x
		}
		if x > s.Max {
			s.Max = x
		}
		delta := x - mean
		mean += delta / float64(i+1)
		m2 += delta * (x - mean)
	}
	s.Mean = mean
	if len(nums) > 1 {
		s.Std = math.Sqrt(m2 / float64(len(nums)-1))
	}
	sorted := append([]float64(nil), nums...)
	sort.Float64s(sorted)
	s.Q25 = Quantile(sorted, 0.25)
	s.Median = Quantile(sorted, 0.5)
	s.Q75 = Quantile(sorted, 0.75)
	return s
}

// Quantile computes the q-quantile of sorted values by linear interpolation
// between order statistics. Exposed because the analytics layer shares the
// same definition for IQR fences.
func Quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 {
		return sorted[0]
	}
	pos := q * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

func temporalStats(times []time.Time) *TemporalStats {
	ts := &TemporalStats{Min: times[0], Max: times[0]}
	sorted := append([]time.Time(nil), times...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })
	ts.Min = sorted[0]
	ts.Max = sorted[len(sorted)-1]
	ts.Granularity = inferGranularity(sorted)
	return ts
}

// inferGranularity looks at the median positive gap between consecutive
// distinct timestamps.
func inferGranularity(sorted []time.Time) string {
	var gaps []float64
	for i := 1; i < len(sorted); i++ {
		d := sorted[i].Sub(sorted[i-1])
		if d > 0 {
			gaps = append(gaps, d.Hours()/24)
		}
	}
	if len(gaps) == 0 {
		return "day"
	}
	sort.Float64s(gaps)
	median := Quantile(gaps, 0.5)
	switch {
	case median <= 2:
		return "day"
	case median <= 10:
		return "week"
	default:
		return "month"
	}
}
