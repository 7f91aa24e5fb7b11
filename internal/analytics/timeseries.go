package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/KaramelBytes/dataloom/internal/schema"
)

// LagCorrelation is the autocorrelation of the resampled series at one lag.
type LagCorrelation struct {
	Lag         int     `json:"lag"`
	Correlation float64 `json:"correlation"`
}

// Trend is the direction of a simple linear fit over the resampled series.
type Trend struct {
	Slope     float64 `json:"slope"`
	Direction string  `json:"direction"` // "increasing", "decreasing" or "stable"
}

// TimeSeriesResult summarizes one numerical column over one temporal column.
// InsufficientData marks a series with too few distinct time buckets for a
// trend; Trend and Autocorrelation are absent in that case rather than
// fabricated.
type TimeSeriesResult struct {
	Meta
	DateColumn       string           `json:"date_column"`
	ValueColumn      string           `json:"value_column"`
	Granularity      string           `json:"granularity"`
	Points           int              `json:"points"`
	Start            time.Time        `json:"start"`
	End              time.Time        `json:"end"`
	Trend            *Trend           `json:"trend,omitempty"`
	Autocorrelation  []LagCorrelation `json:"autocorrelation,omitempty"`
	SeasonalityHint  bool             `json:"seasonality_hint"`
	InsufficientData bool             `json:"insufficient_data"`
}

// directionEpsilon separates "stable" from a real slope.
const directionEpsilon = 0.001

// TimeSeries resamples valueColumn over dateColumn at the given granularity
// ("day", "week", "month", or "" to infer from the column's profile) and
// reports trend direction plus autocorrelation at lags 1 through 4.
func (o *Operations) TimeSeries(ctx context.Context, datasetName, dateColumn, valueColumn, granularity string) (*TimeSeriesResult, error) {
	e, err := o.reg.Get(datasetName)
	if err != nil {
		return nil, err
	}
	if err := requireRole(e, dateColumn, schema.RoleTemporal); err != nil {
		return nil, err
	}
	if err := requireRole(e, valueColumn, schema.RoleNumerical); err != nil {
		return nil, err
	}
	if granularity == "" {
		granularity = "auto"
	}
	switch granularity {
	case "auto":
		if t := e.Schema.Column(dateColumn).Temporal; t != nil {
			granularity = autoGranularity(t.Min, t.Max)
		} else {
			granularity = "day"
		}
	case "day", "week", "month":
	default:
		return nil, fmt.Errorf("unsupported granularity %q: use day, week or month", granularity)
	}

	// Bucket jointly non-null (time, value) pairs.
	type bucket struct {
		sum float64
		n   int
	}
	buckets := make(map[time.Time]*bucket)
	used := 0
	for ri, row := range e.Dataset.Rows {
		if err := o.checkCancel(ctx, ri); err != nil {
			return nil, err
		}
		t, tok := schema.ParseTime(row[dateColumn])
		v, vok := schema.ParseNumber(row[valueColumn])
		if !tok || !vok {
			continue
		}
		used++
		key := truncate(t, granularity)
		b := buckets[key]
		if b == nil {
			b = &bucket{}
			buckets[key] = b
		}
		b.sum += v
		b.n++
	}
	if used == 0 {
		return nil, &InsufficientDataError{
			Dataset: datasetName, Reason: "no jointly non-null time/value pairs",
			Required: o.cfg.MinTimePoints, Actual: 0,
		}
	}

	keys := make([]time.Time, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })
	series := make([]float64, len(keys))
	for i, k := range keys {
		series[i] = buckets[k].sum / float64(buckets[k].n)
	}

	res := &TimeSeriesResult{
		Meta:        newMeta(datasetName, "time_series", granularity, []string{dateColumn, valueColumn}, used),
		DateColumn:  dateColumn,
		ValueColumn: valueColumn,
		Granularity: granularity,
		Points:      len(series),
		Start:       keys[0],
		End:         keys[len(keys)-1],
	}
	if len(series) < o.cfg.MinTimePoints {
		res.InsufficientData = true
		return res, nil
	}

	b := slope(series)
	dir := "stable"
	if b > directionEpsilon {
		dir = "increasing"
	} else if b < -directionEpsilon {
		dir = "decreasing"
	}
	res.Trend = &Trend{Slope: round4(b), Direction: dir}

	maxLag := 4
	if half := len(series) / 2; maxLag > half {
		maxLag = half
	}
	for lag := 1; lag <= maxLag; lag++ {
		ac := autocorr(series, lag)
		res.Autocorrelation = append(res.Autocorrelation, LagCorrelation{Lag: lag, Correlation: round4(ac)})
		if lag >= 2 && ac >= 0.5 {
			res.SeasonalityHint = true
		}
	}
	return res, nil
}

func autoGranularity(min, max time.Time) string {
	span := max.Sub(min)
	switch {
	case span > 365*24*time.Hour:
		return "month"
	case span > 30*24*time.Hour:
		return "week"
	default:
		return "day"
	}
}

// truncate maps a timestamp to its bucket start in UTC.
func truncate(t time.Time, granularity string) time.Time {
	t = t.UTC()
	switch granularity {
	case "month":
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	case "week":
		// Monday-start weeks.
		wd := (int(t.Weekday()) + 6) % 7
		d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		return d.AddDate(0, 0, -wd)
	default:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}
}
