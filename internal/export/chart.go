package export

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/KaramelBytes/dataloom/internal/dataset"
	"github.com/KaramelBytes/dataloom/internal/schema"
)

// ChartSpec describes one chart over a dataset slice.
type ChartSpec struct {
	Type    string // "bar", "line", "scatter", "histogram"
	XColumn string
	YColumn string
	Title   string
}

// histogramBins is fixed; charts are previews, not publication output.
const histogramBins = 20

// RenderChart renders one chart over the dataset to a self-contained HTML
// file under dir and returns the path.
func RenderChart(dir string, ds *dataset.Dataset, spec ChartSpec) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir export dir: %w", err)
	}
	if !ds.HasColumn(spec.XColumn) {
		return "", &dataset.ColumnNotFoundError{Dataset: ds.Name, Column: spec.XColumn}
	}
	if spec.YColumn != "" && !ds.HasColumn(spec.YColumn) {
		return "", &dataset.ColumnNotFoundError{Dataset: ds.Name, Column: spec.YColumn}
	}
	title := spec.Title
	if title == "" {
		title = fmt.Sprintf("%s: %s", ds.Name, spec.XColumn)
	}
	path := filepath.Join(dir, fmt.Sprintf("%s_%s_%s.html", ds.Name, spec.Type, sanitize(spec.XColumn)))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create chart file: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(spec.Type) {
	case "bar":
		return path, renderBar(f, ds, spec, title)
	case "line":
		return path, renderLine(f, ds, spec, title)
	case "scatter":
		return path, renderScatter(f, ds, spec, title)
	case "histogram":
		return path, renderHistogram(f, ds, spec, title)
	default:
		return "", fmt.Errorf("unsupported chart type %q: use bar, line, scatter or histogram", spec.Type)
	}
}

// renderBar aggregates y by x category (count when y is empty).
func renderBar(f *os.File, ds *dataset.Dataset, spec ChartSpec, title string) error {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	var order []string
	for _, row := range ds.Rows {
		x := row[spec.XColumn]
		if x.IsNull() {
			continue
		}
		key := x.Key()
		if _, ok := counts[key]; !ok {
			order = append(order, key)
		}
		counts[key]++
		if spec.YColumn != "" {
			if y, ok := schema.ParseNumber(row[spec.YColumn]); ok {
				sums[key] += y
			}
		}
	}
	sort.Strings(order)
	data := make([]opts.BarData, len(order))
	for i, k := range order {
		v := float64(counts[k])
		if spec.YColumn != "" {
			v = sums[k]
		}
		data[i] = opts.BarData{Value: v}
	}
	bar := charts.NewBar()
	bar.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: title}))
	bar.SetXAxis(order).AddSeries(seriesName(spec), data)
	return bar.Render(f)
}

func renderLine(f *os.File, ds *dataset.Dataset, spec ChartSpec, title string) error {
	type point struct {
		x string
		y float64
	}
	var pts []point
	for _, row := range ds.Rows {
		x := row[spec.XColumn]
		y, ok := schema.ParseNumber(row[spec.YColumn])
		if x.IsNull() || !ok {
			continue
		}
		pts = append(pts, point{x: x.Key(), y: y})
	}
	sort.Slice(pts, func(i, j int) bool { return pts[i].x < pts[j].x })
	xs := make([]string, len(pts))
	data := make([]opts.LineData, len(pts))
	for i, p := range pts {
		xs[i] = p.x
		data[i] = opts.LineData{Value: p.y}
	}
	line := charts.NewLine()
	line.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: title}))
	line.SetXAxis(xs).AddSeries(seriesName(spec), data)
	return line.Render(f)
}

func renderScatter(f *os.File, ds *dataset.Dataset, spec ChartSpec, title string) error {
	var data []opts.ScatterData
	for _, row := range ds.Rows {
		x, xok := schema.ParseNumber(row[spec.XColumn])
		y, yok := schema.ParseNumber(row[spec.YColumn])
		if !xok || !yok {
			continue
		}
		data = append(data, opts.ScatterData{Value: []float64{x, y}})
	}
	sc := charts.NewScatter()
	sc.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: title}))
	sc.AddSeries(seriesName(spec), data)
	return sc.Render(f)
}

func renderHistogram(f *os.File, ds *dataset.Dataset, spec ChartSpec, title string) error {
	var xs []float64
	for _, row := range ds.Rows {
		if v, ok := schema.ParseNumber(row[spec.XColumn]); ok {
			xs = append(xs, v)
		}
	}
	if len(xs) == 0 {
		return fmt.Errorf("column %q has no numeric values to bin", spec.XColumn)
	}
	sort.Float64s(xs)
	lo, hi := xs[0], xs[len(xs)-1]
	width := (hi - lo) / histogramBins
	if width == 0 {
		width = 1
	}
	counts := make([]int, histogramBins)
	for _, x := range xs {
		b := int((x - lo) / width)
		if b >= histogramBins {
			b = histogramBins - 1
		}
		counts[b]++
	}
	labels := make([]string, histogramBins)
	data := make([]opts.BarData, histogramBins)
	for i := range counts {
		labels[i] = fmt.Sprintf("%.4g", lo+width*float64(i))
		data[i] = opts.BarData{Value: counts[i]}
	}
	bar := charts.NewBar()
	bar.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: title}))
	bar.SetXAxis(labels).AddSeries(spec.XColumn, data)
	return bar.Render(f)
}

func seriesName(spec ChartSpec) string {
	if spec.YColumn != "" {
		return spec.YColumn
	}
	return "count"
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			return r
		default:
			return '_'
		}
	}, s)
}
