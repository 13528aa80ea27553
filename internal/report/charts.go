package report

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"jmeter-dashboard/internal/aggregate"
)

const CombinedFile = "performance_dashboard.png"

// Metric is one trend chart: a value plotted per group across runs.
type Metric struct {
	Name   string
	Title  string
	YLabel string
	Max    float64
	Value  func(row *aggregate.GroupSummary) float64
}

var Metrics = []Metric{
	{
		Name:   "avg_rt",
		Title:  "Average Response Time",
		YLabel: "ms",
		Value:  func(row *aggregate.GroupSummary) float64 { return row.AvgElapsed },
	},
	{
		Name:   "success",
		Title:  "Success Rate",
		YLabel: "%",
		Max:    105,
		Value:  func(row *aggregate.GroupSummary) float64 { return row.SuccessRate },
	},
	{
		Name:   "throughput",
		Title:  "Throughput",
		YLabel: "req/s",
		Value:  func(row *aggregate.GroupSummary) float64 { return row.Throughput },
	},
}

// FileName is the chart file for this metric, e.g. "avg_rt_trend.png" or
// "get_avg_rt_trend.png" for the "get" variant.
func (m *Metric) FileName(variant string) string {
	name := m.Name + "_trend.png"
	if variant == "" {
		return name
	}
	return variant + "_" + name
}

// Variant selects the groups charted together. The unnamed variant holds
// every group.
type Variant struct {
	Name    string
	Title   string
	Pattern *regexp.Regexp
}

type Chart struct {
	Metric string
	Title  string
	File   string
}

// ChartSet is the charts rendered for one variant. File names are relative
// to the output directory.
type ChartSet struct {
	Name     string
	Title    string
	Charts   []Chart
	Combined string
}

type ChartOptions struct {
	Width    vg.Length
	Height   vg.Length
	Combined bool
}

// runAxis maps each run onto an x position in chronological order. Rows
// must already be sorted.
type runAxis struct {
	index map[string]int
	ticks []plot.Tick
}

func newRunAxis(rows []aggregate.GroupSummary) runAxis {
	axis := runAxis{index: make(map[string]int)}
	for i := range rows {
		if _, ok := axis.index[rows[i].File]; ok {
			continue
		}
		pos := len(axis.ticks)
		axis.index[rows[i].File] = pos
		axis.ticks = append(axis.ticks, plot.Tick{Value: float64(pos), Label: rows[i].RunLabel})
	}
	return axis
}

func trendPlot(rows []aggregate.GroupSummary, m *Metric, title string) (*plot.Plot, error) {
	axis := newRunAxis(rows)

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Run"
	p.Y.Label.Text = m.YLabel
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	for i, group := range aggregate.Groups(rows) {
		var xys plotter.XYs
		for j := range rows {
			if rows[j].Group != group {
				continue
			}
			xys = append(xys, plotter.XY{X: float64(axis.index[rows[j].File]), Y: m.Value(&rows[j])})
		}

		line, points, err := plotter.NewLinePoints(xys)
		if err != nil {
			return nil, fmt.Errorf("failed to build %s series for %s: %w", m.Name, group, err)
		}
		color := plotutil.Color(i)
		line.Color = color
		points.Color = color
		points.Shape = plotutil.Shape(i)

		p.Add(line, points)
		p.Legend.Add(string(group), line, points)
	}

	p.X.Min = -0.5
	p.X.Max = float64(len(axis.ticks)) - 0.5
	p.X.Tick.Marker = plot.ConstantTicks(axis.ticks)
	if len(axis.ticks) > 4 {
		p.X.Tick.Label.Rotation = math.Pi / 6
		p.X.Tick.Label.XAlign = draw.XRight
		p.X.Tick.Label.YAlign = draw.YCenter
	}

	p.Y.Min = 0
	if m.Max > 0 {
		p.Y.Max = m.Max
	}

	return p, nil
}

// renderCharts writes one PNG per metric for the given rows, plus the
// stacked three-panel image when enabled.
func renderCharts(dir string, rows []aggregate.GroupSummary, v Variant, opts ChartOptions) (ChartSet, error) {
	set := ChartSet{Name: v.Name, Title: v.Title}
	plots := make([]*plot.Plot, 0, len(Metrics))

	for i := range Metrics {
		m := &Metrics[i]
		title := m.Title
		if v.Title != "" {
			title = v.Title + " " + title
		}

		p, err := trendPlot(rows, m, title)
		if err != nil {
			return set, err
		}

		file := m.FileName(v.Name)
		if err = p.Save(opts.Width, opts.Height, filepath.Join(dir, file)); err != nil {
			return set, fmt.Errorf("failed to save chart %s: %w", file, err)
		}

		plots = append(plots, p)
		set.Charts = append(set.Charts, Chart{Metric: m.Name, Title: title, File: file})
	}

	if opts.Combined {
		file := CombinedFile
		if v.Name != "" {
			file = v.Name + "_" + CombinedFile
		}
		if err := saveStacked(plots, opts.Width, opts.Height*vg.Length(len(plots))*2/3, filepath.Join(dir, file)); err != nil {
			return set, fmt.Errorf("failed to save chart %s: %w", file, err)
		}
		set.Combined = file
	}

	return set, nil
}

func saveStacked(plots []*plot.Plot, width, height vg.Length, path string) error {
	grid := make([][]*plot.Plot, len(plots))
	for i, p := range plots {
		grid[i] = []*plot.Plot{p}
	}

	img := vgimg.New(width, height)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows:      len(plots),
		Cols:      1,
		PadTop:    vg.Millimeter * 2,
		PadBottom: vg.Millimeter * 2,
		PadLeft:   vg.Millimeter * 2,
		PadRight:  vg.Millimeter * 2,
		PadY:      vg.Millimeter * 6,
	}

	canvases := plot.Align(grid, tiles, dc)
	for i := range grid {
		grid[i][0].Draw(canvases[i][0])
	}

	f, err := os.Create(path) //nolint:gosec // path is inside the configured output directory
	if err != nil {
		return err
	}

	if _, err = (vgimg.PngCanvas{Canvas: img}).WriteTo(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
