package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/plot/vg"

	"jmeter-dashboard/internal/aggregate"
)

type Options struct {
	OutputDir    string
	WidthInches  float64
	HeightInches float64
	Combined     bool
	Variants     []Variant
	XLSX         bool
	Log          logrus.FieldLogger
}

type Writer struct {
	opts Options
	log  logrus.FieldLogger
}

func NewWriter(opts Options) *Writer {
	log := opts.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Writer{opts: opts, log: log}
}

// Write renders the charts, the HTML dashboard and, when enabled, the
// spreadsheet into the output directory. It returns the paths written.
// Any failure aborts the run; files written before it are left in place.
func (w *Writer) Write(d *Dashboard) ([]string, error) {
	dir := w.opts.OutputDir
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}

	var written []string

	if len(d.Rows) == 0 {
		w.log.Warn("No rows to chart, dashboard will only show a notice")
	} else {
		charts, err := w.writeCharts(d.Rows)
		if err != nil {
			return written, err
		}
		d.Charts = charts
		for _, set := range charts {
			for _, c := range set.Charts {
				written = append(written, filepath.Join(dir, c.File))
			}
			if set.Combined != "" {
				written = append(written, filepath.Join(dir, set.Combined))
			}
		}
	}

	path := filepath.Join(dir, HTMLFile)
	if err := writeHTML(path, d); err != nil {
		return written, err
	}
	written = append(written, path)

	if w.opts.XLSX {
		path = filepath.Join(dir, XLSXFile)
		if err := writeXLSX(path, d); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	return written, nil
}

func (w *Writer) writeCharts(rows []aggregate.GroupSummary) ([]ChartSet, error) {
	opts := ChartOptions{
		Width:    vg.Length(w.opts.WidthInches) * vg.Inch,
		Height:   vg.Length(w.opts.HeightInches) * vg.Inch,
		Combined: w.opts.Combined,
	}

	variants := append([]Variant{{}}, w.opts.Variants...)
	sets := make([]ChartSet, 0, len(variants))

	for _, v := range variants {
		subset := rows
		if v.Pattern != nil {
			subset = aggregate.Subset(rows, v.Pattern)
		}
		if len(subset) == 0 {
			w.log.WithField("subset", v.Name).Warn("No groups match subset, skipping its charts")
			continue
		}

		set, err := renderCharts(w.opts.OutputDir, subset, v, opts)
		if err != nil {
			return nil, err
		}
		w.log.WithFields(logrus.Fields{
			"subset": v.Name,
			"charts": len(set.Charts),
		}).Debug("Rendered charts")
		sets = append(sets, set)
	}

	return sets, nil
}
