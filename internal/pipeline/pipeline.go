package pipeline

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"jmeter-dashboard/internal/aggregate"
	"jmeter-dashboard/internal/config"
	"jmeter-dashboard/internal/influx"
	"jmeter-dashboard/internal/loader"
	"jmeter-dashboard/internal/report"
	"jmeter-dashboard/internal/summary"
)

// Outcome is everything one run produced. On a fatal output error the
// fields filled so far are still set.
type Outcome struct {
	RunID          string
	Files          []loader.ResultFile
	Aggregate      *aggregate.Result
	Dashboard      *report.Dashboard
	Results        *summary.Results
	Artifacts      []string
	MetricsWritten int
}

// Run loads every result file in the input directory, aggregates it and
// writes the dashboard artifacts. Per-file problems are recorded on the
// outcome; only configuration, cancellation and output errors are returned.
func Run(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (*Outcome, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}

	writer := summary.NewWriter(cfg)
	out := &Outcome{RunID: writer.RunID()}
	log = log.WithField("run_id", out.RunID)

	labeler := aggregate.NewLabeler(cfg.LabelFormat, aggregate.Fallback(cfg.LabelFallback))

	var supplementary []aggregate.GroupSummary
	if cfg.Supplementary != "" {
		rows, err := aggregate.LoadSupplementary(cfg.Supplementary, labeler)
		if err != nil {
			return out, err
		}
		log.WithField("rows", len(rows)).Info("Loaded supplementary rows")
		supplementary = rows
	}

	files, err := loader.Load(ctx, cfg.InputDir, loader.Options{
		Extensions: cfg.Extensions,
		Columns: loader.Columns{
			Elapsed:   cfg.Columns.Elapsed,
			Success:   cfg.Columns.Success,
			Timestamp: cfg.Columns.Timestamp,
			Thread:    cfg.GroupColumn,
		},
		Log: log,
	})
	out.Files = files
	if err != nil {
		return out, fmt.Errorf("failed to load results: %w", err)
	}

	agg, err := aggregate.Aggregate(files, aggregate.Options{
		Extractor:     aggregate.NewExtractor(cfg.GroupRegexp),
		Labeler:       labeler,
		Supplementary: supplementary,
		Log:           log,
	})
	if err != nil {
		return out, err
	}
	out.Aggregate = agg
	out.Files = agg.Files

	dashboard := report.NewDashboard(agg.Rows, agg.Files, writer.StartTime())
	out.Dashboard = dashboard

	variants := make([]report.Variant, 0, len(cfg.Subsets))
	for _, s := range cfg.Subsets {
		variants = append(variants, report.Variant{Name: s.Name, Title: s.Title, Pattern: s.Regexp})
	}

	artifacts, err := report.NewWriter(report.Options{
		OutputDir:    cfg.OutputDir,
		WidthInches:  cfg.Charts.WidthInches,
		HeightInches: cfg.Charts.HeightInches,
		Combined:     cfg.Charts.CombinedEnabled(),
		Variants:     variants,
		XLSX:         cfg.Export.XLSX,
		Log:          log,
	}).Write(dashboard)
	out.Artifacts = artifacts
	if err != nil {
		return out, err
	}

	if cfg.Sink.Enabled {
		n, path, sinkErr := writeMetrics(cfg, agg.Rows, out.RunID)
		if sinkErr != nil {
			return out, sinkErr
		}
		out.MetricsWritten = n
		out.Artifacts = append(out.Artifacts, path)
		log.WithField("points", n).Debug("Wrote metrics file")
	}

	out.Artifacts = append(out.Artifacts, filepath.Join(cfg.OutputDir, summary.ResultsFile))
	out.Results = writer.Build(agg.Files, agg, dashboard.Stats, out.Artifacts)
	if _, err = writer.Export(out.Results); err != nil {
		return out, err
	}

	return out, nil
}

func writeMetrics(cfg *config.Config, rows []aggregate.GroupSummary, runID string) (int, string, error) {
	precision, err := influx.ParsePrecision(cfg.Sink.Precision)
	if err != nil {
		return 0, "", err
	}

	path := cfg.Sink.File
	if !filepath.IsAbs(path) {
		path = filepath.Join(cfg.OutputDir, path)
	}

	n, err := influx.WriteFile(path, influx.Points(influx.Records(rows, runID)), precision)
	if err != nil {
		return n, path, err
	}
	return n, path, nil
}
