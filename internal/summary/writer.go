package summary

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"jmeter-dashboard/internal/aggregate"
	"jmeter-dashboard/internal/config"
	"jmeter-dashboard/internal/loader"
	"jmeter-dashboard/internal/report"
)

const ResultsFile = "summary.json"

type Writer struct {
	runID     string
	startTime time.Time
	config    *config.Config
	outputDir string
}

func NewWriter(cfg *config.Config) *Writer {
	return &Writer{
		runID:     NewRunID(),
		startTime: time.Now(),
		config:    cfg,
		outputDir: cfg.OutputDir,
	}
}

// NewRunID returns a time-ordered identifier for one dashboard run.
func NewRunID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func (w *Writer) RunID() string {
	return w.runID
}

func (w *Writer) StartTime() time.Time {
	return w.startTime
}

// Build collects the outcome of a run into Results without writing anything.
func (w *Writer) Build(files []loader.ResultFile, agg *aggregate.Result, stats report.Stats, artifacts []string) *Results {
	s := RunSummary{
		TotalFiles:      len(files),
		Runs:            stats.Runs,
		Rows:            stats.Rows,
		MeanAvgElapsed:  stats.MeanAvgElapsed,
		MeanSuccessRate: stats.MeanSuccessRate,
		MeanThroughput:  stats.MeanThroughput,
		DurationMs:      time.Since(w.startTime).Milliseconds(),
	}
	for i := range files {
		if files[i].Failed() {
			s.FailedFiles++
		} else {
			s.ParsedFiles++
		}
		s.SkippedRows += files[i].SkippedRows
	}

	var groups []aggregate.GroupSummary
	if agg != nil {
		groups = agg.Rows
		s.ExcludedSamples = agg.Excluded
	}
	if groups == nil {
		groups = []aggregate.GroupSummary{}
	}
	if artifacts == nil {
		artifacts = []string{}
	}

	return &Results{
		Meta:      w.meta(),
		Summary:   s,
		Groups:    groups,
		Failed:    report.Failures(files),
		Artifacts: artifacts,
	}
}

// Export writes results as summary.json into the output directory.
func (w *Writer) Export(results *Results) (string, error) {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal results: %w", err)
	}

	if err = os.MkdirAll(w.outputDir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create output dir: %w", err)
	}

	path := filepath.Join(w.outputDir, ResultsFile)
	if err = os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("failed to write results: %w", err)
	}

	return path, nil
}

func (w *Writer) meta() ResultMeta {
	return ResultMeta{
		RunID:     w.runID,
		Timestamp: w.startTime,
		Config: ResultConfig{
			InputDir:      w.config.InputDir,
			OutputDir:     w.config.OutputDir,
			GroupColumn:   w.config.GroupColumn,
			GroupPattern:  w.config.GroupPattern,
			LabelFormat:   w.config.LabelFormat,
			LabelFallback: w.config.LabelFallback,
		},
	}
}
