package summary

import (
	"time"

	"jmeter-dashboard/internal/aggregate"
	"jmeter-dashboard/internal/report"
)

type Results struct {
	Meta      ResultMeta               `json:"meta"`
	Summary   RunSummary               `json:"summary"`
	Groups    []aggregate.GroupSummary `json:"groups"`
	Failed    []report.FileFailure     `json:"failed,omitempty"`
	Artifacts []string                 `json:"artifacts"`
}

type ResultMeta struct {
	RunID     string       `json:"run_id"`
	Timestamp time.Time    `json:"timestamp"`
	Config    ResultConfig `json:"config"`
}

type ResultConfig struct {
	InputDir      string `json:"input_dir"`
	OutputDir     string `json:"output_dir"`
	GroupColumn   string `json:"group_column"`
	GroupPattern  string `json:"group_pattern"`
	LabelFormat   string `json:"label_format"`
	LabelFallback string `json:"label_fallback"`
}

type RunSummary struct {
	TotalFiles      int     `json:"total_files"`
	ParsedFiles     int     `json:"parsed_files"`
	FailedFiles     int     `json:"failed_files"`
	SkippedRows     int     `json:"skipped_rows"`
	ExcludedSamples int     `json:"excluded_samples"`
	Runs            int     `json:"runs"`
	Rows            int     `json:"rows"`
	MeanAvgElapsed  float64 `json:"mean_avg_rt_ms"`
	MeanSuccessRate float64 `json:"mean_success_pct"`
	MeanThroughput  float64 `json:"mean_throughput"`
	DurationMs      int64   `json:"duration_ms"`
}
