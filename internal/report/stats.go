package report

import (
	"time"

	"github.com/montanaflynn/stats"

	"jmeter-dashboard/internal/aggregate"
	"jmeter-dashboard/internal/loader"
)

// Stats are the headline figures of a dashboard. Means are taken over
// rows, so every group of every run weighs the same.
type Stats struct {
	Runs            int     `json:"runs"`
	Rows            int     `json:"rows"`
	MeanAvgElapsed  float64 `json:"mean_avg_rt_ms"`
	MeanSuccessRate float64 `json:"mean_success_pct"`
	MeanThroughput  float64 `json:"mean_throughput"`
}

// FileFailure names a result file left out of the report and why.
type FileFailure struct {
	File   string `json:"file"`
	Reason string `json:"reason"`
}

type Dashboard struct {
	Title       string
	Stats       Stats
	Rows        []aggregate.GroupSummary
	Charts      []ChartSet
	Failed      []FileFailure
	GeneratedAt time.Time
}

const DefaultTitle = "JMeter Performance Dashboard"

func ComputeStats(rows []aggregate.GroupSummary) Stats {
	s := Stats{Rows: len(rows)}
	if len(rows) == 0 {
		return s
	}

	files := make(map[string]struct{}, len(rows))
	elapsed := make([]float64, 0, len(rows))
	success := make([]float64, 0, len(rows))
	throughput := make([]float64, 0, len(rows))
	for _, row := range rows {
		files[row.File] = struct{}{}
		elapsed = append(elapsed, row.AvgElapsed)
		success = append(success, row.SuccessRate)
		throughput = append(throughput, row.Throughput)
	}

	s.Runs = len(files)
	s.MeanAvgElapsed = mean(elapsed)
	s.MeanSuccessRate = mean(success)
	s.MeanThroughput = mean(throughput)
	return s
}

func mean(values []float64) float64 {
	m, err := stats.Mean(values)
	if err != nil {
		return 0
	}
	return m
}

// Failures lists the files that did not make it into the report.
func Failures(files []loader.ResultFile) []FileFailure {
	var out []FileFailure
	for i := range files {
		if !files[i].Failed() {
			continue
		}
		reason := "unknown error"
		if files[i].Err != nil {
			reason = files[i].Err.Error()
		}
		out = append(out, FileFailure{File: files[i].Name, Reason: reason})
	}
	return out
}

func NewDashboard(rows []aggregate.GroupSummary, files []loader.ResultFile, generatedAt time.Time) *Dashboard {
	return &Dashboard{
		Title:       DefaultTitle,
		Stats:       ComputeStats(rows),
		Rows:        rows,
		Failed:      Failures(files),
		GeneratedAt: generatedAt,
	}
}
