package aggregate

import (
	"errors"
	"time"
)

var ErrNoRunTimestamp = errors.New("no run timestamp in filename")

// GroupKey identifies a logical test group, e.g. "Get_1".
type GroupKey string

type LabelSource string

const (
	LabelFromFilename  LabelSource = "filename"
	LabelFromModTime   LabelSource = "mtime"
	LabelFromNow       LabelSource = "now"
	LabelSupplementary LabelSource = "supplementary"
)

// GroupSummary holds the metrics of one group within one result file.
type GroupSummary struct {
	File          string      `json:"file"`
	Group         GroupKey    `json:"group"`
	RunLabel      string      `json:"label"`
	RunTime       time.Time   `json:"run_time"`
	LabelSource   LabelSource `json:"label_source"`
	Count         int         `json:"count"`
	AvgElapsed    float64     `json:"avg_rt_ms"`
	SuccessRate   float64     `json:"success_pct"`
	Throughput    float64     `json:"throughput"`
	Supplementary bool        `json:"supplementary,omitempty"`
}
