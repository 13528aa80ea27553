package influx

import (
	"time"

	"github.com/InfluxCommunity/influxdb3-go/influxdb3"

	"jmeter-dashboard/internal/aggregate"
)

const (
	MetricResponseTime = "jmeter_response_time"
	MetricSuccessRate  = "jmeter_success_rate"
	MetricThroughput   = "jmeter_throughput"

	TagThreadGroup = "thread_group"
	TagTestFile    = "test_file"
	TagRunID       = "run_id"

	valueField = "value"
)

// MetricRecord is one time-series data point derived from a summary row.
type MetricRecord struct {
	Metric    string            `json:"metric"`
	Value     float64           `json:"value"`
	Timestamp time.Time         `json:"timestamp"`
	Tags      map[string]string `json:"tags"`
}

// Records flattens summary rows into three records each, stamped with the
// run time of the row.
func Records(rows []aggregate.GroupSummary, runID string) []MetricRecord {
	records := make([]MetricRecord, 0, len(rows)*3)
	for i := range rows {
		row := &rows[i]
		values := []struct {
			metric string
			value  float64
		}{
			{MetricResponseTime, row.AvgElapsed},
			{MetricSuccessRate, row.SuccessRate},
			{MetricThroughput, row.Throughput},
		}

		for _, v := range values {
			tags := map[string]string{
				TagThreadGroup: string(row.Group),
				TagTestFile:    row.File,
			}
			if runID != "" {
				tags[TagRunID] = runID
			}
			records = append(records, MetricRecord{
				Metric:    v.metric,
				Value:     v.value,
				Timestamp: row.RunTime,
				Tags:      tags,
			})
		}
	}
	return records
}

func Points(records []MetricRecord) []*influxdb3.Point {
	points := make([]*influxdb3.Point, 0, len(records))
	for i := range records {
		r := &records[i]
		points = append(points, influxdb3.NewPoint(
			r.Metric,
			r.Tags,
			map[string]any{valueField: r.Value},
			r.Timestamp,
		))
	}
	return points
}
