package report

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"jmeter-dashboard/internal/aggregate"
	"jmeter-dashboard/internal/loader"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func sampleRows() []aggregate.GroupSummary {
	day := func(d int) time.Time { return time.Date(2025, 7, d, 0, 0, 0, 0, time.UTC) }
	return []aggregate.GroupSummary{
		{File: "20250722-a.csv", Group: "Get_1", RunLabel: "2025-07-22 00:00", RunTime: day(22), Count: 3, AvgElapsed: 200, SuccessRate: 100, Throughput: 1.5},
		{File: "20250722-a.csv", Group: "Post_1", RunLabel: "2025-07-22 00:00", RunTime: day(22), Count: 2, AvgElapsed: 80, SuccessRate: 50, Throughput: 2},
		{File: "20250725-b.csv", Group: "Get_1", RunLabel: "2025-07-25 00:00", RunTime: day(25), Count: 2, AvgElapsed: 50, SuccessRate: 50, Throughput: 2.666667},
	}
}

func testWriter(dir string, xlsx bool, variants ...Variant) *Writer {
	return NewWriter(Options{
		OutputDir:    dir,
		WidthInches:  6,
		HeightInches: 3,
		Combined:     true,
		Variants:     variants,
		XLSX:         xlsx,
		Log:          quietLogger(),
	})
}

func TestComputeStats(t *testing.T) {
	s := ComputeStats(sampleRows())

	assert.Equal(t, 2, s.Runs)
	assert.Equal(t, 3, s.Rows)
	assert.InDelta(t, 110.0, s.MeanAvgElapsed, 1e-9)
	assert.InDelta(t, 200.0/3, s.MeanSuccessRate, 1e-9)
	assert.InDelta(t, (1.5+2+2.666667)/3, s.MeanThroughput, 1e-9)
}

func TestComputeStatsEmpty(t *testing.T) {
	assert.Equal(t, Stats{}, ComputeStats(nil))
}

func TestFailures(t *testing.T) {
	files := []loader.ResultFile{
		{Name: "ok.csv", Status: loader.StatusParsed},
		{Name: "bad.csv", Status: loader.StatusFailed, Err: errors.New("missing required column: elapsed")},
	}

	failed := Failures(files)
	require.Len(t, failed, 1)
	assert.Equal(t, "bad.csv", failed[0].File)
	assert.Contains(t, failed[0].Reason, "elapsed")
}

func TestMetricFileName(t *testing.T) {
	assert.Equal(t, "avg_rt_trend.png", Metrics[0].FileName(""))
	assert.Equal(t, "get_success_trend.png", Metrics[1].FileName("get"))
	assert.Equal(t, "throughput_trend.png", Metrics[2].FileName(""))
}

func TestRunAxisFollowsRowOrder(t *testing.T) {
	axis := newRunAxis(sampleRows())

	require.Len(t, axis.ticks, 2)
	assert.Equal(t, "2025-07-22 00:00", axis.ticks[0].Label)
	assert.Equal(t, "2025-07-25 00:00", axis.ticks[1].Label)
	assert.Equal(t, 1, axis.index["20250725-b.csv"])
}

func TestRenderHTML(t *testing.T) {
	d := NewDashboard(sampleRows(), []loader.ResultFile{
		{Name: "broken.csv", Status: loader.StatusFailed, Err: errors.New("malformed <file>")},
	}, time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC))

	out, err := RenderHTML(d)
	require.NoError(t, err)
	html := string(out)

	assert.Contains(t, html, "<title>JMeter Performance Dashboard</title>")
	assert.Contains(t, html, "200.00")
	assert.Contains(t, html, "2.67")
	assert.Contains(t, html, "110.00 ms")
	assert.Contains(t, html, "broken.csv")
	assert.Contains(t, html, "malformed &lt;file&gt;")
	assert.NotContains(t, html, "No test results found")
}

func TestRenderHTMLEmpty(t *testing.T) {
	d := NewDashboard(nil, nil, time.Now())

	out, err := RenderHTML(d)
	require.NoError(t, err)
	assert.Contains(t, string(out), "No test results found")
	assert.NotContains(t, string(out), "<table>")
}

func TestWriterWritesArtifacts(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	d := NewDashboard(sampleRows(), nil, time.Now())

	written, err := testWriter(dir, false).Write(d)
	require.NoError(t, err)

	for _, name := range []string{"avg_rt_trend.png", "success_trend.png", "throughput_trend.png", CombinedFile, HTMLFile} {
		path := filepath.Join(dir, name)
		assert.Contains(t, written, path)
		info, statErr := os.Stat(path)
		require.NoError(t, statErr, name)
		assert.Positive(t, info.Size(), name)
	}
	assert.NoFileExists(t, filepath.Join(dir, XLSXFile))

	html, err := os.ReadFile(filepath.Join(dir, HTMLFile))
	require.NoError(t, err)
	assert.Contains(t, string(html), `src="avg_rt_trend.png"`)
	assert.Contains(t, string(html), `src="`+CombinedFile+`"`)
}

func TestWriterSubsets(t *testing.T) {
	dir := t.TempDir()
	d := NewDashboard(sampleRows(), nil, time.Now())

	written, err := testWriter(dir, false,
		Variant{Name: "get", Title: "GET", Pattern: regexp.MustCompile(`^Get_`)},
		Variant{Name: "delete", Title: "DELETE", Pattern: regexp.MustCompile(`^Delete_`)},
	).Write(d)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dir, "get_avg_rt_trend.png"))
	assert.FileExists(t, filepath.Join(dir, "get_"+CombinedFile))
	assert.NoFileExists(t, filepath.Join(dir, "delete_avg_rt_trend.png"))
	for _, path := range written {
		assert.False(t, strings.HasPrefix(filepath.Base(path), "delete_"))
	}
	require.Len(t, d.Charts, 2)
	assert.Equal(t, "get", d.Charts[1].Name)
}

func TestWriterEmptyRows(t *testing.T) {
	dir := t.TempDir()
	d := NewDashboard(nil, nil, time.Now())

	written, err := testWriter(dir, false).Write(d)
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Join(dir, HTMLFile)}, written)
	assert.NoFileExists(t, filepath.Join(dir, "avg_rt_trend.png"))
	assert.NoFileExists(t, filepath.Join(dir, CombinedFile))
}

func TestWriterXLSX(t *testing.T) {
	dir := t.TempDir()
	d := NewDashboard(sampleRows(), []loader.ResultFile{
		{Name: "bad.csv", Status: loader.StatusFailed, Err: loader.ErrMissingColumn},
	}, time.Now())

	_, err := testWriter(dir, true).Write(d)
	require.NoError(t, err)

	f, err := excelize.OpenFile(filepath.Join(dir, XLSXFile))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(resultsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "File", rows[0][0])
	assert.Equal(t, "20250722-a.csv", rows[1][0])
	assert.Equal(t, "Get_1", rows[1][2])

	failed, err := f.GetRows(failedSheet)
	require.NoError(t, err)
	require.Len(t, failed, 2)
	assert.Equal(t, "bad.csv", failed[1][0])
}

func TestWriterOutputDirError(t *testing.T) {
	file := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))

	_, err := testWriter(filepath.Join(file, "out"), false).Write(NewDashboard(nil, nil, time.Now()))
	require.Error(t, err)
}
