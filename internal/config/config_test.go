package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jmeter-dashboard/internal/cli"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dashboard.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultInputDir, cfg.InputDir)
	assert.Equal(t, DefaultInputDir, cfg.OutputDir)
	assert.Equal(t, DefaultExtensions, cfg.Extensions)
	assert.Equal(t, DefaultGroupColumn, cfg.GroupColumn)
	assert.Equal(t, DefaultGroupPattern, cfg.GroupPattern)
	assert.Equal(t, DefaultLabelFormat, cfg.LabelFormat)
	assert.Equal(t, "now", cfg.LabelFallback)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "timeStamp", cfg.Columns.Timestamp)
	assert.InDelta(t, DefaultChartWidth, cfg.Charts.WidthInches, 1e-9)
	assert.True(t, cfg.Charts.CombinedEnabled())
	assert.Equal(t, DefaultSinkFile, cfg.Sink.File)
	assert.Equal(t, "ms", cfg.Sink.Precision)
	require.NotNil(t, cfg.GroupRegexp)
	assert.True(t, cfg.GroupRegexp.MatchString("Thread Group Get_1 1-1"))
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
input_dir: ./results
output_dir: ./site
extensions: [jtl]
group_column: label
group_pattern: '^(TG\d+)_'
label_format: "Jan 2 15:04"
label_fallback: mtime
subsets:
  - name: Get
    pattern: '^Get_'
charts:
  combined: false
export:
  xlsx: true
sink:
  enabled: true
  precision: s
`)

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "results", cfg.InputDir)
	assert.Equal(t, "site", cfg.OutputDir)
	assert.Equal(t, []string{".jtl"}, cfg.Extensions)
	assert.Equal(t, "label", cfg.GroupColumn)
	assert.Equal(t, "mtime", cfg.LabelFallback)
	require.Len(t, cfg.Subsets, 1)
	assert.Equal(t, "get", cfg.Subsets[0].Name)
	assert.Equal(t, "GET", cfg.Subsets[0].Title)
	require.NotNil(t, cfg.Subsets[0].Regexp)
	assert.False(t, cfg.Charts.CombinedEnabled())
	assert.True(t, cfg.Export.XLSX)
	assert.True(t, cfg.Sink.Enabled)
	assert.Equal(t, "s", cfg.Sink.Precision)
}

func TestLoadPrecedence(t *testing.T) {
	path := writeConfig(t, "input_dir: from-file\noutput_dir: out-file\nlabel_format: \"2006-01-02\"\n")
	t.Setenv("DASHBOARD_INPUT_DIR", "from-env")
	t.Setenv("DASHBOARD_LABEL_FORMAT", "02.01.2006")
	t.Setenv("DASHBOARD_EXPORT_XLSX", "true")

	cfg, err := Load(path, &Overrides{LabelFormat: "2006/01/02 15:04"})
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.InputDir, "env beats file")
	assert.Equal(t, "out-file", cfg.OutputDir)
	assert.Equal(t, "2006/01/02 15:04", cfg.LabelFormat, "flags beat env")
	assert.True(t, cfg.Export.XLSX)
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := Load("", &Overrides{
		InputDir:      "in",
		LabelFallback: "FAIL",
		Subsets:       []SubsetConfig{{Name: "post", Pattern: "^Post_"}},
		Sink:          true,
		Verbose:       true,
	})
	require.NoError(t, err)

	assert.Equal(t, "in", cfg.InputDir)
	assert.Equal(t, "in", cfg.OutputDir)
	assert.Equal(t, "fail", cfg.LabelFallback)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.Sink.Enabled)
	require.Len(t, cfg.Subsets, 1)
	assert.True(t, cfg.Subsets[0].Regexp.MatchString("Post_3"))
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name      string
		overrides *Overrides
		env       map[string]string
		content   string
	}{
		{name: "bad pattern", overrides: &Overrides{GroupPattern: "(Get_"}},
		{name: "bad fallback", overrides: &Overrides{LabelFallback: "yesterday"}},
		{name: "layout without date", overrides: &Overrides{LabelFormat: "run"}},
		{name: "bad subset name", overrides: &Overrides{Subsets: []SubsetConfig{{Name: "Get All", Pattern: "^Get"}}}},
		{name: "duplicate subset", overrides: &Overrides{Subsets: []SubsetConfig{{Name: "get", Pattern: "a"}, {Name: "get", Pattern: "b"}}}},
		{name: "bad subset pattern", overrides: &Overrides{Subsets: []SubsetConfig{{Name: "get", Pattern: "[Get"}}}},
		{name: "bad env bool", env: map[string]string{"DASHBOARD_SINK_ENABLED": "sometimes"}},
		{name: "bad precision", content: "sink:\n  precision: minutes\n"},
		{name: "negative width", content: "charts:\n  width_in: -2\n"},
		{name: "bad log level", content: "log_level: loud\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.content != "" {
				path = writeConfig(t, tt.content)
			}

			_, err := Load(path, tt.overrides)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig), "%v", err)
		})
	}
}

func TestLoadFileErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "dashboard.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o600))
	_, err = Load(path, nil)
	require.Error(t, err)

	_, err = Load(writeConfig(t, "input_dir: [unclosed"), nil)
	require.Error(t, err)
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("DASHBOARD_TEST_LOAD_ENV=from-dotenv\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("DASHBOARD_TEST_LOAD_ENV") })

	n, err := LoadEnv([]string{envFile, filepath.Join(dir, "missing.env")})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "from-dotenv", os.Getenv("DASHBOARD_TEST_LOAD_ENV"))

	n, err = LoadEnv([]string{filepath.Join(dir, "none.env")})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestParseSubset(t *testing.T) {
	s, err := ParseSubset("get:^Get_")
	require.NoError(t, err)
	assert.Equal(t, SubsetConfig{Name: "get", Pattern: "^Get_"}, s)

	s, err = ParseSubset("post")
	require.NoError(t, err)
	assert.Equal(t, "post", s.Name)
	assert.Equal(t, "(?i)^post_", s.Pattern)

	s, err = ParseSubset("mixed:(Get|Put)_\\d+:x")
	require.NoError(t, err)
	assert.Equal(t, "(Get|Put)_\\d+:x", s.Pattern)

	for _, bad := range []string{"", ":^Get", "get:"} {
		_, err = ParseSubset(bad)
		assert.Error(t, err, bad)
	}
}

func TestPrint(t *testing.T) {
	var buf bytes.Buffer
	prev := cli.Out
	cli.Out = &buf
	t.Cleanup(func() { cli.Out = prev })

	cfg, err := Load("", &Overrides{Subsets: []SubsetConfig{{Name: "get", Pattern: "^Get_"}}})
	require.NoError(t, err)
	cfg.Print()

	out := buf.String()
	assert.Contains(t, out, "Configuration")
	assert.Contains(t, out, DefaultInputDir)
	assert.Contains(t, out, "get=^Get_")
}

func TestLoadExampleConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "dashboard.example.yaml"), nil)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("compare_results", "dashboard"), cfg.OutputDir)
	require.Len(t, cfg.Subsets, 2)
	assert.True(t, cfg.Subsets[1].Regexp.MatchString("Put_2"))
	assert.False(t, cfg.Subsets[1].Regexp.MatchString("Get_2"))
}
