package config

import "regexp"

type Config struct {
	InputDir      string         `yaml:"input_dir" validate:"required"`
	OutputDir     string         `yaml:"output_dir" validate:"required"`
	Extensions    []string       `yaml:"extensions" validate:"min=1,dive,startswith=."`
	GroupColumn   string         `yaml:"group_column" validate:"required"`
	GroupPattern  string         `yaml:"group_pattern" validate:"required"`
	LabelFormat   string         `yaml:"label_format" validate:"required"`
	LabelFallback string         `yaml:"label_fallback" validate:"oneof=now mtime fail"`
	Columns       ColumnsConfig  `yaml:"columns"`
	Subsets       []SubsetConfig `yaml:"subsets,omitempty" validate:"dive"`
	Supplementary string         `yaml:"supplementary,omitempty"`
	Charts        ChartsConfig   `yaml:"charts"`
	Export        ExportConfig   `yaml:"export"`
	Sink          SinkConfig     `yaml:"sink"`
	LogLevel      string         `yaml:"log_level" validate:"oneof=trace debug info warn warning error"`

	GroupRegexp *regexp.Regexp `yaml:"-"`
}

// ColumnsConfig names the CSV header columns a result file must carry,
// besides the group column.
type ColumnsConfig struct {
	Elapsed   string `yaml:"elapsed" validate:"required"`
	Success   string `yaml:"success" validate:"required"`
	Timestamp string `yaml:"timestamp" validate:"required"`
}

// SubsetConfig describes a filtered chart variant, e.g. {name: get, pattern: "^Get_"}.
type SubsetConfig struct {
	Name    string `yaml:"name" validate:"required"`
	Title   string `yaml:"title,omitempty"`
	Pattern string `yaml:"pattern" validate:"required"`

	Regexp *regexp.Regexp `yaml:"-"`
}

type ChartsConfig struct {
	WidthInches  float64 `yaml:"width_in" validate:"gt=0"`
	HeightInches float64 `yaml:"height_in" validate:"gt=0"`
	Combined     *bool   `yaml:"combined,omitempty"`
}

type ExportConfig struct {
	XLSX bool `yaml:"xlsx"`
}

// SinkConfig controls the time-series metric export. Metrics are written as
// line protocol into the output directory; nothing is pushed over the network.
type SinkConfig struct {
	Enabled   bool   `yaml:"enabled"`
	File      string `yaml:"file" validate:"required"`
	Precision string `yaml:"precision" validate:"oneof=ns us ms s"`
}

// Overrides are values coming from CLI flags or the interactive prompt.
// Empty strings and false booleans leave the loaded configuration untouched.
type Overrides struct {
	InputDir      string
	OutputDir     string
	GroupPattern  string
	LabelFormat   string
	LabelFallback string
	Subsets       []SubsetConfig
	XLSX          bool
	Sink          bool
	Verbose       bool
}

func (c *ChartsConfig) CombinedEnabled() bool {
	return c.Combined == nil || *c.Combined
}
