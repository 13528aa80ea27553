package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.yaml.in/yaml/v4"
)

const (
	DefaultConfigFile    = "dashboard.yaml"
	DefaultInputDir      = "compare_results"
	DefaultGroupColumn   = "threadName"
	DefaultGroupPattern  = `(Get_\d+|Post_\d+|Put_\d+|Delete_\d+|Patch_\d+)`
	DefaultLabelFormat   = "2006-01-02 15:04"
	DefaultLabelFallback = "now"
	DefaultLogLevel      = "info"

	DefaultElapsedColumn   = "elapsed"
	DefaultSuccessColumn   = "success"
	DefaultTimestampColumn = "timeStamp"

	DefaultChartWidth  = 12.0
	DefaultChartHeight = 6.0

	DefaultSinkFile      = "metrics.lp"
	DefaultSinkPrecision = "ms"
)

var DefaultExtensions = []string{".csv", ".jtl"}

var ErrInvalidConfig = errors.New("invalid configuration")

var subsetNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// Load reads the YAML file (when filename is non-empty), layers environment
// variables and overrides on top, then applies defaults and validates.
func Load(filename string, overrides *Overrides) (*Config, error) {
	var cfg Config

	if filename != "" {
		data, err := os.ReadFile(filename) //nolint:gosec // config file path is controlled
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		ext := strings.ToLower(filepath.Ext(filename))
		if ext != ".yaml" && ext != ".yml" {
			return nil, fmt.Errorf("unsupported config file format: %s", ext)
		}

		if err = yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	overrides.apply(&cfg)

	if err := applyDefaults(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if err := compile(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return &cfg, nil
}

func (o *Overrides) apply(cfg *Config) {
	if o == nil {
		return
	}
	if v := strings.TrimSpace(o.InputDir); v != "" {
		cfg.InputDir = v
	}
	if v := strings.TrimSpace(o.OutputDir); v != "" {
		cfg.OutputDir = v
	}
	if v := strings.TrimSpace(o.GroupPattern); v != "" {
		cfg.GroupPattern = v
	}
	if v := strings.TrimSpace(o.LabelFormat); v != "" {
		cfg.LabelFormat = v
	}
	if v := strings.TrimSpace(o.LabelFallback); v != "" {
		cfg.LabelFallback = v
	}
	if len(o.Subsets) > 0 {
		cfg.Subsets = append(cfg.Subsets, o.Subsets...)
	}
	if o.XLSX {
		cfg.Export.XLSX = true
	}
	if o.Sink {
		cfg.Sink.Enabled = true
	}
	if o.Verbose {
		cfg.LogLevel = "debug"
	}
}

func applyDefaults(cfg *Config) error {
	if cfg == nil {
		return errors.New("configuration is nil")
	}

	if strings.TrimSpace(cfg.InputDir) == "" {
		cfg.InputDir = DefaultInputDir
	}
	cfg.InputDir = filepath.Clean(cfg.InputDir)

	// charts and the dashboard sit next to the results unless told otherwise
	if strings.TrimSpace(cfg.OutputDir) == "" {
		cfg.OutputDir = cfg.InputDir
	}
	cfg.OutputDir = filepath.Clean(cfg.OutputDir)

	if len(cfg.Extensions) == 0 {
		cfg.Extensions = append([]string(nil), DefaultExtensions...)
	}
	for i, ext := range cfg.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		cfg.Extensions[i] = ext
	}

	if strings.TrimSpace(cfg.GroupColumn) == "" {
		cfg.GroupColumn = DefaultGroupColumn
	}
	if strings.TrimSpace(cfg.GroupPattern) == "" {
		cfg.GroupPattern = DefaultGroupPattern
	}
	if strings.TrimSpace(cfg.LabelFormat) == "" {
		cfg.LabelFormat = DefaultLabelFormat
	}

	cfg.LabelFallback = strings.ToLower(strings.TrimSpace(cfg.LabelFallback))
	if cfg.LabelFallback == "" {
		cfg.LabelFallback = DefaultLabelFallback
	}

	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}

	if strings.TrimSpace(cfg.Columns.Elapsed) == "" {
		cfg.Columns.Elapsed = DefaultElapsedColumn
	}
	if strings.TrimSpace(cfg.Columns.Success) == "" {
		cfg.Columns.Success = DefaultSuccessColumn
	}
	if strings.TrimSpace(cfg.Columns.Timestamp) == "" {
		cfg.Columns.Timestamp = DefaultTimestampColumn
	}

	if cfg.Charts.WidthInches == 0 {
		cfg.Charts.WidthInches = DefaultChartWidth
	}
	if cfg.Charts.HeightInches == 0 {
		cfg.Charts.HeightInches = DefaultChartHeight
	}

	if strings.TrimSpace(cfg.Sink.File) == "" {
		cfg.Sink.File = DefaultSinkFile
	}
	cfg.Sink.Precision = strings.ToLower(strings.TrimSpace(cfg.Sink.Precision))
	if cfg.Sink.Precision == "" {
		cfg.Sink.Precision = DefaultSinkPrecision
	}

	seen := make(map[string]struct{}, len(cfg.Subsets))
	for i := range cfg.Subsets {
		subset := &cfg.Subsets[i]
		subset.Name = strings.ToLower(strings.TrimSpace(subset.Name))
		if !subsetNamePattern.MatchString(subset.Name) {
			return fmt.Errorf("subset[%d]: name %q must be lowercase letters, digits, '-' or '_'", i, subset.Name)
		}
		if _, dup := seen[subset.Name]; dup {
			return fmt.Errorf("subset[%d]: duplicate name %q", i, subset.Name)
		}
		seen[subset.Name] = struct{}{}
		if strings.TrimSpace(subset.Title) == "" {
			subset.Title = strings.ToUpper(subset.Name)
		}
	}

	return nil
}

func validate(cfg *Config) error {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	err := v.Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		field := strings.TrimPrefix(fe.Namespace(), "Config.")
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s must satisfy %s=%s (got %v)", field, fe.Tag(), fe.Param(), fe.Value()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s must satisfy %s", field, fe.Tag()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}

func compile(cfg *Config) error {
	re, err := regexp.Compile(cfg.GroupPattern)
	if err != nil {
		return fmt.Errorf("group_pattern: %w", err)
	}
	cfg.GroupRegexp = re

	for i := range cfg.Subsets {
		subset := &cfg.Subsets[i]
		subset.Regexp, err = regexp.Compile(subset.Pattern)
		if err != nil {
			return fmt.Errorf("subset %q pattern: %w", subset.Name, err)
		}
	}

	if err = checkLayout(cfg.LabelFormat); err != nil {
		return fmt.Errorf("label_format: %w", err)
	}

	return nil
}

// checkLayout rejects layouts with no date or time element at all, which
// would give every run the same label.
func checkLayout(layout string) error {
	a := time.Date(2001, 2, 3, 4, 5, 6, 0, time.UTC)
	b := time.Date(2011, 12, 13, 14, 15, 16, 0, time.UTC)
	if a.Format(layout) == b.Format(layout) {
		return fmt.Errorf("layout %q has no date or time elements", layout)
	}
	return nil
}
