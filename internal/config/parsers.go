package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const envPrefix = "DASHBOARD_"

// LoadEnv loads whichever of the given dotenv files exist. Variables already
// present in the process environment win over file values.
func LoadEnv(envFiles []string) (int, error) {
	existing := make([]string, 0, len(envFiles))
	for _, file := range envFiles {
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			existing = append(existing, file)
		}
	}

	if len(existing) == 0 {
		return 0, nil
	}

	return len(existing), godotenv.Load(existing...)
}

func applyEnv(cfg *Config) error {
	if v, ok := lookup("INPUT_DIR"); ok {
		cfg.InputDir = v
	}
	if v, ok := lookup("OUTPUT_DIR"); ok {
		cfg.OutputDir = v
	}
	if v, ok := lookup("GROUP_COLUMN"); ok {
		cfg.GroupColumn = v
	}
	if v, ok := lookup("GROUP_PATTERN"); ok {
		cfg.GroupPattern = v
	}
	if v, ok := lookup("LABEL_FORMAT"); ok {
		cfg.LabelFormat = v
	}
	if v, ok := lookup("LABEL_FALLBACK"); ok {
		cfg.LabelFallback = v
	}
	if v, ok := lookup("SUPPLEMENTARY"); ok {
		cfg.Supplementary = v
	}
	if v, ok := lookup("LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	if v, ok := lookup("EXPORT_XLSX"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sEXPORT_XLSX: %w", envPrefix, err)
		}
		cfg.Export.XLSX = b
	}
	if v, ok := lookup("SINK_ENABLED"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sSINK_ENABLED: %w", envPrefix, err)
		}
		cfg.Sink.Enabled = b
	}
	return nil
}

func lookup(name string) (string, bool) {
	v, ok := os.LookupEnv(envPrefix + name)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

// ParseSubset parses the "name:regex" form used by the --subset flag.
// A bare name is shorthand for a case-insensitive prefix match, so "get"
// selects Get_1, Get_2 and so on.
func ParseSubset(value string) (SubsetConfig, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return SubsetConfig{}, errors.New("subset is empty")
	}

	name, pattern, found := strings.Cut(value, ":")
	name = strings.TrimSpace(name)
	if name == "" {
		return SubsetConfig{}, fmt.Errorf("subset %q: name is required", value)
	}
	if !found {
		pattern = "(?i)^" + regexp.QuoteMeta(name) + "_"
	}
	if strings.TrimSpace(pattern) == "" {
		return SubsetConfig{}, fmt.Errorf("subset %q: pattern is required", value)
	}

	return SubsetConfig{Name: name, Pattern: pattern}, nil
}
