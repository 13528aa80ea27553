package aggregate

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.yaml.in/yaml/v4"
)

var ErrInvalidSupplementary = errors.New("invalid supplementary records")

var supplementaryTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

type supplementaryFile struct {
	Records []supplementaryRecord `yaml:"records" validate:"dive"`
}

// supplementaryRecord is a historical data point that has no result file
// left on disk, e.g. a baseline measured before results were archived.
type supplementaryRecord struct {
	File       string  `yaml:"file" validate:"required"`
	Group      string  `yaml:"group" validate:"required"`
	Time       string  `yaml:"time"`
	Count      int     `yaml:"count" validate:"gte=0"`
	AvgRT      float64 `yaml:"avg_rt" validate:"gte=0"`
	Success    float64 `yaml:"success" validate:"gte=0,lte=100"`
	Throughput float64 `yaml:"throughput" validate:"gte=0"`
}

// LoadSupplementary reads historical rows from a YAML file. A record without
// an explicit time takes it from its file name.
func LoadSupplementary(path string, labeler *Labeler) ([]GroupSummary, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is taken from the configuration
	if err != nil {
		return nil, fmt.Errorf("failed to read supplementary file: %w", err)
	}
	return ParseSupplementary(data, labeler)
}

func ParseSupplementary(data []byte, labeler *Labeler) ([]GroupSummary, error) {
	var doc supplementaryFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSupplementary, err)
	}

	if err := validator.New().Struct(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSupplementary, err)
	}

	rows := make([]GroupSummary, 0, len(doc.Records))
	for i, rec := range doc.Records {
		runTime, err := rec.runTime(labeler)
		if err != nil {
			return nil, fmt.Errorf("%w: record %d (%s): %w", ErrInvalidSupplementary, i, rec.File, err)
		}

		rows = append(rows, GroupSummary{
			File:          rec.File,
			Group:         GroupKey(rec.Group),
			RunLabel:      runTime.Format(labeler.Layout),
			RunTime:       runTime,
			LabelSource:   LabelSupplementary,
			Count:         rec.Count,
			AvgElapsed:    rec.AvgRT,
			SuccessRate:   rec.Success,
			Throughput:    rec.Throughput,
			Supplementary: true,
		})
	}

	return rows, nil
}

func (r *supplementaryRecord) runTime(labeler *Labeler) (time.Time, error) {
	value := strings.TrimSpace(r.Time)
	if value == "" {
		if t, ok := labeler.FromFilename(r.File); ok {
			return t, nil
		}
		return time.Time{}, ErrNoRunTimestamp
	}

	for _, layout := range supplementaryTimeLayouts {
		if t, err := time.ParseInLocation(layout, value, labeler.location()); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", value)
}
