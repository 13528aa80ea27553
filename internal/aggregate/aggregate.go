package aggregate

import (
	"errors"

	"github.com/sirupsen/logrus"

	"jmeter-dashboard/internal/loader"
)

type Options struct {
	Extractor     *Extractor
	Labeler       *Labeler
	Supplementary []GroupSummary
	Log           logrus.FieldLogger
}

// Result holds the chronologically ordered rows and the input files, where a
// file whose run label could not be derived is now marked failed.
type Result struct {
	Rows     []GroupSummary
	Files    []loader.ResultFile
	Excluded int
}

func Aggregate(files []loader.ResultFile, opts Options) (*Result, error) {
	if opts.Extractor == nil || opts.Labeler == nil {
		return nil, errors.New("aggregate: extractor and labeler are required")
	}

	log := opts.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	result := &Result{
		Files: make([]loader.ResultFile, len(files)),
	}
	copy(result.Files, files)

	for i := range result.Files {
		file := &result.Files[i]
		if file.Failed() {
			continue
		}

		label, err := opts.Labeler.Label(file.Name, file.ModTime)
		if err != nil {
			log.WithField("file", file.Name).WithError(err).Warn("Skipping result file without run timestamp")
			file.Status = loader.StatusFailed
			file.Err = err
			continue
		}

		rows, excluded := Summarize(file, opts.Extractor)
		result.Excluded += excluded

		entry := log.WithFields(logrus.Fields{
			"file":   file.Name,
			"label":  label.Text,
			"source": label.Source,
			"groups": len(rows),
		})
		if excluded > 0 {
			entry = entry.WithField("excluded", excluded)
		}
		if len(rows) == 0 {
			entry.Warn("No samples matched the group pattern")
		} else {
			entry.Debug("Summarized result file")
		}

		for j := range rows {
			rows[j].RunLabel = label.Text
			rows[j].RunTime = label.Time
			rows[j].LabelSource = label.Source
		}
		result.Rows = append(result.Rows, rows...)
	}

	if len(opts.Supplementary) > 0 {
		log.WithField("rows", len(opts.Supplementary)).Debug("Merging supplementary rows")
		result.Rows = append(result.Rows, opts.Supplementary...)
	}

	SortRows(result.Rows)
	return result, nil
}
