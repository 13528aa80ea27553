package loader

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const utf8BOM = "\ufeff"

// timestampLayouts are accepted when JMeter was configured with
// jmeter.save.saveservice.timestamp_format instead of epoch milliseconds.
var timestampLayouts = []string{
	"2006/01/02 15:04:05.000",
	"2006-01-02 15:04:05.000",
	"2006/01/02 15:04:05",
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
}

type Options struct {
	Extensions []string
	Columns    Columns
	Log        logrus.FieldLogger
}

// Discover returns the result files in dir with a matching extension,
// sorted by filename.
func Discover(dir string, extensions []string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input dir: %w", err)
	}

	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if !slices.Contains(extensions, ext) {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}

	slices.SortFunc(paths, func(a, b string) int {
		return strings.Compare(filepath.Base(a), filepath.Base(b))
	})

	return paths, nil
}

// Load parses every result file in dir. Per-file problems are recorded on the
// returned ResultFile and never abort the batch; only a failure to list the
// directory or a cancelled context is returned as an error. A directory that
// does not exist yields no files.
func Load(ctx context.Context, dir string, opts Options) ([]ResultFile, error) {
	log := opts.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	paths, err := Discover(dir, opts.Extensions)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.WithField("dir", dir).Warn("Input directory does not exist, no result files to load")
			return nil, nil
		}
		return nil, err
	}

	files := make([]ResultFile, 0, len(paths))
	for _, path := range paths {
		if err = ctx.Err(); err != nil {
			return files, err
		}

		file := ParseFile(path, opts.Columns)
		entry := log.WithField("file", file.Name)
		if file.Failed() {
			entry.WithError(file.Err).Warn("Skipping result file")
		} else {
			if file.SkippedRows > 0 {
				entry.WithField("skipped_rows", file.SkippedRows).Warn("Skipped unparseable rows")
			}
			entry.WithField("samples", len(file.Samples)).Debug("Parsed result file")
		}
		files = append(files, file)
	}

	return files, nil
}

// ParseFile reads one CSV result file. The returned file is either
// StatusParsed with its samples or StatusFailed with a reason wrapping one of
// ErrMissingColumn, ErrUnreadable or ErrMalformed.
func ParseFile(path string, cols Columns) ResultFile {
	file := ResultFile{
		Path:   path,
		Name:   filepath.Base(path),
		Status: StatusParsed,
	}

	info, err := os.Stat(path)
	if err != nil {
		return file.fail(fmt.Errorf("%w: %w", ErrUnreadable, err))
	}
	file.ModTime = info.ModTime()

	f, err := os.Open(path) //nolint:gosec // path comes from the configured input directory
	if err != nil {
		return file.fail(fmt.Errorf("%w: %w", ErrUnreadable, err))
	}
	defer func() { _ = f.Close() }()

	samples, skipped, err := readSamples(bufio.NewReader(f), cols)
	if err != nil {
		return file.fail(err)
	}

	file.Samples = samples
	file.SkippedRows = skipped
	return file
}

func readSamples(r io.Reader, cols Columns) ([]Sample, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, 0, fmt.Errorf("%w: empty file", ErrMalformed)
		}
		return nil, 0, fmt.Errorf("%w: header: %w", ErrMalformed, err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}
		index[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, name := range cols.required() {
		if _, ok := index[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, 0, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}

	elapsedIdx := index[cols.Elapsed]
	successIdx := index[cols.Success]
	timestampIdx := index[cols.Timestamp]
	threadIdx := index[cols.Thread]
	width := max(elapsedIdx, successIdx, timestampIdx, threadIdx) + 1

	var (
		samples []Sample
		skipped int
	)
	for {
		record, readErr := reader.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			return nil, 0, fmt.Errorf("%w: %w", ErrMalformed, readErr)
		}
		if len(record) < width {
			skipped++
			continue
		}

		sample, ok := parseSample(record[elapsedIdx], record[successIdx], record[timestampIdx], record[threadIdx])
		if !ok {
			skipped++
			continue
		}
		samples = append(samples, sample)
	}

	return samples, skipped, nil
}

func parseSample(elapsed, success, timestamp, thread string) (Sample, bool) {
	e, err := strconv.ParseFloat(strings.TrimSpace(elapsed), 64)
	if err != nil || !finite(e) {
		return Sample{}, false
	}
	ok, valid := parseSuccess(success)
	if !valid {
		return Sample{}, false
	}
	ts, valid := parseTimestamp(timestamp)
	if !valid {
		return Sample{}, false
	}
	return Sample{
		Elapsed:   e,
		Success:   ok,
		Timestamp: ts,
		Thread:    strings.TrimSpace(thread),
	}, true
}

func parseSuccess(value string) (success, valid bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1":
		return true, true
	case "false", "0":
		return false, true
	default:
		return false, false
	}
}

func parseTimestamp(value string) (int64, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	if ms, err := strconv.ParseInt(value, 10, 64); err == nil {
		return ms, true
	}
	if ms, err := strconv.ParseFloat(value, 64); err == nil {
		if !finite(ms) || math.Abs(ms) > math.MaxInt64 {
			return 0, false
		}
		return int64(ms), true
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t.UnixMilli(), true
		}
	}
	return 0, false
}

// finite rejects the NaN and Inf spellings strconv accepts.
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
