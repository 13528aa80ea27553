package aggregate

import (
	"cmp"
	"maps"
	"regexp"
	"slices"

	"github.com/montanaflynn/stats"

	"jmeter-dashboard/internal/loader"
)

// Extractor derives a GroupKey from a thread or label string.
type Extractor struct {
	re *regexp.Regexp
}

func NewExtractor(re *regexp.Regexp) *Extractor {
	return &Extractor{re: re}
}

// Key returns the first non-empty capture group of the pattern, or the whole
// match when the pattern has none. Strings that do not match have no key.
func (e *Extractor) Key(thread string) (GroupKey, bool) {
	m := e.re.FindStringSubmatch(thread)
	if m == nil {
		return "", false
	}
	for _, sub := range m[1:] {
		if sub != "" {
			return GroupKey(sub), true
		}
	}
	if m[0] == "" {
		return "", false
	}
	return GroupKey(m[0]), true
}

type groupAcc struct {
	elapsed   []float64
	successes int
	minTS     int64
	maxTS     int64
}

// Summarize computes one GroupSummary per group found in the file, ordered by
// group key. It also reports how many samples had no group.
// The run label fields are left for the caller to fill in.
func Summarize(file *loader.ResultFile, ex *Extractor) (rows []GroupSummary, excluded int) {
	groups := make(map[GroupKey]*groupAcc)

	for i := range file.Samples {
		s := &file.Samples[i]
		key, ok := ex.Key(s.Thread)
		if !ok {
			excluded++
			continue
		}

		acc, exists := groups[key]
		if !exists {
			acc = &groupAcc{minTS: s.Timestamp, maxTS: s.Timestamp}
			groups[key] = acc
		}
		acc.elapsed = append(acc.elapsed, s.Elapsed)
		if s.Success {
			acc.successes++
		}
		acc.minTS = min(acc.minTS, s.Timestamp)
		acc.maxTS = max(acc.maxTS, s.Timestamp)
	}

	keys := slices.SortedFunc(maps.Keys(groups), func(a, b GroupKey) int {
		return cmp.Compare(a, b)
	})

	rows = make([]GroupSummary, 0, len(keys))
	for _, key := range keys {
		acc := groups[key]
		count := len(acc.elapsed)
		if count == 0 {
			continue
		}

		avg, err := stats.Mean(acc.elapsed)
		if err != nil {
			continue
		}

		rows = append(rows, GroupSummary{
			File:        file.Name,
			Group:       key,
			Count:       count,
			AvgElapsed:  avg,
			SuccessRate: float64(acc.successes) / float64(count) * 100,
			Throughput:  Throughput(count, acc.minTS, acc.maxTS),
		})
	}

	return rows, excluded
}

// Throughput is samples per second over the span between the first and last
// timestamp (milliseconds). With fewer than two samples or no span there is
// nothing to measure and the result is 0.
func Throughput(count int, minTS, maxTS int64) float64 {
	if count < 2 {
		return 0
	}
	span := float64(maxTS-minTS) / 1000
	if span <= 0 {
		return 0
	}
	return float64(count) / span
}

// Subset keeps the rows whose group key matches re.
func Subset(rows []GroupSummary, re *regexp.Regexp) []GroupSummary {
	out := make([]GroupSummary, 0, len(rows))
	for _, row := range rows {
		if re.MatchString(string(row.Group)) {
			out = append(out, row)
		}
	}
	return out
}

// Groups lists the distinct group keys of rows in sorted order.
func Groups(rows []GroupSummary) []GroupKey {
	set := make(map[GroupKey]struct{}, len(rows))
	for _, row := range rows {
		set[row.Group] = struct{}{}
	}
	return slices.Sorted(maps.Keys(set))
}

// SortRows orders rows chronologically by run time, then file, then group.
func SortRows(rows []GroupSummary) {
	slices.SortStableFunc(rows, func(a, b GroupSummary) int {
		if c := a.RunTime.Compare(b.RunTime); c != 0 {
			return c
		}
		if c := cmp.Compare(a.File, b.File); c != 0 {
			return c
		}
		return cmp.Compare(a.Group, b.Group)
	})
}
