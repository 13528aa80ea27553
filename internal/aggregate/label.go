package aggregate

import (
	"fmt"
	"regexp"
	"time"
)

type Fallback string

const (
	FallbackNow     Fallback = "now"
	FallbackModTime Fallback = "mtime"
	FallbackFail    Fallback = "fail"
)

// filenameStamp matches a leading YYYYMMDD date with an optional HHMM or
// HHMMSS time, e.g. "20250727_2350-simple_test.csv" or "20250722-sample.csv".
var filenameStamp = regexp.MustCompile(`^(\d{8})(?:[_-](\d{6}|\d{4}))?(?:[-_. ]|$)`)

// RunLabel is the point in time a result file belongs to and its display text.
type RunLabel struct {
	Time   time.Time
	Text   string
	Source LabelSource
}

type Labeler struct {
	Layout   string
	Fallback Fallback
	Location *time.Location
	Now      func() time.Time
}

func NewLabeler(layout string, fallback Fallback) *Labeler {
	return &Labeler{
		Layout:   layout,
		Fallback: fallback,
		Location: time.Local,
		Now:      time.Now,
	}
}

// Label derives the run label of a result file from its name. Files without
// a leading timestamp use the configured fallback; with FallbackFail they
// produce ErrNoRunTimestamp.
func (l *Labeler) Label(name string, modTime time.Time) (RunLabel, error) {
	if t, ok := l.fromFilename(name); ok {
		return l.label(t, LabelFromFilename), nil
	}

	switch l.Fallback {
	case FallbackModTime:
		if !modTime.IsZero() {
			return l.label(modTime.In(l.location()), LabelFromModTime), nil
		}
		return l.label(l.now(), LabelFromNow), nil
	case FallbackFail:
		return RunLabel{}, fmt.Errorf("%w: %s", ErrNoRunTimestamp, name)
	default:
		return l.label(l.now(), LabelFromNow), nil
	}
}

// FromFilename reports the run time encoded in the file name, if any.
func (l *Labeler) FromFilename(name string) (time.Time, bool) {
	return l.fromFilename(name)
}

func (l *Labeler) fromFilename(name string) (time.Time, bool) {
	m := filenameStamp.FindStringSubmatch(name)
	if m == nil {
		return time.Time{}, false
	}

	value, layout := m[1], "20060102"
	switch len(m[2]) {
	case 4:
		value, layout = value+m[2], "200601021504"
	case 6:
		value, layout = value+m[2], "20060102150405"
	}

	t, err := time.ParseInLocation(layout, value, l.location())
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func (l *Labeler) label(t time.Time, source LabelSource) RunLabel {
	return RunLabel{Time: t, Text: t.Format(l.Layout), Source: source}
}

func (l *Labeler) now() time.Time {
	if l.Now == nil {
		return time.Now().In(l.location())
	}
	return l.Now().In(l.location())
}

func (l *Labeler) location() *time.Location {
	if l.Location == nil {
		return time.Local
	}
	return l.Location
}
