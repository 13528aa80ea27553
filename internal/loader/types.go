package loader

import (
	"errors"
	"time"
)

var (
	ErrMissingColumn = errors.New("missing required column")
	ErrUnreadable    = errors.New("unreadable result file")
	ErrMalformed     = errors.New("malformed result file")
)

// Sample is one JMeter sample row.
type Sample struct {
	Elapsed   float64 // milliseconds
	Success   bool
	Timestamp int64 // epoch milliseconds
	Thread    string
}

type FileStatus int

const (
	StatusParsed FileStatus = iota
	StatusFailed
)

func (s FileStatus) String() string {
	switch s {
	case StatusParsed:
		return "parsed"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ResultFile is the outcome of parsing one result file. A failed file keeps
// its reason in Err so callers can tell which files were dropped and why.
type ResultFile struct {
	Path        string
	Name        string
	ModTime     time.Time
	Samples     []Sample
	SkippedRows int
	Status      FileStatus
	Err         error
}

func (f *ResultFile) Failed() bool {
	return f.Status == StatusFailed
}

func (f *ResultFile) fail(err error) ResultFile {
	f.Status = StatusFailed
	f.Err = err
	f.Samples = nil
	return *f
}

// Columns maps the logical fields to CSV header names.
type Columns struct {
	Elapsed   string
	Success   string
	Timestamp string
	Thread    string
}

func DefaultColumns() Columns {
	return Columns{
		Elapsed:   "elapsed",
		Success:   "success",
		Timestamp: "timeStamp",
		Thread:    "threadName",
	}
}

func (c Columns) required() []string {
	return []string{c.Elapsed, c.Success, c.Timestamp, c.Thread}
}
