package influx

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/InfluxCommunity/influxdb3-go/influxdb3"
	"github.com/influxdata/line-protocol/v2/lineprotocol"
)

// ParsePrecision maps the configured precision (ns, us, ms, s) onto the
// line protocol precision.
func ParsePrecision(value string) (lineprotocol.Precision, error) {
	switch value {
	case "ns":
		return lineprotocol.Nanosecond, nil
	case "us":
		return lineprotocol.Microsecond, nil
	case "ms", "":
		return lineprotocol.Millisecond, nil
	case "s":
		return lineprotocol.Second, nil
	default:
		return lineprotocol.Nanosecond, fmt.Errorf("unknown precision %q", value)
	}
}

// WriteLineProtocol encodes points one per line.
func WriteLineProtocol(w io.Writer, points []*influxdb3.Point, precision lineprotocol.Precision) (int, error) {
	written := 0
	for i, p := range points {
		line, err := p.MarshalBinary(precision)
		if err != nil {
			return written, fmt.Errorf("failed to encode point %d: %w", i, err)
		}
		if len(line) == 0 || line[len(line)-1] != '\n' {
			line = append(line, '\n')
		}
		if _, err = w.Write(line); err != nil {
			return written, fmt.Errorf("failed to write point: %w", err)
		}
		written++
	}
	return written, nil
}

// WriteFile writes the points to path as line protocol, ready for
// `influx write` or a Telegraf file input.
func WriteFile(path string, points []*influxdb3.Point, precision lineprotocol.Precision) (n int, err error) {
	f, err := os.Create(path) //nolint:gosec // path is inside the configured output directory
	if err != nil {
		return 0, fmt.Errorf("failed to create metrics file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); err == nil && closeErr != nil {
			err = fmt.Errorf("failed to close metrics file: %w", closeErr)
		}
	}()

	buf := bufio.NewWriter(f)
	if n, err = WriteLineProtocol(buf, points, precision); err != nil {
		return n, err
	}
	if err = buf.Flush(); err != nil {
		return n, fmt.Errorf("failed to write metrics file: %w", err)
	}
	return n, nil
}
