package cli

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger builds the diagnostic logger handed to the pipeline. It writes
// to stderr so it never interleaves with the tables on stdout.
func NewLogger(level string) (*logrus.Logger, error) {
	return newLogger(os.Stderr, level)
}

func newLogger(w io.Writer, level string) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	log := logrus.New()
	log.SetOutput(w)
	log.SetLevel(lvl)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "2006-01-02 15:04:05.000"})
	return log, nil
}
