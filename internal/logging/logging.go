// Package logging builds the zerolog logger shared by the CLI and carried to
// core packages through the context.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// Level maps a -v count to a level: warn by default, info at 1, debug from 2.
func Level(verbosity int) zerolog.Level {
	switch {
	case verbosity >= 2:
		return zerolog.DebugLevel
	case verbosity == 1:
		return zerolog.InfoLevel
	default:
		return zerolog.WarnLevel
	}
}

// Options configures New.
type Options struct {
	Verbosity int
	// LogFile, when set, receives JSON lines in addition to the console.
	LogFile string
	NoColor bool
}

// New returns a logger writing human-readable lines to w and, if requested,
// JSON lines appended to a log file. The returned closer releases the file
// and is never nil.
func New(w io.Writer, opts Options) (zerolog.Logger, io.Closer, error) {
	console := zerolog.ConsoleWriter{Out: w, NoColor: opts.NoColor, TimeFormat: time.TimeOnly}
	var out io.Writer = console
	var closer io.Closer = nopCloser{}

	if opts.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(opts.LogFile), 0o755); err != nil {
			return zerolog.Nop(), closer, errors.WithStack(err)
		}
		f, err := os.OpenFile(opts.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Nop(), closer, errors.WithStack(err)
		}
		out = zerolog.MultiLevelWriter(console, f)
		closer = f
	}

	logger := zerolog.New(out).Level(Level(opts.Verbosity)).With().Timestamp().Logger()
	return logger, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
