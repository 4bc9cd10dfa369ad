// Package logger is the levelled logging facility shared by the engine, the
// draw providers and the CLI.
//
// Verbosity levels (in increasing order):
//
//	Error < Warn < Info < Debug < Trace
//
// Example usage:
//
//	logger.SetVerbosity(int(logger.Debug))
//	logger.Infof("simulating %d paths", n)
//	logger.Debugf("spot=%f vol=%f", spot, vol)
//
// The numeric pricing packages never log; they return errors.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
)

// Level represents a logging verbosity level.
// Higher values mean more verbose logging.
type Level int

const (
	Error Level = iota // Error logs failures that abort a run.
	Warn               // Warn logs recoverable surprises (fallbacks, clamped input).
	Info               // Info logs run lifecycle: config, sample size, results.
	Debug              // Debug logs per-stage detail.
	Trace              // Trace logs per-chunk detail; high volume.
)

var names = map[string]Level{
	"error": Error,
	"warn":  Warn,
	"info":  Info,
	"debug": Debug,
	"trace": Trace,
}

func (l Level) String() string {
	for name, lvl := range names {
		if lvl == l {
			return name
		}
	}
	return "level(" + strconv.Itoa(int(l)) + ")"
}

// current holds the active verbosity level.
// Only messages with level <= current are logged.
var current atomic.Int32

var std = log.New(os.Stderr, "", log.LstdFlags|log.Lshortfile)

func init() {
	current.Store(int32(Info))
}

// SetVerbosity sets the global verbosity, clamped to [Error, Trace].
func SetVerbosity(v int) {
	if v < int(Error) {
		v = int(Error)
	}
	if v > int(Trace) {
		v = int(Trace)
	}
	current.Store(int32(v))
}

// Verbosity returns the active level.
func Verbosity() Level {
	return Level(current.Load())
}

// ParseLevel accepts a level name ("info", "DEBUG", ...) or its number ("2").
func ParseLevel(s string) (Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if lvl, ok := names[s]; ok {
		return lvl, nil
	}
	if n, err := strconv.Atoi(s); err == nil && n >= int(Error) && n <= int(Trace) {
		return Level(n), nil
	}
	return Info, fmt.Errorf("unknown log level %q", s)
}

// SetOutput redirects all log output, e.g. to a buffer in tests.
func SetOutput(w io.Writer) {
	std.SetOutput(w)
}

func logf(l Level, prefix, format string, args ...any) {
	if Verbosity() >= l {
		// depth 3: caller of Infof etc.
		_ = std.Output(3, prefix+fmt.Sprintf(format, args...))
	}
}

// Errorf logs an error-level message.
func Errorf(format string, args ...any) {
	logf(Error, "[ERROR] ", format, args...)
}

// Warnf logs a warning.
func Warnf(format string, args ...any) {
	logf(Warn, "[WARN]  ", format, args...)
}

// Infof logs an informational message.
func Infof(format string, args ...any) {
	logf(Info, "[INFO]  ", format, args...)
}

// Debugf logs debugging information.
func Debugf(format string, args ...any) {
	logf(Debug, "[DEBUG] ", format, args...)
}

// Tracef logs very detailed execution traces.
func Tracef(format string, args ...any) {
	logf(Trace, "[TRACE] ", format, args...)
}
