// Package logger provides modifications to charmbracelet/log's default logger to be used in various files/packages.
package logger

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// New creates a new default charm log on stderr.
// stdout stays free for program output and the IPC stream.
func New(prefix string) *log.Logger {
	return NewWithConfig(prefix, os.Stderr, log.GetLevel(), true)
}

// NewWithConfig creates a new charm log with custom config
func NewWithConfig(prefix string, w io.Writer, level log.Level, showTimestamp bool) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          prefix,
		Level:           level,
		ReportCaller:    false,
		ReportTimestamp: showTimestamp,
		Formatter:       log.TextFormatter,
	})
}

// Setup configures the default logger for a binary: debug level with
// timestamps when debug is set, warn level otherwise, always on stderr.
func Setup(debug bool) {
	log.SetOutput(os.Stderr)
	if debug {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
		return
	}
	log.SetLevel(log.WarnLevel)
	log.SetReportTimestamp(false)
}
