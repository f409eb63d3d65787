package logging

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Log source tags used in structured logger contexts.
const (
	SourceApp         = "app"
	SourceCredentials = "credentials"
	SourceLedger      = "ledger"
	SourceSession     = "session"
	SourceImporter    = "importer"
)

var (
	mu         sync.Mutex
	baseLogger *log.Logger
)

// Init configures the base logger to write logfmt to stderr at the given
// level ("debug", "info", "warn", "error"). Unknown levels fall back to info.
func Init(level string) {
	Configure(os.Stderr, level)
}

// Configure replaces the base logger. Loggers returned by Logger before the
// call keep their previous settings.
func Configure(w io.Writer, level string) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}

	mu.Lock()
	defer mu.Unlock()
	baseLogger = log.NewWithOptions(w, log.Options{
		TimeFunction:    log.NowUTC,
		TimeFormat:      time.RFC3339,
		Level:           lvl,
		ReportTimestamp: true,
		Formatter:       log.LogfmtFormatter,
	})
}

// Logger returns a logfmt logger tagged with the provided source.
func Logger(source string) *log.Logger {
	mu.Lock()
	defer mu.Unlock()
	if baseLogger == nil {
		baseLogger = log.NewWithOptions(os.Stderr, log.Options{
			Level:     log.InfoLevel,
			Formatter: log.LogfmtFormatter,
		})
	}
	return baseLogger.With("source", source)
}

// Discard returns a logger that drops everything. Used by tests and by
// callers that pass no logger.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

// OrDiscard returns l, or a discarding logger when l is nil.
func OrDiscard(l *log.Logger) *log.Logger {
	if l == nil {
		return Discard()
	}
	return l
}
