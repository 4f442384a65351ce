// package shared defines shared helpers
package shared

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// NewLogger creates a new [log.Logger] instance with the specified [io.Writer], with timestamps and caller reporting enabled.
//
// The writer defaults to [os.Stderr]. Stdout is reserved for protocol frames, so callers should never pass it here.
func NewLogger(w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := log.Options{ReportTimestamp: true, ReportCaller: true}
	return log.NewWithOptions(w, opts)
}

// WithLogger creates a child [log.Logger] with the specified key-value pairs added to all log entries.
func WithLogger(l *log.Logger, kv ...any) *log.Logger {
	return l.With(kv...)
}

// SetLogLevel sets the [log.Level] for the given [log.Logger].
func SetLogLevel(l *log.Logger, ll log.Level) {
	l.SetLevel(ll)
}

// ConfigureLogger applies the level and format from [LogConfig] to l.
//
// An empty level leaves the logger at its current level.
func ConfigureLogger(l *log.Logger, conf LogConfig) error {
	if conf.Level != "" {
		lvl, err := log.ParseLevel(strings.ToLower(conf.Level))
		if err != nil {
			return fmt.Errorf("%w: log level %q", ErrInvalidConfig, conf.Level)
		}
		SetLogLevel(l, lvl)
	}

	switch strings.ToLower(conf.Format) {
	case "", "text":
		l.SetFormatter(log.TextFormatter)
	case "json":
		l.SetFormatter(log.JSONFormatter)
	case "logfmt":
		l.SetFormatter(log.LogfmtFormatter)
	default:
		return fmt.Errorf("%w: log format %q", ErrInvalidConfig, conf.Format)
	}
	return nil
}

// GenerateID generates a new v4 [uuid.UUID] as a string
func GenerateID() string {
	return uuid.New().String()
}
