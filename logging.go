package asyncrt

import (
	"os"
	"sync/atomic"

	"github.com/joeycumines/izerolog"
	"github.com/joeycumines/logiface"
	"github.com/rs/zerolog"
)

// Logger is the structured logging facade used throughout this package. It
// is a thin alias over logiface.Logger[*izerolog.Event], grounded on the
// teacher-family's real logging stack (logiface + izerolog, wrapping
// rs/zerolog) rather than the teacher eventloop package's own hand-rolled
// global logger interface, since logiface is the more idiomatic, reusable
// facade actually present across the same family of repos.
type Logger = logiface.Logger[*izerolog.Event]

var defaultLogger atomic.Pointer[Logger]

func init() {
	l := newDefaultLogger()
	defaultLogger.Store(l)
}

func newDefaultLogger() *Logger {
	zl := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	return logiface.New[*izerolog.Event](
		logiface.WithLevel(logiface.LevelInformational),
		izerolog.WithZerolog(zl),
	)
}

// SetLogger installs l as the package-wide default logger, used by
// Executors constructed without an explicit WithLogger option.
func SetLogger(l *Logger) {
	if l == nil {
		return
	}
	defaultLogger.Store(l)
}

// globalLogger returns the current package-wide default logger.
func globalLogger() *Logger {
	return defaultLogger.Load()
}

// NoopLogger provides a logger that discards everything, for tests and
// embedders that want to assert behavior without console noise.
func NoopLogger() *Logger {
	return logiface.New[*izerolog.Event](
		logiface.WithLevel(logiface.LevelDisabled),
		izerolog.WithZerolog(zerolog.Nop()),
	)
}
