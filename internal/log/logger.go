// Package log is the logging facade for lumen, backed by logrus. Components
// log through the package-level helpers so call sites stay terse.
package log

import (
	"os"

	"github.com/sirupsen/logrus"
)

var logger = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	l.SetLevel(logrus.InfoLevel)
	return l
}

// SetDebug toggles debug-level output.
func SetDebug(debug bool) {
	if debug {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}
}

// DebugEnabled reports whether debug output is on. Useful to skip building
// expensive diagnostics (per-expose timing).
func DebugEnabled() bool {
	return logger.IsLevelEnabled(logrus.DebugLevel)
}

// WithField returns an entry carrying a structured field.
func WithField(key string, value interface{}) *logrus.Entry {
	return logger.WithField(key, value)
}

// Infof logs a formatted message.
func Infof(format string, args ...interface{}) {
	logger.Infof(format, args...)
}

// Debugf logs a formatted debug message.
func Debugf(format string, args ...interface{}) {
	logger.Debugf(format, args...)
}

// Warnf logs a formatted warning.
func Warnf(format string, args ...interface{}) {
	logger.Warnf(format, args...)
}

// Errorf logs a formatted error message.
func Errorf(format string, args ...interface{}) {
	logger.Errorf(format, args...)
}
