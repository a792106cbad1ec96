package rendercore

import (
	"os"

	"github.com/sirupsen/logrus"
)

// defaultLogger is used by engines created without WithLogger. It reports
// warnings and errors on stderr.
var defaultLogger = newDefaultLogger()

func newDefaultLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.WarnLevel)
	return l
}

// DefaultLogger returns the package logger shared by engines that were not
// given one. Executables adjust its level and formatter at startup.
func DefaultLogger() *logrus.Logger {
	return defaultLogger
}

// ParseLogLevel maps a level name to a logrus level; an empty name means
// warn.
func ParseLogLevel(name string) (logrus.Level, error) {
	if name == "" {
		return logrus.WarnLevel, nil
	}
	return logrus.ParseLevel(name)
}
