package fswatch

import "github.com/sirupsen/logrus"

// newLogger builds this Watcher's logger: one instance per engine (so
// multiple Watchers in the same process don't fight over one shared
// verbosity level), toggled between quiet and debug by SetVerbose, with
// terse single-line entries.
func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05.0000",
	})
	l.SetLevel(logrus.WarnLevel)
	return l
}
