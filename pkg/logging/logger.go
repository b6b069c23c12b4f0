// logger.go — Shared structured logging for Marquee.
//
// Usage:
//
//	log := logging.NewLogger("marquee", "info")
//	log.WithField("movie_id", id).Info("stream url resolved")
package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger creates a logrus logger pre-configured for a named service.
// Output is JSON to stdout. The service field is embedded in every log line.
// level is one of debug/info/warn/error; anything else falls back to info.
func NewLogger(service, level string) *logrus.Entry {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	log.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(level)
	if err != nil || level == "" {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)

	return log.WithField("service", service)
}
