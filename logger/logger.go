// Package logger builds the logrus logger used by the command line tools.
//
// Verbosity follows the launcher convention: 0=fatal, 1=error, 2=warn,
// 3=info, 4=debug, 5=trace. When a Sentry DSN is configured, error and more
// severe entries are also reported there.
package logger

import (
	"fmt"
	"io"

	"github.com/evalphobia/logrus_sentry"
	"github.com/sirupsen/logrus"
)

// Config controls the logger output.
type Config struct {
	Verbosity int    // 0..5, see package doc
	Format    string // "text" or "json"
	Color     bool   // ANSI colors for the text format
	SentryDSN string // optional Sentry endpoint
}

var levels = []logrus.Level{
	logrus.FatalLevel,
	logrus.ErrorLevel,
	logrus.WarnLevel,
	logrus.InfoLevel,
	logrus.DebugLevel,
	logrus.TraceLevel,
}

// Level maps a verbosity number to a logrus level.
func Level(verbosity int) (logrus.Level, error) {
	if verbosity < 0 || verbosity >= len(levels) {
		return logrus.InfoLevel, fmt.Errorf("verbosity %d out of range 0..%d", verbosity, len(levels)-1)
	}
	return levels[verbosity], nil
}

// New returns a logger writing to out.
func New(cfg Config, out io.Writer) (*logrus.Logger, error) {
	level, err := Level(cfg.Verbosity)
	if err != nil {
		return nil, err
	}

	log := logrus.New()
	log.SetOutput(out)
	log.SetLevel(level)

	switch cfg.Format {
	case "", "text":
		log.SetFormatter(&logrus.TextFormatter{
			ForceColors:   cfg.Color,
			DisableColors: !cfg.Color,
			FullTimestamp: true,
		})
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("unknown log format %q (want text or json)", cfg.Format)
	}

	if cfg.SentryDSN != "" {
		hook, err := logrus_sentry.NewSentryHook(cfg.SentryDSN, []logrus.Level{
			logrus.PanicLevel,
			logrus.FatalLevel,
			logrus.ErrorLevel,
		})
		if err != nil {
			return nil, fmt.Errorf("sentry hook: %w", err)
		}
		log.AddHook(hook)
	}
	return log, nil
}
