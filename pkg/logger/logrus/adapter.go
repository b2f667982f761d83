// Package logrus adapts sirupsen/logrus to logger.Logger
package logrus

import (
	"os"

	"github.com/raykavin/pricewatch/pkg/logger"
	"github.com/sirupsen/logrus"
)

// LogrusAdapter exposes a logrus entry through logger.Logger
type LogrusAdapter struct {
	entry *logrus.Entry
}

func NewAdapter(log *logrus.Logger) *LogrusAdapter {
	return &LogrusAdapter{entry: logrus.NewEntry(log)}
}

// New builds a logrus logger writing to stdout
func New(options logger.Options) (*LogrusAdapter, error) {
	level, err := logrus.ParseLevel(options.Level)
	if err != nil {
		return nil, err
	}

	log := logrus.New()
	log.SetOutput(os.Stdout)
	log.SetLevel(level)

	if options.JSON {
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: options.TimeFormat})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: options.TimeFormat,
			ForceColors:     options.Colored,
			DisableColors:   !options.Colored,
		})
	}

	return NewAdapter(log), nil
}

func (l *LogrusAdapter) WithField(key string, value any) logger.Logger {
	return &LogrusAdapter{entry: l.entry.WithField(key, value)}
}

func (l *LogrusAdapter) WithFields(fields map[string]any) logger.Logger {
	return &LogrusAdapter{entry: l.entry.WithFields(fields)}
}

func (l *LogrusAdapter) WithError(err error) logger.Logger {
	return &LogrusAdapter{entry: l.entry.WithError(err)}
}

func (l *LogrusAdapter) Trace(args ...any) { l.entry.Trace(args...) }
func (l *LogrusAdapter) Debug(args ...any) { l.entry.Debug(args...) }
func (l *LogrusAdapter) Info(args ...any)  { l.entry.Info(args...) }
func (l *LogrusAdapter) Warn(args ...any)  { l.entry.Warn(args...) }
func (l *LogrusAdapter) Error(args ...any) { l.entry.Error(args...) }
func (l *LogrusAdapter) Fatal(args ...any) { l.entry.Fatal(args...) }

func (l *LogrusAdapter) Debugf(format string, args ...any) { l.entry.Debugf(format, args...) }
func (l *LogrusAdapter) Infof(format string, args ...any)  { l.entry.Infof(format, args...) }
func (l *LogrusAdapter) Warnf(format string, args ...any)  { l.entry.Warnf(format, args...) }
func (l *LogrusAdapter) Errorf(format string, args ...any) { l.entry.Errorf(format, args...) }
func (l *LogrusAdapter) Fatalf(format string, args ...any) { l.entry.Fatalf(format, args...) }

// SetLevel implements logger.Logger.
func (l *LogrusAdapter) SetLevel(level logger.Level) {
	if level == logger.Disabled {
		l.entry.Logger.SetLevel(logrus.PanicLevel)
		return
	}
	if parsed, err := logrus.ParseLevel(level.String()); err == nil {
		l.entry.Logger.SetLevel(parsed)
	}
}

// GetLevel implements logger.Logger.
func (l *LogrusAdapter) GetLevel() logger.Level {
	level, err := logger.ParseLevel(l.entry.Logger.GetLevel().String())
	if err != nil {
		return logger.Disabled
	}
	return level
}
