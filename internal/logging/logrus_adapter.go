package logging

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// Options selects the level, format and destination of a logrus-backed Logger.
type Options struct {
	Level  string // debug, info, warn or error; anything else means info
	Format string // json or text
	Output io.Writer
}

// LogrusAdapter implements Logger on top of a logrus entry. Derived adapters
// share the underlying logrus.Logger and therefore its level.
type LogrusAdapter struct {
	logger *logrus.Logger
	entry  *logrus.Entry
}

// NewLogrusAdapterWithOptions builds a logrus logger from opts.
func NewLogrusAdapterWithOptions(opts Options) Logger {
	logger := logrus.New()
	if opts.Output != nil {
		logger.SetOutput(opts.Output)
	}

	level, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(opts.Level)))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", opts.Level)
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if strings.EqualFold(opts.Format, "json") {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return NewLogrusAdapterFromLogger(logger)
}

// NewLogrusAdapter builds a logger writing to stderr.
func NewLogrusAdapter(level, format string) Logger {
	return NewLogrusAdapterWithOptions(Options{Level: level, Format: format})
}

// NewLogrusAdapterWithOutput builds a logger writing to w.
func NewLogrusAdapterWithOutput(w io.Writer, level, format string) Logger {
	return NewLogrusAdapterWithOptions(Options{Level: level, Format: format, Output: w})
}

// NewLogrusAdapterFromLogger wraps an existing logrus.Logger; nil gets a fresh one.
func NewLogrusAdapterFromLogger(logger *logrus.Logger) Logger {
	if logger == nil {
		logger = logrus.New()
	}
	return &LogrusAdapter{logger: logger, entry: logrus.NewEntry(logger)}
}

// SetLevel changes the level of the shared logrus logger. Invalid names are ignored.
func (l *LogrusAdapter) SetLevel(level string) {
	if parsed, err := logrus.ParseLevel(strings.ToLower(level)); err == nil {
		l.logger.SetLevel(parsed)
	}
}

// Level returns the current logrus level name.
func (l *LogrusAdapter) Level() string {
	return l.logger.GetLevel().String()
}

func (l *LogrusAdapter) log(level logrus.Level, msg string, fields []Field) {
	if !l.logger.IsLevelEnabled(level) {
		return
	}
	l.entry.WithFields(convertFields(fields)).Log(level, msg)
}

func (l *LogrusAdapter) Debug(msg string, fields ...Field) { l.log(logrus.DebugLevel, msg, fields) }
func (l *LogrusAdapter) Info(msg string, fields ...Field)  { l.log(logrus.InfoLevel, msg, fields) }
func (l *LogrusAdapter) Warn(msg string, fields ...Field)  { l.log(logrus.WarnLevel, msg, fields) }
func (l *LogrusAdapter) Error(msg string, fields ...Field) { l.log(logrus.ErrorLevel, msg, fields) }

func (l *LogrusAdapter) derive(entry *logrus.Entry) Logger {
	return &LogrusAdapter{logger: l.logger, entry: entry}
}

func (l *LogrusAdapter) WithError(err error) Logger {
	return l.derive(l.entry.WithError(err))
}

func (l *LogrusAdapter) WithField(key string, value interface{}) Logger {
	return l.derive(l.entry.WithField(key, value))
}

func (l *LogrusAdapter) WithFields(fields ...Field) Logger {
	return l.derive(l.entry.WithFields(convertFields(fields)))
}

// Fatal goes through logrus' Fatal so that the exit handlers run.
func (l *LogrusAdapter) Fatal(msg string, fields ...Field) {
	l.entry.WithFields(convertFields(fields)).Fatal(msg)
}

func (l *LogrusAdapter) Fatalf(msg string, args ...interface{}) {
	l.entry.Fatalf(msg, args...)
}

func convertFields(fields []Field) logrus.Fields {
	out := make(logrus.Fields, len(fields))
	for _, f := range fields {
		out[f.Key] = f.Value
	}
	return out
}
