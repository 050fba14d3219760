package logging

import (
	"os"
	"strings"
	"sync"
)

var (
	defaultLogger Logger
	defaultOnce   sync.Once
)

// GetLogger returns the process-wide fallback logger used when a component is
// constructed without one. Level and format come from LOG_LEVEL and LOG_FORMAT.
func GetLogger() Logger {
	defaultOnce.Do(func() {
		level := strings.ToLower(os.Getenv("LOG_LEVEL"))
		if level == "" {
			level = "info"
		}
		format := strings.ToLower(os.Getenv("LOG_FORMAT"))
		if format == "" {
			format = "text"
		}
		defaultLogger = NewLogrusAdapter(level, format)
	})
	return defaultLogger
}

// OrDefault returns logger, or the fallback logger when logger is nil.
func OrDefault(logger Logger) Logger {
	if logger == nil {
		return GetLogger()
	}
	return logger
}
