// Package logging provides a logging abstraction layer that decouples the engine
// from a specific logging framework. Components receive a Logger through their
// constructors; tests inject a MockLogger.
package logging

import "github.com/shopspring/decimal"

// Logger is the structured logger every component logs through.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// WithError, WithField and WithFields return a derived logger; the
	// receiver is left unchanged.
	WithError(err error) Logger
	WithField(key string, value interface{}) Logger
	WithFields(fields ...Field) Logger

	// Fatal and Fatalf exit the process after logging.
	Fatal(msg string, fields ...Field)
	Fatalf(msg string, args ...interface{})
}

// Field is one structured key-value pair.
type Field struct {
	Key   string
	Value interface{}
}

// F is shorthand for building a Field.
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Code tags an entry with the account code it concerns.
func Code(code string) Field {
	return Field{Key: FieldCode, Value: code}
}

// Amount renders a monetary value with two decimals so that log lines stay
// comparable with report output.
func Amount(key string, d decimal.Decimal) Field {
	return Field{Key: key, Value: d.StringFixed(2)}
}

// ForComponent returns logger (or the default logger when nil) tagged with
// the component name.
func ForComponent(logger Logger, component string) Logger {
	return OrDefault(logger).WithField(FieldComponent, component)
}

// ForReport tags logger with the report being processed.
func ForReport(logger Logger, reportID string) Logger {
	return OrDefault(logger).WithField(FieldReportID, reportID)
}
