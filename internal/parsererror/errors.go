// Package parsererror holds the typed errors that may leave the engine and its
// plumbing. Per-row data problems never surface here; they become node
// warnings or classification issues instead.
package parsererror

import (
	"errors"
	"fmt"
)

// EmptyInputError is returned when a report has nothing to validate.
type EmptyInputError struct {
	Component string
	Report    string
}

func (e *EmptyInputError) Error() string {
	if e.Report != "" {
		return fmt.Sprintf("%s: report %q has no account rows", e.Component, e.Report)
	}
	return fmt.Sprintf("%s: report has no account rows", e.Component)
}

// IsEmptyInput reports whether err is, or wraps, an EmptyInputError.
func IsEmptyInput(err error) bool {
	var target *EmptyInputError
	return errors.As(err, &target)
}

// ParseError represents a failure to parse a single field of an input row.
type ParseError struct {
	Source string
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: failed to parse %s='%s': %v",
		e.Source, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// RuleStoreError represents a failure to read or write the classification rule dataset.
type RuleStoreError struct {
	FilePath  string
	Operation string
	Err       error
}

func (e *RuleStoreError) Error() string {
	return fmt.Sprintf("rule store %s failed for '%s': %v", e.Operation, e.FilePath, e.Err)
}

func (e *RuleStoreError) Unwrap() error {
	return e.Err
}

// InvalidFormatError represents an input file that does not have the expected layout.
type InvalidFormatError struct {
	FilePath       string
	ExpectedFormat string
	Msg            string
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid format in file '%s': %s. Expected: %s",
		e.FilePath, e.Msg, e.ExpectedFormat)
}
