// Package validation checks command-line inputs before any work starts.
package validation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// IsValidPath checks that path exists and is a regular file or a directory.
func IsValidPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("path must not be empty")
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("path does not exist: %s", path)
	}
	if err != nil {
		return fmt.Errorf("error checking path %s: %w", path, err)
	}

	if !info.IsDir() && !info.Mode().IsRegular() {
		return fmt.Errorf("path %s is neither a file nor a directory", path)
	}
	return nil
}

// IsReportFile checks that path is an existing CSV file.
func IsReportFile(path string) error {
	if err := IsValidPath(path); err != nil {
		return err
	}
	if info, _ := os.Stat(path); info.IsDir() {
		return fmt.Errorf("expected a report file, got directory: %s", path)
	}
	if !strings.EqualFold(filepath.Ext(path), ".csv") {
		return fmt.Errorf("report file must have a .csv extension: %s", path)
	}
	return nil
}

// IsReportDirectory checks that path is an existing directory.
func IsReportDirectory(path string) error {
	if err := IsValidPath(path); err != nil {
		return err
	}
	if info, _ := os.Stat(path); !info.IsDir() {
		return fmt.Errorf("expected a report directory, got file: %s", path)
	}
	return nil
}
