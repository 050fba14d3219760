// Package common contains shared functionality for command handlers
package common

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/common"
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/container"
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/logging"
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/models"
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/validation"
)

// LoadReport reads one report snapshot and derives its ID from the file name.
func LoadReport(c *container.Container, inputFile string) (string, []models.ReportRow, error) {
	if inputFile == "" {
		return "", nil, fmt.Errorf("an input report file is required (--input)")
	}
	if err := validation.IsReportFile(inputFile); err != nil {
		return "", nil, err
	}
	rows, err := c.ReadReport(inputFile)
	if err != nil {
		return "", nil, fmt.Errorf("error reading report: %w", err)
	}
	return common.ExtractReportFromFilename(inputFile).ID, rows, nil
}

// WriteOutput writes data to outputFile, or to w when outputFile is empty.
func WriteOutput(data []byte, outputFile string, w io.Writer, logger logging.Logger) error {
	if outputFile == "" {
		_, err := w.Write(data)
		return err
	}

	if err := os.MkdirAll(filepath.Dir(outputFile), 0750); err != nil {
		return fmt.Errorf("error creating output directory: %w", err)
	}
	if err := os.WriteFile(outputFile, data, 0600); err != nil {
		return fmt.Errorf("error writing output file: %w", err)
	}
	logging.OrDefault(logger).Info("Output written", logging.F(logging.FieldOutputFile, outputFile))
	return nil
}
