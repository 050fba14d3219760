// Package validate implements the validate command
package validate

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dssolutions-mx/financial-dashboard-sub000/cmd/common"
	"github.com/dssolutions-mx/financial-dashboard-sub000/cmd/root"
	internalcommon "github.com/dssolutions-mx/financial-dashboard-sub000/internal/common"
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/container"
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/logging"
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/report"
)

// Options are the validate command's inputs.
type Options struct {
	Input     string
	Output    string
	Format    string
	IssuesCSV string
	Strict    bool
}

var (
	issuesCSV string
	strict    bool
)

// Cmd represents the validate command
var Cmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate hierarchy, classification consistency and totals of a report",
	Long: `Validate one report snapshot: infer its account hierarchy, detect
classification consistency issues between sibling accounts, and reconcile the
classified totals against the declared total rows.

Example:
  findash validate -i planta-norte_2024-03.csv -f json -o result.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(root.GetContainer(), Options{
			Input:     root.SharedFlags.Input,
			Output:    root.SharedFlags.Output,
			Format:    root.SharedFlags.Format,
			IssuesCSV: issuesCSV,
			Strict:    strict,
		}, cmd.OutOrStdout())
	},
}

func init() {
	Cmd.Flags().StringVar(&issuesCSV, "issues-csv", "", "Also export the classification issues to this CSV file")
	Cmd.Flags().BoolVar(&strict, "strict", false, "Fail when reconciliation fails or issues are found")
}

// Run validates the report named in opts and writes the rendered result.
func Run(c *container.Container, opts Options, w io.Writer) error {
	if c == nil {
		return fmt.Errorf("container not initialized")
	}
	logger := c.GetLogger()

	format, err := report.ParseFormat(opts.Format)
	if err != nil {
		return err
	}

	reportID, rows, err := common.LoadReport(c, opts.Input)
	if err != nil {
		return err
	}

	result, err := c.GetEngine().ValidateReport(reportID, rows)
	if err != nil {
		return fmt.Errorf("error validating report %s: %w", reportID, err)
	}

	out, err := c.GetGenerator().GenerateValidationReport(result, format)
	if err != nil {
		return err
	}
	if err := common.WriteOutput(out, opts.Output, w, logger); err != nil {
		return err
	}

	if opts.IssuesCSV != "" {
		if err := internalcommon.WriteIssuesToCSV(result.Issues, opts.IssuesCSV, c.Delimiter(), logger); err != nil {
			return err
		}
	}

	logger.Info("Validation completed",
		logging.F(logging.FieldReportID, reportID),
		logging.F("issues", len(result.Issues)),
		logging.F("reconciled", result.Summary.IsValid))

	if opts.Strict && (!result.Summary.IsValid || len(result.Issues) > 0) {
		return fmt.Errorf("report %s failed validation: %d issue(s), reconciliation valid=%t",
			reportID, len(result.Issues), result.Summary.IsValid)
	}
	return nil
}
