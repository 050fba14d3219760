// Package reconcile implements the reconcile command
package reconcile

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dssolutions-mx/financial-dashboard-sub000/cmd/common"
	"github.com/dssolutions-mx/financial-dashboard-sub000/cmd/root"
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/container"
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/report"
)

var strict bool

// Cmd represents the reconcile command
var Cmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile classified totals against declared totals",
	Long: `Compare the declared total rows of a report snapshot with the sum of its
classified leaf rows, per category.

Example:
  findash reconcile -i planta-norte_2024-03.csv --strict`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(root.GetContainer(), root.SharedFlags.Input, root.SharedFlags.Output, root.SharedFlags.Format, strict, cmd.OutOrStdout())
	},
}

func init() {
	Cmd.Flags().BoolVar(&strict, "strict", false, "Fail when reconciliation fails")
}

// Run reconciles inputFile and renders the summary.
func Run(c *container.Container, inputFile, outputFile, formatName string, strict bool, w io.Writer) error {
	if c == nil {
		return fmt.Errorf("container not initialized")
	}

	format, err := report.ParseFormat(formatName)
	if err != nil {
		return err
	}

	reportID, rows, err := common.LoadReport(c, inputFile)
	if err != nil {
		return err
	}

	summary, err := c.GetEngine().Reconcile(rows)
	if err != nil {
		return fmt.Errorf("error reconciling %s: %w", reportID, err)
	}

	out, err := c.GetGenerator().GenerateReconciliationReport(summary, format)
	if err != nil {
		return err
	}
	if err := common.WriteOutput(out, outputFile, w, c.GetLogger()); err != nil {
		return err
	}

	if strict && !summary.IsValid {
		return fmt.Errorf("report %s does not reconcile", reportID)
	}
	return nil
}
