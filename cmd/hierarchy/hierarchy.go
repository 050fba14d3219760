// Package hierarchy implements the hierarchy command
package hierarchy

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dssolutions-mx/financial-dashboard-sub000/cmd/common"
	"github.com/dssolutions-mx/financial-dashboard-sub000/cmd/root"
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/container"
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/report"
)

// Cmd represents the hierarchy command
var Cmd = &cobra.Command{
	Use:   "hierarchy",
	Short: "Print the inferred account hierarchy of a report",
	Long: `Infer levels and parents for every account of a report snapshot and
print the resulting forest. Structural ambiguities are shown as warnings.

Example:
  findash hierarchy -i planta-norte_2024-03.csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(root.GetContainer(), root.SharedFlags.Input, root.SharedFlags.Output, root.SharedFlags.Format, cmd.OutOrStdout())
	},
}

// Run builds and renders the hierarchy of inputFile.
func Run(c *container.Container, inputFile, outputFile, formatName string, w io.Writer) error {
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

	forest, err := c.GetEngine().BuildHierarchy(rows)
	if err != nil {
		return fmt.Errorf("error building hierarchy for %s: %w", reportID, err)
	}

	out, err := c.GetGenerator().GenerateHierarchyReport(forest.Nodes(), format)
	if err != nil {
		return err
	}
	return common.WriteOutput(out, outputFile, w, c.GetLogger())
}
