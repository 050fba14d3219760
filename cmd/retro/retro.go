// Package retro implements the retro command
package retro

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dssolutions-mx/financial-dashboard-sub000/cmd/common"
	"github.com/dssolutions-mx/financial-dashboard-sub000/cmd/root"
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/batch"
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/container"
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/logging"
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/models"
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/report"
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/validation"
)

// Options are the retro command's inputs.
type Options struct {
	InputDir   string
	Output     string
	OutputDir  string
	Format     string
	DeltasFile string
	Apply      bool
}

var (
	deltasFile string
	apply      bool
	outputDir  string
)

// Cmd represents the retro command
var Cmd = &cobra.Command{
	Use:   "retro",
	Short: "Measure or apply classification rule changes across historical reports",
	Long: `Recompute every report snapshot in a directory under a set of approved
classification deltas and summarize the affected records, reports and
financial impact. Without --apply the deltas are only previewed.

Example:
  findash retro -i reports/ --deltas approved.yaml --apply --output-dir out/`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(cmd.Context(), root.GetContainer(), Options{
			InputDir:   root.SharedFlags.Input,
			Output:     root.SharedFlags.Output,
			OutputDir:  outputDir,
			Format:     root.SharedFlags.Format,
			DeltasFile: deltasFile,
			Apply:      apply,
		}, cmd.OutOrStdout())
	},
}

func init() {
	Cmd.Flags().StringVar(&deltasFile, "deltas", "", "YAML file with the approved classification deltas (required)")
	Cmd.Flags().BoolVar(&apply, "apply", false, "Persist the deltas to the rule store before recomputing")
	Cmd.Flags().StringVar(&outputDir, "output-dir", "", "Write the impact summary into this directory, named after the covered period")
	_ = Cmd.MarkFlagRequired("deltas")
}

// deltaFile is the accepted document shape; a bare list is accepted too.
type deltaFile struct {
	Deltas []models.ClassificationDelta `yaml:"deltas"`
}

// LoadDeltas reads classification deltas from a YAML file.
func LoadDeltas(path string) ([]models.ClassificationDelta, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading deltas file: %w", err)
	}

	var deltas []models.ClassificationDelta
	var doc deltaFile
	if err := yaml.Unmarshal(data, &doc); err == nil && len(doc.Deltas) > 0 {
		deltas = doc.Deltas
	} else if err := yaml.Unmarshal(data, &deltas); err != nil {
		return nil, fmt.Errorf("error parsing deltas file %s: %w", path, err)
	}

	if len(deltas) == 0 {
		return nil, fmt.Errorf("deltas file %s contains no deltas", path)
	}
	for i, d := range deltas {
		if d.Code == "" {
			return nil, fmt.Errorf("deltas file %s: delta #%d has no code", path, i+1)
		}
	}
	return deltas, nil
}

// Run previews or applies the deltas across every report in opts.InputDir.
func Run(ctx context.Context, c *container.Container, opts Options, w io.Writer) error {
	if c == nil {
		return fmt.Errorf("container not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	logger := c.GetLogger()

	format, err := report.ParseFormat(opts.Format)
	if err != nil {
		return err
	}
	if opts.InputDir == "" {
		return fmt.Errorf("an input report directory is required (--input)")
	}
	if err := validation.IsReportDirectory(opts.InputDir); err != nil {
		return err
	}

	deltas, err := LoadDeltas(opts.DeltasFile)
	if err != nil {
		return err
	}

	loaded, err := c.GetLoader().LoadDirectory(opts.InputDir, c.ReadReport)
	if err != nil {
		return err
	}
	if len(loaded.Reports) == 0 {
		return fmt.Errorf("no readable reports found in %s", opts.InputDir)
	}

	runner := c.GetRunner()
	var summary models.ImpactSummary
	if opts.Apply {
		summary, err = runner.ApplyAndRecompute(ctx, loaded.Reports, deltas)
	} else {
		summary, err = runner.Preview(ctx, loaded.Reports, deltas)
	}
	if err != nil {
		return err
	}

	out, err := c.GetGenerator().GenerateImpactReport(summary, format)
	if err != nil {
		return err
	}

	outputFile := opts.Output
	if outputFile == "" && opts.OutputDir != "" {
		outputFile = filepath.Join(opts.OutputDir,
			batch.GenerateOutputFilename("impact", loaded.Period(), extension(format)))
	}
	if err := common.WriteOutput(out, outputFile, w, logger); err != nil {
		return err
	}

	logger.Info("Retroactive run finished",
		logging.F(logging.FieldRunID, summary.RunID),
		logging.F("applied", opts.Apply),
		logging.F("deltas", len(deltas)))
	return nil
}

func extension(f report.Format) string {
	if f == report.FormatText {
		return "txt"
	}
	return string(f)
}
