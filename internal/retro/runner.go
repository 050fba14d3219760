// Package retro recomputes historical reports after a rule change and
// aggregates the financial impact of the change.
package retro

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/engine"
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/logging"
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/models"
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/rules"
)

// Report is one historical report snapshot.
type Report struct {
	ID   string
	Rows []models.ReportRow
}

// RuleSource is the rule manager side the runner needs.
type RuleSource interface {
	Snapshot() rules.MapLookup
	Apply(deltas []models.ClassificationDelta) (int, error)
	Version() int
}

// Options bounds the fan-out.
type Options struct {
	MaxWorkers int
	Timeout    time.Duration
}

// DefaultOptions returns four workers and a five minute timeout.
func DefaultOptions() Options {
	return Options{MaxWorkers: 4, Timeout: 5 * time.Minute}
}

// Runner fans report recomputation out over a bounded number of goroutines.
type Runner struct {
	engine *engine.Engine
	rules  RuleSource
	opts   Options
	logger logging.Logger
	now    func() time.Time
}

// NewRunner creates a Runner.
func NewRunner(e *engine.Engine, source RuleSource, opts Options, logger logging.Logger) *Runner {
	if opts.MaxWorkers <= 0 {
		opts.MaxWorkers = DefaultOptions().MaxWorkers
	}
	return &Runner{
		engine: e,
		rules:  source,
		opts:   opts,
		logger: logging.ForComponent(logger, "RetroRunner"),
		now:    time.Now,
	}
}

// Preview computes the impact deltas would have without persisting them.
func (r *Runner) Preview(ctx context.Context, reports []Report, deltas []models.ClassificationDelta) (models.ImpactSummary, error) {
	before := r.rules.Snapshot()
	return r.Recompute(ctx, reports, before, rules.Overlay(before, deltas), r.rules.Version())
}

// ApplyAndRecompute persists deltas through the rule source, then recomputes
// every report against the new rule version.
func (r *Runner) ApplyAndRecompute(ctx context.Context, reports []Report, deltas []models.ClassificationDelta) (models.ImpactSummary, error) {
	before := r.rules.Snapshot()
	version, err := r.rules.Apply(deltas)
	if err != nil {
		return models.ImpactSummary{}, fmt.Errorf("error applying classification deltas: %w", err)
	}
	return r.Recompute(ctx, reports, before, r.rules.Snapshot(), version)
}

// Recompute compares every report under the before and after rule sets. A
// record is affected when its classification differs between the two; its
// absolute amount counts toward the financial impact. Reports that cannot be
// validated are recorded with their error and do not stop the run; only
// cancellation or the timeout does.
func (r *Runner) Recompute(ctx context.Context, reports []Report, before, after rules.Lookup, version int) (models.ImpactSummary, error) {
	summary := models.ImpactSummary{
		RunID:                uuid.NewString(),
		RuleVersion:          version,
		StartedAt:            r.now(),
		TotalFinancialImpact: decimal.Zero,
	}
	logger := r.logger.WithFields(
		logging.F(logging.FieldRunID, summary.RunID),
		logging.F(logging.FieldRuleVersion, version))

	if r.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.opts.Timeout)
		defer cancel()
	}

	impacts := make([]models.ReportImpact, len(reports))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.MaxWorkers)
	for i, report := range reports {
		i, report := i, report
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			impacts[i] = r.recomputeOne(report, before, after)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.WithError(err).Error("Retroactive recomputation aborted")
		return summary, fmt.Errorf("retroactive recomputation aborted: %w", err)
	}

	sort.SliceStable(impacts, func(i, j int) bool { return impacts[i].ReportID < impacts[j].ReportID })
	for _, impact := range impacts {
		if impact.AffectedRecords > 0 {
			summary.AffectedReports++
		}
		summary.AffectedRecords += impact.AffectedRecords
		summary.TotalFinancialImpact = summary.TotalFinancialImpact.Add(impact.FinancialImpact)
	}
	summary.Reports = impacts

	logger.Info("Retroactive recomputation completed",
		logging.F("reports", len(reports)),
		logging.F("affected_reports", summary.AffectedReports),
		logging.F("affected_records", summary.AffectedRecords),
		logging.Amount(logging.FieldAmount, summary.TotalFinancialImpact))
	return summary, nil
}

func (r *Runner) recomputeOne(report Report, before, after rules.Lookup) models.ReportImpact {
	impact := models.ReportImpact{ReportID: report.ID, FinancialImpact: decimal.Zero}

	for _, row := range report.Rows {
		oldC, oldOK := before.GetClassification(row.Code)
		newC, newOK := after.GetClassification(row.Code)
		if oldOK == newOK && oldC == newC {
			continue
		}
		impact.AffectedRecords++
		impact.FinancialImpact = impact.FinancialImpact.Add(row.Amount().Abs())
	}

	result, err := r.engine.ValidateReportWith(report.ID, report.Rows, after)
	if err != nil {
		r.logger.WithError(err).Warn("Report could not be revalidated",
			logging.F(logging.FieldReportID, report.ID))
		impact.Error = err.Error()
		return impact
	}
	impact.IsValid = result.Summary.IsValid
	impact.IssueCount = len(result.Issues)
	return impact
}
