// Package engine runs the full validation of one report: hierarchy
// inference, family consistency checks and total reconciliation.
package engine

import (
	"fmt"

	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/family"
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/hierarchy"
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/logging"
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/models"
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/parsererror"
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/reconcile"
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/rules"
)

// Engine is stateless between calls and safe for concurrent use as long as
// the lookup it is given is.
type Engine struct {
	builder    *hierarchy.Builder
	validator  *family.Validator
	reconciler *reconcile.Reconciler
	lookup     rules.Lookup
	logger     logging.Logger
}

// New creates an Engine from its components. lookup is the default rule
// source for ValidateReport.
func New(builder *hierarchy.Builder, validator *family.Validator, reconciler *reconcile.Reconciler, lookup rules.Lookup, logger logging.Logger) *Engine {
	return &Engine{
		builder:    builder,
		validator:  validator,
		reconciler: reconciler,
		lookup:     lookup,
		logger:     logging.ForComponent(logger, "Engine"),
	}
}

// NewDefault wires an Engine with default options around lookup.
func NewDefault(lookup rules.Lookup, logger logging.Logger) *Engine {
	return New(
		hierarchy.NewBuilder(hierarchy.DefaultOptions(), logger),
		family.NewValidator(lookup, family.DefaultOptions(), logger),
		reconcile.NewReconciler(lookup, reconcile.DefaultOptions(), logger),
		lookup,
		logger,
	)
}

// BuildHierarchy infers the account forest of one report.
func (e *Engine) BuildHierarchy(rows []models.ReportRow) (*hierarchy.Forest, error) {
	return e.builder.Build(models.AccountsFromRows(rows))
}

// Reconcile runs the total reconciliation. The hierarchy is still inferred so
// that subtotal rows and rows under a classified parent are not reported as
// unclassified items.
func (e *Engine) Reconcile(rows []models.ReportRow) (models.ValidationSummary, error) {
	if len(rows) == 0 {
		return models.ValidationSummary{}, &parsererror.EmptyInputError{Component: "engine"}
	}
	forest, err := e.builder.Build(models.AccountsFromRows(rows))
	if err != nil {
		return models.ValidationSummary{}, fmt.Errorf("error building hierarchy: %w", err)
	}
	checks := e.validator.ValidateWith(forest, e.lookup)
	return e.reconciler.ReconcileCovered(rows, e.lookup, forestCoverage{forest: forest, checks: checks})
}

// ValidateReport validates one report against the engine's lookup.
func (e *Engine) ValidateReport(reportID string, rows []models.ReportRow) (*models.ValidationResult, error) {
	return e.ValidateReportWith(reportID, rows, e.lookup)
}

// ValidateReportWith validates one report against lookup. Only an empty report
// is an error; everything else ends up in the result.
func (e *Engine) ValidateReportWith(reportID string, rows []models.ReportRow, lookup rules.Lookup) (*models.ValidationResult, error) {
	logger := logging.ForReport(e.logger, reportID)
	if len(rows) == 0 {
		return nil, &parsererror.EmptyInputError{Component: "engine", Report: reportID}
	}

	forest, err := e.builder.Build(models.AccountsFromRows(rows))
	if err != nil {
		return nil, fmt.Errorf("error building hierarchy for report %s: %w", reportID, err)
	}

	checks := e.validator.ValidateWith(forest, lookup)

	summary, err := e.reconciler.ReconcileCovered(rows, lookup, forestCoverage{forest: forest, checks: checks})
	if err != nil {
		return nil, fmt.Errorf("error reconciling report %s: %w", reportID, err)
	}

	result := &models.ValidationResult{
		ReportID:        reportID,
		Nodes:           forest.Nodes(),
		Issues:          checks.Issues,
		Recommendations: checks.Recommendations,
		Summary:         summary,
	}
	result.Stats = collectStats(len(rows), result, checks)
	result.Stats.LogSummary(logger, reportID)

	return result, nil
}

func collectStats(rows int, result *models.ValidationResult, checks *family.Result) models.ValidationStats {
	stats := models.ValidationStats{Accounts: rows, Issues: len(result.Issues)}
	for _, n := range result.Nodes {
		switch {
		case n.Malformed:
			stats.Malformed++
			continue
		case n.IsRoot() && n.Level > 1:
			stats.Orphans++
		}
		if checks.StateOf(n.Code) == models.StatusClassified {
			stats.Classified++
		} else {
			stats.Unclassified++
		}
	}
	for _, issue := range result.Issues {
		if issue.Severity == models.SeverityCritical {
			stats.Critical++
		}
	}
	return stats
}
