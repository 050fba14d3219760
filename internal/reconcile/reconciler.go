// Package reconcile compares the totals a report declares on its summary rows
// against the sum of its classified leaf rows.
package reconcile

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/accountcode"
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/logging"
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/models"
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/parsererror"
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/rules"
)

// Options configures which rows declare totals and how much variance is tolerated.
type Options struct {
	// Tolerance is the absolute variance accepted per category.
	Tolerance decimal.Decimal
	// TotalRows maps a summary-row code to the category (tipo) it declares.
	TotalRows map[string]string
}

// DefaultOptions returns a one-cent tolerance and the Ingresos/Egresos summary rows.
func DefaultOptions() Options {
	return Options{
		Tolerance: decimal.NewFromFloat(0.01),
		TotalRows: map[string]string{
			"4100-0000-000-000": models.CategoryIngresos,
			"5000-0000-000-000": models.CategoryEgresos,
		},
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Tolerance.IsZero() || o.Tolerance.IsNegative() {
		o.Tolerance = d.Tolerance
	}
	if len(o.TotalRows) == 0 {
		o.TotalRows = d.TotalRows
	}
	return o
}

// Reconciler produces a ValidationSummary per report.
type Reconciler struct {
	lookup    rules.Lookup
	opts      Options
	totalRows map[string]string // canonical code → category
	logger    logging.Logger
}

// NewReconciler creates a Reconciler. Unset option fields take their defaults.
func NewReconciler(lookup rules.Lookup, opts Options, logger logging.Logger) *Reconciler {
	opts = opts.withDefaults()
	totalRows := make(map[string]string, len(opts.TotalRows))
	for code, category := range opts.TotalRows {
		totalRows[canonical(code)] = category
	}
	return &Reconciler{
		lookup:    lookup,
		opts:      opts,
		totalRows: totalRows,
		logger:    logging.ForComponent(logger, "Reconciler"),
	}
}

func canonical(code string) string {
	if c, ok := accountcode.Parse(code); ok {
		return c.String()
	}
	return strings.TrimSpace(code)
}

// Coverage answers hierarchy questions about the rows of one report.
// Codes are in canonical form.
type Coverage interface {
	// HasChildren reports whether other rows of the report roll up into code.
	HasChildren(code string) bool
	// CoveredByAncestor reports whether a classified ancestor of code
	// already accounts for its amount.
	CoveredByAncestor(code string) bool
}

// Reconcile validates rows against the configured lookup.
func (r *Reconciler) Reconcile(rows []models.ReportRow) (models.ValidationSummary, error) {
	return r.ReconcileWith(rows, r.lookup)
}

// ReconcileWith validates rows against lookup instead of the configured one,
// treating every row that is not a total row as a leaf.
func (r *Reconciler) ReconcileWith(rows []models.ReportRow, lookup rules.Lookup) (models.ValidationSummary, error) {
	return r.ReconcileCovered(rows, lookup, nil)
}

// ReconcileCovered validates rows against lookup. Every row reduces to
// credit − debit, declared totals included. Only the first row of a repeated
// code counts. With a non-nil coverage, unclassified subtotal rows and rows
// under a classified ancestor are not counted as unclassified items.
func (r *Reconciler) ReconcileCovered(rows []models.ReportRow, lookup rules.Lookup, coverage Coverage) (models.ValidationSummary, error) {
	if len(rows) == 0 {
		return models.ValidationSummary{}, &parsererror.EmptyInputError{Component: "reconciler"}
	}

	summary := models.ValidationSummary{
		HierarchyTotals:  make(map[string]decimal.Decimal),
		ClassifiedTotals: make(map[string]decimal.Decimal),
		Variance:         make(map[string]decimal.Decimal),
	}

	seen := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		code := canonical(row.Code)
		if _, dup := seen[code]; dup {
			r.logger.Warn("Duplicate account row ignored",
				logging.Code(code),
				logging.Amount(logging.FieldAmount, row.Amount()))
			continue
		}
		seen[code] = struct{}{}

		if category, ok := r.totalRows[code]; ok {
			if _, declared := summary.HierarchyTotals[category]; declared {
				r.logger.Warn("Another total row already declares this category; row ignored",
					logging.Code(code),
					logging.F(logging.FieldCategory, category))
				continue
			}
			summary.HierarchyTotals[category] = row.Amount()
			continue
		}

		var (
			c     models.Classification
			found bool
		)
		if lookup != nil {
			c, found = lookup.GetClassification(code)
		}
		switch {
		case !found || c.IsEmpty():
			if coverage != nil && (coverage.HasChildren(code) || coverage.CoveredByAncestor(code)) {
				continue
			}
			summary.UnclassifiedItems++
		case !c.IsComplete():
			summary.PartiallyClassifiedItems++
		default:
			category := r.categoryOf(c.Tipo)
			summary.ClassifiedTotals[category] = summary.ClassifiedTotals[category].Add(row.Amount())
		}
	}

	for _, category := range r.categories(summary) {
		declared, hasDeclared := summary.HierarchyTotals[category]
		classified, hasClassified := summary.ClassifiedTotals[category]

		if !hasDeclared {
			summary.Errors = append(summary.Errors, fmt.Sprintf(
				"%s: classified accounts total %s but the report has no declared total row for this category",
				category, models.FormatAmount(classified)))
			continue
		}
		if !hasClassified {
			summary.ClassifiedTotals[category] = decimal.Zero
		}

		variance := declared.Sub(classified)
		summary.Variance[category] = variance
		if variance.Abs().GreaterThan(r.opts.Tolerance) {
			summary.Errors = append(summary.Errors, varianceMessage(category, declared, classified, variance))
		}
	}
	summary.IsValid = len(summary.Errors) == 0

	fields := []logging.Field{
		logging.F("valid", summary.IsValid),
		logging.F("unclassified", summary.UnclassifiedItems),
		logging.F("partially_classified", summary.PartiallyClassifiedItems),
	}
	for category, v := range summary.Variance {
		fields = append(fields, logging.Amount(logging.FieldVariance+"_"+strings.ToLower(category), v))
	}
	if summary.IsValid {
		r.logger.Info("Reconciliation passed", fields...)
	} else {
		r.logger.Warn("Reconciliation failed", append(fields, logging.F("errors", len(summary.Errors)))...)
	}
	return summary, nil
}

// categoryOf maps a tipo onto a configured category name, ignoring case and
// surrounding spaces. Unknown tipos are kept as written.
func (r *Reconciler) categoryOf(tipo string) string {
	tipo = strings.TrimSpace(tipo)
	for _, category := range r.totalRows {
		if strings.EqualFold(category, tipo) {
			return category
		}
	}
	return tipo
}

// categories lists every category with a declared row or classified leaves, sorted.
func (r *Reconciler) categories(summary models.ValidationSummary) []string {
	set := make(map[string]struct{})
	for c := range summary.HierarchyTotals {
		set[c] = struct{}{}
	}
	for c := range summary.ClassifiedTotals {
		set[c] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

func varianceMessage(category string, declared, classified, variance decimal.Decimal) string {
	direction := "below"
	if variance.IsNegative() {
		direction = "above"
	}
	return fmt.Sprintf("%s: classified total %s is %s %s the declared total %s",
		category, models.FormatAmount(classified), models.FormatAmount(variance.Abs()), direction,
		models.FormatAmount(declared))
}
