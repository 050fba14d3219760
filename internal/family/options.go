package family

import (
	"github.com/shopspring/decimal"

	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/models"
)

// Options tunes issue grading and recommendations.
type Options struct {
	// Severity thresholds on the unclassified amount of a sibling group.
	CriticalThreshold decimal.Decimal
	HighThreshold     decimal.Decimal
	MediumThreshold   decimal.Decimal

	// AutoFixMaxUnclassified is the largest number of unclassified siblings an
	// issue may have and still offer a template fix.
	AutoFixMaxUnclassified int

	// SummaryThreshold is the number of level-4 accounts above which an
	// untouched family is better classified at summary level.
	SummaryThreshold int
}

// DefaultOptions returns the stock thresholds.
func DefaultOptions() Options {
	return Options{
		CriticalThreshold:      decimal.NewFromInt(1_000_000),
		HighThreshold:          decimal.NewFromInt(500_000),
		MediumThreshold:        decimal.NewFromInt(100_000),
		AutoFixMaxUnclassified: 2,
		SummaryThreshold:       15,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.CriticalThreshold.IsZero() {
		o.CriticalThreshold = d.CriticalThreshold
	}
	if o.HighThreshold.IsZero() {
		o.HighThreshold = d.HighThreshold
	}
	if o.MediumThreshold.IsZero() {
		o.MediumThreshold = d.MediumThreshold
	}
	if o.AutoFixMaxUnclassified <= 0 {
		o.AutoFixMaxUnclassified = d.AutoFixMaxUnclassified
	}
	if o.SummaryThreshold <= 0 {
		o.SummaryThreshold = d.SummaryThreshold
	}
	return o
}

// Severity grades an unclassified amount.
func (o Options) Severity(amount decimal.Decimal) models.Severity {
	amount = amount.Abs()
	switch {
	case amount.GreaterThanOrEqual(o.CriticalThreshold):
		return models.SeverityCritical
	case amount.GreaterThanOrEqual(o.HighThreshold):
		return models.SeverityHigh
	case amount.GreaterThanOrEqual(o.MediumThreshold):
		return models.SeverityMedium
	default:
		return models.SeverityLow
	}
}
