package config

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/family"
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/hierarchy"
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/reconcile"
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/retro"
)

// HierarchyOptions maps the hierarchy section onto builder options.
func (c *Config) HierarchyOptions() hierarchy.Options {
	buckets := make(map[string]string, len(c.Hierarchy.BucketRoots))
	for k, v := range c.Hierarchy.BucketRoots {
		buckets[k] = v
	}
	return hierarchy.Options{
		FamilyRootNumerals: append([]string(nil), c.Hierarchy.FamilyRootNumerals...),
		BucketRoots:        buckets,
		AcceptConfidence:   c.Hierarchy.AcceptConfidence,
		RejectConfidence:   c.Hierarchy.RejectConfidence,
	}
}

// FamilyOptions maps the validation section onto validator options.
func (c *Config) FamilyOptions() family.Options {
	return family.Options{
		CriticalThreshold:      decimal.NewFromFloat(c.Validation.CriticalThreshold),
		HighThreshold:          decimal.NewFromFloat(c.Validation.HighThreshold),
		MediumThreshold:        decimal.NewFromFloat(c.Validation.MediumThreshold),
		AutoFixMaxUnclassified: c.Validation.AutoFixMaxUnclassified,
		SummaryThreshold:       c.Validation.SummaryThreshold,
	}
}

// ReconcileOptions maps the reconciliation section onto reconciler options.
func (c *Config) ReconcileOptions() reconcile.Options {
	totals := make(map[string]string, len(c.Reconciliation.TotalRows))
	for code, category := range c.Reconciliation.TotalRows {
		totals[code] = category
	}
	return reconcile.Options{
		Tolerance: decimal.NewFromFloat(c.Reconciliation.Tolerance),
		TotalRows: totals,
	}
}

// RetroOptions maps the retro section onto runner options.
func (c *Config) RetroOptions() retro.Options {
	return retro.Options{
		MaxWorkers: c.Retro.MaxWorkers,
		Timeout:    time.Duration(c.Retro.TimeoutSeconds) * time.Second,
	}
}
