// Package rules holds the code → classification rule set consumed by the
// validators and updated through approved deltas.
package rules

import (
	"strings"

	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/models"
)

// Lookup is the read side of the rule set. It returns at most one
// classification per code.
type Lookup interface {
	GetClassification(code string) (models.Classification, bool)
}

// MapLookup is a fixed, in-memory Lookup.
type MapLookup map[string]models.Classification

// GetClassification implements Lookup.
func (m MapLookup) GetClassification(code string) (models.Classification, bool) {
	c, ok := m[strings.TrimSpace(code)]
	return c, ok
}

// LookupFunc adapts a function to Lookup.
type LookupFunc func(code string) (models.Classification, bool)

// GetClassification implements Lookup.
func (f LookupFunc) GetClassification(code string) (models.Classification, bool) {
	return f(code)
}

// Overlay answers from overrides first and falls back to base. It lets a
// caller preview pending deltas without persisting them. A delta with an
// empty classification hides the base rule, as Manager.Apply deletes it.
func Overlay(base Lookup, deltas []models.ClassificationDelta) Lookup {
	overrides := make(MapLookup, len(deltas))
	for _, d := range deltas {
		overrides[strings.TrimSpace(d.Code)] = d.NewClassification
	}
	return LookupFunc(func(code string) (models.Classification, bool) {
		if c, ok := overrides.GetClassification(code); ok {
			return c, !c.IsEmpty()
		}
		if base == nil {
			return models.Classification{}, false
		}
		return base.GetClassification(code)
	})
}
