package engine

import (
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/family"
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/hierarchy"
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/models"
)

// forestCoverage answers the reconciler's hierarchy questions from the
// inferred forest and the derived classification states.
type forestCoverage struct {
	forest *hierarchy.Forest
	checks *family.Result
}

func (c forestCoverage) HasChildren(code string) bool {
	n, ok := c.forest.Node(code)
	return ok && n.HasChildren()
}

func (c forestCoverage) CoveredByAncestor(code string) bool {
	n, ok := c.forest.Node(code)
	// parents always sit on a lower level, so the walk ends within four steps
	for steps := 0; ok && n.Parent != "" && steps < 4; steps++ {
		if c.checks.StateOf(n.Parent) == models.StatusClassified {
			return true
		}
		n, ok = c.forest.Node(n.Parent)
	}
	return false
}
