package family

import (
	"sort"

	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/hierarchy"
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/models"
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/rules"
)

// stateTable holds the explicit classification of every node and the status
// derived from it, including IMPLICITLY_CLASSIFIED parents.
type stateTable struct {
	classifications map[string]models.Classification
	status          map[string]models.ClassificationStatus
}

func newStateTable(forest *hierarchy.Forest, lookup rules.Lookup) *stateTable {
	nodes := forest.Nodes()
	t := &stateTable{
		classifications: make(map[string]models.Classification, len(nodes)),
		status:          make(map[string]models.ClassificationStatus, len(nodes)),
	}

	for _, n := range nodes {
		var (
			c     models.Classification
			found bool
		)
		if lookup != nil {
			c, found = lookup.GetClassification(n.Code)
		}
		if found {
			t.classifications[n.Code] = c
		}
		t.status[n.Code] = models.StatusOf(c, found)
	}

	// Deepest first, so a child's derived status is final before its parent reads it.
	sort.SliceStable(nodes, func(i, j int) bool { return nodes[i].Level > nodes[j].Level })
	for _, n := range nodes {
		if !n.HasChildren() || t.status[n.Code] == models.StatusClassified {
			continue
		}
		if t.allCovered(n.Children) {
			t.status[n.Code] = models.StatusImplicitlyClassified
		}
	}
	return t
}

// allCovered reports whether every code is classified, explicitly or implicitly.
func (t *stateTable) allCovered(codes []string) bool {
	for _, c := range codes {
		if !covered(t.status[c]) {
			return false
		}
	}
	return len(codes) > 0
}

func covered(s models.ClassificationStatus) bool {
	return s == models.StatusClassified || s == models.StatusImplicitlyClassified
}

func (t *stateTable) of(code string) models.ClassificationStatus {
	if s, ok := t.status[code]; ok {
		return s
	}
	return models.StatusUnclassified
}

func (t *stateTable) classification(code string) (models.Classification, bool) {
	c, ok := t.classifications[code]
	return c, ok
}
