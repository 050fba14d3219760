package hierarchy

import (
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/models"
)

// Forest is the immutable result of one build. Nodes are ordered by code.
// Callers must treat returned nodes as read-only.
type Forest struct {
	nodes []models.HierarchyNode
	index map[string]int
}

func newForest(nodes []models.HierarchyNode) *Forest {
	index := make(map[string]int, len(nodes))
	for i, n := range nodes {
		index[n.Code] = i
	}
	return &Forest{nodes: nodes, index: index}
}

// Len returns the number of nodes.
func (f *Forest) Len() int {
	return len(f.nodes)
}

// Nodes returns every node in code order.
func (f *Forest) Nodes() []models.HierarchyNode {
	out := make([]models.HierarchyNode, len(f.nodes))
	copy(out, f.nodes)
	return out
}

// Node looks a node up by code.
func (f *Forest) Node(code string) (models.HierarchyNode, bool) {
	i, ok := f.index[code]
	if !ok {
		return models.HierarchyNode{}, false
	}
	return f.nodes[i], true
}

// Has reports whether code is part of the forest.
func (f *Forest) Has(code string) bool {
	_, ok := f.index[code]
	return ok
}

// Roots returns the nodes without a parent.
func (f *Forest) Roots() []models.HierarchyNode {
	var roots []models.HierarchyNode
	for _, n := range f.nodes {
		if n.IsRoot() {
			roots = append(roots, n)
		}
	}
	return roots
}

// ChildrenOf returns the direct children of code in code order.
func (f *Forest) ChildrenOf(code string) []models.HierarchyNode {
	parent, ok := f.Node(code)
	if !ok {
		return nil
	}
	children := make([]models.HierarchyNode, 0, len(parent.Children))
	for _, c := range parent.Children {
		if n, ok := f.Node(c); ok {
			children = append(children, n)
		}
	}
	return children
}

// Descendants returns every node below code, depth first.
func (f *Forest) Descendants(code string) []models.HierarchyNode {
	var out []models.HierarchyNode
	for _, child := range f.ChildrenOf(code) {
		out = append(out, child)
		out = append(out, f.Descendants(child.Code)...)
	}
	return out
}

// ByLevel returns the nodes at the given level, excluding malformed ones.
func (f *Forest) ByLevel(level int) []models.HierarchyNode {
	var out []models.HierarchyNode
	for _, n := range f.nodes {
		if n.Level == level && !n.Malformed {
			out = append(out, n)
		}
	}
	return out
}
