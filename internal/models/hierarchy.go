package models

// ParentType records how a node's parent was chosen.
type ParentType string

const (
	ParentDirect         ParentType = "DIRECT"
	ParentFamilyRoot     ParentType = "FAMILY_ROOT"
	ParentOrphanAdoption ParentType = "ORPHAN_ADOPTION"
	ParentRoot           ParentType = "ROOT"
)

// DetectionStrategy records which level heuristic won.
type DetectionStrategy string

const (
	DetectedByFamilyAnalysis DetectionStrategy = "FAMILY_ANALYSIS"
	DetectedByZeroPattern    DetectionStrategy = "ZERO_PATTERN"
	DetectedByHybrid         DetectionStrategy = "HYBRID"
)

// HierarchyNode is one account placed in the inferred hierarchy.
// Parent is empty for roots. SiblingGroup is set when a parentless node was
// linked with same-level siblings under a synthetic group key.
type HierarchyNode struct {
	Account      Account           `json:"account" yaml:"account"`
	Code         string            `json:"code" yaml:"code"`
	Level        int               `json:"level" yaml:"level"`
	Family       string            `json:"family" yaml:"family"`
	Parent       string            `json:"parent,omitempty" yaml:"parent,omitempty"`
	ParentType   ParentType        `json:"parent_type" yaml:"parent_type"`
	Children     []string          `json:"children,omitempty" yaml:"children,omitempty"`
	DetectedBy   DetectionStrategy `json:"detected_by" yaml:"detected_by"`
	SiblingGroup string            `json:"sibling_group,omitempty" yaml:"sibling_group,omitempty"`
	Malformed    bool              `json:"malformed,omitempty" yaml:"malformed,omitempty"`
	Warnings     []string          `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// IsRoot reports whether the node has no parent.
func (n HierarchyNode) IsRoot() bool {
	return n.Parent == ""
}

// HasChildren reports whether any node points at this one.
func (n HierarchyNode) HasChildren() bool {
	return len(n.Children) > 0
}
