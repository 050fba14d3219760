package models

// ValidationResult is everything one report-validation pass produces.
type ValidationResult struct {
	ReportID        string                 `json:"report_id,omitempty" yaml:"report_id,omitempty"`
	Nodes           []HierarchyNode        `json:"nodes" yaml:"nodes"`
	Issues          []ClassificationIssue  `json:"issues" yaml:"issues"`
	Recommendations []FamilyRecommendation `json:"recommendations" yaml:"recommendations"`
	Summary         ValidationSummary      `json:"summary" yaml:"summary"`
	Stats           ValidationStats        `json:"stats" yaml:"stats"`
}
