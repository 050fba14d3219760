package models

// ClassificationRule maps one account code to its classification.
type ClassificationRule struct {
	Code           string `json:"code" yaml:"code"`
	Classification `yaml:",inline"`
}

// RuleSet is the persisted rule dataset. Version increases on every approved change.
type RuleSet struct {
	Version int                  `json:"version" yaml:"version"`
	Rules   []ClassificationRule `json:"rules" yaml:"rules"`
}
