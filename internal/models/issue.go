package models

import "github.com/shopspring/decimal"

// IssueType identifies a classification consistency problem.
type IssueType string

const (
	IssueMixedLevel4Siblings IssueType = "MIXED_LEVEL4_SIBLINGS"
	IssueOverClassification  IssueType = "OVER_CLASSIFICATION"
	IssueOrphanAccount       IssueType = "ORPHAN_ACCOUNT"
)

// Severity grades an issue by financial impact.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
	SeverityLow      Severity = "LOW"
)

// ClassificationIssue is one consistency finding for the review UI.
// It is recomputed on every run and never persisted as-is.
type ClassificationIssue struct {
	Type                 IssueType             `json:"type" yaml:"type"`
	Severity             Severity              `json:"severity" yaml:"severity"`
	Family               string                `json:"family,omitempty" yaml:"family,omitempty"`
	ParentAccount        string                `json:"parent_account,omitempty" yaml:"parent_account,omitempty"`
	ClassifiedChildren   []string              `json:"classified_children" yaml:"classified_children"`
	UnclassifiedChildren []string              `json:"unclassified_children,omitempty" yaml:"unclassified_children,omitempty"`
	FinancialImpact      decimal.Decimal       `json:"financial_impact" yaml:"financial_impact"`
	CompletenessPct      *float64              `json:"completeness_pct,omitempty" yaml:"completeness_pct,omitempty"`
	Message              string                `json:"message" yaml:"message"`
	ResolutionSteps      []string              `json:"resolution_steps" yaml:"resolution_steps"`
	AutoFixable          bool                  `json:"auto_fixable" yaml:"auto_fixable"`
	PriorityRank         int                   `json:"priority_rank" yaml:"priority_rank"`
	Suggestions          []ClassificationDelta `json:"suggestions,omitempty" yaml:"suggestions,omitempty"`
}

// RecommendationStrategy is the advisory classification approach for a family.
type RecommendationStrategy string

const (
	RecommendContinueDetail  RecommendationStrategy = "CONTINUE_DETAIL"
	RecommendContinueSummary RecommendationStrategy = "CONTINUE_SUMMARY"
	RecommendStartDetail     RecommendationStrategy = "START_DETAIL"
	RecommendStartSummary    RecommendationStrategy = "START_SUMMARY"
)

// FamilyRecommendation is advisory output per account family.
type FamilyRecommendation struct {
	Family           string                 `json:"family" yaml:"family"`
	DetailTotal      int                    `json:"detail_total" yaml:"detail_total"`
	DetailClassified int                    `json:"detail_classified" yaml:"detail_classified"`
	ParentTotal      int                    `json:"parent_total" yaml:"parent_total"`
	ParentClassified int                    `json:"parent_classified" yaml:"parent_classified"`
	CompletenessPct  float64                `json:"completeness_pct" yaml:"completeness_pct"`
	Strategy         RecommendationStrategy `json:"strategy" yaml:"strategy"`
	Message          string                 `json:"message" yaml:"message"`
}
