package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ValidationSummary is the reconciliation verdict for one report.
type ValidationSummary struct {
	HierarchyTotals          map[string]decimal.Decimal `json:"hierarchy_totals" yaml:"hierarchy_totals"`
	ClassifiedTotals         map[string]decimal.Decimal `json:"classified_totals" yaml:"classified_totals"`
	Variance                 map[string]decimal.Decimal `json:"variance" yaml:"variance"`
	UnclassifiedItems        int                        `json:"unclassified_items" yaml:"unclassified_items"`
	PartiallyClassifiedItems int                        `json:"partially_classified_items" yaml:"partially_classified_items"`
	IsValid                  bool                       `json:"is_valid" yaml:"is_valid"`
	Errors                   []string                   `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// ReportImpact is the outcome of recomputing one historical report after a
// rule change.
type ReportImpact struct {
	ReportID        string          `json:"report_id" yaml:"report_id"`
	AffectedRecords int             `json:"affected_records" yaml:"affected_records"`
	FinancialImpact decimal.Decimal `json:"financial_impact" yaml:"financial_impact"`
	IsValid         bool            `json:"is_valid" yaml:"is_valid"`
	IssueCount      int             `json:"issue_count" yaml:"issue_count"`
	Error           string          `json:"error,omitempty" yaml:"error,omitempty"`
}

// ImpactSummary aggregates a retroactive recomputation across reports.
type ImpactSummary struct {
	RunID                string          `json:"run_id" yaml:"run_id"`
	RuleVersion          int             `json:"rule_version" yaml:"rule_version"`
	StartedAt            time.Time       `json:"started_at" yaml:"started_at"`
	AffectedRecords      int             `json:"affected_records" yaml:"affected_records"`
	AffectedReports      int             `json:"affected_reports" yaml:"affected_reports"`
	TotalFinancialImpact decimal.Decimal `json:"total_financial_impact" yaml:"total_financial_impact"`
	Reports              []ReportImpact  `json:"reports" yaml:"reports"`
}
