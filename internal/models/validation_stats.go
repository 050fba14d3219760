package models

import (
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/logging"
)

// ValidationStats counts what one report-validation pass saw.
type ValidationStats struct {
	Accounts     int `json:"accounts" yaml:"accounts"`         // Total account rows processed
	Malformed    int `json:"malformed" yaml:"malformed"`       // Rows whose code could not be parsed
	Orphans      int `json:"orphans" yaml:"orphans"`           // Valid nodes left as roots above level 1
	Classified   int `json:"classified" yaml:"classified"`     // Nodes with a complete classification
	Unclassified int `json:"unclassified" yaml:"unclassified"` // Nodes without a complete classification
	Issues       int `json:"issues" yaml:"issues"`             // Classification issues emitted
	Critical     int `json:"critical" yaml:"critical"`         // Issues graded CRITICAL
}

// LogSummary logs the statistics at info level.
func (s ValidationStats) LogSummary(logger logging.Logger, report string) {
	if logger == nil {
		return
	}

	logger.Info("Validation summary",
		logging.Field{Key: logging.FieldReportID, Value: report},
		logging.Field{Key: "accounts", Value: s.Accounts},
		logging.Field{Key: "malformed", Value: s.Malformed},
		logging.Field{Key: "orphans", Value: s.Orphans},
		logging.Field{Key: "classified", Value: s.Classified},
		logging.Field{Key: "unclassified", Value: s.Unclassified},
		logging.Field{Key: "issues", Value: s.Issues},
		logging.Field{Key: "critical", Value: s.Critical},
		logging.Field{Key: "classified_rate", Value: s.ClassifiedRate()},
	)
}

// ClassifiedRate returns the classified share of valid accounts as a percentage.
func (s ValidationStats) ClassifiedRate() float64 {
	valid := s.Classified + s.Unclassified
	if valid == 0 {
		return 0.0
	}
	return float64(s.Classified) / float64(valid) * 100.0
}
