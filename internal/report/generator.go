// Package report renders validation results, hierarchies and retroactive
// impact summaries for humans and machines.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/logging"
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/models"
)

// Format is an output format.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatText, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported report format: %s", s)
	}
}

// Generator renders engine output in the supported formats.
type Generator struct {
	logger logging.Logger
}

// NewGenerator creates a new Generator.
func NewGenerator(logger logging.Logger) *Generator {
	return &Generator{
		logger: logging.ForComponent(logger, "ReportGenerator"),
	}
}

// GenerateValidationReport renders a validation result.
func (g *Generator) GenerateValidationReport(result *models.ValidationResult, format Format) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("cannot render nil validation result")
	}
	if format == FormatText {
		var buf bytes.Buffer
		writeValidationText(&buf, result)
		return buf.Bytes(), nil
	}
	return g.marshal(result, format)
}

// GenerateHierarchyReport renders a hierarchy. Text output is an indented tree.
func (g *Generator) GenerateHierarchyReport(nodes []models.HierarchyNode, format Format) ([]byte, error) {
	if format == FormatText {
		var buf bytes.Buffer
		WriteTree(&buf, nodes)
		return buf.Bytes(), nil
	}
	return g.marshal(nodes, format)
}

// GenerateReconciliationReport renders a reconciliation summary.
func (g *Generator) GenerateReconciliationReport(summary models.ValidationSummary, format Format) ([]byte, error) {
	if format == FormatText {
		var buf bytes.Buffer
		writeSummaryText(&buf, summary)
		return buf.Bytes(), nil
	}
	return g.marshal(summary, format)
}

// GenerateImpactReport renders a retroactive impact summary.
func (g *Generator) GenerateImpactReport(summary models.ImpactSummary, format Format) ([]byte, error) {
	if format == FormatText {
		var buf bytes.Buffer
		writeImpactText(&buf, summary)
		return buf.Bytes(), nil
	}
	return g.marshal(summary, format)
}

func (g *Generator) marshal(v interface{}, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			g.logger.WithError(err).Error("Failed to marshal JSON report")
			return nil, fmt.Errorf("failed to marshal JSON report: %w", err)
		}
		return append(out, '\n'), nil
	case FormatYAML:
		out, err := yaml.Marshal(v)
		if err != nil {
			g.logger.WithError(err).Error("Failed to marshal YAML report")
			return nil, fmt.Errorf("failed to marshal YAML report: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

var (
	passColor    = color.New(color.FgGreen, color.Bold)
	failColor    = color.New(color.FgRed, color.Bold)
	headingColor = color.New(color.Bold)
)

func severityColor(s models.Severity) *color.Color {
	switch s {
	case models.SeverityCritical:
		return color.New(color.BgRed, color.FgWhite)
	case models.SeverityHigh:
		return color.New(color.FgRed)
	case models.SeverityMedium:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgCyan)
	}
}

func status(valid bool) string {
	if valid {
		return passColor.Sprint("PASS")
	}
	return failColor.Sprint("FAIL")
}

func writeValidationText(w io.Writer, result *models.ValidationResult) {
	title := "Validation report"
	if result.ReportID != "" {
		title += " " + result.ReportID
	}
	fmt.Fprintln(w, headingColor.Sprint(title))

	s := result.Stats
	fmt.Fprintf(w, "Accounts: %d (malformed %d, orphans %d)\n", s.Accounts, s.Malformed, s.Orphans)
	fmt.Fprintf(w, "Classified: %d of %d (%.1f%%)\n", s.Classified, s.Classified+s.Unclassified, s.ClassifiedRate())
	fmt.Fprintln(w)

	writeSummaryText(w, result.Summary)
	fmt.Fprintln(w)

	fmt.Fprintln(w, headingColor.Sprintf("Issues (%d)", len(result.Issues)))
	for _, issue := range result.Issues {
		fmt.Fprintf(w, "%2d. %s %s %s impact %s\n",
			issue.PriorityRank,
			severityColor(issue.Severity).Sprintf("%-8s", issue.Severity),
			issue.Type,
			issue.ParentAccount,
			models.FormatAmount(issue.FinancialImpact))
		fmt.Fprintf(w, "    %s\n", issue.Message)
		if issue.AutoFixable {
			fmt.Fprintf(w, "    auto-fixable: %d suggestion(s)\n", len(issue.Suggestions))
		}
	}

	if len(result.Recommendations) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, headingColor.Sprint("Recommendations"))
		for _, rec := range result.Recommendations {
			fmt.Fprintf(w, "  %-6s %-16s %5.1f%%  %s\n", rec.Family, rec.Strategy, rec.CompletenessPct, rec.Message)
		}
	}
}

func writeSummaryText(w io.Writer, summary models.ValidationSummary) {
	fmt.Fprintf(w, "Reconciliation: %s\n", status(summary.IsValid))

	categories := make(map[string]struct{})
	for c := range summary.HierarchyTotals {
		categories[c] = struct{}{}
	}
	for c := range summary.ClassifiedTotals {
		categories[c] = struct{}{}
	}
	names := make([]string, 0, len(categories))
	for c := range categories {
		names = append(names, c)
	}
	sort.Strings(names)

	for _, c := range names {
		fmt.Fprintf(w, "  %-12s declared %16s  classified %16s  variance %16s\n", c,
			models.FormatAmount(summary.HierarchyTotals[c]),
			models.FormatAmount(summary.ClassifiedTotals[c]),
			models.FormatAmount(summary.Variance[c]))
	}
	fmt.Fprintf(w, "  unclassified items: %d, partially classified: %d\n",
		summary.UnclassifiedItems, summary.PartiallyClassifiedItems)
	for _, e := range summary.Errors {
		fmt.Fprintf(w, "  %s %s\n", failColor.Sprint("!"), e)
	}
}

func writeImpactText(w io.Writer, summary models.ImpactSummary) {
	fmt.Fprintln(w, headingColor.Sprintf("Retroactive run %s (rule version %d)", summary.RunID, summary.RuleVersion))
	fmt.Fprintf(w, "Affected reports: %d, affected records: %d, financial impact: %s\n",
		summary.AffectedReports, summary.AffectedRecords, models.FormatAmount(summary.TotalFinancialImpact))

	for _, r := range summary.Reports {
		if r.Error != "" {
			fmt.Fprintf(w, "  %-28s %s %s\n", r.ReportID, failColor.Sprint("ERROR"), r.Error)
			continue
		}
		fmt.Fprintf(w, "  %-28s %s records %4d  impact %16s  issues %d\n",
			r.ReportID, status(r.IsValid), r.AffectedRecords, models.FormatAmount(r.FinancialImpact), r.IssueCount)
	}
}

// WriteTree writes nodes as an indented tree, roots first in the order given
// and children in the order recorded on each node.
func WriteTree(w io.Writer, nodes []models.HierarchyNode) {
	byCode := make(map[string]models.HierarchyNode, len(nodes))
	for _, n := range nodes {
		byCode[n.Code] = n
	}

	var walk func(n models.HierarchyNode, depth int)
	walk = func(n models.HierarchyNode, depth int) {
		fmt.Fprintf(w, "%s%s L%d %s %s", strings.Repeat("  ", depth), n.Code, n.Level,
			n.Account.Concept, models.FormatAmount(n.Account.Amount))
		if n.ParentType != "" && n.ParentType != models.ParentDirect {
			fmt.Fprintf(w, " [%s]", n.ParentType)
		}
		fmt.Fprintln(w)
		for _, warning := range n.Warnings {
			fmt.Fprintf(w, "%s  ! %s\n", strings.Repeat("  ", depth), warning)
		}
		for _, child := range n.Children {
			if c, ok := byCode[child]; ok {
				walk(c, depth+1)
			}
		}
	}

	for _, n := range nodes {
		if n.IsRoot() {
			walk(n, 0)
		}
	}
}
