package report

import (
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/logging"
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/models"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func sampleResult() *models.ValidationResult {
	return &models.ValidationResult{
		ReportID: "planta_2024-03",
		Nodes: []models.HierarchyNode{
			{Code: "5000-0000-000-000", Level: 1, Family: "5000", ParentType: models.ParentRoot,
				Account:  models.Account{Code: "5000-0000-000-000", Concept: "Egresos", Amount: decimal.NewFromInt(-300)},
				Children: []string{"5000-1000-000-000"}},
			{Code: "5000-1000-000-000", Level: 2, Family: "5000", Parent: "5000-0000-000-000", ParentType: models.ParentDirect,
				Account: models.Account{Code: "5000-1000-000-000", Concept: "Materiales", Amount: decimal.NewFromInt(-300)}},
		},
		Issues: []models.ClassificationIssue{{
			Type:            models.IssueMixedLevel4Siblings,
			Severity:        models.SeverityMedium,
			ParentAccount:   "5000-1000-001-000",
			FinancialImpact: decimal.NewFromInt(250000),
			Message:         "1 of 2 siblings unclassified",
			AutoFixable:     true,
			PriorityRank:    4,
			Suggestions:     []models.ClassificationDelta{{Code: "5000-1000-001-002"}},
		}},
		Recommendations: []models.FamilyRecommendation{{
			Family: "5000", Strategy: models.RecommendContinueDetail, CompletenessPct: 50, Message: "continue",
		}},
		Summary: models.ValidationSummary{
			HierarchyTotals:  map[string]decimal.Decimal{"Egresos": decimal.NewFromInt(-300)},
			ClassifiedTotals: map[string]decimal.Decimal{"Egresos": decimal.NewFromInt(-250)},
			Variance:         map[string]decimal.Decimal{"Egresos": decimal.NewFromInt(-50)},
			IsValid:          false,
			Errors:           []string{"Egresos: classified total is above the declared total"},
		},
		Stats: models.ValidationStats{Accounts: 2, Classified: 1, Unclassified: 1, Issues: 1},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected Format
		wantErr  bool
	}{
		{"json", FormatJSON, false},
		{"JSON", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"yml", FormatYAML, false},
		{"text", FormatText, false},
		{"", FormatText, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			f, err := ParseFormat(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, f)
		})
	}
}

func TestGenerator_ValidationReport_JSON(t *testing.T) {
	generator := NewGenerator(logging.NewMockLogger())

	out, err := generator.GenerateValidationReport(sampleResult(), FormatJSON)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, "planta_2024-03", decoded["report_id"])

	issues := decoded["issues"].([]interface{})
	require.Len(t, issues, 1)
	issue := issues[0].(map[string]interface{})
	assert.Equal(t, "MIXED_LEVEL4_SIBLINGS", issue["type"])
	assert.Equal(t, "250000", issue["financial_impact"])

	summary := decoded["summary"].(map[string]interface{})
	assert.Equal(t, false, summary["is_valid"])
}

func TestGenerator_ValidationReport_YAML(t *testing.T) {
	generator := NewGenerator(logging.NewMockLogger())

	out, err := generator.GenerateValidationReport(sampleResult(), FormatYAML)
	require.NoError(t, err)

	var decoded struct {
		ReportID string `yaml:"report_id"`
		Summary  struct {
			Variance map[string]string `yaml:"variance"`
			IsValid  bool              `yaml:"is_valid"`
		} `yaml:"summary"`
		Stats struct {
			Accounts int `yaml:"accounts"`
		} `yaml:"stats"`
	}
	require.NoError(t, yaml.Unmarshal(out, &decoded))
	assert.Equal(t, "planta_2024-03", decoded.ReportID)
	assert.Equal(t, "-50", decoded.Summary.Variance["Egresos"])
	assert.False(t, decoded.Summary.IsValid)
	assert.Equal(t, 2, decoded.Stats.Accounts)
}

func TestGenerator_ValidationReport_Text(t *testing.T) {
	generator := NewGenerator(nil)

	out, err := generator.GenerateValidationReport(sampleResult(), FormatText)
	require.NoError(t, err)
	text := string(out)

	assert.Contains(t, text, "Validation report planta_2024-03")
	assert.Contains(t, text, "Classified: 1 of 2 (50.0%)")
	assert.Contains(t, text, "Reconciliation: FAIL")
	assert.Contains(t, text, "-300.00")
	assert.Contains(t, text, "! Egresos: classified total is above the declared total")
	assert.Contains(t, text, " 4. MEDIUM   MIXED_LEVEL4_SIBLINGS 5000-1000-001-000 impact 250,000.00")
	assert.Contains(t, text, "auto-fixable: 1 suggestion(s)")
	assert.Contains(t, text, "CONTINUE_DETAIL")

	_, err = generator.GenerateValidationReport(nil, FormatJSON)
	assert.Error(t, err)
}

func TestGenerator_UnsupportedFormat(t *testing.T) {
	generator := NewGenerator(logging.NewMockLogger())

	_, err := generator.GenerateValidationReport(sampleResult(), Format("xml"))
	assert.Error(t, err)
	_, err = generator.GenerateImpactReport(models.ImpactSummary{}, Format("xml"))
	assert.Error(t, err)
}

func TestGenerator_HierarchyReport(t *testing.T) {
	generator := NewGenerator(logging.NewMockLogger())
	nodes := sampleResult().Nodes
	nodes = append(nodes, models.HierarchyNode{
		Code: "BADCODE", Malformed: true, ParentType: models.ParentRoot,
		Account:  models.Account{Code: "BADCODE", Concept: "Ajuste"},
		Warnings: []string{"could not parse account code"},
	})

	out, err := generator.GenerateHierarchyReport(nodes, FormatText)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(out), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "5000-0000-000-000 L1 Egresos -300.00 [ROOT]", lines[0])
	assert.Equal(t, "  5000-1000-000-000 L2 Materiales -300.00", lines[1])
	assert.Equal(t, "BADCODE L0 Ajuste 0.00 [ROOT]", lines[2])
	assert.Equal(t, "  ! could not parse account code", lines[3])

	out, err = generator.GenerateHierarchyReport(nodes, FormatJSON)
	require.NoError(t, err)
	var decoded []models.HierarchyNode
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Len(t, decoded, 3)
}

func TestGenerator_ReconciliationReport(t *testing.T) {
	generator := NewGenerator(logging.NewMockLogger())
	summary := models.ValidationSummary{
		HierarchyTotals:  map[string]decimal.Decimal{"Ingresos": decimal.NewFromInt(1000)},
		ClassifiedTotals: map[string]decimal.Decimal{"Ingresos": decimal.NewFromInt(1000)},
		Variance:         map[string]decimal.Decimal{"Ingresos": decimal.Zero},
		IsValid:          true,
	}

	out, err := generator.GenerateReconciliationReport(summary, FormatText)
	require.NoError(t, err)
	assert.Contains(t, string(out), "Reconciliation: PASS")
	assert.Contains(t, string(out), "Ingresos")
	assert.Contains(t, string(out), "1,000.00")

	out, err = generator.GenerateReconciliationReport(summary, FormatYAML)
	require.NoError(t, err)
	assert.Contains(t, string(out), "is_valid: true")
}

func TestGenerator_ImpactReport(t *testing.T) {
	generator := NewGenerator(logging.NewMockLogger())
	summary := models.ImpactSummary{
		RunID:                "run-1",
		RuleVersion:          3,
		AffectedReports:      1,
		AffectedRecords:      2,
		TotalFinancialImpact: decimal.NewFromInt(650),
		Reports: []models.ReportImpact{
			{ReportID: "a", AffectedRecords: 2, FinancialImpact: decimal.NewFromInt(650), IsValid: true},
			{ReportID: "b", Error: "report has no account rows"},
		},
	}

	out, err := generator.GenerateImpactReport(summary, FormatText)
	require.NoError(t, err)
	text := string(out)
	assert.Contains(t, text, "Retroactive run run-1 (rule version 3)")
	assert.Contains(t, text, "financial impact: 650.00")
	assert.Contains(t, text, "PASS records    2")
	assert.Contains(t, text, "ERROR report has no account rows")

	out, err = generator.GenerateImpactReport(summary, FormatJSON)
	require.NoError(t, err)
	var decoded models.ImpactSummary
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, "run-1", decoded.RunID)
	assert.True(t, decimal.NewFromInt(650).Equal(decoded.TotalFinancialImpact))
}
