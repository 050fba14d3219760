package validate

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/config"
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/container"
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/logging"
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/models"
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/store"
)

const reportCSV = `code,concept,credit,debit
4100-0000-000-000,Ingresos,1000,
4100-1000-001-000,Ventas planta,1000,
4100-1000-001-101,Venta A,600,
4100-1000-001-102,Venta B,400,
`

var ventas = models.Classification{Tipo: "Ingresos", Categoria1: "Ventas", SubCategoria: "Concreto"}

func newTestContainer(t *testing.T, classified ...string) *container.Container {
	t.Helper()
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("log:\n  level: error\n"), 0600))
	cfg, err := config.InitializeConfigFromFile(cfgPath)
	require.NoError(t, err)

	ruleStore := &store.MockRuleStore{}
	for _, code := range classified {
		ruleStore.Set.Rules = append(ruleStore.Set.Rules, models.ClassificationRule{Code: code, Classification: ventas})
	}
	c, err := container.NewContainerWithStore(cfg, ruleStore, logging.NewMockLogger())
	require.NoError(t, err)
	return c
}

func writeReport(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "planta-norte_2024-03.csv")
	require.NoError(t, os.WriteFile(path, []byte(reportCSV), 0600))
	return path
}

func TestRun_JSONWithIssuesCSV(t *testing.T) {
	c := newTestContainer(t, "4100-1000-001-101")
	issuesPath := filepath.Join(t.TempDir(), "issues.csv")

	var out bytes.Buffer
	err := Run(c, Options{Input: writeReport(t), Format: "json", IssuesCSV: issuesPath}, &out)
	require.NoError(t, err)

	var result models.ValidationResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	assert.Equal(t, "planta-norte_2024-03", result.ReportID)
	assert.Len(t, result.Nodes, 4)
	assert.False(t, result.Summary.IsValid)

	require.NotEmpty(t, result.Issues)
	assert.Equal(t, models.IssueMixedLevel4Siblings, result.Issues[0].Type)
	assert.Equal(t, []string{"4100-1000-001-102"}, result.Issues[0].UnclassifiedChildren)

	content, err := os.ReadFile(issuesPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	assert.Len(t, lines, len(result.Issues)+1)
	assert.Contains(t, lines[1], "MIXED_LEVEL4_SIBLINGS")
}

func TestRun_TextToFile(t *testing.T) {
	c := newTestContainer(t, "4100-1000-001-101", "4100-1000-001-102")
	outputPath := filepath.Join(t.TempDir(), "result.txt")

	var out bytes.Buffer
	require.NoError(t, Run(c, Options{Input: writeReport(t), Output: outputPath, Format: "text", Strict: true}, &out))
	assert.Empty(t, out.String())

	content, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Validation report planta-norte_2024-03")
	assert.Contains(t, string(content), "Reconciliation: PASS")
	assert.Contains(t, string(content), "Issues (0)")
}

func TestRun_Strict(t *testing.T) {
	c := newTestContainer(t, "4100-1000-001-101")

	var out bytes.Buffer
	err := Run(c, Options{Input: writeReport(t), Format: "yaml", Strict: true}, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed validation")
	assert.Contains(t, out.String(), "report_id: planta-norte_2024-03", "output is written before failing")
}

func TestRun_Errors(t *testing.T) {
	c := newTestContainer(t)
	var out bytes.Buffer

	assert.Error(t, Run(nil, Options{Input: "x.csv"}, &out))
	assert.Error(t, Run(c, Options{Input: writeReport(t), Format: "xml"}, &out))
	assert.Error(t, Run(c, Options{Format: "text"}, &out))

	empty := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(empty, []byte("code,concept,credit,debit\n"), 0600))
	err := Run(c, Options{Input: empty, Format: "text"}, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no account rows")
}
