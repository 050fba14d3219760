package common

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/logging"
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/models"
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/parsererror"
)

func TestReadReportRows(t *testing.T) {
	csvContent := `code,concept,credit,debit
4100-0000-000-000,Ingresos,"1,000.00",
4100-1000-001-001,Venta concreto,600,
5000-1000-001-001,Cemento,,250.50
,,,
5000-1000-001-002,Arena,(10),`

	path := filepath.Join(t.TempDir(), "planta_2024-03.csv")
	require.NoError(t, os.WriteFile(path, []byte(csvContent), 0600))

	logger := logging.NewMockLogger()
	rows, err := ReadReportRows(path, DefaultDelimiter, logger)
	require.NoError(t, err)
	require.Len(t, rows, 4, "the blank line is skipped")

	assert.Equal(t, "4100-0000-000-000", rows[0].Code)
	assert.Equal(t, "Ingresos", rows[0].Concept)
	require.NotNil(t, rows[0].Credit)
	assert.True(t, decimal.NewFromInt(1000).Equal(*rows[0].Credit))
	assert.Nil(t, rows[0].Debit)

	assert.Nil(t, rows[2].Credit)
	require.NotNil(t, rows[2].Debit)
	assert.Equal(t, "250.5", rows[2].Debit.String())
	assert.True(t, decimal.RequireFromString("-250.5").Equal(rows[2].Amount()))

	require.NotNil(t, rows[3].Credit)
	assert.True(t, decimal.NewFromInt(-10).Equal(*rows[3].Credit))

	assert.True(t, logger.HasEntry("INFO", "Successfully read report rows"))

	_, err = ReadReportRows(filepath.Join(t.TempDir(), "missing.csv"), DefaultDelimiter, logger)
	assert.Error(t, err)
}

func TestParseReportRows_SpanishHeadersAndDelimiter(t *testing.T) {
	csvContent := "\ufeffCódigo;Concepto;Abonos;Cargos\n" +
		"1000-2000-001-001; Caja ;100;\n"

	rows, err := ParseReportRows(strings.NewReader(csvContent), "test", ';')
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "1000-2000-001-001", rows[0].Code)
	assert.Equal(t, "Caja", rows[0].Concept)
	assert.True(t, decimal.NewFromInt(100).Equal(rows[0].Amount()))
}

func TestParseReportRows_Errors(t *testing.T) {
	t.Run("missing code column", func(t *testing.T) {
		_, err := ParseReportRows(strings.NewReader("name,credit\nx,1\n"), "bad.csv", ',')
		var formatErr *parsererror.InvalidFormatError
		require.ErrorAs(t, err, &formatErr)
		assert.Equal(t, "bad.csv", formatErr.FilePath)
	})

	t.Run("bad amount", func(t *testing.T) {
		_, err := ParseReportRows(strings.NewReader("code,concept,credit,debit\n1000-0000-000-000,x,abc,\n"), "bad.csv", ',')
		var parseErr *parsererror.ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Equal(t, "bad.csv:2", parseErr.Source)
		assert.Equal(t, "credit", parseErr.Field)
		assert.Equal(t, "abc", parseErr.Value)
	})

	t.Run("ragged line", func(t *testing.T) {
		_, err := ParseReportRows(strings.NewReader("code,concept\n1000-0000-000-000\n"), "bad.csv", ',')
		assert.Error(t, err)
	})
}

func TestParseReportRows_Empty(t *testing.T) {
	rows, err := ParseReportRows(strings.NewReader(""), "empty.csv", ',')
	require.NoError(t, err)
	assert.Empty(t, rows)

	rows, err = ParseReportRows(strings.NewReader("code,concept,credit,debit\n"), "header.csv", ',')
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestDelimiterRune(t *testing.T) {
	assert.Equal(t, ';', DelimiterRune(";"))
	assert.Equal(t, '\t', DelimiterRune("\t"))
	assert.Equal(t, DefaultDelimiter, DelimiterRune(""))
}

func sampleIssues() []models.ClassificationIssue {
	pct := 50.0
	return []models.ClassificationIssue{
		{
			Type:                 models.IssueMixedLevel4Siblings,
			Severity:             models.SeverityMedium,
			Family:               "5000",
			ParentAccount:        "5000-1000-001-000",
			ClassifiedChildren:   []string{"5000-1000-001-001"},
			UnclassifiedChildren: []string{"5000-1000-001-002"},
			FinancialImpact:      decimal.NewFromInt(250000),
			CompletenessPct:      &pct,
			Message:              "mixed siblings",
			AutoFixable:          true,
			PriorityRank:         4,
		},
		{
			Type:            models.IssueOrphanAccount,
			Severity:        models.SeverityLow,
			ParentAccount:   "BADCODE",
			FinancialImpact: decimal.Zero,
			Message:         "could not parse account code",
			PriorityRank:    6,
		},
	}
}

func TestWriteIssuesToCSV(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "out", "issues.csv")
	logger := logging.NewMockLogger()

	require.NoError(t, WriteIssuesToCSV(sampleIssues(), outputPath, ';', logger))

	content, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "priority;type;severity;family;parent_account"))
	assert.Contains(t, lines[1], "MIXED_LEVEL4_SIBLINGS;MEDIUM;5000;5000-1000-001-000")
	assert.Contains(t, lines[1], "250000.00;50.0;true;mixed siblings")
	assert.Contains(t, lines[2], "ORPHAN_ACCOUNT;LOW;;BADCODE")

	assert.Error(t, WriteIssuesToCSV(nil, outputPath, ';', logger))
}

func TestMarshalIssues_Empty(t *testing.T) {
	var b strings.Builder
	require.NoError(t, MarshalIssues(&b, []models.ClassificationIssue{}, ','))
	assert.Contains(t, b.String(), "priority,type,severity")
}
