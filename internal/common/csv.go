// Package common provides the CSV plumbing shared by the commands: reading
// report snapshots and exporting classification issues.
package common

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gocarina/gocsv"

	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/logging"
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/models"
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/parsererror"
)

// DefaultDelimiter is used when no delimiter is configured.
const DefaultDelimiter = ','

// ReportCSVFormat describes the expected report layout, used in format errors.
const ReportCSVFormat = "CSV with columns code, concept, credit, debit"

// reportCSVRow maps one report snapshot line. Amounts stay strings so that
// empty cells can be told apart from zero.
type reportCSVRow struct {
	Code    string `csv:"code"`
	Concept string `csv:"concept"`
	Credit  string `csv:"credit"`
	Debit   string `csv:"debit"`
}

// headerAliases maps accepted column names onto the struct tags above.
var headerAliases = map[string]string{
	"code":     "code",
	"codigo":   "code",
	"código":   "code",
	"cuenta":   "code",
	"concept":  "concept",
	"concepto": "concept",
	"credit":   "credit",
	"abonos":   "credit",
	"debit":    "debit",
	"cargos":   "debit",
}

// DelimiterRune returns the first rune of s, or DefaultDelimiter when s is empty.
func DelimiterRune(s string) rune {
	if r, size := utf8.DecodeRuneInString(s); size > 0 && r != utf8.RuneError {
		return r
	}
	return DefaultDelimiter
}

// ReadReportRows reads a report snapshot CSV file.
func ReadReportRows(filePath string, delimiter rune, logger logging.Logger) ([]models.ReportRow, error) {
	logger = logging.OrDefault(logger)
	logger.Info("Reading report CSV file", logging.F(logging.FieldFile, filePath))

	file, err := os.Open(filePath)
	if err != nil {
		logger.WithError(err).Error("Failed to open CSV file")
		return nil, fmt.Errorf("error opening CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close file")
		}
	}()

	rows, err := ParseReportRows(file, filePath, delimiter)
	if err != nil {
		logger.WithError(err).Error("Failed to parse CSV file")
		return nil, err
	}

	logger.Info("Successfully read report rows",
		logging.F(logging.FieldFile, filePath),
		logging.F(logging.FieldCount, len(rows)))
	return rows, nil
}

// ParseReportRows parses report rows from r. source names the input in
// errors. Blank lines are skipped; an input without any line yields no rows.
func ParseReportRows(r io.Reader, source string, delimiter rune) ([]models.ReportRow, error) {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("error reading CSV data from %s: %w", source, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	if err := normalizeHeader(records[0]); err != nil {
		return nil, &parsererror.InvalidFormatError{
			FilePath:       source,
			ExpectedFormat: ReportCSVFormat,
			Msg:            err.Error(),
		}
	}

	var csvRows []reportCSVRow
	if err := gocsv.UnmarshalCSV(&recordReader{records: records}, &csvRows); err != nil {
		return nil, fmt.Errorf("error parsing CSV data from %s: %w", source, err)
	}

	rows := make([]models.ReportRow, 0, len(csvRows))
	for i, csvRow := range csvRows {
		if csvRow == (reportCSVRow{}) {
			continue
		}
		row, err := csvRow.toReportRow(fmt.Sprintf("%s:%d", source, i+2))
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (r reportCSVRow) toReportRow(source string) (models.ReportRow, error) {
	credit, err := models.ParseAmount(r.Credit)
	if err != nil {
		return models.ReportRow{}, &parsererror.ParseError{Source: source, Field: "credit", Value: r.Credit, Err: err}
	}
	debit, err := models.ParseAmount(r.Debit)
	if err != nil {
		return models.ReportRow{}, &parsererror.ParseError{Source: source, Field: "debit", Value: r.Debit, Err: err}
	}
	return models.ReportRow{
		Code:    strings.TrimSpace(r.Code),
		Concept: strings.TrimSpace(r.Concept),
		Credit:  credit,
		Debit:   debit,
	}, nil
}

// normalizeHeader rewrites header cells in place to their canonical names and
// checks that the code column is present.
func normalizeHeader(header []string) error {
	hasCode := false
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if canonical, ok := headerAliases[key]; ok {
			key = canonical
		}
		header[i] = key
		if key == "code" {
			hasCode = true
		}
	}
	if !hasCode {
		return errors.New("missing account code column")
	}
	return nil
}

// recordReader replays already-read records to gocsv.
type recordReader struct {
	records [][]string
	next    int
}

func (r *recordReader) Read() ([]string, error) {
	if r.next >= len(r.records) {
		return nil, io.EOF
	}
	record := r.records[r.next]
	r.next++
	return record, nil
}

func (r *recordReader) ReadAll() ([][]string, error) {
	rest := r.records[r.next:]
	r.next = len(r.records)
	return rest, nil
}

// issueCSVRow is the flat export shape of a ClassificationIssue.
type issueCSVRow struct {
	Priority             int    `csv:"priority"`
	Type                 string `csv:"type"`
	Severity             string `csv:"severity"`
	Family               string `csv:"family"`
	ParentAccount        string `csv:"parent_account"`
	ClassifiedChildren   string `csv:"classified_children"`
	UnclassifiedChildren string `csv:"unclassified_children"`
	FinancialImpact      string `csv:"financial_impact"`
	CompletenessPct      string `csv:"completeness_pct"`
	AutoFixable          bool   `csv:"auto_fixable"`
	Message              string `csv:"message"`
}

func newIssueCSVRow(issue models.ClassificationIssue) issueCSVRow {
	completeness := ""
	if issue.CompletenessPct != nil {
		completeness = fmt.Sprintf("%.1f", *issue.CompletenessPct)
	}
	return issueCSVRow{
		Priority:             issue.PriorityRank,
		Type:                 string(issue.Type),
		Severity:             string(issue.Severity),
		Family:               issue.Family,
		ParentAccount:        issue.ParentAccount,
		ClassifiedChildren:   strings.Join(issue.ClassifiedChildren, " "),
		UnclassifiedChildren: strings.Join(issue.UnclassifiedChildren, " "),
		FinancialImpact:      issue.FinancialImpact.StringFixed(2),
		CompletenessPct:      completeness,
		AutoFixable:          issue.AutoFixable,
		Message:              issue.Message,
	}
}

// MarshalIssues writes issues as CSV to w, in the order given.
func MarshalIssues(w io.Writer, issues []models.ClassificationIssue, delimiter rune) error {
	rows := make([]issueCSVRow, 0, len(issues))
	for _, issue := range issues {
		rows = append(rows, newIssueCSVRow(issue))
	}

	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = delimiter
	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	return nil
}

// WriteIssuesToCSV writes issues to csvFile, creating its directory if needed.
func WriteIssuesToCSV(issues []models.ClassificationIssue, csvFile string, delimiter rune, logger logging.Logger) error {
	logger = logging.OrDefault(logger)
	if issues == nil {
		return fmt.Errorf("cannot write nil issues to CSV")
	}

	logger.Info("Writing issues to CSV file",
		logging.F(logging.FieldOutputFile, csvFile),
		logging.F(logging.FieldCount, len(issues)))

	if err := os.MkdirAll(filepath.Dir(csvFile), 0750); err != nil {
		logger.WithError(err).Error("Failed to create directory")
		return fmt.Errorf("error creating directory: %w", err)
	}

	file, err := os.Create(csvFile)
	if err != nil {
		logger.WithError(err).Error("Failed to create CSV file")
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close file")
		}
	}()

	if err := MarshalIssues(file, issues, delimiter); err != nil {
		logger.WithError(err).Error("Failed to marshal issues to CSV")
		return err
	}
	return nil
}
