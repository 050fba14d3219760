// Package batch discovers report snapshot files and loads them as a batch
// for the retroactive recomputation.
package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/common"
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/logging"
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/models"
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/retro"
)

// DateRange represents a date range with start and end dates
type DateRange struct {
	Start time.Time
	End   time.Time
}

// String returns the date range in the format "YYYY-MM-DD_YYYY-MM-DD"
func (dr DateRange) String() string {
	if dr.Start.IsZero() || dr.End.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s_%s",
		dr.Start.Format("2006-01-02"),
		dr.End.Format("2006-01-02"))
}

// Merge combines this date range with another, returning the overall range
func (dr DateRange) Merge(other DateRange) DateRange {
	start := dr.Start
	end := dr.End

	if dr.Start.IsZero() {
		start = other.Start
	} else if !other.Start.IsZero() && other.Start.Before(start) {
		start = other.Start
	}

	if dr.End.IsZero() {
		end = other.End
	} else if !other.End.IsZero() && other.End.After(end) {
		end = other.End
	}

	return DateRange{Start: start, End: end}
}

// PeriodRange expands a YYYY-MM period into its first and last day.
// Unparseable periods yield a zero range.
func PeriodRange(period string) DateRange {
	start, err := time.Parse("2006-01", period)
	if err != nil {
		return DateRange{}
	}
	return DateRange{Start: start, End: start.AddDate(0, 1, -1)}
}

// FileGroup is the set of snapshot files of one reporting entity.
type FileGroup struct {
	Entity    string
	Files     []string
	DateRange DateRange
}

// ParseFunc reads the rows of one snapshot file.
type ParseFunc func(path string) ([]models.ReportRow, error)

// Loader discovers and loads report snapshots.
type Loader struct {
	logger logging.Logger
}

// NewLoader creates a new Loader instance
func NewLoader(logger logging.Logger) *Loader {
	return &Loader{
		logger: logging.OrDefault(logger),
	}
}

// DiscoverFiles lists the CSV files directly inside dir, sorted by name.
func (l *Loader) DiscoverFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("error reading report directory %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)

	l.logger.Debug("Discovered report files",
		logging.F(logging.FieldFile, dir),
		logging.F(logging.FieldCount, len(files)))
	return files, nil
}

// GroupFilesByEntity groups snapshot files by reporting entity, merging the
// periods found in their names.
func (l *Loader) GroupFilesByEntity(files []string) []FileGroup {
	groups := make(map[string]*FileGroup)

	for _, file := range files {
		report := common.ExtractReportFromFilename(file)

		l.logger.Debug("File mapped to report",
			logging.F(logging.FieldFile, filepath.Base(file)),
			logging.F(logging.FieldReportID, report.ID),
			logging.F("source", report.Source))

		group, exists := groups[report.Entity]
		if !exists {
			group = &FileGroup{Entity: report.Entity}
			groups[report.Entity] = group
		}
		group.Files = append(group.Files, file)
		group.DateRange = group.DateRange.Merge(PeriodRange(report.Period))
	}

	result := make([]FileGroup, 0, len(groups))
	for _, group := range groups {
		result = append(result, *group)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Entity < result[j].Entity
	})

	l.logger.Info("Grouped report files",
		logging.F("total_files", len(files)),
		logging.F("entities", len(result)))
	return result
}

// LoadReports parses every file into a retro.Report keyed by the report ID
// derived from its name. Files that fail to parse are skipped and logged;
// a second file claiming an already-loaded report ID is skipped too.
// The result is sorted by report ID.
func (l *Loader) LoadReports(files []string, parseFunc ParseFunc) []retro.Report {
	seen := make(map[string]string, len(files))
	reports := make([]retro.Report, 0, len(files))

	for _, file := range files {
		id := common.ExtractReportFromFilename(file).ID
		if first, dup := seen[id]; dup {
			l.logger.Warn("Duplicate report ID, keeping first file",
				logging.F(logging.FieldReportID, id),
				logging.F(logging.FieldFile, filepath.Base(file)),
				logging.F("kept_file", filepath.Base(first)))
			continue
		}

		rows, err := parseFunc(file)
		if err != nil {
			l.logger.WithError(err).Error("Failed to parse report file",
				logging.F(logging.FieldFile, file))
			continue
		}
		seen[id] = file

		l.detectAndLogDuplicates(rows, id)
		reports = append(reports, retro.Report{ID: id, Rows: rows})
	}

	sort.Slice(reports, func(i, j int) bool {
		return reports[i].ID < reports[j].ID
	})

	l.logger.Info("Loaded reports",
		logging.F(logging.FieldCount, len(reports)),
		logging.F("files", len(files)))
	return reports
}

// Batch is a loaded set of report snapshots.
type Batch struct {
	Reports []retro.Report
	Groups  []FileGroup
}

// Period merges the date ranges of every group.
func (b Batch) Period() DateRange {
	var period DateRange
	for _, group := range b.Groups {
		period = period.Merge(group.DateRange)
	}
	return period
}

// LoadDirectory discovers and loads every snapshot in dir.
func (l *Loader) LoadDirectory(dir string, parseFunc ParseFunc) (Batch, error) {
	files, err := l.DiscoverFiles(dir)
	if err != nil {
		return Batch{}, err
	}
	return Batch{
		Reports: l.LoadReports(files, parseFunc),
		Groups:  l.GroupFilesByEntity(files),
	}, nil
}

// detectAndLogDuplicates warns about account codes that appear more than once
// in a report. Rows are kept; the hierarchy builder reports them too.
func (l *Loader) detectAndLogDuplicates(rows []models.ReportRow, reportID string) {
	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		code := strings.TrimSpace(row.Code)
		if code == "" {
			continue
		}
		counts[code]++
	}

	duplicates := 0
	for code, n := range counts {
		if n > 1 {
			duplicates++
			l.logger.Warn("Duplicate account code in report",
				logging.F(logging.FieldReportID, reportID),
				logging.Code(code),
				logging.F(logging.FieldCount, n))
		}
	}

	if duplicates > 0 {
		l.logger.Warn("Found duplicate account codes",
			logging.F(logging.FieldCount, duplicates),
			logging.F(logging.FieldReportID, reportID))
	}
}

// GenerateOutputFilename builds the name of a per-entity output file:
// {entity}_{start}_{end}.{ext}, or {entity}.{ext} without a date range.
func GenerateOutputFilename(entity string, dateRange DateRange, ext string) string {
	sanitized := common.SanitizeReportID(entity)
	ext = strings.TrimPrefix(ext, ".")

	if !dateRange.Start.IsZero() && !dateRange.End.IsZero() {
		return fmt.Sprintf("%s_%s.%s", sanitized, dateRange.String(), ext)
	}
	return fmt.Sprintf("%s.%s", sanitized, ext)
}
