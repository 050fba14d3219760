package common

import (
	"path/filepath"
	"regexp"
	"strings"
)

// ReportIdentifier is the identity of a report snapshot derived from its file name.
type ReportIdentifier struct {
	ID     string // Full report ID, e.g. "planta-norte_2024-03"
	Entity string // Reporting entity, e.g. "planta-norte"
	Period string // Period as YYYY-MM, empty when unknown
	Source string // "filename" or "default"
}

// Report filename pattern: {entity}_{YYYY-MM}.csv
// Example: planta-norte_2024-03.csv
var reportFilenamePattern = regexp.MustCompile(`^(.+)_(\d{4}-(?:0[1-9]|1[0-2]))\.csv$`)

// ExtractReportFromFilename derives the report identity from a snapshot file
// name. Names that do not follow the {entity}_{YYYY-MM}.csv pattern fall back
// to the sanitized base name, used as both ID and entity.
func ExtractReportFromFilename(filename string) ReportIdentifier {
	baseName := filepath.Base(filename)

	matches := reportFilenamePattern.FindStringSubmatch(strings.ToLower(baseName))
	if len(matches) == 3 {
		entity := SanitizeReportID(matches[1])
		return ReportIdentifier{
			ID:     entity + "_" + matches[2],
			Entity: entity,
			Period: matches[2],
			Source: "filename",
		}
	}

	baseWithoutExt := strings.TrimSuffix(baseName, filepath.Ext(baseName))
	id := SanitizeReportID(baseWithoutExt)
	return ReportIdentifier{
		ID:     id,
		Entity: id,
		Source: "default",
	}
}

// SanitizeReportID makes an identifier filesystem-safe.
// Path traversal sequences like ".." are removed.
func SanitizeReportID(id string) string {
	sanitized := strings.TrimSpace(id)
	sanitized = strings.ReplaceAll(sanitized, " ", "_")

	// Keep alphanumeric, underscores, hyphens, and dots
	var result strings.Builder
	for _, r := range sanitized {
		if (r >= 'a' && r <= 'z') ||
			(r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') ||
			r == '_' || r == '-' || r == '.' {
			result.WriteRune(r)
		} else {
			result.WriteRune('_')
		}
	}
	sanitized = result.String()

	for strings.Contains(sanitized, "..") {
		sanitized = strings.ReplaceAll(sanitized, "..", "_")
	}
	for strings.Contains(sanitized, "__") {
		sanitized = strings.ReplaceAll(sanitized, "__", "_")
	}
	sanitized = strings.Trim(sanitized, "_.")

	if sanitized == "" {
		sanitized = "UNKNOWN"
	}
	return sanitized
}
