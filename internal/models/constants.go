package models

// Code segment sentinels. A segment made only of zeros means "no deeper level".
const (
	ZeroSegment2  = "0000"
	ZeroSegment34 = "000"

	// DefaultCode is the degraded code shape used when a raw code cannot be parsed.
	DefaultCode = "0000-0000-000-000"
)

// DefaultClassificationValue is the placeholder the rule table uses for a
// classification field that has not been assigned.
const DefaultClassificationValue = "Sin Clasificación"

// Top-level report categories.
const (
	CategoryIngresos = "Ingresos"
	CategoryEgresos  = "Egresos"
)

// File permissions
const (
	PermissionConfigFile = 0600
	PermissionDirectory  = 0750
	PermissionReportFile = 0644
)
