package logging

// Standardized field names for structured logging across the engine.
const (
	FieldFile        = "file_path"
	FieldComponent   = "component"
	FieldOperation   = "operation"
	FieldStatus      = "status"
	FieldError       = "error"
	FieldDuration    = "duration_ms"
	FieldCount       = "count"
	FieldCode        = "account_code"
	FieldFamily      = "family"
	FieldLevel       = "level"
	FieldParent      = "parent"
	FieldParentType  = "parent_type"
	FieldDetectedBy  = "detected_by"
	FieldCategory    = "category"
	FieldSeverity    = "severity"
	FieldIssueType   = "issue_type"
	FieldAmount      = "amount"
	FieldVariance    = "variance"
	FieldReportID    = "report_id"
	FieldRunID       = "run_id"
	FieldRuleVersion = "rule_version"
	FieldInputFile   = "input_file"
	FieldOutputFile  = "output_file"
)
