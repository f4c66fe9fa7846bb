// Package errors defines the fatal error type used by the estimation
// pipeline. Per-file analysis problems are not errors in this sense; they
// accumulate on the metrics value. Anything constructed here aborts the
// whole run: silently falling back to a default complexity or zero hours
// would corrupt downstream effort estimates, which is worse than stopping.
package errors

import (
	"fmt"
)

// ErrorCode represents stable error codes for all fatal failure modes
type ErrorCode string

const (
	// ComponentTypeMissing indicates analyze was called without a component type
	ComponentTypeMissing ErrorCode = "COMPONENT_TYPE_MISSING"
	// RulesMissing indicates no complexity rule table is loaded at all
	RulesMissing ErrorCode = "RULES_MISSING"
	// RuleEntryMissing indicates the rule table has no entry for the component type
	RuleEntryMissing ErrorCode = "RULE_ENTRY_MISSING"
	// RuleUnmatched indicates no level in the rule table matched the LOC
	RuleUnmatched ErrorCode = "RULE_UNMATCHED"
	// TimeMetricsMissing indicates the time-metrics document was not found or invalid
	TimeMetricsMissing ErrorCode = "TIME_METRICS_MISSING"
	// TimeEntryMissing indicates a component type or label missing from the time table
	TimeEntryMissing ErrorCode = "TIME_ENTRY_MISSING"
	// SourceMissing indicates a component's source_location resolved to nothing
	SourceMissing ErrorCode = "SOURCE_MISSING"
	// NoFilesAnalyzed indicates zero files in a batch were successfully analyzed
	NoFilesAnalyzed ErrorCode = "NO_FILES_ANALYZED"
	// InternalError indicates an unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// FixActionType represents the type of fix action
type FixActionType string

const (
	// RunCommand suggests running a command
	RunCommand FixActionType = "run-command"
	// EditFile suggests editing a configuration file
	EditFile FixActionType = "edit-file"
	// OpenDocs suggests opening documentation
	OpenDocs FixActionType = "open-docs"
)

// FixAction represents a suggested fix for an error
type FixAction struct {
	Type        FixActionType `json:"type"`
	Command     string        `json:"command,omitempty"`
	File        string        `json:"file,omitempty"`
	Description string        `json:"description,omitempty"`
	URL         string        `json:"url,omitempty"`
}

// ScanError represents a fatal studioscan error with code, message, and
// suggested fixes. It always propagates to the top-level command handler.
type ScanError struct {
	Code           ErrorCode   `json:"code"`
	Message        string      `json:"message"`
	Details        interface{} `json:"details,omitempty"`
	SuggestedFixes []FixAction `json:"suggestedFixes,omitempty"`
	cause          error
}

// NewScanError creates a new ScanError, attaching the default suggested
// fixes for the code.
func NewScanError(code ErrorCode, message string, cause error) *ScanError {
	return &ScanError{
		Code:           code,
		Message:        message,
		cause:          cause,
		SuggestedFixes: GetSuggestedFixes(code),
	}
}

// Error implements the error interface
func (e *ScanError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *ScanError) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *ScanError) WithDetails(details interface{}) *ScanError {
	e.Details = details
	return e
}

// ErrorActions maps error codes to suggested fix actions
var ErrorActions = map[ErrorCode][]FixAction{
	RulesMissing: {
		{
			Type:        EditFile,
			File:        "time_metrics.json",
			Description: "Add a complexity_rules section with per-component-type LOC thresholds",
		},
	},
	RuleEntryMissing: {
		{
			Type:        EditFile,
			File:        "time_metrics.json",
			Description: "Add rules for this component type under complexity_rules",
		},
	},
	RuleUnmatched: {
		{
			Type:        EditFile,
			File:        "time_metrics.json",
			Description: "Check the level thresholds; simple/medium/complex need max_loc and very_complex needs min_loc",
		},
	},
	TimeMetricsMissing: {
		{
			Type:        RunCommand,
			Command:     "cp templates/time_metrics.json .",
			Description: "Copy the template time-metrics document into the project",
		},
	},
	ComponentTypeMissing: {
		{
			Type:        RunCommand,
			Command:     "studioscan complexity --type <field|view|server_action|automation|report> ...",
			Description: "Pass the component type; complexity rules are type-specific",
		},
	},
}

// GetSuggestedFixes returns suggested fixes for an error code
func GetSuggestedFixes(code ErrorCode) []FixAction {
	if fixes, ok := ErrorActions[code]; ok {
		return fixes
	}
	return nil
}
