package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorCategory represents different categories of errors
type ErrorCategory string

const (
	CategoryFile          ErrorCategory = "file"
	CategoryParse         ErrorCategory = "parse"
	CategoryValidation    ErrorCategory = "validation"
	CategoryConfiguration ErrorCategory = "configuration"
	CategoryComputation   ErrorCategory = "computation"
	CategoryRegistry      ErrorCategory = "registry"
)

// ErrorCode represents specific error codes within categories
type ErrorCode string

const (
	// File errors
	CodeFileNotFound   ErrorCode = "file_not_found"
	CodeFilePermission ErrorCode = "file_permission"

	// Parse errors
	CodeInvalidFormat ErrorCode = "invalid_format"
	CodeMissingColumn ErrorCode = "missing_column"
	CodeEmptyFile     ErrorCode = "empty_file"

	// Validation errors
	CodeMissingField ErrorCode = "missing_field"
	CodeOutOfRange   ErrorCode = "out_of_range"

	// Configuration errors
	CodeInvalidConfig ErrorCode = "invalid_config"
	CodeMissingConfig ErrorCode = "missing_config"

	// Computation errors
	CodeInsufficientData ErrorCode = "insufficient_data"
	CodeProcessingError  ErrorCode = "processing_error"

	// Registry errors
	CodeDashboardNotFound  ErrorCode = "dashboard_not_found"
	CodeMetricNotFound     ErrorCode = "metric_not_found"
	CodeDuplicateDashboard ErrorCode = "duplicate_dashboard"
	CodeDuplicateMetric    ErrorCode = "duplicate_metric"
)

// EngineError is the base error type for all application errors
type EngineError struct {
	Category   ErrorCategory     `json:"category"`
	Code       ErrorCode         `json:"code"`
	Message    string            `json:"message"`
	Suggestion string            `json:"suggestion,omitempty"`
	Context    Context           `json:"context,omitempty"`
	Cause      error             `json:"-"`
	StackTrace errors.StackTrace `json:"-"`
}

// Context provides additional information about the error
type Context map[string]interface{}

// Error implements the error interface
func (e *EngineError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%s (suggestion: %s)", e.Message, e.Suggestion)
	}
	return e.Message
}

// Unwrap returns the underlying cause error
func (e *EngineError) Unwrap() error {
	return e.Cause
}

// GetExitCode returns an appropriate exit code for the error
func (e *EngineError) GetExitCode() int {
	switch e.Category {
	case CategoryFile:
		return 2
	case CategoryParse, CategoryValidation:
		return 3
	case CategoryConfiguration:
		return 4
	case CategoryComputation:
		return 5
	case CategoryRegistry:
		return 6
	default:
		return 1
	}
}

// WithContext adds context information to the error
func (e *EngineError) WithContext(key string, value interface{}) *EngineError {
	if e.Context == nil {
		e.Context = make(Context)
	}
	e.Context[key] = value
	return e
}

// WithSuggestion adds a suggestion for fixing the error
func (e *EngineError) WithSuggestion(suggestion string) *EngineError {
	e.Suggestion = suggestion
	return e
}

// New creates a new EngineError
func New(category ErrorCategory, code ErrorCode, message string) *EngineError {
	return &EngineError{
		Category:   category,
		Code:       code,
		Message:    message,
		StackTrace: errors.New("").(stackTracer).StackTrace(),
	}
}

// Wrap wraps an existing error with EngineError context
func Wrap(err error, category ErrorCategory, code ErrorCode, message string) *EngineError {
	if err == nil {
		return nil
	}

	return &EngineError{
		Category:   category,
		Code:       code,
		Message:    message,
		Cause:      err,
		StackTrace: errors.WithStack(err).(stackTracer).StackTrace(),
	}
}

// stackTracer interface for extracting stack traces
type stackTracer interface {
	StackTrace() errors.StackTrace
}

// Specific error constructors

// FileError creates a file-related error
func FileError(code ErrorCode, path string, err error) *EngineError {
	var message string
	var suggestion string

	switch code {
	case CodeFileNotFound:
		message = fmt.Sprintf("file not found: %s", path)
		suggestion = "check if the file path is correct and the file exists"
	case CodeFilePermission:
		message = fmt.Sprintf("permission denied accessing file: %s", path)
		suggestion = "check file permissions and ensure you have read access"
	default:
		message = fmt.Sprintf("file error: %s", path)
		suggestion = "check the file and try again"
	}

	var result *EngineError
	if err != nil {
		result = Wrap(err, CategoryFile, code, message)
	} else {
		result = New(CategoryFile, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("file_path", path)
}

// ParseError creates a parsing-related error for structural problems in a
// snapshot file. Cell-level coercion is lenient by design and never produces
// an error; only missing columns or unreadable files surface here.
func ParseError(code ErrorCode, file string, detail string, err error) *EngineError {
	var message string
	var suggestion string

	switch code {
	case CodeMissingColumn:
		message = fmt.Sprintf("missing required column '%s' in file %s", detail, file)
		suggestion = "verify the file has all required columns with correct headers"
	case CodeEmptyFile:
		message = fmt.Sprintf("file %s contains no data rows", file)
		suggestion = "check that the snapshot export completed"
	case CodeInvalidFormat:
		message = fmt.Sprintf("invalid format in file %s: %s", file, detail)
		suggestion = "check the delimiter and header configuration"
	default:
		message = fmt.Sprintf("parse error in file %s: %s", file, detail)
		suggestion = "check the file format and data integrity"
	}

	var result *EngineError
	if err != nil {
		result = Wrap(err, CategoryParse, code, message)
	} else {
		result = New(CategoryParse, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("file", file).
		WithContext("detail", detail)
}

// ValidationError creates a validation-related error
func ValidationError(code ErrorCode, field string, value interface{}, err error) *EngineError {
	var message string
	var suggestion string

	switch code {
	case CodeMissingField:
		message = fmt.Sprintf("required field '%s' is missing or empty", field)
		suggestion = "provide a value for this required field"
	case CodeOutOfRange:
		message = fmt.Sprintf("value out of range in field '%s': %v", field, value)
		suggestion = "ensure the value is within the acceptable range"
	default:
		message = fmt.Sprintf("validation error in field '%s': %v", field, value)
		suggestion = "check the field value and format"
	}

	var result *EngineError
	if err != nil {
		result = Wrap(err, CategoryValidation, code, message)
	} else {
		result = New(CategoryValidation, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("field", field).
		WithContext("value", value)
}

// ConfigurationError creates a configuration-related error
func ConfigurationError(code ErrorCode, setting string, value interface{}, err error) *EngineError {
	var message string
	var suggestion string

	switch code {
	case CodeInvalidConfig:
		message = fmt.Sprintf("invalid configuration for '%s': %v", setting, value)
		suggestion = "check the configuration documentation for valid values"
	case CodeMissingConfig:
		message = fmt.Sprintf("missing required configuration: %s", setting)
		suggestion = "provide this configuration setting or use a config file"
	default:
		message = fmt.Sprintf("configuration error: %s", setting)
		suggestion = "check your configuration and try again"
	}

	var result *EngineError
	if err != nil {
		result = Wrap(err, CategoryConfiguration, code, message)
	} else {
		result = New(CategoryConfiguration, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("setting", setting).
		WithContext("value", value)
}

// ComputationError creates an error for a failed KPI computation step
func ComputationError(code ErrorCode, operation string, err error) *EngineError {
	var message string
	var suggestion string

	switch code {
	case CodeInsufficientData:
		message = fmt.Sprintf("insufficient data for %s", operation)
		suggestion = "provide more history points or a larger snapshot"
	case CodeProcessingError:
		message = fmt.Sprintf("processing error during %s", operation)
		suggestion = "review the snapshot data and configuration"
	default:
		message = fmt.Sprintf("computation error during %s", operation)
		suggestion = "review the snapshot data and configuration"
	}

	var result *EngineError
	if err != nil {
		result = Wrap(err, CategoryComputation, code, message)
	} else {
		result = New(CategoryComputation, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("operation", operation)
}

// DashboardNotFound creates a not-found error for a dashboard lookup.
// A missing id indicates a programming or configuration error, so registry
// lookups fail fast instead of degrading.
func DashboardNotFound(dashboardID string) *EngineError {
	return New(CategoryRegistry, CodeDashboardNotFound,
		fmt.Sprintf("dashboard not found: %s", dashboardID)).
		WithSuggestion("register the dashboard before querying it").
		WithContext("dashboard_id", dashboardID)
}

// MetricNotFound creates a not-found error for a metric lookup
func MetricNotFound(dashboardID, metricID string) *EngineError {
	return New(CategoryRegistry, CodeMetricNotFound,
		fmt.Sprintf("metric not found: %s (dashboard %s)", metricID, dashboardID)).
		WithSuggestion("check the metric id against the dashboard definition").
		WithContext("dashboard_id", dashboardID).
		WithContext("metric_id", metricID)
}

// DuplicateDashboard creates an error for registering an already-present id
func DuplicateDashboard(dashboardID string) *EngineError {
	return New(CategoryRegistry, CodeDuplicateDashboard,
		fmt.Sprintf("dashboard already registered: %s", dashboardID)).
		WithSuggestion("choose a unique dashboard id").
		WithContext("dashboard_id", dashboardID)
}

// DuplicateMetric creates an error for adding a metric id twice to a dashboard
func DuplicateMetric(dashboardID, metricID string) *EngineError {
	return New(CategoryRegistry, CodeDuplicateMetric,
		fmt.Sprintf("metric already registered: %s (dashboard %s)", metricID, dashboardID)).
		WithSuggestion("choose a unique metric id within the dashboard").
		WithContext("dashboard_id", dashboardID).
		WithContext("metric_id", metricID)
}

// Utility functions

// IsEngineError checks if an error is an EngineError
func IsEngineError(err error) bool {
	_, ok := err.(*EngineError)
	return ok
}

// AsEngineError extracts an EngineError from an error chain
func AsEngineError(err error) (*EngineError, bool) {
	var engineErr *EngineError
	if errors.As(err, &engineErr) {
		return engineErr, true
	}
	return nil, false
}

// IsNotFound reports whether the error is a registry not-found condition
func IsNotFound(err error) bool {
	engineErr, ok := AsEngineError(err)
	if !ok {
		return false
	}
	return engineErr.Code == CodeDashboardNotFound || engineErr.Code == CodeMetricNotFound
}

// WrapIfNeeded wraps an error if it's not already an EngineError
func WrapIfNeeded(err error, category ErrorCategory, code ErrorCode, message string) *EngineError {
	if err == nil {
		return nil
	}

	if engineErr, ok := AsEngineError(err); ok {
		return engineErr
	}

	return Wrap(err, category, code, message)
}
