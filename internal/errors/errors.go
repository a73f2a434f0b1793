package errors

import (
	"fmt"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   appErr,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// GetCode returns the error code if it's an AppError, otherwise "UNKNOWN"
func GetCode(err error) string {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return "UNKNOWN"
}

// Is reports whether err carries the given code.
func Is(err error, code string) bool {
	return GetCode(err) == code
}

// Error codes. The first group is the projection pipeline's taxonomy; only
// CodeNoCensusData is fatal to a render, the rest recover locally.
const (
	CodeMissingFile           = "MISSING_FILE"
	CodeEmptyFilterResult     = "EMPTY_FILTER_RESULT"
	CodeEmptyMetricSelection  = "EMPTY_METRIC_SELECTION"
	CodeMissingProbabilityRow = "MISSING_PROBABILITY_ROW"
	CodeNoCensusData          = "NO_CENSUS_DATA"

	CodeConfigInvalid = "CONFIG_INVALID"
	CodeDatabaseError = "DATABASE_ERROR"
	CodeNotFound      = "NOT_FOUND"
	CodeInvalidInput  = "INVALID_INPUT"
	CodeInternalError = "INTERNAL_ERROR"
)

// Common error constructors
func MissingFile(path string) *AppError {
	return New(CodeMissingFile, fmt.Sprintf("file not found: %s", path))
}

func EmptyFilterResult(message string) *AppError {
	return New(CodeEmptyFilterResult, message)
}

func EmptyMetricSelection() *AppError {
	return New(CodeEmptyMetricSelection, "at least one metric (UE/PO) must be selected")
}

func MissingProbabilityRow(message string) *AppError {
	return New(CodeMissingProbabilityRow, message)
}

func NoCensusData() *AppError {
	return New(CodeNoCensusData, "no usable census data could be loaded")
}

func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func DatabaseError(message string) *AppError {
	return New(CodeDatabaseError, message)
}

func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}
