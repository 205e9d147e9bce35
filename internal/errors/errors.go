// Package errors defines the error taxonomy of a marker-drift run.
//
// Setup errors abort the run before any file is processed. Conversion and
// detection errors are scoped to one source file or one file/quality pair;
// the analysis driver logs them, excludes the pair and keeps going. Cleanup
// errors are only ever logged.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeSetup      ErrorType = "setup"
	ErrorTypeConversion ErrorType = "conversion"
	ErrorTypeDetection  ErrorType = "detection"
	ErrorTypeReport     ErrorType = "report"
	ErrorTypeCleanup    ErrorType = "cleanup"
)

// AppError represents a structured application error
type AppError struct {
	Type    ErrorType
	Message string
	// File is the image the error is about, when there is one.
	File  string
	Cause error
}

// Error implements the error interface
func (e *AppError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Type, e.Message)
	if e.File != "" {
		msg = fmt.Sprintf("%s [%s]", msg, e.File)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s (caused by: %v)", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewSetupError creates an error for an unusable run configuration.
func NewSetupError(message string, cause error) *AppError {
	return &AppError{Type: ErrorTypeSetup, Message: message, Cause: cause}
}

// NewConversionError creates an error for a source that could not be decoded or re-encoded.
func NewConversionError(file, message string, cause error) *AppError {
	return &AppError{Type: ErrorTypeConversion, Message: message, File: file, Cause: cause}
}

// NewDetectionError creates an error for an image the detector could not process.
func NewDetectionError(file, message string, cause error) *AppError {
	return &AppError{Type: ErrorTypeDetection, Message: message, File: file, Cause: cause}
}

// NewReportError creates an error for a report that could not be written.
func NewReportError(file, message string, cause error) *AppError {
	return &AppError{Type: ErrorTypeReport, Message: message, File: file, Cause: cause}
}

// NewCleanupError creates an error for a temporary file that could not be removed.
func NewCleanupError(file string, cause error) *AppError {
	return &AppError{Type: ErrorTypeCleanup, Message: "failed to remove temporary file", File: file, Cause: cause}
}

// IsType checks if the error, or any error it wraps, is of a specific type
func IsType(err error, errorType ErrorType) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type == errorType
	}
	return false
}

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case IsType(err, ErrorTypeSetup):
		return 2
	default:
		return 1
	}
}
