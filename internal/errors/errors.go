package errors

import (
	"fmt"
)

// IndexError is the structured error type for ZeroIndex.
// It carries the code, category, and underlying cause so callers can
// report which document failed and why without string matching.
type IndexError struct {
	// Code is the unique error code (e.g., "ERR_202_EXTRACT_EMPTY").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Config, Extract, Network, etc.).
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error

	// Retryable indicates if the operation can be retried.
	Retryable bool
}

// Error implements the error interface.
func (e *IndexError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *IndexError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches the target error by code.
// This enables errors.Is() to work with IndexError.
func (e *IndexError) Is(target error) bool {
	if t, ok := target.(*IndexError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
// Returns the error for method chaining.
func (e *IndexError) WithDetail(key, value string) *IndexError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// New creates a new IndexError with the given code and message.
// Category, severity, and retryable flag are derived from the code.
func New(code string, message string, cause error) *IndexError {
	return &IndexError{
		Code:      code,
		Message:   message,
		Category:  categoryFromCode(code),
		Severity:  severityFromCode(code),
		Cause:     cause,
		Retryable: isRetryableCode(code),
	}
}

// Wrap creates an IndexError from an existing error.
// The error's message becomes the IndexError message.
func Wrap(code string, err error) *IndexError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// ConfigError creates a configuration-related error.
func ConfigError(message string, cause error) *IndexError {
	return New(ErrCodeConfigInvalid, message, cause)
}

// ChunkParamsError creates an error for invalid chunking parameters.
func ChunkParamsError(message string) *IndexError {
	return New(ErrCodeChunkParams, message, nil)
}

// ExtractError creates a document extraction error.
func ExtractError(message string, cause error) *IndexError {
	return New(ErrCodeExtractFailed, message, cause)
}

// ExtractEmpty creates the error for a document that yielded no text.
func ExtractEmpty(filename string) *IndexError {
	return New(ErrCodeExtractEmpty,
		fmt.Sprintf("no text could be extracted from %q", filename), nil).
		WithDetail("filename", filename)
}

// UnsupportedFormat creates the error for an unrecognized file extension.
func UnsupportedFormat(filename string) *IndexError {
	return New(ErrCodeUnsupportedFormat,
		fmt.Sprintf("unsupported file format: %q", filename), nil).
		WithDetail("filename", filename)
}

// IndexIOError creates an index persistence error.
func IndexIOError(code string, message string, cause error) *IndexError {
	return New(code, message, cause)
}

// ValidationError creates an input validation error.
func ValidationError(code string, message string) *IndexError {
	return New(code, message, nil)
}

// IsExtractEmpty reports whether err means a document produced no text.
func IsExtractEmpty(err error) bool {
	return GetCode(err) == ErrCodeExtractEmpty
}

// IsRetryable checks if an error is retryable.
// Returns true if the error is an IndexError with Retryable flag set.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if ie, ok := err.(*IndexError); ok {
		return ie.Retryable
	}
	return false
}

// GetCode extracts the error code from an IndexError.
// Returns empty string if not an IndexError.
func GetCode(err error) string {
	if ie, ok := err.(*IndexError); ok {
		return ie.Code
	}
	return ""
}

// GetCategory extracts the category from an IndexError.
// Returns empty string if not an IndexError.
func GetCategory(err error) Category {
	if ie, ok := err.(*IndexError); ok {
		return ie.Category
	}
	return ""
}
