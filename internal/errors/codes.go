// Package errors provides structured error handling for ZeroIndex.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Configuration errors
//   - 2XX: Extraction errors
//   - 3XX: OCR and network errors
//   - 4XX: Validation errors
//   - 5XX: Index I/O errors
package errors

// Category defines error categories for classification.
type Category string

const (
	// CategoryConfig indicates configuration-related errors.
	CategoryConfig Category = "CONFIG"
	// CategoryExtract indicates document extraction errors.
	CategoryExtract Category = "EXTRACT"
	// CategoryNetwork indicates OCR and network-related errors.
	CategoryNetwork Category = "NETWORK"
	// CategoryValidation indicates input validation errors.
	CategoryValidation Category = "VALIDATION"
	// CategoryIndex indicates index persistence errors.
	CategoryIndex Category = "INDEX"
)

// Severity defines error severity levels.
type Severity string

const (
	// SeverityFatal indicates unrecoverable error, must abort.
	SeverityFatal Severity = "FATAL"
	// SeverityError indicates operation failed but can continue.
	SeverityError Severity = "ERROR"
	// SeverityWarning indicates degraded operation, continuing.
	SeverityWarning Severity = "WARNING"
)

// Error codes organized by category.
const (
	// Config errors (100-199)
	ErrCodeConfigNotFound = "ERR_101_CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid  = "ERR_102_CONFIG_INVALID"
	ErrCodeChunkParams    = "ERR_103_CHUNK_PARAMS"
	ErrCodeConfigRead     = "ERR_104_CONFIG_READ"

	// Extraction errors (200-299)
	ErrCodeExtractFailed     = "ERR_201_EXTRACT_FAILED"
	ErrCodeExtractEmpty      = "ERR_202_EXTRACT_EMPTY"
	ErrCodeUnsupportedFormat = "ERR_203_UNSUPPORTED_FORMAT"

	// OCR and network errors (300-399)
	ErrCodeOCRUnavailable = "ERR_301_OCR_UNAVAILABLE"
	ErrCodeVisionTimeout  = "ERR_302_VISION_TIMEOUT"
	ErrCodeVisionFailed   = "ERR_303_VISION_FAILED"

	// Validation errors (400-499)
	ErrCodeInvalidNamespace = "ERR_401_INVALID_NAMESPACE"
	ErrCodeQueryEmpty       = "ERR_402_QUERY_EMPTY"

	// Index I/O errors (500-599)
	ErrCodeIndexRead    = "ERR_501_INDEX_READ"
	ErrCodeIndexWrite   = "ERR_502_INDEX_WRITE"
	ErrCodeIndexCorrupt = "ERR_503_INDEX_CORRUPT"
	ErrCodeRegistry     = "ERR_504_REGISTRY"
)

// categoryFromCode extracts category from error code.
func categoryFromCode(code string) Category {
	if len(code) < 7 {
		return CategoryIndex
	}

	switch code[4] {
	case '1':
		return CategoryConfig
	case '2':
		return CategoryExtract
	case '3':
		return CategoryNetwork
	case '4':
		return CategoryValidation
	default:
		return CategoryIndex
	}
}

// severityFromCode determines severity based on error code.
func severityFromCode(code string) Severity {
	if code == ErrCodeIndexCorrupt {
		return SeverityFatal
	}

	if isRetryableCode(code) {
		return SeverityWarning
	}

	return SeverityError
}

// isRetryableCode checks if an error code represents a retryable error.
func isRetryableCode(code string) bool {
	switch code {
	case ErrCodeVisionTimeout, ErrCodeVisionFailed:
		return true
	default:
		return false
	}
}
