// Package errors provides standardized error handling for the intake pipeline.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Validation errors: rejected before any pipeline step runs.
	ErrCodeUnsupportedFileType ErrorCode = "UNSUPPORTED_FILE_TYPE"
	ErrCodeFileTooLarge        ErrorCode = "FILE_TOO_LARGE"
	ErrCodeInvalidInput        ErrorCode = "INVALID_INPUT"

	// External-dependency errors: caught at the pipeline step boundary.
	ErrCodeModelCallFailed     ErrorCode = "MODEL_CALL_FAILED"
	ErrCodeModelTimeout        ErrorCode = "MODEL_TIMEOUT"
	ErrCodeModelBadResponse    ErrorCode = "MODEL_BAD_RESPONSE"
	ErrCodeStorageUploadFailed ErrorCode = "STORAGE_UPLOAD_FAILED"
	ErrCodeStorageFetchFailed  ErrorCode = "STORAGE_FETCH_FAILED"
	ErrCodeStorageDeleteFailed ErrorCode = "STORAGE_DELETE_FAILED"

	// Database errors.
	ErrCodeDatabaseQueryFailed  ErrorCode = "DATABASE_QUERY_FAILED"
	ErrCodeDatabaseInsertFailed ErrorCode = "DATABASE_INSERT_FAILED"

	// Not-found errors: surfaced to the caller as structured results.
	ErrCodeCaseNotFound     ErrorCode = "CASE_NOT_FOUND"
	ErrCodeDocumentNotFound ErrorCode = "DOCUMENT_NOT_FOUND"

	// Concurrency.
	ErrCodeDocumentLocked ErrorCode = "DOCUMENT_LOCKED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// NewUnsupportedFileTypeError rejects an upload with a MIME type outside the allow-list.
func NewUnsupportedFileTypeError(mimeType string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnsupportedFileType,
		Message:   "Unsupported file type",
		Details:   fmt.Sprintf("mimeType: %s", mimeType),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewFileTooLargeError rejects an oversized upload.
func NewFileTooLargeError(size, limit int64) *StandardError {
	return &StandardError{
		Code:      ErrCodeFileTooLarge,
		Message:   "Uploaded file exceeds the size limit",
		Details:   fmt.Sprintf("size: %d, limit: %d", size, limit),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidInputError creates a non-retryable validation error.
func NewInvalidInputError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidInput,
		Message:   "Invalid input",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewModelCallFailedError creates a retryable vision model error.
func NewModelCallFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeModelCallFailed,
		Message:   "Vision model call failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewModelTimeoutError creates a retryable model timeout error.
func NewModelTimeoutError() *StandardError {
	return &StandardError{
		Code:      ErrCodeModelTimeout,
		Message:   "Vision model call timed out",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewModelBadResponseError creates a non-retryable malformed-response error.
func NewModelBadResponseError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeModelBadResponse,
		Message:   "Vision model returned an unparseable response",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewStorageUploadFailedError creates a retryable blob upload error.
func NewStorageUploadFailedError(key string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStorageUploadFailed,
		Message:   "Blob upload failed",
		Details:   fmt.Sprintf("key: %s, error: %s", key, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewStorageFetchFailedError creates a retryable blob fetch error.
func NewStorageFetchFailedError(key string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStorageFetchFailed,
		Message:   "Blob fetch failed",
		Details:   fmt.Sprintf("key: %s, error: %s", key, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewStorageDeleteFailedError creates a retryable blob delete error.
func NewStorageDeleteFailedError(key string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStorageDeleteFailed,
		Message:   "Blob delete failed",
		Details:   fmt.Sprintf("key: %s, error: %s", key, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseQueryFailedError creates a retryable query error.
func NewDatabaseQueryFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseQueryFailed,
		Message:   "Database query failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseInsertFailedError creates a retryable insert error.
func NewDatabaseInsertFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseInsertFailed,
		Message:   "Database insert operation failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCaseNotFoundError creates a structured not-found error for a case.
func NewCaseNotFoundError(caseID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeCaseNotFound,
		Message:   "Case not found",
		Details:   fmt.Sprintf("caseId: %s", caseID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDocumentNotFoundError creates a structured not-found error for a document.
func NewDocumentNotFoundError(documentID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDocumentNotFound,
		Message:   "Document not found",
		Details:   fmt.Sprintf("documentId: %s", documentID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDocumentLockedError signals a concurrent processing run on the same document.
func NewDocumentLockedError(documentID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDocumentLocked,
		Message:   "Document is already being processed",
		Details:   fmt.Sprintf("documentId: %s", documentID),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// IsNotFound reports whether err is a structured not-found error.
func IsNotFound(err error) bool {
	var se *StandardError
	if errors.As(err, &se) {
		return se.Code == ErrCodeCaseNotFound || se.Code == ErrCodeDocumentNotFound
	}
	return false
}

// CodeOf returns the error code carried by err, or empty.
func CodeOf(err error) ErrorCode {
	var se *StandardError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}
