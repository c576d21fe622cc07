/**
 * Custom error types for the extraction engine
 *
 * Every sub-component absorbs its own failures and contributes a
 * human-readable string to the result's errors list; the structured
 * types here carry the code and context for callers that need more
 * than the string.
 */

package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// Code classifies an extraction failure.
type Code string

const (
	// EngineUnavailable means no OCR backend is registered. Terminal,
	// reported, never retried.
	EngineUnavailable Code = "ENGINE_UNAVAILABLE"

	// BackendFailure means a specific OCR call failed. The document
	// degrades to empty text/zero confidence for that call only.
	BackendFailure Code = "BACKEND_FAILURE"

	// UnsupportedFormat means the file extension is not recognized.
	UnsupportedFormat Code = "UNSUPPORTED_FORMAT"

	// MalformedSource means the file is unreadable or corrupt.
	MalformedSource Code = "MALFORMED_SOURCE"

	// ValidationIssue is a non-fatal structural table problem.
	ValidationIssue Code = "VALIDATION_ISSUE"

	// ProcessingTimeout means the caller-owned deadline expired.
	ProcessingTimeout Code = "PROCESSING_TIMEOUT"
)

// ExtractionError is a structured processing error.
type ExtractionError struct {
	Code      Code
	Message   string
	Timestamp time.Time
	Details   map[string]interface{}
	Cause     error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// CodeOf returns the code of err, or "" when err is not an ExtractionError.
func CodeOf(err error) Code {
	var ee *ExtractionError
	if stderrors.As(err, &ee) {
		return ee.Code
	}
	return ""
}

// Factory functions for common errors

func NewEngineUnavailable() *ExtractionError {
	return &ExtractionError{
		Code:      EngineUnavailable,
		Message:   "no OCR engine available",
		Timestamp: time.Now(),
	}
}

func NewBackendFailure(backend string, cause error) *ExtractionError {
	return &ExtractionError{
		Code:      BackendFailure,
		Message:   fmt.Sprintf("OCR backend %q failed", backend),
		Timestamp: time.Now(),
		Details: map[string]interface{}{
			"backend": backend,
		},
		Cause: cause,
	}
}

func NewUnsupportedFormat(ext string) *ExtractionError {
	return &ExtractionError{
		Code:      UnsupportedFormat,
		Message:   fmt.Sprintf("unsupported file type: %s", ext),
		Timestamp: time.Now(),
		Details: map[string]interface{}{
			"extension": ext,
		},
	}
}

func NewMalformedSource(path string, cause error) *ExtractionError {
	return &ExtractionError{
		Code:      MalformedSource,
		Message:   fmt.Sprintf("source unreadable: %s", path),
		Timestamp: time.Now(),
		Details: map[string]interface{}{
			"path": path,
		},
		Cause: cause,
	}
}

func NewProcessingTimeout(jobID string, timeout time.Duration, cause error) *ExtractionError {
	return &ExtractionError{
		Code:      ProcessingTimeout,
		Message:   fmt.Sprintf("processing timed out after %v", timeout),
		Timestamp: time.Now(),
		Details: map[string]interface{}{
			"job_id":           jobID,
			"timeout_duration": timeout.String(),
		},
		Cause: cause,
	}
}

// ToMap converts the error to a map for job status reporting.
func (e *ExtractionError) ToMap() map[string]interface{} {
	result := map[string]interface{}{
		"error_code": string(e.Code),
		"message":    e.Message,
		"timestamp":  e.Timestamp,
	}

	for k, v := range e.Details {
		result[k] = v
	}

	if e.Cause != nil {
		result["cause"] = e.Cause.Error()
	}

	return result
}
