// Package errors provides standardized error handling for the idea
// lifecycle orchestrator.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Transport failure: no response received from the analysis service.
	ErrCodeAnalysisUnreachable ErrorCode = "ANALYSIS_UNREACHABLE"
	// Service failure: the analysis service answered with a non-2xx status.
	ErrCodeAnalysisServiceError ErrorCode = "ANALYSIS_SERVICE_ERROR"
	// The 2xx body could not be decoded into the expected response shape.
	ErrCodeResponseParseFailed ErrorCode = "RESPONSE_PARSE_FAILED"

	ErrCodeRecordNotFound ErrorCode = "RECORD_NOT_FOUND"

	ErrCodeChatResponderFailed ErrorCode = "CHAT_RESPONDER_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Retryable bool      `json:"retryable"`
	Timestamp time.Time `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// UserMessage returns the text suitable for surfacing as local UI state.
func (e *StandardError) UserMessage() string {
	return e.Message
}

// ==========================
// 2. Error Constructors
// ==========================

// NewAnalysisUnreachable creates a retryable connectivity error. The
// underlying transport detail is kept out of the user-visible message.
func NewAnalysisUnreachable(cause error) *StandardError {
	details := ""
	if cause != nil {
		details = cause.Error()
	}
	return &StandardError{
		Code:      ErrCodeAnalysisUnreachable,
		Message:   "Could not reach the analysis service. Check your connection and try again.",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewAnalysisServiceError creates a retryable service error. When the
// response body carried a structured message it becomes the user-visible
// text, otherwise a generic status-coded message is used.
func NewAnalysisServiceError(status int, message string) *StandardError {
	if message == "" {
		message = fmt.Sprintf("Request failed (%d)", status)
	}
	return &StandardError{
		Code:      ErrCodeAnalysisServiceError,
		Message:   message,
		Details:   fmt.Sprintf("status %d", status),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewResponseParseFailed creates an error for undecodable success bodies.
func NewResponseParseFailed(cause error) *StandardError {
	details := ""
	if cause != nil {
		details = cause.Error()
	}
	return &StandardError{
		Code:      ErrCodeResponseParseFailed,
		Message:   "The analysis service returned an unexpected response.",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewRecordNotFound creates an error for a lookup that matched no stored
// record. Not retryable: resubmitting the same id cannot succeed.
func NewRecordNotFound(id string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRecordNotFound,
		Message:   "The requested record could not be found.",
		Details:   fmt.Sprintf("id %s", id),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewChatResponderFailed creates an error for a failed assistant turn.
func NewChatResponderFailed(cause error) *StandardError {
	details := ""
	if cause != nil {
		details = cause.Error()
	}
	return &StandardError{
		Code:      ErrCodeChatResponderFailed,
		Message:   "The assistant could not produce a reply. Please try again.",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Classification Helpers
// ==========================

// CodeOf extracts the ErrorCode from err, or "" when err carries none.
func CodeOf(err error) ErrorCode {
	var se *StandardError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

// IsRetryable reports whether the operation that produced err may be
// resubmitted by the user.
func IsRetryable(err error) bool {
	var se *StandardError
	if errors.As(err, &se) {
		return se.Retryable
	}
	return false
}

// UserMessage extracts the user-visible message from err, falling back to
// err.Error() for plain errors.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var se *StandardError
	if errors.As(err, &se) {
		return se.UserMessage()
	}
	return err.Error()
}
