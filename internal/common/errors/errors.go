// Package errors provides standardized error handling for the assistant job workers.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeVisitNotFound          ErrorCode = "VISIT_NOT_FOUND"
	ErrCodeVisitValidationFailed  ErrorCode = "VISIT_VALIDATION_FAILED"
	ErrCodeNaturalKeyConflict     ErrorCode = "NATURAL_KEY_CONFLICT"
	ErrCodeInvalidVisitAction     ErrorCode = "INVALID_VISIT_ACTION"
	ErrCodeInvalidInput           ErrorCode = "INVALID_INPUT"
	ErrCodeMessageProcessing      ErrorCode = "MESSAGE_PROCESSING_FAILED"
	ErrCodeMessageTimeout         ErrorCode = "MESSAGE_TIMEOUT"
	ErrCodePersistenceLoadFailed  ErrorCode = "PERSISTENCE_LOAD_FAILED"
	ErrCodePersistenceSaveFailed  ErrorCode = "PERSISTENCE_SAVE_FAILED"
	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeInternal               ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause so errors.Is keeps working on sentinels.
func (e *StandardError) Unwrap() error {
	return e.cause
}

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

func newError(code ErrorCode, message string, cause error, retryable bool) *StandardError {
	details := ""
	if cause != nil {
		details = cause.Error()
	}
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

func NewVisitNotFoundError(id string, cause error) *StandardError {
	e := newError(ErrCodeVisitNotFound, "VIP visit not found", cause, false)
	e.Metadata = map[string]interface{}{"visitId": id}
	return e
}

func NewVisitValidationFailedError(cause error) *StandardError {
	return newError(ErrCodeVisitValidationFailed, "VIP visit failed validation", cause, false)
}

func NewNaturalKeyConflictError(cause error) *StandardError {
	return newError(ErrCodeNaturalKeyConflict, "Another VIP visit already has this visitor, date and time", cause, false)
}

func NewInvalidVisitActionError(action string) *StandardError {
	e := newError(ErrCodeInvalidVisitAction, "Unsupported visit action", nil, false)
	e.Details = fmt.Sprintf("action: %s", action)
	return e
}

func NewInvalidInputError(details string) *StandardError {
	e := newError(ErrCodeInvalidInput, "Job input failed validation", nil, false)
	e.Details = details
	return e
}

func NewMessageProcessingError(cause error) *StandardError {
	return newError(ErrCodeMessageProcessing, "Assistant message could not be processed", cause, true)
}

func NewMessageTimeoutError(cause error) *StandardError {
	return newError(ErrCodeMessageTimeout, "Assistant message processing timed out", cause, true)
}

func NewPersistenceLoadFailedError(cause error) *StandardError {
	return newError(ErrCodePersistenceLoadFailed, "Visit snapshot could not be loaded", cause, true)
}

func NewPersistenceSaveFailedError(cause error) *StandardError {
	return newError(ErrCodePersistenceSaveFailed, "Visit snapshot could not be saved", cause, true)
}

func NewNotificationSendFailedError(channel string, cause error) *StandardError {
	e := newError(ErrCodeNotificationSendFailed, "Notification delivery failed", cause, true)
	e.Metadata = map[string]interface{}{"channel": channel}
	return e
}

var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeVisitNotFound:          "VISIT_NOT_FOUND",
	ErrCodeVisitValidationFailed:  "VISIT_VALIDATION_FAILED",
	ErrCodeNaturalKeyConflict:     "NATURAL_KEY_CONFLICT",
	ErrCodeInvalidVisitAction:     "INVALID_VISIT_ACTION",
	ErrCodeInvalidInput:           "INVALID_INPUT",
	ErrCodeMessageProcessing:      "MESSAGE_PROCESSING_FAILED",
	ErrCodeMessageTimeout:         "MESSAGE_TIMEOUT",
	ErrCodePersistenceLoadFailed:  "PERSISTENCE_LOAD_FAILED",
	ErrCodePersistenceSaveFailed:  "PERSISTENCE_SAVE_FAILED",
	ErrCodeNotificationSendFailed: "NOTIFICATION_SEND_FAILED",
}

// GetRetryCount returns the recommended retry count for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeMessageProcessing,
		ErrCodePersistenceLoadFailed,
		ErrCodePersistenceSaveFailed,
		ErrCodeNotificationSendFailed:
		return 3
	case ErrCodeMessageTimeout:
		return 2
	default:
		return 0 // business errors are thrown, not retried
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "VISIT") || strings.Contains(codeStr, "NATURAL_KEY"):
		return "VISIT"
	case strings.Contains(codeStr, "PERSISTENCE"):
		return "STORAGE"
	case strings.Contains(codeStr, "MESSAGE"):
		return "ASSISTANT"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
