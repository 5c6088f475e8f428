package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStandardError_UnwrapsCause(t *testing.T) {
	sentinel := stderrors.New("VISIT_NOT_FOUND")
	err := NewVisitNotFoundError("visit-1", fmt.Errorf("%w: visit-1", sentinel))

	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, "visit-1", err.Metadata["visitId"])
	assert.Equal(t, "VISIT_NOT_FOUND: visit-1", err.Details)
}

func TestNormalize(t *testing.T) {
	std := NewMessageTimeoutError(context.DeadlineExceeded)
	assert.Same(t, std, Normalize(fmt.Errorf("wrapped: %w", std)))

	plain := Normalize(stderrors.New("boom"))
	assert.Equal(t, ErrCodeInternal, plain.Code)
	assert.Equal(t, "boom", plain.Details)
	assert.False(t, plain.Retryable)
}

func TestConvertToBPMNError(t *testing.T) {
	tests := []struct {
		name        string
		err         *StandardError
		wantCode    string
		wantRetries int
	}{
		{"business error is thrown", NewNaturalKeyConflictError(nil), "NATURAL_KEY_CONFLICT", 0},
		{"processing error retries", NewMessageProcessingError(stderrors.New("x")), "MESSAGE_PROCESSING_FAILED", 3},
		{"timeout retries twice", NewMessageTimeoutError(context.DeadlineExceeded), "MESSAGE_TIMEOUT", 2},
		{"invalid action", NewInvalidVisitActionError("archive"), "INVALID_VISIT_ACTION", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bpmn := ConvertToBPMNError(tt.err)
			assert.Equal(t, tt.wantCode, bpmn.Code)
			assert.Equal(t, tt.wantRetries, bpmn.Retries)

			vars := bpmn.ToErrorVariables()
			assert.Equal(t, string(tt.err.Code), vars["originalErrorCode"])
			assert.Equal(t, tt.err.Retryable, vars["retryable"])
		})
	}
}

func TestGetErrorCategory(t *testing.T) {
	tests := map[ErrorCode]string{
		ErrCodeVisitNotFound:          "VISIT",
		ErrCodeNaturalKeyConflict:     "VISIT",
		ErrCodePersistenceSaveFailed:  "STORAGE",
		ErrCodeMessageTimeout:         "ASSISTANT",
		ErrCodeNotificationSendFailed: "NOTIFICATION",
		ErrCodeInvalidInput:           "VALIDATION",
		ErrCodeInternal:               "OTHER",
	}
	for code, want := range tests {
		assert.Equal(t, want, GetErrorCategory(code), code)
	}
}

func TestIsRetryableErrorCode(t *testing.T) {
	assert.True(t, IsRetryableErrorCode(ErrCodePersistenceLoadFailed))
	assert.False(t, IsRetryableErrorCode(ErrCodeVisitValidationFailed))
}

func TestShouldRetry(t *testing.T) {
	tests := []struct {
		name       string
		err        *StandardError
		jobRetries int32
		want       bool
	}{
		{"retryable code with retries left", NewPersistenceLoadFailedError(stderrors.New("down")), 3, true},
		{"notification failure", NewNotificationSendFailedError("sns", stderrors.New("throttled")), 1, true},
		{"no retries left", NewPersistenceSaveFailedError(stderrors.New("down")), 0, false},
		{"business error", NewVisitValidationFailedError(stderrors.New("visitor is required")), 3, false},
		{"retryable flag on a business code", &StandardError{Code: ErrCodeVisitNotFound, Retryable: true}, 3, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shouldRetry(tt.err, tt.jobRetries))
		})
	}
}
