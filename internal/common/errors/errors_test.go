package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code     ErrorCode
		expected int
	}{
		{ErrCodeSchemaViolation, http.StatusUnprocessableEntity},
		{ErrCodeInvalidRequest, http.StatusUnprocessableEntity},
		{ErrCodeResourceUnavailable, http.StatusServiceUnavailable},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeTrainingFailed, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.expected, HTTPStatus(tt.code))
		})
	}
}

func TestConvertToBPMNError(t *testing.T) {
	t.Run("retryable source error keeps retries", func(t *testing.T) {
		bpmn := ConvertToBPMNError(NewDataSourceError("postgres", fmt.Errorf("connection refused")))
		assert.Equal(t, "DATA_SOURCE_ERROR", bpmn.Code)
		assert.Equal(t, 3, bpmn.Retries)
		assert.True(t, bpmn.Retryable)
		assert.Equal(t, "DATA_SOURCE_ERROR", bpmn.ToErrorVariables()["originalErrorCode"])
	})

	t.Run("schema violation is never retried", func(t *testing.T) {
		bpmn := ConvertToBPMNError(NewSchemaViolationError("city", "location is empty"))
		assert.Equal(t, 0, bpmn.Retries)
		assert.False(t, bpmn.Retryable)
	})
}

func TestAsStandard(t *testing.T) {
	wrapped := fmt.Errorf("estimate: %w", NewResourceUnavailableError("model not loaded"))

	stdErr := AsStandard(wrapped)
	require.NotNil(t, stdErr)
	assert.Equal(t, ErrCodeResourceUnavailable, stdErr.Code)
	assert.True(t, HasCode(wrapped, ErrCodeResourceUnavailable))
	assert.False(t, HasCode(wrapped, ErrCodeSchemaViolation))

	plain := AsStandard(fmt.Errorf("boom"))
	assert.Equal(t, ErrCodeInternal, plain.Code)
	assert.Equal(t, "boom", plain.Details)
}

func TestRemainingRetries(t *testing.T) {
	assert.Equal(t, int32(2), RemainingRetries(3, 3))
	assert.Equal(t, int32(2), RemainingRetries(5, 2))
	assert.Equal(t, int32(0), RemainingRetries(1, 3))
	assert.Equal(t, int32(0), RemainingRetries(0, 3))
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeParseFailure))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeSchemaViolation))
	assert.Equal(t, "ARTIFACT", GetErrorCategory(ErrCodeArtifactLoadFailed))
	assert.Equal(t, "TRAINING", GetErrorCategory(ErrCodeEmptyTrainingBatch))
	assert.Equal(t, "DATA_SOURCE", GetErrorCategory(ErrCodeDataSourceError))
	assert.Equal(t, "OTHER", GetErrorCategory(ErrCodeInternal))
}

func TestParseFailureMetadata(t *testing.T) {
	err := NewParseFailureError("floor", "1-2", "not an integer")
	assert.Equal(t, "floor", err.Metadata["field"])
	assert.Contains(t, err.Details, `"1-2"`)
	assert.Contains(t, err.Error(), "PARSE_FAILURE")
}
