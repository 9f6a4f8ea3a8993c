package errors

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIError_Error(t *testing.T) {
	err := New(http.StatusNotFound, "SECTION_NOT_FOUND", "Log section not found in document")
	assert.Equal(t, "Log section not found in document", err.Error())
}

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		errorCode  string
		message    string
	}{
		{
			name:       "bad request",
			statusCode: http.StatusBadRequest,
			errorCode:  "INVALID_PARAMETER",
			message:    "window must be a positive integer",
		},
		{
			name:       "not found",
			statusCode: http.StatusNotFound,
			errorCode:  "DOCUMENT_NOT_FOUND",
			message:    "Fillup document not found",
		},
		{
			name:       "unprocessable",
			statusCode: http.StatusUnprocessableEntity,
			errorCode:  "EMPTY_SERIES",
			message:    "No observations remain after filtering",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.statusCode, tt.errorCode, tt.message)
			assert.Equal(t, tt.statusCode, err.StatusCode)
			assert.Equal(t, tt.errorCode, err.ErrorCode)
			assert.Equal(t, tt.message, err.Message)
			assert.Nil(t, err.Details)
		})
	}
}

func TestNewWithDetails(t *testing.T) {
	details := map[string]int{"line": 12}
	err := NewWithDetails(http.StatusUnprocessableEntity, "INVALID_OBSERVATION", "bad field", details)

	assert.Equal(t, http.StatusUnprocessableEntity, err.StatusCode)
	assert.Equal(t, details, err.Details)
}

func TestPredefinedErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        *APIError
		wantStatus int
		wantCode   string
	}{
		{"invalid request", ErrInvalidRequest, http.StatusBadRequest, "INVALID_REQUEST"},
		{"validation failed", ErrValidationFailed, http.StatusBadRequest, "VALIDATION_FAILED"},
		{"document not found", ErrDocumentNotFound, http.StatusNotFound, "DOCUMENT_NOT_FOUND"},
		{"section not found", ErrSectionNotFound, http.StatusNotFound, "SECTION_NOT_FOUND"},
		{"empty series", ErrEmptySeries, http.StatusUnprocessableEntity, "EMPTY_SERIES"},
		{"rate limited", ErrRateLimitExceeded, http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED"},
		{"internal", ErrInternalServer, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, tt.err.StatusCode)
			assert.Equal(t, tt.wantCode, tt.err.ErrorCode)
		})
	}
}

func TestErrValidation(t *testing.T) {
	err := ErrValidation("window", "must be positive")

	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Equal(t, "VALIDATION_FAILED", err.ErrorCode)

	valErr, ok := err.Details.(ValidationError)
	require.True(t, ok)
	assert.Equal(t, "window", valErr.Field)
	assert.Equal(t, "must be positive", valErr.Message)
}

func TestSectionNotFoundError(t *testing.T) {
	err := SectionNotFoundError("Log")

	assert.Equal(t, http.StatusNotFound, err.StatusCode)
	assert.Equal(t, "SECTION_NOT_FOUND", err.ErrorCode)
	assert.Contains(t, err.Message, `"Log"`)
	assert.Equal(t, "Log", err.Details)
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, ErrDocumentNotFound)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "DOCUMENT_NOT_FOUND", resp.Error.ErrorCode)
}

func TestProblemDetails_MarshalJSON(t *testing.T) {
	problem := NewProblemDetails(
		http.StatusNotFound,
		TypeSectionNotFound,
		"Not Found",
		"Section \"Log\" not found in document",
		"/api/fillup/series",
	).WithExtension("trace_id", "abc-123")

	data, err := json.Marshal(problem)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, TypeSectionNotFound, decoded["type"])
	assert.Equal(t, float64(http.StatusNotFound), decoded["status"])
	assert.Equal(t, "abc-123", decoded["trace_id"])
}
