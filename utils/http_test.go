package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var response ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func TestWriteJSON(t *testing.T) {
	t.Run("body", func(t *testing.T) {
		w := httptest.NewRecorder()
		require.NoError(t, WriteJSON(w, http.StatusOK, map[string]string{"environment": "production"}))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"environment":"production"}`, w.Body.String())
	})

	t.Run("nil body", func(t *testing.T) {
		w := httptest.NewRecorder()
		require.NoError(t, WriteJSON(w, http.StatusAccepted, nil))
		assert.Equal(t, http.StatusAccepted, w.Code)
		assert.Empty(t, w.Body.String())
	})
}

func TestWriteOKAndCreated(t *testing.T) {
	w := httptest.NewRecorder()
	require.NoError(t, WriteOK(w, []string{"gold"}))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":["gold"]}`, w.Body.String())

	w = httptest.NewRecorder()
	require.NoError(t, WriteCreated(w, map[string]string{"id": "p-1"}))
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"data":{"id":"p-1"}}`, w.Body.String())
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		message string
		code    string
		want    string
	}{
		{"bad request", http.StatusBadRequest, "invalid project id", "bad_request", "invalid project id"},
		{"unauthorized default", http.StatusUnauthorized, "", "unauthorized", "Authentication required"},
		{"forbidden default", http.StatusForbidden, "", "forbidden", "Access forbidden"},
		{"not found", http.StatusNotFound, "project not found", "not_found", "project not found"},
		{"conflict", http.StatusConflict, "exists", "conflict", "exists"},
		{"rate limited default", http.StatusTooManyRequests, "", "rate_limit_exceeded", "Rate limit exceeded"},
		{"unavailable default", http.StatusServiceUnavailable, "", "service_unavailable", "Service unavailable"},
		{"bad gateway", http.StatusBadGateway, "supabase down", "bad_gateway", "supabase down"},
		{"unknown status", http.StatusTeapot, "teapot", "internal_error", "teapot"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			require.NoError(t, WriteError(w, tt.status, tt.message, nil))

			assert.Equal(t, tt.status, w.Code)
			response := decodeError(t, w)
			assert.Equal(t, tt.code, response.Error)
			assert.Equal(t, tt.want, response.Message)
			assert.Nil(t, response.Details)
		})
	}
}

func TestErrorHelpers(t *testing.T) {
	w := httptest.NewRecorder()
	require.NoError(t, WriteBadRequest(w, "Validation failed", map[string]interface{}{"Name": "Name is required"}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Name is required", decodeError(t, w).Details["Name"])

	w = httptest.NewRecorder()
	require.NoError(t, WriteUnauthorized(w, ""))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	require.NoError(t, WriteForbidden(w, "Insufficient permissions"))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Insufficient permissions", decodeError(t, w).Message)

	w = httptest.NewRecorder()
	require.NoError(t, WriteTooManyRequests(w, "Too many sign-in attempts", map[string]interface{}{"retry_after_seconds": 2}))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	response := decodeError(t, w)
	assert.Equal(t, "rate_limit_exceeded", response.Error)
	assert.Equal(t, float64(2), response.Details["retry_after_seconds"])
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, "not_found", ErrorCode(http.StatusNotFound))
	assert.Equal(t, "internal_error", ErrorCode(http.StatusInternalServerError))
	assert.Equal(t, "internal_error", ErrorCode(599))
}
