package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-photo-sync/models"
)

func TestWriteJSON(t *testing.T) {
	tests := []struct {
		name       string
		data       any
		statusCode int
		wantBody   string
	}{
		{
			name:       "open session response",
			data:       models.OpenSessionResponse{SyncID: "s1"},
			statusCode: http.StatusCreated,
			wantBody:   `{"syncId":"s1","timestamp":"0001-01-01T00:00:00Z"}`,
		},
		{
			name:       "verify summary",
			data:       models.VerifySummary{Total: 3, Found: 2, Missing: 1},
			statusCode: http.StatusOK,
			wantBody:   `{"total":3,"found":2,"missing":1}`,
		},
		{
			name:       "empty change list",
			data:       []models.Photo{},
			statusCode: http.StatusOK,
			wantBody:   `[]`,
		},
		{
			name:       "nil payload",
			data:       nil,
			statusCode: http.StatusOK,
			wantBody:   `null`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			n, err := WriteJSON(w, tt.data, tt.statusCode)

			require.NoError(t, err)
			assert.Equal(t, len(tt.wantBody), n)
			assert.Equal(t, tt.statusCode, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestWriteJSON_Unmarshalable(t *testing.T) {
	w := httptest.NewRecorder()

	_, err := WriteJSON(w, map[string]any{"extra": make(chan int)}, http.StatusOK)

	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestWriteJSONError(t *testing.T) {
	w := httptest.NewRecorder()

	WriteJSONError(w, "Session not found", http.StatusNotFound)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Session not found"}`, w.Body.String())
}
