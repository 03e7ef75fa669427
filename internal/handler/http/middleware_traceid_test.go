package http

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-photo-sync/internal/logger"
)

// bufferLogger returns a logger writing JSON lines to buf.
func bufferLogger(buf *bytes.Buffer) *logger.Logger {
	return &logger.Logger{Logger: zerolog.New(buf)}
}

func TestWithTraceID(t *testing.T) {
	tests := []struct {
		name           string
		requestTraceID string
	}{
		{name: "trace id from request header is reused", requestTraceID: "my-custom-trace-id"},
		{name: "trace id is generated"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := &Handler{logger: bufferLogger(&buf)}

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				logger.FromRequest(r).Info().Msg("inside")
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.requestTraceID != "" {
				req.Header.Set("X-Trace-ID", tt.requestTraceID)
			}
			rec := httptest.NewRecorder()
			h.withTraceID(next).ServeHTTP(rec, req)

			traceID := rec.Header().Get("X-Trace-ID")
			if tt.requestTraceID != "" {
				assert.Equal(t, tt.requestTraceID, traceID)
			} else {
				_, err := uuid.Parse(traceID)
				require.NoError(t, err)
			}
			assert.Contains(t, buf.String(), `"trace_id":"`+traceID+`"`)
		})
	}
}

func TestWithLogging_RecordsStatusAndSize(t *testing.T) {
	var buf bytes.Buffer
	h := &Handler{logger: bufferLogger(&buf)}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short"))
	})

	req := httptest.NewRequest(http.MethodPost, "/api/sync/verify", nil)
	rec := httptest.NewRecorder()
	h.withTraceID(h.withLogging(next)).ServeHTTP(rec, req)

	out := buf.String()
	assert.Contains(t, out, `"status":418`)
	assert.Contains(t, out, `"size":5`)
	assert.Contains(t, out, `"method":"POST"`)
	assert.Contains(t, out, `"uri":"/api/sync/verify"`)
}

func TestResponseWriter_WriteHeaderOnce(t *testing.T) {
	rec := httptest.NewRecorder()
	w := &responseWriter{ResponseWriter: rec}

	w.WriteHeader(http.StatusCreated)
	w.WriteHeader(http.StatusInternalServerError)
	n, err := w.Write([]byte("abc"))

	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, http.StatusCreated, w.status)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 3, w.size)
	assert.Equal(t, rec, w.Unwrap())
}
