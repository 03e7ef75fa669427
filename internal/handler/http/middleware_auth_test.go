package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MKhiriev/go-photo-sync/internal/app"
	"github.com/MKhiriev/go-photo-sync/internal/utils"
)

func TestAuth(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		wantStatus int
		wantBody   string
		wantClient string
	}{
		{
			name:       "valid api key",
			headers:    map[string]string{utils.HeaderAPIKey: testAPIKey},
			wantStatus: http.StatusOK,
			wantClient: apiKeyClient,
		},
		{
			name:       "wrong api key",
			headers:    map[string]string{utils.HeaderAPIKey: "nope"},
			wantStatus: http.StatusUnauthorized,
			wantBody:   app.MsgUnauthorized,
		},
		{
			name:       "api key wins over bad token",
			headers:    map[string]string{utils.HeaderAPIKey: testAPIKey, utils.HeaderAuthorization: "Bearer bad"},
			wantStatus: http.StatusOK,
			wantClient: apiKeyClient,
		},
		{
			name:       "valid bearer token",
			headers:    map[string]string{utils.HeaderAuthorization: "Bearer good-token"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "expired token",
			headers:    map[string]string{utils.HeaderAuthorization: "Bearer bad"},
			wantStatus: http.StatusUnauthorized,
			wantBody:   app.MsgTokenIsExpiredOrInvalid,
		},
		{
			name:       "malformed authorization header",
			headers:    map[string]string{utils.HeaderAuthorization: "good-token"},
			wantStatus: http.StatusUnauthorized,
			wantBody:   app.MsgUnauthorized,
		},
		{
			name:       "no credentials",
			wantStatus: http.StatusUnauthorized,
			wantBody:   app.MsgUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(t, newTestServices(t))

			var (
				called bool
				client string
			)
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				client, _ = utils.GetClientFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/sync/status", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			h.auth(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantStatus == http.StatusOK, called)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, errorBody(t, rec))
			}
			assert.Equal(t, tt.wantClient, client)
		})
	}
}
