package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-photo-sync/internal/config"
	"github.com/MKhiriev/go-photo-sync/internal/logger"
	"github.com/MKhiriev/go-photo-sync/internal/service"
	"github.com/MKhiriev/go-photo-sync/internal/utils"
	"github.com/MKhiriev/go-photo-sync/models"
)

const testAPIKey = "secret"

// ─────────────────────────────────────────────
// fn-field fakes for the service interfaces
// ─────────────────────────────────────────────

type fakeSessionService struct {
	openFn     func(ctx context.Context, deviceID, userName string) (models.SyncSession, error)
	openIncFn  func(ctx context.Context, deviceID, userName string, since *time.Time) (models.SyncSession, []models.Photo, error)
	completeFn func(ctx context.Context, syncID string, status models.SessionStatus, reason string) (models.SyncSession, error)
}

func (f *fakeSessionService) OpenSession(ctx context.Context, deviceID, userName string) (models.SyncSession, error) {
	return f.openFn(ctx, deviceID, userName)
}

func (f *fakeSessionService) OpenIncrementalSession(ctx context.Context, deviceID, userName string, since *time.Time) (models.SyncSession, []models.Photo, error) {
	return f.openIncFn(ctx, deviceID, userName, since)
}

func (f *fakeSessionService) IsSessionActive(context.Context, string) (bool, error) {
	return true, nil
}

func (f *fakeSessionService) RequireActive(context.Context, string) (models.SyncSession, error) {
	return models.SyncSession{}, nil
}

func (f *fakeSessionService) CompleteSession(ctx context.Context, syncID string, status models.SessionStatus, reason string) (models.SyncSession, error) {
	return f.completeFn(ctx, syncID, status, reason)
}

func (f *fakeSessionService) ExpireStaleSessions(context.Context, time.Duration) (int64, error) {
	return 0, nil
}

type fakeReconcileService struct {
	fn func(ctx context.Context, syncID string, photos []models.Photo, isIncremental bool) (models.ReconcileResult, error)
}

func (f *fakeReconcileService) Reconcile(ctx context.Context, syncID string, photos []models.Photo, isIncremental bool) (models.ReconcileResult, error) {
	return f.fn(ctx, syncID, photos, isIncremental)
}

type fakeFileTransferService struct {
	fn func(ctx context.Context, syncID, filePath string, payload []byte) (models.UploadResult, error)
}

func (f *fakeFileTransferService) UploadBinary(ctx context.Context, syncID, filePath string, payload []byte) (models.UploadResult, error) {
	return f.fn(ctx, syncID, filePath, payload)
}

type fakeVerifyService struct {
	fn func(ctx context.Context, syncID string, ids []string) (models.VerifyResponse, error)
}

func (f *fakeVerifyService) VerifyItems(ctx context.Context, syncID string, ids []string) (models.VerifyResponse, error) {
	return f.fn(ctx, syncID, ids)
}

type fakeStatusService struct {
	fn func(ctx context.Context, request models.StatusRequest) (models.StatusResponse, error)
}

func (f *fakeStatusService) QueryStatus(ctx context.Context, request models.StatusRequest) (models.StatusResponse, error) {
	return f.fn(ctx, request)
}

// fakeAuthService accepts testAPIKey and the token "good-token".
type fakeAuthService struct {
	disabled bool
}

func (f *fakeAuthService) Authenticate(_ context.Context, apiKey string) error {
	if apiKey != testAPIKey {
		return service.ErrUnauthorized
	}
	return nil
}

func (f *fakeAuthService) CreateToken(_ context.Context, subject string) (models.Token, error) {
	if f.disabled {
		return models.Token{}, service.ErrTokenExchangeDisabled
	}
	return models.Token{SignedString: "token-for-" + subject}, nil
}

func (f *fakeAuthService) ParseToken(_ context.Context, tokenString string) (models.Token, error) {
	if tokenString != "good-token" {
		return models.Token{}, service.ErrTokenIsExpiredOrInvalid
	}
	return models.Token{}, nil
}

type fakeAppInfoService struct {
	version string
}

func (f *fakeAppInfoService) GetAppVersion(context.Context) string {
	return f.version
}

type fakeHealthService struct {
	err error
}

func (f *fakeHealthService) Check(context.Context) error {
	return f.err
}

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

// newTestServices returns services whose sync methods fail the test when
// called. Tests replace the ones they exercise.
func newTestServices(t *testing.T) *service.Services {
	t.Helper()
	unexpected := func() { t.Errorf("unexpected service call") }

	return &service.Services{
		SessionService: &fakeSessionService{
			openFn: func(context.Context, string, string) (models.SyncSession, error) {
				unexpected()
				return models.SyncSession{}, nil
			},
			openIncFn: func(context.Context, string, string, *time.Time) (models.SyncSession, []models.Photo, error) {
				unexpected()
				return models.SyncSession{}, nil, nil
			},
			completeFn: func(context.Context, string, models.SessionStatus, string) (models.SyncSession, error) {
				unexpected()
				return models.SyncSession{}, nil
			},
		},
		ReconcileService: &fakeReconcileService{fn: func(context.Context, string, []models.Photo, bool) (models.ReconcileResult, error) {
			unexpected()
			return models.ReconcileResult{}, nil
		}},
		FileTransferService: &fakeFileTransferService{fn: func(context.Context, string, string, []byte) (models.UploadResult, error) {
			unexpected()
			return models.UploadResult{}, nil
		}},
		VerifyService: &fakeVerifyService{fn: func(context.Context, string, []string) (models.VerifyResponse, error) {
			unexpected()
			return models.VerifyResponse{}, nil
		}},
		StatusService: &fakeStatusService{fn: func(context.Context, models.StatusRequest) (models.StatusResponse, error) {
			unexpected()
			return models.StatusResponse{}, nil
		}},
		AuthService:    &fakeAuthService{},
		AppInfoService: &fakeAppInfoService{version: "test-version"},
		HealthService:  &fakeHealthService{},
	}
}

func newTestHandler(t *testing.T, services *service.Services) *Handler {
	t.Helper()
	return NewHandler(services, config.Server{RequestTimeout: 5 * time.Second, MaxUploadBytes: 1 << 20}, "", logger.Nop())
}

// serve runs a request through the full router. body may be empty.
func serve(t *testing.T, h *Handler, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	h.Init().ServeHTTP(rec, req)
	return rec
}

// authed returns headers carrying the test API key.
func authed() map[string]string {
	return map[string]string{utils.HeaderAPIKey: testAPIKey}
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body models.ErrorResponse
	require.NoError(t, jsonDecode(rec, &body))
	return body.Error
}

func jsonDecode(rec *httptest.ResponseRecorder, dst any) error {
	return json.Unmarshal(rec.Body.Bytes(), dst)
}
