package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"
	"sync"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-photo-sync/internal/config"
	"github.com/MKhiriev/go-photo-sync/internal/logger"
	"github.com/MKhiriev/go-photo-sync/internal/utils"
	"github.com/MKhiriev/go-photo-sync/models"
)

type httpServerAdapter struct {
	client *resty.Client

	apiKey  string
	hashKey string

	mu    sync.RWMutex
	token string

	logger *logger.Logger
}

// NewHTTPServerAdapter constructs an HTTP/REST implementation of [ServerAdapter].
// It normalises and validates the base URL from adapterCfg.HTTPAddress and
// configures the underlying resty client with the resolved base URL and
// request timeout.
//
// Returns an error if adapterCfg.HTTPAddress is empty or cannot be parsed as a
// valid URL.
func NewHTTPServerAdapter(adapterCfg config.ClientAdapter, appCfg config.ClientApp, logger *logger.Logger) (ServerAdapter, error) {
	baseURL, err := normalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(adapterCfg.RequestTimeout)

	return &httpServerAdapter{
		client:  client,
		apiKey:  adapterCfg.APIKey,
		hashKey: appCfg.HashKey,
		logger:  logger,
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// SetToken implements [ServerAdapter].
func (h *httpServerAdapter) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

// Token implements [ServerAdapter].
func (h *httpServerAdapter) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// ExchangeToken implements [ServerAdapter]. It POSTs to /api/auth/token with
// the API key and reads the bearer token from the Authorization response
// header.
func (h *httpServerAdapter) ExchangeToken(ctx context.Context, subject string) error {
	if h.apiKey == "" {
		return ErrNoCredentials
	}

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader(utils.HeaderAPIKey, h.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(models.TokenRequest{Subject: subject}).
		Post("/api/auth/token")
	if err != nil {
		return fmt.Errorf("token request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return err
	}

	token, err := utils.ParseBearerToken(resp.Header().Get(utils.HeaderAuthorization))
	if err != nil {
		return fmt.Errorf("token parse bearer token: %w", err)
	}

	h.SetToken(token)
	return nil
}

// OpenSession implements [ServerAdapter]. POST /api/sync/start.
func (h *httpServerAdapter) OpenSession(ctx context.Context, req models.OpenSessionRequest) (models.OpenSessionResponse, error) {
	var out models.OpenSessionResponse
	if err := h.postJSON(ctx, "/api/sync/start", req, &out); err != nil {
		return models.OpenSessionResponse{}, fmt.Errorf("open session: %w", err)
	}
	return out, nil
}

// OpenIncremental implements [ServerAdapter]. POST /api/sync/incremental.
func (h *httpServerAdapter) OpenIncremental(ctx context.Context, req models.OpenIncrementalRequest) (models.OpenIncrementalResponse, error) {
	var out models.OpenIncrementalResponse
	if err := h.postJSON(ctx, "/api/sync/incremental", req, &out); err != nil {
		return models.OpenIncrementalResponse{}, fmt.Errorf("open incremental session: %w", err)
	}
	return out, nil
}

// Reconcile implements [ServerAdapter]. POST /api/sync/metadata. When a
// hash key is configured the body is signed into the HashSHA256 header.
func (h *httpServerAdapter) Reconcile(ctx context.Context, req models.ReconcileRequest) (models.ReconcileResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return models.ReconcileResult{}, fmt.Errorf("encode reconcile request: %w", err)
	}

	r, err := h.authedRequest(ctx)
	if err != nil {
		return models.ReconcileResult{}, err
	}
	if h.hashKey != "" {
		r.SetHeader(utils.HeaderHash, utils.SignPayload(body, h.hashKey))
	}

	var out models.ReconcileResult
	resp, err := r.
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetResult(&out).
		Post("/api/sync/metadata")
	if err != nil {
		return models.ReconcileResult{}, fmt.Errorf("reconcile request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.ReconcileResult{}, fmt.Errorf("reconcile: %w", err)
	}

	return out, nil
}

// Upload implements [ServerAdapter]. POST /api/sync/file as multipart form
// data with the syncId, filePath and file parts.
func (h *httpServerAdapter) Upload(ctx context.Context, req models.UploadRequest) (models.UploadResult, error) {
	r, err := h.authedRequest(ctx)
	if err != nil {
		return models.UploadResult{}, err
	}

	resp, err := r.
		SetMultipartFormData(map[string]string{
			"syncId":   req.SyncID,
			"filePath": req.FilePath,
		}).
		SetFileReader("file", path.Base(req.FilePath), bytes.NewReader(req.Payload)).
		Post("/api/sync/file")
	if err != nil {
		return models.UploadResult{}, fmt.Errorf("upload request: %w", err)
	}

	if resp.StatusCode() == http.StatusInternalServerError {
		var failed models.UploadResult
		if json.Unmarshal(resp.Body(), &failed) == nil && failed.FilePath != "" {
			h.logger.Warn().
				Str("func", "*httpServerAdapter.Upload").
				Str("path", failed.FilePath).
				Str("error", failed.Error).
				Msg("server failed to store file")
			return failed, nil
		}
	}
	if err = mapHTTPError(resp); err != nil {
		return models.UploadResult{}, fmt.Errorf("upload: %w", err)
	}

	var out models.UploadResult
	if err = json.Unmarshal(resp.Body(), &out); err != nil {
		return models.UploadResult{}, fmt.Errorf("decode upload response: %w", err)
	}
	return out, nil
}

// Verify implements [ServerAdapter]. POST /api/sync/verify.
func (h *httpServerAdapter) Verify(ctx context.Context, req models.VerifyRequest) (models.VerifyResponse, error) {
	var out models.VerifyResponse
	if err := h.postJSON(ctx, "/api/sync/verify", req, &out); err != nil {
		return models.VerifyResponse{}, fmt.Errorf("verify: %w", err)
	}
	return out, nil
}

// Complete implements [ServerAdapter]. POST /api/sync/complete.
func (h *httpServerAdapter) Complete(ctx context.Context, req models.CompleteSessionRequest) (models.SyncSession, error) {
	var out models.SyncSession
	if err := h.postJSON(ctx, "/api/sync/complete", req, &out); err != nil {
		return models.SyncSession{}, fmt.Errorf("complete session: %w", err)
	}
	return out, nil
}

// Status implements [ServerAdapter]. GET /api/sync/status with either the
// syncId or the deviceId query parameter.
func (h *httpServerAdapter) Status(ctx context.Context, req models.StatusRequest) (models.StatusResponse, error) {
	r, err := h.authedRequest(ctx)
	if err != nil {
		return models.StatusResponse{}, err
	}
	if req.SyncID != "" {
		r.SetQueryParam("syncId", req.SyncID)
	}
	if req.DeviceID != "" {
		r.SetQueryParam("deviceId", req.DeviceID)
	}

	var out models.StatusResponse
	resp, err := r.SetResult(&out).Get("/api/sync/status")
	if err != nil {
		return models.StatusResponse{}, fmt.Errorf("status request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.StatusResponse{}, fmt.Errorf("status: %w", err)
	}

	return out, nil
}

// Version implements [ServerAdapter]. GET /api/version needs no credentials.
func (h *httpServerAdapter) Version(ctx context.Context) (string, error) {
	resp, err := h.client.R().SetContext(ctx).Get("/api/version")
	if err != nil {
		return "", fmt.Errorf("version request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.String()), nil
}

func (h *httpServerAdapter) postJSON(ctx context.Context, route string, body, result any) error {
	r, err := h.authedRequest(ctx)
	if err != nil {
		return err
	}

	resp, err := r.
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetResult(result).
		Post(route)
	if err != nil {
		return fmt.Errorf("request %s: %w", route, err)
	}

	return mapHTTPError(resp)
}

// authedRequest prefers the bearer token and falls back to the API key.
func (h *httpServerAdapter) authedRequest(ctx context.Context) (*resty.Request, error) {
	req := h.client.R().SetContext(ctx)
	switch token := h.Token(); {
	case token != "":
		req.SetHeader(utils.HeaderAuthorization, "Bearer "+token)
	case h.apiKey != "":
		req.SetHeader(utils.HeaderAPIKey, h.apiKey)
	default:
		return nil, ErrNoCredentials
	}
	return req, nil
}
