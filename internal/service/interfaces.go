package service

import (
	"context"
	"time"

	"github.com/MKhiriev/go-photo-sync/models"
)

// SessionService owns the sync session lifecycle.
type SessionService interface {
	// OpenSession cancels every in_progress full session of the device and
	// opens a new one.
	OpenSession(ctx context.Context, deviceID, userName string) (models.SyncSession, error)

	// OpenIncrementalSession opens an incremental session next to any
	// existing ones and returns the catalog changes since lastSyncTime.
	OpenIncrementalSession(ctx context.Context, deviceID, userName string, lastSyncTime *time.Time) (models.SyncSession, []models.Photo, error)

	IsSessionActive(ctx context.Context, syncID string) (bool, error)

	// RequireActive returns the session or an *InvalidSessionError.
	RequireActive(ctx context.Context, syncID string) (models.SyncSession, error)

	// CompleteSession moves an active session to completed or failed.
	CompleteSession(ctx context.Context, syncID string, status models.SessionStatus, reason string) (models.SyncSession, error)

	// ExpireStaleSessions fails in_progress sessions older than olderThan.
	ExpireStaleSessions(ctx context.Context, olderThan time.Duration) (int64, error)
}

type ChangeSetService interface {
	ChangesSince(ctx context.Context, watermark time.Time) ([]models.Photo, error)
}

type ReconcileService interface {
	Reconcile(ctx context.Context, syncID string, photos []models.Photo, isIncremental bool) (models.ReconcileResult, error)
}

type FileTransferService interface {
	// UploadBinary stores payload at filePath. Object store failures are
	// reported in the result, not as an error.
	UploadBinary(ctx context.Context, syncID, filePath string, payload []byte) (models.UploadResult, error)
}

type VerifyService interface {
	VerifyItems(ctx context.Context, syncID string, photoIDs []string) (models.VerifyResponse, error)
}

type StatusService interface {
	QueryStatus(ctx context.Context, request models.StatusRequest) (models.StatusResponse, error)
}

// AuthService checks the shared credential and issues bearer tokens for it.
type AuthService interface {
	Authenticate(ctx context.Context, apiKey string) error
	CreateToken(ctx context.Context, subject string) (models.Token, error)
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
}

type HealthService interface {
	Check(ctx context.Context) error
}
