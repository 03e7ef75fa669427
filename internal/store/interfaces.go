package store

import (
	"context"
	"time"

	"github.com/MKhiriev/go-photo-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// SessionRepository persists sync sessions.
type SessionRepository interface {
	// OpenExclusive cancels every in_progress full session of the device and
	// inserts session in one transaction. It returns how many sessions were
	// cancelled.
	OpenExclusive(ctx context.Context, session models.SyncSession) (int64, error)
	// Create inserts a session without touching other sessions.
	Create(ctx context.Context, session models.SyncSession) error
	GetByID(ctx context.Context, syncID string) (models.SyncSession, error)
	GetLatestByDevice(ctx context.Context, deviceID string) (models.SyncSession, error)
	// Close moves an in_progress session to status. ErrSessionNotActive is
	// returned when the session exists but is no longer in_progress.
	Close(ctx context.Context, syncID string, status models.SessionStatus, endedAt time.Time) (models.SyncSession, error)
	// ExpireStale fails in_progress sessions started before startedBefore.
	ExpireStale(ctx context.Context, startedBefore, endedAt time.Time) (int64, error)
}

// OperationRepository is the append-only operation log.
type OperationRepository interface {
	Append(ctx context.Context, operation models.SyncOperation) (int64, error)
	ListBySession(ctx context.Context, syncID string) ([]models.SyncOperation, error)
}

// CatalogRepository stores photo records.
type CatalogRepository interface {
	GetByID(ctx context.Context, id string) (models.Photo, error)
	// InsertIfAbsent reports false when a record with the same id already
	// exists; the existing record is left untouched.
	InsertIfAbsent(ctx context.Context, photo models.Photo) (bool, error)
	// Update overwrites every field except id and addTimestamp.
	Update(ctx context.Context, photo models.Photo) error
	ChangedSince(ctx context.Context, watermark time.Time) ([]models.Photo, error)
}

// ObjectStorage stores binary image payloads by relative path.
type ObjectStorage interface {
	Put(ctx context.Context, path, contentType string, payload []byte) (models.BinaryObject, error)
	Exists(ctx context.Context, path string) (bool, error)
	Stat(ctx context.Context, path string) (models.BinaryObject, error)
}

// Pinger reports database reachability for health checks.
type Pinger interface {
	PingContext(ctx context.Context) error
}
