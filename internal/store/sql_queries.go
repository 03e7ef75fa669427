package store

import (
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-photo-sync/models"
)

const (
	sessionsTable   = "sync_sessions"
	operationsTable = "sync_operations"
	photosTable     = "photos"
)

var sessionColumns = []string{
	"id", "device_id", "user_name", "kind", "status", "start_timestamp", "end_timestamp",
}

var operationColumns = []string{
	"id", "sync_id", "operation", "status", "details", "recorded_at",
}

var photoColumns = []string{
	"id", "title", "description", "file_name", "path", "media_type",
	"width", "height", "size_bytes", "taken_at", "latitude", "longitude",
	"favorite", "checksum", "extra", "add_timestamp", "modified_timestamp",
}

// ── sessions ──────────────────────────────────────────────────────────────────

func buildInsertSessionQuery(b sq.StatementBuilderType, s models.SyncSession) (string, []any, error) {
	return b.Insert(sessionsTable).
		Columns(sessionColumns...).
		Values(s.ID, s.DeviceID, s.UserName, string(s.Kind), string(s.Status), s.StartTimestamp, nullableTime(s.EndTimestamp)).
		ToSql()
}

func buildCancelActiveSessionsQuery(b sq.StatementBuilderType, deviceID string, endedAt time.Time) (string, []any, error) {
	return b.Update(sessionsTable).
		Set("status", string(models.SessionCancelled)).
		Set("end_timestamp", endedAt).
		Where(sq.Eq{
			"device_id": deviceID,
			"status":    string(models.SessionInProgress),
		}).
		ToSql()
}

func buildSelectSessionByIDQuery(b sq.StatementBuilderType, syncID string) (string, []any, error) {
	return b.Select(sessionColumns...).
		From(sessionsTable).
		Where(sq.Eq{"id": syncID}).
		ToSql()
}

func buildSelectLatestSessionByDeviceQuery(b sq.StatementBuilderType, deviceID string) (string, []any, error) {
	return b.Select(sessionColumns...).
		From(sessionsTable).
		Where(sq.Eq{"device_id": deviceID}).
		OrderBy("start_timestamp DESC", "id DESC").
		Limit(1).
		ToSql()
}

func buildCloseSessionQuery(b sq.StatementBuilderType, syncID string, status models.SessionStatus, endedAt time.Time) (string, []any, error) {
	return b.Update(sessionsTable).
		Set("status", string(status)).
		Set("end_timestamp", endedAt).
		Where(sq.Eq{"id": syncID, "status": string(models.SessionInProgress)}).
		ToSql()
}

func buildExpireSessionsQuery(b sq.StatementBuilderType, startedBefore, endedAt time.Time) (string, []any, error) {
	return b.Update(sessionsTable).
		Set("status", string(models.SessionFailed)).
		Set("end_timestamp", endedAt).
		Where(sq.Eq{"status": string(models.SessionInProgress)}).
		Where(sq.Lt{"start_timestamp": startedBefore}).
		ToSql()
}

// ── operations ────────────────────────────────────────────────────────────────

func buildInsertOperationQuery(b sq.StatementBuilderType, op models.SyncOperation) (string, []any, error) {
	details, err := op.Details.Encode()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrEncodingColumn, err)
	}

	return b.Insert(operationsTable).
		Columns(operationColumns[1:]...).
		Values(op.SyncID, string(op.Operation), string(op.Status), details, op.Timestamp).
		Suffix("RETURNING id").
		ToSql()
}

func buildSelectOperationsQuery(b sq.StatementBuilderType, syncID string) (string, []any, error) {
	return b.Select(operationColumns...).
		From(operationsTable).
		Where(sq.Eq{"sync_id": syncID}).
		OrderBy("recorded_at", "id").
		ToSql()
}

// ── photos ────────────────────────────────────────────────────────────────────

func buildSelectPhotoByIDQuery(b sq.StatementBuilderType, id string) (string, []any, error) {
	return b.Select(photoColumns...).
		From(photosTable).
		Where(sq.Eq{"id": id}).
		ToSql()
}

func buildInsertPhotoIfAbsentQuery(b sq.StatementBuilderType, p models.Photo) (string, []any, error) {
	extra, err := encodeExtra(p.Extra)
	if err != nil {
		return "", nil, err
	}

	return b.Insert(photosTable).
		Columns(photoColumns...).
		Values(
			p.ID, p.Title, p.Description, p.FileName, p.Path, p.MediaType,
			p.Width, p.Height, p.SizeBytes, nullableTime(p.TakenAt), nullableFloat(p.Latitude), nullableFloat(p.Longitude),
			p.Favorite, p.Checksum, extra, p.AddTimestamp, p.ModifiedTimestamp,
		).
		Suffix("ON CONFLICT (id) DO NOTHING").
		ToSql()
}

func buildUpdatePhotoQuery(b sq.StatementBuilderType, p models.Photo) (string, []any, error) {
	extra, err := encodeExtra(p.Extra)
	if err != nil {
		return "", nil, err
	}

	return b.Update(photosTable).
		SetMap(map[string]any{
			"title":              p.Title,
			"description":        p.Description,
			"file_name":          p.FileName,
			"path":               p.Path,
			"media_type":         p.MediaType,
			"width":              p.Width,
			"height":             p.Height,
			"size_bytes":         p.SizeBytes,
			"taken_at":           nullableTime(p.TakenAt),
			"latitude":           nullableFloat(p.Latitude),
			"longitude":          nullableFloat(p.Longitude),
			"favorite":           p.Favorite,
			"checksum":           p.Checksum,
			"extra":              extra,
			"modified_timestamp": p.ModifiedTimestamp,
		}).
		Where(sq.Eq{"id": p.ID}).
		ToSql()
}

func buildSelectPhotosChangedSinceQuery(b sq.StatementBuilderType, watermark time.Time) (string, []any, error) {
	return b.Select(photoColumns...).
		From(photosTable).
		Where(sq.Or{
			sq.Gt{"add_timestamp": watermark},
			sq.Gt{"modified_timestamp": watermark},
		}).
		OrderBy("modified_timestamp", "id").
		ToSql()
}

// ── column helpers ────────────────────────────────────────────────────────────

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}

func nullableFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

func encodeExtra(extra map[string]any) (string, error) {
	if len(extra) == 0 {
		return "", nil
	}
	b, err := json.Marshal(extra)
	if err != nil {
		return "", fmt.Errorf("%w: extra: %w", ErrEncodingColumn, err)
	}
	return string(b), nil
}

func decodeExtra(raw string) (map[string]any, error) {
	if raw == "" {
		return nil, nil
	}
	var extra map[string]any
	if err := json.Unmarshal([]byte(raw), &extra); err != nil {
		return nil, fmt.Errorf("%w: extra: %w", ErrEncodingColumn, err)
	}
	return extra, nil
}
