package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-photo-sync/internal/logger"
	"github.com/MKhiriev/go-photo-sync/models"
)

// maxOpenAttempts bounds the conditional-write loop of OpenExclusive. A
// conflicting open commits before the loser retries, so the second attempt
// normally succeeds.
const maxOpenAttempts = 3

// sessionRepository implements [SessionRepository] on top of the catalog
// database. The one-in_progress-full-session-per-device rule is enforced by
// a partial unique index; OpenExclusive retries its transaction when it
// loses the race for that index.
type sessionRepository struct {
	*DB
	logger *logger.Logger
}

func NewSessionRepository(db *DB, logger *logger.Logger) SessionRepository {
	return &sessionRepository{
		DB:     db,
		logger: logger,
	}
}

func (s *sessionRepository) OpenExclusive(ctx context.Context, session models.SyncSession) (int64, error) {
	log := logger.FromContext(ctx)

	var lastErr error
	for attempt := 1; attempt <= maxOpenAttempts; attempt++ {
		cancelled, err := s.openExclusiveTx(ctx, session)
		if err == nil {
			return cancelled, nil
		}
		if s.errorClassificator.Classify(err) == NonRetryable {
			return 0, err
		}

		lastErr = err
		log.Warn().
			Err(err).
			Str("func", "sessionRepository.OpenExclusive").
			Str("device_id", session.DeviceID).
			Int("attempt", attempt).
			Msg("lost race for device session slot, retrying")
	}

	return 0, fmt.Errorf("%w: %w", ErrSessionConflict, lastErr)
}

func (s *sessionRepository) openExclusiveTx(ctx context.Context, session models.SyncSession) (int64, error) {
	log := logger.FromContext(ctx)

	cancelQuery, cancelArgs, err := buildCancelActiveSessionsQuery(s.builder(), session.DeviceID, session.StartTimestamp)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	insertQuery, insertArgs, err := buildInsertSessionQuery(s.builder(), session)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).
			Str("func", "sessionRepository.OpenExclusive").
			Str("device_id", session.DeviceID).
			Msg("failed to begin transaction")
		return 0, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, cancelQuery, cancelArgs...)
	if err != nil {
		log.Err(err).
			Str("func", "sessionRepository.OpenExclusive").
			Str("device_id", session.DeviceID).
			Msg("failed to cancel previous sessions")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	cancelled, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if _, err = tx.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
		log.Err(err).
			Str("func", "sessionRepository.OpenExclusive").
			Str("device_id", session.DeviceID).
			Str("sync_id", session.ID).
			Msg("failed to insert session")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).
			Str("func", "sessionRepository.OpenExclusive").
			Str("device_id", session.DeviceID).
			Msg("failed to commit transaction")
		return 0, fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	log.Debug().
		Str("func", "sessionRepository.OpenExclusive").
		Str("device_id", session.DeviceID).
		Str("sync_id", session.ID).
		Int64("cancelled", cancelled).
		Msg("session opened")

	return cancelled, nil
}

func (s *sessionRepository) Create(ctx context.Context, session models.SyncSession) error {
	log := logger.FromContext(ctx)

	query, args, err := buildInsertSessionQuery(s.builder(), session)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = s.DB.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).
			Str("func", "sessionRepository.Create").
			Str("device_id", session.DeviceID).
			Str("sync_id", session.ID).
			Msg("failed to insert session")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (s *sessionRepository) GetByID(ctx context.Context, syncID string) (models.SyncSession, error) {
	query, args, err := buildSelectSessionByIDQuery(s.builder(), syncID)
	if err != nil {
		return models.SyncSession{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return s.getOne(ctx, "sessionRepository.GetByID", query, args)
}

func (s *sessionRepository) GetLatestByDevice(ctx context.Context, deviceID string) (models.SyncSession, error) {
	query, args, err := buildSelectLatestSessionByDeviceQuery(s.builder(), deviceID)
	if err != nil {
		return models.SyncSession{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return s.getOne(ctx, "sessionRepository.GetLatestByDevice", query, args)
}

func (s *sessionRepository) getOne(ctx context.Context, fn, query string, args []any) (models.SyncSession, error) {
	log := logger.FromContext(ctx)

	session, err := scanSession(s.DB.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.SyncSession{}, ErrSessionNotFound
	}
	if err != nil {
		log.Err(err).Str("func", fn).Msg("failed to scan session row")
		return models.SyncSession{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return session, nil
}

func (s *sessionRepository) Close(ctx context.Context, syncID string, status models.SessionStatus, endedAt time.Time) (models.SyncSession, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildCloseSessionQuery(s.builder(), syncID, status, endedAt)
	if err != nil {
		return models.SyncSession{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := s.DB.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "sessionRepository.Close").
			Str("sync_id", syncID).
			Msg("failed to close session")
		return models.SyncSession{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return models.SyncSession{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	session, err := s.GetByID(ctx, syncID)
	if err != nil {
		return models.SyncSession{}, err
	}
	if affected == 0 {
		return session, ErrSessionNotActive
	}

	return session, nil
}

func (s *sessionRepository) ExpireStale(ctx context.Context, startedBefore, endedAt time.Time) (int64, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildExpireSessionsQuery(s.builder(), startedBefore, endedAt)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := s.DB.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "sessionRepository.ExpireStale").
			Time("started_before", startedBefore).
			Msg("failed to expire stale sessions")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return res.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (models.SyncSession, error) {
	var (
		session models.SyncSession
		kind    string
		status  string
		endedAt sql.NullTime
	)

	if err := row.Scan(
		&session.ID,
		&session.DeviceID,
		&session.UserName,
		&kind,
		&status,
		&session.StartTimestamp,
		&endedAt,
	); err != nil {
		return models.SyncSession{}, err
	}

	session.Kind = models.SessionKind(kind)
	session.Status = models.SessionStatus(status)
	session.StartTimestamp = session.StartTimestamp.UTC()
	if endedAt.Valid {
		t := endedAt.Time.UTC()
		session.EndTimestamp = &t
	}

	return session, nil
}
