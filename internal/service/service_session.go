package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-photo-sync/internal/logger"
	"github.com/MKhiriev/go-photo-sync/internal/store"
	"github.com/MKhiriev/go-photo-sync/internal/utils"
	"github.com/MKhiriev/go-photo-sync/internal/validators"
	"github.com/MKhiriev/go-photo-sync/models"
)

// sessionService implements SessionService. The single in_progress full
// session per device is guaranteed by the repository, which cancels and
// inserts in one transaction.
type sessionService struct {
	sessions  store.SessionRepository
	changes   ChangeSetService
	recorder  *operationRecorder
	validator validators.Validator
	clock     utils.Clock
	ids       utils.IDGenerator

	logger *logger.Logger
}

func NewSessionService(
	sessions store.SessionRepository,
	operations store.OperationRepository,
	changes ChangeSetService,
	clock utils.Clock,
	ids utils.IDGenerator,
	logger *logger.Logger,
) SessionService {
	return &sessionService{
		sessions:  sessions,
		changes:   changes,
		recorder:  newOperationRecorder(operations, clock),
		validator: validators.NewSyncValidator(),
		clock:     clock,
		ids:       ids,
		logger:    logger,
	}
}

func (s *sessionService) OpenSession(ctx context.Context, deviceID, userName string) (models.SyncSession, error) {
	log := logger.FromContext(ctx)

	if err := s.validator.Validate(ctx, models.OpenSessionRequest{DeviceID: deviceID, UserName: userName}); err != nil {
		return models.SyncSession{}, validationError(err)
	}

	session := models.SyncSession{
		ID:             s.ids.Generate(),
		DeviceID:       deviceID,
		UserName:       userName,
		Kind:           models.SessionKindFull,
		Status:         models.SessionInProgress,
		StartTimestamp: s.clock.Now(),
	}

	cancelled, err := s.sessions.OpenExclusive(ctx, session)
	if err != nil {
		log.Err(err).
			Str("func", "*sessionService.OpenSession").
			Str("device_id", deviceID).
			Msg("failed to open session")
		return models.SyncSession{}, fmt.Errorf("open session: %w", err)
	}

	if cancelled > 0 {
		log.Info().
			Str("func", "*sessionService.OpenSession").
			Str("device_id", deviceID).
			Int64("cancelled", cancelled).
			Msg("previous sessions of the device were cancelled")
	}

	s.recorder.record(ctx, session.ID, models.OperationCompleted, models.OperationDetails{
		Type: models.DetailsOpen,
		Open: &models.OpenDetails{
			Kind:              models.SessionKindFull,
			CancelledSessions: cancelled,
		},
	})

	return session, nil
}

func (s *sessionService) OpenIncrementalSession(ctx context.Context, deviceID, userName string, lastSyncTime *time.Time) (models.SyncSession, []models.Photo, error) {
	log := logger.FromContext(ctx)

	request := models.OpenIncrementalRequest{DeviceID: deviceID, UserName: userName, LastSyncTime: lastSyncTime}
	if err := s.validator.Validate(ctx, request); err != nil {
		return models.SyncSession{}, nil, validationError(err)
	}

	session := models.SyncSession{
		ID:             s.ids.Generate(),
		DeviceID:       deviceID,
		UserName:       userName,
		Kind:           models.SessionKindIncremental,
		Status:         models.SessionInProgress,
		StartTimestamp: s.clock.Now(),
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		log.Err(err).
			Str("func", "*sessionService.OpenIncrementalSession").
			Str("device_id", deviceID).
			Msg("failed to create incremental session")
		return models.SyncSession{}, nil, fmt.Errorf("open incremental session: %w", err)
	}

	watermark := lastSyncTime.UTC()
	changes, err := s.changes.ChangesSince(ctx, watermark)
	details := models.OperationDetails{
		Type: models.DetailsOpen,
		Open: &models.OpenDetails{
			Kind:         models.SessionKindIncremental,
			LastSyncTime: &watermark,
			Changes:      len(changes),
		},
	}
	s.recorder.record(ctx, session.ID, statusOf(err != nil), details)
	if err != nil {
		// the client never learns the syncId, so nothing else would end it
		if _, closeErr := s.sessions.Close(ctx, session.ID, models.SessionFailed, s.clock.Now()); closeErr != nil {
			log.Err(closeErr).
				Str("func", "*sessionService.OpenIncrementalSession").
				Str("sync_id", session.ID).
				Msg("failed to mark incremental session as failed")
		}
		return models.SyncSession{}, nil, fmt.Errorf("resolve changes: %w", err)
	}

	return session, changes, nil
}

func (s *sessionService) IsSessionActive(ctx context.Context, syncID string) (bool, error) {
	session, err := s.sessions.GetByID(ctx, syncID)
	if errors.Is(err, store.ErrSessionNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return session.IsActive(), nil
}

func (s *sessionService) RequireActive(ctx context.Context, syncID string) (models.SyncSession, error) {
	session, err := s.sessions.GetByID(ctx, syncID)
	if errors.Is(err, store.ErrSessionNotFound) {
		return models.SyncSession{}, &InvalidSessionError{SyncID: syncID}
	}
	if err != nil {
		return models.SyncSession{}, err
	}

	if !session.IsActive() {
		return models.SyncSession{}, &InvalidSessionError{SyncID: syncID, Status: session.Status}
	}

	return session, nil
}

func (s *sessionService) CompleteSession(ctx context.Context, syncID string, status models.SessionStatus, reason string) (models.SyncSession, error) {
	log := logger.FromContext(ctx)

	request := models.CompleteSessionRequest{SyncID: syncID, Status: status, Error: reason}
	if err := s.validator.Validate(ctx, request); err != nil {
		return models.SyncSession{}, validationError(err)
	}

	session, err := s.sessions.Close(ctx, syncID, status, s.clock.Now())
	switch {
	case errors.Is(err, store.ErrSessionNotFound):
		return models.SyncSession{}, &InvalidSessionError{SyncID: syncID}
	case errors.Is(err, store.ErrSessionNotActive):
		return models.SyncSession{}, &InvalidSessionError{SyncID: syncID, Status: session.Status}
	case err != nil:
		log.Err(err).
			Str("func", "*sessionService.CompleteSession").
			Str("sync_id", syncID).
			Msg("failed to close session")
		return models.SyncSession{}, fmt.Errorf("complete session: %w", err)
	}

	s.recorder.record(ctx, syncID, statusOf(status == models.SessionFailed), models.OperationDetails{
		Type:     models.DetailsComplete,
		Complete: &models.CompleteDetails{Status: status, Reason: reason},
	})

	return session, nil
}

func (s *sessionService) ExpireStaleSessions(ctx context.Context, olderThan time.Duration) (int64, error) {
	log := logger.FromContext(ctx)

	if olderThan <= 0 {
		return 0, validationError(fmt.Errorf("session ttl must be positive, got %s", olderThan))
	}

	now := s.clock.Now()
	expired, err := s.sessions.ExpireStale(ctx, now.Add(-olderThan), now)
	if err != nil {
		return 0, fmt.Errorf("expire stale sessions: %w", err)
	}

	if expired > 0 {
		log.Info().
			Str("func", "*sessionService.ExpireStaleSessions").
			Int64("expired", expired).
			Dur("ttl", olderThan).
			Msg("stale sessions marked failed")
	}

	return expired, nil
}
