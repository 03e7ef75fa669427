package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-photo-sync/internal/logger"
	"github.com/MKhiriev/go-photo-sync/internal/store"
	"github.com/MKhiriev/go-photo-sync/internal/validators"
	"github.com/MKhiriev/go-photo-sync/models"
)

type statusService struct {
	sessions   store.SessionRepository
	operations store.OperationRepository
	validator  validators.Validator

	logger *logger.Logger
}

func NewStatusService(sessions store.SessionRepository, operations store.OperationRepository, logger *logger.Logger) StatusService {
	return &statusService{
		sessions:   sessions,
		operations: operations,
		validator:  validators.NewSyncValidator(),
		logger:     logger,
	}
}

// QueryStatus returns a session with its operation log in recording order.
// A device selector resolves to the most recently started session.
func (s *statusService) QueryStatus(ctx context.Context, request models.StatusRequest) (models.StatusResponse, error) {
	if err := s.validator.Validate(ctx, request); err != nil {
		return models.StatusResponse{}, validationError(err)
	}

	var (
		session models.SyncSession
		err     error
	)
	// the validator treats a whitespace-only selector as absent
	if strings.TrimSpace(request.SyncID) != "" {
		session, err = s.sessions.GetByID(ctx, request.SyncID)
	} else {
		session, err = s.sessions.GetLatestByDevice(ctx, request.DeviceID)
	}
	if errors.Is(err, store.ErrSessionNotFound) {
		return models.StatusResponse{}, ErrSessionNotFound
	}
	if err != nil {
		return models.StatusResponse{}, fmt.Errorf("query status: %w", err)
	}

	operations, err := s.operations.ListBySession(ctx, session.ID)
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "*statusService.QueryStatus").
			Str("sync_id", session.ID).
			Msg("failed to list session operations")
		return models.StatusResponse{}, fmt.Errorf("query status: %w", err)
	}

	return models.StatusResponse{Session: session, Operations: operations}, nil
}
