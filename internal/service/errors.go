package service

import (
	"errors"
	"fmt"

	"github.com/MKhiriev/go-photo-sync/models"
)

var (
	// ErrValidation marks missing or malformed input. It is a client error
	// and retrying the same request will not help.
	ErrValidation = errors.New("validation error")

	// ErrInvalidSession is returned when a sync id is unknown or the session
	// is no longer in_progress. The client has to open a new session.
	ErrInvalidSession = errors.New("invalid sync session")

	// ErrSessionNotFound is returned by status queries that match nothing.
	ErrSessionNotFound = errors.New("sync session not found")

	ErrUnauthorized            = errors.New("unauthorized")
	ErrTokenCreationFailed     = errors.New("token creation failed")
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")
	ErrTokenExchangeDisabled   = errors.New("token exchange is not configured")

	ErrVersionIsNotSpecified = errors.New("app version is not specified")
)

// InvalidSessionError describes why a sync id was rejected. It matches
// ErrInvalidSession with errors.Is.
type InvalidSessionError struct {
	SyncID string
	// Status is empty when the session does not exist at all.
	Status models.SessionStatus
}

func (e *InvalidSessionError) Error() string {
	if e.Status == "" {
		return fmt.Sprintf("%s: %q does not exist", ErrInvalidSession, e.SyncID)
	}
	return fmt.Sprintf("%s: %q is %s", ErrInvalidSession, e.SyncID, e.Status)
}

func (e *InvalidSessionError) Unwrap() error {
	return ErrInvalidSession
}

func validationError(err error) error {
	return fmt.Errorf("%w: %w", ErrValidation, err)
}
