// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-photo-sync/internal/adapter"
	"github.com/MKhiriev/go-photo-sync/internal/app"
)

// mapAdapterError translates the adapter's transport error into a service
// business error. The server message is kept in the wrapped text.
func mapAdapterError(err error) error {
	if err == nil {
		return nil
	}

	msg := extractBody(err)

	switch {
	case errors.Is(err, adapter.ErrBadRequest):
		if strings.HasPrefix(msg, app.MsgInvalidSession) {
			return fmt.Errorf("%w: %s", ErrInvalidSession, strings.TrimPrefix(msg, app.MsgInvalidSession+": "))
		}
		return fmt.Errorf("%w: %s", ErrValidation, msg)

	case errors.Is(err, adapter.ErrUnauthorized), errors.Is(err, adapter.ErrNoCredentials):
		if msg == app.MsgTokenIsExpiredOrInvalid {
			return ErrTokenIsExpiredOrInvalid
		}
		return ErrUnauthorized

	case errors.Is(err, adapter.ErrNotFound):
		if msg == app.MsgTokenExchangeDisabled {
			return ErrTokenExchangeDisabled
		}
		return ErrSessionNotFound
	}

	return err
}

// extractBody extracts the body from a message of the form "bad request: <body>".
// Outer wrapping added by the adapter ("open session: ...") is skipped.
func extractBody(err error) string {
	msg := err.Error()
	for _, sentinel := range []error{adapter.ErrBadRequest, adapter.ErrUnauthorized, adapter.ErrNotFound} {
		prefix := sentinel.Error() + ": "
		if idx := strings.Index(msg, prefix); idx != -1 {
			return msg[idx+len(prefix):]
		}
	}
	if idx := strings.Index(msg, ": "); idx != -1 {
		return msg[idx+2:]
	}
	return msg
}
