// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains shared application-layer constants used across the
// photo sync server handlers, middleware and the client error mapper.
//
// All Msg* constants are human-readable message strings written into the
// {"error": ...} body of failed responses. Keeping them in one place lets
// the client recognise them without parsing free text.
package app

const (
	// MsgInvalidDataProvided is returned when the request body cannot be
	// decoded at all.
	MsgInvalidDataProvided = "invalid data provided"

	// MsgInvalidSession prefixes every rejection of an unknown or closed
	// sync id. The full body names the session and its status.
	MsgInvalidSession = "invalid sync session"

	// MsgSessionNotFound is returned by status queries that match nothing.
	MsgSessionNotFound = "sync session not found"

	// MsgUnauthorized is returned when neither a valid API key nor a valid
	// bearer token accompanies the request.
	MsgUnauthorized = "unauthorized"

	// MsgTokenIsExpiredOrInvalid is returned when a bearer token is
	// expired or cannot be verified.
	MsgTokenIsExpiredOrInvalid = "token is expired or invalid"

	// MsgTokenExchangeDisabled is returned by /api/auth/token when the
	// server has no signing key.
	MsgTokenExchangeDisabled = "token exchange is not configured"

	// MsgHashMismatch is returned when the HashSHA256 header does not
	// match the request body.
	MsgHashMismatch = "request hash mismatch"

	// MsgUploadTooLarge is returned when a file exceeds the upload limit.
	MsgUploadTooLarge = "upload is too large"

	// MsgSessionConflict is returned when concurrent opens for one device
	// kept colliding.
	MsgSessionConflict = "concurrent session open, retry"

	// MsgServiceUnavailable is returned by the health check when the
	// catalog database cannot be reached.
	MsgServiceUnavailable = "service unavailable"

	// MsgInternalServerError is returned when an unexpected server-side
	// failure occurs that the client cannot resolve.
	MsgInternalServerError = "internal server error"
)
