// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

// Sentinel errors used by the authentication middleware when neither
// credential header is usable. Callers can match against them with
// [errors.Is].
var (
	// ErrNoCredentials is logged when the request carries neither an
	// X-API-Key nor an Authorization header.
	ErrNoCredentials = errors.New("no `X-API-Key` or `Authorization` header")

	// ErrInvalidAuthorizationHeader is logged when the "Authorization"
	// header is not of the form "Bearer <token>".
	ErrInvalidAuthorizationHeader = errors.New("invalid `Authorization` header")
)
