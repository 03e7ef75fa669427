// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the client side of the photo sync protocol.
//
// The primary abstraction is [ServerAdapter], which decouples the client
// workflow from the underlying protocol. The package ships an HTTP/REST
// implementation ([NewHTTPServerAdapter]) built on resty.
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic
// error handling (e.g. [ErrBadRequest] for 400, [ErrUnauthorized] for 401).
package adapter

import (
	"context"

	"github.com/MKhiriev/go-photo-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/server_adapter_mock.go -package=mock

// ServerAdapter defines transport-agnostic communication with the sync
// server. Implementations are responsible for serialisation, credential
// headers, and mapping transport-level errors to the sentinel values
// defined in this package.
type ServerAdapter interface {
	// SetToken stores the bearer token attached to all subsequent requests.
	// When a token is set the API key is no longer sent.
	SetToken(token string)

	// Token returns the bearer token currently stored in the adapter, or an
	// empty string if no token has been set yet.
	Token() string

	// ExchangeToken trades the configured API key for a bearer token and
	// stores it via SetToken.
	ExchangeToken(ctx context.Context, subject string) error

	// OpenSession starts a full session for the device. Any session the
	// device still has in progress is cancelled by the server.
	OpenSession(ctx context.Context, req models.OpenSessionRequest) (models.OpenSessionResponse, error)

	// OpenIncremental starts an incremental session and returns every
	// record changed after req.LastSyncTime.
	OpenIncremental(ctx context.Context, req models.OpenIncrementalRequest) (models.OpenIncrementalResponse, error)

	// Reconcile pushes one metadata batch. Per-record failures come back
	// inside the result, not as an error.
	Reconcile(ctx context.Context, req models.ReconcileRequest) (models.ReconcileResult, error)

	// Upload sends one binary object as multipart form data. A storage
	// failure on the server is returned as Success=false with a nil error.
	Upload(ctx context.Context, req models.UploadRequest) (models.UploadResult, error)

	// Verify asks which ids are present in both the catalog and the
	// object store.
	Verify(ctx context.Context, req models.VerifyRequest) (models.VerifyResponse, error)

	// Complete moves an in-progress session to completed or failed.
	Complete(ctx context.Context, req models.CompleteSessionRequest) (models.SyncSession, error)

	// Status returns a session and its operation log.
	Status(ctx context.Context, req models.StatusRequest) (models.StatusResponse, error)

	// Version returns the server version string.
	Version(ctx context.Context) (string, error)
}
