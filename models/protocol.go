// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// OpenSessionRequest is the body of the full session handshake.
type OpenSessionRequest struct {
	DeviceID string `json:"deviceId"`
	UserName string `json:"userName"`
}

// OpenSessionResponse returns the new session id and the server time the
// client should keep as its next watermark.
type OpenSessionResponse struct {
	SyncID    string    `json:"syncId"`
	Timestamp time.Time `json:"timestamp"`
}

// OpenIncrementalRequest opens an incremental session. LastSyncTime is the
// watermark returned by the previous session.
type OpenIncrementalRequest struct {
	DeviceID     string     `json:"deviceId"`
	UserName     string     `json:"userName,omitempty"`
	LastSyncTime *time.Time `json:"lastSyncTime"`
}

// OpenIncrementalResponse carries the catalog delta since LastSyncTime.
type OpenIncrementalResponse struct {
	SyncID    string    `json:"syncId"`
	Timestamp time.Time `json:"timestamp"`
	Changes   []Photo   `json:"changes"`
}

// ReconcileRequest pushes a batch of catalog records. Photos must be
// present; an empty batch is allowed.
type ReconcileRequest struct {
	SyncID        string  `json:"syncId"`
	Photos        []Photo `json:"photos"`
	IsIncremental bool    `json:"isIncremental"`
}

// ItemError reports the failure of a single record.
type ItemError struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

// ReconcileResult is the aggregate outcome of one batch.
// Processed always equals the batch length.
type ReconcileResult struct {
	Processed int         `json:"processed"`
	Added     int         `json:"added"`
	Updated   int         `json:"updated"`
	Errors    []ItemError `json:"errors"`
}

// UploadRequest is one binary upload. Transports fill Payload from the
// multipart body or the raw gRPC bytes.
type UploadRequest struct {
	SyncID   string `json:"syncId"`
	FilePath string `json:"filePath"`
	Payload  []byte `json:"payload,omitempty"`
}

// UploadResult is returned for every upload attempt that passed session
// and input validation.
type UploadResult struct {
	Success  bool   `json:"success"`
	FilePath string `json:"filePath"`
	Error    string `json:"error,omitempty"`
}

// CompleteSessionRequest closes an in-progress session.
type CompleteSessionRequest struct {
	SyncID string        `json:"syncId"`
	Status SessionStatus `json:"status"`
	Error  string        `json:"error,omitempty"`
}

// StatusRequest selects a session either by id or by device.
// Exactly one selector must be set.
type StatusRequest struct {
	SyncID   string `json:"syncId,omitempty"`
	DeviceID string `json:"deviceId,omitempty"`
}

// StatusResponse is a session together with its operation log.
type StatusResponse struct {
	Session    SyncSession     `json:"session"`
	Operations []SyncOperation `json:"operations"`
}

// VerifyRequest asks which of the given ids are fully synced.
type VerifyRequest struct {
	SyncID   string   `json:"syncId"`
	PhotoIDs []string `json:"photoIds"`
}

// VerifyItemResult is the outcome for a single id.
type VerifyItemResult struct {
	ID         string `json:"id"`
	Exists     bool   `json:"exists"`
	FileExists bool   `json:"fileExists"`

	// Size and Digest describe the stored object when FileExists is set.
	Size   int64  `json:"size,omitempty"`
	Digest string `json:"digest,omitempty"`

	// ChecksumMatch compares the catalog checksum with the stored digest.
	// It is nil when either side is unknown.
	ChecksumMatch *bool `json:"checksumMatch,omitempty"`

	Error string `json:"error,omitempty"`
}

// VerifySummary counts fully synced ids. Found counts ids with both a
// catalog record and a binary object.
type VerifySummary struct {
	Total   int `json:"total"`
	Found   int `json:"found"`
	Missing int `json:"missing"`
}

// VerifyResponse is the result of a verification request.
type VerifyResponse struct {
	Results []VerifyItemResult `json:"results"`
	Summary VerifySummary      `json:"summary"`
}

// ErrorResponse is the JSON body of failed requests.
type ErrorResponse struct {
	Error string `json:"error"`
}

// TokenRequest exchanges the shared API key for a bearer token. Subject
// labels the client, usually with its device id.
type TokenRequest struct {
	Subject string `json:"subject"`
}
