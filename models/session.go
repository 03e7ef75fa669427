// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// SessionStatus is the lifecycle state of a [SyncSession].
type SessionStatus string

const (
	// SessionInProgress marks the single session a device is currently
	// allowed to write through.
	SessionInProgress SessionStatus = "in_progress"
	// SessionCompleted is set when the client reports a finished sync.
	SessionCompleted SessionStatus = "completed"
	// SessionCancelled is set on a previous session when the same device
	// opens a new one.
	SessionCancelled SessionStatus = "cancelled"
	// SessionFailed is set when the client reports a failure or when the
	// session is reaped as stale.
	SessionFailed SessionStatus = "failed"
)

// SessionKind distinguishes full sessions from incremental ones.
// Only full sessions take part in the one-active-session-per-device rule.
type SessionKind string

const (
	SessionKindFull        SessionKind = "full"
	SessionKindIncremental SessionKind = "incremental"
)

// SyncSession is one bounded synchronization attempt by one device.
// Sessions are never physically deleted; they only change status.
type SyncSession struct {
	// ID is a server-generated opaque identifier.
	ID string `json:"syncId"`

	// DeviceID identifies the client device that opened the session.
	DeviceID string `json:"deviceId"`

	// UserName is informational. Incremental sessions may leave it empty.
	UserName string `json:"userName,omitempty"`

	Kind SessionKind `json:"kind"`

	Status SessionStatus `json:"status"`

	// StartTimestamp is the server time at which the session was opened.
	// Clients use it as the watermark for their next incremental session.
	StartTimestamp time.Time `json:"startTimestamp"`

	// EndTimestamp is set when the session leaves in_progress.
	EndTimestamp *time.Time `json:"endTimestamp,omitempty"`
}

// IsActive reports whether writes may still be accepted for the session.
func (s *SyncSession) IsActive() bool {
	return s != nil && s.Status == SessionInProgress
}

// TableName returns the name of the database table
// associated with the SyncSession model.
func (s *SyncSession) TableName() string {
	return "sync_sessions"
}
