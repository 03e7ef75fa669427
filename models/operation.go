// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// OperationKind names the step of the sync workflow an operation log
// entry belongs to.
type OperationKind string

const (
	OperationSession  OperationKind = "session"
	OperationDatabase OperationKind = "database"
	OperationFile     OperationKind = "file"
	OperationVerify   OperationKind = "verify"
)

// OperationStatus is the outcome of one logged step.
type OperationStatus string

const (
	OperationCompleted OperationStatus = "completed"
	OperationFailed    OperationStatus = "failed"
)

// ErrInvalidOperationDetails is returned when details do not carry exactly
// one payload matching their kind.
var ErrInvalidOperationDetails = errors.New("invalid operation details")

// SyncOperation is an append-only audit entry attached to a session.
type SyncOperation struct {
	ID        int64            `json:"id"`
	SyncID    string           `json:"syncId"`
	Operation OperationKind    `json:"operation"`
	Status    OperationStatus  `json:"status"`
	Details   OperationDetails `json:"details"`
	Timestamp time.Time        `json:"timestamp"`
}

// TableName returns the name of the database table
// associated with the SyncOperation model.
func (o *SyncOperation) TableName() string {
	return "sync_operations"
}

// OperationDetails is a tagged union: Type selects which one of the
// payload pointers is populated.
type OperationDetails struct {
	Type      DetailsType       `json:"type"`
	Open      *OpenDetails      `json:"open,omitempty"`
	Complete  *CompleteDetails  `json:"complete,omitempty"`
	Reconcile *ReconcileDetails `json:"reconcile,omitempty"`
	Upload    *UploadDetails    `json:"upload,omitempty"`
	Verify    *VerifyDetails    `json:"verify,omitempty"`
}

// DetailsType is the discriminator of [OperationDetails].
type DetailsType string

const (
	DetailsOpen      DetailsType = "open"
	DetailsComplete  DetailsType = "complete"
	DetailsReconcile DetailsType = "reconcile"
	DetailsUpload    DetailsType = "upload"
	DetailsVerify    DetailsType = "verify"
)

// OpenDetails is logged when a session is opened.
type OpenDetails struct {
	Kind              SessionKind `json:"kind"`
	CancelledSessions int64       `json:"cancelledSessions"`
	LastSyncTime      *time.Time  `json:"lastSyncTime,omitempty"`
	Changes           int         `json:"changes,omitempty"`
}

// CompleteDetails is logged when a session leaves in_progress.
type CompleteDetails struct {
	Status SessionStatus `json:"status"`
	Reason string        `json:"reason,omitempty"`
}

// ReconcileDetails is logged once per metadata batch.
type ReconcileDetails struct {
	Incremental bool `json:"incremental"`
	Processed   int  `json:"processed"`
	Added       int  `json:"added"`
	Updated     int  `json:"updated"`
	Failed      int  `json:"failed"`
}

// UploadDetails is logged for every binary upload attempt.
type UploadDetails struct {
	Path        string `json:"path"`
	ContentType string `json:"contentType,omitempty"`
	Size        int64  `json:"size"`
	Digest      string `json:"digest,omitempty"`
	Error       string `json:"error,omitempty"`
}

// VerifyDetails is logged once per verification request.
type VerifyDetails struct {
	Total   int `json:"total"`
	Found   int `json:"found"`
	Missing int `json:"missing"`
}

// Kind returns the operation kind a details payload is logged under.
func (d OperationDetails) Kind() OperationKind {
	switch d.Type {
	case DetailsReconcile:
		return OperationDatabase
	case DetailsUpload:
		return OperationFile
	case DetailsVerify:
		return OperationVerify
	default:
		return OperationSession
	}
}

// Validate checks that exactly the payload named by Type is set.
func (d OperationDetails) Validate() error {
	set := 0
	for _, present := range []bool{d.Open != nil, d.Complete != nil, d.Reconcile != nil, d.Upload != nil, d.Verify != nil} {
		if present {
			set++
		}
	}
	if set != 1 {
		return fmt.Errorf("%w: %d payloads set", ErrInvalidOperationDetails, set)
	}

	var ok bool
	switch d.Type {
	case DetailsOpen:
		ok = d.Open != nil
	case DetailsComplete:
		ok = d.Complete != nil
	case DetailsReconcile:
		ok = d.Reconcile != nil
	case DetailsUpload:
		ok = d.Upload != nil
	case DetailsVerify:
		ok = d.Verify != nil
	}
	if !ok {
		return fmt.Errorf("%w: type %q does not match payload", ErrInvalidOperationDetails, d.Type)
	}

	return nil
}

// Encode serializes the details for storage.
func (d OperationDetails) Encode() (string, error) {
	if err := d.Validate(); err != nil {
		return "", err
	}
	b, err := json.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("error encoding operation details: %w", err)
	}
	return string(b), nil
}

// DecodeOperationDetails parses details previously produced by Encode.
func DecodeOperationDetails(raw string) (OperationDetails, error) {
	var d OperationDetails
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return OperationDetails{}, fmt.Errorf("error decoding operation details: %w", err)
	}
	return d, d.Validate()
}
