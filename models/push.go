package models

import "time"

// PushOptions drives one client push of a local library to the server.
type PushOptions struct {
	DeviceID string
	UserName string

	// Since switches the push to an incremental session using Since as the
	// watermark. Only files modified after it are uploaded.
	Since *time.Time

	// BatchSize caps the number of records per metadata request.
	BatchSize int

	// UploadConcurrency bounds parallel file uploads.
	UploadConcurrency int
}

// PushReport summarises a finished push.
type PushReport struct {
	SyncID string `json:"syncId"`

	// Watermark is the server start time of the session. Pass it as Since
	// to the next push.
	Watermark time.Time `json:"watermark"`

	Incremental bool `json:"incremental"`

	// Changes is the number of records the server reported as changed
	// since the previous watermark.
	Changes int `json:"changes"`

	Reconcile ReconcileResult `json:"reconcile"`

	Uploaded      int            `json:"uploaded"`
	FailedUploads []UploadResult `json:"failedUploads,omitempty"`

	Verify VerifySummary `json:"verify"`

	Status SessionStatus `json:"status"`
}

// Failed reports whether any record or file could not be pushed.
func (r PushReport) Failed() bool {
	return len(r.Reconcile.Errors) > 0 || len(r.FailedUploads) > 0
}
