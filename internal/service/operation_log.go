package service

import (
	"context"

	"github.com/MKhiriev/go-photo-sync/internal/logger"
	"github.com/MKhiriev/go-photo-sync/internal/store"
	"github.com/MKhiriev/go-photo-sync/internal/utils"
	"github.com/MKhiriev/go-photo-sync/models"
)

// operationRecorder appends audit entries for a session. A failed append
// is logged and otherwise ignored: the caller's response does not depend
// on the audit trail.
type operationRecorder struct {
	operations store.OperationRepository
	clock      utils.Clock
}

func newOperationRecorder(operations store.OperationRepository, clock utils.Clock) *operationRecorder {
	return &operationRecorder{
		operations: operations,
		clock:      clock,
	}
}

func (r *operationRecorder) record(ctx context.Context, syncID string, status models.OperationStatus, details models.OperationDetails) {
	log := logger.FromContext(ctx)

	op := models.SyncOperation{
		SyncID:    syncID,
		Operation: details.Kind(),
		Status:    status,
		Details:   details,
		Timestamp: r.clock.Now(),
	}

	if _, err := r.operations.Append(context.WithoutCancel(ctx), op); err != nil {
		log.Err(err).
			Str("func", "operationRecorder.record").
			Str("sync_id", syncID).
			Str("operation", string(op.Operation)).
			Msg("failed to append operation log entry")
	}
}

func statusOf(failed bool) models.OperationStatus {
	if failed {
		return models.OperationFailed
	}
	return models.OperationCompleted
}
