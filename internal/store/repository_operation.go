package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-photo-sync/internal/logger"
	"github.com/MKhiriev/go-photo-sync/models"
)

// operationRepository is the append-only log of sync operations. It never
// issues UPDATE or DELETE statements.
type operationRepository struct {
	*DB
	logger *logger.Logger
}

func NewOperationRepository(db *DB, logger *logger.Logger) OperationRepository {
	return &operationRepository{
		DB:     db,
		logger: logger,
	}
}

func (o *operationRepository) Append(ctx context.Context, operation models.SyncOperation) (int64, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildInsertOperationQuery(o.builder(), operation)
	if err != nil {
		log.Err(err).
			Str("func", "operationRepository.Append").
			Str("sync_id", operation.SyncID).
			Msg("failed to create query")
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var id int64
	if err = o.DB.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		log.Err(err).
			Str("func", "operationRepository.Append").
			Str("sync_id", operation.SyncID).
			Str("operation", string(operation.Operation)).
			Msg("failed to append operation")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return id, nil
}

func (o *operationRepository) ListBySession(ctx context.Context, syncID string) ([]models.SyncOperation, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectOperationsQuery(o.builder(), syncID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := o.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "operationRepository.ListBySession").
			Str("sync_id", syncID).
			Msg("failed to execute query for session operations")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	operations := make([]models.SyncOperation, 0, 16)
	for rows.Next() {
		var (
			op      models.SyncOperation
			kind    string
			status  string
			details string
		)

		if scanErr := rows.Scan(&op.ID, &op.SyncID, &kind, &status, &details, &op.Timestamp); scanErr != nil {
			log.Err(scanErr).
				Str("func", "operationRepository.ListBySession").
				Str("sync_id", syncID).
				Msg("failed to scan operation row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		op.Operation = models.OperationKind(kind)
		op.Status = models.OperationStatus(status)
		op.Timestamp = op.Timestamp.UTC()
		if op.Details, err = models.DecodeOperationDetails(details); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrEncodingColumn, err)
		}

		operations = append(operations, op)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "operationRepository.ListBySession").
			Str("sync_id", syncID).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return operations, nil
}
