package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MKhiriev/go-photo-sync/internal/config"
	"github.com/MKhiriev/go-photo-sync/internal/logger"
	"github.com/MKhiriev/go-photo-sync/internal/store"
	"github.com/MKhiriev/go-photo-sync/internal/utils"
	"github.com/MKhiriev/go-photo-sync/internal/validators"
	"github.com/MKhiriev/go-photo-sync/models"
)

type reconcileOutcome int

const (
	outcomeSkipped reconcileOutcome = iota
	outcomeAdded
	outcomeUpdated
	outcomeFailed
)

type itemOutcome struct {
	outcome reconcileOutcome
	err     error
}

// reconcileService applies client batches to the catalog. Every photo is
// handled on its own: a failing record is reported inline and never
// aborts the rest of the batch.
type reconcileService struct {
	sessions    SessionService
	catalog     store.CatalogRepository
	recorder    *operationRecorder
	validator   validators.Validator
	clock       utils.Clock
	concurrency int

	logger *logger.Logger
}

func NewReconcileService(
	sessions SessionService,
	catalog store.CatalogRepository,
	operations store.OperationRepository,
	clock utils.Clock,
	cfg config.App,
	logger *logger.Logger,
) ReconcileService {
	concurrency := cfg.ReconcileConcurrency
	if concurrency < 1 {
		concurrency = 1
	}

	return &reconcileService{
		sessions:    sessions,
		catalog:     catalog,
		recorder:    newOperationRecorder(operations, clock),
		validator:   validators.NewSyncValidator(),
		clock:       clock,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Reconcile inserts unseen photos and, in incremental mode, overwrites
// existing ones. A full sync never overwrites. Processed always equals
// len(photos).
func (r *reconcileService) Reconcile(ctx context.Context, syncID string, photos []models.Photo, isIncremental bool) (models.ReconcileResult, error) {
	log := logger.FromContext(ctx)

	request := models.ReconcileRequest{SyncID: syncID, Photos: photos, IsIncremental: isIncremental}
	if err := r.validator.Validate(ctx, request); err != nil {
		return models.ReconcileResult{}, validationError(err)
	}

	if _, err := r.sessions.RequireActive(ctx, syncID); err != nil {
		return models.ReconcileResult{}, err
	}

	outcomes := make([]itemOutcome, len(photos))

	var g errgroup.Group
	g.SetLimit(r.concurrency)
	for i := range photos {
		g.Go(func() error {
			outcome, err := r.reconcileOne(ctx, photos[i], isIncremental)
			outcomes[i] = itemOutcome{outcome: outcome, err: err}
			return nil
		})
	}
	_ = g.Wait()

	result := models.ReconcileResult{
		Processed: len(photos),
		Errors:    make([]models.ItemError, 0),
	}
	for i, o := range outcomes {
		switch o.outcome {
		case outcomeAdded:
			result.Added++
		case outcomeUpdated:
			result.Updated++
		case outcomeFailed:
			result.Errors = append(result.Errors, models.ItemError{ID: photos[i].ID, Error: o.err.Error()})
		}
	}

	if len(result.Errors) > 0 {
		log.Warn().
			Str("func", "*reconcileService.Reconcile").
			Str("sync_id", syncID).
			Int("failed", len(result.Errors)).
			Int("processed", result.Processed).
			Msg("batch reconciled with item errors")
	}

	r.recorder.record(ctx, syncID, statusOf(len(result.Errors) > 0), models.OperationDetails{
		Type: models.DetailsReconcile,
		Reconcile: &models.ReconcileDetails{
			Incremental: isIncremental,
			Processed:   result.Processed,
			Added:       result.Added,
			Updated:     result.Updated,
			Failed:      len(result.Errors),
		},
	})

	return result, nil
}

func (r *reconcileService) reconcileOne(ctx context.Context, photo models.Photo, isIncremental bool) (reconcileOutcome, error) {
	if err := r.validator.Validate(ctx, photo); err != nil {
		return outcomeFailed, validationError(err)
	}

	existing, err := r.catalog.GetByID(ctx, photo.ID)
	switch {
	case errors.Is(err, store.ErrPhotoNotFound):
		now := r.clock.Now()
		photo.AddTimestamp = now
		photo.ModifiedTimestamp = now

		added, insertErr := r.catalog.InsertIfAbsent(ctx, photo)
		if insertErr != nil {
			return outcomeFailed, insertErr
		}
		if added {
			return outcomeAdded, nil
		}

		// another request inserted the same id in the meantime
		if !isIncremental {
			return outcomeSkipped, nil
		}
		if existing, err = r.catalog.GetByID(ctx, photo.ID); err != nil {
			return outcomeFailed, err
		}
	case err != nil:
		return outcomeFailed, err
	case !isIncremental:
		return outcomeSkipped, nil
	}

	photo.AddTimestamp = existing.AddTimestamp
	photo.ModifiedTimestamp = nextModified(r.clock.Now(), existing.ModifiedTimestamp)

	if err = r.catalog.Update(ctx, photo); err != nil {
		return outcomeFailed, fmt.Errorf("update %q: %w", photo.ID, err)
	}

	return outcomeUpdated, nil
}

// nextModified keeps modification times strictly increasing per record
// even when the clock has not advanced past the previous stamp.
func nextModified(now, previous time.Time) time.Time {
	if floor := previous.Add(time.Microsecond); now.Before(floor) {
		return floor
	}
	return now
}
