package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/MKhiriev/go-photo-sync/internal/config"
	"github.com/MKhiriev/go-photo-sync/internal/logger"
	"github.com/MKhiriev/go-photo-sync/internal/store"
	"github.com/MKhiriev/go-photo-sync/internal/utils"
	"github.com/MKhiriev/go-photo-sync/internal/validators"
	"github.com/MKhiriev/go-photo-sync/models"
)

// conventionalExtensions are probed, in order, for photos that carry no
// explicit object path.
var conventionalExtensions = []string{"", ".jpg", ".jpeg", ".png", ".gif", ".webp"}

// verifyService audits a finished or running sync. It only needs the
// session to exist: verification after CompleteSession is allowed.
type verifyService struct {
	sessions    store.SessionRepository
	catalog     store.CatalogRepository
	objects     store.ObjectStorage
	recorder    *operationRecorder
	validator   validators.Validator
	concurrency int

	logger *logger.Logger
}

func NewVerifyService(
	sessions store.SessionRepository,
	catalog store.CatalogRepository,
	objects store.ObjectStorage,
	operations store.OperationRepository,
	clock utils.Clock,
	cfg config.App,
	logger *logger.Logger,
) VerifyService {
	concurrency := cfg.ReconcileConcurrency
	if concurrency < 1 {
		concurrency = 1
	}

	return &verifyService{
		sessions:    sessions,
		catalog:     catalog,
		objects:     objects,
		recorder:    newOperationRecorder(operations, clock),
		validator:   validators.NewSyncValidator(),
		concurrency: concurrency,
		logger:      logger,
	}
}

func (v *verifyService) VerifyItems(ctx context.Context, syncID string, photoIDs []string) (models.VerifyResponse, error) {
	if err := v.validator.Validate(ctx, models.VerifyRequest{SyncID: syncID, PhotoIDs: photoIDs}); err != nil {
		return models.VerifyResponse{}, validationError(err)
	}

	_, err := v.sessions.GetByID(ctx, syncID)
	if errors.Is(err, store.ErrSessionNotFound) {
		return models.VerifyResponse{}, &InvalidSessionError{SyncID: syncID}
	}
	if err != nil {
		return models.VerifyResponse{}, fmt.Errorf("verify: %w", err)
	}

	results := make([]models.VerifyItemResult, len(photoIDs))

	var g errgroup.Group
	g.SetLimit(v.concurrency)
	for i, id := range photoIDs {
		g.Go(func() error {
			results[i] = v.verifyOne(ctx, id)
			return nil
		})
	}
	_ = g.Wait()

	response := models.VerifyResponse{
		Results: results,
		Summary: models.VerifySummary{Total: len(results)},
	}
	for _, r := range results {
		if r.Exists && r.FileExists {
			response.Summary.Found++
		}
	}
	response.Summary.Missing = response.Summary.Total - response.Summary.Found

	v.recorder.record(ctx, syncID, models.OperationCompleted, models.OperationDetails{
		Type: models.DetailsVerify,
		Verify: &models.VerifyDetails{
			Total:   response.Summary.Total,
			Found:   response.Summary.Found,
			Missing: response.Summary.Missing,
		},
	})

	return response, nil
}

// verifyOne never fails: lookup errors are folded into the item result.
func (v *verifyService) verifyOne(ctx context.Context, id string) models.VerifyItemResult {
	log := logger.FromContext(ctx)

	failed := func(err error) models.VerifyItemResult {
		log.Err(err).
			Str("func", "*verifyService.verifyOne").
			Str("photo_id", id).
			Msg("verification lookup failed")
		return models.VerifyItemResult{ID: id, Error: err.Error()}
	}

	if err := v.validator.Validate(ctx, models.Photo{ID: id}, validators.FieldPhotoID); err != nil {
		return failed(validationError(err))
	}

	photo, err := v.catalog.GetByID(ctx, id)
	if errors.Is(err, store.ErrPhotoNotFound) {
		return models.VerifyItemResult{ID: id}
	}
	if err != nil {
		return failed(err)
	}

	if photo.Path != "" {
		found, existsErr := v.objects.Exists(ctx, photo.Path)
		if existsErr != nil {
			return failed(existsErr)
		}
		if !found {
			return models.VerifyItemResult{ID: id, Exists: true}
		}
		return v.describe(ctx, photo, photo.Path, failed)
	}

	for _, ext := range conventionalExtensions {
		found, existsErr := v.objects.Exists(ctx, id+ext)
		if errors.Is(existsErr, store.ErrInvalidObjectPath) {
			continue
		}
		if existsErr != nil {
			return failed(existsErr)
		}
		if found {
			return v.describe(ctx, photo, id+ext, failed)
		}
	}

	return models.VerifyItemResult{ID: id, Exists: true}
}

// describe fills the stored size and digest of a located object. The
// checksum comparison is informational and does not affect the summary.
func (v *verifyService) describe(ctx context.Context, photo models.Photo, objectPath string, failed func(error) models.VerifyItemResult) models.VerifyItemResult {
	object, err := v.objects.Stat(ctx, objectPath)
	if errors.Is(err, store.ErrObjectNotFound) {
		// removed between the lookup and the stat
		return models.VerifyItemResult{ID: photo.ID, Exists: true}
	}
	if err != nil {
		return failed(err)
	}

	result := models.VerifyItemResult{
		ID:         photo.ID,
		Exists:     true,
		FileExists: true,
		Size:       object.Size,
		Digest:     object.Digest,
	}
	if photo.Checksum != "" && object.Digest != "" {
		match := strings.EqualFold(photo.Checksum, object.Digest)
		result.ChecksumMatch = &match
	}

	return result
}
