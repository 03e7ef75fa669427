package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/MKhiriev/go-photo-sync/internal/adapter"
	"github.com/MKhiriev/go-photo-sync/internal/logger"
	"github.com/MKhiriev/go-photo-sync/models"
)

const (
	defaultBatchSize         = 100
	defaultUploadConcurrency = 4
)

type clientSyncService struct {
	adapter adapter.ServerAdapter
	library ClientLibraryService

	logger *logger.Logger
}

func NewClientSyncService(serverAdapter adapter.ServerAdapter, library ClientLibraryService, logger *logger.Logger) ClientSyncService {
	return &clientSyncService{
		adapter: serverAdapter,
		library: library,
		logger:  logger,
	}
}

func (s *clientSyncService) Push(ctx context.Context, opts models.PushOptions) (models.PushReport, error) {
	if opts.BatchSize <= 0 {
		opts.BatchSize = defaultBatchSize
	}
	if opts.UploadConcurrency <= 0 {
		opts.UploadConcurrency = defaultUploadConcurrency
	}

	photos, err := s.library.Scan(ctx)
	if err != nil {
		return models.PushReport{}, err
	}

	report, err := s.open(ctx, opts)
	if err != nil {
		return models.PushReport{}, err
	}

	if err = s.run(ctx, opts, photos, &report); err != nil {
		s.complete(context.WithoutCancel(ctx), &report, models.SessionFailed, err.Error())
		return report, err
	}

	status, reason := models.SessionCompleted, ""
	if report.Failed() {
		status = models.SessionFailed
		reason = fmt.Sprintf("%d records and %d files failed", len(report.Reconcile.Errors), len(report.FailedUploads))
	}
	if err = s.complete(ctx, &report, status, reason); err != nil {
		return report, err
	}

	s.logger.Info().
		Str("func", "*clientSyncService.Push").
		Str("sync_id", report.SyncID).
		Int("processed", report.Reconcile.Processed).
		Int("uploaded", report.Uploaded).
		Int("missing", report.Verify.Missing).
		Str("status", string(report.Status)).
		Msg("push finished")

	return report, nil
}

func (s *clientSyncService) open(ctx context.Context, opts models.PushOptions) (models.PushReport, error) {
	if opts.Since == nil {
		resp, err := s.adapter.OpenSession(ctx, models.OpenSessionRequest{DeviceID: opts.DeviceID, UserName: opts.UserName})
		if err != nil {
			return models.PushReport{}, mapAdapterError(err)
		}
		return models.PushReport{SyncID: resp.SyncID, Watermark: resp.Timestamp}, nil
	}

	resp, err := s.adapter.OpenIncremental(ctx, models.OpenIncrementalRequest{
		DeviceID:     opts.DeviceID,
		UserName:     opts.UserName,
		LastSyncTime: opts.Since,
	})
	if err != nil {
		return models.PushReport{}, mapAdapterError(err)
	}

	return models.PushReport{
		SyncID:      resp.SyncID,
		Watermark:   resp.Timestamp,
		Incremental: true,
		Changes:     len(resp.Changes),
	}, nil
}

func (s *clientSyncService) run(ctx context.Context, opts models.PushOptions, photos []models.Photo, report *models.PushReport) error {
	report.Reconcile.Errors = make([]models.ItemError, 0)
	for start := 0; start < len(photos); start += opts.BatchSize {
		end := min(start+opts.BatchSize, len(photos))

		res, err := s.adapter.Reconcile(ctx, models.ReconcileRequest{
			SyncID:        report.SyncID,
			Photos:        photos[start:end],
			IsIncremental: report.Incremental,
		})
		if err != nil {
			return mapAdapterError(err)
		}

		report.Reconcile.Processed += res.Processed
		report.Reconcile.Added += res.Added
		report.Reconcile.Updated += res.Updated
		report.Reconcile.Errors = append(report.Reconcile.Errors, res.Errors...)
	}

	if err := s.upload(ctx, opts, photos, report); err != nil {
		return err
	}

	ids := make([]string, 0, len(photos))
	for _, p := range photos {
		ids = append(ids, p.ID)
	}
	verify, err := s.adapter.Verify(ctx, models.VerifyRequest{SyncID: report.SyncID, PhotoIDs: ids})
	if err != nil {
		return mapAdapterError(err)
	}
	report.Verify = verify.Summary

	return nil
}

func (s *clientSyncService) upload(ctx context.Context, opts models.PushOptions, photos []models.Photo, report *models.PushReport) error {
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.UploadConcurrency)

	for _, photo := range photos {
		if photo.Path == "" {
			continue
		}

		if opts.Since != nil {
			changed, err := s.library.ModifiedAfter(photo.Path, *opts.Since)
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			if err != nil {
				return fmt.Errorf("stat %s: %w", photo.Path, err)
			}
			if !changed {
				continue
			}
		}

		g.Go(func() error {
			payload, err := s.library.ReadFile(gctx, photo.Path)
			if errors.Is(err, fs.ErrNotExist) {
				// manifest records may point at files uploaded from elsewhere
				return nil
			}
			if err != nil {
				return fmt.Errorf("read %s: %w", photo.Path, err)
			}

			res, err := s.adapter.Upload(gctx, models.UploadRequest{
				SyncID:   report.SyncID,
				FilePath: photo.Path,
				Payload:  payload,
			})
			if err != nil {
				return mapAdapterError(err)
			}

			mu.Lock()
			defer mu.Unlock()
			if res.Success {
				report.Uploaded++
			} else {
				report.FailedUploads = append(report.FailedUploads, res)
			}
			return nil
		})
	}

	return g.Wait()
}

func (s *clientSyncService) complete(ctx context.Context, report *models.PushReport, status models.SessionStatus, reason string) error {
	session, err := s.adapter.Complete(ctx, models.CompleteSessionRequest{
		SyncID: report.SyncID,
		Status: status,
		Error:  reason,
	})
	if err != nil {
		err = mapAdapterError(err)
		s.logger.Err(err).
			Str("func", "*clientSyncService.complete").
			Str("sync_id", report.SyncID).
			Msg("failed to complete session")
		return fmt.Errorf("complete session: %w", err)
	}

	report.Status = session.Status
	return nil
}
