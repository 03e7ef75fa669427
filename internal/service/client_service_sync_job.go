package service

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-photo-sync/internal/logger"
	"github.com/MKhiriev/go-photo-sync/models"
)

type clientSyncJob struct {
	syncService ClientSyncService

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup

	last    models.PushReport
	hasLast bool

	logger *logger.Logger
}

// NewClientSyncJob creates a clientSyncJob that calls syncService.Push on a
// ticker. The job is idle until Start is called.
func NewClientSyncJob(syncService ClientSyncService, logger *logger.Logger) ClientSyncJob {
	return &clientSyncJob{syncService: syncService, logger: logger}
}

// Start implements ClientSyncJob. It stops any previously running job, then
// launches a background goroutine that pushes every interval. The goroutine
// exits when ctx is cancelled or Stop is called.
func (j *clientSyncJob) Start(ctx context.Context, opts models.PushOptions, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				opts = j.push(jobCtx, opts)
			}
		}
	}()
}

// push runs one push and returns the options for the next one.
func (j *clientSyncJob) push(ctx context.Context, opts models.PushOptions) models.PushOptions {
	report, err := j.syncService.Push(ctx, opts)
	if err != nil {
		j.logger.Err(err).
			Str("func", "*clientSyncJob.push").
			Str("device_id", opts.DeviceID).
			Msg("scheduled push failed")
		return opts
	}

	j.mu.Lock()
	j.last, j.hasLast = report, true
	j.mu.Unlock()

	watermark := report.Watermark
	opts.Since = &watermark
	return opts
}

// Stop implements ClientSyncJob. It cancels the background goroutine's context and
// blocks until the goroutine has fully exited. Safe to call when the job is not
// running (no-op in that case).
func (j *clientSyncJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}

func (j *clientSyncJob) LastReport() (models.PushReport, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.last, j.hasLast
}
