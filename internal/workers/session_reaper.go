package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/go-photo-sync/internal/logger"
	"github.com/MKhiriev/go-photo-sync/internal/service"
)

// SessionReaper periodically marks in_progress sessions older than ttl as
// failed, freeing the device's full-session slot after a client vanished.
type SessionReaper struct {
	sessions service.SessionService
	ttl      time.Duration
	interval time.Duration

	logger *logger.Logger
}

func NewSessionReaper(sessions service.SessionService, ttl, interval time.Duration, logger *logger.Logger) *SessionReaper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &SessionReaper{
		sessions: sessions,
		ttl:      ttl,
		interval: interval,
		logger:   logger,
	}
}

// Run sweeps once every interval until ctx is cancelled.
func (r *SessionReaper) Run(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.Sweep(ctx)
			}
		}
	}()
}

// Sweep expires stale sessions once and returns how many were failed.
func (r *SessionReaper) Sweep(ctx context.Context) int64 {
	expired, err := r.sessions.ExpireStaleSessions(ctx, r.ttl)
	if err != nil {
		r.logger.Err(err).Str("func", "*SessionReaper.Sweep").Msg("failed to expire stale sessions")
		return 0
	}

	if expired > 0 {
		r.logger.Info().
			Str("func", "*SessionReaper.Sweep").
			Int64("expired", expired).
			Dur("ttl", r.ttl).
			Msg("stale sessions failed")
	}
	return expired
}
