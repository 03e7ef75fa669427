package workers

import (
	"context"

	"github.com/MKhiriev/go-photo-sync/internal/config"
	"github.com/MKhiriev/go-photo-sync/internal/logger"
	"github.com/MKhiriev/go-photo-sync/internal/service"
)

type Workers struct {
	workers []Worker
}

// NewWorkers builds the server's background workers from cfg. Workers whose
// settings disable them are left out.
func NewWorkers(services *service.Services, cfg config.Workers, logger *logger.Logger) *Workers {
	w := &Workers{}
	if cfg.SessionTTL > 0 {
		w.workers = append(w.workers, NewSessionReaper(services.SessionService, cfg.SessionTTL, cfg.SessionSweepInterval, logger))
	}
	return w
}

func (w *Workers) Run(ctx context.Context) {
	for _, worker := range w.workers {
		worker.Run(ctx)
	}
}
