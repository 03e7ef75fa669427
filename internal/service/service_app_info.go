package service

import (
	"context"

	"github.com/MKhiriev/go-photo-sync/internal/config"
	"github.com/MKhiriev/go-photo-sync/internal/logger"
	"github.com/MKhiriev/go-photo-sync/internal/store"
)

type appInfoService struct {
	appVersion string

	logger *logger.Logger
}

func NewAppInfoService(cfg config.App, logger *logger.Logger) (AppInfoService, error) {
	if cfg.Version == "" {
		return nil, ErrVersionIsNotSpecified
	}

	return &appInfoService{
		appVersion: cfg.Version,
		logger:     logger,
	}, nil
}

func (s *appInfoService) GetAppVersion(ctx context.Context) string {
	return s.appVersion
}

type healthService struct {
	db store.Pinger
}

func NewHealthService(db store.Pinger) HealthService {
	return &healthService{db: db}
}

// Check pings the catalog database.
func (h *healthService) Check(ctx context.Context) error {
	return h.db.PingContext(ctx)
}
