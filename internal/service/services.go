package service

import (
	"github.com/MKhiriev/go-photo-sync/internal/config"
	"github.com/MKhiriev/go-photo-sync/internal/logger"
	"github.com/MKhiriev/go-photo-sync/internal/store"
	"github.com/MKhiriev/go-photo-sync/internal/utils"
)

type Services struct {
	SessionService      SessionService
	ChangeSetService    ChangeSetService
	ReconcileService    ReconcileService
	FileTransferService FileTransferService
	VerifyService       VerifyService
	StatusService       StatusService
	AuthService         AuthService
	AppInfoService      AppInfoService
	HealthService       HealthService
}

func NewServices(storages *store.Storages, cfg config.StructuredConfig, clock utils.Clock, ids utils.IDGenerator, logger *logger.Logger) (*Services, error) {
	appInfo, err := NewAppInfoService(cfg.App, logger)
	if err != nil {
		return nil, err
	}

	changes := NewChangeSetService(storages.CatalogRepository, logger)
	sessions := NewSessionService(storages.SessionRepository, storages.OperationRepository, changes, clock, ids, logger)

	return &Services{
		SessionService:      sessions,
		ChangeSetService:    changes,
		ReconcileService:    NewReconcileService(sessions, storages.CatalogRepository, storages.OperationRepository, clock, cfg.App, logger),
		FileTransferService: NewFileTransferService(sessions, storages.ObjectStorage, storages.OperationRepository, clock, logger),
		VerifyService:       NewVerifyService(storages.SessionRepository, storages.CatalogRepository, storages.ObjectStorage, storages.OperationRepository, clock, cfg.App, logger),
		StatusService:       NewStatusService(storages.SessionRepository, storages.OperationRepository, logger),
		AuthService:         NewAuthService(cfg.App, logger),
		AppInfoService:      appInfo,
		HealthService:       NewHealthService(storages.Pinger),
	}, nil
}
