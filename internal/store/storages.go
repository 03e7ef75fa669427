package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-photo-sync/internal/config"
	"github.com/MKhiriev/go-photo-sync/internal/logger"
	"github.com/MKhiriev/go-photo-sync/internal/utils"
)

// Storages bundles every persistence dependency of the sync core.
type Storages struct {
	SessionRepository   SessionRepository
	OperationRepository OperationRepository
	CatalogRepository   CatalogRepository
	ObjectStorage       ObjectStorage
	Pinger              Pinger

	db *DB
}

// NewStorages connects to the catalog database, applies migrations and
// opens the object store rooted at cfg.Files.BinaryDataDir.
func NewStorages(ctx context.Context, cfg config.Storage, clock utils.Clock, log *logger.Logger) (*Storages, error) {
	db, err := NewConnect(ctx, cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err = db.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	objects, err := NewFileObjectStorage(cfg.Files.BinaryDataDir, clock, log)
	if err != nil {
		db.Close()
		return nil, err
	}

	return NewStoragesFromDB(db, objects, log), nil
}

// NewStoragesFromDB builds the repositories on an already opened database.
func NewStoragesFromDB(db *DB, objects ObjectStorage, log *logger.Logger) *Storages {
	return &Storages{
		SessionRepository:   NewSessionRepository(db, log),
		OperationRepository: NewOperationRepository(db, log),
		CatalogRepository:   NewCatalogRepository(db, log),
		ObjectStorage:       objects,
		Pinger:              db,
		db:                  db,
	}
}

func (s *Storages) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
