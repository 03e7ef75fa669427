package service

import (
	"github.com/spf13/afero"

	"github.com/MKhiriev/go-photo-sync/internal/adapter"
	"github.com/MKhiriev/go-photo-sync/internal/logger"
)

type ClientServices struct {
	AuthService    ClientAuthService
	LibraryService ClientLibraryService
	SyncService    ClientSyncService
	SyncJob        ClientSyncJob
}

// NewClientServices wires the client workflow over a library rooted at
// libraryFS.
func NewClientServices(libraryFS afero.Fs, serverAdapter adapter.ServerAdapter, logger *logger.Logger) *ClientServices {
	library := NewClientLibraryService(libraryFS, logger)
	syncSvc := NewClientSyncService(serverAdapter, library, logger)

	return &ClientServices{
		AuthService:    NewClientAuthService(serverAdapter, logger),
		LibraryService: library,
		SyncService:    syncSvc,
		SyncJob:        NewClientSyncJob(syncSvc, logger),
	}
}
