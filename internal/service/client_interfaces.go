package service

import (
	"context"
	"time"

	"github.com/MKhiriev/go-photo-sync/models"
)

// ClientAuthService obtains credentials for the command line client.
type ClientAuthService interface {
	// Authenticate exchanges the configured API key for a bearer token
	// labelled with subject. When the server has token exchange disabled the
	// adapter keeps sending the API key and Authenticate returns nil.
	Authenticate(ctx context.Context, subject string) error
}

// ClientLibraryService reads the local photo library the client pushes.
type ClientLibraryService interface {
	// Scan walks the library and returns one catalog record per image.
	// Records from the optional photos.json manifest override scanned ones
	// with the same id and may describe photos without a local file.
	Scan(ctx context.Context) ([]models.Photo, error)

	// ReadFile returns the bytes of the image stored at path, relative to
	// the library root.
	ReadFile(ctx context.Context, path string) ([]byte, error)

	// ModifiedAfter reports whether the file at path changed after t.
	ModifiedAfter(path string, t time.Time) (bool, error)
}

// ClientSyncService runs the client side of the sync workflow.
type ClientSyncService interface {
	// Push opens a session, reconciles every scanned record in batches,
	// uploads the image files, verifies the result and completes the
	// session. A session that was opened is always completed, as failed
	// when any step went wrong.
	Push(ctx context.Context, opts models.PushOptions) (models.PushReport, error)
}

// ClientSyncJob defines the contract for a background worker that
// periodically pushes the library. The first run uses opts as given; later
// runs are incremental from the previous watermark.
type ClientSyncJob interface {
	// Start launches the background goroutine. It pushes every interval,
	// defaulting to 5 minutes if interval is zero or negative. Any previously
	// running job is stopped before the new one begins.
	Start(ctx context.Context, opts models.PushOptions, interval time.Duration)

	// Stop signals the background goroutine to exit and blocks until it has
	// fully terminated.
	Stop()

	// LastReport returns the report of the most recent successful push.
	LastReport() (models.PushReport, bool)
}
