package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-photo-sync/internal/logger"
	"github.com/MKhiriev/go-photo-sync/internal/store"
	"github.com/MKhiriev/go-photo-sync/models"
)

// changeSetService resolves what a client has to pull. The watermark is
// an absolute client-supplied time, so skew between client and server
// clocks can miss or repeat changes. Results are not paginated.
type changeSetService struct {
	catalog store.CatalogRepository

	logger *logger.Logger
}

func NewChangeSetService(catalog store.CatalogRepository, logger *logger.Logger) ChangeSetService {
	return &changeSetService{
		catalog: catalog,
		logger:  logger,
	}
}

// ChangesSince returns every photo added or modified strictly after
// watermark. Callers must treat the result as a set.
func (c *changeSetService) ChangesSince(ctx context.Context, watermark time.Time) ([]models.Photo, error) {
	if watermark.IsZero() {
		return nil, validationError(errors.New("watermark is required"))
	}

	photos, err := c.catalog.ChangedSince(ctx, watermark.UTC())
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "*changeSetService.ChangesSince").
			Time("watermark", watermark).
			Msg("failed to query changed photos")
		return nil, fmt.Errorf("changes since %s: %w", watermark.Format(time.RFC3339Nano), err)
	}

	return photos, nil
}
