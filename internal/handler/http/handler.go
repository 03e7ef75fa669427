package http

import (
	"time"

	"github.com/MKhiriev/go-photo-sync/internal/config"
	"github.com/MKhiriev/go-photo-sync/internal/logger"
	"github.com/MKhiriev/go-photo-sync/internal/service"
	"github.com/MKhiriev/go-photo-sync/internal/utils"
)

// multipartMemory is how much of a multipart upload is kept in memory
// before the rest spills to temporary files.
const multipartMemory = 8 << 20

type Handler struct {
	services *service.Services

	requestTimeout time.Duration
	maxUploadBytes int64

	// checkHash enables HashSHA256 verification of metadata pushes.
	checkHash bool

	logger *logger.Logger
}

// NewHandler builds the HTTP handler. A non-empty hashKey enables the
// integrity check on /api/sync/metadata.
func NewHandler(services *service.Services, cfg config.Server, hashKey string, logger *logger.Logger) *Handler {
	if hashKey != "" {
		utils.InitHasherPool(hashKey)
	}

	logger.Info().Msg("http handler created")
	return &Handler{
		services:       services,
		requestTimeout: cfg.RequestTimeout,
		maxUploadBytes: cfg.MaxUploadBytes,
		checkHash:      hashKey != "",
		logger:         logger,
	}
}
