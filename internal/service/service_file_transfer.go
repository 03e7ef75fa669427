package service

import (
	"context"
	"path"
	"strings"

	"github.com/MKhiriev/go-photo-sync/internal/logger"
	"github.com/MKhiriev/go-photo-sync/internal/store"
	"github.com/MKhiriev/go-photo-sync/internal/utils"
	"github.com/MKhiriev/go-photo-sync/internal/validators"
	"github.com/MKhiriev/go-photo-sync/models"
)

const defaultContentType = "application/octet-stream"

var contentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// ContentTypeFor infers the content type from the extension of p only.
func ContentTypeFor(p string) string {
	if ct, ok := contentTypes[strings.ToLower(path.Ext(p))]; ok {
		return ct
	}
	return defaultContentType
}

type fileTransferService struct {
	sessions  SessionService
	objects   store.ObjectStorage
	recorder  *operationRecorder
	validator validators.Validator

	logger *logger.Logger
}

func NewFileTransferService(
	sessions SessionService,
	objects store.ObjectStorage,
	operations store.OperationRepository,
	clock utils.Clock,
	logger *logger.Logger,
) FileTransferService {
	return &fileTransferService{
		sessions:  sessions,
		objects:   objects,
		recorder:  newOperationRecorder(operations, clock),
		validator: validators.NewSyncValidator(),
		logger:    logger,
	}
}

// UploadBinary writes payload to filePath, replacing whatever was stored
// there. It does not retry; a failed write comes back as Success=false and
// the caller decides what to do. Every attempt is logged to the session.
func (f *fileTransferService) UploadBinary(ctx context.Context, syncID, filePath string, payload []byte) (models.UploadResult, error) {
	log := logger.FromContext(ctx)

	request := models.UploadRequest{SyncID: syncID, FilePath: filePath}
	if err := f.validator.Validate(ctx, request, validators.FieldSyncID); err != nil {
		return models.UploadResult{}, validationError(err)
	}

	if _, err := f.sessions.RequireActive(ctx, syncID); err != nil {
		return models.UploadResult{}, err
	}

	if err := f.validator.Validate(ctx, request, validators.FieldFilePath); err != nil {
		return models.UploadResult{}, validationError(err)
	}

	details := &models.UploadDetails{
		Path:        filePath,
		ContentType: ContentTypeFor(filePath),
		Size:        int64(len(payload)),
	}

	object, err := f.objects.Put(ctx, filePath, details.ContentType, payload)
	if err != nil {
		log.Err(err).
			Str("func", "*fileTransferService.UploadBinary").
			Str("sync_id", syncID).
			Str("path", filePath).
			Msg("failed to store binary object")

		details.Error = err.Error()
		f.recorder.record(ctx, syncID, models.OperationFailed, models.OperationDetails{
			Type:   models.DetailsUpload,
			Upload: details,
		})

		return models.UploadResult{Success: false, FilePath: filePath, Error: err.Error()}, nil
	}

	details.Digest = object.Digest
	f.recorder.record(ctx, syncID, models.OperationCompleted, models.OperationDetails{
		Type:   models.DetailsUpload,
		Upload: details,
	})

	return models.UploadResult{Success: true, FilePath: filePath}, nil
}
