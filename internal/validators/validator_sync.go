package validators

import (
	"context"
	"fmt"
	"math"
	"path"
	"strings"

	"github.com/MKhiriev/go-photo-sync/models"
)

// Field name constants used to restrict validation to a subset of fields.
const (
	FieldDeviceID     = "device_id"
	FieldUserName     = "user_name"
	FieldSyncID       = "sync_id"
	FieldLastSyncTime = "last_sync_time"
	FieldPhotos       = "photos"
	FieldFilePath     = "file_path"
	FieldPhotoIDs     = "photo_ids"
	FieldCloseStatus  = "close_status"
	FieldSelector     = "selector"

	// photo record fields
	FieldPhotoID     = "photo_id"
	FieldDimensions  = "dimensions"
	FieldSizeBytes   = "size_bytes"
	FieldCoordinates = "coordinates"
)

// maxPhotoIDLength matches what every supported catalog engine indexes
// without truncation.
const maxPhotoIDLength = 255

// reservedPrefix is the object store metadata area.
const reservedPrefix = ".meta"

// SyncValidator implements [Validator] for the sync protocol requests and
// for individual catalog records.
//
// Batch requests are validated structurally only: a ReconcileRequest with
// one malformed photo is still valid, the reconciler validates every photo
// separately and reports failures per item.
type SyncValidator struct{}

func NewSyncValidator() Validator {
	return &SyncValidator{}
}

func (v *SyncValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.OpenSessionRequest:
		return v.validateOpenSession(value, fields...)
	case *models.OpenSessionRequest:
		return v.validateOpenSession(*value, fields...)

	case models.OpenIncrementalRequest:
		return v.validateOpenIncremental(value, fields...)
	case *models.OpenIncrementalRequest:
		return v.validateOpenIncremental(*value, fields...)

	case models.ReconcileRequest:
		return v.validateReconcile(value, fields...)
	case *models.ReconcileRequest:
		return v.validateReconcile(*value, fields...)

	case models.Photo:
		return v.validatePhoto(value, fields...)
	case *models.Photo:
		return v.validatePhoto(*value, fields...)

	case models.UploadRequest:
		return v.validateUpload(value, fields...)
	case *models.UploadRequest:
		return v.validateUpload(*value, fields...)

	case models.CompleteSessionRequest:
		return v.validateComplete(value, fields...)
	case *models.CompleteSessionRequest:
		return v.validateComplete(*value, fields...)

	case models.StatusRequest:
		return v.validateStatus(value, fields...)
	case *models.StatusRequest:
		return v.validateStatus(*value, fields...)

	case models.VerifyRequest:
		return v.validateVerify(value, fields...)
	case *models.VerifyRequest:
		return v.validateVerify(*value, fields...)
	}

	return fmt.Errorf("%w: %T", ErrUnsupportedType, obj)
}

func (v *SyncValidator) validateOpenSession(request models.OpenSessionRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldDeviceID, FieldUserName}
	}

	for _, f := range fields {
		switch f {
		case FieldDeviceID:
			if isBlank(request.DeviceID) {
				return ErrEmptyDeviceID
			}
		case FieldUserName:
			if isBlank(request.UserName) {
				return ErrEmptyUserName
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *SyncValidator) validateOpenIncremental(request models.OpenIncrementalRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldDeviceID, FieldLastSyncTime}
	}

	for _, f := range fields {
		switch f {
		case FieldDeviceID:
			if isBlank(request.DeviceID) {
				return ErrEmptyDeviceID
			}
		case FieldUserName:
			if isBlank(request.UserName) {
				return ErrEmptyUserName
			}
		case FieldLastSyncTime:
			if request.LastSyncTime == nil || request.LastSyncTime.IsZero() {
				return ErrMissingLastSync
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *SyncValidator) validateReconcile(request models.ReconcileRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldSyncID, FieldPhotos}
	}

	for _, f := range fields {
		switch f {
		case FieldSyncID:
			if isBlank(request.SyncID) {
				return ErrEmptySyncID
			}
		case FieldPhotos:
			// an empty list is a valid no-op batch, a missing one is not
			if request.Photos == nil {
				return ErrMissingPhotos
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *SyncValidator) validatePhoto(photo models.Photo, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldPhotoID, FieldDimensions, FieldSizeBytes, FieldCoordinates, FieldFilePath}
	}

	for _, f := range fields {
		switch f {
		case FieldPhotoID:
			if isBlank(photo.ID) {
				return ErrEmptyPhotoID
			}
			if len(photo.ID) > maxPhotoIDLength {
				return ErrPhotoIDTooLong
			}
		case FieldDimensions:
			if photo.Width < 0 || photo.Height < 0 {
				return ErrNegativeDimension
			}
		case FieldSizeBytes:
			if photo.SizeBytes < 0 {
				return ErrNegativeSize
			}
		case FieldCoordinates:
			if photo.Latitude != nil && !inRange(*photo.Latitude, 90) {
				return ErrInvalidLatitude
			}
			if photo.Longitude != nil && !inRange(*photo.Longitude, 180) {
				return ErrInvalidLongitude
			}
		case FieldFilePath:
			// the path is optional on a record, but must be usable when present
			if photo.Path != "" {
				if err := ValidateObjectPath(photo.Path); err != nil {
					return err
				}
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *SyncValidator) validateUpload(request models.UploadRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldSyncID, FieldFilePath}
	}

	for _, f := range fields {
		switch f {
		case FieldSyncID:
			if isBlank(request.SyncID) {
				return ErrEmptySyncID
			}
		case FieldFilePath:
			if err := ValidateObjectPath(request.FilePath); err != nil {
				return err
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *SyncValidator) validateComplete(request models.CompleteSessionRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldSyncID, FieldCloseStatus}
	}

	for _, f := range fields {
		switch f {
		case FieldSyncID:
			if isBlank(request.SyncID) {
				return ErrEmptySyncID
			}
		case FieldCloseStatus:
			if request.Status != models.SessionCompleted && request.Status != models.SessionFailed {
				return ErrInvalidCloseStatus
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *SyncValidator) validateStatus(request models.StatusRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldSelector}
	}

	for _, f := range fields {
		switch f {
		case FieldSelector:
			bySync, byDevice := !isBlank(request.SyncID), !isBlank(request.DeviceID)
			if bySync == byDevice {
				return ErrStatusSelector
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *SyncValidator) validateVerify(request models.VerifyRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldSyncID, FieldPhotoIDs}
	}

	for _, f := range fields {
		switch f {
		case FieldSyncID:
			if isBlank(request.SyncID) {
				return ErrEmptySyncID
			}
		case FieldPhotoIDs:
			if request.PhotoIDs == nil {
				return ErrMissingPhotoIDs
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

// ValidateObjectPath accepts relative slash separated paths that stay
// inside the object store and do not touch its metadata area.
func ValidateObjectPath(p string) error {
	if isBlank(p) {
		return fmt.Errorf("%w: path is empty", ErrInvalidFilePath)
	}

	normalized := strings.ReplaceAll(p, "\\", "/")
	if strings.HasPrefix(normalized, "/") {
		return fmt.Errorf("%w: %q is absolute", ErrInvalidFilePath, p)
	}
	for _, part := range strings.Split(normalized, "/") {
		if part == ".." {
			return fmt.Errorf("%w: %q leaves the store", ErrInvalidFilePath, p)
		}
	}

	cleaned := path.Clean(normalized)
	if cleaned == "." || cleaned == reservedPrefix || strings.HasPrefix(cleaned, reservedPrefix+"/") {
		return fmt.Errorf("%w: %q", ErrInvalidFilePath, p)
	}

	return nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func inRange(f, limit float64) bool {
	return !math.IsNaN(f) && f >= -limit && f <= limit
}
