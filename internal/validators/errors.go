package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrEmptyDeviceID      = errors.New("deviceId is required")
	ErrEmptyUserName      = errors.New("userName is required")
	ErrEmptySyncID        = errors.New("syncId is required")
	ErrMissingLastSync    = errors.New("lastSyncTime is required")
	ErrMissingPhotos      = errors.New("photos must be a list")
	ErrEmptyPhotoID       = errors.New("photo id is required")
	ErrPhotoIDTooLong     = errors.New("photo id is too long")
	ErrNegativeDimension  = errors.New("width and height must not be negative")
	ErrNegativeSize       = errors.New("sizeBytes must not be negative")
	ErrInvalidLatitude    = errors.New("latitude must be within [-90, 90]")
	ErrInvalidLongitude   = errors.New("longitude must be within [-180, 180]")
	ErrInvalidFilePath    = errors.New("invalid file path")
	ErrMissingPhotoIDs    = errors.New("photoIds must be a list")
	ErrInvalidCloseStatus = errors.New("status must be completed or failed")
	ErrStatusSelector     = errors.New("exactly one of syncId or deviceId is required")
)
