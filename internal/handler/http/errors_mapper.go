package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-photo-sync/internal/app"
	"github.com/MKhiriev/go-photo-sync/internal/logger"
	"github.com/MKhiriev/go-photo-sync/internal/service"
	"github.com/MKhiriev/go-photo-sync/internal/store"
	"github.com/MKhiriev/go-photo-sync/internal/utils"
)

var errorStatusMap = map[error]int{
	service.ErrValidation:              http.StatusBadRequest,
	service.ErrInvalidSession:          http.StatusBadRequest,
	service.ErrSessionNotFound:         http.StatusNotFound,
	service.ErrUnauthorized:            http.StatusUnauthorized,
	service.ErrTokenIsExpiredOrInvalid: http.StatusUnauthorized,
	service.ErrTokenExchangeDisabled:   http.StatusNotFound,
	service.ErrTokenCreationFailed:     http.StatusInternalServerError,

	store.ErrSessionNotFound:  http.StatusNotFound,
	store.ErrSessionConflict:  http.StatusConflict,
	store.ErrSessionNotActive: http.StatusBadRequest,

	store.ErrBuildingSQLQuery:     http.StatusInternalServerError,
	store.ErrExecutingQuery:       http.StatusInternalServerError,
	store.ErrBeginningTransaction: http.StatusInternalServerError,
	store.ErrCommitingTransaction: http.StatusInternalServerError,
	store.ErrExecutingStatement:   http.StatusInternalServerError,
	store.ErrScanningRow:          http.StatusInternalServerError,
	store.ErrScanningRows:         http.StatusInternalServerError,
	store.ErrEncodingColumn:       http.StatusInternalServerError,
	store.ErrWritingObject:        http.StatusInternalServerError,
	store.ErrReadingObject:        http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

// messageFromError picks the body text for err. Client errors carry the
// error text so the caller can tell what to fix; server errors are opaque.
func messageFromError(err error, status int) string {
	var invalid *service.InvalidSessionError
	switch {
	case errors.As(err, &invalid):
		return invalid.Error()
	case errors.Is(err, service.ErrTokenExchangeDisabled):
		return app.MsgTokenExchangeDisabled
	case errors.Is(err, service.ErrTokenIsExpiredOrInvalid):
		return app.MsgTokenIsExpiredOrInvalid
	case errors.Is(err, service.ErrUnauthorized):
		return app.MsgUnauthorized
	case errors.Is(err, service.ErrSessionNotFound), errors.Is(err, store.ErrSessionNotFound):
		return app.MsgSessionNotFound
	case errors.Is(err, store.ErrSessionConflict):
		return app.MsgSessionConflict
	case status >= http.StatusInternalServerError:
		return app.MsgInternalServerError
	}
	return err.Error()
}

// writeError logs err and writes it as {"error": ...} with the mapped status.
func writeError(w http.ResponseWriter, r *http.Request, funcName string, err error) {
	status := statusFromError(err)

	event := logger.FromRequest(r).Warn()
	if status >= http.StatusInternalServerError {
		event = logger.FromRequest(r).Error()
	}
	event.Err(err).Str("func", funcName).Int("status", status).Msg("request failed")

	utils.WriteJSONError(w, messageFromError(err, status), status)
}
