package grpc

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/MKhiriev/go-photo-sync/internal/app"
	"github.com/MKhiriev/go-photo-sync/internal/service"
	"github.com/MKhiriev/go-photo-sync/internal/store"
)

// toStatus maps a service error to a gRPC status. Client errors keep their
// text; everything else becomes an opaque Internal.
func toStatus(err error) error {
	var invalid *service.InvalidSessionError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &invalid):
		return status.Error(codes.FailedPrecondition, invalid.Error())
	case errors.Is(err, service.ErrValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, service.ErrSessionNotFound), errors.Is(err, store.ErrSessionNotFound):
		return status.Error(codes.NotFound, app.MsgSessionNotFound)
	case errors.Is(err, service.ErrTokenIsExpiredOrInvalid):
		return status.Error(codes.Unauthenticated, app.MsgTokenIsExpiredOrInvalid)
	case errors.Is(err, service.ErrUnauthorized):
		return status.Error(codes.Unauthenticated, app.MsgUnauthorized)
	case errors.Is(err, service.ErrTokenExchangeDisabled):
		return status.Error(codes.Unimplemented, app.MsgTokenExchangeDisabled)
	case errors.Is(err, store.ErrSessionConflict):
		return status.Error(codes.Aborted, app.MsgSessionConflict)
	}
	return status.Error(codes.Internal, app.MsgInternalServerError)
}
