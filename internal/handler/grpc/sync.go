package grpc

import (
	"context"

	"google.golang.org/grpc"

	"github.com/MKhiriev/go-photo-sync/models"
)

// ServiceName is the fully qualified name of the sync service.
const ServiceName = "photosync.v1.SyncService"

// SyncServer is the method set registered under [ServiceName].
type SyncServer interface {
	OpenSession(ctx context.Context, req *models.OpenSessionRequest) (*models.OpenSessionResponse, error)
	OpenIncrementalSession(ctx context.Context, req *models.OpenIncrementalRequest) (*models.OpenIncrementalResponse, error)
	ReconcileMetadata(ctx context.Context, req *models.ReconcileRequest) (*models.ReconcileResult, error)
	UploadBinary(ctx context.Context, req *models.UploadRequest) (*models.UploadResult, error)
	CompleteSession(ctx context.Context, req *models.CompleteSessionRequest) (*models.SyncSession, error)
	QueryStatus(ctx context.Context, req *models.StatusRequest) (*models.StatusResponse, error)
	VerifySync(ctx context.Context, req *models.VerifyRequest) (*models.VerifyResponse, error)
}

// ServiceDesc describes [SyncServer] for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SyncServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("OpenSession", SyncServer.OpenSession),
		unary("OpenIncrementalSession", SyncServer.OpenIncrementalSession),
		unary("ReconcileMetadata", SyncServer.ReconcileMetadata),
		unary("UploadBinary", SyncServer.UploadBinary),
		unary("CompleteSession", SyncServer.CompleteSession),
		unary("QueryStatus", SyncServer.QueryStatus),
		unary("VerifySync", SyncServer.VerifySync),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "photosync/v1/sync.json",
}

// unary adapts a typed method to the generic handler signature gRPC
// dispatches to, running the interceptor chain when one is installed.
func unary[Req, Resp any](name string, call func(SyncServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	fullMethod := "/" + ServiceName + "/" + name

	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			req := new(Req)
			if err := dec(req); err != nil {
				return nil, err
			}

			server := srv.(SyncServer)
			if interceptor == nil {
				return call(server, ctx, req)
			}

			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			return interceptor(ctx, req, info, func(ctx context.Context, req any) (any, error) {
				return call(server, ctx, req.(*Req))
			})
		},
	}
}

func (h *Handler) OpenSession(ctx context.Context, req *models.OpenSessionRequest) (*models.OpenSessionResponse, error) {
	session, err := h.services.SessionService.OpenSession(ctx, req.DeviceID, req.UserName)
	if err != nil {
		return nil, toStatus(err)
	}
	return &models.OpenSessionResponse{SyncID: session.ID, Timestamp: session.StartTimestamp}, nil
}

func (h *Handler) OpenIncrementalSession(ctx context.Context, req *models.OpenIncrementalRequest) (*models.OpenIncrementalResponse, error) {
	session, changes, err := h.services.SessionService.OpenIncrementalSession(ctx, req.DeviceID, req.UserName, req.LastSyncTime)
	if err != nil {
		return nil, toStatus(err)
	}
	if changes == nil {
		changes = []models.Photo{}
	}
	return &models.OpenIncrementalResponse{SyncID: session.ID, Timestamp: session.StartTimestamp, Changes: changes}, nil
}

func (h *Handler) ReconcileMetadata(ctx context.Context, req *models.ReconcileRequest) (*models.ReconcileResult, error) {
	result, err := h.services.ReconcileService.Reconcile(ctx, req.SyncID, req.Photos, req.IsIncremental)
	if err != nil {
		return nil, toStatus(err)
	}
	return &result, nil
}

// UploadBinary stores the base64 payload. Object store failures come back
// as Success=false with an OK status.
func (h *Handler) UploadBinary(ctx context.Context, req *models.UploadRequest) (*models.UploadResult, error) {
	result, err := h.services.FileTransferService.UploadBinary(ctx, req.SyncID, req.FilePath, req.Payload)
	if err != nil {
		return nil, toStatus(err)
	}
	return &result, nil
}

func (h *Handler) CompleteSession(ctx context.Context, req *models.CompleteSessionRequest) (*models.SyncSession, error) {
	session, err := h.services.SessionService.CompleteSession(ctx, req.SyncID, req.Status, req.Error)
	if err != nil {
		return nil, toStatus(err)
	}
	return &session, nil
}

func (h *Handler) QueryStatus(ctx context.Context, req *models.StatusRequest) (*models.StatusResponse, error) {
	response, err := h.services.StatusService.QueryStatus(ctx, *req)
	if err != nil {
		return nil, toStatus(err)
	}
	return &response, nil
}

func (h *Handler) VerifySync(ctx context.Context, req *models.VerifyRequest) (*models.VerifyResponse, error) {
	response, err := h.services.VerifyService.VerifyItems(ctx, req.SyncID, req.PhotoIDs)
	if err != nil {
		return nil, toStatus(err)
	}
	return &response, nil
}
