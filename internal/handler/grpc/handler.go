// Package grpc exposes the sync protocol over gRPC.
//
// Messages are the JSON documents of the REST API carried by a registered
// "json" codec, so no generated stubs are needed. Clients select it with
// grpc.CallContentSubtype("json"). The standard grpc.health.v1 service is
// served next to photosync.v1.SyncService.
package grpc

import (
	"context"

	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/MKhiriev/go-photo-sync/internal/logger"
	"github.com/MKhiriev/go-photo-sync/internal/service"
)

// Handler is the root gRPC transport handler.
//
// It stores references to the service layer and structured logger so that
// gRPC method handlers can delegate business logic and emit consistent logs.
// A handler instance is created once at startup and shared by the gRPC server.
type Handler struct {
	// services provides access to all application business operations.
	services *service.Services

	// health backs grpc.health.v1.Health.
	health *health.Server

	// logger is used for request-scoped and diagnostic log output.
	logger *logger.Logger
}

// NewHandler constructs a [Handler] with the provided service container and
// logger, and returns the initialized instance.
func NewHandler(services *service.Services, logger *logger.Logger) *Handler {
	logger.Debug().Msg("gRPC handler created")
	return &Handler{
		services: services,
		health:   health.NewServer(),
		logger:   logger,
	}
}

// Health returns the health server to register next to the sync service.
func (h *Handler) Health() *health.Server {
	return h.health
}

// RefreshHealth pings the catalog database and publishes the result for
// both the overall server and the sync service.
func (h *Handler) RefreshHealth(ctx context.Context) {
	status := healthpb.HealthCheckResponse_SERVING
	if err := h.services.HealthService.Check(ctx); err != nil {
		h.logger.Err(err).Str("func", "*Handler.RefreshHealth").Msg("health check failed")
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}

	h.health.SetServingStatus("", status)
	h.health.SetServingStatus(ServiceName, status)
}
