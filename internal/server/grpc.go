package server

import (
	"context"
	"net"
	"time"

	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/MKhiriev/go-photo-sync/internal/config"
	myGRPC "github.com/MKhiriev/go-photo-sync/internal/handler/grpc"
	"github.com/MKhiriev/go-photo-sync/internal/logger"
)

const healthRefreshInterval = 15 * time.Second

type grpcServer struct {
	handler *myGRPC.Handler

	server          *grpc.Server
	gRPCNetListener net.Listener
	address         string

	healthCtx  context.Context
	stopHealth context.CancelFunc

	logger *logger.Logger
}

func newGRPCServer(handler *myGRPC.Handler, cfg config.Server, logger *logger.Logger) (*grpcServer, error) {
	listener, err := net.Listen("tcp", cfg.GRPCAddress)
	if err != nil {
		return nil, err
	}

	server := grpc.NewServer(grpc.ChainUnaryInterceptor(handler.Logging, handler.Auth))
	server.RegisterService(&myGRPC.ServiceDesc, handler)
	healthpb.RegisterHealthServer(server, handler.Health())

	healthCtx, stopHealth := context.WithCancel(context.Background())

	return &grpcServer{
		handler:         handler,
		server:          server,
		gRPCNetListener: listener,
		address:         listener.Addr().String(),
		healthCtx:       healthCtx,
		stopHealth:      stopHealth,
		logger:          logger,
	}, nil
}

func (g *grpcServer) RunServer() {
	go g.refreshHealth(g.healthCtx)

	g.logger.Info().Str("address", g.address).Msg("gRPC server listening")
	if err := g.server.Serve(g.gRPCNetListener); err != nil {
		g.logger.Err(err).Msg("gRPC server Serve")
	}
}

func (g *grpcServer) Shutdown() {
	g.logger.Info().Msg("GRPC server Shutdown")
	g.stopHealth()
	g.handler.Health().Shutdown()
	g.server.GracefulStop()
}

func (g *grpcServer) refreshHealth(ctx context.Context) {
	ticker := time.NewTicker(healthRefreshInterval)
	defer ticker.Stop()

	for {
		g.handler.RefreshHealth(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
