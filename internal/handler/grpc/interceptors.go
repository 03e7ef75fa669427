package grpc

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/MKhiriev/go-photo-sync/internal/app"
	"github.com/MKhiriev/go-photo-sync/internal/logger"
	"github.com/MKhiriev/go-photo-sync/internal/utils"
)

// Metadata keys; gRPC lower-cases header names.
const (
	mdAPIKey        = "x-api-key"
	mdAuthorization = "authorization"
	mdTraceID       = "x-trace-id"
)

func firstValue(md metadata.MD, key string) string {
	if values := md.Get(key); len(values) > 0 {
		return values[0]
	}
	return ""
}

// Logging attaches a trace scoped logger to the context and logs every
// unary call with its status code and duration.
func (h *Handler) Logging(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	md, _ := metadata.FromIncomingContext(ctx)
	traceID := firstValue(md, mdTraceID)
	if traceID == "" {
		traceID = uuid.NewString()
	}

	l := h.logger.GetChildLogger()
	l.UpdateContext(func(c zerolog.Context) zerolog.Context {
		return c.Str("trace_id", traceID)
	})
	ctx = l.WithContext(ctx)

	start := time.Now()
	resp, err := handler(ctx, req)

	l.Info().
		Str("method", info.FullMethod).
		Str("code", status.Code(err).String()).
		Dur("duration", time.Since(start)).
		Send()

	return resp, err
}

// Auth requires the shared key in x-api-key metadata or a bearer token in
// authorization. Health checks are exempt.
func (h *Handler) Auth(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if strings.HasPrefix(info.FullMethod, "/grpc.health.v1.Health/") {
		return handler(ctx, req)
	}

	log := logger.FromContext(ctx)
	md, _ := metadata.FromIncomingContext(ctx)

	if apiKey := firstValue(md, mdAPIKey); apiKey != "" {
		if err := h.services.AuthService.Authenticate(ctx, apiKey); err != nil {
			log.Err(err).Str("func", "*Handler.Auth").Msg("api key rejected")
			return nil, status.Error(codes.Unauthenticated, app.MsgUnauthorized)
		}
		return handler(context.WithValue(ctx, utils.ClientCtxKey, "api-key"), req)
	}

	tokenString, err := utils.ParseBearerToken(firstValue(md, mdAuthorization))
	if err != nil {
		log.Err(err).Str("func", "*Handler.Auth").Msg("no credentials")
		return nil, status.Error(codes.Unauthenticated, app.MsgUnauthorized)
	}

	token, err := h.services.AuthService.ParseToken(ctx, tokenString)
	if err != nil {
		log.Err(err).Str("func", "*Handler.Auth").Msg("token rejected")
		return nil, status.Error(codes.Unauthenticated, app.MsgTokenIsExpiredOrInvalid)
	}

	return handler(context.WithValue(ctx, utils.ClientCtxKey, token.Subject()), req)
}
