package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-photo-sync/internal/adapter"
	"github.com/MKhiriev/go-photo-sync/internal/logger"
)

type clientAuthService struct {
	adapter adapter.ServerAdapter

	logger *logger.Logger
}

func NewClientAuthService(serverAdapter adapter.ServerAdapter, logger *logger.Logger) ClientAuthService {
	return &clientAuthService{adapter: serverAdapter, logger: logger}
}

func (a *clientAuthService) Authenticate(ctx context.Context, subject string) error {
	err := mapAdapterError(a.adapter.ExchangeToken(ctx, subject))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrTokenExchangeDisabled):
		a.logger.Debug().
			Str("func", "*clientAuthService.Authenticate").
			Msg("token exchange disabled on server, using api key")
		return nil
	default:
		return fmt.Errorf("authenticate: %w", err)
	}
}
