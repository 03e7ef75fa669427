package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/MKhiriev/go-photo-sync/internal/config"
	"github.com/MKhiriev/go-photo-sync/internal/logger"
	"github.com/MKhiriev/go-photo-sync/internal/utils"
	"github.com/MKhiriev/go-photo-sync/models"
)

// authService is the concrete implementation of AuthService.
// It verifies the single shared credential and exchanges it for short
// lived JWTs.
type authService struct {
	// apiKey is the plain shared credential. Ignored when apiKeyHash is set.
	apiKey string

	// apiKeyHash is a bcrypt hash of the shared credential.
	apiKeyHash []byte

	// tokenSignKey is the HMAC secret used to sign and verify JWT tokens.
	// Empty disables token exchange.
	tokenSignKey string

	// tokenIssuer is the "iss" claim embedded in every issued JWT.
	tokenIssuer string

	// tokenDuration controls how long a newly issued JWT remains valid.
	tokenDuration time.Duration

	logger *logger.Logger
}

// NewAuthService constructs an AuthService from the credential and token
// settings in cfg. The returned service is safe for concurrent use.
func NewAuthService(cfg config.App, logger *logger.Logger) AuthService {
	return &authService{
		apiKey:        cfg.APIKey,
		apiKeyHash:    []byte(cfg.APIKeyHash),
		tokenSignKey:  cfg.TokenSignKey,
		tokenIssuer:   cfg.TokenIssuer,
		tokenDuration: cfg.TokenDuration,
		logger:        logger,
	}
}

// Authenticate accepts apiKey when it matches the configured credential.
// The bcrypt hash is preferred over the plain key when both are set.
func (a *authService) Authenticate(ctx context.Context, apiKey string) error {
	if apiKey == "" {
		return ErrUnauthorized
	}

	if len(a.apiKeyHash) > 0 {
		if err := bcrypt.CompareHashAndPassword(a.apiKeyHash, []byte(apiKey)); err != nil {
			logger.FromContext(ctx).Debug().
				Str("func", "*authService.Authenticate").
				Msg("api key does not match hash")
			return ErrUnauthorized
		}
		return nil
	}

	if a.apiKey == "" || subtle.ConstantTimeCompare([]byte(a.apiKey), []byte(apiKey)) != 1 {
		return ErrUnauthorized
	}

	return nil
}

// CreateToken issues a signed JWT whose subject is the client label.
func (a *authService) CreateToken(ctx context.Context, subject string) (models.Token, error) {
	if a.tokenSignKey == "" {
		return models.Token{}, ErrTokenExchangeDisabled
	}

	token, err := utils.GenerateJWTToken(a.tokenIssuer, subject, a.tokenDuration, a.tokenSignKey)
	if err != nil {
		return models.Token{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	return token, nil
}

// ParseToken validates a raw JWT. Any failure is reported as
// ErrTokenIsExpiredOrInvalid.
func (a *authService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	if a.tokenSignKey == "" {
		return models.Token{}, ErrTokenIsExpiredOrInvalid
	}

	token, err := utils.ValidateAndParseJWTToken(tokenString, a.tokenSignKey, a.tokenIssuer)
	if err != nil {
		logger.FromContext(ctx).Debug().Err(err).
			Str("func", "*authService.ParseToken").
			Msg("token rejected")
		return models.Token{}, ErrTokenIsExpiredOrInvalid
	}

	return token, nil
}
