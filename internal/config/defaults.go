package config

import "time"

const (
	defaultHTTPAddress          = "localhost:8080"
	defaultRequestTimeout       = 30 * time.Second
	defaultMaxUploadBytes       = 64 << 20
	defaultTokenIssuer          = "go-photo-sync"
	defaultTokenDuration        = time.Hour
	defaultReconcileConcurrency = 8
	defaultBinaryDataDir        = "data/objects"
	defaultSessionSweepInterval = time.Minute
	defaultVersion              = "dev"
	defaultAdapterAddress       = "http://localhost:8080"
	defaultClientLogFile        = "photosync-client.log"
)

func (cfg *StructuredConfig) applyDefaults() {
	if cfg.Server.HTTPAddress == "" && cfg.Server.GRPCAddress == "" {
		cfg.Server.HTTPAddress = defaultHTTPAddress
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = defaultRequestTimeout
	}
	if cfg.Server.MaxUploadBytes == 0 {
		cfg.Server.MaxUploadBytes = defaultMaxUploadBytes
	}
	if cfg.App.TokenIssuer == "" {
		cfg.App.TokenIssuer = defaultTokenIssuer
	}
	if cfg.App.TokenDuration == 0 {
		cfg.App.TokenDuration = defaultTokenDuration
	}
	if cfg.App.ReconcileConcurrency == 0 {
		cfg.App.ReconcileConcurrency = defaultReconcileConcurrency
	}
	if cfg.App.Version == "" {
		cfg.App.Version = defaultVersion
	}
	if cfg.Storage.Files.BinaryDataDir == "" {
		cfg.Storage.Files.BinaryDataDir = defaultBinaryDataDir
	}
	if cfg.Workers.SessionSweepInterval == 0 {
		cfg.Workers.SessionSweepInterval = defaultSessionSweepInterval
	}
	if cfg.Adapter.HTTPAddress == "" {
		cfg.Adapter.HTTPAddress = defaultAdapterAddress
	}
	if cfg.Adapter.RequestTimeout == 0 {
		cfg.Adapter.RequestTimeout = defaultRequestTimeout
	}
	if cfg.Adapter.LogFile == "" {
		cfg.Adapter.LogFile = defaultClientLogFile
	}
}
