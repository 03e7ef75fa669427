// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "fmt"

// validate checks that the merged [StructuredConfig] can run the server.
func (cfg *StructuredConfig) validate() error {
	if cfg.Storage.DB.DSN == "" {
		return fmt.Errorf("%w: database DSN is required", ErrInvalidStorageConfigs)
	}
	if cfg.Storage.Files.BinaryDataDir == "" {
		return fmt.Errorf("%w: binary data dir is required", ErrInvalidStorageConfigs)
	}

	if cfg.App.APIKey == "" && cfg.App.APIKeyHash == "" {
		return fmt.Errorf("%w: API key or API key hash is required", ErrInvalidAppConfigs)
	}
	if cfg.App.ReconcileConcurrency < 1 {
		return fmt.Errorf("%w: reconcile concurrency must be positive", ErrInvalidAppConfigs)
	}

	if cfg.Server.HTTPAddress == "" && cfg.Server.GRPCAddress == "" {
		return fmt.Errorf("%w: at least one listen address is required", ErrInvalidServerConfigs)
	}
	if cfg.Server.MaxUploadBytes < 0 || cfg.Server.RequestTimeout < 0 {
		return ErrInvalidServerConfigs
	}

	if cfg.Workers.SessionTTL < 0 || (cfg.Workers.SessionTTL > 0 && cfg.Workers.SessionSweepInterval <= 0) {
		return ErrInvalidWorkerConfigs
	}

	return nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.Adapter.HTTPAddress == "" || cfg.Adapter.RequestTimeout <= 0 {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Adapter.APIKey == "" {
		return fmt.Errorf("%w: API key is required", ErrInvalidAdapterConfigs)
	}

	return nil
}
