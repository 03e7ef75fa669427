package config

import (
	"fmt"
	"time"
)

// ClientAdapter holds network settings used by the client transport layer.
type ClientAdapter struct {
	// HTTPAddress is the base URL of the sync server.
	HTTPAddress string
	// RequestTimeout is the default timeout for outbound client requests.
	RequestTimeout time.Duration
	// APIKey is the shared credential.
	APIKey string
}

// ClientApp holds client-side application settings.
type ClientApp struct {
	// HashKey signs metadata pushes when the server checks HashSHA256.
	HashKey string
	// LogFile is the client's rotating log file.
	LogFile string
}

// ClientConfig is the configuration of the command line client assembled
// from [StructuredConfig].
type ClientConfig struct {
	App     ClientApp
	Adapter ClientAdapter
}

// GetClientConfig builds the client view from environment variables and the
// optional JSON file. Command line flags are owned by the CLI itself and are
// applied by the caller through Override.
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := newConfigBuilder().
		withEnv().
		withJSON().
		build()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	return &ClientConfig{
		App: ClientApp{
			HashKey: cfg.App.HashKey,
			LogFile: cfg.Adapter.LogFile,
		},
		Adapter: ClientAdapter{
			HTTPAddress:    cfg.Adapter.HTTPAddress,
			RequestTimeout: cfg.Adapter.RequestTimeout,
			APIKey:         cfg.Adapter.APIKey,
		},
	}, nil
}

// Override applies non-empty command line values and validates the result.
func (cfg *ClientConfig) Override(address, apiKey string, timeout time.Duration) error {
	if address != "" {
		cfg.Adapter.HTTPAddress = address
	}
	if apiKey != "" {
		cfg.Adapter.APIKey = apiKey
	}
	if timeout > 0 {
		cfg.Adapter.RequestTimeout = timeout
	}

	return cfg.validate()
}
