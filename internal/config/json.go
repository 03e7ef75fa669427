package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig is the on-disk shape of the JSON config file.
type StructuredJSONConfig struct {
	App struct {
		APIKey               string   `json:"api_key"`
		APIKeyHash           string   `json:"api_key_hash"`
		TokenSignKey         string   `json:"token_sign_key"`
		TokenIssuer          string   `json:"token_issuer"`
		TokenDuration        Duration `json:"token_duration"`
		HashKey              string   `json:"hash_key"`
		Version              string   `json:"version"`
		LogLevel             string   `json:"log_level"`
		LogFile              string   `json:"log_file"`
		ReconcileConcurrency int      `json:"reconcile_concurrency"`
	} `json:"app,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`

		Files struct {
			BinaryDataDir string `json:"binary_data_dir"`
		} `json:"files,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		GRPCAddress    string   `json:"grpc_address"`
		RequestTimeout Duration `json:"request_timeout"`
		MaxUploadBytes int64    `json:"max_upload_bytes"`
	} `json:"server,omitempty"`

	Adapter struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
		APIKey         string   `json:"api_key"`
		LogFile        string   `json:"log_file"`
	} `json:"adapter,omitempty"`

	Workers struct {
		SessionTTL           Duration `json:"session_ttl"`
		SessionSweepInterval Duration `json:"session_sweep_interval"`
	} `json:"workers,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			APIKey:               jsonCfg.App.APIKey,
			APIKeyHash:           jsonCfg.App.APIKeyHash,
			TokenSignKey:         jsonCfg.App.TokenSignKey,
			TokenIssuer:          jsonCfg.App.TokenIssuer,
			TokenDuration:        time.Duration(jsonCfg.App.TokenDuration),
			HashKey:              jsonCfg.App.HashKey,
			Version:              jsonCfg.App.Version,
			LogLevel:             jsonCfg.App.LogLevel,
			LogFile:              jsonCfg.App.LogFile,
			ReconcileConcurrency: jsonCfg.App.ReconcileConcurrency,
		},
		Storage: Storage{
			DB: DB{
				DSN: jsonCfg.Storage.DB.DSN,
			},
			Files: Files{
				BinaryDataDir: jsonCfg.Storage.Files.BinaryDataDir,
			},
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			GRPCAddress:    jsonCfg.Server.GRPCAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
			MaxUploadBytes: jsonCfg.Server.MaxUploadBytes,
		},
		Adapter: Adapter{
			HTTPAddress:    jsonCfg.Adapter.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Adapter.RequestTimeout),
			APIKey:         jsonCfg.Adapter.APIKey,
			LogFile:        jsonCfg.Adapter.LogFile,
		},
		Workers: Workers{
			SessionTTL:           time.Duration(jsonCfg.Workers.SessionTTL),
			SessionSweepInterval: time.Duration(jsonCfg.Workers.SessionSweepInterval),
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
