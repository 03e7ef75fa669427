package config

import (
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── helpers ───────────────────────────────────────────────────────────────────

func writeTempJSONConfig(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	f, err := os.CreateTemp(t.TempDir(), "config-*.json")
	require.NoError(t, err)
	_, err = f.Write(data)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return f.Name()
}

// ── newConfigBuilder ──────────────────────────────────────────────────────────

// TestNewConfigBuilder_InitialState verifies that a freshly created builder
// has no error and an empty configs slice.
func TestNewConfigBuilder_InitialState(t *testing.T) {
	b := newConfigBuilder()
	require.NotNil(t, b)
	assert.NoError(t, b.err)
	assert.Empty(t, b.configs)
}

// ── build ─────────────────────────────────────────────────────────────────────

// TestBuild_EmptyBuilder verifies that building with no configs yields the
// defaults only.
func TestBuild_EmptyBuilder(t *testing.T) {
	cfg, err := newConfigBuilder().build()
	require.NoError(t, err)

	assert.Equal(t, defaultHTTPAddress, cfg.Server.HTTPAddress)
	assert.Equal(t, defaultRequestTimeout, cfg.Server.RequestTimeout)
	assert.Equal(t, int64(defaultMaxUploadBytes), cfg.Server.MaxUploadBytes)
	assert.Equal(t, defaultTokenIssuer, cfg.App.TokenIssuer)
	assert.Equal(t, defaultReconcileConcurrency, cfg.App.ReconcileConcurrency)
	assert.Equal(t, defaultBinaryDataDir, cfg.Storage.Files.BinaryDataDir)
	assert.Empty(t, cfg.Storage.DB.DSN)
}

// TestBuild_PropagatesBuilderError verifies that a pre-set b.err is wrapped
// and returned, with nil config.
func TestBuild_PropagatesBuilderError(t *testing.T) {
	b := newConfigBuilder()
	b.err = assert.AnError

	cfg, err := b.build()
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

// TestBuild_MergesMultipleConfigs verifies that fields from multiple configs
// are merged into a single result.
func TestBuild_MergesMultipleConfigs(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs,
		&StructuredConfig{App: App{Version: "1.0.0"}},
		&StructuredConfig{App: App{TokenIssuer: "issuer"}},
	)

	cfg, err := b.build()
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", cfg.App.Version)
	assert.Equal(t, "issuer", cfg.App.TokenIssuer)
}

// TestBuild_LaterSourceWins verifies that a later non-zero field overrides an
// earlier one and a later zero field does not.
func TestBuild_LaterSourceWins(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs,
		&StructuredConfig{Storage: Storage{DB: DB{DSN: "env-dsn"}}, App: App{APIKey: "env-key"}},
		&StructuredConfig{Storage: Storage{DB: DB{DSN: "flag-dsn"}}},
	)

	cfg, err := b.build()
	require.NoError(t, err)
	assert.Equal(t, "flag-dsn", cfg.Storage.DB.DSN)
	assert.Equal(t, "env-key", cfg.App.APIKey)
}

// ── withEnv ───────────────────────────────────────────────────────────────────

// TestWithEnv_ReadsEnvVars verifies that environment variables are picked up.
func TestWithEnv_ReadsEnvVars(t *testing.T) {
	setEnvVars(t, map[string]string{
		"APP_VERSION":      "env-version",
		"APP_TOKEN_ISSUER": "env-issuer",
	})

	b := newConfigBuilder()
	assert.Same(t, b, b.withEnv())

	require.Len(t, b.configs, 1)
	assert.NoError(t, b.err)
	assert.Equal(t, "env-version", b.configs[0].App.Version)
	assert.Equal(t, "env-issuer", b.configs[0].App.TokenIssuer)
}

// TestWithEnv_SetsErrorOnBadValue verifies that a malformed variable is
// collected into b.err.
func TestWithEnv_SetsErrorOnBadValue(t *testing.T) {
	setEnvVars(t, map[string]string{"SERVER_REQUEST_TIMEOUT": "later"})

	b := newConfigBuilder().withEnv()
	assert.Error(t, b.err)
	assert.Empty(t, b.configs)
}

// ── withFlags ─────────────────────────────────────────────────────────────────

// TestWithFlags_AppendsParsedArgs verifies the fluent interface and parsing.
func TestWithFlags_AppendsParsedArgs(t *testing.T) {
	b := newConfigBuilder()
	assert.Same(t, b, b.withFlags([]string{"-d", "file:test.db"}))

	require.Len(t, b.configs, 1)
	assert.Equal(t, "file:test.db", b.configs[0].Storage.DB.DSN)
}

// TestWithFlags_SetsErrorOnUnknownFlag verifies that bad args do not panic
// or exit.
func TestWithFlags_SetsErrorOnUnknownFlag(t *testing.T) {
	b := newConfigBuilder().withFlags([]string{"-bogus"})
	assert.Error(t, b.err)
}

// ── withJSON ──────────────────────────────────────────────────────────────────

// TestWithJSON_NoOp_WhenNoPathSet verifies that withJSON does nothing when
// no config has a JSONFilePath.
func TestWithJSON_NoOp_WhenNoPathSet(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{})
	assert.Same(t, b, b.withJSON())

	assert.Len(t, b.configs, 1)
	assert.NoError(t, b.err)
}

// TestWithJSON_AppendsConfig_WhenValidFile verifies that a valid JSON file is
// parsed and appended.
func TestWithJSON_AppendsConfig_WhenValidFile(t *testing.T) {
	payload := StructuredJSONConfig{}
	payload.App.Version = "json-version"
	payload.Workers.SessionTTL = Duration(time.Hour)
	path := writeTempJSONConfig(t, payload)

	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{JSONFilePath: path})
	b.withJSON()

	require.NoError(t, b.err)
	require.Len(t, b.configs, 2)
	assert.Equal(t, "json-version", b.configs[1].App.Version)
	assert.Equal(t, time.Hour, b.configs[1].Workers.SessionTTL)
}

// TestWithJSON_SetsError_WhenFileNotFound verifies that a missing file path
// sets b.err.
func TestWithJSON_SetsError_WhenFileNotFound(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{
		JSONFilePath: "/nonexistent/config.json",
	})
	b.withJSON()

	assert.Error(t, b.err)
}

// TestWithJSON_UsesLastPath verifies that when multiple configs have a
// JSONFilePath, the last non-empty one wins.
func TestWithJSON_UsesLastPath(t *testing.T) {
	first := StructuredJSONConfig{}
	first.App.Version = "first"
	last := StructuredJSONConfig{}
	last.App.Version = "last-wins"

	b := newConfigBuilder()
	b.configs = append(b.configs,
		&StructuredConfig{JSONFilePath: writeTempJSONConfig(t, first)},
		&StructuredConfig{JSONFilePath: writeTempJSONConfig(t, last)},
	)
	b.withJSON()

	require.NoError(t, b.err)
	require.Len(t, b.configs, 3)
	assert.Equal(t, "last-wins", b.configs[2].App.Version)
}

// ── GetStructuredConfig ───────────────────────────────────────────────────────

// TestGetStructuredConfig_FromAllSources merges env, flags and JSON.
func TestGetStructuredConfig_FromAllSources(t *testing.T) {
	payload := StructuredJSONConfig{}
	payload.App.Version = "1.4.0"
	path := writeTempJSONConfig(t, payload)

	setEnvVars(t, map[string]string{
		"APP_API_KEY":             "shared",
		"STORAGE_DB_DATABASE_URI": "postgres://env",
	})

	cfg, err := GetStructuredConfig([]string{"-d", "file:flag.db", "-c", path})
	require.NoError(t, err)

	assert.Equal(t, "shared", cfg.App.APIKey)
	assert.Equal(t, "file:flag.db", cfg.Storage.DB.DSN)
	assert.Equal(t, "1.4.0", cfg.App.Version)
}

// TestGetStructuredConfig_ValidationFails reports a missing DSN.
func TestGetStructuredConfig_ValidationFails(t *testing.T) {
	setEnvVars(t, map[string]string{"APP_API_KEY": "shared"})

	_, err := GetStructuredConfig(nil)
	assert.ErrorIs(t, err, ErrInvalidStorageConfigs)
}
