package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	// Server defaults
	assert.Equal(t, "stdio", cfg.Server.Mode)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30, cfg.Server.ReadTimeout)
	assert.Equal(t, 30, cfg.Server.WriteTimeout)

	// Storage defaults
	assert.Equal(t, "sqlite", cfg.Storage.Provider)
	assert.Equal(t, "./data/discoverme.db", cfg.Storage.Path)

	// Redis cache is opt-in
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 300, cfg.Redis.TTLSeconds)

	// Scoring weight table
	assert.Equal(t, 0.5, cfg.Search.BaseWeight)
	assert.Equal(t, 0.3, cfg.Search.NameMatchWeight)
	assert.Equal(t, 0.3, cfg.Search.SkillRatioWeight)
	assert.Equal(t, 0.2, cfg.Search.CompanyMatchWeight)
	assert.Equal(t, 0.1, cfg.Search.OpenToWorkWeight)
	assert.Equal(t, 10, cfg.Search.DefaultLimit)

	assert.Equal(t, "default-user", cfg.Profile.DefaultProfileID)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  func() *Config
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid defaults",
			config:  DefaultConfig,
			wantErr: false,
		},
		{
			name: "invalid mode",
			config: func() *Config {
				cfg := DefaultConfig()
				cfg.Server.Mode = "grpc"
				return cfg
			},
			wantErr: true,
			errMsg:  "invalid server mode",
		},
		{
			name: "http mode with bad port",
			config: func() *Config {
				cfg := DefaultConfig()
				cfg.Server.Mode = "http"
				cfg.Server.Port = 0
				return cfg
			},
			wantErr: true,
			errMsg:  "invalid server port",
		},
		{
			name: "http mode with empty host",
			config: func() *Config {
				cfg := DefaultConfig()
				cfg.Server.Mode = "http"
				cfg.Server.Host = ""
				return cfg
			},
			wantErr: true,
			errMsg:  "server host cannot be empty",
		},
		{
			name: "stdio mode ignores port",
			config: func() *Config {
				cfg := DefaultConfig()
				cfg.Server.Port = 0
				return cfg
			},
			wantErr: false,
		},
		{
			name: "unknown storage provider",
			config: func() *Config {
				cfg := DefaultConfig()
				cfg.Storage.Provider = "mongodb"
				return cfg
			},
			wantErr: true,
			errMsg:  "invalid storage provider",
		},
		{
			name: "sqlite without path",
			config: func() *Config {
				cfg := DefaultConfig()
				cfg.Storage.Path = ""
				return cfg
			},
			wantErr: true,
			errMsg:  "requires a database path",
		},
		{
			name: "memory provider needs no path",
			config: func() *Config {
				cfg := DefaultConfig()
				cfg.Storage.Provider = "memory"
				cfg.Storage.Path = ""
				return cfg
			},
			wantErr: false,
		},
		{
			name: "redis enabled without addr",
			config: func() *Config {
				cfg := DefaultConfig()
				cfg.Redis.Enabled = true
				cfg.Redis.Addr = ""
				return cfg
			},
			wantErr: true,
			errMsg:  "redis address cannot be empty",
		},
		{
			name: "redis enabled with zero ttl",
			config: func() *Config {
				cfg := DefaultConfig()
				cfg.Redis.Enabled = true
				cfg.Redis.TTLSeconds = 0
				return cfg
			},
			wantErr: true,
			errMsg:  "redis ttl must be positive",
		},
		{
			name: "weight out of range",
			config: func() *Config {
				cfg := DefaultConfig()
				cfg.Search.NameMatchWeight = 1.5
				return cfg
			},
			wantErr: true,
			errMsg:  "must be between 0 and 1",
		},
		{
			name: "negative weight",
			config: func() *Config {
				cfg := DefaultConfig()
				cfg.Search.OpenToWorkWeight = -0.1
				return cfg
			},
			wantErr: true,
			errMsg:  "must be between 0 and 1",
		},
		{
			name: "non-positive default limit",
			config: func() *Config {
				cfg := DefaultConfig()
				cfg.Search.DefaultLimit = 0
				return cfg
			},
			wantErr: true,
			errMsg:  "default limit must be positive",
		},
		{
			name: "empty default profile id",
			config: func() *Config {
				cfg := DefaultConfig()
				cfg.Profile.DefaultProfileID = ""
				return cfg
			},
			wantErr: true,
			errMsg:  "default profile id cannot be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config().Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("DISCOVERME_MODE", "http")
	t.Setenv("DISCOVERME_PORT", "9090")
	t.Setenv("DISCOVERME_STORAGE_PROVIDER", "memory")
	t.Setenv("DISCOVERME_SEARCH_DEFAULT_LIMIT", "25")
	t.Setenv("DISCOVERME_SEARCH_OPEN_TO_WORK_WEIGHT", "0.2")
	t.Setenv("DISCOVERME_DEFAULT_PROFILE_ID", "sophie-martin")
	t.Setenv("DISCOVERME_LOG_LEVEL", "debug")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "http", cfg.Server.Mode)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Storage.Provider)
	assert.Equal(t, 25, cfg.Search.DefaultLimit)
	assert.Equal(t, 0.2, cfg.Search.OpenToWorkWeight)
	assert.Equal(t, "sophie-martin", cfg.Profile.DefaultProfileID)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadConfig_InvalidEnvValueKeepsDefault(t *testing.T) {
	t.Setenv("DISCOVERME_PORT", "not-a-number")
	t.Setenv("DISCOVERME_SEARCH_BASE_WEIGHT", "abc")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 0.5, cfg.Search.BaseWeight)
}

func TestLoadConfig_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
server:
  mode: http
  port: 7070
storage:
  provider: memory
search:
  default_limit: 5
profile:
  default_profile_id: marc-dubois
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))
	t.Setenv("DISCOVERME_CONFIG", path)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "http", cfg.Server.Mode)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Storage.Provider)
	assert.Equal(t, 5, cfg.Search.DefaultLimit)
	assert.Equal(t, "marc-dubois", cfg.Profile.DefaultProfileID)
	// untouched sections keep their defaults
	assert.Equal(t, 0.3, cfg.Search.NameMatchWeight)
}

func TestLoadConfig_EnvBeatsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  mode: http\n  port: 7070\n"), 0o600))
	t.Setenv("DISCOVERME_CONFIG", path)
	t.Setenv("DISCOVERME_PORT", "9999")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
}

func TestLoadConfig_MissingFileFails(t *testing.T) {
	t.Setenv("DISCOVERME_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}
