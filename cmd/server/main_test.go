package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"discoverme-mcp/internal/config"
	"discoverme-mcp/internal/logging"
	"discoverme-mcp/internal/storage"
)

func TestBuildStore_Memory(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Storage.Provider = "memory"

	store, err := buildStore(cfg, logging.NewNoOpLogger())
	require.NoError(t, err)
	defer store.Close()

	assert.IsType(t, &storage.MemoryStore{}, store)
}

func TestBuildStore_SQLite(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Storage.Provider = "sqlite"
	cfg.Storage.Path = filepath.Join(t.TempDir(), "discoverme.db")

	store, err := buildStore(cfg, logging.NewNoOpLogger())
	require.NoError(t, err)
	defer store.Close()

	assert.IsType(t, &storage.SQLiteStore{}, store)
}

func TestBuildStore_UnknownProvider(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Storage.Provider = "cassandra"

	_, err := buildStore(cfg, logging.NewNoOpLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown storage provider")
}
