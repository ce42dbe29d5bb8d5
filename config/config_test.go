package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, StoreLevelDB, cfg.Store)
}

func TestReadInConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.yaml")
	content := []byte("datadir: /tmp/chain\nstore: memory\ncachesize: 8\njournal: true\n")
	require.NoError(t, os.WriteFile(path, content, 0644))

	v := viper.New()
	SetDefaults(v)
	require.NoError(t, ReadInConfig(v, path))

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/chain", cfg.DataDir)
	assert.Equal(t, StoreMemory, cfg.Store)
	assert.Equal(t, 8, cfg.CacheSize)
	assert.True(t, cfg.Journal)
	assert.Equal(t, "info", cfg.Verbosity)
	assert.Equal(t, filepath.Join("/tmp/chain", "chaindata"), cfg.DatabasePath())
}

func TestReadInConfigMissingExplicitFile(t *testing.T) {
	v := viper.New()
	err := ReadInConfig(v, filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestEnvironmentOverride(t *testing.T) {
	t.Setenv("HASHLEDGER_STORE", "memory")

	v := viper.New()
	SetDefaults(v)
	require.NoError(t, ReadInConfig(v, ""))

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, StoreMemory, cfg.Store)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Store = "postgres"
	assert.True(t, errors.Is(cfg.Validate(), ErrUnknownStore))

	cfg = Default()
	cfg.CacheSize = -1
	assert.True(t, errors.Is(cfg.Validate(), ErrInvalidCacheSize))
}
