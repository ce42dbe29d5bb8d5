package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

const (
	StoreLevelDB = "leveldb"
	StoreMemory  = "memory"

	// EnvPrefix namespaces environment overrides, e.g. HASHLEDGER_DATADIR.
	EnvPrefix = "HASHLEDGER"

	configName = ".hashledger"
)

var (
	ErrUnknownStore     = errors.New("unknown store kind")
	ErrInvalidCacheSize = errors.New("cache size must not be negative")
)

// Config holds the settings shared by every command.
type Config struct {
	// DataDir holds the LevelDB database and the block journal.
	DataDir string `mapstructure:"datadir"`

	// Store selects the chain store backend.
	Store string `mapstructure:"store"`

	// CacheSize is the number of blocks kept in the read cache, 0 disables it.
	CacheSize int `mapstructure:"cachesize"`

	// Journal enables the append-only JSON-lines block log in DataDir.
	Journal bool `mapstructure:"journal"`

	Verbosity string `mapstructure:"verbosity"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	dataDir := "hashledger-data"
	if home, err := homedir.Dir(); err == nil {
		dataDir = filepath.Join(home, ".hashledger")
	}
	return Config{
		DataDir:   dataDir,
		Store:     StoreLevelDB,
		CacheSize: 256,
		Journal:   false,
		Verbosity: "info",
	}
}

// SetDefaults registers Default on v so that Load sees every key even when
// no file or environment variable sets it.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("datadir", d.DataDir)
	v.SetDefault("store", d.Store)
	v.SetDefault("cachesize", d.CacheSize)
	v.SetDefault("journal", d.Journal)
	v.SetDefault("verbosity", d.Verbosity)
}

// ReadInConfig points v at cfgFile, or at $HOME/.hashledger.* when empty,
// and enables environment overrides. A missing default file is not an
// error.
func ReadInConfig(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return err
		}
		v.AddConfigPath(home)
		v.SetConfigName(configName)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// Load decodes the settings held by v and validates them.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Store {
	case StoreLevelDB, StoreMemory:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStore, c.Store)
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidCacheSize, c.CacheSize)
	}
	return nil
}

// DatabasePath is where the LevelDB store lives.
func (c Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "chaindata")
}

// JournalPath is where the block journal is appended.
func (c Config) JournalPath() string {
	return filepath.Join(c.DataDir, "ledger.txt")
}
