package app

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/florianilch/sealbox/internal/syncstore"
)

// LogFormat represents the logging output format.
type LogFormat string

const (
	LogFormatText LogFormat = "text"
	LogFormatJSON LogFormat = "json"
)

// StorageType represents the different backends supported for sealed tokens.
type StorageType string

const (
	StorageTypeFile    StorageType = "file"
	StorageTypeEnv     StorageType = "env"
	StorageTypeKeyring StorageType = "keyring"
	StorageTypeLibSQL  StorageType = "libsql"
)

// Default configuration values
const (
	DefaultConfigLogFormat       = LogFormatText
	DefaultConfigServerHost      = "127.0.0.1"
	DefaultConfigServerPort      = 4172
	DefaultConfigShutdownTimeout = 5 * time.Second
	DefaultConfigStorageType     = StorageTypeFile
	DefaultConfigEnvPrefix       = "SEALBOX_"
	DefaultConfigKeyringService  = "sealbox"
)

// ServerConfig holds agent server configuration.
type ServerConfig struct {
	Host string `json:"host" validate:"hostname_rfc1123|ip"`
	Port uint16 `json:"port"` // Port range 0-65535 handled by uint16 type
}

// ShutdownConfig holds shutdown behavior configuration.
type ShutdownConfig struct {
	// Timeout for graceful shutdown.
	Timeout time.Duration `json:"timeout"`
}

// StorageConfig describes where the sealed token lives.
type StorageConfig struct {
	Type StorageType `json:"type" validate:"required,oneof=file env keyring libsql"`

	// Backend-specific settings (used according to Type)
	File           string `json:"file,omitempty"`            // For file storage: path to the JSON store
	EnvPrefix      string `json:"env_prefix,omitempty"`      // For env storage: variable name prefix
	KeyringService string `json:"keyring_service,omitempty"` // For keyring storage: service name
	DBPath         string `json:"db_path,omitempty"`         // For libsql storage: database file path
}

// NewStore creates the configured storage backend.
func (s *StorageConfig) NewStore() (syncstore.Store, error) {
	switch s.Type {
	case StorageTypeFile:
		return syncstore.NewFileStore(s.File)
	case StorageTypeEnv:
		return syncstore.NewEnvStore(s.EnvPrefix)
	case StorageTypeKeyring:
		return syncstore.NewKeyringStore(s.KeyringService)
	case StorageTypeLibSQL:
		return syncstore.NewLibSQLStore("file:" + s.DBPath)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", s.Type)
	}
}

// Config holds the application's configuration.
type Config struct {
	// LogLevel for logging output (defaults to Info if unset).
	LogLevel  slog.Level     `json:"log_level"`
	LogFormat LogFormat      `json:"log_format" validate:"oneof=text json"`
	Server    ServerConfig   `json:"server"`
	Shutdown  ShutdownConfig `json:"shutdown"`
	Storage   StorageConfig  `json:"storage"`
}

// Default creates a new Config with default values applied.
func Default() (*Config, error) {
	cfg := &Config{}
	if err := cfg.ApplyDefaults(); err != nil {
		return nil, fmt.Errorf("failed to apply defaults: %w", err)
	}
	return cfg, nil
}

// ApplyDefaults fills unset config fields with sensible defaults.
func (c *Config) ApplyDefaults() error {
	if c.LogFormat == "" {
		c.LogFormat = DefaultConfigLogFormat
	}
	if c.Server.Host == "" {
		c.Server.Host = DefaultConfigServerHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultConfigServerPort
	}
	if c.Shutdown.Timeout == 0 {
		c.Shutdown.Timeout = DefaultConfigShutdownTimeout
	}
	if c.Storage.Type == "" {
		c.Storage.Type = DefaultConfigStorageType
	}

	// Dynamic defaults based on storage type
	switch c.Storage.Type {
	case StorageTypeFile:
		if c.Storage.File == "" {
			configDir, err := os.UserConfigDir()
			if err != nil {
				return fmt.Errorf("storage.file required (auto-detect failed: %w)", err)
			}
			c.Storage.File = filepath.Join(configDir, "sealbox", "store.json")
		}
	case StorageTypeEnv:
		if c.Storage.EnvPrefix == "" {
			c.Storage.EnvPrefix = DefaultConfigEnvPrefix
		}
	case StorageTypeKeyring:
		if c.Storage.KeyringService == "" {
			c.Storage.KeyringService = DefaultConfigKeyringService
		}
	case StorageTypeLibSQL:
		if c.Storage.DBPath == "" {
			configDir, err := os.UserConfigDir()
			if err != nil {
				return fmt.Errorf("storage.db_path required (auto-detect failed: %w)", err)
			}
			c.Storage.DBPath = filepath.Join(configDir, "sealbox", "sealbox.db")
		}
	}

	return nil
}

// Validate validates the configuration using struct tags and enum values.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	switch c.Storage.Type {
	case StorageTypeFile:
		if c.Storage.File == "" {
			return errors.New("file path required for file storage")
		}
	case StorageTypeEnv:
		if c.Storage.EnvPrefix == "" {
			return errors.New("env_prefix required for env storage")
		}
	case StorageTypeKeyring:
		if c.Storage.KeyringService == "" {
			return errors.New("keyring_service required for keyring storage")
		}
	case StorageTypeLibSQL:
		if c.Storage.DBPath == "" {
			return errors.New("db_path required for libsql storage")
		}
	}

	return nil
}
