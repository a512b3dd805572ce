package commands

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/urfave/cli/v3"

	"github.com/florianilch/sealbox/internal/app"
)

// noEnv isolates tests from the real process environment.
func noEnv() []string { return nil }

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig("", nil, noEnv)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}

	if cfg.Server.Host != app.DefaultConfigServerHost {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, app.DefaultConfigServerHost)
	}
	if cfg.Server.Port != app.DefaultConfigServerPort {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, app.DefaultConfigServerPort)
	}
	if cfg.Storage.Type != app.StorageTypeFile {
		t.Errorf("Storage.Type = %q, want %q", cfg.Storage.Type, app.StorageTypeFile)
	}
	if cfg.Storage.File == "" {
		t.Error("Storage.File should default to a user config dir path")
	}
}

func TestLoadConfig_FromFile(t *testing.T) {
	path := writeConfigFile(t, `
log_format = "json"

[server]
host = "0.0.0.0"
port = 9000

[storage]
type = "keyring"
keyring_service = "from-file"
`)

	cfg, err := loadConfig(path, nil, noEnv)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}

	if cfg.LogFormat != app.LogFormatJSON {
		t.Errorf("LogFormat = %q, want json", cfg.LogFormat)
	}
	if cfg.Server.Host != "0.0.0.0" || cfg.Server.Port != 9000 {
		t.Errorf("Server = %+v, want 0.0.0.0:9000", cfg.Server)
	}
	if cfg.Storage.Type != app.StorageTypeKeyring || cfg.Storage.KeyringService != "from-file" {
		t.Errorf("Storage = %+v, want keyring/from-file", cfg.Storage)
	}
}

func TestLoadConfig_FromEnv(t *testing.T) {
	environ := func() []string {
		return []string{
			"SEALBOX_LOG_LEVEL=DEBUG",
			"SEALBOX_SERVER__PORT=9001",
			"SEALBOX_STORAGE__TYPE=env",
			"SEALBOX_STORAGE__ENV_PREFIX=MYAPP_",
			"UNRELATED_VAR=ignored",
		}
	}

	cfg, err := loadConfig("", nil, environ)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}

	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel = %v, want debug", cfg.LogLevel)
	}
	if cfg.Server.Port != 9001 {
		t.Errorf("Server.Port = %d, want 9001", cfg.Server.Port)
	}
	if cfg.Storage.Type != app.StorageTypeEnv || cfg.Storage.EnvPrefix != "MYAPP_" {
		t.Errorf("Storage = %+v, want env/MYAPP_", cfg.Storage)
	}
	// Unprefixed variables never leak into the config.
	if cfg.Server.Host != app.DefaultConfigServerHost {
		t.Errorf("Server.Host = %q, want default", cfg.Server.Host)
	}
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `
[server]
host = "0.0.0.0"
port = 9000
`)
	environ := func() []string {
		return []string{"SEALBOX_SERVER__PORT=9001"}
	}

	cfg, err := loadConfig(path, nil, environ)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}

	if cfg.Server.Port != 9001 {
		t.Errorf("Server.Port = %d, want env value 9001", cfg.Server.Port)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, file value must survive", cfg.Server.Host)
	}
}

func TestLoadConfig_FlagsOverrideEnv(t *testing.T) {
	environ := func() []string {
		return []string{
			"SEALBOX_STORAGE__TYPE=keyring",
			"SEALBOX_STORAGE__KEYRING_SERVICE=from-env",
		}
	}

	var cfg *app.Config
	cmd := &cli.Command{
		Name: "test",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "storage--type"},
			&cli.StringFlag{Name: "storage--file"},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			var err error
			cfg, err = loadConfig("", cmd, environ)
			return err
		},
	}

	args := []string{"test", "--storage--type", "file", "--storage--file", "/tmp/flag-store.json"}
	if err := cmd.Run(context.Background(), args); err != nil {
		t.Fatalf("run: %v", err)
	}

	if cfg.Storage.Type != app.StorageTypeFile {
		t.Errorf("Storage.Type = %q, flag must win over env", cfg.Storage.Type)
	}
	if cfg.Storage.File != "/tmp/flag-store.json" {
		t.Errorf("Storage.File = %q, want flag value", cfg.Storage.File)
	}
}

func TestLoadConfig_UnsetFlagsDoNotOverride(t *testing.T) {
	environ := func() []string {
		return []string{"SEALBOX_SERVER__PORT=9001"}
	}

	var cfg *app.Config
	cmd := &cli.Command{
		Name: "test",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "server--port", Value: int(app.DefaultConfigServerPort)},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			var err error
			cfg, err = loadConfig("", cmd, environ)
			return err
		},
	}

	if err := cmd.Run(context.Background(), []string{"test"}); err != nil {
		t.Fatalf("run: %v", err)
	}

	if cfg.Server.Port != 9001 {
		t.Errorf("Server.Port = %d, unset flag default must not mask env value", cfg.Server.Port)
	}
}

func TestLoadConfig_InvalidConfigRejected(t *testing.T) {
	environ := func() []string {
		return []string{"SEALBOX_STORAGE__TYPE=redis"}
	}

	if _, err := loadConfig("", nil, environ); err == nil {
		t.Error("expected error for unsupported storage type")
	}
}

func TestLoadConfig_MissingConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.toml")

	if _, err := loadConfig(path, nil, noEnv); err == nil {
		t.Error("expected error for missing config file")
	}
}
