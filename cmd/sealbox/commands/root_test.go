package commands

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/florianilch/sealbox/internal/app"
	"github.com/florianilch/sealbox/internal/syncstore"
	"github.com/florianilch/sealbox/internal/vault"
)

// resetLogger keeps Instrument's slog.SetDefault from leaking across tests.
func resetLogger(t *testing.T) {
	t.Helper()
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
	t.Setenv("OTEL_LOGS_EXPORTER", "")
}

func TestExecute_SaveThenGet(t *testing.T) {
	resetLogger(t)
	storePath := filepath.Join(t.TempDir(), "store.json")
	ctx := context.Background()

	save := []string{"sealbox", "--storage--type", "file", "--storage--file", storePath, "save", "sk-cli-roundtrip"}
	if err := Execute(ctx, save); err != nil {
		t.Fatalf("save: %v", err)
	}

	// The raw token must not appear in the store file.
	raw, err := os.ReadFile(storePath)
	if err != nil {
		t.Fatalf("reading store: %v", err)
	}
	if strings.Contains(string(raw), "sk-cli-roundtrip") {
		t.Error("store file contains the raw token")
	}

	store, err := syncstore.NewFileStore(storePath)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	v, err := vault.New(store)
	if err != nil {
		t.Fatalf("vault.New: %v", err)
	}
	token, err := v.GetToken(ctx)
	if err != nil {
		t.Fatalf("GetToken: %v", err)
	}
	if token != "sk-cli-roundtrip" {
		t.Errorf("token = %q, want %q", token, "sk-cli-roundtrip")
	}

	get := []string{"sealbox", "--storage--type", "file", "--storage--file", storePath, "get"}
	if err := Execute(ctx, get); err != nil {
		t.Errorf("get: %v", err)
	}
}

func TestExecute_GetWithoutToken(t *testing.T) {
	resetLogger(t)
	storePath := filepath.Join(t.TempDir(), "store.json")

	get := []string{"sealbox", "--storage--type", "file", "--storage--file", storePath, "get"}
	err := Execute(context.Background(), get)
	if err == nil || !strings.Contains(err.Error(), "no token configured") {
		t.Errorf("get error = %v, want no token configured", err)
	}
}

func TestExecute_SaveRejectsEmptyToken(t *testing.T) {
	resetLogger(t)
	storePath := filepath.Join(t.TempDir(), "store.json")

	// Empty positional arg and empty stdin leave nothing to save.
	save := []string{"sealbox", "--storage--type", "file", "--storage--file", storePath, "save", ""}
	err := Execute(context.Background(), save)
	if err == nil || !strings.Contains(err.Error(), "empty token") {
		t.Errorf("save error = %v, want empty token", err)
	}
}

func TestExecute_Status(t *testing.T) {
	resetLogger(t)
	storePath := filepath.Join(t.TempDir(), "store.json")
	ctx := context.Background()

	status := []string{"sealbox", "--storage--type", "file", "--storage--file", storePath, "status"}
	if err := Execute(ctx, status); err != nil {
		t.Errorf("status on empty store: %v", err)
	}

	save := []string{"sealbox", "--storage--type", "file", "--storage--file", storePath, "save", "sk-status"}
	if err := Execute(ctx, save); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := Execute(ctx, status); err != nil {
		t.Errorf("status with token: %v", err)
	}
}

func TestReadToken_Pipe(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	go func() {
		_, _ = w.WriteString("  sk-piped\n")
		_ = w.Close()
	}()

	token, err := readToken(r)
	if err != nil {
		t.Fatalf("readToken: %v", err)
	}
	if token != "sk-piped" {
		t.Errorf("token = %q, want %q", token, "sk-piped")
	}
}

func TestStorageDetails(t *testing.T) {
	tests := []struct {
		name string
		cfg  app.StorageConfig
		want string
	}{
		{"file", app.StorageConfig{Type: app.StorageTypeFile, File: "/tmp/s.json"}, "/tmp/s.json"},
		{"env", app.StorageConfig{Type: app.StorageTypeEnv, EnvPrefix: "SEALBOX_"}, "prefix SEALBOX_"},
		{"keyring", app.StorageConfig{Type: app.StorageTypeKeyring, KeyringService: "sealbox"}, "service sealbox"},
		{"libsql", app.StorageConfig{Type: app.StorageTypeLibSQL, DBPath: "/tmp/kv.db"}, "/tmp/kv.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := storageDetails(tt.cfg)
			if !strings.Contains(got, string(tt.cfg.Type)) || !strings.Contains(got, tt.want) {
				t.Errorf("storageDetails = %q, want type and %q", got, tt.want)
			}
		})
	}
}
