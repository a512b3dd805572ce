package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/florianilch/sealbox/internal/app"
	"github.com/florianilch/sealbox/internal/observability"
	"github.com/florianilch/sealbox/internal/tokensource"
)

func statusCommand() *cli.Command {
	return &cli.Command{
		Name:        "status",
		Usage:       "report storage backend and token state",
		Description: "Shows which backend is configured and whether a token is stored.\nNever prints token material.",
		Action:      statusAction,
	}
}

func statusAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd.String("config"), cmd, os.Environ)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := observability.Instrument(cfg.LogLevel, string(cfg.LogFormat)); err != nil {
		return fmt.Errorf("failed to set up observability layer: %w", err)
	}

	tokenVault, closeStore, err := newVault(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = closeStore() }()

	source, err := tokensource.NewVaultTokenSource(tokenVault)
	if err != nil {
		return fmt.Errorf("failed to create token source: %w", err)
	}

	out := cmd.Root().Writer
	fmt.Fprintf(out, "storage: %s\n", storageDetails(cfg.Storage))

	_, err = source.Token()
	switch {
	case errors.Is(err, tokensource.ErrNoToken):
		fmt.Fprintln(out, "token: not configured")
	case err != nil:
		return fmt.Errorf("failed to read token: %w", err)
	default:
		fmt.Fprintln(out, "token: configured")
	}

	return nil
}

// storageDetails names the backend and its location without token material.
func storageDetails(s app.StorageConfig) string {
	switch s.Type {
	case app.StorageTypeFile:
		return fmt.Sprintf("%s (%s)", s.Type, s.File)
	case app.StorageTypeEnv:
		return fmt.Sprintf("%s (prefix %s)", s.Type, s.EnvPrefix)
	case app.StorageTypeKeyring:
		return fmt.Sprintf("%s (service %s)", s.Type, s.KeyringService)
	case app.StorageTypeLibSQL:
		return fmt.Sprintf("%s (%s)", s.Type, s.DBPath)
	default:
		return string(s.Type)
	}
}
