package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/florianilch/sealbox/internal/app"
	"github.com/florianilch/sealbox/internal/vault"
)

// Execute runs the root command with the given context and arguments.
func Execute(ctx context.Context, args []string) error {
	cmd := &cli.Command{
		Name:  "sealbox",
		Usage: "Sealed API token storage",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to config file",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "log level (debug|info|warn|error)",
				Value: slog.LevelInfo.String(),
			},
			&cli.StringFlag{
				Name:  "storage--type",
				Usage: "storage backend (file|env|keyring|libsql)",
				Value: string(app.DefaultConfigStorageType),
			},
			&cli.StringFlag{
				Name:  "storage--file",
				Usage: "path to the file store",
			},
			&cli.StringFlag{
				Name:  "storage--env-prefix",
				Usage: "environment variable prefix for env storage",
			},
			&cli.StringFlag{
				Name:  "storage--keyring-service",
				Usage: "keyring service name",
			},
			&cli.StringFlag{
				Name:  "storage--db-path",
				Usage: "libsql database path",
			},
		},
		Commands: []*cli.Command{
			saveCommand(),
			getCommand(),
			statusCommand(),
			agentCommand(),
		},
	}

	return cmd.Run(ctx, args)
}

// newVault builds a vault on the configured storage backend. The returned
// close function releases backend resources and must always be called.
func newVault(cfg *app.Config) (*vault.Vault, func() error, error) {
	store, err := cfg.Storage.NewStore()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create store: %w", err)
	}

	closeStore := func() error { return nil }
	if closer, ok := store.(io.Closer); ok {
		closeStore = closer.Close
	}

	tokenVault, err := vault.New(store)
	if err != nil {
		_ = closeStore()
		return nil, nil, fmt.Errorf("failed to create vault: %w", err)
	}

	return tokenVault, closeStore, nil
}
