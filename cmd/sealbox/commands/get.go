package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/florianilch/sealbox/internal/observability"
)

func getCommand() *cli.Command {
	return &cli.Command{
		Name:        "get",
		Usage:       "print the stored token",
		Description: "Unseals the stored token and prints it to stdout for shell substitution.",
		Action:      getAction,
	}
}

func getAction(ctx context.Context, cmd *cli.Command) error {
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

	token, err := tokenVault.GetToken(ctx)
	if err != nil {
		return fmt.Errorf("failed to read token: %w", err)
	}
	if token == "" {
		return errors.New("no token configured")
	}

	fmt.Fprintln(cmd.Root().Writer, token)
	return nil
}
