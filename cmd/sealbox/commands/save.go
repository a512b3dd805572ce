package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/florianilch/sealbox/internal/observability"
)

func saveCommand() *cli.Command {
	return &cli.Command{
		Name:      "save",
		Usage:     "seal a token and store it",
		ArgsUsage: "[token]",
		Description: "Reads the token from the argument, from a stdin pipe, or from a hidden\n" +
			"terminal prompt. The token is sealed before it reaches the storage backend.",
		Action: saveAction,
	}
}

func saveAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd.String("config"), cmd, os.Environ)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := observability.Instrument(cfg.LogLevel, string(cfg.LogFormat)); err != nil {
		return fmt.Errorf("failed to set up observability layer: %w", err)
	}

	token := cmd.Args().First()
	if token == "" {
		token, err = readToken(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read token: %w", err)
		}
	}
	if token == "" {
		return errors.New("empty token")
	}

	tokenVault, closeStore, err := newVault(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = closeStore() }()

	if err := tokenVault.SaveToken(ctx, token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	fmt.Fprintln(cmd.Root().Writer, "token saved")
	return nil
}

// readToken reads a token from stdin. On a terminal the input is prompted
// for and never echoed; otherwise stdin is consumed as a pipe.
func readToken(stdin *os.File) (string, error) {
	fd := int(stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprint(os.Stderr, "Token: ")
		raw, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}

	raw, err := io.ReadAll(stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(raw)), nil
}
