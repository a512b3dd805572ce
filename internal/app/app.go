package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/florianilch/sealbox/internal/agent"
	"github.com/florianilch/sealbox/internal/syncstore"
	"github.com/florianilch/sealbox/internal/vault"
)

// App orchestrates the lifecycle of the token agent and its storage backend.
type App struct {
	cfg   *Config
	agent *agent.Agent
	store syncstore.Store
}

// New creates a new App instance.
func New(cfg *Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	store, err := cfg.Storage.NewStore()
	if err != nil {
		return nil, fmt.Errorf("failed to create store: %w", err)
	}

	tokenVault, err := vault.New(store)
	if err != nil {
		return nil, fmt.Errorf("failed to create vault: %w", err)
	}

	agentServer, err := agent.New(tokenVault)
	if err != nil {
		return nil, fmt.Errorf("failed to create agent: %w", err)
	}

	return &App{
		cfg:   cfg,
		agent: agentServer,
		store: store,
	}, nil
}

// Start starts all services and blocks until shutdown is triggered.
// Uses errgroup for runtime error monitoring and shutdown function collection for coordinated cleanup.
func (a *App) Start(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)

	address := a.cfg.Server.Host + ":" + strconv.FormatUint(uint64(a.cfg.Server.Port), 10)
	var shutdownFuncs []func(context.Context) error

	// Store close runs last in the reverse-order shutdown, after the agent
	// stops taking requests.
	if closer, ok := a.store.(io.Closer); ok {
		shutdownFuncs = append(shutdownFuncs, func(context.Context) error {
			return closer.Close()
		})
	}

	// Startup phase: Start services
	slog.InfoContext(gCtx, "starting token agent", "address", address)
	agentErrCh, err := a.agent.Start(gCtx, address)
	if err != nil {
		return fmt.Errorf("agent startup failed: %w", err)
	}
	shutdownFuncs = append(shutdownFuncs, a.agent.Shutdown)

	// Monitor runtime errors - errgroup cancels context on first error
	g.Go(func() error {
		select {
		case err := <-agentErrCh:
			if err != nil {
				slog.ErrorContext(gCtx, "agent runtime error", "error", err)
				return fmt.Errorf("agent: %w", err)
			}
			return nil
		case <-gCtx.Done():
			return nil
		}
	})

	slog.InfoContext(gCtx, "application ready", "address", address)

	runtimeErr := g.Wait()

	slog.InfoContext(gCtx, "shutting down services")

	// Shutdown phase: Stop all services
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Shutdown.Timeout)
	defer cancel()

	var errs []error
	if runtimeErr != nil {
		errs = append(errs, fmt.Errorf("runtime: %w", runtimeErr))
	}

	for i := len(shutdownFuncs) - 1; i >= 0; i-- {
		if err := shutdownFuncs[i](shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "service shutdown failed", "error", err)
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	slog.Info("application stopped")
	return nil
}
