package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"
)

// TokenVault seals and unseals the API token backing the agent's routes.
type TokenVault interface {
	GetToken(ctx context.Context) (string, error)
	SaveToken(ctx context.Context, token string) error
}

// Agent is the local token service.
type Agent struct {
	handler http.Handler
	server  *http.Server
}

// Compile-time check that Agent implements http.Handler
var _ http.Handler = (*Agent)(nil)

// New creates an agent serving tokens from the given vault.
func New(vault TokenVault) (*Agent, error) {
	if vault == nil {
		return nil, fmt.Errorf("missing token vault")
	}

	logger := slog.Default()

	h := &handlers{vault: vault}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/token", h.getToken)
	mux.HandleFunc("PUT /v1/token", h.putToken)
	mux.HandleFunc("GET /healthz", h.healthz)

	return &Agent{
		handler: applyMiddlewares(mux,
			Logging(logger),
			Recovery,
		),
	}, nil
}

// ServeHTTP implements http.Handler interface
func (a *Agent) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handler.ServeHTTP(w, r)
}

// Start starts the HTTP server in the background and returns immediately.
// Returns a channel for runtime errors and a startup error if any.
//
// Startup errors (port in use, permission denied) are returned immediately.
// Runtime errors (network failures during operation) are sent to the error channel.
//
// The caller is responsible for calling Shutdown() to stop the server.
func (a *Agent) Start(ctx context.Context, address string) (<-chan error, error) {
	// Startup phase: Create listener synchronously to catch port-in-use errors immediately
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", address, err)
	}

	a.server = &http.Server{
		Handler:      a,
		ReadTimeout:  10 * time.Second, // Inbound: token bodies are tiny, slow clients get cut off
		WriteTimeout: 10 * time.Second, // Inbound: responses are small JSON documents
		IdleTimeout:  90 * time.Second, // Inbound: keep-alive wait for next request from client
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	errCh := make(chan error, 1)

	go func() {
		err := a.server.Serve(listener)
		// Only report error if not from graceful shutdown
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	return errCh, nil
}

// Shutdown performs graceful shutdown of the HTTP server.
// Returns error if shutdown fails or times out.
func (a *Agent) Shutdown(ctx context.Context) error {
	if a.server == nil {
		return nil
	}

	if err := a.server.Shutdown(ctx); err != nil {
		// Graceful shutdown failed - force close
		_ = a.server.Close()
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	return nil
}
