// Package observability wires process-wide logging.
//
// Instrument installs the default slog logger: a console handler on stderr,
// plus an OpenTelemetry log bridge when the standard OTEL_LOGS_EXPORTER
// environment variable requests one. Shutdown flushes any export pipeline.
package observability
