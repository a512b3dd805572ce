package observability

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/contrib/processors/minsev"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutlog"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
)

const serviceName = "sealbox"

// instrumentationName identifies the otelslog bridge scope.
const instrumentationName = "github.com/florianilch/sealbox"

// loggerProvider holds the export pipeline between Instrument and Shutdown.
// Nil when no exporter was requested.
var loggerProvider *sdklog.LoggerProvider

// Instrument installs the process-wide slog default logger.
//
// The console handler always writes to stderr in the given format (text|json)
// at the given level. When OTEL_LOGS_EXPORTER requests an exporter (otlp or
// console), records are additionally bridged into an OpenTelemetry log
// pipeline; OTEL_EXPORTER_OTLP_PROTOCOL selects grpc or http/protobuf
// transport for the otlp exporter.
func Instrument(level slog.Level, format string) error {
	opts := &slog.HandlerOptions{Level: level}

	var console slog.Handler
	switch format {
	case "json":
		console = slog.NewJSONHandler(os.Stderr, opts)
	case "text", "":
		console = slog.NewTextHandler(os.Stderr, opts)
	default:
		return fmt.Errorf("unsupported log format: %s", format)
	}

	handler := console

	if name := os.Getenv("OTEL_LOGS_EXPORTER"); name != "" && name != "none" {
		provider, err := newLoggerProvider(context.Background(), name, level)
		if err != nil {
			return fmt.Errorf("failed to set up log export: %w", err)
		}
		loggerProvider = provider

		bridge := otelslog.NewHandler(instrumentationName, otelslog.WithLoggerProvider(provider))
		handler = newFanoutHandler(console, bridge)
	}

	slog.SetDefault(slog.New(handler))
	return nil
}

// Shutdown flushes and stops the log export pipeline, if one was set up.
func Shutdown(ctx context.Context) error {
	if loggerProvider == nil {
		return nil
	}
	return loggerProvider.Shutdown(ctx)
}

// newLoggerProvider builds the export pipeline: exporter → batch processor →
// severity filter, tagged with the service resource.
func newLoggerProvider(ctx context.Context, exporterName string, level slog.Level) (*sdklog.LoggerProvider, error) {
	exporter, err := newLogExporter(ctx, exporterName)
	if err != nil {
		return nil, err
	}

	res, err := newResource()
	if err != nil {
		return nil, err
	}

	processor := minsev.NewLogProcessor(sdklog.NewBatchProcessor(exporter), otelSeverity(level))

	return sdklog.NewLoggerProvider(
		sdklog.WithProcessor(processor),
		sdklog.WithResource(res),
	), nil
}

// newLogExporter creates the exporter selected by OTEL_LOGS_EXPORTER.
// The otlp exporters read the remaining OTEL_EXPORTER_OTLP_* variables
// themselves.
func newLogExporter(ctx context.Context, name string) (sdklog.Exporter, error) {
	switch name {
	case "otlp":
		switch protocol := os.Getenv("OTEL_EXPORTER_OTLP_PROTOCOL"); protocol {
		case "grpc":
			return otlploggrpc.New(ctx)
		case "", "http/protobuf":
			return otlploghttp.New(ctx)
		default:
			return nil, fmt.Errorf("unsupported OTLP protocol: %s", protocol)
		}
	case "console":
		return stdoutlog.New()
	default:
		return nil, fmt.Errorf("unsupported logs exporter: %s", name)
	}
}

// newResource identifies this process in exported records.
// Schemaless attributes merge cleanly with resource.Default regardless of
// its schema URL version.
func newResource() (*resource.Resource, error) {
	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion()),
			semconv.ServiceInstanceID(uuid.NewString()),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build resource: %w", err)
	}
	return res, nil
}

// serviceVersion reports the main module version baked in by the toolchain.
func serviceVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok || info.Main.Version == "" {
		return "(devel)"
	}
	return info.Main.Version
}

// otelSeverity maps a slog level to the minimum OpenTelemetry severity
// allowed through the export pipeline.
func otelSeverity(level slog.Level) minsev.Severity {
	switch {
	case level <= slog.LevelDebug:
		return minsev.SeverityDebug
	case level <= slog.LevelInfo:
		return minsev.SeverityInfo
	case level <= slog.LevelWarn:
		return minsev.SeverityWarn
	default:
		return minsev.SeverityError
	}
}
