// Package observability sets up OpenTelemetry tracing for the companion server.
package observability

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"homebase/internal/config"
	"homebase/internal/logging"
)

// ShutdownFunc flushes and stops the tracer provider.
type ShutdownFunc func(context.Context) error

func noopShutdown(context.Context) error { return nil }

// Options adjusts where spans go. A nil Writer means stderr, so traces
// never mix with command output on stdout.
type Options struct {
	Writer      io.Writer
	PrettyPrint bool
}

// InitTracing installs a global tracer provider exporting spans as JSON.
// When telemetry is disabled it installs nothing and returns a no-op shutdown.
func InitTracing(ctx context.Context, cfg config.TelemetryConfig, log *logging.Logger, opts Options) (ShutdownFunc, error) {
	if !cfg.Enabled {
		return noopShutdown, nil
	}
	if log == nil {
		log = logging.Nop()
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "homebase"
	}

	res, err := resource.New(ctx, resource.WithAttributes(
		attribute.String("service.name", serviceName),
		attribute.String("service.component", "companion-server"),
	))
	if err != nil {
		log.Warn("otel resource init failed (continuing)", "error", err)
	}

	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	exporterOpts := []stdouttrace.Option{stdouttrace.WithWriter(w)}
	if opts.PrettyPrint {
		exporterOpts = append(exporterOpts, stdouttrace.WithPrettyPrint())
	}
	exporter, err := stdouttrace.New(exporterOpts...)
	if err != nil {
		return noopShutdown, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(5*time.Second)),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	log.Info("otel tracing initialized", "service", serviceName)
	return tp.Shutdown, nil
}
