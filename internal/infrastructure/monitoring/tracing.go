package monitoring

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"

	"github.com/aera-platform/riskengine/internal/config"
	"github.com/aera-platform/riskengine/pkg/logger"
)

// TracingManager owns the OpenTelemetry tracer provider for the process.
// When tracing is disabled the global no-op provider stays in place and
// spans cost nothing.
type TracingManager struct {
	provider *sdktrace.TracerProvider
	logger   logger.Logger
}

// NewTracingManager sets up the Jaeger exporter and installs the global
// tracer provider.
func NewTracingManager(cfg *config.TracingConfig, log logger.Logger) (*TracingManager, error) {
	if !cfg.Enabled {
		log.Info(context.Background(), "tracing is disabled")
		return &TracingManager{logger: log}, nil
	}

	exporter, err := jaeger.New(jaeger.WithCollectorEndpoint(
		jaeger.WithEndpoint(cfg.JaegerEndpoint),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create Jaeger exporter: %w", err)
	}

	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(
			semconv.ServiceNameKey.String(cfg.ServiceName),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	log.Info(context.Background(), "tracing initialized", logger.Fields{
		"endpoint": cfg.JaegerEndpoint,
		"service":  cfg.ServiceName,
	})

	return &TracingManager{provider: provider, logger: log}, nil
}

// Shutdown flushes any buffered spans. Called once, after the run.
func (tm *TracingManager) Shutdown(ctx context.Context) error {
	if tm.provider == nil {
		return nil
	}
	if err := tm.provider.Shutdown(ctx); err != nil {
		tm.logger.Error(ctx, "failed to shutdown tracing provider", err)
		return err
	}
	return nil
}
