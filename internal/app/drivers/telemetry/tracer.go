package telemetry

import (
	"context"
	"medmarket-service/internal/app/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.uber.org/zap"
)

// NewTracerProvider installs the global tracer provider and returns its shutdown hook.
// When telemetry is disabled a no-op shutdown is returned and the global provider is left untouched.
func NewTracerProvider(internalConfig *config.InternalConfig, log *zap.Logger) func(context.Context) error {
	if !internalConfig.Telemetry.Enabled {
		log.Info("telemetry disabled, skipping tracer provider setup")
		return func(context.Context) error { return nil }
	}

	exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		log.Error("failed to create stdout trace exporter", zap.Error(err))
		return func(context.Context) error { return nil }
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(internalConfig.Telemetry.ServiceName),
		semconv.ServiceVersionKey.String(internalConfig.App.Version),
		semconv.DeploymentEnvironmentKey.String(internalConfig.App.Env),
	)

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	log.Info("tracer provider initialized",
		zap.String("service_name", internalConfig.Telemetry.ServiceName),
	)
	return provider.Shutdown
}
