package cmd

import (
	"context"
	"time"

	"codeatlas/internal/application/common/slogger"
	"codeatlas/internal/version"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

// setupTelemetry installs an SDK meter provider so the engine and value
// object instruments record into a real pipeline instead of the no-op
// default. The returned function flushes and shuts the provider down.
func setupTelemetry() func() {
	res := resource.NewWithAttributes(
		resource.Default().SchemaURL(),
		attribute.String("service.name", "codeatlas"),
		attribute.String("service.version", version.GetVersion().Version),
	)
	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewManualReader()),
	)
	otel.SetMeterProvider(provider)

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(ctx); err != nil {
			slogger.ErrorNoCtx("Failed to shut down meter provider", slogger.Fields{"error": err.Error()})
		}
	}
}
