package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
)

// Settings describe the process reporting telemetry
type Settings struct {
	ServiceName    string
	ServiceVersion string
	InstanceID     string

	// How often metrics are pushed. Zero uses the exporter default.
	MetricInterval time.Duration
}

// ShutdownFunc flushes and stops every provider registered by SetupOTelSDK
type ShutdownFunc func(context.Context) error

// SetupOTelSDK registers global meter and tracer providers exporting over OTLP/gRPC.
// The exporters are configured through the standard OTEL_EXPORTER_OTLP_* variables.
// A CLI invocation is short lived, so the returned shutdown must run before exit or nothing is exported.
func SetupOTelSDK(ctx context.Context, settings Settings) (ShutdownFunc, error) {
	res, err := newResource(settings)
	if err != nil {
		return nil, err
	}

	meterProvider, err := newMeterProvider(ctx, res, settings.MetricInterval)
	if err != nil {
		return nil, err
	}

	tracerProvider, err := newTracerProvider(ctx, res)
	if err != nil {
		return nil, errors.Join(err, meterProvider.Shutdown(ctx))
	}

	otel.SetMeterProvider(meterProvider)
	otel.SetTracerProvider(tracerProvider)

	return func(ctx context.Context) error {
		// Spans may record metrics, so flush traces first
		return errors.Join(
			tracerProvider.Shutdown(ctx),
			meterProvider.Shutdown(ctx),
		)
	}, nil
}

func newResource(settings Settings) (*resource.Resource, error) {
	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			resource.Default().SchemaURL(),
			semconv.ServiceName(settings.ServiceName),
			semconv.ServiceVersion(settings.ServiceVersion),
			semconv.ServiceInstanceID(settings.InstanceID),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}
	return res, nil
}

func newMeterProvider(ctx context.Context, res *resource.Resource, interval time.Duration) (*metric.MeterProvider, error) {
	exporter, err := otlpmetricgrpc.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create metric exporter: %w", err)
	}

	var readerOpts []metric.PeriodicReaderOption
	if interval > 0 {
		readerOpts = append(readerOpts, metric.WithInterval(interval))
	}

	return metric.NewMeterProvider(
		metric.WithReader(metric.NewPeriodicReader(exporter, readerOpts...)),
		metric.WithResource(res),
	), nil
}

func newTracerProvider(ctx context.Context, res *resource.Resource) (*sdktrace.TracerProvider, error) {
	exporter, err := otlptracegrpc.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	), nil
}
