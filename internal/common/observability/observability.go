package observability

import (
	"context"
	"fmt"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Observability owns the process-wide meter and tracer providers.
type Observability struct {
	meterProvider  *sdkmetric.MeterProvider
	tracerProvider *sdktrace.TracerProvider
	suggestRuns    otelmetric.Int64Counter
	suggestLatency otelmetric.Float64Histogram
}

// New registers the OpenTelemetry prometheus exporter with reg and installs
// global meter and tracer providers. Spans are not exported; the tracer
// provides trace IDs for log correlation.
func New(serviceName string, reg promclient.Registerer) (*Observability, error) {
	exporter, err := otelprom.New(otelprom.WithRegisterer(reg))
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	res := resource.NewSchemaless(attribute.String("service.name", serviceName))

	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter), sdkmetric.WithResource(res))
	tp := sdktrace.NewTracerProvider(sdktrace.WithResource(res))
	otel.SetMeterProvider(mp)
	otel.SetTracerProvider(tp)

	meter := mp.Meter(serviceName)

	runs, err := meter.Int64Counter(
		"match.suggest.runs",
		otelmetric.WithDescription("Number of match suggestion runs"),
	)
	if err != nil {
		return nil, fmt.Errorf("create suggest counter: %w", err)
	}

	latency, err := meter.Float64Histogram(
		"match.suggest.duration",
		otelmetric.WithDescription("Match suggestion run duration"),
		otelmetric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("create suggest histogram: %w", err)
	}

	return &Observability{
		meterProvider:  mp,
		tracerProvider: tp,
		suggestRuns:    runs,
		suggestLatency: latency,
	}, nil
}

// RecordSuggestRun is safe on a nil receiver.
func (o *Observability) RecordSuggestRun(ctx context.Context, duration time.Duration, status string) {
	if o == nil {
		return
	}
	attrs := otelmetric.WithAttributes(attribute.String("status", status))
	o.suggestRuns.Add(ctx, 1, attrs)
	o.suggestLatency.Record(ctx, float64(duration.Milliseconds()), attrs)
}

func (o *Observability) Shutdown(ctx context.Context) error {
	if o == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := o.tracerProvider.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown tracer provider: %w", err)
	}
	if err := o.meterProvider.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown meter provider: %w", err)
	}
	return nil
}
