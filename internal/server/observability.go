package server

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	oteltrace "go.opentelemetry.io/otel/trace"
)

type Observability struct {
	Tracer oteltrace.Tracer
	Meter  metric.Meter

	traceProvider     *sdktrace.TracerProvider
	AuditCounter      metric.Int64Counter
	CollectorDuration metric.Int64Histogram
	CriticalFindings  metric.Int64Counter
	RateLimited       metric.Int64Counter
}

func SetupObservability(ctx context.Context, cfg ObservabilityConfig) (*Observability, error) {
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "audit-api"
	}
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("build otel resource: %w", err)
	}
	sampler := sdktrace.TraceIDRatioBased(cfg.SampleRatio)
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
	)
	if cfg.OTLPEndpoint != "" {
		exporter, exportErr := otlptracegrpc.New(ctx,
			otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint),
			otlptracegrpc.WithInsecure(),
		)
		if exportErr != nil {
			return nil, fmt.Errorf("create otlp trace exporter: %w", exportErr)
		}
		tp = sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exporter),
			sdktrace.WithResource(res),
			sdktrace.WithSampler(sampler),
		)
	} else {
		slog.Info("otel trace exporter not configured; using local tracer provider")
	}
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	meter := otel.Meter(serviceName)
	tracer := otel.Tracer(serviceName)
	auditCounter, _ := meter.Int64Counter("audit_run_total")
	collectorDuration, _ := meter.Int64Histogram("audit_collector_duration_ms")
	criticalFindings, _ := meter.Int64Counter("audit_critical_findings_total")
	rateLimited, _ := meter.Int64Counter("audit_rate_limited_total")
	return &Observability{
		Tracer:            tracer,
		Meter:             meter,
		traceProvider:     tp,
		AuditCounter:      auditCounter,
		CollectorDuration: collectorDuration,
		CriticalFindings:  criticalFindings,
		RateLimited:       rateLimited,
	}, nil
}

func (o *Observability) Shutdown(ctx context.Context) error {
	if o == nil || o.traceProvider == nil {
		return nil
	}
	return o.traceProvider.Shutdown(ctx)
}

func (o *Observability) MarkAudit(ctx context.Context, status string) {
	if o == nil {
		return
	}
	o.AuditCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("status", status),
	))
}

func (o *Observability) MarkCollector(ctx context.Context, durationMS int64) {
	if o == nil {
		return
	}
	o.CollectorDuration.Record(ctx, durationMS)
}

func (o *Observability) MarkCriticalFindings(ctx context.Context, count int) {
	if o == nil || count <= 0 {
		return
	}
	o.CriticalFindings.Add(ctx, int64(count))
}

func (o *Observability) MarkRateLimited(ctx context.Context, reason string) {
	if o == nil {
		return
	}
	o.RateLimited.Add(ctx, 1, metric.WithAttributes(
		attribute.String("reason", reason),
	))
}
