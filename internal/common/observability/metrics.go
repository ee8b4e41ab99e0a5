// internal/common/observability/metrics.go
package observability

import (
	"context"
	"log"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

type Observability struct {
	meterProvider      *metric.MeterProvider
	estimationCounter  otelmetric.Int64Counter
	estimationDuration otelmetric.Float64Histogram
	trainingDuration   otelmetric.Float64Histogram
}

// New registers the exporter with the default prometheus registry.
func New(serviceName string) *Observability {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Observability {
	exporter, err := otelprom.New(otelprom.WithRegisterer(reg))
	if err != nil {
		log.Printf("Failed to create Prometheus exporter: %v", err)
		return &Observability{}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	estimationCounter, _ := meter.Int64Counter(
		"estimations.processed",
		otelmetric.WithDescription("Number of estimations processed"),
	)

	estimationDuration, _ := meter.Float64Histogram(
		"estimations.duration",
		otelmetric.WithDescription("Estimation duration"),
		otelmetric.WithUnit("ms"),
	)

	trainingDuration, _ := meter.Float64Histogram(
		"training.duration",
		otelmetric.WithDescription("Training run duration"),
		otelmetric.WithUnit("s"),
	)

	return &Observability{
		meterProvider:      provider,
		estimationCounter:  estimationCounter,
		estimationDuration: estimationDuration,
		trainingDuration:   trainingDuration,
	}
}

func (o *Observability) RecordEstimation(ctx context.Context, duration time.Duration, channel, status string) {
	attrs := otelmetric.WithAttributes(
		attribute.String("channel", channel),
		attribute.String("status", status),
	)
	if o.estimationCounter != nil {
		o.estimationCounter.Add(ctx, 1, attrs)
	}
	if o.estimationDuration != nil {
		o.estimationDuration.Record(ctx, float64(duration.Microseconds())/1000, attrs)
	}
}

func (o *Observability) RecordTrainingRun(ctx context.Context, duration time.Duration, status string) {
	if o.trainingDuration != nil {
		o.trainingDuration.Record(ctx, duration.Seconds(), otelmetric.WithAttributes(
			attribute.String("status", status),
		))
	}
}

func (o *Observability) Shutdown() {
	if o.meterProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = o.meterProvider.Shutdown(ctx)
	}
}
