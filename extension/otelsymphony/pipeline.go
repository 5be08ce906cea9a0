package otelsymphony

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/jarviisha/symphony"
)

var _ symphony.Pipeline = &InstrumentedPipeline{}

// InstrumentedPipeline is an untyped behavior that wraps every request
// dispatch to provide telemetry support using OpenTelemetry.
//
// Use NewPipeline to create a new instance.
type InstrumentedPipeline struct {
	tracer trace.Tracer
	meter  metric.Meter

	count    metric.Int64Counter
	duration metric.Int64Histogram
}

// NewPipeline creates a new InstrumentedPipeline instance.
func NewPipeline(opts ...Option) (*InstrumentedPipeline, error) {
	cfg := newConfig(opts...)

	ip := &InstrumentedPipeline{
		tracer: cfg.tracer(),
		meter:  cfg.meter(),
	}

	if err := ip.registerMetrics(); err != nil {
		return nil, err
	}

	return ip, nil
}

func (ip *InstrumentedPipeline) registerMetrics() error {
	var err error

	if ip.count, err = ip.meter.Int64Counter(
		"symphony.requests.count",
		metric.WithDescription("Count of requests dispatched through the mediator"),
	); err != nil {
		return fmt.Errorf("otelsymphony: failed to register metric: %w", err)
	}

	if ip.duration, err = ip.meter.Int64Histogram(
		"symphony.requests.duration.milliseconds",
		metric.WithUnit("ms"),
		metric.WithDescription("Duration in milliseconds of requests dispatched through the mediator"),
	); err != nil {
		return fmt.Errorf("otelsymphony: failed to register metric: %w", err)
	}

	return nil
}

// Handle dispatches the request through the rest of the pipeline and
// reports telemetry data on its execution.
func (ip *InstrumentedPipeline) Handle(ctx context.Context, req any, next symphony.Next[any]) (response any, err error) {
	attributes := []attribute.KeyValue{
		RequestTypeAttribute.String(fmt.Sprintf("%T", req)),
	}

	ctx, span := ip.tracer.Start(ctx, SendSpanName, trace.WithAttributes(attributes...))
	defer span.End()

	start := time.Now()
	defer func() {
		ip.duration.Record(ctx, time.Since(start).Milliseconds(), metric.WithAttributes(attributes...))
		ip.count.Add(ctx, 1, metric.WithAttributes(append(attributes, ErrorAttribute.Bool(err != nil))...))
	}()

	if response, err = next(ctx); err != nil {
		span.RecordError(err)
	}

	return response, err
}
