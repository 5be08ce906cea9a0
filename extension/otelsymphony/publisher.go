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

var _ symphony.Publisher = &InstrumentedPublisher{}

// InstrumentedPublisher is a wrapper to provide OpenTelemetry
// instrumentation for symphony.Publisher compatible implementations, usable
// seamlessly in place of the wrapped instance.
//
// Use InstrumentPublisher to create a new instance.
type InstrumentedPublisher struct {
	tracer    trace.Tracer
	meter     metric.Meter
	publisher symphony.Publisher

	count    metric.Int64Counter
	duration metric.Int64Histogram
}

// InstrumentPublisher creates a new InstrumentedPublisher instance.
func InstrumentPublisher(publisher symphony.Publisher, opts ...Option) (*InstrumentedPublisher, error) {
	cfg := newConfig(opts...)

	ip := &InstrumentedPublisher{
		tracer:    cfg.tracer(),
		meter:     cfg.meter(),
		publisher: publisher,
	}

	if err := ip.registerMetrics(); err != nil {
		return nil, err
	}

	return ip, nil
}

func (ip *InstrumentedPublisher) registerMetrics() error {
	var err error

	if ip.count, err = ip.meter.Int64Counter(
		"symphony.events.count",
		metric.WithDescription("Count of events published through the mediator"),
	); err != nil {
		return fmt.Errorf("otelsymphony: failed to register metric: %w", err)
	}

	if ip.duration, err = ip.meter.Int64Histogram(
		"symphony.events.duration.milliseconds",
		metric.WithUnit("ms"),
		metric.WithDescription("Duration in milliseconds of event fan-outs published through the mediator"),
	); err != nil {
		return fmt.Errorf("otelsymphony: failed to register metric: %w", err)
	}

	return nil
}

// Publish delegates the fan-out to the underlying Publisher and records a
// trace of its execution.
func (ip *InstrumentedPublisher) Publish(ctx context.Context, ev any) (err error) {
	attributes := []attribute.KeyValue{
		EventTypeAttribute.String(fmt.Sprintf("%T", ev)),
	}

	ctx, span := ip.tracer.Start(ctx, PublishSpanName, trace.WithAttributes(attributes...))
	defer span.End()

	start := time.Now()
	defer func() {
		ip.duration.Record(ctx, time.Since(start).Milliseconds(), metric.WithAttributes(attributes...))
		ip.count.Add(ctx, 1, metric.WithAttributes(append(attributes, ErrorAttribute.Bool(err != nil))...))
	}()

	if err = ip.publisher.Publish(ctx, ev); err != nil {
		span.RecordError(err)
	}

	return err
}
