// Package otelsymphony provides OpenTelemetry instrumentation for the
// mediator: a pipeline behavior tracing and measuring request dispatches,
// and a Publisher decorator doing the same for event fan-out.
package otelsymphony

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/jarviisha/symphony/extension/otelsymphony"

type config struct {
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
}

// Option allows to override the default configuration values used by the
// instrumented components.
type Option func(*config)

// WithTracerProvider overrides the global trace.TracerProvider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(cfg *config) {
		if tp != nil {
			cfg.tracerProvider = tp
		}
	}
}

// WithMeterProvider overrides the global metric.MeterProvider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(cfg *config) {
		if mp != nil {
			cfg.meterProvider = mp
		}
	}
}

func newConfig(opts ...Option) config {
	cfg := config{
		tracerProvider: otel.GetTracerProvider(),
		meterProvider:  otel.GetMeterProvider(),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

func (cfg config) tracer() trace.Tracer {
	return cfg.tracerProvider.Tracer(instrumentationName)
}

func (cfg config) meter() metric.Meter {
	return cfg.meterProvider.Meter(instrumentationName)
}
