// Package promsymphony exports Prometheus metrics for requests dispatched
// through the mediator.
package promsymphony

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jarviisha/symphony"
)

var _ symphony.Pipeline = &Collector{}

// Collector is an untyped pipeline behavior counting dispatches and
// observing their duration, labeled by request type and outcome.
//
// Use NewCollector to create and register a new instance.
type Collector struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewCollector creates a Collector and registers its metrics on the
// provided registerer. It panics if the metrics are already registered,
// matching the usual prometheus.MustRegister behavior.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "symphony_requests_total",
				Help: "Requests dispatched through the mediator.",
			},
			[]string{"request", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "symphony_request_duration_seconds",
				Help:    "Request dispatch duration in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"request"},
		),
	}

	reg.MustRegister(c.requests, c.duration)

	return c
}

// Handle implements symphony.Pipeline.
func (c *Collector) Handle(ctx context.Context, req any, next symphony.Next[any]) (any, error) {
	request := fmt.Sprintf("%T", req)

	start := time.Now()
	response, err := next(ctx)
	c.duration.WithLabelValues(request).Observe(time.Since(start).Seconds())

	outcome := "success"
	if err != nil {
		outcome = "error"
	}

	c.requests.WithLabelValues(request, outcome).Inc()

	return response, err
}
