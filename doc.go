// Package symphony is an in-process mediator: a request/response dispatcher
// with a composable behavior pipeline, and an event publisher with strictly
// sequential fan-out.
//
// Handlers, behaviors and event handlers are resolved at dispatch time from a
// Container, matched through reflection against a small set of accepted
// method shapes, and compiled once into invocation closures that are cached
// for the lifetime of the process.
//
// Use the `registry` package for an in-memory Container implementation which
// preserves registration order, and the `extension` packages to plug in zap
// logging, OpenTelemetry and Prometheus instrumentation, correlation
// identifiers, or go.uber.org/fx wiring.
package symphony
