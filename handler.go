package symphony

import "context"

// Next is the continuation passed to a behavior: it invokes the remainder of
// the pipeline after the behavior's position and returns its response.
//
// A behavior method may declare its continuation parameter either as Next[T]
// or as the equivalent unnamed func(context.Context) (T, error) type; the
// dispatcher materializes whichever shape the method expects.
type Next[T any] func(ctx context.Context) (T, error)

// RequestHandler is the terminal recipient of a request, producing its
// response.
//
// Conformance is discovered reflectively at dispatch time, so implementing
// this interface is not strictly required; it exists for documentation and
// compile-time checks against concrete handler types.
type RequestHandler[R any, T any] interface {
	Handle(ctx context.Context, req R) (T, error)
}

// CommandHandler is the convenience shape for requests with no meaningful
// response. The dispatcher adapts it to the uniform response-bearing
// contract, returning Unit to the caller.
type CommandHandler[R any] interface {
	Handle(ctx context.Context, req R) error
}

// EventHandler consumes a published event. Event handler methods must return
// a bare error; a value-returning method does not qualify.
type EventHandler[E any] interface {
	Handle(ctx context.Context, ev E) error
}

// Behavior wraps handler execution for a specific request and response type
// pair. Behaviors compose: calling next descends into the rest of the
// pipeline, and the returned value may be transformed on the way back out.
type Behavior[R any, T any] interface {
	Handle(ctx context.Context, req R, next Next[T]) (T, error)
}

// Pipeline is the untyped behavior shape, applicable to every request
// regardless of its response type. Cross-cutting concerns (logging, tracing,
// metrics, correlation) are usually written against this interface.
type Pipeline interface {
	Handle(ctx context.Context, req any, next Next[any]) (any, error)
}

// RequestHandlerFunc is a functional adapter for the RequestHandler
// interface. Useful for testing and stateless handlers.
type RequestHandlerFunc[R any, T any] func(context.Context, R) (T, error)

// Handle handles the provided request through the functional handler.
func (fn RequestHandlerFunc[R, T]) Handle(ctx context.Context, req R) (T, error) {
	return fn(ctx, req)
}

// CommandHandlerFunc is a functional adapter for the CommandHandler
// interface.
type CommandHandlerFunc[R any] func(context.Context, R) error

// Handle handles the provided command through the functional handler.
func (fn CommandHandlerFunc[R]) Handle(ctx context.Context, req R) error {
	return fn(ctx, req)
}

// EventHandlerFunc is a functional adapter for the EventHandler interface.
type EventHandlerFunc[E any] func(context.Context, E) error

// Handle handles the provided event through the functional handler.
func (fn EventHandlerFunc[E]) Handle(ctx context.Context, ev E) error {
	return fn(ctx, ev)
}

// PipelineFunc is a functional adapter for the Pipeline interface.
type PipelineFunc func(context.Context, any, Next[any]) (any, error)

// Handle handles the provided request through the functional behavior.
func (fn PipelineFunc) Handle(ctx context.Context, req any, next Next[any]) (any, error) {
	return fn(ctx, req, next)
}
