package symphony

import (
	"context"
	"reflect"

	"github.com/jarviisha/symphony/logger"
)

// Publisher is the event-publication side of the Mediator. The send side
// cannot be expressed as an interface: Go methods cannot introduce their own
// type parameters, so Send is a package-level function instead.
type Publisher interface {
	// Publish fans the event out to every registered handler for its type,
	// strictly sequentially and in registration order. The first handler
	// failure stops the fan-out and is returned unchanged.
	Publish(ctx context.Context, ev any) error
}

// Mediator routes requests to their single handler through the behavior
// pipeline, and fans events out to their subscribers. It owns no handler
// lifecycle and introduces no parallelism of its own: a single Send or
// Publish call executes strictly sequentially.
type Mediator struct {
	container Container
	logger    logger.Logger
}

var _ Publisher = &Mediator{}

// Option configures a Mediator instance.
type Option func(*Mediator)

// WithLogger attaches a structured logger used for engine-level
// diagnostics. Handler and behavior code is never logged on its behalf.
func WithLogger(l logger.Logger) Option {
	return func(m *Mediator) { m.logger = l }
}

// New returns a Mediator resolving handlers and behaviors from the provided
// container.
func New(container Container, opts ...Option) *Mediator {
	m := &Mediator{container: container}
	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Send dispatches req to its registered handler and returns the typed
// response.
//
// The declared response type T must match the type the handler was
// registered with; command handlers with no meaningful response are
// dispatched with T = Unit.
//
// Behaviors registered for the request wrap the handler in FIFO execution
// order: the first registered behavior runs outermost, and its call to next
// descends through subsequently registered behaviors before reaching the
// handler. With zero behaviors the handler is invoked directly.
//
// Errors raised by handler or behavior code are returned exactly as thrown;
// engine diagnostics (handler not found, method resolution failures) carry
// structured context instead.
func Send[T any](ctx context.Context, m *Mediator, req any) (T, error) {
	var zero T

	if req == nil {
		return zero, ErrNilRequest
	}

	if err := ctx.Err(); err != nil {
		return zero, err
	}

	requestType := reflect.TypeOf(req)
	responseType := reflect.TypeOf((*T)(nil)).Elem()

	key := HandlerKey(requestType, responseType)

	handler, ok := m.container.ResolveOne(key)
	if !ok || handler == nil {
		return zero, &HandlerNotFoundError{Request: requestType, Key: key}
	}

	invoke, err := requestInvokerFor(reflect.TypeOf(handler), requestType, responseType)
	if err != nil {
		return zero, err
	}

	// The widening conversion: the typed terminal handler call lifted into
	// the engine's uniform untyped continuation shape.
	next := continuation(func(ctx context.Context) (any, error) {
		return invoke(ctx, handler, req)
	})

	behaviors := discardNil(m.container.ResolveAll(BehaviorKey(requestType, responseType)))

	// Wrap from the last registered behavior to the first, so the first
	// registered behavior ends up outermost.
	for i := len(behaviors) - 1; i >= 0; i-- {
		behavior := behaviors[i]

		wrap, err := behaviorInvokerFor(reflect.TypeOf(behavior), requestType, responseType)
		if err != nil {
			return zero, err
		}

		inner := next
		next = func(ctx context.Context) (any, error) {
			return wrap(ctx, behavior, req, inner)
		}
	}

	logger.Debug(m.logger, "dispatching request",
		logger.With("request", requestType.String()),
		logger.With("behaviors", len(behaviors)),
	)

	out, err := next(ctx)
	if err != nil {
		return zero, err
	}

	response, ok := out.(T)
	if !ok {
		return zero, &InvalidResponseError{Declared: responseType, Actual: reflect.TypeOf(out)}
	}

	return response, nil
}

// Publish fans ev out to every handler registered for its type. Zero
// registered handlers is a valid configuration and completes trivially.
//
// Handlers run strictly sequentially in registration order. Cancellation is
// re-checked before each handler, so a cancellation requested mid-publish
// stops the fan-out before the next handler starts; a handler already
// running is left to complete or fail on its own.
func (m *Mediator) Publish(ctx context.Context, ev any) error {
	if ev == nil {
		return ErrNilEvent
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	eventType := reflect.TypeOf(ev)

	handlers := discardNil(m.container.ResolveAll(EventKey(eventType)))
	if len(handlers) == 0 {
		logger.Debug(m.logger, "no handlers registered for event",
			logger.With("event", eventType.String()),
		)

		return nil
	}

	logger.Debug(m.logger, "publishing event",
		logger.With("event", eventType.String()),
		logger.With("handlers", len(handlers)),
	)

	for _, handler := range handlers {
		if err := ctx.Err(); err != nil {
			return err
		}

		invoke, err := eventInvokerFor(reflect.TypeOf(handler), eventType)
		if err != nil {
			return err
		}

		if err := invoke(ctx, handler, ev); err != nil {
			return err
		}
	}

	return nil
}

// discardNil drops nil entries a container should never yield, but the
// engine tolerates.
func discardNil(instances []any) []any {
	out := make([]any, 0, len(instances))

	for _, instance := range instances {
		if instance != nil {
			out = append(out, instance)
		}
	}

	return out
}
