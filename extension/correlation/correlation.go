// Package correlation carries correlation and causation identifiers on the
// dispatch context, so that handlers and downstream collaborators can
// correlate the messages produced by a single logical flow.
package correlation

import (
	"context"

	"github.com/google/uuid"

	"github.com/jarviisha/symphony"
)

// Metadata keys conventionally used when exporting the identifiers.
const (
	CorrelationIDKey = "Correlation-Id"
	CausationIDKey   = "Causation-Id"
)

type (
	correlationCtxKey struct{}
	causationCtxKey   struct{}
)

// WithCorrelationID returns a context carrying the provided correlation id.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationCtxKey{}, id)
}

// WithCausationID returns a context carrying the provided causation id.
func WithCausationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, causationCtxKey{}, id)
}

// CorrelationID returns the correlation id carried by the context, if any.
func CorrelationID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(correlationCtxKey{}).(string)
	return id, ok && id != ""
}

// CausationID returns the causation id carried by the context, if any.
func CausationID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(causationCtxKey{}).(string)
	return id, ok && id != ""
}

// Generator produces unique identifiers for each dispatch.
type Generator func() string

var _ symphony.Pipeline = Behavior{}

// Behavior is an untyped pipeline stage stamping identifiers on the
// dispatch context: the causation id is renewed on every dispatch, while
// the correlation id is inherited from the caller when present, so an
// entire flow shares it.
type Behavior struct {
	// Generator overrides the identifier source. Defaults to uuid.NewString.
	Generator Generator
}

// Handle implements symphony.Pipeline.
func (b Behavior) Handle(ctx context.Context, req any, next symphony.Next[any]) (any, error) {
	generate := b.Generator
	if generate == nil {
		generate = uuid.NewString
	}

	id := generate()

	if _, ok := CorrelationID(ctx); !ok {
		ctx = WithCorrelationID(ctx, id)
	}

	ctx = WithCausationID(ctx, id)

	return next(ctx)
}
