package symphony

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoRequest struct {
	Message string
}

type echoHandler struct{}

func (echoHandler) Handle(_ context.Context, req echoRequest) (string, error) {
	return "echo: " + req.Message, nil
}

// renamedHandler conforms through the fallback phase: no method is named
// Handle, but exactly one exported method has the expected shape.
type renamedHandler struct{}

func (renamedHandler) Execute(_ context.Context, req echoRequest) (string, error) {
	return "executed: " + req.Message, nil
}

func (renamedHandler) Describe() string { return "renamed" }

type ambiguousHandler struct{}

func (ambiguousHandler) HandleFast(_ context.Context, req echoRequest) (string, error) {
	return req.Message, nil
}

func (ambiguousHandler) HandleSlow(_ context.Context, req echoRequest) (string, error) {
	return req.Message, nil
}

// preferredHandler has a conforming Handle plus another conforming method:
// the named method must win without raising an ambiguity.
type preferredHandler struct{}

func (preferredHandler) Handle(_ context.Context, req echoRequest) (string, error) {
	return "handle: " + req.Message, nil
}

func (preferredHandler) HandleToo(_ context.Context, req echoRequest) (string, error) {
	return "too: " + req.Message, nil
}

type wrongShapeHandler struct{}

func (wrongShapeHandler) Handle(req echoRequest) (string, error) {
	return req.Message, nil
}

type voidCommand struct{ Name string }

type voidHandler struct{}

func (voidHandler) Handle(_ context.Context, _ voidCommand) error { return nil }

type pingedEvent struct{ ID string }

type pingedHandler struct{}

func (pingedHandler) Handle(_ context.Context, _ pingedEvent) error { return nil }

// valueReturningEventHandler returns a value next to the error, which
// disqualifies it as an event handler.
type valueReturningEventHandler struct{}

func (valueReturningEventHandler) Handle(_ context.Context, _ pingedEvent) (string, error) {
	return "", nil
}

type namedNextBehavior struct{}

func (namedNextBehavior) Handle(ctx context.Context, _ echoRequest, next Next[string]) (string, error) {
	return next(ctx)
}

type rawNextBehavior struct{}

func (rawNextBehavior) Handle(ctx context.Context, _ echoRequest, next func(context.Context) (string, error)) (string, error) {
	return next(ctx)
}

type untypedBehavior struct{}

func (untypedBehavior) Handle(ctx context.Context, _ any, next Next[any]) (any, error) {
	return next(ctx)
}

var (
	echoRequestType = reflect.TypeOf(echoRequest{})
	stringType      = reflect.TypeOf("")
)

func TestResolveRequestMethod(t *testing.T) {
	t.Run("resolves the method named Handle", func(t *testing.T) {
		m, err := resolveRequestMethod(reflect.TypeOf(echoHandler{}), echoRequestType, stringType)
		require.NoError(t, err)
		assert.Equal(t, echoRequestType, m.request)
		assert.Equal(t, stringType, m.response)
		assert.False(t, m.void)
	})

	t.Run("falls back to a conforming method with a different name", func(t *testing.T) {
		m, err := resolveRequestMethod(reflect.TypeOf(renamedHandler{}), echoRequestType, stringType)
		require.NoError(t, err)
		assert.Equal(t, stringType, m.response)
	})

	t.Run("prefers the Handle method over other conforming methods", func(t *testing.T) {
		m, err := resolveRequestMethod(reflect.TypeOf(preferredHandler{}), echoRequestType, stringType)
		require.NoError(t, err)

		out := m.fn.Call([]reflect.Value{
			reflect.ValueOf(preferredHandler{}),
			reflect.ValueOf(context.Background()),
			reflect.ValueOf(echoRequest{Message: "hi"}),
		})
		assert.Equal(t, "handle: hi", out[0].Interface())
	})

	t.Run("fails on ambiguous conforming methods", func(t *testing.T) {
		_, err := resolveRequestMethod(reflect.TypeOf(ambiguousHandler{}), echoRequestType, stringType)

		var ambiguousErr *AmbiguousMethodError
		require.ErrorAs(t, err, &ambiguousErr)
		assert.ElementsMatch(t, []string{"HandleFast", "HandleSlow"}, ambiguousErr.Matches)
	})

	t.Run("fails with diagnostics when no method conforms", func(t *testing.T) {
		_, err := resolveRequestMethod(reflect.TypeOf(wrongShapeHandler{}), echoRequestType, stringType)

		var resolutionErr *MethodResolutionError
		require.ErrorAs(t, err, &resolutionErr)
		assert.Equal(t, reflect.TypeOf(wrongShapeHandler{}), resolutionErr.Owner)
		assert.Equal(t, "Handle", resolutionErr.Method)
		assert.Contains(t, resolutionErr.Searched, "Handle")
		assert.NotEmpty(t, resolutionErr.Signature)
	})

	t.Run("accepts the bare-error command shape for a Unit response", func(t *testing.T) {
		m, err := resolveRequestMethod(reflect.TypeOf(voidHandler{}), reflect.TypeOf(voidCommand{}), unitType)
		require.NoError(t, err)
		assert.True(t, m.void)
		assert.Equal(t, unitType, m.response)
	})

	t.Run("rejects the bare-error shape for non-Unit responses", func(t *testing.T) {
		_, err := resolveRequestMethod(reflect.TypeOf(voidHandler{}), reflect.TypeOf(voidCommand{}), stringType)

		var resolutionErr *MethodResolutionError
		assert.ErrorAs(t, err, &resolutionErr)
	})

	t.Run("resolves a functional adapter", func(t *testing.T) {
		fn := RequestHandlerFunc[echoRequest, string](func(_ context.Context, req echoRequest) (string, error) {
			return req.Message, nil
		})

		_, err := resolveRequestMethod(reflect.TypeOf(fn), echoRequestType, stringType)
		assert.NoError(t, err)
	})
}

func TestResolveBehaviorMethod(t *testing.T) {
	t.Run("accepts the named continuation shape", func(t *testing.T) {
		m, err := resolveBehaviorMethod(reflect.TypeOf(namedNextBehavior{}), echoRequestType, stringType)
		require.NoError(t, err)
		assert.Equal(t, reflect.TypeOf(Next[string](nil)), m.next)
	})

	t.Run("accepts the unnamed continuation shape", func(t *testing.T) {
		m, err := resolveBehaviorMethod(reflect.TypeOf(rawNextBehavior{}), echoRequestType, stringType)
		require.NoError(t, err)
		assert.Equal(t, reflect.Func, m.next.Kind())
	})

	t.Run("accepts an untyped behavior for any request and response", func(t *testing.T) {
		_, err := resolveBehaviorMethod(reflect.TypeOf(untypedBehavior{}), echoRequestType, stringType)
		assert.NoError(t, err)
	})

	t.Run("rejects a behavior whose continuation cannot hold the response", func(t *testing.T) {
		_, err := resolveBehaviorMethod(reflect.TypeOf(namedNextBehavior{}), echoRequestType, reflect.TypeOf(0))

		var resolutionErr *MethodResolutionError
		assert.ErrorAs(t, err, &resolutionErr)
	})
}

func TestResolveEventMethod(t *testing.T) {
	t.Run("resolves a bare-error event handler", func(t *testing.T) {
		m, err := resolveEventMethod(reflect.TypeOf(pingedHandler{}), reflect.TypeOf(pingedEvent{}))
		require.NoError(t, err)
		assert.Equal(t, reflect.TypeOf(pingedEvent{}), m.request)
	})

	t.Run("rejects a value-returning method", func(t *testing.T) {
		_, err := resolveEventMethod(reflect.TypeOf(valueReturningEventHandler{}), reflect.TypeOf(pingedEvent{}))

		var resolutionErr *MethodResolutionError
		assert.ErrorAs(t, err, &resolutionErr)
	})
}

func TestValidate(t *testing.T) {
	t.Run("accepts a conforming registration", func(t *testing.T) {
		err := Validate(HandlerKey(echoRequestType, stringType), echoHandler{})
		assert.NoError(t, err)
	})

	t.Run("rejects a nil instance", func(t *testing.T) {
		err := Validate(HandlerKey(echoRequestType, stringType), nil)
		assert.Error(t, err)
	})

	t.Run("rejects a non-conforming registration", func(t *testing.T) {
		err := Validate(EventKey(reflect.TypeOf(pingedEvent{})), valueReturningEventHandler{})

		var resolutionErr *MethodResolutionError
		assert.True(t, errors.As(err, &resolutionErr))
	})
}
