package symphony

import (
	"context"
	"reflect"
)

type (
	// continuation is the engine's uniform internal representation of "the
	// rest of the pipeline": a call producing an untyped result.
	continuation func(ctx context.Context) (any, error)

	// requestInvoker is a compiled request handler call.
	requestInvoker func(ctx context.Context, handler, req any) (any, error)

	// behaviorInvoker is a compiled behavior call. The untyped continuation
	// is adapted to the continuation shape the behavior method declares.
	behaviorInvoker func(ctx context.Context, behavior, req any, next continuation) (any, error)

	// eventInvoker is a compiled event handler call.
	eventInvoker func(ctx context.Context, handler, ev any) error
)

var nilError = reflect.Zero(errorType)

// compileRequest turns a resolved request handler method into a reusable
// invoker. The command shape is adapted to the uniform contract by
// substituting the Unit value for its missing result.
func compileRequest(m method) requestInvoker {
	if m.void {
		return func(ctx context.Context, handler, req any) (any, error) {
			out := m.fn.Call([]reflect.Value{
				reflect.ValueOf(handler),
				reflect.ValueOf(ctx),
				reflect.ValueOf(req),
			})

			return Unit{}, callError(out[0])
		}
	}

	return func(ctx context.Context, handler, req any) (any, error) {
		out := m.fn.Call([]reflect.Value{
			reflect.ValueOf(handler),
			reflect.ValueOf(ctx),
			reflect.ValueOf(req),
		})

		if err := callError(out[1]); err != nil {
			return nil, err
		}

		return extractResult(out[0], m)
	}
}

// compileBehavior turns a resolved behavior method into a reusable invoker.
// The continuation the behavior receives is materialized fresh on every
// invocation, in whichever shape the method declares.
func compileBehavior(m method) behaviorInvoker {
	return func(ctx context.Context, behavior, req any, next continuation) (any, error) {
		out := m.fn.Call([]reflect.Value{
			reflect.ValueOf(behavior),
			reflect.ValueOf(ctx),
			reflect.ValueOf(req),
			narrowNext(m.next, next),
		})

		if err := callError(out[1]); err != nil {
			return nil, err
		}

		return extractResult(out[0], m)
	}
}

// compileEvent turns a resolved event handler method into a reusable
// invoker.
func compileEvent(m method) eventInvoker {
	return func(ctx context.Context, handler, ev any) error {
		out := m.fn.Call([]reflect.Value{
			reflect.ValueOf(handler),
			reflect.ValueOf(ctx),
			reflect.ValueOf(ev),
		})

		return callError(out[0])
	}
}

// narrowNext materializes the behavior's declared continuation parameter
// type around the engine's untyped continuation. The wrapper delegates to
// the untyped call exactly once per invocation and converts its result to
// the declared shape.
func narrowNext(nextType reflect.Type, next continuation) reflect.Value {
	resultType := nextType.Out(0)

	return reflect.MakeFunc(nextType, func(args []reflect.Value) []reflect.Value {
		out, err := next(args[0].Interface().(context.Context))

		result := reflect.New(resultType).Elem()
		if err != nil {
			return []reflect.Value{result, reflect.ValueOf(err)}
		}

		if out != nil {
			v := reflect.ValueOf(out)
			if !v.Type().AssignableTo(resultType) {
				return []reflect.Value{result, reflect.ValueOf(&InvalidResponseError{Declared: resultType, Actual: v.Type()})}
			}

			result.Set(v)
		}

		return []reflect.Value{result, nilError}
	})
}

// callError extracts the error return of a reflective call. The nil guard
// avoids asserting on a nil interface value; a typed-nil error inside the
// interface passes through exactly as a direct call would produce it.
func callError(v reflect.Value) error {
	if v.IsNil() {
		return nil
	}

	return v.Interface().(error)
}

// extractResult unboxes the value produced by a handler or behavior call.
// A nil value for a nilable declared response type is a contract violation;
// value-typed responses pass through unchanged.
func extractResult(v reflect.Value, m method) (any, error) {
	if nilable(v.Kind()) && v.IsNil() {
		return nil, &NilResultError{Owner: m.owner, Response: m.response}
	}

	return v.Interface(), nil
}

func nilable(k reflect.Kind) bool {
	switch k {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
		return true
	default:
		return false
	}
}
