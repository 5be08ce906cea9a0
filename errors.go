package symphony

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

var (
	// ErrNilRequest is returned by Send when the request argument is nil.
	// A nil request never reaches container resolution.
	ErrNilRequest = errors.New("symphony: request is nil")

	// ErrNilEvent is returned by Publish when the event argument is nil.
	ErrNilEvent = errors.New("symphony: event is nil")
)

// HandlerNotFoundError is returned by Send when the container yields no
// handler instance for the request type.
type HandlerNotFoundError struct {
	// Request is the runtime type of the dispatched request.
	Request reflect.Type

	// Key is the container lookup key that produced no instance.
	Key Key
}

func (e *HandlerNotFoundError) Error() string {
	return fmt.Sprintf("symphony: no handler registered for request %s (lookup key: %s)", e.Request, e.Key)
}

// MethodResolutionError reports that reflection could not locate a handler
// method conforming to the expected shape on the target type. It indicates a
// handler-authoring defect and is never retried.
type MethodResolutionError struct {
	// Owner is the concrete type whose method set was inspected.
	Owner reflect.Type

	// Method is the preferred method name searched in the first phase.
	Method string

	// Signature describes the expected method shape.
	Signature string

	// Searched lists the exported method names inspected during the
	// fallback phase.
	Searched []string
}

func (e *MethodResolutionError) Error() string {
	return fmt.Sprintf(
		"symphony: %s has no method conforming to %q (searched: %s)",
		e.Owner, e.Signature, strings.Join(e.Searched, ", "),
	)
}

// AmbiguousMethodError reports that more than one exported method on the
// target type conforms to the expected shape. Resolution fails rather than
// picking one arbitrarily.
type AmbiguousMethodError struct {
	Owner     reflect.Type
	Signature string

	// Matches lists the names of every conforming method.
	Matches []string
}

func (e *AmbiguousMethodError) Error() string {
	return fmt.Sprintf(
		"symphony: ambiguous resolution on %s, methods %s all conform to %q",
		e.Owner, strings.Join(e.Matches, ", "), e.Signature,
	)
}

// NilResultError reports a handler or behavior that completed without error
// but produced a nil value for a nilable declared response type. Value-typed
// responses, Unit included, never trigger it.
type NilResultError struct {
	// Owner is the handler or behavior type that produced the nil result.
	Owner reflect.Type

	// Response is the declared response type.
	Response reflect.Type
}

func (e *NilResultError) Error() string {
	return fmt.Sprintf("symphony: %s returned a nil result for response type %s", e.Owner, e.Response)
}

// InvalidResponseError reports a pipeline result whose dynamic type cannot
// be assigned to the response type declared at the Send call site.
type InvalidResponseError struct {
	Declared reflect.Type
	Actual   reflect.Type // nil when the pipeline produced an untyped nil
}

func (e *InvalidResponseError) Error() string {
	if e.Actual == nil {
		return fmt.Sprintf("symphony: pipeline produced no value for declared response type %s", e.Declared)
	}

	return fmt.Sprintf("symphony: pipeline produced %s, not assignable to declared response type %s", e.Actual, e.Declared)
}
